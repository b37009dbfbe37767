// Copyright 2022 Board of Trustees of the University of Illinois.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package web

import (
	"encoding/json"
	"io"
	"net/http"

	"workplace-building-block/core"
	"workplace-building-block/core/model"

	"github.com/gorilla/mux"
	"github.com/rokwire/logging-library-go/v2/logs"
	"github.com/rokwire/logging-library-go/v2/logutils"
	validator "gopkg.in/go-playground/validator.v9"
)

// ServicesApisHandler handles the rest APIs implementation
type ServicesApisHandler struct {
	coreAPIs *core.APIs
}

func (h ServicesApisHandler) deleteOrganization(l *logs.Log, claims *model.Claims, r *http.Request) logs.HTTPResponse {
	params := mux.Vars(r)
	orgID := params["id"]
	if len(orgID) == 0 {
		return l.HTTPResponseErrorData(logutils.StatusMissing, logutils.TypePathParam, logutils.StringArgs("id"), nil, http.StatusBadRequest, false)
	}

	err := h.coreAPIs.Services.SerDeleteOrganization(claims, orgID, l)
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionDelete, model.TypeOrganization, nil, err, http.StatusInternalServerError, true)
	}

	return l.HTTPResponseSuccess()
}

func (h ServicesApisHandler) deleteLocation(l *logs.Log, claims *model.Claims, r *http.Request) logs.HTTPResponse {
	params := mux.Vars(r)
	locationID := params["id"]
	if len(locationID) == 0 {
		return l.HTTPResponseErrorData(logutils.StatusMissing, logutils.TypePathParam, logutils.StringArgs("id"), nil, http.StatusBadRequest, false)
	}

	err := h.coreAPIs.Services.SerDeleteLocation(claims, locationID, l)
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionDelete, model.TypeLocation, nil, err, http.StatusInternalServerError, true)
	}

	return l.HTTPResponseSuccess()
}

func (h ServicesApisHandler) removeEmployee(l *logs.Log, claims *model.Claims, r *http.Request) logs.HTTPResponse {
	params := mux.Vars(r)
	orgID := params["id"]
	locationID := params["location-id"]
	userID := params["user-id"]
	if len(orgID) == 0 || len(locationID) == 0 || len(userID) == 0 {
		return l.HTTPResponseErrorData(logutils.StatusMissing, logutils.TypePathParam, nil, nil, http.StatusBadRequest, false)
	}

	err := h.coreAPIs.Services.SerRemoveEmployee(claims, orgID, locationID, userID, l)
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionDelete, model.TypeEmployeeLocation, nil, err, http.StatusInternalServerError, true)
	}

	return l.HTTPResponseSuccess()
}

func (h ServicesApisHandler) deleteEmployeeAccount(l *logs.Log, claims *model.Claims, r *http.Request) logs.HTTPResponse {
	params := mux.Vars(r)
	orgID := params["id"]
	userID := params["user-id"]
	if len(orgID) == 0 || len(userID) == 0 {
		return l.HTTPResponseErrorData(logutils.StatusMissing, logutils.TypePathParam, nil, nil, http.StatusBadRequest, false)
	}

	err := h.coreAPIs.Services.SerDeleteEmployeeAccount(claims, orgID, userID, l)
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionDelete, model.TypeEmployee, nil, err, http.StatusInternalServerError, true)
	}

	return l.HTTPResponseSuccess()
}

type updateRosterEntry struct {
	Role       string   `json:"role" validate:"required,oneof=manager supervisor staff"`
	Positions  []string `json:"positions"`
	WageHourly float64  `json:"wage_hourly"`
}

func (h ServicesApisHandler) updateRoster(l *logs.Log, claims *model.Claims, r *http.Request) logs.HTTPResponse {
	params := mux.Vars(r)
	locationID := params["id"]
	if len(locationID) == 0 {
		return l.HTTPResponseErrorData(logutils.StatusMissing, logutils.TypePathParam, logutils.StringArgs("id"), nil, http.StatusBadRequest, false)
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionRead, logutils.TypeRequestBody, nil, err, http.StatusBadRequest, false)
	}

	var requestData map[string]updateRosterEntry
	err = json.Unmarshal(data, &requestData)
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionUnmarshal, "roster update request", nil, err, http.StatusBadRequest, true)
	}

	validate := validator.New()
	roster := make(map[string]model.EmployeeLocation, len(requestData))
	for userID, entry := range requestData {
		err = validate.Struct(entry)
		if err != nil {
			return l.HTTPResponseErrorAction(logutils.ActionValidate, "roster update request", logutils.StringArgs(userID), err, http.StatusBadRequest, true)
		}
		roster[userID] = model.EmployeeLocation{Role: model.LocationRole(entry.Role), Positions: entry.Positions, WageHourly: entry.WageHourly}
	}

	err = h.coreAPIs.Services.SerUpdateRoster(claims, locationID, roster, l)
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionUpdate, "roster", nil, err, http.StatusInternalServerError, true)
	}

	return l.HTTPResponseSuccess()
}

func (h ServicesApisHandler) recomputeClaims(l *logs.Log, claims *model.Claims, r *http.Request) logs.HTTPResponse {
	params := mux.Vars(r)
	orgID := params["id"]
	userID := params["user-id"]
	if len(orgID) == 0 || len(userID) == 0 {
		return l.HTTPResponseErrorData(logutils.StatusMissing, logutils.TypePathParam, nil, nil, http.StatusBadRequest, false)
	}

	var locationID *string
	if value := r.URL.Query().Get("location_id"); len(value) > 0 {
		locationID = &value
	}

	err := h.coreAPIs.Services.SerRecomputeClaims(claims, orgID, userID, locationID, l)
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionCompute, model.TypeClaims, nil, err, http.StatusInternalServerError, true)
	}

	return l.HTTPResponseSuccess()
}

type publishScheduleRequest struct {
	Recipients []string `json:"recipients"`
}

func (h ServicesApisHandler) publishSchedule(l *logs.Log, claims *model.Claims, r *http.Request) logs.HTTPResponse {
	params := mux.Vars(r)
	locationID := params["id"]
	weekID := params["week-id"]
	if len(locationID) == 0 || len(weekID) == 0 {
		return l.HTTPResponseErrorData(logutils.StatusMissing, logutils.TypePathParam, nil, nil, http.StatusBadRequest, false)
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionRead, logutils.TypeRequestBody, nil, err, http.StatusBadRequest, false)
	}

	var requestData publishScheduleRequest
	err = json.Unmarshal(data, &requestData)
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionUnmarshal, "publish schedule request", nil, err, http.StatusBadRequest, true)
	}

	err = h.coreAPIs.Services.SerPublishSchedule(claims, locationID, weekID, requestData.Recipients, l)
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionUpdate, model.TypeSchedule, nil, err, http.StatusInternalServerError, true)
	}

	return l.HTTPResponseSuccess()
}

// NewServicesApisHandler creates new rest services Handler instance
func NewServicesApisHandler(coreAPIs *core.APIs) ServicesApisHandler {
	return ServicesApisHandler{coreAPIs: coreAPIs}
}
