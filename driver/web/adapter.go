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
	"net/http"

	"workplace-building-block/core"
	"workplace-building-block/core/model"

	"github.com/gorilla/mux"
	"github.com/rokwire/logging-library-go/v2/logs"
	"github.com/rokwire/logging-library-go/v2/logutils"
)

// Adapter entity
type Adapter struct {
	host string
	port string

	auth *Auth

	defaultApisHandler  DefaultApisHandler
	servicesApisHandler ServicesApisHandler
	webhooksApisHandler WebhooksApisHandler

	coreAPIs *core.APIs

	logger *logs.Logger
}

type openHandlerFunc = func(*logs.Log, *http.Request) logs.HTTPResponse
type authHandlerFunc = func(*logs.Log, *model.Claims, *http.Request) logs.HTTPResponse

// Start starts the module
func (we Adapter) Start() {
	router := mux.NewRouter().StrictSlash(true)

	subRouter := router.PathPrefix("/workplace").Subrouter()
	subRouter.HandleFunc("/version", we.wrapFunc(we.defaultApisHandler.version)).Methods("GET")

	///services ///
	servicesSubRouter := subRouter.PathPrefix("/services").Subrouter()
	servicesSubRouter.HandleFunc("/organizations/{id}", we.wrapAuthFunc(we.servicesApisHandler.deleteOrganization)).Methods("DELETE")
	servicesSubRouter.HandleFunc("/organizations/{id}/employees/{user-id}", we.wrapAuthFunc(we.servicesApisHandler.deleteEmployeeAccount)).Methods("DELETE")
	servicesSubRouter.HandleFunc("/organizations/{id}/employees/{user-id}/claims", we.wrapAuthFunc(we.servicesApisHandler.recomputeClaims)).Methods("POST")
	servicesSubRouter.HandleFunc("/organizations/{id}/locations/{location-id}/employees/{user-id}", we.wrapAuthFunc(we.servicesApisHandler.removeEmployee)).Methods("DELETE")
	servicesSubRouter.HandleFunc("/locations/{id}", we.wrapAuthFunc(we.servicesApisHandler.deleteLocation)).Methods("DELETE")
	servicesSubRouter.HandleFunc("/locations/{id}/roster", we.wrapAuthFunc(we.servicesApisHandler.updateRoster)).Methods("PUT")
	servicesSubRouter.HandleFunc("/locations/{id}/schedules/{week-id}/publish", we.wrapAuthFunc(we.servicesApisHandler.publishSchedule)).Methods("POST")

	///webhooks ///
	webhooksSubRouter := subRouter.PathPrefix("/webhooks").Subrouter()
	webhooksSubRouter.HandleFunc("/billing", we.wrapFunc(we.webhooksApisHandler.billingEvent)).Methods("POST")
	webhooksSubRouter.HandleFunc("/storage", we.wrapFunc(we.webhooksApisHandler.storageEvent)).Methods("POST")

	err := http.ListenAndServe(":"+we.port, router)
	if err != nil {
		we.logger.Fatalf("error serving: %s", err)
	}
}

func (we Adapter) wrapFunc(handler openHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		logObj := we.logger.NewRequestLog(req)
		logObj.RequestReceived()

		response := handler(logObj, req)

		logObj.SendHTTPResponse(w, response)
		logObj.RequestComplete()
	}
}

func (we Adapter) wrapAuthFunc(handler authHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		logObj := we.logger.NewRequestLog(req)
		logObj.RequestReceived()

		_, claims, err := we.auth.check(req)
		if err != nil {
			response := logObj.HTTPResponseErrorAction(logutils.ActionValidate, logutils.TypeToken, nil, err, http.StatusUnauthorized, true)
			logObj.SendHTTPResponse(w, response)
			logObj.RequestComplete()
			return
		}

		response := handler(logObj, claims, req)

		logObj.SendHTTPResponse(w, response)
		logObj.RequestComplete()
	}
}

// NewWebAdapter creates new WebAdapter instance
func NewWebAdapter(coreAPIs *core.APIs, host string, port string, verifier TokenVerifier,
	billingWebhookSecret string, logger *logs.Logger) Adapter {
	auth := NewAuth(verifier, logger)

	defaultApisHandler := NewDefaultApisHandler(coreAPIs)
	servicesApisHandler := NewServicesApisHandler(coreAPIs)
	webhooksApisHandler := NewWebhooksApisHandler(coreAPIs, billingWebhookSecret)

	return Adapter{host: host, port: port, auth: auth, defaultApisHandler: defaultApisHandler,
		servicesApisHandler: servicesApisHandler, webhooksApisHandler: webhooksApisHandler,
		coreAPIs: coreAPIs, logger: logger}
}
