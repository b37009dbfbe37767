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
	"strconv"

	"workplace-building-block/core"
	"workplace-building-block/core/model"

	"github.com/rokwire/logging-library-go/v2/logs"
	"github.com/rokwire/logging-library-go/v2/logutils"
	"github.com/stripe/stripe-go/v76/webhook"
	validator "gopkg.in/go-playground/validator.v9"
)

const maxWebhookBodySize = 1 << 16

// WebhooksApisHandler handles the inbound webhook APIs implementation
type WebhooksApisHandler struct {
	coreAPIs *core.APIs

	billingWebhookSecret string
}

// billingEvent receives a signed event from the billing provider
func (h WebhooksApisHandler) billingEvent(l *logs.Log, r *http.Request) logs.HTTPResponse {
	r.Body = http.MaxBytesReader(nil, r.Body, maxWebhookBodySize)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionRead, logutils.TypeRequestBody, nil, err, http.StatusBadRequest, false)
	}

	event, err := webhook.ConstructEvent(payload, r.Header.Get("Stripe-Signature"), h.billingWebhookSecret)
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionValidate, model.TypeBillingEvent, nil, err, http.StatusBadRequest, true)
	}

	err = h.coreAPIs.Webhooks.ProcessBillingEvent(string(event.Type), event.Data.Raw, l)
	if err != nil {
		return l.HTTPResponseErrorAction("processing", model.TypeBillingEvent, logutils.StringArgs(string(event.Type)), err, http.StatusInternalServerError, true)
	}

	return l.HTTPResponseSuccess()
}

// storageNotification is the push envelope the object store's notification topic
// delivers. Data carries the object resource, base64 inside the JSON.
type storageNotification struct {
	Message struct {
		Attributes map[string]string `json:"attributes" validate:"required"`
		Data       []byte            `json:"data"`
	} `json:"message" validate:"required"`
	Subscription string `json:"subscription"`
}

type storageObject struct {
	Name string `json:"name"`
	Size string `json:"size"`
}

// storageEvent receives an object-store notification - an object finished
// uploading or was removed
func (h WebhooksApisHandler) storageEvent(l *logs.Log, r *http.Request) logs.HTTPResponse {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionRead, logutils.TypeRequestBody, nil, err, http.StatusBadRequest, false)
	}

	var notification storageNotification
	err = json.Unmarshal(data, &notification)
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionUnmarshal, "storage notification", nil, err, http.StatusBadRequest, true)
	}

	validate := validator.New()
	err = validate.Struct(notification)
	if err != nil {
		return l.HTTPResponseErrorAction(logutils.ActionValidate, "storage notification", nil, err, http.StatusBadRequest, true)
	}

	eventType := notification.Message.Attributes["eventType"]
	objectID := notification.Message.Attributes["objectId"]
	if len(objectID) == 0 {
		return l.HTTPResponseErrorData(logutils.StatusMissing, "object id", nil, nil, http.StatusBadRequest, false)
	}

	switch eventType {
	case "OBJECT_FINALIZE":
		var object storageObject
		err = json.Unmarshal(notification.Message.Data, &object)
		if err != nil {
			return l.HTTPResponseErrorAction(logutils.ActionUnmarshal, "storage object", nil, err, http.StatusBadRequest, true)
		}
		size, err := strconv.ParseInt(object.Size, 10, 64)
		if err != nil {
			return l.HTTPResponseErrorData(logutils.StatusInvalid, "object size", logutils.StringArgs(object.Size), err, http.StatusBadRequest, false)
		}

		err = h.coreAPIs.Webhooks.ProcessObjectFinalized(objectID, size, l)
		if err != nil {
			return l.HTTPResponseErrorAction("processing", model.TypeFileMetadata, logutils.StringArgs(objectID), err, http.StatusInternalServerError, true)
		}
	case "OBJECT_DELETE":
		err = h.coreAPIs.Webhooks.ProcessObjectDeleted(objectID, l)
		if err != nil {
			return l.HTTPResponseErrorAction("processing", model.TypeFileMetadata, logutils.StringArgs(objectID), err, http.StatusInternalServerError, true)
		}
	default:
		//overwrites re-fire OBJECT_FINALIZE, everything else is noise
		l.Infof("ignoring storage event %s for %s", eventType, objectID)
	}

	return l.HTTPResponseSuccess()
}

// NewWebhooksApisHandler creates new rest webhooks Handler instance
func NewWebhooksApisHandler(coreAPIs *core.APIs, billingWebhookSecret string) WebhooksApisHandler {
	return WebhooksApisHandler{coreAPIs: coreAPIs, billingWebhookSecret: billingWebhookSecret}
}
