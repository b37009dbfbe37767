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

package core

import (
	"encoding/json"
	"time"

	"workplace-building-block/core/model"

	"github.com/rokwire/logging-library-go/v2/errors"
	"github.com/rokwire/logging-library-go/v2/logs"
	"github.com/rokwire/logging-library-go/v2/logutils"
)

// The billing-status synchronizer mirrors subscription-provider state into the
// document store. Locations never compute their own status - they mirror their
// organization's, and the provider is the single source of truth.

type subscriptionPayload struct {
	ID       string `json:"id"`
	Customer string `json:"customer"`
	Status   string `json:"status"`
	Items    struct {
		Data []struct {
			ID       string `json:"id"`
			Quantity int64  `json:"quantity"`
		} `json:"data"`
	} `json:"items"`
}

type productPayload struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Active      bool   `json:"active"`
}

type pricePayload struct {
	ID         string `json:"id"`
	Product    string `json:"product"`
	UnitAmount int64  `json:"unit_amount"`
	Currency   string `json:"currency"`
	Active     bool   `json:"active"`
	Recurring  struct {
		Interval string `json:"interval"`
	} `json:"recurring"`
}

type paymentMethodPayload struct {
	ID       string `json:"id"`
	Customer string `json:"customer"`
}

// processBillingEvent handles one verified billing-provider webhook event
func (app *application) processBillingEvent(eventType string, payload []byte, l *logs.Log) error {
	switch eventType {
	case "customer.subscription.created", "customer.subscription.updated":
		var sub subscriptionPayload
		err := json.Unmarshal(payload, &sub)
		if err != nil {
			return errors.WrapErrorAction(logutils.ActionUnmarshal, model.TypeBillingEvent, &logutils.FieldArgs{"type": eventType}, err)
		}
		return app.applySubscriptionChange(sub, model.SubscriptionStatus(sub.Status), l)
	case "customer.subscription.deleted":
		var sub subscriptionPayload
		err := json.Unmarshal(payload, &sub)
		if err != nil {
			return errors.WrapErrorAction(logutils.ActionUnmarshal, model.TypeBillingEvent, &logutils.FieldArgs{"type": eventType}, err)
		}
		return app.applySubscriptionChange(sub, model.SubscriptionCanceled, l)
	case "product.created", "product.updated":
		var product productPayload
		err := json.Unmarshal(payload, &product)
		if err != nil {
			return errors.WrapErrorAction(logutils.ActionUnmarshal, model.TypeBillingEvent, &logutils.FieldArgs{"type": eventType}, err)
		}
		return app.storage.UpsertBillingProduct(model.BillingProduct{ID: product.ID, Name: product.Name,
			Description: product.Description, Active: product.Active, DateUpdated: time.Now()})
	case "product.deleted":
		var product productPayload
		err := json.Unmarshal(payload, &product)
		if err != nil {
			return errors.WrapErrorAction(logutils.ActionUnmarshal, model.TypeBillingEvent, &logutils.FieldArgs{"type": eventType}, err)
		}
		return app.storage.DeleteBillingProduct(product.ID)
	case "price.created", "price.updated":
		var price pricePayload
		err := json.Unmarshal(payload, &price)
		if err != nil {
			return errors.WrapErrorAction(logutils.ActionUnmarshal, model.TypeBillingEvent, &logutils.FieldArgs{"type": eventType}, err)
		}
		return app.storage.UpsertBillingPrice(model.BillingPrice{ID: price.ID, ProductID: price.Product,
			UnitAmount: price.UnitAmount, Currency: price.Currency, Interval: price.Recurring.Interval,
			Active: price.Active, DateUpdated: time.Now()})
	case "price.deleted":
		var price pricePayload
		err := json.Unmarshal(payload, &price)
		if err != nil {
			return errors.WrapErrorAction(logutils.ActionUnmarshal, model.TypeBillingEvent, &logutils.FieldArgs{"type": eventType}, err)
		}
		return app.storage.DeleteBillingPrice(price.ID)
	case "payment_method.attached":
		var method paymentMethodPayload
		err := json.Unmarshal(payload, &method)
		if err != nil {
			return errors.WrapErrorAction(logutils.ActionUnmarshal, model.TypeBillingEvent, &logutils.FieldArgs{"type": eventType}, err)
		}
		methodID := method.ID
		return app.storage.SetOrganizationPaymentMethod(method.Customer, &methodID)
	case "payment_method.detached":
		var method paymentMethodPayload
		err := json.Unmarshal(payload, &method)
		if err != nil {
			return errors.WrapErrorAction(logutils.ActionUnmarshal, model.TypeBillingEvent, &logutils.FieldArgs{"type": eventType}, err)
		}
		return app.storage.SetOrganizationPaymentMethod(method.Customer, nil)
	default:
		l.Infof("ignoring billing event type %s", eventType)
		return nil
	}
}

// applySubscriptionChange writes the new status onto the organization and every one
// of its locations, and revokes member claims when the status no longer entitles
// access. A customer without a mirrored organization is logged and dropped - the
// webhook may race organization creation.
func (app *application) applySubscriptionChange(sub subscriptionPayload, status model.SubscriptionStatus, l *logs.Log) error {
	if !status.Valid() {
		return errors.ErrorData(logutils.StatusInvalid, model.TypeSubscriptionStatus, &logutils.FieldArgs{"status": string(status)})
	}

	org, err := app.storage.FindOrganizationByCustomer(sub.Customer)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionFind, model.TypeOrganization, &logutils.FieldArgs{"customer": sub.Customer}, err)
	}
	if org == nil {
		l.Warnf("no organization for billing customer %s", sub.Customer)
		return nil
	}

	itemID := org.SubscriptionItemID
	if len(sub.Items.Data) > 0 {
		itemID = sub.Items.Data[0].ID
	}
	err = app.storage.UpdateOrganizationSubscription(org.ID, sub.ID, itemID, status)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionUpdate, model.TypeOrganization, &logutils.FieldArgs{"id": org.ID}, err)
	}

	locations, err := app.storage.FindLocationsByOrg(org.ID)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionFind, model.TypeLocation, &logutils.FieldArgs{"org_id": org.ID}, err)
	}

	bw := app.storage.StartBulkWriter()
	for _, location := range locations {
		bw.SetLocationSubscriptionStatus(location.ID, status)
	}
	err = bw.Close()
	if err != nil {
		l.Warnf("mirroring status %s to locations of %s: %v", status, org.ID, err)
	}

	if !status.Entitled() {
		members := map[string]bool{}
		for _, location := range locations {
			for _, member := range location.Members {
				members[member] = true
			}
		}
		for userID := range members {
			app.clearClaimsForOrg(userID, org.ID, l)
		}
		l.Infof("organization %s lapsed to %s, revoked access for %d members", org.ID, status, len(members))
	}

	return nil
}

// registerLocationCreated mirrors the parent organization's subscription status onto
// a newly created location, bumps the location count and pushes the billed quantity
func (app *application) registerLocationCreated(location model.Location, l *logs.Log) error {
	org, err := app.storage.FindOrganization(nil, location.OrgID)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionFind, model.TypeOrganization, &logutils.FieldArgs{"id": location.OrgID}, err)
	}
	if org == nil {
		l.Warnf("location %s created under missing organization %s", location.ID, location.OrgID)
		return nil
	}

	bw := app.storage.StartBulkWriter()
	bw.IncrementLocationCount(org.ID, 1)
	if location.SubscriptionStatus != org.SubscriptionStatus {
		bw.SetLocationSubscriptionStatus(location.ID, org.SubscriptionStatus)
	}
	err = bw.Close()
	if err != nil {
		l.Warnf("registering location %s: %v", location.ID, err)
	}

	err = app.billingSyncLocationCount(org.ID, l)
	if err != nil {
		l.Warnf("syncing billed quantity for organization %s: %v", org.ID, err)
	}
	return nil
}

// billingSyncLocationCount pushes the organization's current location count to the
// subscription provider as the billed quantity. Best-effort eventual - it reads the
// count at call time and never orders against in-flight cascades, and a provider
// failure never fails the document write that triggered it.
func (app *application) billingSyncLocationCount(orgID string, l *logs.Log) error {
	org, err := app.storage.FindOrganization(nil, orgID)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionFind, model.TypeOrganization, &logutils.FieldArgs{"id": orgID}, err)
	}
	if org == nil || org.SubscriptionID == "" || org.SubscriptionItemID == "" {
		return nil
	}

	quantity := int64(org.LocationCount)
	if quantity < 0 {
		quantity = 0
	}
	err = app.billing.UpdateSubscriptionQuantity(org.SubscriptionID, org.SubscriptionItemID, quantity)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionUpdate, model.TypeBillingEvent, &logutils.FieldArgs{"subscription": org.SubscriptionID}, err)
	}
	return nil
}
