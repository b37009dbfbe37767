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

package billing

import (
	"github.com/rokwire/logging-library-go/v2/errors"
	"github.com/rokwire/logging-library-go/v2/logs"
	"github.com/rokwire/logging-library-go/v2/logutils"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/subscription"
)

// Adapter implements the Billing interface against the subscription provider
type Adapter struct {
	logger *logs.Logger
}

// UpdateSubscriptionQuantity syncs the billed seat quantity of a subscription item
func (a *Adapter) UpdateSubscriptionQuantity(subscriptionID string, itemID string, quantity int64) error {
	params := stripe.SubscriptionParams{
		Items: []*stripe.SubscriptionItemsParams{
			{ID: stripe.String(itemID), Quantity: stripe.Int64(quantity)},
		},
	}
	_, err := subscription.Update(subscriptionID, &params)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionUpdate, "subscription quantity",
			&logutils.FieldArgs{"subscription_id": subscriptionID, "quantity": quantity}, err)
	}
	return nil
}

// NewBillingAdapter creates a new billing adapter instance
func NewBillingAdapter(apiKey string, logger *logs.Logger) *Adapter {
	stripe.Key = apiKey
	return &Adapter{logger: logger}
}
