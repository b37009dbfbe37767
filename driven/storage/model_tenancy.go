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

package storage

import "time"

type organization struct {
	ID   string `bson:"_id"`
	Name string `bson:"name"`

	LocationCount int `bson:"location_count"`

	CustomerID         string  `bson:"customer_id,omitempty"`
	SubscriptionID     string  `bson:"subscription_id,omitempty"`
	SubscriptionItemID string  `bson:"subscription_item_id,omitempty"`
	SubscriptionStatus string  `bson:"subscription_status,omitempty"`
	PaymentMethodID    *string `bson:"payment_method_id,omitempty"`

	StorageUsed  int64 `bson:"storage_used"`
	StorageLimit int64 `bson:"storage_limit"`

	DateCreated time.Time  `bson:"date_created"`
	DateUpdated *time.Time `bson:"date_updated"`
}

type location struct {
	ID    string `bson:"_id"`
	OrgID string `bson:"org_id"`
	Name  string `bson:"name"`

	Members     []string `bson:"members"`
	Supervisors []string `bson:"supervisors"`

	StorageUsed  int64 `bson:"storage_used"`
	StorageLimit int64 `bson:"storage_limit"`

	SubscriptionStatus string `bson:"subscription_status,omitempty"`

	DateCreated time.Time  `bson:"date_created"`
	DateUpdated *time.Time `bson:"date_updated"`
}
