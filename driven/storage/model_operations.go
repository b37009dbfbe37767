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

type schedule struct {
	ID         string `bson:"_id"`
	LocationID string `bson:"location_id"`
	WeekID     string `bson:"week_id"`

	Published   bool         `bson:"published"`
	PublishData *publishData `bson:"publish_data,omitempty"`

	DateCreated time.Time  `bson:"date_created"`
	DateUpdated *time.Time `bson:"date_updated"`
}

type publishData struct {
	NotificationRecipients []string   `bson:"notification_recipients"`
	PublishedAt            *time.Time `bson:"published_at"`
}

type shift struct {
	ID         string `bson:"_id"`
	LocationID string `bson:"location_id"`
	WeekID     string `bson:"week_id"`
	UserID     string `bson:"user_id"`

	Position string    `bson:"position"`
	Start    time.Time `bson:"start"`
	End      time.Time `bson:"end"`

	DateCreated time.Time `bson:"date_created"`
}

type fileMetadata struct {
	ID string `bson:"_id"`

	OwnerKind string `bson:"owner_kind"`
	OwnerID   string `bson:"owner_id"`

	Path string `bson:"path"`
	Size int64  `bson:"size"`

	DateCreated time.Time `bson:"date_created"`
}

type billingProduct struct {
	ID          string `bson:"_id"`
	Name        string `bson:"name"`
	Description string `bson:"description"`
	Active      bool   `bson:"active"`

	DateUpdated time.Time `bson:"date_updated"`
}

type billingPrice struct {
	ID        string `bson:"_id"`
	ProductID string `bson:"product_id"`

	UnitAmount int64  `bson:"unit_amount"`
	Currency   string `bson:"currency"`
	Interval   string `bson:"interval"`
	Active     bool   `bson:"active"`

	DateUpdated time.Time `bson:"date_updated"`
}
