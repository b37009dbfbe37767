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

package model

import (
	"fmt"
	"time"

	"github.com/rokwire/logging-library-go/v2/logutils"
)

const (
	//TypeOrganization organization type
	TypeOrganization logutils.MessageDataType = "organization"
	//TypeSubscriptionStatus subscription status type
	TypeSubscriptionStatus logutils.MessageDataType = "subscription status"
)

// SubscriptionStatus is the billing-provider subscription state mirrored on an organization
type SubscriptionStatus string

const (
	//SubscriptionIncomplete incomplete
	SubscriptionIncomplete SubscriptionStatus = "incomplete"
	//SubscriptionIncompleteExpired incomplete_expired
	SubscriptionIncompleteExpired SubscriptionStatus = "incomplete_expired"
	//SubscriptionTrialing trialing
	SubscriptionTrialing SubscriptionStatus = "trialing"
	//SubscriptionActive active
	SubscriptionActive SubscriptionStatus = "active"
	//SubscriptionPastDue past_due
	SubscriptionPastDue SubscriptionStatus = "past_due"
	//SubscriptionCanceled canceled
	SubscriptionCanceled SubscriptionStatus = "canceled"
	//SubscriptionUnpaid unpaid
	SubscriptionUnpaid SubscriptionStatus = "unpaid"
)

// Valid says whether the status is one the billing provider can report
func (s SubscriptionStatus) Valid() bool {
	switch s {
	case SubscriptionIncomplete, SubscriptionIncompleteExpired, SubscriptionTrialing,
		SubscriptionActive, SubscriptionPastDue, SubscriptionCanceled, SubscriptionUnpaid:
		return true
	}
	return false
}

// Entitled says whether the status grants access to the organization's data
func (s SubscriptionStatus) Entitled() bool {
	return s == SubscriptionTrialing || s == SubscriptionActive
}

// Organization is the tenant root. It owns its locations exclusively - deleting an
// organization cascades over every location, employee, conversation, board, schedule
// and stored file underneath it.
type Organization struct {
	ID   string
	Name string

	//LocationCount mirrors the count of live locations referencing this organization
	LocationCount int

	CustomerID         string
	SubscriptionID     string
	SubscriptionItemID string
	SubscriptionStatus SubscriptionStatus

	StorageUsed  int64
	StorageLimit int64

	DateCreated time.Time
	DateUpdated *time.Time
}

func (o Organization) String() string {
	return fmt.Sprintf("[ID:%s\tName:%s\tLocations:%d\tStatus:%s]", o.ID, o.Name, o.LocationCount, o.SubscriptionStatus)
}
