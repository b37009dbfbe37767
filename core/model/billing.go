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
	"time"

	"github.com/rokwire/logging-library-go/v2/logutils"
)

const (
	//TypeBillingProduct billing product type
	TypeBillingProduct logutils.MessageDataType = "billing product"
	//TypeBillingPrice billing price type
	TypeBillingPrice logutils.MessageDataType = "billing price"
	//TypeBillingEvent billing webhook event type
	TypeBillingEvent logutils.MessageDataType = "billing event"
)

// BillingProduct mirrors a subscription-provider product
type BillingProduct struct {
	ID          string
	Name        string
	Description string
	Active      bool

	DateUpdated time.Time
}

// BillingPrice mirrors a subscription-provider price
type BillingPrice struct {
	ID        string
	ProductID string

	UnitAmount int64
	Currency   string
	Interval   string
	Active     bool

	DateUpdated time.Time
}
