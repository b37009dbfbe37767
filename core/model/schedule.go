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
	//TypeSchedule schedule type
	TypeSchedule logutils.MessageDataType = "schedule"
	//TypeShift shift type
	TypeShift logutils.MessageDataType = "shift"
)

// Schedule is a location's weekly schedule document, keyed by ISO week
type Schedule struct {
	ID         string
	LocationID string
	//WeekID is the ISO week key, e.g. "2026-W35"
	WeekID string

	Published   bool
	PublishData *PublishData

	DateCreated time.Time
	DateUpdated *time.Time
}

// PublishData records who gets notified when the week's schedule is published
type PublishData struct {
	NotificationRecipients []string
	PublishedAt            *time.Time
}

// Shift is a single scheduled shift inside a week
type Shift struct {
	ID         string
	LocationID string
	WeekID     string
	UserID     string

	Position string
	Start    time.Time
	End      time.Time

	DateCreated time.Time
}
