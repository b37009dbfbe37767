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

type employee struct {
	ID     string `bson:"_id"`
	OrgID  string `bson:"org_id"`
	UserID string `bson:"user_id"`

	Name  string `bson:"name"`
	Email string `bson:"email"`

	Role      string                      `bson:"role"`
	OrgScope  *orgScope                   `bson:"org_scope,omitempty"`
	Locations map[string]employeeLocation `bson:"locations,omitempty"`

	DateCreated time.Time  `bson:"date_created"`
	DateUpdated *time.Time `bson:"date_updated"`
}

type orgScope struct {
	Locations map[string]bool `bson:"locations"`
}

type employeeLocation struct {
	Role      string   `bson:"role"`
	Positions []string `bson:"positions"`

	WageHourly float64 `bson:"wage_hourly"`
}

type user struct {
	ID string `bson:"_id"`

	Name  string `bson:"name"`
	Email string `bson:"email"`

	Organizations        []string `bson:"organizations"`
	SupervisingLocations []string `bson:"supervising_locations"`
	LocationsList        []string `bson:"locations_list"`

	FCMTokens []string `bson:"fcm_tokens"`

	DateCreated time.Time  `bson:"date_created"`
	DateUpdated *time.Time `bson:"date_updated"`
}
