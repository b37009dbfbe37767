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
	//TypeUser user profile type
	TypeUser logutils.MessageDataType = "user"
)

// User is the cross-organization profile document. Organization and location lists are
// back-references scrubbed by the deletion cascades, never owned by them.
type User struct {
	ID string

	Name  string
	Email string

	Organizations        []string
	SupervisingLocations []string
	LocationsList        []string

	//FCMTokens are the user's registered push delivery tokens
	FCMTokens []string

	DateCreated time.Time
	DateUpdated *time.Time
}

// BelongsTo says whether the organization is on the user's profile
func (u User) BelongsTo(orgID string) bool {
	for _, o := range u.Organizations {
		if o == orgID {
			return true
		}
	}
	return false
}
