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
	//TypeLocation location type
	TypeLocation logutils.MessageDataType = "location"
)

// Location belongs to exactly one organization. Members and supervisors are user ID
// sets; supervisors are not required to be members - organization-level supervisors
// may oversee a location they do not work at.
type Location struct {
	ID    string
	OrgID string
	Name  string

	Members     []string
	Supervisors []string

	StorageUsed  int64
	StorageLimit int64

	//SubscriptionStatus mirrors the parent organization's status
	SubscriptionStatus SubscriptionStatus

	DateCreated time.Time
	DateUpdated *time.Time
}

// IsMember says whether the user is in the members set
func (l Location) IsMember(userID string) bool {
	for _, m := range l.Members {
		if m == userID {
			return true
		}
	}
	return false
}

// IsSupervisor says whether the user is in the supervisors set
func (l Location) IsSupervisor(userID string) bool {
	for _, s := range l.Supervisors {
		if s == userID {
			return true
		}
	}
	return false
}

func (l Location) String() string {
	return fmt.Sprintf("[ID:%s\tOrg:%s\tName:%s\tMembers:%d]", l.ID, l.OrgID, l.Name, len(l.Members))
}
