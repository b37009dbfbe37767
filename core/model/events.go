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

	"github.com/rokwire/logging-library-go/v2/logutils"
)

const (
	//TypeChangeEvent change event type
	TypeChangeEvent logutils.MessageDataType = "change event"
)

// Collection identifies a document collection in change events
type Collection string

const (
	//CollectionOrganizations organizations
	CollectionOrganizations Collection = "organizations"
	//CollectionLocations locations
	CollectionLocations Collection = "locations"
	//CollectionEmployees employees
	CollectionEmployees Collection = "employees"
	//CollectionConversations conversations
	CollectionConversations Collection = "conversations"
	//CollectionMessages messages
	CollectionMessages Collection = "messages"
	//CollectionBoards boards
	CollectionBoards Collection = "boards"
	//CollectionBoardContents board contents
	CollectionBoardContents Collection = "board_contents"
	//CollectionSchedules schedules
	CollectionSchedules Collection = "schedules"
	//CollectionShifts shifts
	CollectionShifts Collection = "shifts"
	//CollectionUsers users
	CollectionUsers Collection = "users"
	//CollectionFiles file metadata
	CollectionFiles Collection = "files"
)

// ChangeKind is the kind of document mutation carried by a change event
type ChangeKind string

const (
	//ChangeCreated document created
	ChangeCreated ChangeKind = "created"
	//ChangeUpdated document updated
	ChangeUpdated ChangeKind = "updated"
	//ChangeDeleted document deleted
	ChangeDeleted ChangeKind = "deleted"
)

// ChangeEvent is one document mutation with its before/after snapshots. Before is nil
// for creates, After is nil for deletes; both are typed core models set by the driver
// that decoded the raw change.
type ChangeEvent struct {
	Collection Collection
	Kind       ChangeKind
	DocumentID string

	Before interface{}
	After  interface{}
}

func (e ChangeEvent) String() string {
	return fmt.Sprintf("[%s %s %s]", e.Collection, e.Kind, e.DocumentID)
}
