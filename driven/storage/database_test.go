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

import (
	"testing"
	"time"

	"workplace-building-block/core/model"

	"go.mongodb.org/mongo-driver/bson"
	"gotest.tools/assert"
)

func newRawChange(operationType string, coll string, documentID string) rawChange {
	var change rawChange
	change.OperationType = operationType
	change.NS.Coll = coll
	change.DocumentKey.ID = documentID
	return change
}

func marshalSnapshot(t *testing.T, doc interface{}) bson.Raw {
	data, err := bson.Marshal(doc)
	assert.NilError(t, err)
	return bson.Raw(data)
}

func TestDecodeChangeOrganizationInsert(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	change := newRawChange("insert", "organizations", "org1")
	change.FullDocument = marshalSnapshot(t, organization{ID: "org1", Name: "Acme Diner",
		CustomerID: "cus_1", SubscriptionStatus: "active", LocationCount: 2,
		StorageUsed: 10, StorageLimit: 100, DateCreated: now})

	event, err := decodeChange(change)
	assert.NilError(t, err)
	assert.Assert(t, event != nil)
	assert.Equal(t, event.Collection, model.CollectionOrganizations)
	assert.Equal(t, event.Kind, model.ChangeCreated)
	assert.Equal(t, event.DocumentID, "org1")
	assert.Assert(t, event.Before == nil)

	org, ok := event.After.(*model.Organization)
	assert.Assert(t, ok, "after snapshot must decode as an organization")
	assert.Equal(t, org.Name, "Acme Diner")
	assert.Equal(t, org.CustomerID, "cus_1")
	assert.Equal(t, org.SubscriptionStatus, model.SubscriptionActive)
	assert.Equal(t, org.LocationCount, 2)
	assert.Equal(t, org.StorageUsed, int64(10))
}

func TestDecodeChangeEmployeeUpdate(t *testing.T) {
	change := newRawChange("update", "employees", "emp1")
	change.FullDocumentBefore = marshalSnapshot(t, employee{ID: "emp1", OrgID: "org1", UserID: "user1",
		Name: "Sam", Role: "employee",
		Locations: map[string]employeeLocation{"loc1": {Role: "staff", Positions: []string{"cook"}}}})
	change.FullDocument = marshalSnapshot(t, employee{ID: "emp1", OrgID: "org1", UserID: "user1",
		Name: "Sam", Role: "employee",
		Locations: map[string]employeeLocation{"loc1": {Role: "manager", Positions: []string{"cook"}}}})

	event, err := decodeChange(change)
	assert.NilError(t, err)
	assert.Assert(t, event != nil)
	assert.Equal(t, event.Collection, model.CollectionEmployees)
	assert.Equal(t, event.Kind, model.ChangeUpdated)

	before, ok := event.Before.(*model.Employee)
	assert.Assert(t, ok, "before snapshot must decode as an employee")
	assert.Equal(t, before.Locations["loc1"].Role, model.LocationRoleStaff)

	after, ok := event.After.(*model.Employee)
	assert.Assert(t, ok, "after snapshot must decode as an employee")
	assert.Equal(t, after.UserID, "user1")
	assert.Equal(t, after.Locations["loc1"].Role, model.LocationRoleManager)
	assert.DeepEqual(t, after.Locations["loc1"].Positions, []string{"cook"})
}

func TestDecodeChangeMessageDelete(t *testing.T) {
	attachment := "orgs/org1/photo.png"
	change := newRawChange("delete", "messages", "msg1")
	change.FullDocumentBefore = marshalSnapshot(t, message{ID: "msg1", ConversationID: "conv1",
		SenderID: "user1", Text: "order up", AttachmentPath: &attachment})

	event, err := decodeChange(change)
	assert.NilError(t, err)
	assert.Assert(t, event != nil)
	assert.Equal(t, event.Collection, model.CollectionMessages)
	assert.Equal(t, event.Kind, model.ChangeDeleted)
	assert.Assert(t, event.After == nil)

	msg, ok := event.Before.(*model.Message)
	assert.Assert(t, ok, "before snapshot must decode as a message")
	assert.Equal(t, msg.ConversationID, "conv1")
	assert.Assert(t, msg.AttachmentPath != nil)
	assert.Equal(t, *msg.AttachmentPath, "orgs/org1/photo.png")
}

func TestDecodeChangeReplaceIsUpdate(t *testing.T) {
	change := newRawChange("replace", "schedules", "sched1")
	change.FullDocument = marshalSnapshot(t, schedule{ID: "sched1", LocationID: "loc1",
		WeekID: "2026-W35", Published: true})

	event, err := decodeChange(change)
	assert.NilError(t, err)
	assert.Assert(t, event != nil)
	assert.Equal(t, event.Kind, model.ChangeUpdated)

	sched, ok := event.After.(*model.Schedule)
	assert.Assert(t, ok)
	assert.Equal(t, sched.WeekID, "2026-W35")
	assert.Equal(t, sched.Published, true)
}

func TestDecodeChangeUnknownCollection(t *testing.T) {
	change := newRawChange("insert", "billing_events", "evt1")
	change.FullDocument = marshalSnapshot(t, bson.M{"_id": "evt1"})

	event, err := decodeChange(change)
	assert.NilError(t, err)
	assert.Assert(t, event == nil, "collections nothing reacts to must be dropped")
}

func TestDecodeChangeUnknownOperation(t *testing.T) {
	change := newRawChange("invalidate", "organizations", "org1")

	event, err := decodeChange(change)
	assert.NilError(t, err)
	assert.Assert(t, event == nil)
}

func TestPreImagesCommand(t *testing.T) {
	command := preImagesCommand("employees")

	assert.Equal(t, command[0].Key, "collMod")
	assert.Equal(t, command[0].Value, "employees")
	assert.Equal(t, command[1].Key, "changeStreamPreAndPostImages")
	assert.DeepEqual(t, command[1].Value, bson.M{"enabled": true})
}

func TestDecodeChangeCorruptSnapshot(t *testing.T) {
	change := newRawChange("insert", "organizations", "org1")
	change.FullDocument = bson.Raw([]byte{0x01, 0x02, 0x03})

	event, err := decodeChange(change)
	assert.Assert(t, err != nil, "a corrupt snapshot must surface, not decode as empty")
	assert.Assert(t, event == nil)
}
