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

package core

import (
	"testing"

	"workplace-building-block/core/model"

	"gotest.tools/assert"
)

func TestCascadeLocationDeleted(t *testing.T) {
	env := newTestEnv()
	location := model.Location{ID: "loc1", OrgID: "org1",
		Members: []string{"staff1", "boss"}, Supervisors: []string{"boss"}}
	env.storage.conversationsByLocation["loc1"] = []model.Conversation{
		{ID: "conv1", OrgID: "org1", LocationID: "loc1", Members: map[string]bool{"staff1": false}},
	}

	err := env.app.cascadeLocationDeleted(location, env.log)
	assert.NilError(t, err)

	//supervisors lose supervision, plain members lose their assignment
	if !env.storage.bulk.has("RemoveUserSupervising boss loc1") {
		t.Error("supervision not scrubbed")
	}
	if !env.storage.bulk.has("RemoveEmployeeLocation org1 staff1 loc1") {
		t.Error("member's assignment not scrubbed")
	}
	if env.storage.bulk.has("RemoveEmployeeLocation org1 boss loc1") {
		t.Error("supervisor must not be treated as a plain member")
	}
	if !env.storage.bulk.has("IncrementLocationCount org1 -1") {
		t.Error("location count not decremented")
	}
	if !env.storage.bulk.has("DeleteConversation conv1") {
		t.Error("location conversation not deleted")
	}
	if !env.storage.recorded("DeleteSchedulesByLocation loc1") {
		t.Error("schedules not deleted")
	}
	if !env.storage.recorded("DeleteLocationSubtree loc1") {
		t.Error("location subtree not deleted")
	}
	if !env.storage.recorded("DeleteLocation loc1") {
		t.Error("location document not deleted")
	}
	if !env.fileStorage.deletedPrefix("orgs/org1/locations/loc1/") {
		t.Error("location storage prefix not deleted")
	}
}

func TestCascadeLocationDeletedIdempotent(t *testing.T) {
	env := newTestEnv()
	location := model.Location{ID: "loc1", OrgID: "org1"}

	//replay on an already-scrubbed location is a no-op cascade, not a failure
	err := env.app.cascadeLocationDeleted(location, env.log)
	assert.NilError(t, err)
	err = env.app.cascadeLocationDeleted(location, env.log)
	assert.NilError(t, err)
}

func TestCascadeEmployeeRemovedFromLocationScope(t *testing.T) {
	env := newTestEnv()
	env.storage.conversationsByMember["user1"] = []model.Conversation{
		{ID: "here", OrgID: "org1", LocationID: "loc1", Members: map[string]bool{"user1": false}},
		{ID: "elsewhere", OrgID: "org1", LocationID: "loc2", Members: map[string]bool{"user1": false}},
	}
	env.storage.boardsByMember["user1"] = []model.Board{
		{ID: "board1", OrgID: "org1", LocationID: "loc1", Members: []string{"user1"}},
		{ID: "board2", OrgID: "org1", LocationID: "loc2", Members: []string{"user1"}},
	}

	staff := model.LocationRoleStaff
	err := env.app.cascadeEmployeeRemovedFromLocation("org1", "loc1", "user1", &staff, env.storage.bulk, env.log)
	assert.NilError(t, err)

	if !env.storage.bulk.has("RemoveConversationMember here user1") {
		t.Error("conversation at the location not scrubbed")
	}
	if env.storage.bulk.has("RemoveConversationMember elsewhere user1") {
		t.Error("conversation at another location must stay untouched")
	}
	if !env.storage.bulk.has("RemoveBoardAccess board1 user1") {
		t.Error("board at the location not scrubbed")
	}
	if env.storage.bulk.has("RemoveBoardAccess board2 user1") {
		t.Error("board at another location must stay untouched")
	}
	if !env.realtime.recorded("ClearConversationCounters org1 here user1") {
		t.Error("conversation counter not cleared")
	}
	if !env.fileStorage.deletedPrefix("orgs/org1/locations/loc1/employees/user1/") {
		t.Error("employee files not deleted")
	}
}

func TestCascadeEmployeeRemovedFromLocationClaims(t *testing.T) {
	env := newTestEnv()
	env.accounts.claims["manager1"] = &model.Claims{OrgID: "org1", Role: model.EmployeeRoleEmployee,
		LocKeys: map[string]model.LocationClaim{"loc1": {Role: model.LocationRoleManager}}}
	env.accounts.claims["staff1"] = &model.Claims{OrgID: "org1", Role: model.EmployeeRoleEmployee,
		LocKeys: map[string]model.LocationClaim{"loc1": {Role: model.LocationRoleStaff}}}

	manager := model.LocationRoleManager
	err := env.app.cascadeEmployeeRemovedFromLocation("org1", "loc1", "manager1", &manager, env.storage.bulk, env.log)
	assert.NilError(t, err)

	staff := model.LocationRoleStaff
	err = env.app.cascadeEmployeeRemovedFromLocation("org1", "loc1", "staff1", &staff, env.storage.bulk, env.log)
	assert.NilError(t, err)

	//only roles above staff carry location claims worth clearing eagerly
	if env.accounts.claims["manager1"] != nil {
		t.Error("manager claims not cleared")
	}
	if env.accounts.claims["staff1"] == nil {
		t.Error("staff claims must not be cleared by location removal")
	}
}

func TestCascadeEmployeeDeletedOwner(t *testing.T) {
	env := newTestEnv()
	owner := model.Employee{ID: "e1", OrgID: "org1", UserID: "boss", Role: model.EmployeeRoleOwner,
		OrgScope: &model.OrgScope{Locations: map[string]bool{"loc1": true}}}
	env.accounts.claims["boss"] = &model.Claims{OrgID: "org1", Role: model.EmployeeRoleOwner,
		LocKeys: map[string]model.LocationClaim{"loc1": {Role: model.LocationRoleManager}}}

	err := env.app.cascadeEmployeeDeleted(owner, env.log)
	assert.NilError(t, err)

	if !env.storage.bulk.has("RemoveLocationSupervisor loc1 boss") {
		t.Error("supervision not scrubbed from the location")
	}
	if !env.storage.bulk.has("RemoveUserSupervising boss loc1") {
		t.Error("supervision not scrubbed from the profile")
	}
	if !env.storage.bulk.has("RemoveUserOrganization boss org1") {
		t.Error("organization not scrubbed from the profile")
	}
	if !env.storage.bulk.has("DeleteEmployee org1 boss") {
		t.Error("employee record not deleted")
	}
	if !env.fileStorage.deletedPrefix("orgs/org1/employees/boss/") {
		t.Error("organization-scoped files not deleted")
	}
	if env.accounts.claims["boss"] != nil {
		t.Error("claims not revoked")
	}
}

func TestCascadeEmployeeDeletedInvalidRole(t *testing.T) {
	env := newTestEnv()
	broken := model.Employee{ID: "e1", OrgID: "org1", UserID: "user1", Role: "intern"}

	err := env.app.cascadeEmployeeDeleted(broken, env.log)
	if err == nil {
		t.Error("expected error for unknown role tag")
	}
}

func TestCascadeConversationDeleted(t *testing.T) {
	env := newTestEnv()
	attachment := "orgs/org1/conversations/conv1/photo.jpg"
	conversation := model.Conversation{ID: "conv1", OrgID: "org1", LocationID: "loc1",
		Members: map[string]bool{"user1": false, "user2": true}}
	env.storage.messages["conv1"] = []model.Message{
		{ID: "m1", ConversationID: "conv1", SenderID: "user1", Text: "hi"},
		{ID: "m2", ConversationID: "conv1", SenderID: "user2", AttachmentPath: &attachment},
	}

	err := env.app.cascadeConversationDeleted(conversation, env.log)
	assert.NilError(t, err)

	if !env.realtime.recorded("ClearConversationCounters org1 conv1 user1") {
		t.Error("member counter not cleared")
	}
	if !env.fileStorage.deletedObject(attachment) {
		t.Error("message attachment not deleted")
	}
	if !env.storage.recorded("DeleteMessages conv1") {
		t.Error("messages not deleted")
	}
	if !env.fileStorage.deletedPrefix("orgs/org1/conversations/conv1/") {
		t.Error("conversation storage prefix not deleted")
	}
}

func TestCascadeBoardDeleted(t *testing.T) {
	env := newTestEnv()
	board := model.Board{ID: "board1", OrgID: "org1", Kind: model.BoardKindFiles}
	env.storage.boardContents["board1"] = []model.BoardContent{
		{ID: "c1", BoardID: "board1", Title: "note"},
		{ID: "c2", BoardID: "board1", Title: "doc", FilePath: "orgs/org1/boards/board1/doc.pdf", Size: 10},
	}

	err := env.app.cascadeBoardDeleted(board, env.log)
	assert.NilError(t, err)

	if !env.fileStorage.deletedObject("orgs/org1/boards/board1/doc.pdf") {
		t.Error("content file not deleted")
	}
	assert.Equal(t, len(env.fileStorage.deletedObjects), 1, "plain notes have no files to delete")
	if !env.storage.recorded("DeleteBoardContents board1") {
		t.Error("content documents not deleted")
	}
}
