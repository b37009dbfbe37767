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
	"workplace-building-block/core/model"
	"workplace-building-block/driven/storage"

	"github.com/rokwire/logging-library-go/v2/errors"
	"github.com/rokwire/logging-library-go/v2/logs"
	"github.com/rokwire/logging-library-go/v2/logutils"
)

// The deletion cascade: every transition here is idempotent - replaying a delete on
// an already-absent entity is a no-op, and any step may race a concurrent cascade
// touching the same documents. The bulk writer's not-found tolerance is what makes
// that safe; a failed sub-operation is logged and the cascade continues.

// cascadeOrganizationDeleted fans the deletion of an organization out over its
// locations, members, subcollections and stored files. Members and supervisors are
// accumulated from the location snapshots before the locations are deleted.
func (app *application) cascadeOrganizationDeleted(orgID string, org *model.Organization, l *logs.Log) error {
	locations, err := app.storage.FindLocationsByOrg(orgID)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionFind, model.TypeLocation, &logutils.FieldArgs{"org_id": orgID}, err)
	}

	//union of members and supervisors, computed while the location docs still exist
	affected := map[string]bool{}
	for _, location := range locations {
		for _, member := range location.Members {
			affected[member] = true
		}
		for _, supervisor := range location.Supervisors {
			affected[supervisor] = true
		}
	}

	for _, location := range locations {
		err = app.storage.DeleteLocationSubtree(location.ID)
		if err != nil {
			l.Warnf("deleting subtree of location %s: %v", location.ID, err)
		}
		err = app.storage.DeleteLocation(location.ID)
		if err != nil {
			l.Warnf("deleting location %s: %v", location.ID, err)
		}
	}

	bw := app.storage.StartBulkWriter()
	for userID := range affected {
		bw.RemoveUserOrganization(userID, orgID)
	}
	err = bw.Close()
	if err != nil {
		l.Warnf("organization %s cascade bulk writes: %v", orgID, err)
	}

	userIDs := make([]string, 0, len(affected))
	for userID := range affected {
		userIDs = append(userIDs, userID)
	}
	err = app.realtime.ClearOrganizationCounters(orgID, userIDs)
	if err != nil {
		l.Warnf("clearing counters for organization %s: %v", orgID, err)
	}

	for _, userID := range userIDs {
		app.clearClaimsForOrg(userID, orgID, l)
	}

	err = app.storage.DeleteOrganizationSubtree(orgID)
	if err != nil {
		l.Warnf("deleting subtree of organization %s: %v", orgID, err)
	}

	err = app.fileStorage.DeletePrefix(model.OrganizationStoragePrefix(orgID))
	if err != nil {
		l.Warnf("deleting files of organization %s: %v", orgID, err)
	}

	//the document itself, if a request-style delete drove the cascade
	err = app.storage.DeleteOrganization(orgID)
	if err != nil {
		l.Warnf("deleting organization document %s: %v", orgID, err)
	}

	l.Infof("organization %s cascade complete: %d locations, %d users", orgID, len(locations), len(userIDs))
	return nil
}

// cascadeLocationDeleted scrubs a deleted location out of user profiles, employees,
// conversations, schedules and the object store, and decrements the organization's
// location count best-effort.
func (app *application) cascadeLocationDeleted(location model.Location, l *logs.Log) error {
	locID := location.ID
	orgID := location.OrgID

	bw := app.storage.StartBulkWriter()

	for _, supervisor := range location.Supervisors {
		bw.RemoveUserSupervising(supervisor, locID)
		bw.RemoveUserLocation(supervisor, locID)
	}
	for _, member := range location.Members {
		if location.IsSupervisor(member) {
			continue
		}
		bw.RemoveEmployeeLocation(orgID, member, locID)
		bw.RemoveUserLocation(member, locID)
	}

	//the organization may already be mid-deletion itself; not-found is tolerated
	bw.IncrementLocationCount(orgID, -1)

	conversations, err := app.storage.FindConversationsByLocation(locID)
	if err != nil {
		l.Warnf("finding conversations of location %s: %v", locID, err)
	}
	for _, conversation := range conversations {
		err = app.cascadeConversationDeleted(conversation, l)
		if err != nil {
			l.Warnf("cascading conversation %s of location %s: %v", conversation.ID, locID, err)
		}
		bw.DeleteConversation(conversation.ID)
	}

	err = app.storage.DeleteSchedulesByLocation(locID)
	if err != nil {
		l.Warnf("deleting schedules of location %s: %v", locID, err)
	}

	err = app.storage.DeleteLocationSubtree(locID)
	if err != nil {
		l.Warnf("deleting subtree of location %s: %v", locID, err)
	}

	err = bw.Close()
	if err != nil {
		l.Warnf("location %s cascade bulk writes: %v", locID, err)
	}

	err = app.fileStorage.DeletePrefix(model.LocationStoragePrefix(orgID, locID))
	if err != nil {
		l.Warnf("deleting files of location %s: %v", locID, err)
	}

	//claims of removed members cached against this location
	seen := map[string]bool{}
	for _, userID := range append(append([]string{}, location.Members...), location.Supervisors...) {
		if seen[userID] {
			continue
		}
		seen[userID] = true
		app.clearClaimsForLocation(userID, orgID, locID, l)
	}

	err = app.storage.DeleteLocation(locID)
	if err != nil {
		l.Warnf("deleting location document %s: %v", locID, err)
	}

	err = app.billingSyncLocationCount(orgID, l)
	if err != nil {
		l.Warnf("syncing billed quantity for organization %s: %v", orgID, err)
	}

	l.Infof("location %s cascade complete", locID)
	return nil
}

// cascadeEmployeeRemovedFromLocation runs the per-location removal of one employee:
// membership sets, conversations, boards, counters, files and claims. It does not
// delete the employee record itself - roster removal and account deletion are
// distinct triggers that both funnel through here.
func (app *application) cascadeEmployeeRemovedFromLocation(orgID string, locID string, userID string, role *model.LocationRole, bw storage.BulkWriter, l *logs.Log) error {
	bw.RemoveLocationMember(locID, userID)
	bw.RemoveLocationSupervisor(locID, userID)
	bw.RemoveEmployeeLocation(orgID, userID, locID)
	bw.RemoveUserLocation(userID, locID)

	conversations, err := app.storage.FindConversationsByMember(orgID, userID)
	if err != nil {
		l.Warnf("finding conversations of user %s: %v", userID, err)
	}
	for _, conversation := range conversations {
		if conversation.LocationID != locID {
			continue
		}
		bw.RemoveConversationMember(conversation.ID, userID)
		err = app.realtime.ClearConversationCounters(orgID, conversation.ID, []string{userID})
		if err != nil {
			l.Warnf("clearing counter of conversation %s for user %s: %v", conversation.ID, userID, err)
		}
	}

	boards, err := app.storage.FindBoardsByMember(orgID, userID)
	if err != nil {
		l.Warnf("finding boards of user %s: %v", userID, err)
	}
	for _, board := range boards {
		if board.LocationID != locID {
			continue
		}
		bw.RemoveBoardAccess(board.ID, userID)
	}

	err = app.fileStorage.DeletePrefix(model.LocationEmployeeStoragePrefix(orgID, locID, userID))
	if err != nil {
		l.Warnf("deleting files of user %s at location %s: %v", userID, locID, err)
	}

	if role != nil && role.Outranks(model.LocationRoleStaff) {
		app.clearClaimsForLocation(userID, orgID, locID, l)
	}

	return nil
}

// cascadeEmployeeDeleted handles the deletion of an employee record. Owner/admin
// records are organization-scoped: the employee is scrubbed from every supervised
// location, the organization leaves the user's profile and their claims are cleared.
// Location-scoped records run the per-location removal for every assignment.
func (app *application) cascadeEmployeeDeleted(employee model.Employee, l *logs.Log) error {
	orgID := employee.OrgID
	userID := employee.UserID

	bw := app.storage.StartBulkWriter()

	switch employee.Role {
	case model.EmployeeRoleOwner, model.EmployeeRoleAdmin:
		if employee.OrgScope != nil {
			for locID := range employee.OrgScope.Locations {
				bw.RemoveLocationSupervisor(locID, userID)
				bw.RemoveLocationMember(locID, userID)
				bw.RemoveUserSupervising(userID, locID)
				bw.RemoveUserLocation(userID, locID)
			}
		}
		err := app.fileStorage.DeletePrefix(model.OrganizationEmployeeStoragePrefix(orgID, userID))
		if err != nil {
			l.Warnf("deleting files of organization employee %s: %v", userID, err)
		}
	case model.EmployeeRoleEmployee:
		for locID, assignment := range employee.Locations {
			role := assignment.Role
			err := app.cascadeEmployeeRemovedFromLocation(orgID, locID, userID, &role, bw, l)
			if err != nil {
				l.Warnf("removing employee %s from location %s: %v", userID, locID, err)
			}
		}
	default:
		bw.Close()
		return errors.ErrorData(logutils.StatusInvalid, model.TypeEmployeeRole, &logutils.FieldArgs{"role": string(employee.Role)})
	}

	bw.RemoveUserOrganization(userID, orgID)
	bw.DeleteEmployee(orgID, userID)

	err := bw.Close()
	if err != nil {
		l.Warnf("employee %s cascade bulk writes: %v", userID, err)
	}

	err = app.realtime.ClearOrganizationCounters(orgID, []string{userID})
	if err != nil {
		l.Warnf("clearing counters of user %s: %v", userID, err)
	}

	app.clearClaimsForOrg(userID, orgID, l)

	l.Infof("employee %s cascade complete in organization %s", userID, orgID)
	return nil
}

// cascadeConversationDeleted clears member counters, deletes messages and their
// attachments and removes the conversation's storage prefix. The conversation
// document itself is the caller's concern.
func (app *application) cascadeConversationDeleted(conversation model.Conversation, l *logs.Log) error {
	convID := conversation.ID
	orgID := conversation.OrgID

	memberIDs := make([]string, 0, len(conversation.Members))
	for userID := range conversation.Members {
		memberIDs = append(memberIDs, userID)
	}
	err := app.realtime.ClearConversationCounters(orgID, convID, memberIDs)
	if err != nil {
		l.Warnf("clearing counters of conversation %s: %v", convID, err)
	}

	messages, err := app.storage.FindMessages(convID)
	if err != nil {
		l.Warnf("finding messages of conversation %s: %v", convID, err)
	}
	for _, message := range messages {
		if message.AttachmentPath == nil {
			continue
		}
		err = app.fileStorage.DeleteObject(*message.AttachmentPath)
		if err != nil {
			l.Warnf("deleting attachment of message %s: %v", message.ID, err)
		}
	}

	err = app.storage.DeleteMessages(convID)
	if err != nil {
		l.Warnf("deleting messages of conversation %s: %v", convID, err)
	}

	err = app.fileStorage.DeletePrefix(model.ConversationStoragePrefix(orgID, convID))
	if err != nil {
		l.Warnf("deleting files of conversation %s: %v", convID, err)
	}

	return nil
}

// cascadeBoardDeleted deletes a board's content documents and their stored files.
// Content deletion triggers its own file cleanup too, so an absent object is fine.
func (app *application) cascadeBoardDeleted(board model.Board, l *logs.Log) error {
	contents, err := app.storage.FindBoardContents(board.ID)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionFind, model.TypeBoardContent, &logutils.FieldArgs{"board_id": board.ID}, err)
	}

	for _, content := range contents {
		if content.FilePath == "" {
			continue
		}
		err = app.fileStorage.DeleteObject(content.FilePath)
		if err != nil {
			l.Warnf("deleting file of board content %s: %v", content.ID, err)
		}
	}

	err = app.storage.DeleteBoardContents(board.ID)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionDelete, model.TypeBoardContent, &logutils.FieldArgs{"board_id": board.ID}, err)
	}

	return nil
}
