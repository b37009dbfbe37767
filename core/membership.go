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

// Membership propagation keeps conversation and board membership consistent with the
// current roster of a location. Three inputs funnel through here: bulk roster
// replacement, an individual employee's positions/role changing, and an employee
// joining or leaving a location. Host status always wins over automatic
// position-based removal.

type rosterDiff struct {
	Added   []string
	Removed []string
	Updated []string
}

// diffRoster computes added/removed/updated user IDs between two roster maps.
// Updated means the positions or the role differ.
func diffRoster(before map[string]model.EmployeeLocation, after map[string]model.EmployeeLocation) rosterDiff {
	diff := rosterDiff{}
	for userID := range after {
		if _, ok := before[userID]; !ok {
			diff.Added = append(diff.Added, userID)
		}
	}
	for userID, b := range before {
		a, ok := after[userID]
		if !ok {
			diff.Removed = append(diff.Removed, userID)
			continue
		}
		if a.Role != b.Role || !samePositionSet(a.Positions, b.Positions) {
			diff.Updated = append(diff.Updated, userID)
		}
	}
	return diff
}

func samePositionSet(a []string, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]bool, len(a))
	for _, p := range a {
		set[p] = true
	}
	for _, p := range b {
		if !set[p] {
			return false
		}
	}
	return true
}

// desiredConversationMembers gives the membership a conversation should converge to
// for a roster: all roster members for public, position matches for positions, and
// existing hosts always. Private conversations keep their membership untouched.
func desiredConversationMembers(conversation model.Conversation, roster map[string]model.EmployeeLocation) map[string]bool {
	desired := map[string]bool{}
	switch conversation.PrivacyLevel {
	case model.PrivacyPublic:
		for userID := range roster {
			desired[userID] = true
		}
	case model.PrivacyPositions:
		for userID, assignment := range roster {
			if conversation.MatchesPositions(assignment.Positions) {
				desired[userID] = true
			}
		}
	case model.PrivacyPrivate:
		for userID := range conversation.Members {
			desired[userID] = true
		}
	}
	for _, host := range conversation.Hosts {
		desired[host] = true
	}
	return desired
}

// applyRosterChange applies a full roster diff for a location per the propagation
// algorithm: additions join public and matching positions conversations, removals run
// the per-employee removal cascade without deleting the employee record, and updates
// apply only the membership delta. Claims are recomputed for updated employees.
func (app *application) applyRosterChange(orgID string, locationID string, before map[string]model.EmployeeLocation,
	after map[string]model.EmployeeLocation, l *logs.Log) error {
	conversations, err := app.storage.FindConversationsByLocation(locationID)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionFind, model.TypeConversation, &logutils.FieldArgs{"location_id": locationID}, err)
	}

	diff := diffRoster(before, after)
	bw := app.storage.StartBulkWriter()

	for _, userID := range diff.Added {
		assignment := after[userID]
		for _, conversation := range conversations {
			if conversationAdmits(conversation, assignment.Positions) && !conversation.IsMember(userID) {
				bw.AddConversationMember(conversation.ID, userID, false)
			}
		}
	}

	for _, userID := range diff.Removed {
		assignment := before[userID]
		role := assignment.Role
		err = app.cascadeEmployeeRemovedFromLocation(orgID, locationID, userID, &role, bw, l)
		if err != nil {
			l.Warnf("removing %s from location %s roster: %v", userID, locationID, err)
		}
	}

	for _, userID := range diff.Updated {
		assignment := after[userID]
		app.applyPositionsDelta(bw, conversations, userID, assignment.Positions)
	}

	err = bw.Close()
	if err != nil {
		l.Warnf("roster propagation bulk writes for location %s: %v", locationID, err)
	}

	//claims follow role/position changes
	for _, userID := range diff.Updated {
		b := before[userID]
		a := after[userID]
		if b.Role == a.Role && samePositionSet(b.Positions, a.Positions) {
			continue
		}
		err = app.recomputeClaims(orgID, userID, l)
		if err != nil {
			l.Warnf("recomputing claims of %s: %v", userID, err)
		}
	}

	l.Infof("roster propagation for location %s: %d added, %d removed, %d updated",
		locationID, len(diff.Added), len(diff.Removed), len(diff.Updated))
	return nil
}

// conversationAdmits says whether an employee with the positions automatically joins
// the conversation
func conversationAdmits(conversation model.Conversation, positions []string) bool {
	switch conversation.PrivacyLevel {
	case model.PrivacyPublic:
		return true
	case model.PrivacyPositions:
		return conversation.MatchesPositions(positions)
	default:
		return false
	}
}

// applyPositionsDelta reconciles one employee's positions-conversation membership:
// add where newly matching, remove where no longer matching - unless they host the
// conversation.
func (app *application) applyPositionsDelta(bw storage.BulkWriter, conversations []model.Conversation, userID string, positions []string) {
	for _, conversation := range conversations {
		if conversation.PrivacyLevel != model.PrivacyPositions {
			continue
		}
		matches := conversation.MatchesPositions(positions)
		member := conversation.IsMember(userID)
		switch {
		case matches && !member:
			bw.AddConversationMember(conversation.ID, userID, false)
		case !matches && member && !conversation.IsHost(userID):
			bw.RemoveConversationMember(conversation.ID, userID)
		}
	}
}

// propagateEmployeeCreated adds a new employee to the conversations their location
// assignments admit them to and computes their initial claims.
func (app *application) propagateEmployeeCreated(employee model.Employee, l *logs.Log) error {
	bw := app.storage.StartBulkWriter()
	for _, locationID := range employee.LocationIDs() {
		conversations, err := app.storage.FindConversationsByLocation(locationID)
		if err != nil {
			l.Warnf("finding conversations of location %s: %v", locationID, err)
			continue
		}
		positions := employee.PositionsAt(locationID)
		for _, conversation := range conversations {
			if conversationAdmits(conversation, positions) && !conversation.IsMember(employee.UserID) {
				bw.AddConversationMember(conversation.ID, employee.UserID, false)
			}
		}
	}
	err := bw.Close()
	if err != nil {
		l.Warnf("employee %s creation bulk writes: %v", employee.UserID, err)
	}

	err = app.recomputeClaims(employee.OrgID, employee.UserID, l)
	if err != nil {
		l.Warnf("computing claims of new employee %s: %v", employee.UserID, err)
	}
	return nil
}

// propagateEmployeeUpdated reacts to one employee document changing: location
// assignments added or removed, positions changing at a location, or the role tag
// changing. Claims are recomputed when any claim-relevant field moved.
func (app *application) propagateEmployeeUpdated(before model.Employee, after model.Employee, l *logs.Log) error {
	orgID := after.OrgID
	userID := after.UserID

	beforeLocs := employeeAssignments(before)
	afterLocs := employeeAssignments(after)

	bw := app.storage.StartBulkWriter()

	//assignments removed
	for locID, assignment := range beforeLocs {
		if _, ok := afterLocs[locID]; ok {
			continue
		}
		role := assignment.Role
		err := app.cascadeEmployeeRemovedFromLocation(orgID, locID, userID, &role, bw, l)
		if err != nil {
			l.Warnf("removing %s from location %s: %v", userID, locID, err)
		}
	}

	for locID, assignment := range afterLocs {
		conversations, err := app.storage.FindConversationsByLocation(locID)
		if err != nil {
			l.Warnf("finding conversations of location %s: %v", locID, err)
			continue
		}
		if _, ok := beforeLocs[locID]; !ok {
			//assignment added
			for _, conversation := range conversations {
				if conversationAdmits(conversation, assignment.Positions) && !conversation.IsMember(userID) {
					bw.AddConversationMember(conversation.ID, userID, false)
				}
			}
			continue
		}
		prior := beforeLocs[locID]
		if !samePositionSet(prior.Positions, assignment.Positions) {
			app.applyPositionsDelta(bw, conversations, userID, assignment.Positions)
		}
	}

	err := bw.Close()
	if err != nil {
		l.Warnf("employee %s propagation bulk writes: %v", userID, err)
	}

	if claimsRelevantChange(before, after) {
		err = app.recomputeClaims(orgID, userID, l)
		if err != nil {
			l.Warnf("recomputing claims of %s: %v", userID, err)
		}
	}
	return nil
}

// employeeAssignments flattens an employee variant into per-location assignments.
// Owner/admin supervision becomes a manager assignment with no positions.
func employeeAssignments(employee model.Employee) map[string]model.EmployeeLocation {
	assignments := map[string]model.EmployeeLocation{}
	switch employee.Role {
	case model.EmployeeRoleOwner, model.EmployeeRoleAdmin:
		if employee.OrgScope != nil {
			for locID := range employee.OrgScope.Locations {
				assignments[locID] = model.EmployeeLocation{Role: model.LocationRoleManager}
			}
		}
	case model.EmployeeRoleEmployee:
		for locID, assignment := range employee.Locations {
			assignments[locID] = assignment
		}
	}
	return assignments
}

func claimsRelevantChange(before model.Employee, after model.Employee) bool {
	if before.Role != after.Role {
		return true
	}
	beforeLocs := employeeAssignments(before)
	afterLocs := employeeAssignments(after)
	if len(beforeLocs) != len(afterLocs) {
		return true
	}
	for locID, b := range beforeLocs {
		a, ok := afterLocs[locID]
		if !ok || a.Role != b.Role || !samePositionSet(a.Positions, b.Positions) {
			return true
		}
	}
	return false
}

// populateConversationMembers seeds a new conversation's membership from the current
// location roster
func (app *application) populateConversationMembers(conversation model.Conversation, l *logs.Log) error {
	if conversation.PrivacyLevel == model.PrivacyPrivate || conversation.LocationID == "" {
		return nil
	}

	employees, err := app.storage.FindEmployeesByLocation(conversation.LocationID)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionFind, model.TypeEmployee, &logutils.FieldArgs{"location_id": conversation.LocationID}, err)
	}

	roster := make(map[string]model.EmployeeLocation, len(employees))
	for _, employee := range employees {
		roster[employee.UserID] = model.EmployeeLocation{Positions: employee.PositionsAt(conversation.LocationID)}
	}

	bw := app.storage.StartBulkWriter()
	for userID := range desiredConversationMembers(conversation, roster) {
		if !conversation.IsMember(userID) {
			bw.AddConversationMember(conversation.ID, userID, false)
		}
	}
	err = bw.Close()
	if err != nil {
		l.Warnf("populating conversation %s: %v", conversation.ID, err)
	}
	return nil
}
