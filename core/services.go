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
	"time"

	"workplace-building-block/core/model"

	"github.com/rokwire/logging-library-go/v2/errors"
	"github.com/rokwire/logging-library-go/v2/logs"
	"github.com/rokwire/logging-library-go/v2/logutils"
)

// Request-style operations surface typed errors to their caller. The acting
// principal's claims arrive as an explicit parameter on every operation.

// requireOrgRole checks the actor holds one of the roles in the organization
func requireOrgRole(actor *model.Claims, orgID string, roles ...model.EmployeeRole) error {
	if actor == nil {
		return errors.ErrorData(logutils.StatusMissing, model.TypeClaims, nil)
	}
	if actor.OrgID != orgID {
		return errors.ErrorData(logutils.StatusInvalid, model.TypeClaims, &logutils.FieldArgs{"org_id": orgID})
	}
	for _, role := range roles {
		if actor.Role == role {
			return nil
		}
	}
	return errors.ErrorData(logutils.StatusInvalid, model.TypeEmployeeRole, &logutils.FieldArgs{"role": string(actor.Role)})
}

func (app *application) serDeleteOrganization(actor *model.Claims, orgID string, l *logs.Log) error {
	err := requireOrgRole(actor, orgID, model.EmployeeRoleOwner)
	if err != nil {
		return err
	}

	org, err := app.storage.FindOrganization(nil, orgID)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionFind, model.TypeOrganization, &logutils.FieldArgs{"id": orgID}, err)
	}
	//run the cascade even when the document is already gone - replays clean up leftovers
	return app.cascadeOrganizationDeleted(orgID, org, l)
}

func (app *application) serDeleteLocation(actor *model.Claims, locationID string, l *logs.Log) error {
	location, err := app.storage.FindLocation(nil, locationID)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionFind, model.TypeLocation, &logutils.FieldArgs{"id": locationID}, err)
	}
	if location == nil {
		return errors.ErrorData(logutils.StatusMissing, model.TypeLocation, &logutils.FieldArgs{"id": locationID})
	}

	err = requireOrgRole(actor, location.OrgID, model.EmployeeRoleOwner, model.EmployeeRoleAdmin)
	if err != nil {
		return err
	}

	return app.cascadeLocationDeleted(*location, l)
}

func (app *application) serRemoveEmployee(actor *model.Claims, orgID string, locationID string, userID string, l *logs.Log) error {
	err := app.requireLocationManagement(actor, orgID, locationID)
	if err != nil {
		return err
	}

	employee, err := app.storage.FindEmployee(orgID, userID)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionFind, model.TypeEmployee, &logutils.FieldArgs{"org_id": orgID, "user_id": userID}, err)
	}
	if employee == nil {
		return errors.ErrorData(logutils.StatusMissing, model.TypeEmployee, &logutils.FieldArgs{"org_id": orgID, "user_id": userID})
	}

	role := employee.RoleAt(locationID)

	bw := app.storage.StartBulkWriter()
	err = app.cascadeEmployeeRemovedFromLocation(orgID, locationID, userID, role, bw, l)
	if err != nil {
		bw.Close()
		return err
	}
	err = bw.Close()
	if err != nil {
		l.Warnf("removing employee %s from location %s: %v", userID, locationID, err)
	}
	return nil
}

func (app *application) serDeleteEmployeeAccount(actor *model.Claims, orgID string, userID string, l *logs.Log) error {
	err := requireOrgRole(actor, orgID, model.EmployeeRoleOwner, model.EmployeeRoleAdmin)
	if err != nil {
		return err
	}

	employee, err := app.storage.FindEmployee(orgID, userID)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionFind, model.TypeEmployee, &logutils.FieldArgs{"org_id": orgID, "user_id": userID}, err)
	}
	if employee == nil {
		return errors.ErrorData(logutils.StatusMissing, model.TypeEmployee, &logutils.FieldArgs{"org_id": orgID, "user_id": userID})
	}

	err = app.cascadeEmployeeDeleted(*employee, l)
	if err != nil {
		return err
	}

	err = app.accounts.DeleteAccount(userID)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionDelete, model.TypeUser, &logutils.FieldArgs{"id": userID}, err)
	}
	return nil
}

func (app *application) serUpdateRoster(actor *model.Claims, locationID string, roster map[string]model.EmployeeLocation, l *logs.Log) error {
	location, err := app.storage.FindLocation(nil, locationID)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionFind, model.TypeLocation, &logutils.FieldArgs{"id": locationID}, err)
	}
	if location == nil {
		return errors.ErrorData(logutils.StatusMissing, model.TypeLocation, &logutils.FieldArgs{"id": locationID})
	}
	orgID := location.OrgID

	err = app.requireLocationManagement(actor, orgID, locationID)
	if err != nil {
		return err
	}

	before, err := app.currentRoster(locationID)
	if err != nil {
		return err
	}

	//write the assignment changes onto the employee records, then propagate
	for userID, assignment := range roster {
		prior, existed := before[userID]
		if existed && prior.Role == assignment.Role && samePositionSet(prior.Positions, assignment.Positions) {
			continue
		}
		err = app.saveEmployeeAssignment(orgID, locationID, userID, assignment, l)
		if err != nil {
			l.Warnf("writing roster entry of %s: %v", userID, err)
		}
	}

	return app.applyRosterChange(orgID, locationID, before, roster, l)
}

// currentRoster reads the location's present roster from the employee records
func (app *application) currentRoster(locationID string) (map[string]model.EmployeeLocation, error) {
	employees, err := app.storage.FindEmployeesByLocation(locationID)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeEmployee, &logutils.FieldArgs{"location_id": locationID}, err)
	}
	roster := map[string]model.EmployeeLocation{}
	for _, employee := range employees {
		if assignment, ok := employeeAssignments(employee)[locationID]; ok {
			roster[employee.UserID] = assignment
		}
	}
	return roster, nil
}

func (app *application) saveEmployeeAssignment(orgID string, locationID string, userID string, assignment model.EmployeeLocation, l *logs.Log) error {
	employee, err := app.storage.FindEmployee(orgID, userID)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionFind, model.TypeEmployee, &logutils.FieldArgs{"org_id": orgID, "user_id": userID}, err)
	}
	if employee == nil {
		return errors.ErrorData(logutils.StatusMissing, model.TypeEmployee, &logutils.FieldArgs{"org_id": orgID, "user_id": userID})
	}
	if employee.Role != model.EmployeeRoleEmployee {
		//owner/admin assignments are not roster-managed
		return nil
	}

	if employee.Locations == nil {
		employee.Locations = map[string]model.EmployeeLocation{}
	}
	employee.Locations[locationID] = assignment
	err = app.storage.SaveEmployee(*employee)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionSave, model.TypeEmployee, &logutils.FieldArgs{"org_id": orgID, "user_id": userID}, err)
	}
	return nil
}

func (app *application) serRecomputeClaims(actor *model.Claims, orgID string, userID string, locationID *string, l *logs.Log) error {
	err := requireOrgRole(actor, orgID, model.EmployeeRoleOwner, model.EmployeeRoleAdmin)
	if err != nil {
		return err
	}
	//claims are rebuilt whole; a location hint narrows nothing since the result is
	//value-compared before writing
	return app.recomputeClaims(orgID, userID, l)
}

func (app *application) serPublishSchedule(actor *model.Claims, locationID string, weekID string, recipients []string, l *logs.Log) error {
	location, err := app.storage.FindLocation(nil, locationID)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionFind, model.TypeLocation, &logutils.FieldArgs{"id": locationID}, err)
	}
	if location == nil {
		return errors.ErrorData(logutils.StatusMissing, model.TypeLocation, &logutils.FieldArgs{"id": locationID})
	}

	err = app.requireLocationManagement(actor, location.OrgID, locationID)
	if err != nil {
		return err
	}

	schedule, err := app.storage.FindSchedule(locationID, weekID)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionFind, model.TypeSchedule, &logutils.FieldArgs{"location_id": locationID, "week": weekID}, err)
	}
	if schedule == nil {
		return errors.ErrorData(logutils.StatusMissing, model.TypeSchedule, &logutils.FieldArgs{"location_id": locationID, "week": weekID})
	}

	now := time.Now()
	publishData := model.PublishData{NotificationRecipients: recipients, PublishedAt: &now}
	err = app.storage.MarkSchedulePublished(locationID, weekID, publishData)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionUpdate, model.TypeSchedule, &logutils.FieldArgs{"location_id": locationID, "week": weekID}, err)
	}

	schedule.Published = true
	schedule.PublishData = &publishData
	return app.notifySchedulePublished(*schedule, l)
}

// requireLocationManagement checks the actor may manage the location: organization
// owner/admin, or a manager claim at the location
func (app *application) requireLocationManagement(actor *model.Claims, orgID string, locationID string) error {
	if actor == nil {
		return errors.ErrorData(logutils.StatusMissing, model.TypeClaims, nil)
	}
	if actor.OrgID != orgID {
		return errors.ErrorData(logutils.StatusInvalid, model.TypeClaims, &logutils.FieldArgs{"org_id": orgID})
	}
	switch actor.Role {
	case model.EmployeeRoleOwner, model.EmployeeRoleAdmin:
		return nil
	case model.EmployeeRoleEmployee:
		if locationClaim, ok := actor.LocKeys[locationID]; ok && locationClaim.Role == model.LocationRoleManager {
			return nil
		}
		return errors.ErrorData(logutils.StatusInvalid, model.TypeEmployeeRole, &logutils.FieldArgs{"location_id": locationID})
	default:
		return errors.ErrorData(logutils.StatusInvalid, model.TypeEmployeeRole, &logutils.FieldArgs{"role": string(actor.Role)})
	}
}
