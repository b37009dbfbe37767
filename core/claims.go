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

	"github.com/rokwire/logging-library-go/v2/errors"
	"github.com/rokwire/logging-library-go/v2/logs"
	"github.com/rokwire/logging-library-go/v2/logutils"
)

// Claims are derived state: always recomputed from the employee record, compared by
// value to the cached token and only written when different - a needless write would
// force a needless session refresh on the client.

// buildClaims derives the authorization claims from an employee record
func buildClaims(employee model.Employee) *model.Claims {
	claims := model.Claims{OrgID: employee.OrgID, Role: employee.Role, LocKeys: map[string]model.LocationClaim{}}
	for locID, assignment := range employeeAssignments(employee) {
		claims.LocKeys[locID] = model.LocationClaim{Role: assignment.Role, Positions: assignment.Positions}
	}
	return &claims
}

// recomputeClaims rebuilds a user's claims from their current employee record and
// writes them only on change. A missing employee record clears the claims.
func (app *application) recomputeClaims(orgID string, userID string, l *logs.Log) error {
	employee, err := app.storage.FindEmployee(orgID, userID)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionFind, model.TypeEmployee, &logutils.FieldArgs{"org_id": orgID, "user_id": userID}, err)
	}

	cached, err := app.accounts.GetClaims(userID)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionGet, model.TypeClaims, &logutils.FieldArgs{"user_id": userID}, err)
	}

	if employee == nil {
		//no record anymore - revoke, but only if the cached claims are for this organization
		if cached != nil && cached.OrgID == orgID {
			return app.writeClaims(userID, nil)
		}
		return nil
	}

	claims := buildClaims(*employee)
	if claims.Equals(cached) {
		l.Infof("claims of %s unchanged, skipping write", userID)
		return nil
	}

	return app.writeClaims(userID, claims)
}

// writeClaims overwrites the cached claims and signals the user's live session to
// refresh. Clearing always signals.
func (app *application) writeClaims(userID string, claims *model.Claims) error {
	err := app.accounts.SetClaims(userID, claims)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionUpdate, model.TypeClaims, &logutils.FieldArgs{"user_id": userID}, err)
	}

	err = app.realtime.SignalClaimsRefresh(userID)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionSend, model.TypeClaims, &logutils.FieldArgs{"user_id": userID, "signal": "refresh"}, err)
	}
	return nil
}

// clearClaimsForOrg revokes the user's claims when they are cached against the given
// organization. Failures are logged - revocation re-runs on the next propagation.
func (app *application) clearClaimsForOrg(userID string, orgID string, l *logs.Log) {
	cached, err := app.accounts.GetClaims(userID)
	if err != nil {
		l.Warnf("reading claims of %s: %v", userID, err)
		return
	}
	if cached == nil || cached.OrgID != orgID {
		return
	}
	err = app.writeClaims(userID, nil)
	if err != nil {
		l.Warnf("clearing claims of %s: %v", userID, err)
	}
}

// clearClaimsForLocation drops one location's key from the user's cached claims,
// clearing them entirely when nothing remains
func (app *application) clearClaimsForLocation(userID string, orgID string, locationID string, l *logs.Log) {
	cached, err := app.accounts.GetClaims(userID)
	if err != nil {
		l.Warnf("reading claims of %s: %v", userID, err)
		return
	}
	if cached == nil || cached.OrgID != orgID {
		return
	}
	if _, ok := cached.LocKeys[locationID]; !ok {
		return
	}

	delete(cached.LocKeys, locationID)
	if len(cached.LocKeys) == 0 && cached.Role == model.EmployeeRoleEmployee {
		cached = nil
	}
	err = app.writeClaims(userID, cached)
	if err != nil {
		l.Warnf("clearing location claim of %s: %v", userID, err)
	}
}
