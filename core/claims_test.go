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

func TestBuildClaims(t *testing.T) {
	employee := model.Employee{OrgID: "org1", UserID: "user1", Role: model.EmployeeRoleEmployee,
		Locations: map[string]model.EmployeeLocation{
			"loc1": {Role: model.LocationRoleManager, Positions: []string{"cook"}},
			"loc2": {Role: model.LocationRoleStaff},
		}}

	claims := buildClaims(employee)

	assert.Equal(t, claims.OrgID, "org1")
	assert.Equal(t, claims.Role, model.EmployeeRoleEmployee)
	assert.Equal(t, len(claims.LocKeys), 2)
	assert.Equal(t, claims.LocKeys["loc1"].Role, model.LocationRoleManager)
	assert.DeepEqual(t, claims.LocKeys["loc1"].Positions, []string{"cook"})
}

func TestBuildClaimsOwner(t *testing.T) {
	owner := model.Employee{OrgID: "org1", UserID: "boss", Role: model.EmployeeRoleOwner,
		OrgScope: &model.OrgScope{Locations: map[string]bool{"loc1": true}}}

	claims := buildClaims(owner)

	assert.Equal(t, claims.Role, model.EmployeeRoleOwner)
	assert.Equal(t, claims.LocKeys["loc1"].Role, model.LocationRoleManager, "supervision maps to the manager key")
}

func TestRecomputeClaimsSkipsUnchangedWrite(t *testing.T) {
	env := newTestEnv()
	env.storage.employees["org1/user1"] = &model.Employee{OrgID: "org1", UserID: "user1",
		Role: model.EmployeeRoleEmployee,
		Locations: map[string]model.EmployeeLocation{"loc1": {Role: model.LocationRoleStaff, Positions: []string{"cook", "server"}}}}
	//cached claims equal up to position order
	env.accounts.claims["user1"] = &model.Claims{OrgID: "org1", Role: model.EmployeeRoleEmployee,
		LocKeys: map[string]model.LocationClaim{"loc1": {Role: model.LocationRoleStaff, Positions: []string{"server", "cook"}}}}

	err := env.app.recomputeClaims("org1", "user1", env.log)
	assert.NilError(t, err)

	if len(env.accounts.setCalls) != 0 {
		t.Error("unchanged claims must not be rewritten")
	}
	if env.realtime.recorded("SignalClaimsRefresh user1") {
		t.Error("unchanged claims must not signal a refresh")
	}
}

func TestRecomputeClaimsWritesChange(t *testing.T) {
	env := newTestEnv()
	env.storage.employees["org1/user1"] = &model.Employee{OrgID: "org1", UserID: "user1",
		Role: model.EmployeeRoleEmployee,
		Locations: map[string]model.EmployeeLocation{"loc1": {Role: model.LocationRoleManager}}}
	env.accounts.claims["user1"] = &model.Claims{OrgID: "org1", Role: model.EmployeeRoleEmployee,
		LocKeys: map[string]model.LocationClaim{"loc1": {Role: model.LocationRoleStaff}}}

	err := env.app.recomputeClaims("org1", "user1", env.log)
	assert.NilError(t, err)

	assert.Equal(t, len(env.accounts.setCalls), 1, "changed claims must be written once")
	assert.Equal(t, env.accounts.claims["user1"].LocKeys["loc1"].Role, model.LocationRoleManager)
	if !env.realtime.recorded("SignalClaimsRefresh user1") {
		t.Error("claims write must signal a refresh")
	}
}

func TestRecomputeClaimsRevokesMissingEmployee(t *testing.T) {
	env := newTestEnv()
	env.accounts.claims["user1"] = &model.Claims{OrgID: "org1", Role: model.EmployeeRoleEmployee,
		LocKeys: map[string]model.LocationClaim{"loc1": {Role: model.LocationRoleStaff}}}

	err := env.app.recomputeClaims("org1", "user1", env.log)
	assert.NilError(t, err)

	if env.accounts.claims["user1"] != nil {
		t.Error("claims not revoked for missing employee record")
	}
	if !env.realtime.recorded("SignalClaimsRefresh user1") {
		t.Error("revocation must signal a refresh")
	}
}

func TestRecomputeClaimsIgnoresForeignCache(t *testing.T) {
	env := newTestEnv()
	//cached against another organization - not ours to revoke
	env.accounts.claims["user1"] = &model.Claims{OrgID: "org2", Role: model.EmployeeRoleOwner}

	err := env.app.recomputeClaims("org1", "user1", env.log)
	assert.NilError(t, err)

	if env.accounts.claims["user1"] == nil {
		t.Error("foreign claims must stay untouched")
	}
}

func TestClearClaimsForLocation(t *testing.T) {
	env := newTestEnv()
	env.accounts.claims["user1"] = &model.Claims{OrgID: "org1", Role: model.EmployeeRoleEmployee,
		LocKeys: map[string]model.LocationClaim{
			"loc1": {Role: model.LocationRoleManager},
			"loc2": {Role: model.LocationRoleStaff},
		}}

	env.app.clearClaimsForLocation("user1", "org1", "loc1", env.log)

	remaining := env.accounts.claims["user1"]
	if remaining == nil {
		t.Fatal("claims with other location keys must survive")
	}
	if _, ok := remaining.LocKeys["loc1"]; ok {
		t.Error("cleared location key still present")
	}
	if _, ok := remaining.LocKeys["loc2"]; !ok {
		t.Error("unrelated location key dropped")
	}
}

func TestClearClaimsForLocationLastKey(t *testing.T) {
	env := newTestEnv()
	env.accounts.claims["user1"] = &model.Claims{OrgID: "org1", Role: model.EmployeeRoleEmployee,
		LocKeys: map[string]model.LocationClaim{"loc1": {Role: model.LocationRoleStaff}}}

	env.app.clearClaimsForLocation("user1", "org1", "loc1", env.log)

	if env.accounts.claims["user1"] != nil {
		t.Error("claims must clear entirely when the last location key goes")
	}
}

func TestClearClaimsForLocationNoKey(t *testing.T) {
	env := newTestEnv()
	env.accounts.claims["user1"] = &model.Claims{OrgID: "org1", Role: model.EmployeeRoleEmployee,
		LocKeys: map[string]model.LocationClaim{"loc2": {Role: model.LocationRoleStaff}}}

	env.app.clearClaimsForLocation("user1", "org1", "loc1", env.log)

	if len(env.accounts.setCalls) != 0 {
		t.Error("claims without the location key must not be rewritten")
	}
}
