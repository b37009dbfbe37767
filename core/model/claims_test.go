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
	"testing"

	"gotest.tools/assert"
)

func TestClaimsEquals(t *testing.T) {
	a := &Claims{OrgID: "org1", Role: EmployeeRoleEmployee,
		LocKeys: map[string]LocationClaim{"loc1": {Role: LocationRoleStaff, Positions: []string{"cook", "server"}}}}
	b := &Claims{OrgID: "org1", Role: EmployeeRoleEmployee,
		LocKeys: map[string]LocationClaim{"loc1": {Role: LocationRoleStaff, Positions: []string{"server", "cook"}}}}

	if !a.Equals(b) {
		t.Error("position order must not matter")
	}

	c := &Claims{OrgID: "org1", Role: EmployeeRoleEmployee,
		LocKeys: map[string]LocationClaim{"loc1": {Role: LocationRoleManager, Positions: []string{"cook", "server"}}}}
	if a.Equals(c) {
		t.Error("different location roles must differ")
	}

	d := &Claims{OrgID: "org2", Role: EmployeeRoleEmployee, LocKeys: map[string]LocationClaim{}}
	if a.Equals(d) {
		t.Error("different organizations must differ")
	}

	e := &Claims{OrgID: "org1", Role: EmployeeRoleEmployee,
		LocKeys: map[string]LocationClaim{"loc2": {Role: LocationRoleStaff}}}
	if a.Equals(e) {
		t.Error("different location keys must differ")
	}
}

func TestClaimsEqualsNil(t *testing.T) {
	var a *Claims
	var b *Claims
	if !a.Equals(b) {
		t.Error("two nils are equal")
	}

	c := &Claims{OrgID: "org1"}
	if c.Equals(nil) || a.Equals(c) {
		t.Error("nil never equals non-nil")
	}
}

func TestClaimsMapRoundTrip(t *testing.T) {
	claims := &Claims{OrgID: "org1", Role: EmployeeRoleEmployee,
		LocKeys: map[string]LocationClaim{"loc1": {Role: LocationRoleManager, Positions: []string{"cook"}}}}

	decoded := ClaimsFromMap(claims.ToMap())
	if !claims.Equals(decoded) {
		t.Errorf("round trip changed claims: %+v != %+v", claims, decoded)
	}
}

func TestClaimsFromMap(t *testing.T) {
	decoded := ClaimsFromMap(map[string]interface{}{
		"org_id": "org1",
		"role":   "employee",
		"loc_keys": map[string]interface{}{
			"loc1": map[string]interface{}{"role": "staff", "pos": []interface{}{"cook"}},
		},
	})
	if decoded == nil {
		t.Fatal("decode failed")
	}
	assert.Equal(t, decoded.OrgID, "org1")
	assert.Equal(t, decoded.Role, EmployeeRoleEmployee)
	assert.Equal(t, decoded.LocKeys["loc1"].Role, LocationRoleStaff)
	assert.DeepEqual(t, decoded.LocKeys["loc1"].Positions, []string{"cook"})
}

func TestClaimsFromMapNoOrg(t *testing.T) {
	if ClaimsFromMap(nil) != nil {
		t.Error("nil payload gives nil claims")
	}
	if ClaimsFromMap(map[string]interface{}{"role": "employee"}) != nil {
		t.Error("payload without org_id gives nil claims")
	}
	if ClaimsFromMap(map[string]interface{}{"org_id": ""}) != nil {
		t.Error("empty org_id gives nil claims")
	}
}

func TestClaimsNilToMap(t *testing.T) {
	var claims *Claims
	if claims.ToMap() != nil {
		t.Error("nil claims encode to nil")
	}
}
