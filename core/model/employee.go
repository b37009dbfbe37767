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

	"github.com/rokwire/logging-library-go/v2/errors"
	"github.com/rokwire/logging-library-go/v2/logutils"
)

const (
	//TypeEmployee employee type
	TypeEmployee logutils.MessageDataType = "employee"
	//TypeEmployeeRole employee role type
	TypeEmployeeRole logutils.MessageDataType = "employee role"
	//TypeEmployeeLocation employee location assignment type
	TypeEmployeeLocation logutils.MessageDataType = "employee location"
)

// EmployeeRole is the organization-level role tag discriminating the employee variant
type EmployeeRole string

const (
	//EmployeeRoleOwner owner
	EmployeeRoleOwner EmployeeRole = "owner"
	//EmployeeRoleAdmin admin
	EmployeeRoleAdmin EmployeeRole = "admin"
	//EmployeeRoleEmployee location-scoped employee
	EmployeeRoleEmployee EmployeeRole = "employee"
)

// LocationRole is the per-location role of a location-scoped employee
type LocationRole string

const (
	//LocationRoleManager manager
	LocationRoleManager LocationRole = "manager"
	//LocationRoleSupervisor supervisor
	LocationRoleSupervisor LocationRole = "supervisor"
	//LocationRoleStaff staff
	LocationRoleStaff LocationRole = "staff"
)

// Outranks says whether the role sits above the other in the location hierarchy
func (r LocationRole) Outranks(other LocationRole) bool {
	rank := map[LocationRole]int{LocationRoleStaff: 0, LocationRoleSupervisor: 1, LocationRoleManager: 2}
	return rank[r] > rank[other]
}

// EmployeeLocation carries the per-location assignment of a location-scoped employee
type EmployeeLocation struct {
	Role      LocationRole
	Positions []string

	WageHourly float64
}

// OrgScope carries the assignment payload of an owner/admin employee record - the set
// of locations they supervise
type OrgScope struct {
	Locations map[string]bool
}

// Employee is a tagged variant: owner/admin records carry OrgScope, location-scoped
// records carry Locations. Exactly one payload is set, selected by Role.
type Employee struct {
	ID     string
	OrgID  string
	UserID string

	Name  string
	Email string

	Role      EmployeeRole
	OrgScope  *OrgScope
	Locations map[string]EmployeeLocation

	DateCreated time.Time
	DateUpdated *time.Time
}

// Validate checks the tag/payload consistency of the variant
func (e Employee) Validate() error {
	switch e.Role {
	case EmployeeRoleOwner, EmployeeRoleAdmin:
		if e.Locations != nil {
			return errors.ErrorData(logutils.StatusInvalid, TypeEmployee, &logutils.FieldArgs{"role": string(e.Role), "locations": "set"})
		}
		return nil
	case EmployeeRoleEmployee:
		if e.OrgScope != nil {
			return errors.ErrorData(logutils.StatusInvalid, TypeEmployee, &logutils.FieldArgs{"role": string(e.Role), "org_scope": "set"})
		}
		if e.Locations == nil {
			return errors.ErrorData(logutils.StatusMissing, TypeEmployeeLocation, &logutils.FieldArgs{"user_id": e.UserID})
		}
		return nil
	default:
		return errors.ErrorData(logutils.StatusInvalid, TypeEmployeeRole, &logutils.FieldArgs{"role": string(e.Role)})
	}
}

// LocationIDs lists every location the employee is assigned to or supervises
func (e Employee) LocationIDs() []string {
	switch e.Role {
	case EmployeeRoleOwner, EmployeeRoleAdmin:
		if e.OrgScope == nil {
			return nil
		}
		ids := make([]string, 0, len(e.OrgScope.Locations))
		for id := range e.OrgScope.Locations {
			ids = append(ids, id)
		}
		return ids
	case EmployeeRoleEmployee:
		ids := make([]string, 0, len(e.Locations))
		for id := range e.Locations {
			ids = append(ids, id)
		}
		return ids
	default:
		return nil
	}
}

// AssignedTo says whether the employee has an assignment at the location
func (e Employee) AssignedTo(locationID string) bool {
	switch e.Role {
	case EmployeeRoleOwner, EmployeeRoleAdmin:
		return e.OrgScope != nil && e.OrgScope.Locations[locationID]
	case EmployeeRoleEmployee:
		_, ok := e.Locations[locationID]
		return ok
	default:
		return false
	}
}

// PositionsAt gives the employee's positions at the location. Owner/admin records
// carry no positions.
func (e Employee) PositionsAt(locationID string) []string {
	switch e.Role {
	case EmployeeRoleOwner, EmployeeRoleAdmin:
		return nil
	case EmployeeRoleEmployee:
		if el, ok := e.Locations[locationID]; ok {
			return el.Positions
		}
		return nil
	default:
		return nil
	}
}

// RoleAt gives the employee's location role, if any
func (e Employee) RoleAt(locationID string) *LocationRole {
	switch e.Role {
	case EmployeeRoleOwner, EmployeeRoleAdmin:
		if e.OrgScope != nil && e.OrgScope.Locations[locationID] {
			manager := LocationRoleManager
			return &manager
		}
		return nil
	case EmployeeRoleEmployee:
		if el, ok := e.Locations[locationID]; ok {
			role := el.Role
			return &role
		}
		return nil
	default:
		return nil
	}
}

func (e Employee) String() string {
	return fmt.Sprintf("[ID:%s\tOrg:%s\tUser:%s\tRole:%s]", e.ID, e.OrgID, e.UserID, e.Role)
}
