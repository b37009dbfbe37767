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
	"workplace-building-block/core/model"
)

//Employee
func employeeFromStorage(item employee) model.Employee {
	var scope *model.OrgScope
	if item.OrgScope != nil {
		scope = &model.OrgScope{Locations: item.OrgScope.Locations}
	}

	var locations map[string]model.EmployeeLocation
	if item.Locations != nil {
		locations = make(map[string]model.EmployeeLocation, len(item.Locations))
		for locationID, assignment := range item.Locations {
			locations[locationID] = model.EmployeeLocation{Role: model.LocationRole(assignment.Role),
				Positions: assignment.Positions, WageHourly: assignment.WageHourly}
		}
	}

	return model.Employee{ID: item.ID, OrgID: item.OrgID, UserID: item.UserID, Name: item.Name, Email: item.Email,
		Role: model.EmployeeRole(item.Role), OrgScope: scope, Locations: locations,
		DateCreated: item.DateCreated, DateUpdated: item.DateUpdated}
}

func employeesFromStorage(itemsList []employee) []model.Employee {
	if len(itemsList) == 0 {
		return make([]model.Employee, 0)
	}

	items := make([]model.Employee, len(itemsList))
	for i, item := range itemsList {
		items[i] = employeeFromStorage(item)
	}
	return items
}

func employeeToStorage(item model.Employee) employee {
	var scope *orgScope
	if item.OrgScope != nil {
		scope = &orgScope{Locations: item.OrgScope.Locations}
	}

	var locations map[string]employeeLocation
	if item.Locations != nil {
		locations = make(map[string]employeeLocation, len(item.Locations))
		for locationID, assignment := range item.Locations {
			locations[locationID] = employeeLocation{Role: string(assignment.Role),
				Positions: assignment.Positions, WageHourly: assignment.WageHourly}
		}
	}

	return employee{ID: item.ID, OrgID: item.OrgID, UserID: item.UserID, Name: item.Name, Email: item.Email,
		Role: string(item.Role), OrgScope: scope, Locations: locations,
		DateCreated: item.DateCreated, DateUpdated: item.DateUpdated}
}

//User
func userFromStorage(item user) model.User {
	return model.User{ID: item.ID, Name: item.Name, Email: item.Email,
		Organizations: item.Organizations, SupervisingLocations: item.SupervisingLocations,
		LocationsList: item.LocationsList, FCMTokens: item.FCMTokens,
		DateCreated: item.DateCreated, DateUpdated: item.DateUpdated}
}

func usersFromStorage(itemsList []user) []model.User {
	if len(itemsList) == 0 {
		return make([]model.User, 0)
	}

	items := make([]model.User, len(itemsList))
	for i, item := range itemsList {
		items[i] = userFromStorage(item)
	}
	return items
}
