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

	"github.com/rokwire/logging-library-go/v2/errors"
	"github.com/rokwire/logging-library-go/v2/logutils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FindEmployee finds the user's employee record in an organization
func (sa *Adapter) FindEmployee(orgID string, userID string) (*model.Employee, error) {
	filter := bson.M{"org_id": orgID, "user_id": userID}
	var result employee
	err := sa.db.employees.FindOne(filter, &result, nil)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeEmployee, &logutils.FieldArgs{"org_id": orgID, "user_id": userID}, err)
	}

	item := employeeFromStorage(result)
	return &item, nil
}

// FindEmployeesByLocation finds every employee record assigned to or supervising
// a location
func (sa *Adapter) FindEmployeesByLocation(locationID string) ([]model.Employee, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"locations." + locationID: bson.M{"$exists": true}},
		bson.M{"org_scope.locations." + locationID: true},
	}}
	var result []employee
	err := sa.db.employees.Find(filter, &result, nil)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeEmployee, &logutils.FieldArgs{"location_id": locationID}, err)
	}
	return employeesFromStorage(result), nil
}

// SaveEmployee upserts an employee record keyed by organization and user
func (sa *Adapter) SaveEmployee(item model.Employee) error {
	stored := employeeToStorage(item)
	filter := bson.M{"org_id": item.OrgID, "user_id": item.UserID}
	opts := options.Replace().SetUpsert(true)
	err := sa.db.employees.ReplaceOne(filter, stored, opts)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionSave, model.TypeEmployee, &logutils.FieldArgs{"org_id": item.OrgID, "user_id": item.UserID}, err)
	}
	return nil
}

// FindUser finds a user profile by ID
func (sa *Adapter) FindUser(id string) (*model.User, error) {
	filter := bson.M{"_id": id}
	var result user
	err := sa.db.users.FindOne(filter, &result, nil)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeUser, &logutils.FieldArgs{"_id": id}, err)
	}

	item := userFromStorage(result)
	return &item, nil
}

// FindUsers finds the user profiles for a set of IDs. Missing profiles are simply
// absent from the result.
func (sa *Adapter) FindUsers(ids []string) ([]model.User, error) {
	if len(ids) == 0 {
		return make([]model.User, 0), nil
	}

	filter := bson.M{"_id": bson.M{"$in": ids}}
	var result []user
	err := sa.db.users.Find(filter, &result, nil)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeUser, &logutils.FieldArgs{"count": len(ids)}, err)
	}
	return usersFromStorage(result), nil
}
