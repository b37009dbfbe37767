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
	"time"

	"workplace-building-block/core/model"

	"github.com/rokwire/logging-library-go/v2/errors"
	"github.com/rokwire/logging-library-go/v2/logutils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type idOnly struct {
	ID string `bson:"_id"`
}

// FindOrganization finds an organization by ID
func (sa *Adapter) FindOrganization(context TransactionContext, id string) (*model.Organization, error) {
	filter := bson.M{"_id": id}
	var result organization
	err := sa.db.organizations.FindOneWithContext(context, filter, &result, nil)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeOrganization, &logutils.FieldArgs{"_id": id}, err)
	}

	item := organizationFromStorage(result)
	return &item, nil
}

// FindOrganizationByCustomer finds the organization owning a billing customer
func (sa *Adapter) FindOrganizationByCustomer(customerID string) (*model.Organization, error) {
	filter := bson.M{"customer_id": customerID}
	var result organization
	err := sa.db.organizations.FindOne(filter, &result, nil)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeOrganization, &logutils.FieldArgs{"customer_id": customerID}, err)
	}

	item := organizationFromStorage(result)
	return &item, nil
}

// UpdateOrganizationSubscription stores the subscription identifiers and status
// reported by the billing provider
func (sa *Adapter) UpdateOrganizationSubscription(orgID string, subscriptionID string, itemID string, status model.SubscriptionStatus) error {
	filter := bson.M{"_id": orgID}
	update := bson.M{"$set": bson.M{"subscription_id": subscriptionID, "subscription_item_id": itemID,
		"subscription_status": string(status), "date_updated": time.Now().UTC()}}
	res, err := sa.db.organizations.UpdateOne(filter, update, nil)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionUpdate, model.TypeOrganization, &logutils.FieldArgs{"_id": orgID}, err)
	}
	if res.MatchedCount == 0 {
		return errors.ErrorData(logutils.StatusMissing, model.TypeOrganization, &logutils.FieldArgs{"_id": orgID})
	}
	return nil
}

// UpdateOrganizationStorageUsed adjusts the organization's storage counter. The
// counter never goes below zero.
func (sa *Adapter) UpdateOrganizationStorageUsed(context TransactionContext, orgID string, delta int64) error {
	filter := bson.M{"_id": orgID}
	update := bson.A{bson.M{"$set": bson.M{"storage_used": bson.M{
		"$max": bson.A{0, bson.M{"$add": bson.A{bson.M{"$ifNull": bson.A{"$storage_used", 0}}, delta}}}}}}}
	res, err := sa.db.organizations.UpdateOneWithContext(context, filter, update, nil)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionUpdate, model.TypeOrganization, &logutils.FieldArgs{"_id": orgID, "delta": delta}, err)
	}
	if res.MatchedCount == 0 {
		return errors.ErrorData(logutils.StatusMissing, model.TypeOrganization, &logutils.FieldArgs{"_id": orgID})
	}
	return nil
}

// DeleteOrganization deletes an organization document. An already-deleted
// organization is not an error.
func (sa *Adapter) DeleteOrganization(id string) error {
	filter := bson.M{"_id": id}
	_, err := sa.db.organizations.DeleteOne(filter, nil)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionDelete, model.TypeOrganization, &logutils.FieldArgs{"_id": id}, err)
	}
	return nil
}

// DeleteOrganizationSubtree sweeps every organization-scoped document - employees,
// conversations and their messages, boards and their contents, and the
// organization-level file records. Location-level documents are covered by the
// per-location subtree deletes that run first.
func (sa *Adapter) DeleteOrganizationSubtree(orgID string) error {
	conversationIDs, err := sa.findIDs(sa.db.conversations, bson.M{"org_id": orgID})
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionFind, model.TypeConversation, &logutils.FieldArgs{"org_id": orgID}, err)
	}
	if len(conversationIDs) > 0 {
		_, err = sa.db.messages.DeleteMany(bson.M{"conversation_id": bson.M{"$in": conversationIDs}}, nil)
		if err != nil {
			return errors.WrapErrorAction(logutils.ActionDelete, model.TypeMessage, &logutils.FieldArgs{"org_id": orgID}, err)
		}
	}
	_, err = sa.db.conversations.DeleteMany(bson.M{"org_id": orgID}, nil)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionDelete, model.TypeConversation, &logutils.FieldArgs{"org_id": orgID}, err)
	}

	boardIDs, err := sa.findIDs(sa.db.boards, bson.M{"org_id": orgID})
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionFind, model.TypeBoard, &logutils.FieldArgs{"org_id": orgID}, err)
	}
	if len(boardIDs) > 0 {
		_, err = sa.db.boardContents.DeleteMany(bson.M{"board_id": bson.M{"$in": boardIDs}}, nil)
		if err != nil {
			return errors.WrapErrorAction(logutils.ActionDelete, model.TypeBoardContent, &logutils.FieldArgs{"org_id": orgID}, err)
		}
	}
	_, err = sa.db.boards.DeleteMany(bson.M{"org_id": orgID}, nil)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionDelete, model.TypeBoard, &logutils.FieldArgs{"org_id": orgID}, err)
	}

	_, err = sa.db.employees.DeleteMany(bson.M{"org_id": orgID}, nil)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionDelete, model.TypeEmployee, &logutils.FieldArgs{"org_id": orgID}, err)
	}

	_, err = sa.db.files.DeleteMany(bson.M{"owner_kind": string(model.QuotaOwnerOrganization), "owner_id": orgID}, nil)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionDelete, model.TypeFileMetadata, &logutils.FieldArgs{"org_id": orgID}, err)
	}

	return nil
}

// FindLocation finds a location by ID
func (sa *Adapter) FindLocation(context TransactionContext, id string) (*model.Location, error) {
	filter := bson.M{"_id": id}
	var result location
	err := sa.db.locations.FindOneWithContext(context, filter, &result, nil)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeLocation, &logutils.FieldArgs{"_id": id}, err)
	}

	item := locationFromStorage(result)
	return &item, nil
}

// FindLocationsByOrg finds the organization's locations
func (sa *Adapter) FindLocationsByOrg(orgID string) ([]model.Location, error) {
	filter := bson.M{"org_id": orgID}
	var result []location
	err := sa.db.locations.Find(filter, &result, nil)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeLocation, &logutils.FieldArgs{"org_id": orgID}, err)
	}
	return locationsFromStorage(result), nil
}

// UpdateLocationStorageUsed adjusts the location's storage counter. The counter
// never goes below zero.
func (sa *Adapter) UpdateLocationStorageUsed(context TransactionContext, locationID string, delta int64) error {
	filter := bson.M{"_id": locationID}
	update := bson.A{bson.M{"$set": bson.M{"storage_used": bson.M{
		"$max": bson.A{0, bson.M{"$add": bson.A{bson.M{"$ifNull": bson.A{"$storage_used", 0}}, delta}}}}}}}
	res, err := sa.db.locations.UpdateOneWithContext(context, filter, update, nil)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionUpdate, model.TypeLocation, &logutils.FieldArgs{"_id": locationID, "delta": delta}, err)
	}
	if res.MatchedCount == 0 {
		return errors.ErrorData(logutils.StatusMissing, model.TypeLocation, &logutils.FieldArgs{"_id": locationID})
	}
	return nil
}

// DeleteLocation deletes a location document. An already-deleted location is not
// an error.
func (sa *Adapter) DeleteLocation(id string) error {
	filter := bson.M{"_id": id}
	_, err := sa.db.locations.DeleteOne(filter, nil)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionDelete, model.TypeLocation, &logutils.FieldArgs{"_id": id}, err)
	}
	return nil
}

// DeleteLocationSubtree sweeps every location-scoped document - conversations and
// their messages, boards and their contents, schedules, shifts and the location's
// file records
func (sa *Adapter) DeleteLocationSubtree(locationID string) error {
	conversationIDs, err := sa.findIDs(sa.db.conversations, bson.M{"location_id": locationID})
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionFind, model.TypeConversation, &logutils.FieldArgs{"location_id": locationID}, err)
	}
	if len(conversationIDs) > 0 {
		_, err = sa.db.messages.DeleteMany(bson.M{"conversation_id": bson.M{"$in": conversationIDs}}, nil)
		if err != nil {
			return errors.WrapErrorAction(logutils.ActionDelete, model.TypeMessage, &logutils.FieldArgs{"location_id": locationID}, err)
		}
	}
	_, err = sa.db.conversations.DeleteMany(bson.M{"location_id": locationID}, nil)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionDelete, model.TypeConversation, &logutils.FieldArgs{"location_id": locationID}, err)
	}

	boardIDs, err := sa.findIDs(sa.db.boards, bson.M{"location_id": locationID})
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionFind, model.TypeBoard, &logutils.FieldArgs{"location_id": locationID}, err)
	}
	if len(boardIDs) > 0 {
		_, err = sa.db.boardContents.DeleteMany(bson.M{"board_id": bson.M{"$in": boardIDs}}, nil)
		if err != nil {
			return errors.WrapErrorAction(logutils.ActionDelete, model.TypeBoardContent, &logutils.FieldArgs{"location_id": locationID}, err)
		}
	}
	_, err = sa.db.boards.DeleteMany(bson.M{"location_id": locationID}, nil)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionDelete, model.TypeBoard, &logutils.FieldArgs{"location_id": locationID}, err)
	}

	_, err = sa.db.schedules.DeleteMany(bson.M{"location_id": locationID}, nil)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionDelete, model.TypeSchedule, &logutils.FieldArgs{"location_id": locationID}, err)
	}
	_, err = sa.db.shifts.DeleteMany(bson.M{"location_id": locationID}, nil)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionDelete, model.TypeShift, &logutils.FieldArgs{"location_id": locationID}, err)
	}

	_, err = sa.db.files.DeleteMany(bson.M{"owner_kind": string(model.QuotaOwnerLocation), "owner_id": locationID}, nil)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionDelete, model.TypeFileMetadata, &logutils.FieldArgs{"location_id": locationID}, err)
	}

	return nil
}

func (sa *Adapter) findIDs(coll *collectionWrapper, filter bson.M) ([]string, error) {
	var result []idOnly
	findOptions := options.Find().SetProjection(bson.M{"_id": 1})
	err := coll.Find(filter, &result, findOptions)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(result))
	for i, item := range result {
		ids[i] = item.ID
	}
	return ids, nil
}
