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

// FindSchedule finds a location's schedule for an ISO week
func (sa *Adapter) FindSchedule(locationID string, weekID string) (*model.Schedule, error) {
	filter := bson.M{"location_id": locationID, "week_id": weekID}
	var result schedule
	err := sa.db.schedules.FindOne(filter, &result, nil)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeSchedule, &logutils.FieldArgs{"location_id": locationID, "week_id": weekID}, err)
	}

	item := scheduleFromStorage(result)
	return &item, nil
}

// MarkSchedulePublished marks the week's schedule published and records the
// notification recipients
func (sa *Adapter) MarkSchedulePublished(locationID string, weekID string, data model.PublishData) error {
	filter := bson.M{"location_id": locationID, "week_id": weekID}
	update := bson.M{"$set": bson.M{"published": true,
		"publish_data": publishData{NotificationRecipients: data.NotificationRecipients, PublishedAt: data.PublishedAt},
		"date_updated": time.Now().UTC()}}
	res, err := sa.db.schedules.UpdateOne(filter, update, nil)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionUpdate, model.TypeSchedule, &logutils.FieldArgs{"location_id": locationID, "week_id": weekID}, err)
	}
	if res.MatchedCount == 0 {
		return errors.ErrorData(logutils.StatusMissing, model.TypeSchedule, &logutils.FieldArgs{"location_id": locationID, "week_id": weekID})
	}
	return nil
}

// FindShiftsByWeek finds the shifts of a location's week
func (sa *Adapter) FindShiftsByWeek(locationID string, weekID string) ([]model.Shift, error) {
	filter := bson.M{"location_id": locationID, "week_id": weekID}
	var result []shift
	err := sa.db.shifts.Find(filter, &result, nil)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeShift, &logutils.FieldArgs{"location_id": locationID, "week_id": weekID}, err)
	}
	return shiftsFromStorage(result), nil
}

// DeleteSchedulesByLocation deletes a location's schedules and their shifts
func (sa *Adapter) DeleteSchedulesByLocation(locationID string) error {
	filter := bson.M{"location_id": locationID}
	_, err := sa.db.shifts.DeleteMany(filter, nil)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionDelete, model.TypeShift, &logutils.FieldArgs{"location_id": locationID}, err)
	}
	_, err = sa.db.schedules.DeleteMany(filter, nil)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionDelete, model.TypeSchedule, &logutils.FieldArgs{"location_id": locationID}, err)
	}
	return nil
}

// InsertFileMetadata records an uploaded object
func (sa *Adapter) InsertFileMetadata(context TransactionContext, metadata model.FileMetadata) error {
	stored := fileMetadataToStorage(metadata)
	_, err := sa.db.files.InsertOneWithContext(context, stored)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionInsert, model.TypeFileMetadata, &logutils.FieldArgs{"path": metadata.Path}, err)
	}
	return nil
}

// FindFileMetadataByPath finds the record of an uploaded object by its path
func (sa *Adapter) FindFileMetadataByPath(context TransactionContext, path string) (*model.FileMetadata, error) {
	filter := bson.M{"path": path}
	var result fileMetadata
	err := sa.db.files.FindOneWithContext(context, filter, &result, nil)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeFileMetadata, &logutils.FieldArgs{"path": path}, err)
	}

	item := fileMetadataFromStorage(result)
	return &item, nil
}

// UpdateFileMetadataSize records the new size of an overwritten object
func (sa *Adapter) UpdateFileMetadataSize(context TransactionContext, path string, size int64) error {
	filter := bson.M{"path": path}
	update := bson.M{"$set": bson.M{"size": size}}
	res, err := sa.db.files.UpdateOneWithContext(context, filter, update, nil)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionUpdate, model.TypeFileMetadata, &logutils.FieldArgs{"path": path}, err)
	}
	if res.MatchedCount == 0 {
		return errors.ErrorData(logutils.StatusMissing, model.TypeFileMetadata, &logutils.FieldArgs{"path": path})
	}
	return nil
}

// DeleteFileMetadata deletes the record of an uploaded object. An already-deleted
// record is not an error.
func (sa *Adapter) DeleteFileMetadata(context TransactionContext, path string) error {
	filter := bson.M{"path": path}
	_, err := sa.db.files.DeleteOneWithContext(context, filter, nil)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionDelete, model.TypeFileMetadata, &logutils.FieldArgs{"path": path}, err)
	}
	return nil
}

// UpsertBillingProduct mirrors a billing-provider product
func (sa *Adapter) UpsertBillingProduct(product model.BillingProduct) error {
	stored := billingProductToStorage(product)
	filter := bson.M{"_id": product.ID}
	opts := options.Replace().SetUpsert(true)
	err := sa.db.billingProducts.ReplaceOne(filter, stored, opts)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionSave, model.TypeBillingProduct, &logutils.FieldArgs{"_id": product.ID}, err)
	}
	return nil
}

// DeleteBillingProduct removes a mirrored billing-provider product
func (sa *Adapter) DeleteBillingProduct(id string) error {
	filter := bson.M{"_id": id}
	_, err := sa.db.billingProducts.DeleteOne(filter, nil)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionDelete, model.TypeBillingProduct, &logutils.FieldArgs{"_id": id}, err)
	}
	return nil
}

// UpsertBillingPrice mirrors a billing-provider price
func (sa *Adapter) UpsertBillingPrice(price model.BillingPrice) error {
	stored := billingPriceToStorage(price)
	filter := bson.M{"_id": price.ID}
	opts := options.Replace().SetUpsert(true)
	err := sa.db.billingPrices.ReplaceOne(filter, stored, opts)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionSave, model.TypeBillingPrice, &logutils.FieldArgs{"_id": price.ID}, err)
	}
	return nil
}

// DeleteBillingPrice removes a mirrored billing-provider price
func (sa *Adapter) DeleteBillingPrice(id string) error {
	filter := bson.M{"_id": id}
	_, err := sa.db.billingPrices.DeleteOne(filter, nil)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionDelete, model.TypeBillingPrice, &logutils.FieldArgs{"_id": id}, err)
	}
	return nil
}

// SetOrganizationPaymentMethod stores or clears the default payment method of the
// organization owning a billing customer. An unknown customer is not an error -
// payment method events can arrive before the organization is linked.
func (sa *Adapter) SetOrganizationPaymentMethod(customerID string, paymentMethodID *string) error {
	filter := bson.M{"customer_id": customerID}
	var update bson.M
	if paymentMethodID != nil {
		update = bson.M{"$set": bson.M{"payment_method_id": *paymentMethodID, "date_updated": time.Now().UTC()}}
	} else {
		update = bson.M{"$unset": bson.M{"payment_method_id": ""}, "$set": bson.M{"date_updated": time.Now().UTC()}}
	}
	_, err := sa.db.organizations.UpdateOne(filter, update, nil)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionUpdate, model.TypeOrganization, &logutils.FieldArgs{"customer_id": customerID}, err)
	}
	return nil
}
