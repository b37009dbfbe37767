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

//Schedule
func scheduleFromStorage(item schedule) model.Schedule {
	var publish *model.PublishData
	if item.PublishData != nil {
		publish = &model.PublishData{NotificationRecipients: item.PublishData.NotificationRecipients,
			PublishedAt: item.PublishData.PublishedAt}
	}

	return model.Schedule{ID: item.ID, LocationID: item.LocationID, WeekID: item.WeekID,
		Published: item.Published, PublishData: publish,
		DateCreated: item.DateCreated, DateUpdated: item.DateUpdated}
}

//Shift
func shiftFromStorage(item shift) model.Shift {
	return model.Shift{ID: item.ID, LocationID: item.LocationID, WeekID: item.WeekID, UserID: item.UserID,
		Position: item.Position, Start: item.Start, End: item.End, DateCreated: item.DateCreated}
}

func shiftsFromStorage(itemsList []shift) []model.Shift {
	if len(itemsList) == 0 {
		return make([]model.Shift, 0)
	}

	items := make([]model.Shift, len(itemsList))
	for i, item := range itemsList {
		items[i] = shiftFromStorage(item)
	}
	return items
}

//FileMetadata
func fileMetadataFromStorage(item fileMetadata) model.FileMetadata {
	return model.FileMetadata{ID: item.ID, OwnerKind: model.QuotaOwnerKind(item.OwnerKind), OwnerID: item.OwnerID,
		Path: item.Path, Size: item.Size, DateCreated: item.DateCreated}
}

func fileMetadataToStorage(item model.FileMetadata) fileMetadata {
	return fileMetadata{ID: item.ID, OwnerKind: string(item.OwnerKind), OwnerID: item.OwnerID,
		Path: item.Path, Size: item.Size, DateCreated: item.DateCreated}
}

//BillingProduct
func billingProductToStorage(item model.BillingProduct) billingProduct {
	return billingProduct{ID: item.ID, Name: item.Name, Description: item.Description,
		Active: item.Active, DateUpdated: item.DateUpdated}
}

//BillingPrice
func billingPriceToStorage(item model.BillingPrice) billingPrice {
	return billingPrice{ID: item.ID, ProductID: item.ProductID, UnitAmount: item.UnitAmount,
		Currency: item.Currency, Interval: item.Interval, Active: item.Active, DateUpdated: item.DateUpdated}
}
