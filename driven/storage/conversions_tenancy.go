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

//Organization
func organizationFromStorage(item organization) model.Organization {
	return model.Organization{ID: item.ID, Name: item.Name, LocationCount: item.LocationCount,
		CustomerID: item.CustomerID, SubscriptionID: item.SubscriptionID, SubscriptionItemID: item.SubscriptionItemID,
		SubscriptionStatus: model.SubscriptionStatus(item.SubscriptionStatus),
		StorageUsed:        item.StorageUsed, StorageLimit: item.StorageLimit,
		DateCreated: item.DateCreated, DateUpdated: item.DateUpdated}
}

//Location
func locationFromStorage(item location) model.Location {
	return model.Location{ID: item.ID, OrgID: item.OrgID, Name: item.Name,
		Members: item.Members, Supervisors: item.Supervisors,
		StorageUsed: item.StorageUsed, StorageLimit: item.StorageLimit,
		SubscriptionStatus: model.SubscriptionStatus(item.SubscriptionStatus),
		DateCreated:        item.DateCreated, DateUpdated: item.DateUpdated}
}

func locationsFromStorage(itemsList []location) []model.Location {
	if len(itemsList) == 0 {
		return make([]model.Location, 0)
	}

	items := make([]model.Location, len(itemsList))
	for i, item := range itemsList {
		items[i] = locationFromStorage(item)
	}
	return items
}
