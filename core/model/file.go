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
	"strings"
	"time"

	"github.com/rokwire/logging-library-go/v2/errors"
	"github.com/rokwire/logging-library-go/v2/logutils"
)

const (
	//TypeFileMetadata file metadata type
	TypeFileMetadata logutils.MessageDataType = "file metadata"
	//TypeStoragePath object-store path type
	TypeStoragePath logutils.MessageDataType = "storage path"
)

// QuotaOwnerKind identifies which entity's storage quota a file counts against
type QuotaOwnerKind string

const (
	//QuotaOwnerOrganization organization-level quota
	QuotaOwnerOrganization QuotaOwnerKind = "organization"
	//QuotaOwnerLocation location-level quota
	QuotaOwnerLocation QuotaOwnerKind = "location"
)

// FileMetadata is the document-store record of an uploaded object
type FileMetadata struct {
	ID string

	OwnerKind QuotaOwnerKind
	OwnerID   string

	Path string
	Size int64

	DateCreated time.Time
}

// StoragePath is a parsed object-store path. All objects live under an organization
// prefix; location objects nest one level deeper.
type StoragePath struct {
	OrgID      string
	LocationID string //empty for organization-level objects
	Rest       string
}

// Owner gives the quota owner of the path
func (p StoragePath) Owner() (QuotaOwnerKind, string) {
	if p.LocationID != "" {
		return QuotaOwnerLocation, p.LocationID
	}
	return QuotaOwnerOrganization, p.OrgID
}

// OrganizationStoragePrefix is the object-store prefix owned by an organization
func OrganizationStoragePrefix(orgID string) string {
	return "orgs/" + orgID + "/"
}

// LocationStoragePrefix is the object-store prefix owned by a location
func LocationStoragePrefix(orgID string, locationID string) string {
	return OrganizationStoragePrefix(orgID) + "locations/" + locationID + "/"
}

// LocationEmployeeStoragePrefix covers a location-scoped employee's files
func LocationEmployeeStoragePrefix(orgID string, locationID string, userID string) string {
	return LocationStoragePrefix(orgID, locationID) + "employees/" + userID + "/"
}

// OrganizationEmployeeStoragePrefix covers an organization-scoped employee's files
func OrganizationEmployeeStoragePrefix(orgID string, userID string) string {
	return OrganizationStoragePrefix(orgID) + "employees/" + userID + "/"
}

// ConversationStoragePrefix covers a conversation's attachments
func ConversationStoragePrefix(orgID string, conversationID string) string {
	return OrganizationStoragePrefix(orgID) + "conversations/" + conversationID + "/"
}

// ParseStoragePath parses an object name into its owning scope
func ParseStoragePath(name string) (*StoragePath, error) {
	parts := strings.Split(name, "/")
	if len(parts) < 3 || parts[0] != "orgs" || parts[1] == "" {
		return nil, errors.ErrorData(logutils.StatusInvalid, TypeStoragePath, &logutils.FieldArgs{"name": name})
	}
	path := StoragePath{OrgID: parts[1]}
	if len(parts) >= 5 && parts[2] == "locations" && parts[3] != "" {
		path.LocationID = parts[3]
		path.Rest = strings.Join(parts[4:], "/")
		return &path, nil
	}
	path.Rest = strings.Join(parts[2:], "/")
	return &path, nil
}
