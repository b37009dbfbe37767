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

func TestParseStoragePath(t *testing.T) {
	path, err := ParseStoragePath("orgs/org1/boards/b1/file.png")
	assert.NilError(t, err)
	assert.Equal(t, path.OrgID, "org1")
	assert.Equal(t, path.LocationID, "")
	assert.Equal(t, path.Rest, "boards/b1/file.png")

	kind, owner := path.Owner()
	assert.Equal(t, kind, QuotaOwnerOrganization)
	assert.Equal(t, owner, "org1")
}

func TestParseStoragePathLocation(t *testing.T) {
	path, err := ParseStoragePath("orgs/org1/locations/loc1/docs/menu.pdf")
	assert.NilError(t, err)
	assert.Equal(t, path.OrgID, "org1")
	assert.Equal(t, path.LocationID, "loc1")
	assert.Equal(t, path.Rest, "docs/menu.pdf")

	kind, owner := path.Owner()
	assert.Equal(t, kind, QuotaOwnerLocation)
	assert.Equal(t, owner, "loc1")
}

func TestParseStoragePathInvalid(t *testing.T) {
	cases := []string{
		"",
		"file.png",
		"tmp/x/y",
		"orgs//file.png",
		"orgs/org1",
	}
	for _, name := range cases {
		if _, err := ParseStoragePath(name); err == nil {
			t.Errorf("expected error for %q", name)
		}
	}
}

func TestParseStoragePathShallowLocations(t *testing.T) {
	//a bare "locations" segment without content stays organization-owned
	path, err := ParseStoragePath("orgs/org1/locations/loc1")
	assert.NilError(t, err)
	assert.Equal(t, path.LocationID, "")
	assert.Equal(t, path.Rest, "locations/loc1")
}

func TestStoragePrefixesParse(t *testing.T) {
	//every generated prefix must parse back to its owner
	path, err := ParseStoragePath(LocationEmployeeStoragePrefix("org1", "loc1", "user1") + "cv.pdf")
	assert.NilError(t, err)
	kind, owner := path.Owner()
	assert.Equal(t, kind, QuotaOwnerLocation)
	assert.Equal(t, owner, "loc1")

	path, err = ParseStoragePath(ConversationStoragePrefix("org1", "conv1") + "photo.jpg")
	assert.NilError(t, err)
	kind, owner = path.Owner()
	assert.Equal(t, kind, QuotaOwnerOrganization)
	assert.Equal(t, owner, "org1")

	path, err = ParseStoragePath(OrganizationEmployeeStoragePrefix("org1", "user1") + "cv.pdf")
	assert.NilError(t, err)
	kind, owner = path.Owner()
	assert.Equal(t, kind, QuotaOwnerOrganization)
	assert.Equal(t, owner, "org1")
}
