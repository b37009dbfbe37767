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

package core

import (
	"testing"

	"workplace-building-block/core/model"

	"gotest.tools/assert"
)

func TestProcessObjectFinalizedAccepts(t *testing.T) {
	env := newTestEnv()
	env.storage.organizations["org1"] = &model.Organization{ID: "org1", StorageUsed: 10, StorageLimit: 100}

	err := env.app.processObjectFinalized("orgs/org1/boards/b1/file.png", 20, env.log)
	assert.NilError(t, err)

	assert.Equal(t, env.storage.organizations["org1"].StorageUsed, int64(30), "usage not incremented")
	metadata := env.storage.files["orgs/org1/boards/b1/file.png"]
	if metadata == nil {
		t.Fatal("file metadata not recorded")
	}
	assert.Equal(t, metadata.Size, int64(20))
	assert.Equal(t, metadata.OwnerKind, model.QuotaOwnerOrganization)
	assert.Equal(t, metadata.OwnerID, "org1")
}

func TestProcessObjectFinalizedRejectsOverQuota(t *testing.T) {
	env := newTestEnv()
	env.storage.organizations["org1"] = &model.Organization{ID: "org1", StorageUsed: 95, StorageLimit: 100}

	err := env.app.processObjectFinalized("orgs/org1/boards/b1/big.bin", 10, env.log)
	assert.NilError(t, err)

	assert.Equal(t, env.storage.organizations["org1"].StorageUsed, int64(95), "usage must not move on rejection")
	if env.storage.files["orgs/org1/boards/b1/big.bin"] != nil {
		t.Error("rejected upload must not keep metadata")
	}
	if !env.fileStorage.deletedObject("orgs/org1/boards/b1/big.bin") {
		t.Error("rejected upload's bytes not deleted")
	}
}

func TestProcessObjectFinalizedLocationQuota(t *testing.T) {
	env := newTestEnv()
	env.storage.locations["loc1"] = &model.Location{ID: "loc1", OrgID: "org1", StorageUsed: 0, StorageLimit: 50}

	err := env.app.processObjectFinalized("orgs/org1/locations/loc1/docs/menu.pdf", 30, env.log)
	assert.NilError(t, err)

	assert.Equal(t, env.storage.locations["loc1"].StorageUsed, int64(30), "location usage not incremented")
	metadata := env.storage.files["orgs/org1/locations/loc1/docs/menu.pdf"]
	if metadata == nil {
		t.Fatal("file metadata not recorded")
	}
	assert.Equal(t, metadata.OwnerKind, model.QuotaOwnerLocation)
	assert.Equal(t, metadata.OwnerID, "loc1")
}

func TestProcessObjectFinalizedUnlimited(t *testing.T) {
	env := newTestEnv()
	//a zero limit means no quota enforcement
	env.storage.organizations["org1"] = &model.Organization{ID: "org1", StorageUsed: 1000, StorageLimit: 0}

	err := env.app.processObjectFinalized("orgs/org1/big.bin", 5000, env.log)
	assert.NilError(t, err)

	assert.Equal(t, env.storage.organizations["org1"].StorageUsed, int64(6000))
	if env.fileStorage.deletedObject("orgs/org1/big.bin") {
		t.Error("upload must not be rejected without a limit")
	}
}

func TestProcessObjectFinalizedReplay(t *testing.T) {
	env := newTestEnv()
	env.storage.organizations["org1"] = &model.Organization{ID: "org1", StorageUsed: 20, StorageLimit: 100}
	env.storage.files["orgs/org1/file.png"] = &model.FileMetadata{ID: "f1", OwnerKind: model.QuotaOwnerOrganization,
		OwnerID: "org1", Path: "orgs/org1/file.png", Size: 20}

	err := env.app.processObjectFinalized("orgs/org1/file.png", 20, env.log)
	assert.NilError(t, err)

	assert.Equal(t, env.storage.organizations["org1"].StorageUsed, int64(20), "replayed event must not double-account")
}

func TestProcessObjectFinalizedOverwrite(t *testing.T) {
	env := newTestEnv()
	env.storage.organizations["org1"] = &model.Organization{ID: "org1", StorageUsed: 20, StorageLimit: 100}
	env.storage.files["orgs/org1/file.png"] = &model.FileMetadata{ID: "f1", OwnerKind: model.QuotaOwnerOrganization,
		OwnerID: "org1", Path: "orgs/org1/file.png", Size: 20}

	err := env.app.processObjectFinalized("orgs/org1/file.png", 50, env.log)
	assert.NilError(t, err)

	assert.Equal(t, env.storage.organizations["org1"].StorageUsed, int64(50), "overwrite must account only the size change")
	assert.Equal(t, env.storage.files["orgs/org1/file.png"].Size, int64(50), "metadata must record the new size")
}

func TestProcessObjectFinalizedOverwriteShrinks(t *testing.T) {
	env := newTestEnv()
	env.storage.organizations["org1"] = &model.Organization{ID: "org1", StorageUsed: 60, StorageLimit: 100}
	env.storage.files["orgs/org1/file.png"] = &model.FileMetadata{ID: "f1", OwnerKind: model.QuotaOwnerOrganization,
		OwnerID: "org1", Path: "orgs/org1/file.png", Size: 50}

	err := env.app.processObjectFinalized("orgs/org1/file.png", 20, env.log)
	assert.NilError(t, err)

	assert.Equal(t, env.storage.organizations["org1"].StorageUsed, int64(30), "shrinking overwrite must release the difference")
	assert.Equal(t, env.storage.files["orgs/org1/file.png"].Size, int64(20))
}

func TestProcessObjectFinalizedOverwriteRejected(t *testing.T) {
	env := newTestEnv()
	env.storage.organizations["org1"] = &model.Organization{ID: "org1", StorageUsed: 90, StorageLimit: 100}
	env.storage.files["orgs/org1/file.png"] = &model.FileMetadata{ID: "f1", OwnerKind: model.QuotaOwnerOrganization,
		OwnerID: "org1", Path: "orgs/org1/file.png", Size: 20}

	err := env.app.processObjectFinalized("orgs/org1/file.png", 50, env.log)
	assert.NilError(t, err)

	//the overwrite replaced the accounted 20 bytes, so rejection releases them too
	assert.Equal(t, env.storage.organizations["org1"].StorageUsed, int64(70), "rejected overwrite must release the replaced bytes")
	if env.storage.files["orgs/org1/file.png"] != nil {
		t.Error("rejected overwrite must not keep metadata")
	}
	if !env.fileStorage.deletedObject("orgs/org1/file.png") {
		t.Error("rejected overwrite's bytes not deleted")
	}
}

func TestProcessObjectFinalizedIgnoresUnscopedPath(t *testing.T) {
	env := newTestEnv()

	err := env.app.processObjectFinalized("tmp/scratch.bin", 100, env.log)
	assert.NilError(t, err)

	if len(env.storage.calls) != 0 {
		t.Errorf("unscoped object must not touch storage: %v", env.storage.calls)
	}
}

func TestProcessObjectDeletedReleases(t *testing.T) {
	env := newTestEnv()
	env.storage.organizations["org1"] = &model.Organization{ID: "org1", StorageUsed: 50, StorageLimit: 100}
	env.storage.files["orgs/org1/file.png"] = &model.FileMetadata{ID: "f1", OwnerKind: model.QuotaOwnerOrganization,
		OwnerID: "org1", Path: "orgs/org1/file.png", Size: 20}

	err := env.app.processObjectDeleted("orgs/org1/file.png", env.log)
	assert.NilError(t, err)

	assert.Equal(t, env.storage.organizations["org1"].StorageUsed, int64(30), "usage not released")
	if env.storage.files["orgs/org1/file.png"] != nil {
		t.Error("file metadata not removed")
	}
}

func TestProcessObjectDeletedUnaccounted(t *testing.T) {
	env := newTestEnv()
	env.storage.organizations["org1"] = &model.Organization{ID: "org1", StorageUsed: 50, StorageLimit: 100}

	err := env.app.processObjectDeleted("orgs/org1/never-seen.png", env.log)
	assert.NilError(t, err)

	assert.Equal(t, env.storage.organizations["org1"].StorageUsed, int64(50), "unaccounted delete must not move usage")
}
