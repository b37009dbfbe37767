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
	"time"

	"workplace-building-block/core/model"
	"workplace-building-block/driven/storage"

	"github.com/google/uuid"
	"github.com/rokwire/logging-library-go/v2/errors"
	"github.com/rokwire/logging-library-go/v2/logs"
	"github.com/rokwire/logging-library-go/v2/logutils"
)

// Storage-quota enforcement is the one place needing true atomicity: the transaction
// reads the owner's usage and only commits the increment when the new file fits.
// Concurrent uploads serialize against each other through the owner document's
// write-conflict detection, so storageUsed <= limit holds even transiently.

// processObjectFinalized accounts a finalized upload against its owner's quota. On
// overflow the file-metadata document is removed inside the transaction and the
// uploaded bytes are deleted afterwards.
func (app *application) processObjectFinalized(name string, size int64, l *logs.Log) error {
	path, err := model.ParseStoragePath(name)
	if err != nil {
		//objects outside the quota-scoped layout are not accounted
		l.Infof("ignoring object %s: %v", name, err)
		return nil
	}
	ownerKind, ownerID := path.Owner()

	//set inside the transaction; a rejection still commits the metadata delete
	rejected := false
	transaction := func(context storage.TransactionContext) error {
		used, limit, err := app.findQuota(context, ownerKind, ownerID)
		if err != nil {
			return err
		}

		metadata, err := app.storage.FindFileMetadataByPath(context, name)
		if err != nil {
			return errors.WrapErrorAction(logutils.ActionFind, model.TypeFileMetadata, &logutils.FieldArgs{"path": name}, err)
		}
		if metadata != nil && metadata.Size == size {
			//replayed finalize event, already accounted
			return nil
		}

		//an overwrite replaces bytes already accounted, only the size change counts
		delta := size
		if metadata != nil {
			delta = size - metadata.Size
		}

		if limit > 0 && used+delta > limit {
			if metadata != nil {
				//the overwrite destroyed the accounted content, release it with its record
				err = app.storage.DeleteFileMetadata(context, name)
				if err != nil {
					return errors.WrapErrorAction(logutils.ActionDelete, model.TypeFileMetadata, &logutils.FieldArgs{"path": name}, err)
				}
				err = app.updateQuotaUsage(context, ownerKind, ownerID, -metadata.Size)
				if err != nil {
					return err
				}
			}
			rejected = true
			return nil
		}

		if metadata == nil {
			id, _ := uuid.NewUUID()
			metadata = &model.FileMetadata{ID: id.String(), OwnerKind: ownerKind, OwnerID: ownerID,
				Path: name, Size: size, DateCreated: time.Now()}
			err = app.storage.InsertFileMetadata(context, *metadata)
			if err != nil {
				return errors.WrapErrorAction(logutils.ActionInsert, model.TypeFileMetadata, &logutils.FieldArgs{"path": name}, err)
			}
		} else {
			err = app.storage.UpdateFileMetadataSize(context, name, size)
			if err != nil {
				return errors.WrapErrorAction(logutils.ActionUpdate, model.TypeFileMetadata, &logutils.FieldArgs{"path": name}, err)
			}
		}

		return app.updateQuotaUsage(context, ownerKind, ownerID, delta)
	}

	err = app.storage.PerformTransaction(transaction)
	if err != nil {
		return err
	}
	if rejected {
		l.Warnf("object %s of size %d rejected: quota of %s %s exceeded", name, size, ownerKind, ownerID)
		err = app.fileStorage.DeleteObject(name)
		if err != nil {
			return errors.WrapErrorAction(logutils.ActionDelete, model.TypeStoragePath, &logutils.FieldArgs{"path": name}, err)
		}
	}
	return nil
}

// processObjectDeleted releases a deleted object's size back to its owner's quota
func (app *application) processObjectDeleted(name string, l *logs.Log) error {
	path, err := model.ParseStoragePath(name)
	if err != nil {
		l.Infof("ignoring object %s: %v", name, err)
		return nil
	}
	ownerKind, ownerID := path.Owner()

	transaction := func(context storage.TransactionContext) error {
		metadata, err := app.storage.FindFileMetadataByPath(context, name)
		if err != nil {
			return errors.WrapErrorAction(logutils.ActionFind, model.TypeFileMetadata, &logutils.FieldArgs{"path": name}, err)
		}
		if metadata == nil {
			//already released, or never accounted
			return nil
		}

		err = app.storage.DeleteFileMetadata(context, name)
		if err != nil {
			return errors.WrapErrorAction(logutils.ActionDelete, model.TypeFileMetadata, &logutils.FieldArgs{"path": name}, err)
		}

		return app.updateQuotaUsage(context, ownerKind, ownerID, -metadata.Size)
	}

	return app.storage.PerformTransaction(transaction)
}

func (app *application) findQuota(context storage.TransactionContext, ownerKind model.QuotaOwnerKind, ownerID string) (int64, int64, error) {
	switch ownerKind {
	case model.QuotaOwnerLocation:
		location, err := app.storage.FindLocation(context, ownerID)
		if err != nil {
			return 0, 0, errors.WrapErrorAction(logutils.ActionFind, model.TypeLocation, &logutils.FieldArgs{"id": ownerID}, err)
		}
		if location == nil {
			return 0, 0, errors.ErrorData(logutils.StatusMissing, model.TypeLocation, &logutils.FieldArgs{"id": ownerID})
		}
		return location.StorageUsed, location.StorageLimit, nil
	default:
		organization, err := app.storage.FindOrganization(context, ownerID)
		if err != nil {
			return 0, 0, errors.WrapErrorAction(logutils.ActionFind, model.TypeOrganization, &logutils.FieldArgs{"id": ownerID}, err)
		}
		if organization == nil {
			return 0, 0, errors.ErrorData(logutils.StatusMissing, model.TypeOrganization, &logutils.FieldArgs{"id": ownerID})
		}
		return organization.StorageUsed, organization.StorageLimit, nil
	}
}

func (app *application) updateQuotaUsage(context storage.TransactionContext, ownerKind model.QuotaOwnerKind, ownerID string, delta int64) error {
	switch ownerKind {
	case model.QuotaOwnerLocation:
		return app.storage.UpdateLocationStorageUsed(context, ownerID, delta)
	default:
		return app.storage.UpdateOrganizationStorageUsed(context, ownerID, delta)
	}
}
