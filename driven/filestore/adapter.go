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

package filestore

import (
	"context"
	"time"

	"cloud.google.com/go/storage"
	"github.com/rokwire/logging-library-go/v2/errors"
	"github.com/rokwire/logging-library-go/v2/logs"
	"github.com/rokwire/logging-library-go/v2/logutils"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

const (
	deleteWorkers  = 8
	requestTimeout = 30 * time.Second
)

// Adapter implements the FileStorage interface against an object-store bucket.
// Deletes tolerate already-absent objects so cascades can replay.
type Adapter struct {
	client *storage.Client
	bucket string

	logger *logs.Logger
}

// DeletePrefix removes every object under the prefix
func (a *Adapter) DeletePrefix(prefix string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	bucket := a.client.Bucket(a.bucket)

	group, groupContext := errgroup.WithContext(ctx)
	group.SetLimit(deleteWorkers)

	it := bucket.Objects(ctx, &storage.Query{Prefix: prefix})
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return errors.WrapErrorAction(logutils.ActionFind, "bucket objects", &logutils.FieldArgs{"prefix": prefix}, err)
		}

		name := attrs.Name
		group.Go(func() error {
			err := bucket.Object(name).Delete(groupContext)
			if err != nil && err != storage.ErrObjectNotExist {
				return errors.WrapErrorAction(logutils.ActionDelete, "bucket object", &logutils.FieldArgs{"name": name}, err)
			}
			return nil
		})
	}

	return group.Wait()
}

// DeleteObject removes one object. A missing object is not an error.
func (a *Adapter) DeleteObject(path string) error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	err := a.client.Bucket(a.bucket).Object(path).Delete(ctx)
	if err != nil && err != storage.ErrObjectNotExist {
		return errors.WrapErrorAction(logutils.ActionDelete, "bucket object", &logutils.FieldArgs{"name": path}, err)
	}
	return nil
}

// NewFileStorageAdapter creates a new object-store adapter instance
func NewFileStorageAdapter(bucket string, credentialsPath string, logger *logs.Logger) (*Adapter, error) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	client, err := storage.NewClient(ctx, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionInitialize, "object store client", nil, err)
	}

	return &Adapter{client: client, bucket: bucket, logger: logger}, nil
}
