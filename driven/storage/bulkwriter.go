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
	"sync"
	"time"

	"workplace-building-block/core/model"

	"github.com/rokwire/logging-library-go/v2/errors"
	"github.com/rokwire/logging-library-go/v2/logs"
	"github.com/rokwire/logging-library-go/v2/logutils"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/sync/errgroup"
)

// BulkWriter batches the small scrubbing writes of a cascade or a roster change.
// Operations are enqueued without waiting; a missing target document drops the
// operation silently, transient failures retry with backoff, and everything else
// surfaces as an aggregate error from Close.
type BulkWriter interface {
	RemoveUserOrganization(userID string, orgID string)
	RemoveUserLocation(userID string, locationID string)
	RemoveUserSupervising(userID string, locationID string)
	RemoveLocationMember(locationID string, userID string)
	RemoveLocationSupervisor(locationID string, userID string)
	IncrementLocationCount(orgID string, delta int)
	SetLocationSubscriptionStatus(locationID string, status model.SubscriptionStatus)
	AddConversationMember(conversationID string, userID string, muted bool)
	RemoveConversationMember(conversationID string, userID string)
	DeleteConversation(conversationID string)
	RemoveBoardAccess(boardID string, userID string)
	RemoveEmployeeLocation(orgID string, userID string, locationID string)
	DeleteEmployee(orgID string, userID string)
	Close() error
}

const (
	bulkWorkers     = 4
	bulkMaxAttempts = 10
	bulkBaseBackoff = 100 * time.Millisecond
	bulkMaxBackoff  = 10 * time.Second
)

// bulkOp is one enqueued write. run gives matched=false when the target document
// does not exist, which is a drop rather than a failure.
type bulkOp struct {
	dataType logutils.MessageDataType
	args     logutils.FieldArgs

	run func() (bool, error)
}

type bulkWriter struct {
	db     *database
	logger *logs.Logger

	ops   chan bulkOp
	group *errgroup.Group

	sleep func(time.Duration)

	lock   sync.Mutex
	failed []error
}

func startBulkWriter(db *database, logger *logs.Logger) *bulkWriter {
	bw := &bulkWriter{db: db, logger: logger, ops: make(chan bulkOp, 256), group: &errgroup.Group{}, sleep: time.Sleep}
	for i := 0; i < bulkWorkers; i++ {
		bw.group.Go(bw.work)
	}
	return bw
}

func (bw *bulkWriter) work() error {
	for op := range bw.ops {
		bw.execute(op)
	}
	return nil
}

func (bw *bulkWriter) execute(op bulkOp) {
	backoff := bulkBaseBackoff
	var err error
	for attempt := 0; attempt < bulkMaxAttempts; attempt++ {
		var matched bool
		matched, err = op.run()
		if err == nil {
			if !matched {
				bw.logger.Infof("bulk writer: %s not found, dropping %v", op.dataType, op.args)
			}
			return
		}
		if attempt == bulkMaxAttempts-1 {
			break
		}

		bw.sleep(backoff)
		backoff *= 2
		if backoff > bulkMaxBackoff {
			backoff = bulkMaxBackoff
		}
	}

	bw.lock.Lock()
	bw.failed = append(bw.failed, errors.WrapErrorAction(logutils.ActionUpdate, op.dataType, &op.args, err))
	bw.lock.Unlock()
}

func (bw *bulkWriter) submit(op bulkOp) {
	bw.ops <- op
}

// Close waits for every enqueued operation to finish and gives the aggregate error
func (bw *bulkWriter) Close() error {
	close(bw.ops)
	bw.group.Wait()

	bw.lock.Lock()
	defer bw.lock.Unlock()
	if len(bw.failed) == 0 {
		return nil
	}
	return errors.Wrapf("bulk writer: %d operations failed", bw.failed[0], len(bw.failed))
}

func (bw *bulkWriter) updateOne(coll *collectionWrapper, filter bson.M, update interface{}) func() (bool, error) {
	return func() (bool, error) {
		res, err := coll.UpdateOne(filter, update, nil)
		if err != nil {
			return false, err
		}
		return res.MatchedCount > 0, nil
	}
}

func (bw *bulkWriter) deleteOne(coll *collectionWrapper, filter bson.M) func() (bool, error) {
	return func() (bool, error) {
		res, err := coll.DeleteOne(filter, nil)
		if err != nil {
			return false, err
		}
		return res.DeletedCount > 0, nil
	}
}

func (bw *bulkWriter) RemoveUserOrganization(userID string, orgID string) {
	bw.submit(bulkOp{dataType: model.TypeUser, args: logutils.FieldArgs{"_id": userID, "organization": orgID},
		run: bw.updateOne(bw.db.users, bson.M{"_id": userID}, bson.M{"$pull": bson.M{"organizations": orgID}})})
}

func (bw *bulkWriter) RemoveUserLocation(userID string, locationID string) {
	bw.submit(bulkOp{dataType: model.TypeUser, args: logutils.FieldArgs{"_id": userID, "location": locationID},
		run: bw.updateOne(bw.db.users, bson.M{"_id": userID}, bson.M{"$pull": bson.M{"locations_list": locationID}})})
}

func (bw *bulkWriter) RemoveUserSupervising(userID string, locationID string) {
	bw.submit(bulkOp{dataType: model.TypeUser, args: logutils.FieldArgs{"_id": userID, "supervising": locationID},
		run: bw.updateOne(bw.db.users, bson.M{"_id": userID}, bson.M{"$pull": bson.M{"supervising_locations": locationID}})})
}

func (bw *bulkWriter) RemoveLocationMember(locationID string, userID string) {
	bw.submit(bulkOp{dataType: model.TypeLocation, args: logutils.FieldArgs{"_id": locationID, "member": userID},
		run: bw.updateOne(bw.db.locations, bson.M{"_id": locationID}, bson.M{"$pull": bson.M{"members": userID}})})
}

func (bw *bulkWriter) RemoveLocationSupervisor(locationID string, userID string) {
	bw.submit(bulkOp{dataType: model.TypeLocation, args: logutils.FieldArgs{"_id": locationID, "supervisor": userID},
		run: bw.updateOne(bw.db.locations, bson.M{"_id": locationID}, bson.M{"$pull": bson.M{"supervisors": userID}})})
}

func (bw *bulkWriter) IncrementLocationCount(orgID string, delta int) {
	//pipeline update so the counter never goes below zero on replays
	update := bson.A{bson.M{"$set": bson.M{"location_count": bson.M{
		"$max": bson.A{0, bson.M{"$add": bson.A{bson.M{"$ifNull": bson.A{"$location_count", 0}}, delta}}}}}}}
	bw.submit(bulkOp{dataType: model.TypeOrganization, args: logutils.FieldArgs{"_id": orgID, "delta": delta},
		run: bw.updateOne(bw.db.organizations, bson.M{"_id": orgID}, update)})
}

func (bw *bulkWriter) SetLocationSubscriptionStatus(locationID string, status model.SubscriptionStatus) {
	bw.submit(bulkOp{dataType: model.TypeLocation, args: logutils.FieldArgs{"_id": locationID, "status": status},
		run: bw.updateOne(bw.db.locations, bson.M{"_id": locationID}, bson.M{"$set": bson.M{"subscription_status": string(status)}})})
}

func (bw *bulkWriter) AddConversationMember(conversationID string, userID string, muted bool) {
	bw.submit(bulkOp{dataType: model.TypeConversation, args: logutils.FieldArgs{"_id": conversationID, "member": userID},
		run: bw.updateOne(bw.db.conversations, bson.M{"_id": conversationID}, bson.M{"$set": bson.M{"members." + userID: muted}})})
}

// conversationMemberRemoval scrubs a user out of a conversation entirely: the member
// entry with its muted flag, and the hosts set if present
func conversationMemberRemoval(userID string) bson.M {
	return bson.M{"$unset": bson.M{"members." + userID: ""}, "$pull": bson.M{"hosts": userID}}
}

func (bw *bulkWriter) RemoveConversationMember(conversationID string, userID string) {
	bw.submit(bulkOp{dataType: model.TypeConversation, args: logutils.FieldArgs{"_id": conversationID, "member": userID},
		run: bw.updateOne(bw.db.conversations, bson.M{"_id": conversationID}, conversationMemberRemoval(userID))})
}

func (bw *bulkWriter) DeleteConversation(conversationID string) {
	bw.submit(bulkOp{dataType: model.TypeConversation, args: logutils.FieldArgs{"_id": conversationID},
		run: bw.deleteOne(bw.db.conversations, bson.M{"_id": conversationID})})
}

// boardAccessRemoval scrubs a user out of every access set of a board
func boardAccessRemoval(userID string) bson.M {
	return bson.M{"$pull": bson.M{"members": userID, "hosts": userID, "access_tags": userID}}
}

func (bw *bulkWriter) RemoveBoardAccess(boardID string, userID string) {
	bw.submit(bulkOp{dataType: model.TypeBoard, args: logutils.FieldArgs{"_id": boardID, "member": userID},
		run: bw.updateOne(bw.db.boards, bson.M{"_id": boardID}, boardAccessRemoval(userID))})
}

func (bw *bulkWriter) RemoveEmployeeLocation(orgID string, userID string, locationID string) {
	bw.submit(bulkOp{dataType: model.TypeEmployee, args: logutils.FieldArgs{"org_id": orgID, "user_id": userID, "location": locationID},
		run: bw.updateOne(bw.db.employees, bson.M{"org_id": orgID, "user_id": userID}, bson.M{"$unset": bson.M{"locations." + locationID: ""}})})
}

func (bw *bulkWriter) DeleteEmployee(orgID string, userID string) {
	bw.submit(bulkOp{dataType: model.TypeEmployee, args: logutils.FieldArgs{"org_id": orgID, "user_id": userID},
		run: bw.deleteOne(bw.db.employees, bson.M{"org_id": orgID, "user_id": userID})})
}
