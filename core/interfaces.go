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
	"workplace-building-block/core/model"
	"workplace-building-block/driven/storage"

	"github.com/rokwire/logging-library-go/v2/logs"
)

// Services exposes request-style APIs for the driver adapters. Every operation takes
// the acting principal's claims explicitly - there is no ambient auth context.
type Services interface {
	SerDeleteOrganization(actor *model.Claims, orgID string, l *logs.Log) error
	SerDeleteLocation(actor *model.Claims, locationID string, l *logs.Log) error
	SerRemoveEmployee(actor *model.Claims, orgID string, locationID string, userID string, l *logs.Log) error
	SerDeleteEmployeeAccount(actor *model.Claims, orgID string, userID string, l *logs.Log) error
	SerUpdateRoster(actor *model.Claims, locationID string, roster map[string]model.EmployeeLocation, l *logs.Log) error
	SerRecomputeClaims(actor *model.Claims, orgID string, userID string, locationID *string, l *logs.Log) error
	SerPublishSchedule(actor *model.Claims, locationID string, weekID string, recipients []string, l *logs.Log) error
}

// Events exposes the change-event entry point for the driver adapters. Reactions
// swallow-and-log per-item failures; only dispatch-level problems surface.
type Events interface {
	ProcessChange(event model.ChangeEvent) error
}

// Webhooks exposes the inbound webhook entry points for the driver adapters
type Webhooks interface {
	ProcessBillingEvent(eventType string, payload []byte, l *logs.Log) error
	ProcessObjectFinalized(name string, size int64, l *logs.Log) error
	ProcessObjectDeleted(name string, l *logs.Log) error
}

// System exposes system APIs for the driver adapters
type System interface {
	SysGetVersion() string
}

// Storage is used by core to access the document database
type Storage interface {
	PerformTransaction(transaction func(context storage.TransactionContext) error) error
	StartBulkWriter() storage.BulkWriter

	FindOrganization(context storage.TransactionContext, id string) (*model.Organization, error)
	FindOrganizationByCustomer(customerID string) (*model.Organization, error)
	UpdateOrganizationSubscription(orgID string, subscriptionID string, itemID string, status model.SubscriptionStatus) error
	UpdateOrganizationStorageUsed(context storage.TransactionContext, orgID string, delta int64) error
	DeleteOrganization(id string) error
	DeleteOrganizationSubtree(orgID string) error

	FindLocation(context storage.TransactionContext, id string) (*model.Location, error)
	FindLocationsByOrg(orgID string) ([]model.Location, error)
	UpdateLocationStorageUsed(context storage.TransactionContext, locationID string, delta int64) error
	DeleteLocation(id string) error
	DeleteLocationSubtree(locationID string) error

	FindEmployee(orgID string, userID string) (*model.Employee, error)
	FindEmployeesByLocation(locationID string) ([]model.Employee, error)
	SaveEmployee(employee model.Employee) error

	FindConversation(id string) (*model.Conversation, error)
	FindConversationsByLocation(locationID string) ([]model.Conversation, error)
	FindConversationsByMember(orgID string, userID string) ([]model.Conversation, error)
	FindMessages(conversationID string) ([]model.Message, error)
	DeleteMessages(conversationID string) error

	FindBoard(id string) (*model.Board, error)
	FindBoardsByMember(orgID string, userID string) ([]model.Board, error)
	FindBoardContents(boardID string) ([]model.BoardContent, error)
	DeleteBoardContents(boardID string) error

	FindSchedule(locationID string, weekID string) (*model.Schedule, error)
	MarkSchedulePublished(locationID string, weekID string, publishData model.PublishData) error
	FindShiftsByWeek(locationID string, weekID string) ([]model.Shift, error)
	DeleteSchedulesByLocation(locationID string) error

	FindUser(id string) (*model.User, error)
	FindUsers(ids []string) ([]model.User, error)

	InsertFileMetadata(context storage.TransactionContext, metadata model.FileMetadata) error
	FindFileMetadataByPath(context storage.TransactionContext, path string) (*model.FileMetadata, error)
	UpdateFileMetadataSize(context storage.TransactionContext, path string, size int64) error
	DeleteFileMetadata(context storage.TransactionContext, path string) error

	UpsertBillingProduct(product model.BillingProduct) error
	DeleteBillingProduct(id string) error
	UpsertBillingPrice(price model.BillingPrice) error
	DeleteBillingPrice(id string) error
	SetOrganizationPaymentMethod(customerID string, paymentMethodID *string) error
}

// Realtime is used by core to access the realtime key-value tree - notification
// counters and claims-refresh signals
type Realtime interface {
	ClearOrganizationCounters(orgID string, userIDs []string) error
	ClearConversationCounters(orgID string, conversationID string, userIDs []string) error
	IncrementConversationCounters(orgID string, conversationID string, userIDs []string, delta int64) error
	SignalClaimsRefresh(userID string) error
}

// FileStorage is used by core to access the object store. Deletes tolerate
// already-absent objects.
type FileStorage interface {
	DeletePrefix(prefix string) error
	DeleteObject(path string) error
}

// AccountAuth is used by core to read and write session claims on the external
// authentication provider. The provider owns the sessions; this service only writes.
type AccountAuth interface {
	GetClaims(userID string) (*model.Claims, error)
	SetClaims(userID string, claims *model.Claims) error
	CreateAccount(email string, name string) (string, error)
	DeleteAccount(userID string) error
}

// Notifier delivers push notifications, best-effort fire-and-forget
type Notifier interface {
	Send(tokens []string, title string, body string, data map[string]string) error
}

// Billing is used by core to push state to the subscription provider
type Billing interface {
	UpdateSubscriptionQuantity(subscriptionID string, itemID string, quantity int64) error
}
