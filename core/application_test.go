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
	"fmt"
	"sync"
	"testing"

	"workplace-building-block/core/model"
	"workplace-building-block/driven/storage"

	"github.com/rokwire/logging-library-go/v2/errors"
	"github.com/rokwire/logging-library-go/v2/logs"
	"github.com/rokwire/logging-library-go/v2/logutils"
	"gotest.tools/assert"
)

//Storage Mock

type storageMock struct {
	organizations map[string]*model.Organization
	locations     map[string]*model.Location
	employees     map[string]*model.Employee //orgID/userID

	employeesByLocation     map[string][]model.Employee
	conversations           map[string]*model.Conversation
	conversationsByLocation map[string][]model.Conversation
	conversationsByMember   map[string][]model.Conversation
	messages                map[string][]model.Message
	boards                  map[string]*model.Board
	boardsByMember          map[string][]model.Board
	boardContents           map[string][]model.BoardContent
	schedules               map[string]*model.Schedule //locationID/weekID
	shifts                  map[string][]model.Shift   //locationID/weekID
	users                   map[string]*model.User
	files                   map[string]*model.FileMetadata //by path

	bulk *bulkWriterMock

	calls []string
}

func newStorageMock() *storageMock {
	return &storageMock{organizations: map[string]*model.Organization{}, locations: map[string]*model.Location{},
		employees: map[string]*model.Employee{}, employeesByLocation: map[string][]model.Employee{},
		conversations: map[string]*model.Conversation{}, conversationsByLocation: map[string][]model.Conversation{},
		conversationsByMember: map[string][]model.Conversation{}, messages: map[string][]model.Message{},
		boards: map[string]*model.Board{}, boardsByMember: map[string][]model.Board{},
		boardContents: map[string][]model.BoardContent{}, schedules: map[string]*model.Schedule{},
		shifts: map[string][]model.Shift{},
		users: map[string]*model.User{}, files: map[string]*model.FileMetadata{}, bulk: &bulkWriterMock{}}
}

func (m *storageMock) record(format string, args ...interface{}) {
	m.calls = append(m.calls, fmt.Sprintf(format, args...))
}

func (m *storageMock) recorded(call string) bool {
	for _, c := range m.calls {
		if c == call {
			return true
		}
	}
	return false
}

func (m *storageMock) PerformTransaction(transaction func(context storage.TransactionContext) error) error {
	return transaction(nil)
}

func (m *storageMock) StartBulkWriter() storage.BulkWriter {
	return m.bulk
}

func (m *storageMock) FindOrganization(context storage.TransactionContext, id string) (*model.Organization, error) {
	return m.organizations[id], nil
}

func (m *storageMock) FindOrganizationByCustomer(customerID string) (*model.Organization, error) {
	for _, org := range m.organizations {
		if org.CustomerID == customerID {
			return org, nil
		}
	}
	return nil, nil
}

func (m *storageMock) UpdateOrganizationSubscription(orgID string, subscriptionID string, itemID string, status model.SubscriptionStatus) error {
	m.record("UpdateOrganizationSubscription %s %s %s %s", orgID, subscriptionID, itemID, status)
	org := m.organizations[orgID]
	if org == nil {
		return errors.ErrorData(logutils.StatusMissing, model.TypeOrganization, nil)
	}
	org.SubscriptionID = subscriptionID
	org.SubscriptionItemID = itemID
	org.SubscriptionStatus = status
	return nil
}

func (m *storageMock) UpdateOrganizationStorageUsed(context storage.TransactionContext, orgID string, delta int64) error {
	org := m.organizations[orgID]
	if org == nil {
		return errors.ErrorData(logutils.StatusMissing, model.TypeOrganization, nil)
	}
	org.StorageUsed += delta
	if org.StorageUsed < 0 {
		org.StorageUsed = 0
	}
	return nil
}

func (m *storageMock) DeleteOrganization(id string) error {
	m.record("DeleteOrganization %s", id)
	delete(m.organizations, id)
	return nil
}

func (m *storageMock) DeleteOrganizationSubtree(orgID string) error {
	m.record("DeleteOrganizationSubtree %s", orgID)
	return nil
}

func (m *storageMock) FindLocation(context storage.TransactionContext, id string) (*model.Location, error) {
	return m.locations[id], nil
}

func (m *storageMock) FindLocationsByOrg(orgID string) ([]model.Location, error) {
	found := make([]model.Location, 0)
	for _, location := range m.locations {
		if location.OrgID == orgID {
			found = append(found, *location)
		}
	}
	return found, nil
}

func (m *storageMock) UpdateLocationStorageUsed(context storage.TransactionContext, locationID string, delta int64) error {
	location := m.locations[locationID]
	if location == nil {
		return errors.ErrorData(logutils.StatusMissing, model.TypeLocation, nil)
	}
	location.StorageUsed += delta
	if location.StorageUsed < 0 {
		location.StorageUsed = 0
	}
	return nil
}

func (m *storageMock) DeleteLocation(id string) error {
	m.record("DeleteLocation %s", id)
	delete(m.locations, id)
	return nil
}

func (m *storageMock) DeleteLocationSubtree(locationID string) error {
	m.record("DeleteLocationSubtree %s", locationID)
	return nil
}

func (m *storageMock) FindEmployee(orgID string, userID string) (*model.Employee, error) {
	return m.employees[orgID+"/"+userID], nil
}

func (m *storageMock) FindEmployeesByLocation(locationID string) ([]model.Employee, error) {
	return m.employeesByLocation[locationID], nil
}

func (m *storageMock) SaveEmployee(employee model.Employee) error {
	m.record("SaveEmployee %s %s", employee.OrgID, employee.UserID)
	saved := employee
	m.employees[employee.OrgID+"/"+employee.UserID] = &saved
	return nil
}

func (m *storageMock) FindConversation(id string) (*model.Conversation, error) {
	return m.conversations[id], nil
}

func (m *storageMock) FindConversationsByLocation(locationID string) ([]model.Conversation, error) {
	return m.conversationsByLocation[locationID], nil
}

func (m *storageMock) FindConversationsByMember(orgID string, userID string) ([]model.Conversation, error) {
	return m.conversationsByMember[userID], nil
}

func (m *storageMock) FindMessages(conversationID string) ([]model.Message, error) {
	return m.messages[conversationID], nil
}

func (m *storageMock) DeleteMessages(conversationID string) error {
	m.record("DeleteMessages %s", conversationID)
	delete(m.messages, conversationID)
	return nil
}

func (m *storageMock) FindBoard(id string) (*model.Board, error) {
	return m.boards[id], nil
}

func (m *storageMock) FindBoardsByMember(orgID string, userID string) ([]model.Board, error) {
	return m.boardsByMember[userID], nil
}

func (m *storageMock) FindBoardContents(boardID string) ([]model.BoardContent, error) {
	return m.boardContents[boardID], nil
}

func (m *storageMock) DeleteBoardContents(boardID string) error {
	m.record("DeleteBoardContents %s", boardID)
	delete(m.boardContents, boardID)
	return nil
}

func (m *storageMock) FindSchedule(locationID string, weekID string) (*model.Schedule, error) {
	return m.schedules[locationID+"/"+weekID], nil
}

func (m *storageMock) MarkSchedulePublished(locationID string, weekID string, publishData model.PublishData) error {
	m.record("MarkSchedulePublished %s %s", locationID, weekID)
	schedule := m.schedules[locationID+"/"+weekID]
	if schedule == nil {
		return errors.ErrorData(logutils.StatusMissing, model.TypeSchedule, nil)
	}
	schedule.Published = true
	schedule.PublishData = &publishData
	return nil
}

func (m *storageMock) FindShiftsByWeek(locationID string, weekID string) ([]model.Shift, error) {
	return m.shifts[locationID+"/"+weekID], nil
}

func (m *storageMock) DeleteSchedulesByLocation(locationID string) error {
	m.record("DeleteSchedulesByLocation %s", locationID)
	return nil
}

func (m *storageMock) FindUser(id string) (*model.User, error) {
	return m.users[id], nil
}

func (m *storageMock) FindUsers(ids []string) ([]model.User, error) {
	found := make([]model.User, 0)
	for _, id := range ids {
		if user := m.users[id]; user != nil {
			found = append(found, *user)
		}
	}
	return found, nil
}

func (m *storageMock) InsertFileMetadata(context storage.TransactionContext, metadata model.FileMetadata) error {
	m.record("InsertFileMetadata %s", metadata.Path)
	saved := metadata
	m.files[metadata.Path] = &saved
	return nil
}

func (m *storageMock) FindFileMetadataByPath(context storage.TransactionContext, path string) (*model.FileMetadata, error) {
	return m.files[path], nil
}

func (m *storageMock) UpdateFileMetadataSize(context storage.TransactionContext, path string, size int64) error {
	metadata := m.files[path]
	if metadata == nil {
		return errors.ErrorData(logutils.StatusMissing, model.TypeFileMetadata, nil)
	}
	m.record("UpdateFileMetadataSize %s %d", path, size)
	metadata.Size = size
	return nil
}

func (m *storageMock) DeleteFileMetadata(context storage.TransactionContext, path string) error {
	m.record("DeleteFileMetadata %s", path)
	delete(m.files, path)
	return nil
}

func (m *storageMock) UpsertBillingProduct(product model.BillingProduct) error {
	m.record("UpsertBillingProduct %s", product.ID)
	return nil
}

func (m *storageMock) DeleteBillingProduct(id string) error {
	m.record("DeleteBillingProduct %s", id)
	return nil
}

func (m *storageMock) UpsertBillingPrice(price model.BillingPrice) error {
	m.record("UpsertBillingPrice %s", price.ID)
	return nil
}

func (m *storageMock) DeleteBillingPrice(id string) error {
	m.record("DeleteBillingPrice %s", id)
	return nil
}

func (m *storageMock) SetOrganizationPaymentMethod(customerID string, paymentMethodID *string) error {
	if paymentMethodID == nil {
		m.record("SetOrganizationPaymentMethod %s <nil>", customerID)
	} else {
		m.record("SetOrganizationPaymentMethod %s %s", customerID, *paymentMethodID)
	}
	return nil
}

///

//BulkWriter Mock

type bulkWriterMock struct {
	lock sync.Mutex

	ops      []string
	closed   bool
	closeErr error
}

func (b *bulkWriterMock) add(format string, args ...interface{}) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.ops = append(b.ops, fmt.Sprintf(format, args...))
}

func (b *bulkWriterMock) has(op string) bool {
	b.lock.Lock()
	defer b.lock.Unlock()
	for _, o := range b.ops {
		if o == op {
			return true
		}
	}
	return false
}

func (b *bulkWriterMock) RemoveUserOrganization(userID string, orgID string) {
	b.add("RemoveUserOrganization %s %s", userID, orgID)
}

func (b *bulkWriterMock) RemoveUserLocation(userID string, locationID string) {
	b.add("RemoveUserLocation %s %s", userID, locationID)
}

func (b *bulkWriterMock) RemoveUserSupervising(userID string, locationID string) {
	b.add("RemoveUserSupervising %s %s", userID, locationID)
}

func (b *bulkWriterMock) RemoveLocationMember(locationID string, userID string) {
	b.add("RemoveLocationMember %s %s", locationID, userID)
}

func (b *bulkWriterMock) RemoveLocationSupervisor(locationID string, userID string) {
	b.add("RemoveLocationSupervisor %s %s", locationID, userID)
}

func (b *bulkWriterMock) IncrementLocationCount(orgID string, delta int) {
	b.add("IncrementLocationCount %s %d", orgID, delta)
}

func (b *bulkWriterMock) SetLocationSubscriptionStatus(locationID string, status model.SubscriptionStatus) {
	b.add("SetLocationSubscriptionStatus %s %s", locationID, status)
}

func (b *bulkWriterMock) AddConversationMember(conversationID string, userID string, muted bool) {
	b.add("AddConversationMember %s %s %t", conversationID, userID, muted)
}

func (b *bulkWriterMock) RemoveConversationMember(conversationID string, userID string) {
	b.add("RemoveConversationMember %s %s", conversationID, userID)
}

func (b *bulkWriterMock) DeleteConversation(conversationID string) {
	b.add("DeleteConversation %s", conversationID)
}

func (b *bulkWriterMock) RemoveBoardAccess(boardID string, userID string) {
	b.add("RemoveBoardAccess %s %s", boardID, userID)
}

func (b *bulkWriterMock) RemoveEmployeeLocation(orgID string, userID string, locationID string) {
	b.add("RemoveEmployeeLocation %s %s %s", orgID, userID, locationID)
}

func (b *bulkWriterMock) DeleteEmployee(orgID string, userID string) {
	b.add("DeleteEmployee %s %s", orgID, userID)
}

func (b *bulkWriterMock) Close() error {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.closed = true
	return b.closeErr
}

///

//Realtime Mock

type realtimeMock struct {
	calls []string
}

func (r *realtimeMock) record(format string, args ...interface{}) {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
}

func (r *realtimeMock) recorded(call string) bool {
	for _, c := range r.calls {
		if c == call {
			return true
		}
	}
	return false
}

func (r *realtimeMock) ClearOrganizationCounters(orgID string, userIDs []string) error {
	for _, userID := range userIDs {
		r.record("ClearOrganizationCounters %s %s", orgID, userID)
	}
	return nil
}

func (r *realtimeMock) ClearConversationCounters(orgID string, conversationID string, userIDs []string) error {
	for _, userID := range userIDs {
		r.record("ClearConversationCounters %s %s %s", orgID, conversationID, userID)
	}
	return nil
}

func (r *realtimeMock) IncrementConversationCounters(orgID string, conversationID string, userIDs []string, delta int64) error {
	for _, userID := range userIDs {
		r.record("IncrementConversationCounters %s %s %s %d", orgID, conversationID, userID, delta)
	}
	return nil
}

func (r *realtimeMock) SignalClaimsRefresh(userID string) error {
	r.record("SignalClaimsRefresh %s", userID)
	return nil
}

///

//FileStorage Mock

type fileStorageMock struct {
	deletedPrefixes []string
	deletedObjects  []string
}

func (f *fileStorageMock) DeletePrefix(prefix string) error {
	f.deletedPrefixes = append(f.deletedPrefixes, prefix)
	return nil
}

func (f *fileStorageMock) DeleteObject(path string) error {
	f.deletedObjects = append(f.deletedObjects, path)
	return nil
}

func (f *fileStorageMock) deletedPrefix(prefix string) bool {
	for _, p := range f.deletedPrefixes {
		if p == prefix {
			return true
		}
	}
	return false
}

func (f *fileStorageMock) deletedObject(path string) bool {
	for _, o := range f.deletedObjects {
		if o == path {
			return true
		}
	}
	return false
}

///

//AccountAuth Mock

type accountsMock struct {
	claims map[string]*model.Claims

	setCalls       []string
	deleteAccounts []string
}

func newAccountsMock() *accountsMock {
	return &accountsMock{claims: map[string]*model.Claims{}}
}

func (a *accountsMock) GetClaims(userID string) (*model.Claims, error) {
	return a.claims[userID], nil
}

func (a *accountsMock) SetClaims(userID string, claims *model.Claims) error {
	a.setCalls = append(a.setCalls, userID)
	if claims == nil {
		delete(a.claims, userID)
		return nil
	}
	a.claims[userID] = claims
	return nil
}

func (a *accountsMock) CreateAccount(email string, name string) (string, error) {
	return "new-account", nil
}

func (a *accountsMock) DeleteAccount(userID string) error {
	a.deleteAccounts = append(a.deleteAccounts, userID)
	return nil
}

///

//Notifier Mock

type sentPush struct {
	tokens []string
	title  string
	body   string
	data   map[string]string
}

type notifierMock struct {
	sent []sentPush
}

func (n *notifierMock) Send(tokens []string, title string, body string, data map[string]string) error {
	n.sent = append(n.sent, sentPush{tokens: tokens, title: title, body: body, data: data})
	return nil
}

///

//Billing Mock

type billingMock struct {
	updates []string
}

func (b *billingMock) UpdateSubscriptionQuantity(subscriptionID string, itemID string, quantity int64) error {
	b.updates = append(b.updates, fmt.Sprintf("%s %s %d", subscriptionID, itemID, quantity))
	return nil
}

///

type testEnv struct {
	app         *application
	storage     *storageMock
	realtime    *realtimeMock
	fileStorage *fileStorageMock
	accounts    *accountsMock
	notifier    *notifierMock
	billing     *billingMock
	log         *logs.Log
}

func newTestEnv() *testEnv {
	store := newStorageMock()
	realtime := &realtimeMock{}
	fileStorage := &fileStorageMock{}
	accounts := newAccountsMock()
	notifier := &notifierMock{}
	billing := &billingMock{}
	logger := logs.NewLogger("test", nil)

	app := application{env: "test", version: "1.1.1", build: "build", storage: store, realtime: realtime,
		fileStorage: fileStorage, accounts: accounts, notifier: notifier, billing: billing, logger: logger}
	app.start()

	return &testEnv{app: &app, storage: store, realtime: realtime, fileStorage: fileStorage,
		accounts: accounts, notifier: notifier, billing: billing, log: logger.NewLog("1", logs.RequestContext{})}
}

///

func TestGetVersion(t *testing.T) {
	env := newTestEnv()
	coreAPIs := NewCoreAPIs("local", "1.1.1", "build", env.storage, env.realtime, env.fileStorage,
		env.accounts, env.notifier, env.billing, logs.NewLogger("test", nil))

	got := coreAPIs.GetVersion()
	want := "1.1.1"

	assert.Equal(t, got, want, "result is different")
}

func TestSysGetVersion(t *testing.T) {
	env := newTestEnv()
	coreAPIs := NewCoreAPIs("local", "2.0.0", "build", env.storage, env.realtime, env.fileStorage,
		env.accounts, env.notifier, env.billing, logs.NewLogger("test", nil))

	got := coreAPIs.System.SysGetVersion()
	want := "2.0.0"

	assert.Equal(t, got, want, "result is different")
}

func TestStartBuildsDispatchTable(t *testing.T) {
	env := newTestEnv()

	if env.app.dispatch == nil {
		t.Fatal("dispatch table not built")
	}

	expected := []eventKey{
		{model.CollectionOrganizations, model.ChangeDeleted},
		{model.CollectionLocations, model.ChangeCreated},
		{model.CollectionLocations, model.ChangeDeleted},
		{model.CollectionEmployees, model.ChangeCreated},
		{model.CollectionEmployees, model.ChangeUpdated},
		{model.CollectionEmployees, model.ChangeDeleted},
		{model.CollectionConversations, model.ChangeCreated},
		{model.CollectionConversations, model.ChangeDeleted},
		{model.CollectionMessages, model.ChangeCreated},
		{model.CollectionMessages, model.ChangeDeleted},
		{model.CollectionBoards, model.ChangeDeleted},
		{model.CollectionBoardContents, model.ChangeDeleted},
		{model.CollectionSchedules, model.ChangeUpdated},
	}
	for _, key := range expected {
		if _, ok := env.app.dispatch[key]; !ok {
			t.Errorf("dispatch table missing %s %s", key.Collection, key.Kind)
		}
	}
	assert.Equal(t, len(env.app.dispatch), len(expected), "unexpected dispatch table size")
}
