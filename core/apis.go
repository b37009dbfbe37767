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

	"github.com/rokwire/logging-library-go/v2/logs"
)

// APIs exposes to the drivers adapters access to the core functionality
type APIs struct {
	Services Services //expose to the drivers adapters
	Events   Events   //expose to the drivers adapters
	Webhooks Webhooks //expose to the drivers adapters
	System   System   //expose to the drivers adapters

	app *application
}

// Start starts the core part of the application
func (c *APIs) Start() {
	c.app.start()
}

// GetVersion gives the service version
func (c *APIs) GetVersion() string {
	return c.app.version
}

// NewCoreAPIs creates new core APIs
func NewCoreAPIs(env string, version string, build string, storage Storage, realtime Realtime,
	fileStorage FileStorage, accounts AccountAuth, notifier Notifier, billing Billing, logger *logs.Logger) *APIs {
	application := application{env: env, version: version, build: build, storage: storage, realtime: realtime,
		fileStorage: fileStorage, accounts: accounts, notifier: notifier, billing: billing, logger: logger}

	servicesImpl := &servicesImpl{app: &application}
	eventsImpl := &eventsImpl{app: &application}
	webhooksImpl := &webhooksImpl{app: &application}
	systemImpl := &systemImpl{app: &application}

	coreAPIs := APIs{Services: servicesImpl, Events: eventsImpl, Webhooks: webhooksImpl,
		System: systemImpl, app: &application}

	return &coreAPIs
}

///

// servicesImpl
type servicesImpl struct {
	app *application
}

func (s *servicesImpl) SerDeleteOrganization(actor *model.Claims, orgID string, l *logs.Log) error {
	return s.app.serDeleteOrganization(actor, orgID, l)
}

func (s *servicesImpl) SerDeleteLocation(actor *model.Claims, locationID string, l *logs.Log) error {
	return s.app.serDeleteLocation(actor, locationID, l)
}

func (s *servicesImpl) SerRemoveEmployee(actor *model.Claims, orgID string, locationID string, userID string, l *logs.Log) error {
	return s.app.serRemoveEmployee(actor, orgID, locationID, userID, l)
}

func (s *servicesImpl) SerDeleteEmployeeAccount(actor *model.Claims, orgID string, userID string, l *logs.Log) error {
	return s.app.serDeleteEmployeeAccount(actor, orgID, userID, l)
}

func (s *servicesImpl) SerUpdateRoster(actor *model.Claims, locationID string, roster map[string]model.EmployeeLocation, l *logs.Log) error {
	return s.app.serUpdateRoster(actor, locationID, roster, l)
}

func (s *servicesImpl) SerRecomputeClaims(actor *model.Claims, orgID string, userID string, locationID *string, l *logs.Log) error {
	return s.app.serRecomputeClaims(actor, orgID, userID, locationID, l)
}

func (s *servicesImpl) SerPublishSchedule(actor *model.Claims, locationID string, weekID string, recipients []string, l *logs.Log) error {
	return s.app.serPublishSchedule(actor, locationID, weekID, recipients, l)
}

///

// eventsImpl
type eventsImpl struct {
	app *application
}

func (s *eventsImpl) ProcessChange(event model.ChangeEvent) error {
	return s.app.processChange(event)
}

///

// webhooksImpl
type webhooksImpl struct {
	app *application
}

func (s *webhooksImpl) ProcessBillingEvent(eventType string, payload []byte, l *logs.Log) error {
	return s.app.processBillingEvent(eventType, payload, l)
}

func (s *webhooksImpl) ProcessObjectFinalized(name string, size int64, l *logs.Log) error {
	return s.app.processObjectFinalized(name, size, l)
}

func (s *webhooksImpl) ProcessObjectDeleted(name string, l *logs.Log) error {
	return s.app.processObjectDeleted(name, l)
}

///

// systemImpl
type systemImpl struct {
	app *application
}

func (s *systemImpl) SysGetVersion() string {
	return s.app.version
}
