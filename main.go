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

package main

import (
	"workplace-building-block/core"
	"workplace-building-block/driven/accounts"
	"workplace-building-block/driven/billing"
	"workplace-building-block/driven/filestore"
	"workplace-building-block/driven/notifications"
	"workplace-building-block/driven/realtime"
	"workplace-building-block/driver/events"
	"workplace-building-block/driver/web"
	"workplace-building-block/utils"

	"workplace-building-block/driven/storage"

	"github.com/rokwire/core-auth-library-go/v3/envloader"
	"github.com/rokwire/logging-library-go/v2/logs"
)

var (
	// Version : version of this executable
	Version string
	// Build : build date of this executable
	Build string
)

func main() {
	if len(Version) == 0 {
		Version = "dev"
	}

	serviceID := "workplace"

	loggerOpts := logs.LoggerOpts{SuppressRequests: logs.NewStandardHealthCheckHTTPRequestProperties(serviceID + "/version")}
	logger := logs.NewLogger(serviceID, &loggerOpts)
	envLoader := envloader.NewEnvLoader(Version, logger)

	level := envLoader.GetAndLogEnvVar("WORKPLACE_LOG_LEVEL", false, false)
	logLevel := logs.LogLevelFromString(level)
	if logLevel != nil {
		logger.SetLevel(*logLevel)
	}

	err := utils.SetRandomSeed()
	if err != nil {
		logger.Error(err.Error())
	}

	env := envLoader.GetAndLogEnvVar("WORKPLACE_ENVIRONMENT", true, false) //local, dev, staging, prod
	port := envLoader.GetAndLogEnvVar("WORKPLACE_PORT", false, false)
	//Default port of 80
	if port == "" {
		port = "80"
	}

	host := envLoader.GetAndLogEnvVar("WORKPLACE_HOST", true, false)

	// mongoDB adapter
	mongoDBAuth := envLoader.GetAndLogEnvVar("WORKPLACE_MONGO_AUTH", true, true)
	mongoDBName := envLoader.GetAndLogEnvVar("WORKPLACE_MONGO_DATABASE", true, false)
	mongoTimeout := envLoader.GetAndLogEnvVar("WORKPLACE_MONGO_TIMEOUT", false, false)
	storageAdapter := storage.NewStorageAdapter(mongoDBAuth, mongoDBName, mongoTimeout, logger)
	err = storageAdapter.Start()
	if err != nil {
		logger.Fatalf("Cannot start the mongoDB adapter: %v", err)
	}

	// firebase adapters
	firebaseProjectID := envLoader.GetAndLogEnvVar("WORKPLACE_FIREBASE_PROJECT_ID", true, false)
	firebaseCredsPath := envLoader.GetAndLogEnvVar("WORKPLACE_FIREBASE_CREDENTIALS_PATH", false, true)
	firebaseDatabaseURL := envLoader.GetAndLogEnvVar("WORKPLACE_FIREBASE_DATABASE_URL", true, false)

	realtimeAdapter, err := realtime.NewRealtimeAdapter(firebaseProjectID, firebaseDatabaseURL, firebaseCredsPath, logger)
	if err != nil {
		logger.Fatalf("Cannot start the realtime database adapter: %v", err)
	}

	accountsAdapter, err := accounts.NewAccountsAdapter(firebaseProjectID, firebaseCredsPath, logger)
	if err != nil {
		logger.Fatalf("Cannot start the accounts adapter: %v", err)
	}

	notificationsAdapter, err := notifications.NewNotificationsAdapter(firebaseProjectID, firebaseCredsPath, logger)
	if err != nil {
		logger.Fatalf("Cannot start the notifications adapter: %v", err)
	}

	// file storage adapter
	storageBucket := envLoader.GetAndLogEnvVar("WORKPLACE_STORAGE_BUCKET", true, false)
	fileStorageAdapter, err := filestore.NewFileStorageAdapter(storageBucket, firebaseCredsPath, logger)
	if err != nil {
		logger.Fatalf("Cannot start the file storage adapter: %v", err)
	}

	// billing adapter
	stripeAPIKey := envLoader.GetAndLogEnvVar("WORKPLACE_STRIPE_API_KEY", true, true)
	billingWebhookSecret := envLoader.GetAndLogEnvVar("WORKPLACE_STRIPE_WEBHOOK_SECRET", true, true)
	billingAdapter := billing.NewBillingAdapter(stripeAPIKey, logger)

	// application
	coreAPIs := core.NewCoreAPIs(env, Version, Build, storageAdapter, realtimeAdapter, fileStorageAdapter, accountsAdapter, notificationsAdapter, billingAdapter, logger)
	coreAPIs.Start()

	// events adapter
	eventsAdapter := events.NewEventsAdapter(coreAPIs, logger)
	storageAdapter.RegisterStorageListener(eventsAdapter)

	// web adapter
	webAdapter := web.NewWebAdapter(coreAPIs, host, port, accountsAdapter, billingWebhookSecret, logger)
	webAdapter.Start()
}
