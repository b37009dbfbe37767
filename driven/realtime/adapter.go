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

package realtime

import (
	"context"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/db"
	"github.com/rokwire/logging-library-go/v2/errors"
	"github.com/rokwire/logging-library-go/v2/logs"
	"github.com/rokwire/logging-library-go/v2/logutils"
	"google.golang.org/api/option"
)

const (
	countersPath      = "notification_counts"
	claimsRefreshPath = "claims_refresh"

	requestTimeout = 10 * time.Second
)

// Adapter implements the Realtime interface against the firebase realtime database.
// The tree carries per-user unread counters under
// notification_counts/{user}/{org}/{conversation} and claims-refresh signals under
// claims_refresh/{user}.
type Adapter struct {
	client *db.Client

	logger *logs.Logger
}

// ClearOrganizationCounters removes every counter the users hold under the
// organization
func (a *Adapter) ClearOrganizationCounters(orgID string, userIDs []string) error {
	if len(userIDs) == 0 {
		return nil
	}

	updates := make(map[string]interface{}, len(userIDs))
	for _, userID := range userIDs {
		updates[userID+"/"+orgID] = nil
	}
	return a.update(countersPath, updates)
}

// ClearConversationCounters removes the users' counters for one conversation
func (a *Adapter) ClearConversationCounters(orgID string, conversationID string, userIDs []string) error {
	if len(userIDs) == 0 {
		return nil
	}

	updates := make(map[string]interface{}, len(userIDs))
	for _, userID := range userIDs {
		updates[userID+"/"+orgID+"/"+conversationID] = nil
	}
	return a.update(countersPath, updates)
}

// IncrementConversationCounters bumps the users' counters for one conversation by
// delta, server-side
func (a *Adapter) IncrementConversationCounters(orgID string, conversationID string, userIDs []string, delta int64) error {
	if len(userIDs) == 0 {
		return nil
	}

	updates := make(map[string]interface{}, len(userIDs))
	for _, userID := range userIDs {
		updates[userID+"/"+orgID+"/"+conversationID] = map[string]interface{}{".sv": map[string]interface{}{"increment": delta}}
	}
	return a.update(countersPath, updates)
}

// SignalClaimsRefresh writes a server timestamp the user's client watches to know
// its session claims changed
func (a *Adapter) SignalClaimsRefresh(userID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	err := a.client.NewRef(claimsRefreshPath+"/"+userID).Set(ctx, map[string]interface{}{".sv": "timestamp"})
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionSend, "claims refresh signal", &logutils.FieldArgs{"user_id": userID}, err)
	}
	return nil
}

func (a *Adapter) update(path string, updates map[string]interface{}) error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	err := a.client.NewRef(path).Update(ctx, updates)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionUpdate, "realtime tree", &logutils.FieldArgs{"path": path, "count": len(updates)}, err)
	}
	return nil
}

// NewRealtimeAdapter creates a new realtime database adapter instance
func NewRealtimeAdapter(projectID string, databaseURL string, credentialsPath string, logger *logs.Logger) (*Adapter, error) {
	ctx := context.Background()
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID, DatabaseURL: databaseURL},
		option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionInitialize, "firebase app", nil, err)
	}

	client, err := app.Database(ctx)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionInitialize, "realtime database client", nil, err)
	}

	return &Adapter{client: client, logger: logger}, nil
}
