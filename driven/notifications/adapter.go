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

package notifications

import (
	"context"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/rokwire/logging-library-go/v2/errors"
	"github.com/rokwire/logging-library-go/v2/logs"
	"github.com/rokwire/logging-library-go/v2/logutils"
	"google.golang.org/api/option"
)

const (
	//the push service caps one multicast at 500 tokens
	maxTokensPerSend = 500

	requestTimeout = 30 * time.Second
)

// Adapter implements the Notifier interface over the push delivery service
type Adapter struct {
	client *messaging.Client

	logger *logs.Logger
}

// Send delivers a push notification to the tokens, best effort. Tokens the service
// rejects are logged and skipped.
func (a *Adapter) Send(tokens []string, title string, body string, data map[string]string) error {
	if len(tokens) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	for start := 0; start < len(tokens); start += maxTokensPerSend {
		end := start + maxTokensPerSend
		if end > len(tokens) {
			end = len(tokens)
		}

		message := messaging.MulticastMessage{
			Tokens:       tokens[start:end],
			Notification: &messaging.Notification{Title: title, Body: body},
			Data:         data,
		}
		response, err := a.client.SendEachForMulticast(ctx, &message)
		if err != nil {
			return errors.WrapErrorAction(logutils.ActionSend, "push notification", &logutils.FieldArgs{"tokens": end - start}, err)
		}
		if response.FailureCount > 0 {
			a.logger.Warnf("push notification: %d of %d tokens failed", response.FailureCount, end-start)
		}
	}

	return nil
}

// NewNotificationsAdapter creates a new push notifications adapter instance
func NewNotificationsAdapter(projectID string, credentialsPath string, logger *logs.Logger) (*Adapter, error) {
	ctx := context.Background()
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionInitialize, "firebase app", nil, err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionInitialize, "messaging client", nil, err)
	}

	return &Adapter{client: client, logger: logger}, nil
}
