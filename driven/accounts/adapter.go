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

package accounts

import (
	"context"
	"time"

	"workplace-building-block/core/model"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/rokwire/logging-library-go/v2/errors"
	"github.com/rokwire/logging-library-go/v2/logs"
	"github.com/rokwire/logging-library-go/v2/logutils"
	"google.golang.org/api/option"
)

const requestTimeout = 10 * time.Second

// Adapter implements the AccountAuth interface over the authentication provider.
// The provider owns the accounts; this adapter only reads and writes their custom
// claims plus creates and deletes accounts on request.
type Adapter struct {
	client *auth.Client

	logger *logs.Logger
}

// GetClaims reads the user's session claims. A missing account or an account
// without claims gives nil.
func (a *Adapter) GetClaims(userID string) (*model.Claims, error) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	record, err := a.client.GetUser(ctx, userID)
	if err != nil {
		if auth.IsUserNotFound(err) {
			return nil, nil
		}
		return nil, errors.WrapErrorAction(logutils.ActionGet, "account", &logutils.FieldArgs{"user_id": userID}, err)
	}

	return model.ClaimsFromMap(record.CustomClaims), nil
}

// SetClaims writes the user's session claims, nil to revoke them. A missing
// account is not an error - the account may already be deleted by a cascade.
func (a *Adapter) SetClaims(userID string, claims *model.Claims) error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	err := a.client.SetCustomUserClaims(ctx, userID, claims.ToMap())
	if err != nil {
		if auth.IsUserNotFound(err) {
			return nil
		}
		return errors.WrapErrorAction(logutils.ActionUpdate, "account claims", &logutils.FieldArgs{"user_id": userID}, err)
	}
	return nil
}

// VerifyToken verifies a bearer ID token and gives the account's user ID and its
// session claims
func (a *Adapter) VerifyToken(idToken string) (string, *model.Claims, error) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	token, err := a.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", nil, errors.WrapErrorAction(logutils.ActionValidate, "id token", nil, err)
	}
	return token.UID, model.ClaimsFromMap(token.Claims), nil
}

// CreateAccount registers a new account and gives its user ID
func (a *Adapter) CreateAccount(email string, name string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	params := (&auth.UserToCreate{}).Email(email).DisplayName(name)
	record, err := a.client.CreateUser(ctx, params)
	if err != nil {
		return "", errors.WrapErrorAction(logutils.ActionCreate, "account", &logutils.FieldArgs{"email": email}, err)
	}
	return record.UID, nil
}

// DeleteAccount removes the user's account. A missing account is not an error.
func (a *Adapter) DeleteAccount(userID string) error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	err := a.client.DeleteUser(ctx, userID)
	if err != nil && !auth.IsUserNotFound(err) {
		return errors.WrapErrorAction(logutils.ActionDelete, "account", &logutils.FieldArgs{"user_id": userID}, err)
	}
	return nil
}

// NewAccountsAdapter creates a new accounts adapter instance
func NewAccountsAdapter(projectID string, credentialsPath string, logger *logs.Logger) (*Adapter, error) {
	ctx := context.Background()
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionInitialize, "firebase app", nil, err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionInitialize, "auth client", nil, err)
	}

	return &Adapter{client: client, logger: logger}, nil
}
