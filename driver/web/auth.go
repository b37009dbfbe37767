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

package web

import (
	"net/http"
	"strings"

	"workplace-building-block/core/model"

	"github.com/rokwire/logging-library-go/v2/errors"
	"github.com/rokwire/logging-library-go/v2/logs"
	"github.com/rokwire/logging-library-go/v2/logutils"
)

// TokenVerifier checks a bearer ID token against the authentication provider and
// gives the account's user ID and session claims
type TokenVerifier interface {
	VerifyToken(idToken string) (string, *model.Claims, error)
}

// Auth handles the auth checks of the web adapter
type Auth struct {
	verifier TokenVerifier

	logger *logs.Logger
}

// check validates the request's bearer token. The claims may be nil for an account
// with no workplace claims; the core operations decide what that means.
func (auth *Auth) check(r *http.Request) (string, *model.Claims, error) {
	header := r.Header.Get("Authorization")
	if len(header) == 0 {
		return "", nil, errors.ErrorData(logutils.StatusMissing, "authorization header", nil)
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", nil, errors.ErrorData(logutils.StatusInvalid, "authorization header", nil)
	}

	userID, claims, err := auth.verifier.VerifyToken(parts[1])
	if err != nil {
		return "", nil, errors.WrapErrorAction(logutils.ActionValidate, logutils.TypeToken, nil, err)
	}
	return userID, claims, nil
}

// NewAuth creates new auth instance
func NewAuth(verifier TokenVerifier, logger *logs.Logger) *Auth {
	return &Auth{verifier: verifier, logger: logger}
}
