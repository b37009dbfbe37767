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

	"workplace-building-block/core"

	"github.com/rokwire/logging-library-go/v2/logs"
)

// DefaultApisHandler handles default APIs implementation - version etc
type DefaultApisHandler struct {
	coreAPIs *core.APIs
}

// version gives the service version
func (h DefaultApisHandler) version(l *logs.Log, r *http.Request) logs.HTTPResponse {
	version := h.coreAPIs.System.SysGetVersion()
	return l.HTTPResponseSuccessJSON([]byte(`{"version":"` + version + `"}`))
}

// NewDefaultApisHandler creates new default Handler instance
func NewDefaultApisHandler(coreAPIs *core.APIs) DefaultApisHandler {
	return DefaultApisHandler{coreAPIs: coreAPIs}
}
