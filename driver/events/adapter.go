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

package events

import (
	"workplace-building-block/core"
	"workplace-building-block/core/model"

	"github.com/rokwire/logging-library-go/v2/logs"
)

// Adapter feeds document change events from the storage change streams into the
// core reactions
type Adapter struct {
	coreAPIs *core.APIs

	logger *logs.Logger
}

// OnDocumentChanged implements the storage listener interface
func (a *Adapter) OnDocumentChanged(event model.ChangeEvent) {
	err := a.coreAPIs.Events.ProcessChange(event)
	if err != nil {
		a.logger.Errorf("error processing change %s - %s", event, err)
	}
}

// NewEventsAdapter creates a new events adapter instance
func NewEventsAdapter(coreAPIs *core.APIs, logger *logs.Logger) *Adapter {
	return &Adapter{coreAPIs: coreAPIs, logger: logger}
}
