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

	"github.com/google/uuid"
	"github.com/rokwire/logging-library-go/v2/errors"
	"github.com/rokwire/logging-library-go/v2/logs"
	"github.com/rokwire/logging-library-go/v2/logutils"
)

type eventKey struct {
	Collection model.Collection
	Kind       model.ChangeKind
}

type eventHandler func(event model.ChangeEvent, l *logs.Log) error

// buildDispatchTable maps (collection, change kind) to its handler. Everything the
// service reacts to is listed here, so the cascade and propagation logic stays
// testable without the eventing platform.
func (app *application) buildDispatchTable() map[eventKey]eventHandler {
	return map[eventKey]eventHandler{
		{model.CollectionOrganizations, model.ChangeDeleted}: app.onOrganizationDeleted,

		{model.CollectionLocations, model.ChangeCreated}: app.onLocationCreated,
		{model.CollectionLocations, model.ChangeDeleted}: app.onLocationDeleted,

		{model.CollectionEmployees, model.ChangeCreated}: app.onEmployeeCreated,
		{model.CollectionEmployees, model.ChangeUpdated}: app.onEmployeeUpdated,
		{model.CollectionEmployees, model.ChangeDeleted}: app.onEmployeeDeleted,

		{model.CollectionConversations, model.ChangeCreated}: app.onConversationCreated,
		{model.CollectionConversations, model.ChangeDeleted}: app.onConversationDeleted,

		{model.CollectionMessages, model.ChangeCreated}: app.onMessageCreated,
		{model.CollectionMessages, model.ChangeDeleted}: app.onMessageDeleted,

		{model.CollectionBoards, model.ChangeDeleted}:       app.onBoardDeleted,
		{model.CollectionBoardContents, model.ChangeDeleted}: app.onBoardContentDeleted,

		{model.CollectionSchedules, model.ChangeUpdated}: app.onScheduleUpdated,
	}
}

// processChange routes one change event through the dispatch table. Unknown keys are
// dropped. Handler failures are logged and swallowed - there is no caller to respond
// to, and every cascade step is safe to re-run.
func (app *application) processChange(event model.ChangeEvent) error {
	handler, ok := app.dispatch[eventKey{Collection: event.Collection, Kind: event.Kind}]
	if !ok {
		return nil
	}

	l := app.logger.NewLog(uuid.NewString(), logs.RequestContext{})
	err := handler(event, l)
	if err != nil {
		l.Errorf("error processing %s: %v", event, err)
	}
	return nil
}

func (app *application) onOrganizationDeleted(event model.ChangeEvent, l *logs.Log) error {
	org, err := eventSnapshot[model.Organization](event.Before, model.TypeOrganization)
	if err != nil {
		return err
	}
	return app.cascadeOrganizationDeleted(event.DocumentID, org, l)
}

func (app *application) onLocationCreated(event model.ChangeEvent, l *logs.Log) error {
	location, err := eventSnapshot[model.Location](event.After, model.TypeLocation)
	if err != nil {
		return err
	}
	return app.registerLocationCreated(*location, l)
}

func (app *application) onLocationDeleted(event model.ChangeEvent, l *logs.Log) error {
	location, err := eventSnapshot[model.Location](event.Before, model.TypeLocation)
	if err != nil {
		return err
	}
	return app.cascadeLocationDeleted(*location, l)
}

func (app *application) onEmployeeCreated(event model.ChangeEvent, l *logs.Log) error {
	employee, err := eventSnapshot[model.Employee](event.After, model.TypeEmployee)
	if err != nil {
		return err
	}
	return app.propagateEmployeeCreated(*employee, l)
}

func (app *application) onEmployeeUpdated(event model.ChangeEvent, l *logs.Log) error {
	before, err := eventSnapshot[model.Employee](event.Before, model.TypeEmployee)
	if err != nil {
		return err
	}
	after, err := eventSnapshot[model.Employee](event.After, model.TypeEmployee)
	if err != nil {
		return err
	}
	return app.propagateEmployeeUpdated(*before, *after, l)
}

func (app *application) onEmployeeDeleted(event model.ChangeEvent, l *logs.Log) error {
	employee, err := eventSnapshot[model.Employee](event.Before, model.TypeEmployee)
	if err != nil {
		return err
	}
	return app.cascadeEmployeeDeleted(*employee, l)
}

func (app *application) onConversationCreated(event model.ChangeEvent, l *logs.Log) error {
	conversation, err := eventSnapshot[model.Conversation](event.After, model.TypeConversation)
	if err != nil {
		return err
	}
	return app.populateConversationMembers(*conversation, l)
}

func (app *application) onConversationDeleted(event model.ChangeEvent, l *logs.Log) error {
	conversation, err := eventSnapshot[model.Conversation](event.Before, model.TypeConversation)
	if err != nil {
		return err
	}
	return app.cascadeConversationDeleted(*conversation, l)
}

func (app *application) onMessageCreated(event model.ChangeEvent, l *logs.Log) error {
	message, err := eventSnapshot[model.Message](event.After, model.TypeMessage)
	if err != nil {
		return err
	}
	return app.notifyMessageCreated(*message, l)
}

func (app *application) onMessageDeleted(event model.ChangeEvent, l *logs.Log) error {
	message, err := eventSnapshot[model.Message](event.Before, model.TypeMessage)
	if err != nil {
		return err
	}
	if message.AttachmentPath != nil {
		return app.fileStorage.DeleteObject(*message.AttachmentPath)
	}
	return nil
}

func (app *application) onBoardDeleted(event model.ChangeEvent, l *logs.Log) error {
	board, err := eventSnapshot[model.Board](event.Before, model.TypeBoard)
	if err != nil {
		return err
	}
	return app.cascadeBoardDeleted(*board, l)
}

func (app *application) onBoardContentDeleted(event model.ChangeEvent, l *logs.Log) error {
	content, err := eventSnapshot[model.BoardContent](event.Before, model.TypeBoardContent)
	if err != nil {
		return err
	}
	if content.FilePath != "" {
		//board deletion may have already removed the object
		return app.fileStorage.DeleteObject(content.FilePath)
	}
	return nil
}

func (app *application) onScheduleUpdated(event model.ChangeEvent, l *logs.Log) error {
	before, err := eventSnapshot[model.Schedule](event.Before, model.TypeSchedule)
	if err != nil {
		return err
	}
	after, err := eventSnapshot[model.Schedule](event.After, model.TypeSchedule)
	if err != nil {
		return err
	}
	if before.Published || !after.Published {
		return nil
	}
	return app.notifySchedulePublished(*after, l)
}

func eventSnapshot[T any](raw interface{}, dataType logutils.MessageDataType) (*T, error) {
	if raw == nil {
		return nil, errors.ErrorData(logutils.StatusMissing, dataType, nil)
	}
	switch v := raw.(type) {
	case *T:
		return v, nil
	case T:
		return &v, nil
	default:
		return nil, errors.ErrorData(logutils.StatusInvalid, dataType, nil)
	}
}
