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

	"workplace-building-block/core/model"

	"github.com/rokwire/logging-library-go/v2/errors"
	"github.com/rokwire/logging-library-go/v2/logs"
	"github.com/rokwire/logging-library-go/v2/logutils"
)

// Notification delivery is best-effort fire-and-forget: a failed send is logged and
// never fails the operation that triggered it.

// notifyMessageCreated bumps the realtime counters of every conversation member
// except the sender and pushes to the unmuted ones
func (app *application) notifyMessageCreated(message model.Message, l *logs.Log) error {
	conversation, err := app.storage.FindConversation(message.ConversationID)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionFind, model.TypeConversation, &logutils.FieldArgs{"id": message.ConversationID}, err)
	}
	if conversation == nil {
		//conversation already deleted, its cascade owns the counters
		return nil
	}

	recipients := make([]string, 0, len(conversation.Members))
	pushTargets := make([]string, 0, len(conversation.Members))
	for userID, muted := range conversation.Members {
		if userID == message.SenderID {
			continue
		}
		recipients = append(recipients, userID)
		if !muted {
			pushTargets = append(pushTargets, userID)
		}
	}

	err = app.realtime.IncrementConversationCounters(conversation.OrgID, conversation.ID, recipients, 1)
	if err != nil {
		l.Warnf("incrementing counters of conversation %s: %v", conversation.ID, err)
	}

	app.pushToUsers(pushTargets, conversation.Name, message.Text,
		map[string]string{"conversationId": conversation.ID, "orgId": conversation.OrgID}, l)
	return nil
}

// notifySchedulePublished pushes the published week to its recipients, telling each
// one how many shifts they picked up
func (app *application) notifySchedulePublished(schedule model.Schedule, l *logs.Log) error {
	if schedule.PublishData == nil || len(schedule.PublishData.NotificationRecipients) == 0 {
		return nil
	}

	shiftCounts := map[string]int{}
	shifts, err := app.storage.FindShiftsByWeek(schedule.LocationID, schedule.WeekID)
	if err != nil {
		l.Warnf("loading shifts of %s %s: %v", schedule.LocationID, schedule.WeekID, err)
	}
	for _, shift := range shifts {
		shiftCounts[shift.UserID]++
	}

	data := map[string]string{"locationId": schedule.LocationID, "weekId": schedule.WeekID}
	for _, userID := range schedule.PublishData.NotificationRecipients {
		body := "Your schedule for week " + schedule.WeekID + " is ready"
		if count := shiftCounts[userID]; count > 0 {
			noun := "shifts"
			if count == 1 {
				noun = "shift"
			}
			body = fmt.Sprintf("You have %d %s in week %s", count, noun, schedule.WeekID)
		}
		app.pushToUsers([]string{userID}, "Schedule published", body, data, l)
	}
	return nil
}

// pushToUsers resolves the users' delivery tokens and sends, best-effort
func (app *application) pushToUsers(userIDs []string, title string, body string, data map[string]string, l *logs.Log) {
	if len(userIDs) == 0 {
		return
	}

	users, err := app.storage.FindUsers(userIDs)
	if err != nil {
		l.Warnf("resolving push recipients: %v", err)
		return
	}

	tokens := []string{}
	for _, user := range users {
		tokens = append(tokens, user.FCMTokens...)
	}
	if len(tokens) == 0 {
		return
	}

	err = app.notifier.Send(tokens, title, body, data)
	if err != nil {
		l.Warnf("sending push to %d tokens: %v", len(tokens), err)
	}
}
