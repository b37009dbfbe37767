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

package storage

import (
	"workplace-building-block/core/model"

	"github.com/rokwire/logging-library-go/v2/errors"
	"github.com/rokwire/logging-library-go/v2/logutils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// FindConversation finds a conversation by ID
func (sa *Adapter) FindConversation(id string) (*model.Conversation, error) {
	filter := bson.M{"_id": id}
	var result conversation
	err := sa.db.conversations.FindOne(filter, &result, nil)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeConversation, &logutils.FieldArgs{"_id": id}, err)
	}

	item := conversationFromStorage(result)
	return &item, nil
}

// FindConversationsByLocation finds a location's conversations
func (sa *Adapter) FindConversationsByLocation(locationID string) ([]model.Conversation, error) {
	filter := bson.M{"location_id": locationID}
	var result []conversation
	err := sa.db.conversations.Find(filter, &result, nil)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeConversation, &logutils.FieldArgs{"location_id": locationID}, err)
	}
	return conversationsFromStorage(result), nil
}

// FindConversationsByMember finds the organization's conversations the user
// belongs to
func (sa *Adapter) FindConversationsByMember(orgID string, userID string) ([]model.Conversation, error) {
	filter := bson.M{"org_id": orgID, "members." + userID: bson.M{"$exists": true}}
	var result []conversation
	err := sa.db.conversations.Find(filter, &result, nil)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeConversation, &logutils.FieldArgs{"org_id": orgID, "member": userID}, err)
	}
	return conversationsFromStorage(result), nil
}

// FindMessages finds a conversation's messages
func (sa *Adapter) FindMessages(conversationID string) ([]model.Message, error) {
	filter := bson.M{"conversation_id": conversationID}
	var result []message
	err := sa.db.messages.Find(filter, &result, nil)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeMessage, &logutils.FieldArgs{"conversation_id": conversationID}, err)
	}
	return messagesFromStorage(result), nil
}

// DeleteMessages deletes a conversation's messages
func (sa *Adapter) DeleteMessages(conversationID string) error {
	filter := bson.M{"conversation_id": conversationID}
	_, err := sa.db.messages.DeleteMany(filter, nil)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionDelete, model.TypeMessage, &logutils.FieldArgs{"conversation_id": conversationID}, err)
	}
	return nil
}

// FindBoard finds a board by ID
func (sa *Adapter) FindBoard(id string) (*model.Board, error) {
	filter := bson.M{"_id": id}
	var result board
	err := sa.db.boards.FindOne(filter, &result, nil)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeBoard, &logutils.FieldArgs{"_id": id}, err)
	}

	item := boardFromStorage(result)
	return &item, nil
}

// boardAccessFilter matches the organization's boards naming the user in any access
// set, so the removal cascade sees every board it has to scrub
func boardAccessFilter(orgID string, userID string) bson.M {
	return bson.M{"org_id": orgID,
		"$or": bson.A{bson.M{"members": userID}, bson.M{"hosts": userID}, bson.M{"access_tags": userID}}}
}

// FindBoardsByMember finds the organization's boards the user can access
func (sa *Adapter) FindBoardsByMember(orgID string, userID string) ([]model.Board, error) {
	filter := boardAccessFilter(orgID, userID)
	var result []board
	err := sa.db.boards.Find(filter, &result, nil)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeBoard, &logutils.FieldArgs{"org_id": orgID, "member": userID}, err)
	}
	return boardsFromStorage(result), nil
}

// FindBoardContents finds a board's content documents
func (sa *Adapter) FindBoardContents(boardID string) ([]model.BoardContent, error) {
	filter := bson.M{"board_id": boardID}
	var result []boardContent
	err := sa.db.boardContents.Find(filter, &result, nil)
	if err != nil {
		return nil, errors.WrapErrorAction(logutils.ActionFind, model.TypeBoardContent, &logutils.FieldArgs{"board_id": boardID}, err)
	}
	return boardContentsFromStorage(result), nil
}

// DeleteBoardContents deletes a board's content documents
func (sa *Adapter) DeleteBoardContents(boardID string) error {
	filter := bson.M{"board_id": boardID}
	_, err := sa.db.boardContents.DeleteMany(filter, nil)
	if err != nil {
		return errors.WrapErrorAction(logutils.ActionDelete, model.TypeBoardContent, &logutils.FieldArgs{"board_id": boardID}, err)
	}
	return nil
}
