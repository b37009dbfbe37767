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
)

//Conversation
func conversationFromStorage(item conversation) model.Conversation {
	return model.Conversation{ID: item.ID, OrgID: item.OrgID, LocationID: item.LocationID, Name: item.Name,
		PrivacyLevel: model.PrivacyLevel(item.PrivacyLevel), Position: item.Position,
		Members: item.Members, Hosts: item.Hosts,
		DateCreated: item.DateCreated, DateUpdated: item.DateUpdated}
}

func conversationsFromStorage(itemsList []conversation) []model.Conversation {
	if len(itemsList) == 0 {
		return make([]model.Conversation, 0)
	}

	items := make([]model.Conversation, len(itemsList))
	for i, item := range itemsList {
		items[i] = conversationFromStorage(item)
	}
	return items
}

//Message
func messageFromStorage(item message) model.Message {
	return model.Message{ID: item.ID, ConversationID: item.ConversationID, SenderID: item.SenderID,
		Text: item.Text, AttachmentPath: item.AttachmentPath, DateCreated: item.DateCreated}
}

func messagesFromStorage(itemsList []message) []model.Message {
	if len(itemsList) == 0 {
		return make([]model.Message, 0)
	}

	items := make([]model.Message, len(itemsList))
	for i, item := range itemsList {
		items[i] = messageFromStorage(item)
	}
	return items
}

//Board
func boardFromStorage(item board) model.Board {
	return model.Board{ID: item.ID, OrgID: item.OrgID, LocationID: item.LocationID, Name: item.Name,
		Kind: model.BoardKind(item.Kind), AccessTags: item.AccessTags, Hosts: item.Hosts, Members: item.Members,
		DateCreated: item.DateCreated, DateUpdated: item.DateUpdated}
}

func boardsFromStorage(itemsList []board) []model.Board {
	if len(itemsList) == 0 {
		return make([]model.Board, 0)
	}

	items := make([]model.Board, len(itemsList))
	for i, item := range itemsList {
		items[i] = boardFromStorage(item)
	}
	return items
}

//BoardContent
func boardContentFromStorage(item boardContent) model.BoardContent {
	return model.BoardContent{ID: item.ID, BoardID: item.BoardID, Title: item.Title,
		FilePath: item.FilePath, Size: item.Size, DateCreated: item.DateCreated}
}

func boardContentsFromStorage(itemsList []boardContent) []model.BoardContent {
	if len(itemsList) == 0 {
		return make([]model.BoardContent, 0)
	}

	items := make([]model.BoardContent, len(itemsList))
	for i, item := range itemsList {
		items[i] = boardContentFromStorage(item)
	}
	return items
}
