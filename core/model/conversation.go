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

package model

import (
	"time"

	"github.com/rokwire/logging-library-go/v2/logutils"
)

const (
	//TypeConversation conversation type
	TypeConversation logutils.MessageDataType = "conversation"
	//TypeMessage conversation message type
	TypeMessage logutils.MessageDataType = "message"
)

// PrivacyLevel controls how conversation membership is derived
type PrivacyLevel string

const (
	//PrivacyPublic every location member belongs
	PrivacyPublic PrivacyLevel = "public"
	//PrivacyPrivate membership is managed by hosts only
	PrivacyPrivate PrivacyLevel = "private"
	//PrivacyPositions membership follows the position filter
	PrivacyPositions PrivacyLevel = "positions"
)

// Conversation is a location- or organization-scoped chat channel. Members maps
// user ID to the muted flag. Hosts are never auto-removed by position propagation.
type Conversation struct {
	ID         string
	OrgID      string
	LocationID string
	Name       string

	PrivacyLevel PrivacyLevel
	//Position filters membership under the positions privacy level
	Position *string

	Members map[string]bool
	Hosts   []string

	DateCreated time.Time
	DateUpdated *time.Time
}

// IsHost says whether the user hosts the conversation
func (c Conversation) IsHost(userID string) bool {
	for _, h := range c.Hosts {
		if h == userID {
			return true
		}
	}
	return false
}

// IsMember says whether the user belongs to the conversation
func (c Conversation) IsMember(userID string) bool {
	_, ok := c.Members[userID]
	return ok
}

// MatchesPositions says whether any of the positions passes the conversation's
// position filter. Only meaningful under the positions privacy level.
func (c Conversation) MatchesPositions(positions []string) bool {
	if c.Position == nil {
		return false
	}
	for _, p := range positions {
		if p == *c.Position {
			return true
		}
	}
	return false
}

// Message is a child record of a conversation, optionally carrying a stored attachment
type Message struct {
	ID             string
	ConversationID string

	SenderID string
	Text     string
	//AttachmentPath is an object-store path, deleted with the message
	AttachmentPath *string

	DateCreated time.Time
}
