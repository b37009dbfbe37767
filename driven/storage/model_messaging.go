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

import "time"

type conversation struct {
	ID         string `bson:"_id"`
	OrgID      string `bson:"org_id"`
	LocationID string `bson:"location_id,omitempty"`
	Name       string `bson:"name"`

	PrivacyLevel string  `bson:"privacy_level"`
	Position     *string `bson:"position,omitempty"`

	//Members maps user ID to the muted flag
	Members map[string]bool `bson:"members"`
	Hosts   []string        `bson:"hosts"`

	DateCreated time.Time  `bson:"date_created"`
	DateUpdated *time.Time `bson:"date_updated"`
}

type message struct {
	ID             string `bson:"_id"`
	ConversationID string `bson:"conversation_id"`

	SenderID       string  `bson:"sender_id"`
	Text           string  `bson:"text"`
	AttachmentPath *string `bson:"attachment_path,omitempty"`

	DateCreated time.Time `bson:"date_created"`
}

type board struct {
	ID         string `bson:"_id"`
	OrgID      string `bson:"org_id"`
	LocationID string `bson:"location_id,omitempty"`
	Name       string `bson:"name"`
	Kind       string `bson:"kind"`

	AccessTags []string `bson:"access_tags"`
	Hosts      []string `bson:"hosts"`
	Members    []string `bson:"members"`

	DateCreated time.Time  `bson:"date_created"`
	DateUpdated *time.Time `bson:"date_updated"`
}

type boardContent struct {
	ID      string `bson:"_id"`
	BoardID string `bson:"board_id"`

	Title    string `bson:"title"`
	FilePath string `bson:"file_path,omitempty"`
	Size     int64  `bson:"size"`

	DateCreated time.Time `bson:"date_created"`
}
