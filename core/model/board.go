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
	//TypeBoard board type
	TypeBoard logutils.MessageDataType = "board"
	//TypeBoardContent board content type
	TypeBoardContent logutils.MessageDataType = "board content"
)

// BoardKind distinguishes the notes drawer from the files drawer and todo boards
type BoardKind string

const (
	//BoardKindNotes notes drawer
	BoardKindNotes BoardKind = "notes"
	//BoardKindFiles files drawer
	BoardKindFiles BoardKind = "files"
	//BoardKindTodo todo board
	BoardKindTodo BoardKind = "todo"
)

// Board is a notes/files drawer scoped to a location or an organization. Deleting a
// board cascades to its content documents and their stored files.
type Board struct {
	ID         string
	OrgID      string
	LocationID string
	Name       string
	Kind       BoardKind

	AccessTags []string
	Hosts      []string
	Members    []string

	DateCreated time.Time
	DateUpdated *time.Time
}

// BoardContent is a nested content document of a board. Content deletion and board
// deletion both independently trigger file cleanup, so the file delete must tolerate
// an already-deleted object.
type BoardContent struct {
	ID      string
	BoardID string

	Title string
	//FilePath is the object-store path of the content's file, empty for plain notes
	FilePath string
	Size     int64

	DateCreated time.Time
}
