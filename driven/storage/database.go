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
	"context"
	"time"

	"workplace-building-block/core/model"

	"github.com/rokwire/logging-library-go/v2/logs"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type database struct {
	mongoDBAuth  string
	mongoDBName  string
	mongoTimeout time.Duration

	db       *mongo.Database
	dbClient *mongo.Client

	logger *logs.Logger

	organizations   *collectionWrapper
	locations       *collectionWrapper
	employees       *collectionWrapper
	conversations   *collectionWrapper
	messages        *collectionWrapper
	boards          *collectionWrapper
	boardContents   *collectionWrapper
	schedules       *collectionWrapper
	shifts          *collectionWrapper
	users           *collectionWrapper
	files           *collectionWrapper
	billingProducts *collectionWrapper
	billingPrices   *collectionWrapper

	listeners []Listener
}

func (m *database) start() error {
	m.logger.Info("database -> start")

	//connect to the database
	clientOptions := options.Client().ApplyURI(m.mongoDBAuth)
	connectContext, cancel := context.WithTimeout(context.Background(), m.mongoTimeout)
	client, err := mongo.Connect(connectContext, clientOptions)
	cancel()
	if err != nil {
		return err
	}

	//ping the database
	pingContext, cancel := context.WithTimeout(context.Background(), m.mongoTimeout)
	err = client.Ping(pingContext, nil)
	cancel()
	if err != nil {
		return err
	}

	db := client.Database(m.mongoDBName)

	organizations := &collectionWrapper{database: m, coll: db.Collection("organizations")}
	err = m.applyOrganizationsChecks(organizations)
	if err != nil {
		return err
	}

	locations := &collectionWrapper{database: m, coll: db.Collection("locations")}
	err = m.applyLocationsChecks(locations)
	if err != nil {
		return err
	}

	employees := &collectionWrapper{database: m, coll: db.Collection("employees")}
	err = m.applyEmployeesChecks(employees)
	if err != nil {
		return err
	}

	conversations := &collectionWrapper{database: m, coll: db.Collection("conversations")}
	err = m.applyConversationsChecks(conversations)
	if err != nil {
		return err
	}

	messages := &collectionWrapper{database: m, coll: db.Collection("messages")}
	err = m.applyMessagesChecks(messages)
	if err != nil {
		return err
	}

	boards := &collectionWrapper{database: m, coll: db.Collection("boards")}
	err = m.applyBoardsChecks(boards)
	if err != nil {
		return err
	}

	boardContents := &collectionWrapper{database: m, coll: db.Collection("board_contents")}
	err = m.applyBoardContentsChecks(boardContents)
	if err != nil {
		return err
	}

	schedules := &collectionWrapper{database: m, coll: db.Collection("schedules")}
	err = m.applySchedulesChecks(schedules)
	if err != nil {
		return err
	}

	shifts := &collectionWrapper{database: m, coll: db.Collection("shifts")}
	err = m.applyShiftsChecks(shifts)
	if err != nil {
		return err
	}

	users := &collectionWrapper{database: m, coll: db.Collection("users")}

	files := &collectionWrapper{database: m, coll: db.Collection("files")}
	err = m.applyFilesChecks(files)
	if err != nil {
		return err
	}

	billingProducts := &collectionWrapper{database: m, coll: db.Collection("billing_products")}
	billingPrices := &collectionWrapper{database: m, coll: db.Collection("billing_prices")}
	err = m.applyBillingPricesChecks(billingPrices)
	if err != nil {
		return err
	}

	//assign the db, db client and the collections
	m.db = db
	m.dbClient = client
	m.organizations = organizations
	m.locations = locations
	m.employees = employees
	m.conversations = conversations
	m.messages = messages
	m.boards = boards
	m.boardContents = boardContents
	m.schedules = schedules
	m.shifts = shifts
	m.users = users
	m.files = files
	m.billingProducts = billingProducts
	m.billingPrices = billingPrices

	//the watched collections need pre-images enabled, or delete and update events
	//arrive without their Before snapshots
	watched := []*collectionWrapper{organizations, locations, employees, conversations,
		messages, boards, boardContents, schedules}
	for _, coll := range watched {
		err = m.enablePreImages(coll)
		if err != nil {
			return err
		}
	}

	//watch the collections whose changes drive reactions
	for _, coll := range watched {
		go coll.Watch(nil, m.logger)
	}

	return nil
}

// preImagesCommand builds the collMod command enabling change stream pre-images on
// a collection
func preImagesCommand(collName string) bson.D {
	return bson.D{primitive.E{Key: "collMod", Value: collName},
		primitive.E{Key: "changeStreamPreAndPostImages", Value: bson.M{"enabled": true}}}
}

func (m *database) enablePreImages(coll *collectionWrapper) error {
	ctx, cancel := context.WithTimeout(context.Background(), m.mongoTimeout)
	defer cancel()
	return m.db.RunCommand(ctx, preImagesCommand(coll.coll.Name())).Err()
}

func (m *database) applyOrganizationsChecks(organizations *collectionWrapper) error {
	err := organizations.AddIndex(bson.D{primitive.E{Key: "customer_id", Value: 1}}, false)
	if err != nil {
		return err
	}
	return nil
}

func (m *database) applyLocationsChecks(locations *collectionWrapper) error {
	err := locations.AddIndex(bson.D{primitive.E{Key: "org_id", Value: 1}}, false)
	if err != nil {
		return err
	}
	err = locations.AddIndex(bson.D{primitive.E{Key: "members", Value: 1}}, false)
	if err != nil {
		return err
	}
	return nil
}

func (m *database) applyEmployeesChecks(employees *collectionWrapper) error {
	//one employee record per user per organization
	err := employees.AddIndex(bson.D{primitive.E{Key: "org_id", Value: 1}, primitive.E{Key: "user_id", Value: 1}}, true)
	if err != nil {
		return err
	}
	return nil
}

func (m *database) applyConversationsChecks(conversations *collectionWrapper) error {
	err := conversations.AddIndex(bson.D{primitive.E{Key: "org_id", Value: 1}}, false)
	if err != nil {
		return err
	}
	err = conversations.AddIndex(bson.D{primitive.E{Key: "location_id", Value: 1}}, false)
	if err != nil {
		return err
	}
	return nil
}

func (m *database) applyMessagesChecks(messages *collectionWrapper) error {
	err := messages.AddIndex(bson.D{primitive.E{Key: "conversation_id", Value: 1}}, false)
	if err != nil {
		return err
	}
	return nil
}

func (m *database) applyBoardsChecks(boards *collectionWrapper) error {
	err := boards.AddIndex(bson.D{primitive.E{Key: "org_id", Value: 1}}, false)
	if err != nil {
		return err
	}
	return nil
}

func (m *database) applyBoardContentsChecks(boardContents *collectionWrapper) error {
	err := boardContents.AddIndex(bson.D{primitive.E{Key: "board_id", Value: 1}}, false)
	if err != nil {
		return err
	}
	return nil
}

func (m *database) applySchedulesChecks(schedules *collectionWrapper) error {
	err := schedules.AddIndex(bson.D{primitive.E{Key: "location_id", Value: 1}, primitive.E{Key: "week_id", Value: 1}}, true)
	if err != nil {
		return err
	}
	return nil
}

func (m *database) applyShiftsChecks(shifts *collectionWrapper) error {
	err := shifts.AddIndex(bson.D{primitive.E{Key: "location_id", Value: 1}, primitive.E{Key: "week_id", Value: 1}}, false)
	if err != nil {
		return err
	}
	return nil
}

func (m *database) applyFilesChecks(files *collectionWrapper) error {
	err := files.AddIndex(bson.D{primitive.E{Key: "path", Value: 1}}, true)
	if err != nil {
		return err
	}
	err = files.AddIndex(bson.D{primitive.E{Key: "owner_kind", Value: 1}, primitive.E{Key: "owner_id", Value: 1}}, false)
	if err != nil {
		return err
	}
	return nil
}

func (m *database) applyBillingPricesChecks(billingPrices *collectionWrapper) error {
	err := billingPrices.AddIndex(bson.D{primitive.E{Key: "product_id", Value: 1}}, false)
	if err != nil {
		return err
	}
	return nil
}

func (m *database) onDataChanged(changeDoc rawChange) {
	event, err := decodeChange(changeDoc)
	if err != nil {
		m.logger.Errorf("error decoding %s change for %s: %s", changeDoc.NS.Coll, changeDoc.DocumentKey.ID, err)
		return
	}
	if event == nil {
		return
	}

	for _, listener := range m.listeners {
		listener.OnDocumentChanged(*event)
	}
}

// decodeChange turns a raw change stream document into a typed change event. It gives
// nil for collections and operation types nothing reacts to.
func decodeChange(changeDoc rawChange) (*model.ChangeEvent, error) {
	var kind model.ChangeKind
	switch changeDoc.OperationType {
	case "insert":
		kind = model.ChangeCreated
	case "update", "replace":
		kind = model.ChangeUpdated
	case "delete":
		kind = model.ChangeDeleted
	default:
		return nil, nil
	}

	event := model.ChangeEvent{Kind: kind, DocumentID: changeDoc.DocumentKey.ID}

	switch changeDoc.NS.Coll {
	case "organizations":
		event.Collection = model.CollectionOrganizations
		before, after, err := decodeSnapshots[organization](changeDoc)
		if err != nil {
			return nil, err
		}
		if before != nil {
			value := organizationFromStorage(*before)
			event.Before = &value
		}
		if after != nil {
			value := organizationFromStorage(*after)
			event.After = &value
		}
	case "locations":
		event.Collection = model.CollectionLocations
		before, after, err := decodeSnapshots[location](changeDoc)
		if err != nil {
			return nil, err
		}
		if before != nil {
			value := locationFromStorage(*before)
			event.Before = &value
		}
		if after != nil {
			value := locationFromStorage(*after)
			event.After = &value
		}
	case "employees":
		event.Collection = model.CollectionEmployees
		before, after, err := decodeSnapshots[employee](changeDoc)
		if err != nil {
			return nil, err
		}
		if before != nil {
			value := employeeFromStorage(*before)
			event.Before = &value
		}
		if after != nil {
			value := employeeFromStorage(*after)
			event.After = &value
		}
	case "conversations":
		event.Collection = model.CollectionConversations
		before, after, err := decodeSnapshots[conversation](changeDoc)
		if err != nil {
			return nil, err
		}
		if before != nil {
			value := conversationFromStorage(*before)
			event.Before = &value
		}
		if after != nil {
			value := conversationFromStorage(*after)
			event.After = &value
		}
	case "messages":
		event.Collection = model.CollectionMessages
		before, after, err := decodeSnapshots[message](changeDoc)
		if err != nil {
			return nil, err
		}
		if before != nil {
			value := messageFromStorage(*before)
			event.Before = &value
		}
		if after != nil {
			value := messageFromStorage(*after)
			event.After = &value
		}
	case "boards":
		event.Collection = model.CollectionBoards
		before, after, err := decodeSnapshots[board](changeDoc)
		if err != nil {
			return nil, err
		}
		if before != nil {
			value := boardFromStorage(*before)
			event.Before = &value
		}
		if after != nil {
			value := boardFromStorage(*after)
			event.After = &value
		}
	case "board_contents":
		event.Collection = model.CollectionBoardContents
		before, after, err := decodeSnapshots[boardContent](changeDoc)
		if err != nil {
			return nil, err
		}
		if before != nil {
			value := boardContentFromStorage(*before)
			event.Before = &value
		}
		if after != nil {
			value := boardContentFromStorage(*after)
			event.After = &value
		}
	case "schedules":
		event.Collection = model.CollectionSchedules
		before, after, err := decodeSnapshots[schedule](changeDoc)
		if err != nil {
			return nil, err
		}
		if before != nil {
			value := scheduleFromStorage(*before)
			event.Before = &value
		}
		if after != nil {
			value := scheduleFromStorage(*after)
			event.After = &value
		}
	default:
		return nil, nil
	}

	return &event, nil
}

func decodeSnapshots[T any](changeDoc rawChange) (*T, *T, error) {
	var before *T
	var after *T
	if len(changeDoc.FullDocumentBefore) > 0 {
		var value T
		err := bson.Unmarshal(changeDoc.FullDocumentBefore, &value)
		if err != nil {
			return nil, nil, err
		}
		before = &value
	}
	if len(changeDoc.FullDocument) > 0 {
		var value T
		err := bson.Unmarshal(changeDoc.FullDocument, &value)
		if err != nil {
			return nil, nil, err
		}
		after = &value
	}
	return before, after, nil
}
