package scheduler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Guilherme-Jorge/DenTeethAPI/databases"
	"github.com/Guilherme-Jorge/DenTeethAPI/databases/mocks"
	"github.com/Guilherme-Jorge/DenTeethAPI/dispatch"
	"github.com/Guilherme-Jorge/DenTeethAPI/models"
	"github.com/Guilherme-Jorge/DenTeethAPI/notify"
)

type noopGateway struct{}

func (noopGateway) SendOne(ctx context.Context, deviceToken string, p notify.Payload) error {
	return nil
}

func emptyRegistry() *dispatch.Registry {
	db := &mocks.DatabaseHelper{}
	conn := &mocks.CollectionHelper{}
	cursor := &mocks.CursorHelper{}
	cursor.On("Decode", mock.Anything).Return(nil)
	conn.On("Find", mock.Anything, mock.Anything).Return(cursor, nil)
	db.On("Collection", "professionals").Return(conn)
	return dispatch.NewRegistry(databases.NewProfessionalDatabase(db))
}

func TestRenotifyUnanswered_StampsEachRedispatchedEmergency(t *testing.T) {
	unanswered := models.Emergency{
		ID: "656f1e0a0b1c2d3e4f5a6b7c",
		Details: models.EmergencyDetails{
			Description: "broken tooth",
			Status:      models.EmergencyStatusNew,
		},
	}

	emDB := &mocks.DatabaseHelper{}
	emConn := &mocks.CollectionHelper{}
	cursor := &mocks.CursorHelper{}
	cursor.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*[]models.Emergency)
		*arg = []models.Emergency{unanswered}
	})

	var capturedFilter bson.M
	emConn.On("Find", mock.Anything, mock.Anything).Return(cursor, nil).
		Run(func(args mock.Arguments) {
			capturedFilter = args.Get(1).(bson.M)
		})

	var capturedUpdate bson.M
	emConn.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 1}, nil).
		Run(func(args mock.Arguments) {
			capturedUpdate = args.Get(2).(bson.M)
		})
	emDB.On("Collection", "emergencies").Return(emConn)

	lockDB := &mocks.DatabaseHelper{}
	lockConn := &mocks.CollectionHelper{}
	lockConn.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{UpsertedCount: 1}, nil)
	lockConn.On("DeleteOne", mock.Anything, mock.Anything).Return(nil)
	lockDB.On("Collection", "schedulerlocks").Return(lockConn)

	s := NewScheduler(
		databases.NewEmergencyDatabase(emDB),
		databases.NewSchedulerLockDatabase(lockDB),
		dispatch.NewDispatcher(emptyRegistry(), noopGateway{}),
	)

	s.renotifyUnanswered()

	// only still-unanswered NEW emergencies qualify, and each only once
	assert.Equal(t, models.EmergencyStatusNew, capturedFilter["emergency.status"])
	assert.Nil(t, capturedFilter["emergency.renotifiedAt"])
	assert.Contains(t, capturedFilter, "emergency.createdAt")

	set := capturedUpdate["$set"].(bson.M)
	assert.Contains(t, set, "emergency.renotifiedAt")
	lockConn.AssertNumberOfCalls(t, "DeleteOne", 1)
}

func TestRenotifyUnanswered_SkipsWhenLockHeldElsewhere(t *testing.T) {
	emDB := &mocks.DatabaseHelper{}
	emConn := &mocks.CollectionHelper{}
	emDB.On("Collection", "emergencies").Return(emConn).Maybe()

	lockDB := &mocks.DatabaseHelper{}
	lockConn := &mocks.CollectionHelper{}
	lockConn.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000}}})
	lockDB.On("Collection", "schedulerlocks").Return(lockConn)

	s := NewScheduler(
		databases.NewEmergencyDatabase(emDB),
		databases.NewSchedulerLockDatabase(lockDB),
		dispatch.NewDispatcher(emptyRegistry(), noopGateway{}),
	)

	s.renotifyUnanswered()

	emConn.AssertNotCalled(t, "Find", mock.Anything, mock.Anything)
	lockConn.AssertNotCalled(t, "DeleteOne", mock.Anything, mock.Anything)
}
