package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/Guilherme-Jorge/DenTeethAPI/api/handlers"
	"github.com/Guilherme-Jorge/DenTeethAPI/databases"
	"github.com/Guilherme-Jorge/DenTeethAPI/databases/mocks"
	"github.com/Guilherme-Jorge/DenTeethAPI/dispatch"
	"github.com/Guilherme-Jorge/DenTeethAPI/models"
)

func responsesHelper(conn *mocks.CollectionHelper) *mocks.DatabaseHelper {
	db := &mocks.DatabaseHelper{}
	db.On("Collection", "responses").Return(conn)
	return db
}

// quietEmergencies returns an emergency store whose lookups fail, which the
// async requester notification tolerates
func quietEmergencies() databases.EmergencyDatabase {
	db := &mocks.DatabaseHelper{}
	conn := &mocks.CollectionHelper{}
	single := &mocks.SingleResultHelper{}
	single.On("Decode", mock.Anything).Return(errors.New("mocked-error")).Maybe()
	conn.On("FindOne", mock.Anything, mock.Anything).Return(single).Maybe()
	db.On("Collection", "emergencies").Return(conn).Maybe()
	return databases.NewEmergencyDatabase(db)
}

func TestCreateResponseHandler_UnknownProfessionalIs404(t *testing.T) {
	registry := dispatch.NewRegistry(databases.NewProfessionalDatabase(
		professionalsHelper(professionalsWith([]models.Professional{}))))
	respConn := &mocks.CollectionHelper{}

	rs := handlers.Response{
		Responder: dispatch.NewResponder(registry, quietEmergencies(),
			databases.NewResponseDatabase(responsesHelper(respConn)), &recordingGateway{}, nil),
	}

	body := []byte(`{
		"emergencyId": "656f1e0a0b1c2d3e4f5a6b7c",
		"professionalUid": "ghost",
		"status": "ACCEPTED"
	}`)
	req, err := http.NewRequest("POST", "/api/v1/response", bytes.NewBuffer(body))
	assert.NoError(t, err)

	rr := httptest.NewRecorder()
	http.HandlerFunc(rs.CreateResponseHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"ERROR"`)
	respConn.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
}

func TestCreateResponseHandler_Success(t *testing.T) {
	professional := models.Professional{
		ID: "656f1e0a0b1c2d3e4f5a6b7c",
		Details: models.ProfessionalDetails{
			UID:   "p1",
			Name:  "Alice",
			Phone: "555-0100",
		},
	}
	registry := dispatch.NewRegistry(databases.NewProfessionalDatabase(
		professionalsHelper(professionalsWith([]models.Professional{professional}))))

	respConn := &mocks.CollectionHelper{}
	respConn.On("InsertOne", mock.Anything, mock.Anything).Return(&mocks.InsertOneResultHelper{}, nil)

	rs := handlers.Response{
		Responder: dispatch.NewResponder(registry, quietEmergencies(),
			databases.NewResponseDatabase(responsesHelper(respConn)), &recordingGateway{}, nil),
	}

	body := []byte(`{
		"emergencyId": "656f1e0a0b1c2d3e4f5a6b7c",
		"professionalUid": "p1",
		"status": "ACCEPTED"
	}`)
	req, err := http.NewRequest("POST", "/api/v1/response", bytes.NewBuffer(body))
	assert.NoError(t, err)

	rr := httptest.NewRecorder()
	http.HandlerFunc(rs.CreateResponseHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)

	var result models.Result
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	assert.Equal(t, models.StatusSuccess, result.Status)

	payload := result.Payload.(map[string]interface{})
	details := payload["response"].(map[string]interface{})
	assert.Equal(t, "Alice", details["professionalName"])
	assert.Equal(t, "555-0100", details["professionalPhone"])
}

func TestResponsesByEmergencyIDHandler_EmptyIsEmptyList(t *testing.T) {
	conn := &mocks.CollectionHelper{}
	cursor := &mocks.CursorHelper{}
	cursor.On("Decode", mock.Anything).Return(nil)
	conn.On("Find", mock.Anything, mock.Anything).Return(cursor, nil)

	rs := handlers.Response{DB: databases.NewResponseDatabase(responsesHelper(conn))}

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/responses/emergency/{emergency_id}", rs.ResponsesByEmergencyIDHandler)

	req, err := http.NewRequest("GET", "/api/v1/responses/emergency/656f1e0a0b1c2d3e4f5a6b7c", nil)
	assert.NoError(t, err)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"payload":[]`)
}

func TestResponsesByEmergencyIDHandler_FiltersByEmergency(t *testing.T) {
	stored := models.Response{
		ID: "656f1e0a0b1c2d3e4f5a6b7d",
		Details: models.ResponseDetails{
			EmergencyID:      "656f1e0a0b1c2d3e4f5a6b7c",
			ProfessionalUID:  "p1",
			Status:           "ACCEPTED",
			ProfessionalName: "Alice",
		},
	}

	conn := &mocks.CollectionHelper{}
	cursor := &mocks.CursorHelper{}
	cursor.On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*[]models.Response)
		*arg = []models.Response{stored}
	})

	var capturedFilter interface{}
	conn.On("Find", mock.Anything, mock.Anything).Return(cursor, nil).Run(func(args mock.Arguments) {
		capturedFilter = args.Get(1)
	})

	rs := handlers.Response{DB: databases.NewResponseDatabase(responsesHelper(conn))}

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/responses/emergency/{emergency_id}", rs.ResponsesByEmergencyIDHandler)

	req, err := http.NewRequest("GET", "/api/v1/responses/emergency/656f1e0a0b1c2d3e4f5a6b7c", nil)
	assert.NoError(t, err)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Alice")

	filter := capturedFilter.(bson.M)
	assert.Equal(t, "656f1e0a0b1c2d3e4f5a6b7c", filter["response.emergencyId"])
}
