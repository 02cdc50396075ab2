package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/Guilherme-Jorge/DenTeethAPI/config"
	"github.com/Guilherme-Jorge/DenTeethAPI/databases"
	"github.com/Guilherme-Jorge/DenTeethAPI/dispatch"
	"github.com/Guilherme-Jorge/DenTeethAPI/models"
)

// Response exported for testing purposes
type Response struct {
	DB        databases.ResponseDatabase
	Responder *dispatch.Responder
}

type responseCreateRequest struct {
	EmergencyID     string `json:"emergencyId"`
	ProfessionalUID string `json:"professionalUid"`
	Status          string `json:"status"`
}

// CreateResponseHandler records a professional's response to an emergency
// and kicks off the requester notification
func (rs Response) CreateResponseHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody responseCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	response, err := rs.Responder.Respond(r.Context(), requestBody.EmergencyID, requestBody.ProfessionalUID, requestBody.Status)
	if err != nil {
		writeDispatchError("failed to record response", w, err)
		return
	}

	config.Success("response recorded", http.StatusCreated, w, response)
}

// ResponsesByEmergencyIDHandler returns every response filed against the
// given emergency
func (rs Response) ResponsesByEmergencyIDHandler(w http.ResponseWriter, r *http.Request) {
	emergencyID := mux.Vars(r)["emergency_id"]

	responses, err := rs.DB.Find(r.Context(), bson.M{"response.emergencyId": emergencyID})
	if err != nil {
		config.ErrorStatus("failed to get responses for emergency", http.StatusNotFound, w, err)
		return
	}
	if len(responses) == 0 {
		responses = []models.Response{}
	}

	config.Success("responses found", http.StatusOK, w, responses)
}
