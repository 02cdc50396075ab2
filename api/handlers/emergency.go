package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Guilherme-Jorge/DenTeethAPI/config"
	"github.com/Guilherme-Jorge/DenTeethAPI/databases"
	"github.com/Guilherme-Jorge/DenTeethAPI/dispatch"
	"github.com/Guilherme-Jorge/DenTeethAPI/models"
)

// Emergency exported for testing purposes
type Emergency struct {
	DB          databases.EmergencyDatabase
	Dispatcher  *dispatch.Dispatcher
	Transitions *dispatch.TransitionManager
}

type emergencyCreateRequest struct {
	RequesterName  string   `json:"requesterName"`
	RequesterPhone string   `json:"requesterPhone"`
	Description    string   `json:"description"`
	Photos         []string `json:"photos"`
	DeviceToken    string   `json:"deviceToken"`
}

// CreateEmergencyHandler stores a new emergency and immediately fans it out
// to every available professional. The delivery receipt comes back in the
// payload so the caller can see who was reached; zero recipients is a valid
// receipt, not a failure.
func (e Emergency) CreateEmergencyHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody emergencyCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	required := map[string]string{
		"requesterName":  requestBody.RequesterName,
		"requesterPhone": requestBody.RequesterPhone,
		"description":    requestBody.Description,
	}
	for field, value := range required {
		if value == "" {
			config.ErrorStatus("missing required field", http.StatusBadRequest, w,
				fmt.Errorf("%w: %q is required", dispatch.ErrInvalidArgument, field))
			return
		}
	}
	if len(requestBody.Photos) > models.MaxEmergencyPhotos {
		config.ErrorStatus("too many photos", http.StatusBadRequest, w,
			fmt.Errorf("%w: at most %d photos are allowed", dispatch.ErrInvalidArgument, models.MaxEmergencyPhotos))
		return
	}

	photos := requestBody.Photos
	if photos == nil {
		photos = []string{}
	}

	emergency := models.Emergency{
		ID: primitive.NewObjectID().Hex(),
		Details: models.EmergencyDetails{
			RequesterName:  requestBody.RequesterName,
			RequesterPhone: requestBody.RequesterPhone,
			Photos:         photos,
			Description:    requestBody.Description,
			Status:         models.EmergencyStatusNew,
			DeviceToken:    requestBody.DeviceToken,
			CreatedAt:      primitive.NewDateTimeFromTime(time.Now()),
		},
	}

	id, _ := primitive.ObjectIDFromHex(emergency.ID)
	doc := bson.M{
		"_id":       id,
		"emergency": emergency.Details,
		"__v":       0,
	}

	if _, err := e.DB.InsertOne(r.Context(), doc); err != nil {
		config.InternalError("failed to insert emergency", w, err)
		return
	}

	receipt, err := e.Dispatcher.Dispatch(r.Context(), emergency)
	if err != nil {
		// the emergency is stored; only the fan-out failed
		writeDispatchError("failed to dispatch emergency", w, err)
		return
	}

	config.Success("emergency created", http.StatusCreated, w, map[string]interface{}{
		"emergencyId": emergency.ID,
		"receipt":     receipt,
	})
}

// EmergencyByIDHandler returns an emergency by ID
func (e Emergency) EmergencyByIDHandler(w http.ResponseWriter, r *http.Request) {
	emergencyID := mux.Vars(r)["emergency_id"]

	id, err := primitive.ObjectIDFromHex(emergencyID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	emergency, err := e.DB.FindOne(r.Context(), bson.M{"_id": id})
	if err != nil {
		config.ErrorStatus("failed to get emergency by ID", http.StatusNotFound, w, err)
		return
	}

	config.Success("emergency found", http.StatusOK, w, emergency)
}

// UpdateEmergencyStatusHandler sets the emergency status, e.g. after a
// response was accepted
func (e Emergency) UpdateEmergencyStatusHandler(w http.ResponseWriter, r *http.Request) {
	emergencyID := mux.Vars(r)["emergency_id"]

	var requestBody struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	ack, err := e.Transitions.UpdateEmergencyStatus(r.Context(), emergencyID, requestBody.Status)
	if err != nil {
		writeDispatchError("failed to update emergency status", w, err)
		return
	}

	config.Success("emergency status updated", http.StatusOK, w, ack)
}
