package handlers

import (
	"encoding/json"
	"errors"
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

// Professional exported for testing purposes
type Professional struct {
	DB          databases.ProfessionalDatabase
	Registry    *dispatch.Registry
	Transitions *dispatch.TransitionManager
}

// professionalCreateRequest is the expected shape of a registration call.
// Every field is required; absence fails before any store access.
type professionalCreateRequest struct {
	UID        string `json:"uid"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Address    string `json:"address"`
	Curriculum string `json:"curriculum"`
}

// CreateProfessionalHandler registers a professional's personal data. The
// record starts unavailable and without a device token; those arrive through
// the field-update endpoints as the app finishes registration.
func (p Professional) CreateProfessionalHandler(w http.ResponseWriter, r *http.Request) {
	var requestBody professionalCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	required := map[string]string{
		"uid":        requestBody.UID,
		"name":       requestBody.Name,
		"phone":      requestBody.Phone,
		"email":      requestBody.Email,
		"address":    requestBody.Address,
		"curriculum": requestBody.Curriculum,
	}
	for field, value := range required {
		if value == "" {
			config.ErrorStatus("missing required field", http.StatusBadRequest, w,
				fmt.Errorf("%w: %q is required", dispatch.ErrInvalidArgument, field))
			return
		}
	}

	now := primitive.NewDateTimeFromTime(time.Now())
	newProfessional := bson.M{
		"_id": primitive.NewObjectID(),
		"professional": models.ProfessionalDetails{
			UID:        requestBody.UID,
			Name:       requestBody.Name,
			Phone:      requestBody.Phone,
			Email:      requestBody.Email,
			Address:    requestBody.Address,
			Curriculum: requestBody.Curriculum,
			CreatedAt:  now,
			UpdatedAt:  now,
		},
		"__v": 0,
	}

	res, err := p.DB.InsertOne(r.Context(), newProfessional)
	if err != nil {
		config.InternalError("failed to insert professional", w, err)
		return
	}

	config.Success("professional registered", http.StatusCreated, w, map[string]interface{}{
		"_id": res.Decode(),
		"uid": requestBody.UID,
	})
}

// ProfessionalByUIDHandler returns a professional by uid
func (p Professional) ProfessionalByUIDHandler(w http.ResponseWriter, r *http.Request) {
	uid := mux.Vars(r)["uid"]

	professional, err := p.Registry.FindByUID(r.Context(), uid)
	if err != nil {
		writeDispatchError("failed to get professional", w, err)
		return
	}

	config.Success("professional found", http.StatusOK, w, professional)
}

// UpdateAvailabilityHandler toggles whether the professional receives dispatches
func (p Professional) UpdateAvailabilityHandler(w http.ResponseWriter, r *http.Request) {
	uid := mux.Vars(r)["uid"]

	var requestBody struct {
		Availability *bool `json:"availability"`
	}
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if requestBody.Availability == nil {
		config.ErrorStatus("missing required field", http.StatusBadRequest, w,
			fmt.Errorf("%w: \"availability\" is required", dispatch.ErrInvalidArgument))
		return
	}

	ack, err := p.Transitions.UpdateProfessionalField(r.Context(), uid, "availability", *requestBody.Availability)
	if err != nil {
		writeDispatchError("failed to update availability", w, err)
		return
	}

	config.Success("availability updated", http.StatusOK, w, ack)
}

// UpdateDeviceTokenHandler stores a refreshed push token for the professional
func (p Professional) UpdateDeviceTokenHandler(w http.ResponseWriter, r *http.Request) {
	uid := mux.Vars(r)["uid"]

	var requestBody struct {
		DeviceToken string `json:"deviceToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if requestBody.DeviceToken == "" {
		config.ErrorStatus("missing required field", http.StatusBadRequest, w,
			fmt.Errorf("%w: \"deviceToken\" is required", dispatch.ErrInvalidArgument))
		return
	}

	ack, err := p.Transitions.UpdateProfessionalField(r.Context(), uid, "deviceToken", requestBody.DeviceToken)
	if err != nil {
		writeDispatchError("failed to update device token", w, err)
		return
	}

	config.Success("device token updated", http.StatusOK, w, ack)
}

// UpdateProfileImageHandler attaches a profile image reference
func (p Professional) UpdateProfileImageHandler(w http.ResponseWriter, r *http.Request) {
	uid := mux.Vars(r)["uid"]

	var requestBody struct {
		ProfileImage string `json:"profileImage"`
	}
	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if requestBody.ProfileImage == "" {
		config.ErrorStatus("missing required field", http.StatusBadRequest, w,
			fmt.Errorf("%w: \"profileImage\" is required", dispatch.ErrInvalidArgument))
		return
	}

	ack, err := p.Transitions.UpdateProfessionalField(r.Context(), uid, "profileImage", requestBody.ProfileImage)
	if err != nil {
		writeDispatchError("failed to update profile image", w, err)
		return
	}

	config.Success("profile image updated", http.StatusOK, w, ack)
}

// FinalizeAccountHandler stamps the account as fully registered
func (p Professional) FinalizeAccountHandler(w http.ResponseWriter, r *http.Request) {
	uid := mux.Vars(r)["uid"]

	ack, err := p.Transitions.UpdateProfessionalField(r.Context(), uid, "accountFinalizedAt",
		primitive.NewDateTimeFromTime(time.Now()))
	if err != nil {
		writeDispatchError("failed to finalize account", w, err)
		return
	}

	config.Success("account finalized", http.StatusOK, w, ack)
}

// writeDispatchError maps the dispatch error taxonomy onto HTTP statuses and
// the result envelope
func writeDispatchError(message string, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, dispatch.ErrInvalidArgument):
		config.ErrorStatus(message, http.StatusBadRequest, w, err)
	case errors.Is(err, dispatch.ErrNotFound):
		config.ErrorStatus(message, http.StatusNotFound, w, err)
	case errors.Is(err, dispatch.ErrDispatchFailed):
		config.ErrorStatus(message, http.StatusBadGateway, w, err)
	default:
		config.InternalError(message, w, err)
	}
}
