package dispatch

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/Guilherme-Jorge/DenTeethAPI/databases"
	"github.com/Guilherme-Jorge/DenTeethAPI/models"
	"github.com/Guilherme-Jorge/DenTeethAPI/notify"
)

// Responder records a professional's reaction to an emergency and tells the
// requester about it
type Responder struct {
	Registry    *Registry
	Emergencies databases.EmergencyDatabase
	Responses   databases.ResponseDatabase
	Gateway     notify.Gateway
	Hub         *notify.Hub
}

// NewResponder wires a responder over the registry, the stores and the
// notification paths
func NewResponder(registry *Registry, emergencies databases.EmergencyDatabase, responses databases.ResponseDatabase, gateway notify.Gateway, hub *notify.Hub) *Responder {
	return &Responder{
		Registry:    registry,
		Emergencies: emergencies,
		Responses:   responses,
		Gateway:     gateway,
		Hub:         hub,
	}
}

// Respond stores a response linking the professional to the emergency. The
// professional's name, phone and profile image are snapshotted at call time
// and never re-read, so the record reflects their identity as of the
// response. Every call writes a fresh record with its own id and timestamp;
// repeated identical calls are distinct responses, not duplicates to merge.
// The requester notification happens after the write, best-effort, without
// blocking the return.
func (r *Responder) Respond(ctx context.Context, emergencyID, professionalUID, status string) (*models.Response, error) {
	if emergencyID == "" {
		return nil, fmt.Errorf("%w: emergencyId is required", ErrInvalidArgument)
	}
	if professionalUID == "" {
		return nil, fmt.Errorf("%w: professionalUid is required", ErrInvalidArgument)
	}

	professional, err := r.Registry.FindByUID(ctx, professionalUID)
	if err != nil {
		return nil, err
	}

	response := models.Response{
		ID: primitive.NewObjectID().Hex(),
		Details: models.ResponseDetails{
			EmergencyID:              emergencyID,
			ProfessionalUID:          professionalUID,
			Status:                   status,
			ProfessionalName:         professional.Details.Name,
			ProfessionalPhone:        professional.Details.Phone,
			ProfessionalProfileImage: professional.Details.ProfileImage,
			CreatedAt:                primitive.NewDateTimeFromTime(time.Now()),
		},
	}

	id, _ := primitive.ObjectIDFromHex(response.ID)
	doc := bson.M{
		"_id":      id,
		"response": response.Details,
		"__v":      0,
	}

	_, err = r.Responses.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("%w: response to emergency %q by professional %q: %v",
			ErrStoreWriteFailed, emergencyID, professionalUID, err)
	}

	// the response is durable at this point; the requester notification is
	// a separate best-effort step and its failure never rolls it back
	go r.notifyRequester(emergencyID, response)

	return &response, nil
}

func (r *Responder) notifyRequester(emergencyID string, response models.Response) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if r.Hub != nil {
		r.Hub.Broadcast(emergencyID, "new_response", response)
	}

	id, err := primitive.ObjectIDFromHex(emergencyID)
	if err != nil {
		zap.S().Warnw("requester push skipped, malformed emergency id",
			"emergencyId", emergencyID,
			"error", err,
		)
		return
	}

	emergency, err := r.Emergencies.FindOne(ctx, bson.M{"_id": id})
	if err != nil {
		zap.S().Warnw("requester push skipped, failed to load emergency",
			"emergencyId", emergencyID,
			"error", err,
		)
		return
	}
	if emergency.Details.DeviceToken == "" {
		return
	}

	payload := notify.Payload{
		Title: "A professional responded",
		Body:  fmt.Sprintf("%s responded to your emergency", response.Details.ProfessionalName),
		Data: map[string]interface{}{
			"emergencyId": emergencyID,
			"responseId":  response.ID,
			"status":      response.Details.Status,
		},
	}
	if err := r.Gateway.SendOne(ctx, emergency.Details.DeviceToken, payload); err != nil {
		zap.S().Warnw("failed to notify requester",
			"emergencyId", emergencyID,
			"responseId", response.ID,
			"error", err,
		)
	}
}
