package dispatch

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Guilherme-Jorge/DenTeethAPI/databases"
)

// professional fields that may be mutated through the transition surface
var allowedProfessionalFields = map[string]bool{
	"availability":       true,
	"deviceToken":        true,
	"profileImage":       true,
	"accountFinalizedAt": true,
}

// TransitionManager applies single-field mutations to professional records
// and status mutations to emergencies. Every mutation targets exactly one
// record resolved by external identity and never creates one.
type TransitionManager struct {
	Registry    *Registry
	Emergencies databases.EmergencyDatabase
}

// NewTransitionManager wires a transition manager over the registry and the
// emergency store
func NewTransitionManager(registry *Registry, emergencies databases.EmergencyDatabase) *TransitionManager {
	return &TransitionManager{Registry: registry, Emergencies: emergencies}
}

// UpdateProfessionalField patches one whitelisted field on the professional
// resolved by uid. Zero matches fail with ErrNotFound; the returned ack
// carries the write time and matched count.
func (m *TransitionManager) UpdateProfessionalField(ctx context.Context, uid, field string, value interface{}) (*WriteAck, error) {
	if uid == "" {
		return nil, fmt.Errorf("%w: uid is required", ErrInvalidArgument)
	}
	if !allowedProfessionalFields[field] {
		return nil, fmt.Errorf("%w: field %q is not mutable", ErrInvalidArgument, field)
	}

	return m.Registry.ApplyPatch(ctx, uid, bson.M{field: value})
}

// UpdateEmergencyStatus sets the status of one emergency. The core itself
// never calls this; it exists for the response flow's external status
// updates.
func (m *TransitionManager) UpdateEmergencyStatus(ctx context.Context, emergencyID, status string) (*WriteAck, error) {
	if emergencyID == "" {
		return nil, fmt.Errorf("%w: emergencyId is required", ErrInvalidArgument)
	}
	if status == "" {
		return nil, fmt.Errorf("%w: status is required", ErrInvalidArgument)
	}

	id, err := primitive.ObjectIDFromHex(emergencyID)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed emergency id %q", ErrInvalidArgument, emergencyID)
	}

	now := time.Now()
	res, err := m.Emergencies.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"emergency.status": status},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: status of emergency %q: %v", ErrStoreWriteFailed, emergencyID, err)
	}
	if res.MatchedCount == 0 {
		return nil, fmt.Errorf("%w: emergency %q", ErrNotFound, emergencyID)
	}

	return &WriteAck{MatchedCount: res.MatchedCount, UpdatedAt: now}, nil
}
