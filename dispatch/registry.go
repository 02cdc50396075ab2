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
)

// Recipient is one push destination produced by an availability query
type Recipient struct {
	UID         string
	DeviceToken string
}

// WriteAck reports the outcome of a record mutation so callers can tell an
// applied patch from an ambiguous one
type WriteAck struct {
	MatchedCount int64     `json:"matchedCount"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Registry answers "who is available now" and resolves professionals by
// their externally issued uid
type Registry struct {
	DB databases.ProfessionalDatabase
}

// NewRegistry initializes a registry over the professional database
func NewRegistry(db databases.ProfessionalDatabase) *Registry {
	return &Registry{DB: db}
}

// FindAvailable returns every professional currently flagged available that
// has a device token registered. Professionals without a token cannot receive
// a push and are excluded so they never count against a delivery attempt.
// The query runs fresh on every call; availability is never cached.
func (r *Registry) FindAvailable(ctx context.Context) ([]Recipient, error) {
	filter := bson.M{
		"professional.availability": true,
		"professional.deviceToken":  bson.M{"$exists": true, "$ne": ""},
	}

	professionals, err := r.DB.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query available professionals: %w", err)
	}

	recipients := make([]Recipient, 0, len(professionals))
	for _, p := range professionals {
		recipients = append(recipients, Recipient{
			UID:         p.Details.UID,
			DeviceToken: p.Details.DeviceToken,
		})
	}
	return recipients, nil
}

// FindByUID resolves the single professional carrying the given uid. The
// store does not enforce uid uniqueness; when more than one record matches,
// the first result wins and the anomaly is logged.
func (r *Registry) FindByUID(ctx context.Context, uid string) (*models.Professional, error) {
	if uid == "" {
		return nil, fmt.Errorf("%w: uid is required", ErrInvalidArgument)
	}

	professionals, err := r.DB.Find(ctx, bson.M{"professional.uid": uid})
	if err != nil {
		return nil, fmt.Errorf("failed to query professional %q: %w", uid, err)
	}
	if len(professionals) == 0 {
		return nil, fmt.Errorf("%w: professional %q", ErrNotFound, uid)
	}
	if len(professionals) > 1 {
		zap.S().Warnw("multiple professionals share a uid, taking the first",
			"uid", uid,
			"count", len(professionals),
		)
	}

	professional := professionals[0]
	return &professional, nil
}

// ApplyPatch merges fields into the record resolved by uid without touching
// anything else. Field keys are relative to the professional sub-document.
// Never creates a record.
func (r *Registry) ApplyPatch(ctx context.Context, uid string, fields bson.M) (*WriteAck, error) {
	professional, err := r.FindByUID(ctx, uid)
	if err != nil {
		return nil, err
	}

	id, err := primitive.ObjectIDFromHex(professional.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: professional %q has malformed id %q", ErrStoreWriteFailed, uid, professional.ID)
	}

	now := time.Now()
	set := bson.M{"professional.updatedAt": primitive.NewDateTimeFromTime(now)}
	for field, value := range fields {
		set["professional."+field] = value
	}

	res, err := r.DB.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return nil, fmt.Errorf("%w: patch on professional %q: %v", ErrStoreWriteFailed, uid, err)
	}

	return &WriteAck{MatchedCount: res.MatchedCount, UpdatedAt: now}, nil
}
