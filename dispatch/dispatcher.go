package dispatch

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Guilherme-Jorge/DenTeethAPI/models"
	"github.com/Guilherme-Jorge/DenTeethAPI/notify"
)

// Dispatcher broadcasts a new emergency to every available professional and
// accounts for each delivery individually
type Dispatcher struct {
	Registry *Registry
	Gateway  notify.Gateway
}

// NewDispatcher wires a dispatcher over the registry and the notification gateway
func NewDispatcher(registry *Registry, gateway notify.Gateway) *Dispatcher {
	return &Dispatcher{Registry: registry, Gateway: gateway}
}

// Dispatch fans the emergency out to the currently available professionals
// and returns the delivery receipt. An empty recipient set is a valid
// zero/zero receipt, not an error; only a failed availability query is fatal.
// Safe to re-run for the same emergency: the availability query repeats and
// duplicate pushes are accepted.
func (d *Dispatcher) Dispatch(ctx context.Context, emergency models.Emergency) (*models.DeliveryReceipt, error) {
	dispatchID := uuid.New().String()

	recipients, err := d.Registry.FindAvailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: emergency %q: %v", ErrDispatchFailed, emergency.ID, err)
	}

	receipt := &models.DeliveryReceipt{
		DispatchID: dispatchID,
		Outcomes:   []models.DeliveryOutcome{},
	}

	if len(recipients) == 0 {
		zap.S().Infow("no professionals available, nothing to deliver",
			"emergencyId", emergency.ID,
			"dispatchId", dispatchID,
		)
		return receipt, nil
	}

	payload := notify.Payload{
		Title: "New emergency",
		Body:  emergency.Details.Description,
		Data: map[string]interface{}{
			"emergencyId":    emergency.ID,
			"requesterName":  emergency.Details.RequesterName,
			"requesterPhone": emergency.Details.RequesterPhone,
			"photos":         emergency.Details.Photos,
			"description":    emergency.Details.Description,
			"status":         models.EmergencyStatusNew,
			"createdAt":      emergency.Details.CreatedAt,
		},
	}

	tokens := make([]string, len(recipients))
	for i, r := range recipients {
		tokens[i] = r.DeviceToken
	}

	// every send completes before the receipt is built; failure accounting
	// needs all outcomes, so no short-circuit on first success
	outcomes := notify.SendMany(ctx, d.Gateway, tokens, payload)

	for i, out := range outcomes {
		o := models.DeliveryOutcome{
			UID:         recipients[i].UID,
			DeviceToken: recipients[i].DeviceToken,
			OK:          out.Err == nil,
		}
		if out.Err != nil {
			o.Error = out.Err.Error()
			receipt.FailureCount++
		} else {
			receipt.SuccessCount++
		}
		receipt.Outcomes = append(receipt.Outcomes, o)
	}

	zap.S().Infow("emergency dispatched",
		"emergencyId", emergency.ID,
		"dispatchId", dispatchID,
		"successCount", receipt.SuccessCount,
		"failureCount", receipt.FailureCount,
	)
	return receipt, nil
}
