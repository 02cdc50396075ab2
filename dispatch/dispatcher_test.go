package dispatch_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Guilherme-Jorge/DenTeethAPI/databases"
	"github.com/Guilherme-Jorge/DenTeethAPI/dispatch"
	"github.com/Guilherme-Jorge/DenTeethAPI/models"
	"github.com/Guilherme-Jorge/DenTeethAPI/notify"
)

// stubGateway fails the tokens listed in failing and optionally stalls each
// send so outcome ordering gets exercised under real concurrency
type stubGateway struct {
	mu      sync.Mutex
	failing map[string]bool
	delays  map[string]time.Duration
	sent    []string
}

func (s *stubGateway) SendOne(ctx context.Context, deviceToken string, p notify.Payload) error {
	if d, ok := s.delays[deviceToken]; ok {
		time.Sleep(d)
	}
	s.mu.Lock()
	s.sent = append(s.sent, deviceToken)
	s.mu.Unlock()
	if s.failing[deviceToken] {
		return errors.New("DeviceNotRegistered")
	}
	return nil
}

func emergencyFixture() models.Emergency {
	return models.Emergency{
		ID: "656f1e0a0b1c2d3e4f5a6b7c",
		Details: models.EmergencyDetails{
			RequesterName:  "Bob",
			RequesterPhone: "555-0199",
			Description:    "broken tooth",
			Status:         models.EmergencyStatusNew,
		},
	}
}

func TestDispatcher_NoRecipientsIsZeroZeroNotAnError(t *testing.T) {
	db := mockProfessionalFind(t, nil, nil)
	registry := dispatch.NewRegistry(databases.NewProfessionalDatabase(db))
	gateway := &stubGateway{}
	dispatcher := dispatch.NewDispatcher(registry, gateway)

	receipt, err := dispatcher.Dispatch(context.Background(), emergencyFixture())

	assert.NoError(t, err)
	assert.Equal(t, 0, receipt.SuccessCount)
	assert.Equal(t, 0, receipt.FailureCount)
	assert.NotNil(t, receipt.Outcomes)
	assert.Empty(t, receipt.Outcomes)
	assert.NotEmpty(t, receipt.DispatchID)
	assert.Empty(t, gateway.sent)
}

func TestDispatcher_AvailabilityQueryFailureIsDispatchFailed(t *testing.T) {
	db := mockProfessionalFind(t, nil, errors.New("mocked-error"))
	registry := dispatch.NewRegistry(databases.NewProfessionalDatabase(db))
	dispatcher := dispatch.NewDispatcher(registry, &stubGateway{})

	_, err := dispatcher.Dispatch(context.Background(), emergencyFixture())

	assert.ErrorIs(t, err, dispatch.ErrDispatchFailed)
}

func TestDispatcher_PartialFailureAccounting(t *testing.T) {
	professionals := []models.Professional{
		professionalFixture("p1", "Alice", "tokA", true),
		professionalFixture("p2", "Beth", "tokB", true),
		professionalFixture("p3", "Carol", "tokC", true),
		professionalFixture("p4", "Dana", "tokD", true),
		professionalFixture("p5", "Eve", "tokE", true),
	}
	db := mockProfessionalFind(t, professionals, nil)
	registry := dispatch.NewRegistry(databases.NewProfessionalDatabase(db))

	// stagger sends so completion order differs from recipient order
	gateway := &stubGateway{
		failing: map[string]bool{"tokB": true, "tokD": true},
		delays: map[string]time.Duration{
			"tokA": 30 * time.Millisecond,
			"tokB": 5 * time.Millisecond,
			"tokE": 15 * time.Millisecond,
		},
	}
	dispatcher := dispatch.NewDispatcher(registry, gateway)

	receipt, err := dispatcher.Dispatch(context.Background(), emergencyFixture())

	assert.NoError(t, err)
	assert.Equal(t, 3, receipt.SuccessCount)
	assert.Equal(t, 2, receipt.FailureCount)
	assert.Len(t, receipt.Outcomes, 5)
	assert.Len(t, gateway.sent, 5)

	// outcomes stay in recipient order regardless of completion order
	for i, p := range professionals {
		assert.Equal(t, p.Details.UID, receipt.Outcomes[i].UID)
		assert.Equal(t, p.Details.DeviceToken, receipt.Outcomes[i].DeviceToken)
	}
	assert.True(t, receipt.Outcomes[0].OK)
	assert.False(t, receipt.Outcomes[1].OK)
	assert.Equal(t, "DeviceNotRegistered", receipt.Outcomes[1].Error)
	assert.True(t, receipt.Outcomes[2].OK)
	assert.False(t, receipt.Outcomes[3].OK)
	assert.True(t, receipt.Outcomes[4].OK)
}

func TestDispatcher_AllSendsFailStillReturnsReceipt(t *testing.T) {
	professionals := []models.Professional{
		professionalFixture("p1", "Alice", "tokA", true),
		professionalFixture("p2", "Beth", "tokB", true),
	}
	db := mockProfessionalFind(t, professionals, nil)
	registry := dispatch.NewRegistry(databases.NewProfessionalDatabase(db))
	gateway := &stubGateway{failing: map[string]bool{"tokA": true, "tokB": true}}
	dispatcher := dispatch.NewDispatcher(registry, gateway)

	receipt, err := dispatcher.Dispatch(context.Background(), emergencyFixture())

	assert.NoError(t, err)
	assert.Equal(t, 0, receipt.SuccessCount)
	assert.Equal(t, 2, receipt.FailureCount)
	assert.Len(t, receipt.Outcomes, 2)
}

func TestDispatcher_FreshQueryEachDispatch(t *testing.T) {
	db := mockProfessionalFind(t, []models.Professional{
		professionalFixture("p1", "Alice", "tokA", true),
	}, nil)
	registry := dispatch.NewRegistry(databases.NewProfessionalDatabase(db))
	gateway := &stubGateway{}
	dispatcher := dispatch.NewDispatcher(registry, gateway)

	first, err := dispatcher.Dispatch(context.Background(), emergencyFixture())
	assert.NoError(t, err)
	second, err := dispatcher.Dispatch(context.Background(), emergencyFixture())
	assert.NoError(t, err)

	assert.NotEqual(t, first.DispatchID, second.DispatchID)
	assert.Len(t, gateway.sent, 2)
}
