package notify_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Guilherme-Jorge/DenTeethAPI/notify"
)

type fakeGateway struct {
	mu      sync.Mutex
	failing map[string]bool
	delays  map[string]time.Duration
	calls   int
}

func (f *fakeGateway) SendOne(ctx context.Context, deviceToken string, p notify.Payload) error {
	if d, ok := f.delays[deviceToken]; ok {
		time.Sleep(d)
	}
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.failing[deviceToken] {
		return errors.New("send failed")
	}
	return nil
}

func TestSendMany_EmptyTokenList(t *testing.T) {
	gateway := &fakeGateway{}

	outcomes := notify.SendMany(context.Background(), gateway, nil, notify.Payload{})

	assert.Empty(t, outcomes)
	assert.Equal(t, 0, gateway.calls)
}

func TestSendMany_AllOutcomesGatheredInInputOrder(t *testing.T) {
	tokens := []string{"tokA", "tokB", "tokC", "tokD"}
	gateway := &fakeGateway{
		failing: map[string]bool{"tokC": true},
		// slowest first, so completion order inverts input order
		delays: map[string]time.Duration{
			"tokA": 40 * time.Millisecond,
			"tokB": 20 * time.Millisecond,
			"tokC": 10 * time.Millisecond,
		},
	}

	outcomes := notify.SendMany(context.Background(), gateway, tokens, notify.Payload{Title: "x"})

	assert.Len(t, outcomes, 4)
	assert.Equal(t, 4, gateway.calls)
	for i, token := range tokens {
		assert.Equal(t, token, outcomes[i].DeviceToken)
	}
	assert.NoError(t, outcomes[0].Err)
	assert.NoError(t, outcomes[1].Err)
	assert.Error(t, outcomes[2].Err)
	assert.NoError(t, outcomes[3].Err)
}

func TestSendMany_OneFailureDoesNotAbortTheRest(t *testing.T) {
	tokens := []string{"bad", "tokA", "tokB"}
	gateway := &fakeGateway{failing: map[string]bool{"bad": true}}

	outcomes := notify.SendMany(context.Background(), gateway, tokens, notify.Payload{})

	assert.Equal(t, 3, gateway.calls)
	assert.Error(t, outcomes[0].Err)
	assert.NoError(t, outcomes[1].Err)
	assert.NoError(t, outcomes[2].Err)
}
