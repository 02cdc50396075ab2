package notify

import (
	"context"
	"sync"
)

// Payload is one logical notification, independent of transport
type Payload struct {
	Title string
	Body  string
	Data  map[string]interface{}
}

// Gateway delivers a payload to a single device address. Implementations
// must return a definite outcome per call rather than hang; the Expo
// gateway enforces this with a client timeout.
type Gateway interface {
	SendOne(ctx context.Context, deviceToken string, p Payload) error
}

// Outcome is the per-recipient result of a SendMany fan-out
type Outcome struct {
	DeviceToken string
	Err         error
}

// SendMany delivers p to every token through g, one concurrent send per
// recipient. Every send is awaited before returning and one recipient's
// failure never aborts the rest. The returned slice keeps the input order,
// one outcome per token.
func SendMany(ctx context.Context, g Gateway, tokens []string, p Payload) []Outcome {
	outcomes := make([]Outcome, len(tokens))
	var wg sync.WaitGroup
	for i, token := range tokens {
		wg.Add(1)
		go func(i int, token string) {
			defer wg.Done()
			outcomes[i] = Outcome{DeviceToken: token, Err: g.SendOne(ctx, token, p)}
		}(i, token)
	}
	wg.Wait()
	return outcomes
}
