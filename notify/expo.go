package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

const defaultExpoPushURL = "https://exp.host/--/api/v2/push/send"

// expoPushMessage represents a single push notification message for the Expo push API
type expoPushMessage struct {
	To        string                 `json:"to"`
	Title     string                 `json:"title,omitempty"`
	Body      string                 `json:"body,omitempty"`
	Sound     string                 `json:"sound,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Priority  string                 `json:"priority,omitempty"`
	ChannelID string                 `json:"channelId,omitempty"`
}

// expoPushTicket is the per-message receipt returned by the Expo push API
type expoPushTicket struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type expoPushResponse struct {
	Data []expoPushTicket `json:"data"`
}

// ExpoGateway sends push notifications through the Expo push API
type ExpoGateway struct {
	url    string
	client *http.Client
}

// NewExpoGateway returns a gateway pointed at the Expo push API. The URL can
// be overridden with EXPO_PUSH_URL.
func NewExpoGateway() *ExpoGateway {
	url := os.Getenv("EXPO_PUSH_URL")
	if url == "" {
		url = defaultExpoPushURL
	}
	return &ExpoGateway{
		url:    url,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// SendOne delivers a single push message and inspects the per-message ticket,
// so a rejected token surfaces as an error even when the HTTP call succeeds
func (g *ExpoGateway) SendOne(ctx context.Context, deviceToken string, p Payload) error {
	msg := []expoPushMessage{{
		To:        deviceToken,
		Title:     p.Title,
		Body:      p.Body,
		Sound:     "default",
		Data:      p.Data,
		Priority:  "high",
		ChannelID: "default",
	}}

	jsonData, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal push message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create push request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip, deflate")

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send push request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("expo push API returned status %d", resp.StatusCode)
	}

	var ticketResp expoPushResponse
	if err := json.NewDecoder(resp.Body).Decode(&ticketResp); err != nil {
		return fmt.Errorf("failed to decode push ticket: %w", err)
	}
	if len(ticketResp.Data) > 0 && ticketResp.Data[0].Status != "ok" {
		return fmt.Errorf("expo push rejected: %s", ticketResp.Data[0].Message)
	}

	return nil
}
