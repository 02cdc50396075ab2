package models

// Result statuses returned by every entry point
const (
	StatusSuccess = "SUCCESS"
	StatusError   = "ERROR"
)

// Result is the envelope returned by every entry point
type Result struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Payload interface{} `json:"payload,omitempty"`
}

// HealthCheckResponse returns the health check response readable in json
type HealthCheckResponse struct {
	Alive bool `json:"alive"`
}
