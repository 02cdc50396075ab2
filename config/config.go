package config

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/Guilherme-Jorge/DenTeethAPI/models"
)

// Config holds the project config values
type Config struct {
	URL          string
	DatabaseName string
	BaseURL      string
	Port         string
	SendgridKey  string
}

// New sets up all config related services
func New() *Config {

	//setup zap logger and replace default logger
	logger, err := setLogger(os.Getenv("APP_ENV"))
	if err != nil {
		logger = zap.NewExample()
	}
	defer logger.Sync()
	_ = zap.ReplaceGlobals(logger)

	return &Config{
		URL:          os.Getenv("DB_URI"),
		DatabaseName: os.Getenv("DB_NAME"),
		BaseURL:      os.Getenv("BASE_URL"),
		Port:         os.Getenv("PORT"),
		SendgridKey:  os.Getenv("SENDGRID_API_KEY"),
	}

}

// setLogger builds the zap logger for the given environment. Anything
// other than development or production gets the example logger, which
// keeps local runs and tests deterministic.
func setLogger(env string) (*zap.Logger, error) {
	switch env {
	case "development":
		return zap.NewDevelopment()
	case "production":
		return zap.NewProduction()
	default:
		return zap.NewExample(), nil
	}
}

// ErrorStatus logs err and writes the ERROR result envelope with the
// given message, status code and err detail
func ErrorStatus(message string, httpStatusCode int, w http.ResponseWriter, err error) {
	zap.S().With(err).Error(message)
	w.WriteHeader(httpStatusCode)
	b, _ := json.Marshal(models.Result{
		Status:  models.StatusError,
		Message: fmt.Sprintf("%s, %v", message, err),
	})
	w.Write(b)
}

// InternalError logs err with its full detail and writes a generic
// ERROR envelope so lower-level failures never leak to callers
func InternalError(message string, w http.ResponseWriter, err error) {
	zap.S().With(err).Error(message)
	w.WriteHeader(http.StatusInternalServerError)
	b, _ := json.Marshal(models.Result{
		Status:  models.StatusError,
		Message: fmt.Sprintf("%s, check the service logs for details", message),
	})
	w.Write(b)
}

// Success writes the SUCCESS result envelope with an optional payload
func Success(message string, httpStatusCode int, w http.ResponseWriter, payload interface{}) {
	w.WriteHeader(httpStatusCode)
	b, err := json.Marshal(models.Result{
		Status:  models.StatusSuccess,
		Message: message,
		Payload: payload,
	})
	if err != nil {
		zap.S().With(err).Error("failed to marshal success payload")
		w.Write([]byte(`{"status": "SUCCESS"}`))
		return
	}
	w.Write(b)
}
