package config

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/scooterco/scooter-rental-api/models"
)

// Config holds the project config values
type Config struct {
	URL             string
	DatabaseName    string
	BaseURL         string
	Port            string
	MaxSearchRadius float64
}

// New sets up all config related services
func New() *Config {
	// .env is optional; deployed environments set these directly
	_ = godotenv.Load()

	//setup zap logger and replace default logger
	logger := zap.NewExample()
	defer logger.Sync()
	_ = zap.ReplaceGlobals(logger)

	return &Config{
		URL:             os.Getenv("DB_URI"),
		DatabaseName:    os.Getenv("DB_NAME"),
		BaseURL:         os.Getenv("BASE_URL"),
		Port:            os.Getenv("PORT"),
		MaxSearchRadius: EnvFloat("MAX_SEARCH_RADIUS", 50000),
	}
}

// EnvFloat reads a float env var, falling back to def when unset or malformed
func EnvFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		zap.S().Warnw("invalid float env var, using default",
			"key", key,
			"value", v,
			"default", def,
		)
		return def
	}
	return f
}

// EnvInt reads an int env var, falling back to def when unset or malformed
func EnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		zap.S().Warnw("invalid int env var, using default",
			"key", key,
			"value", v,
			"default", def,
		)
		return def
	}
	return i
}

// ErrorStatus is a useful function that will log, write http headers and body for a
// give message, status code and err
func ErrorStatus(message string, httpStatusCode int, w http.ResponseWriter, err error) {
	zap.S().With(err).Error(message)
	w.WriteHeader(httpStatusCode)
	b, _ := json.Marshal(models.ErrorMessageResponse{Response: models.MessageError{
		Message: message,
		Error:   fmt.Sprintf("%v", err),
	}})
	w.Write(b)
}
