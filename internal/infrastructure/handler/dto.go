package handler

import (
	"encoding/json"
	"math"
	"net/http"

	"github.com/damon-houk/currency-converter/internal/infrastructure/logger"
)

// ConversionResponse represents the response for the conversion endpoints.
// Amounts that cannot be computed, such as a conversion from a currency with
// no known rate, are null.
type ConversionResponse struct {
	Base      string              `json:"base"`
	Direction string              `json:"direction"`
	Amount    float64             `json:"amount"`
	Locale    string              `json:"locale"`
	Amounts   map[string]*float64 `json:"amounts"`
	Formatted map[string]string   `json:"formatted"`
	Rates     map[string]float64  `json:"rates"`
}

// FormatResponse represents the response for the format endpoint
type FormatResponse struct {
	Value          float64 `json:"value"`
	Currency       string  `json:"currency"`
	Locale         string  `json:"locale"`
	MinimumDigits  int     `json:"minimum_fraction_digits"`
	MaximumDigits  int     `json:"maximum_fraction_digits"`
	Formatted      string  `json:"formatted"`
	WithCurrency   string  `json:"with_currency"`
	CurrencySymbol string  `json:"currency_symbol"`
}

// HealthResponse represents the response for the health endpoint
type HealthResponse struct {
	Status string `json:"status"`
	Remote bool   `json:"remote"`
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error       string `json:"error"`
	Status      int    `json:"status"`
	Description string `json:"description,omitempty"`
	RequestID   string `json:"request_id,omitempty"`
}

// nullable maps NaN and infinities to nil so they encode as JSON null
func nullable(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func writeJSON(w http.ResponseWriter, log logger.Logger, statusCode int, body interface{}, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error("Failed to encode response", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
	}
}

func sendErrorResponse(w http.ResponseWriter, log logger.Logger, message, description string, statusCode int, requestID string) {
	resp := ErrorResponse{
		Error:       message,
		Status:      statusCode,
		Description: description,
		RequestID:   requestID,
	}

	log.Debug("Sending error response", map[string]interface{}{
		"request_id":  requestID,
		"status_code": statusCode,
		"message":     message,
	})

	writeJSON(w, log, statusCode, resp, requestID)
}
