package handler

import (
	"math"
	"net/http"
	"strconv"

	"github.com/damon-houk/currency-converter/internal/infrastructure/format"
	"github.com/damon-houk/currency-converter/internal/infrastructure/logger"
	"github.com/damon-houk/currency-converter/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
)

// FormatHandler handles HTTP requests for locale formatting
type FormatHandler struct {
	formatter *format.Formatter
	logger    logger.Logger
}

// NewFormatHandler creates a new format handler
func NewFormatHandler(formatter *format.Formatter, log logger.Logger) *FormatHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	if formatter == nil {
		formatter = format.NewFormatter(format.DefaultSettings())
	}

	return &FormatHandler{
		formatter: formatter,
		logger:    log,
	}
}

// Format handles rendering a value as a locale number and currency amount
func (h *FormatHandler) Format(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	query := r.URL.Query()

	value, err := strconv.ParseFloat(query.Get("value"), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		h.logger.Warn("Invalid value", map[string]interface{}{
			"request_id": requestID,
			"value":      query.Get("value"),
		})
		sendErrorResponse(w, h.logger, "Invalid value",
			"The 'value' query parameter must be a finite number", http.StatusBadRequest, requestID)
		return
	}

	opts := format.Options{Locale: query.Get("locale")}
	for param, field := range map[string]**int{
		"min": &opts.MinimumFractionDigits,
		"max": &opts.MaximumFractionDigits,
	} {
		raw := query.Get(param)
		if raw == "" {
			continue
		}
		digits, err := strconv.Atoi(raw)
		if err != nil || digits < 0 || digits > 20 {
			sendErrorResponse(w, h.logger, "Invalid fraction digits",
				"The '"+param+"' query parameter must be an integer between 0 and 20", http.StatusBadRequest, requestID)
			return
		}
		*field = format.Digits(digits)
	}

	currencyValue := h.formatter.NewCurrencyValue(value, query.Get("currency"), opts)
	resolved := currencyValue.ResolvedOptions()

	resp := FormatResponse{
		Value:          value,
		Currency:       currencyValue.Currency(),
		Locale:         resolved.Locale,
		MinimumDigits:  *resolved.MinimumFractionDigits,
		MaximumDigits:  *resolved.MaximumFractionDigits,
		Formatted:      currencyValue.Formatted(),
		WithCurrency:   currencyValue.WithCurrency(),
		CurrencySymbol: currencyValue.CurrencySymbol(),
	}

	h.logger.Debug("Value formatted", map[string]interface{}{
		"request_id": requestID,
		"value":      value,
		"currency":   resp.Currency,
		"locale":     resp.Locale,
	})

	writeJSON(w, h.logger, http.StatusOK, resp, requestID)
}

// RegisterRoutes registers the format handler routes
func (h *FormatHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/format", h.Format).Methods("GET")

	h.logger.Info("Format routes registered", map[string]interface{}{
		"routes": []string{"GET /format"},
	})
}

// HealthHandler reports liveness
func HealthHandler(remote bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, logger.GetDefaultLogger(), http.StatusOK,
			HealthResponse{Status: "ok", Remote: remote}, middleware.GetRequestID(r.Context()))
	}
}
