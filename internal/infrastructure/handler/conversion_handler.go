// Package handler internal/infrastructure/handler/conversion_handler.go
package handler

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/damon-houk/currency-converter/internal/application/service"
	"github.com/damon-houk/currency-converter/internal/domain/entity"
	domain "github.com/damon-houk/currency-converter/internal/domain/service"
	"github.com/damon-houk/currency-converter/internal/infrastructure/format"
	"github.com/damon-houk/currency-converter/internal/infrastructure/logger"
	"github.com/damon-houk/currency-converter/internal/infrastructure/middleware"
	"github.com/gorilla/mux"
	"golang.org/x/text/currency"
)

// Conversion directions
const (
	DirectionTo   = "to"
	DirectionFrom = "from"
)

// ConversionHandler handles HTTP requests for currency conversion. Every
// request gets its own Exchange; the rate source is shared.
type ConversionHandler struct {
	source    domain.RateSource
	formatter *format.Formatter
	logger    logger.Logger
}

// NewConversionHandler creates a new conversion handler. A nil source serves
// conversions from the rates given in the request only.
func NewConversionHandler(source domain.RateSource, formatter *format.Formatter, log logger.Logger) *ConversionHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}
	if formatter == nil {
		formatter = format.NewFormatter(format.DefaultSettings())
	}

	return &ConversionHandler{
		source:    source,
		formatter: formatter,
		logger:    log,
	}
}

// ConvertTo handles converting an amount of the base currency to other currencies
func (h *ConversionHandler) ConvertTo(w http.ResponseWriter, r *http.Request) {
	h.convert(w, r, DirectionTo)
}

// ConvertFrom handles converting an amount of other currencies to the base currency
func (h *ConversionHandler) ConvertFrom(w http.ResponseWriter, r *http.Request) {
	h.convert(w, r, DirectionFrom)
}

func (h *ConversionHandler) convert(w http.ResponseWriter, r *http.Request, direction string) {
	requestID := middleware.GetRequestID(r.Context())
	base := mux.Vars(r)["base"]
	query := r.URL.Query()

	h.logger.Info("Handling conversion request", map[string]interface{}{
		"request_id": requestID,
		"base":       base,
		"direction":  direction,
	})

	if _, err := currency.ParseISO(base); err != nil {
		h.logger.Warn("Invalid base currency", map[string]interface{}{
			"request_id": requestID,
			"base":       base,
		})
		sendErrorResponse(w, h.logger, "Invalid base currency",
			"The base path segment must be an ISO 4217 currency code (e.g., USD)", http.StatusBadRequest, requestID)
		return
	}

	amount, err := strconv.ParseFloat(query.Get("amount"), 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) {
		h.logger.Warn("Invalid amount", map[string]interface{}{
			"request_id": requestID,
			"amount":     query.Get("amount"),
		})
		sendErrorResponse(w, h.logger, "Invalid amount",
			"The 'amount' query parameter must be a finite number", http.StatusBadRequest, requestID)
		return
	}

	currencies := entity.SplitList(query.Get("currencies"))
	if len(currencies) == 0 {
		h.logger.Warn("Missing currencies parameter", map[string]interface{}{
			"request_id": requestID,
		})
		sendErrorResponse(w, h.logger, "Missing currencies parameter",
			"The 'currencies' query parameter is required (e.g., USD,EUR)", http.StatusBadRequest, requestID)
		return
	}

	rates, err := entity.ParseRates(query.Get("rates"), ":")
	if err != nil {
		h.logger.Warn("Invalid rates parameter", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Invalid rates parameter",
			err.Error(), http.StatusBadRequest, requestID)
		return
	}

	opts := []service.Option{service.WithRates(rates), service.WithLogger(h.logger)}
	if h.source != nil {
		opts = append(opts, service.WithSource(h.source))
	}
	exchange := service.NewExchange(amount, base, opts...)

	var results map[string]float64
	if direction == DirectionTo {
		results, err = exchange.ToManyAmount(r.Context(), currencies, amount)
	} else {
		results, err = exchange.FromManyAmount(r.Context(), currencies, amount)
	}
	if err != nil {
		h.logger.Error("Rate service error", map[string]interface{}{
			"request_id": requestID,
			"base":       base,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Rate service unavailable",
			"Unable to retrieve exchange rate data. Please try again later.",
			http.StatusServiceUnavailable, requestID)
		return
	}

	formatOpts := format.Options{Locale: query.Get("locale")}
	resp := ConversionResponse{
		Base:      base,
		Direction: direction,
		Amount:    amount,
		Locale:    h.formatter.NewCurrencyValue(amount, base, formatOpts).ResolvedOptions().Locale,
		Amounts:   make(map[string]*float64, len(results)),
		Formatted: make(map[string]string, len(results)),
		Rates:     exchange.Conversion().ConversionRates(),
	}
	for target, value := range results {
		resp.Amounts[target] = nullable(value)
		if math.IsNaN(value) {
			continue
		}
		// "to" results are in the target currency, "from" results in the base
		code := target
		if direction == DirectionFrom {
			code = base
		}
		resp.Formatted[target] = h.formatter.FormatAsCurrency(value, code, formatOpts)
	}

	h.logger.Info("Conversion completed", map[string]interface{}{
		"request_id": requestID,
		"base":       base,
		"direction":  direction,
		"amount":     amount,
		"currencies": strings.Join(currencies, ","),
	})

	writeJSON(w, h.logger, http.StatusOK, resp, requestID)
}

// RegisterRoutes registers the conversion handler routes
func (h *ConversionHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/convert/{base}/to", h.ConvertTo).Methods("GET")
	router.HandleFunc("/convert/{base}/from", h.ConvertFrom).Methods("GET")

	h.logger.Info("Conversion routes registered", map[string]interface{}{
		"routes": []string{
			"GET /convert/{base}/to",
			"GET /convert/{base}/from",
		},
		"remote": h.source != nil,
	})
}
