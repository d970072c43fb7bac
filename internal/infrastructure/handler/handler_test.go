package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/damon-houk/currency-converter/internal/domain/entity"
	"github.com/damon-houk/currency-converter/internal/infrastructure/api"
	"github.com/damon-houk/currency-converter/internal/infrastructure/format"
	"github.com/damon-houk/currency-converter/internal/infrastructure/logger"
	"github.com/damon-houk/currency-converter/internal/infrastructure/middleware"
	"github.com/damon-houk/currency-converter/internal/mocks"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// newTestRouter wires the handlers the way cmd/server does
func newTestRouter(source *mocks.MockRateSource) *mux.Router {
	log := logger.NewNopLogger()
	formatter := format.NewFormatter(format.DefaultSettings())

	var conversionHandler *ConversionHandler
	if source != nil {
		conversionHandler = NewConversionHandler(source, formatter, log)
	} else {
		conversionHandler = NewConversionHandler(nil, formatter, log)
	}

	router := mux.NewRouter()
	router.Use(middleware.RequestIDMiddleware)
	conversionHandler.RegisterRoutes(router)
	NewFormatHandler(formatter, log).RegisterRoutes(router)
	router.HandleFunc("/health", HealthHandler(source != nil)).Methods("GET")
	return router
}

func get(t *testing.T, router http.Handler, target string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set(middleware.RequestIDHeader, "test-request")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return w, body
}

func TestConvertTo_RequestRates(t *testing.T) {
	router := newTestRouter(nil)

	w, body := get(t, router, "/convert/PLN/to?amount=15&currencies=USD,EUR,JPY&rates=USD:0.275,EUR:0.2347")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, "PLN", body["base"])
	assert.Equal(t, "to", body["direction"])
	assert.Equal(t, "en-US", body["locale"])

	amounts := body["amounts"].(map[string]interface{})
	assert.Equal(t, 4.125, amounts["USD"])
	assert.Equal(t, 3.5204999999999997, amounts["EUR"])
	// Unknown targets convert with the identity rate
	assert.Equal(t, 15.0, amounts["JPY"])

	formatted := body["formatted"].(map[string]interface{})
	assert.Equal(t, "€3.52", formatted["EUR"])
	assert.Equal(t, "$4.13", formatted["USD"])
}

func TestConvertFrom_UnknownCurrencyIsNull(t *testing.T) {
	router := newTestRouter(nil)

	w, body := get(t, router, "/convert/PLN/from?amount=15&currencies=USD,JPY&rates=USD:0.275")

	assert.Equal(t, http.StatusOK, w.Code)
	amounts := body["amounts"].(map[string]interface{})
	assert.Equal(t, 54.54545454545454, amounts["USD"])
	assert.Contains(t, amounts, "JPY")
	assert.Nil(t, amounts["JPY"])

	formatted := body["formatted"].(map[string]interface{})
	assert.Equal(t, "PLN\u00a054.55", formatted["USD"])
	assert.NotContains(t, formatted, "JPY")
}

func TestConvert_RemoteSource(t *testing.T) {
	source := new(mocks.MockRateSource)
	router := newTestRouter(source)

	source.On("FetchRates", mock.Anything, "PLN").Return(&entity.RateSnapshot{
		Base:  "PLN",
		Rates: map[string]interface{}{"USD": 0.5},
	}, nil).Once()

	w, body := get(t, router, "/convert/PLN/to?amount=10&currencies=USD,EUR&rates=EUR:0.25")

	assert.Equal(t, http.StatusOK, w.Code)
	amounts := body["amounts"].(map[string]interface{})
	assert.Equal(t, 5.0, amounts["USD"])
	assert.Equal(t, 2.5, amounts["EUR"])
	assert.Equal(t, map[string]interface{}{"USD": 0.5, "EUR": 0.25}, body["rates"])
	source.AssertExpectations(t)
}

func TestConvert_RemoteSourceErrors(t *testing.T) {
	t.Run("unexpected status keeps request rates", func(t *testing.T) {
		source := new(mocks.MockRateSource)
		router := newTestRouter(source)
		source.On("FetchRates", mock.Anything, "PLN").
			Return(nil, fmt.Errorf("%w: 500", api.ErrUnexpectedStatus)).Once()

		w, body := get(t, router, "/convert/PLN/to?amount=10&currencies=USD&rates=USD:0.25")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 2.5, body["amounts"].(map[string]interface{})["USD"])
	})

	t.Run("transport failure", func(t *testing.T) {
		source := new(mocks.MockRateSource)
		router := newTestRouter(source)
		source.On("FetchRates", mock.Anything, "PLN").
			Return(nil, errors.New("dial tcp: connection refused")).Once()

		w, body := get(t, router, "/convert/PLN/from?amount=10&currencies=USD")

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "Rate service unavailable", body["error"])
		assert.Equal(t, "test-request", body["request_id"])
	})
}

func TestConvert_InvalidBaseNeverReachesSource(t *testing.T) {
	source := new(mocks.MockRateSource)
	router := newTestRouter(source)

	w, body := get(t, router, "/convert/USD%3Fapi_key=stolen/from?amount=1&currencies=EUR")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid base currency", body["error"])
	source.AssertNotCalled(t, "FetchRates", mock.Anything, mock.Anything)
}

func TestConvert_BadRequests(t *testing.T) {
	router := newTestRouter(nil)

	tests := []struct {
		name   string
		target string
		error  string
	}{
		{"missing amount", "/convert/PLN/to?currencies=USD", "Invalid amount"},
		{"non numeric amount", "/convert/PLN/to?amount=ten&currencies=USD", "Invalid amount"},
		{"NaN amount", "/convert/PLN/to?amount=NaN&currencies=USD", "Invalid amount"},
		{"missing currencies", "/convert/PLN/from?amount=1", "Missing currencies parameter"},
		{"blank currencies", "/convert/PLN/from?amount=1&currencies=,%20,", "Missing currencies parameter"},
		{"malformed rate", "/convert/PLN/to?amount=1&currencies=USD&rates=USD", "Invalid rates parameter"},
		{"non numeric rate", "/convert/PLN/to?amount=1&currencies=USD&rates=USD:x", "Invalid rates parameter"},
		{"unknown base", "/convert/PLNX/to?amount=1&currencies=USD", "Invalid base currency"},
		{"base with query", "/convert/USD%3Fapi_key=stolen/to?amount=1&currencies=EUR", "Invalid base currency"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := get(t, router, tt.target)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.error, body["error"])
			assert.Equal(t, float64(http.StatusBadRequest), body["status"])
			assert.Equal(t, "test-request", body["request_id"])
		})
	}
}

func TestFormat(t *testing.T) {
	router := newTestRouter(nil)

	w, body := get(t, router, "/format?value=1234.5&currency=EUR&locale=de-DE")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "de-DE", body["locale"])
	assert.Equal(t, "1.234,50", body["formatted"])
	assert.Equal(t, "1.234,50\u00a0€", body["with_currency"])
	assert.Equal(t, "€", body["currency_symbol"])
	assert.Equal(t, float64(2), body["minimum_fraction_digits"])

	w, body = get(t, router, "/format?value=3.14159&currency=USD&min=0&max=4")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "en-US", body["locale"])
	assert.Equal(t, "$3.1416", body["with_currency"])
	assert.Equal(t, float64(4), body["maximum_fraction_digits"])
}

func TestFormat_BadRequests(t *testing.T) {
	router := newTestRouter(nil)

	for _, target := range []string{
		"/format?currency=USD",
		"/format?value=NaN",
		"/format?value=1&min=-1",
		"/format?value=1&max=lots",
	} {
		w, body := get(t, router, target)
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
		assert.NotEmpty(t, body["error"], target)
	}
}

func TestHealth(t *testing.T) {
	w, body := get(t, newTestRouter(nil), "/health")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, false, body["remote"])
}
