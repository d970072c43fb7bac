package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchRates(t *testing.T) {
	var requests int
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/latest/PLN", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{
			"result": "success",
			"base_code": "PLN",
			"conversion_rates": {"PLN": 1, "USD": 0.275, "EUR": 0.2347}
		}`))
	}))
	defer mockServer.Close()

	client := NewRateAPIClient(mockServer.URL+"/latest/", nil)

	snapshot, err := client.FetchRates(context.Background(), "PLN")

	require.NoError(t, err)
	assert.Equal(t, "PLN", snapshot.Base)
	assert.Equal(t, 0.275, snapshot.Rates["USD"])
	assert.Equal(t, 0.2347, snapshot.Rates["EUR"])
	assert.False(t, snapshot.FetchedAt.IsZero())

	// Without a cache every call goes to the endpoint
	_, err = client.FetchRates(context.Background(), "PLN")
	require.NoError(t, err)
	assert.Equal(t, 2, requests)
}

func TestFetchRates_EscapesBase(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/latest/USD?api_key=stolen", r.URL.Path)
		assert.Empty(t, r.URL.RawQuery)
		w.Write([]byte(`{"rates": {}}`))
	}))
	defer mockServer.Close()

	client := NewRateAPIClient(mockServer.URL+"/latest/", nil)

	_, err := client.FetchRates(context.Background(), "USD?api_key=stolen")
	require.NoError(t, err)
}

func TestFetchRates_RatesFallback(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"base": "USD", "rates": {"EUR": 0.9}}`))
	}))
	defer mockServer.Close()

	client := NewRateAPIClient(mockServer.URL+"/", nil)

	snapshot, err := client.FetchRates(context.Background(), "USD")

	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"EUR": 0.9}, snapshot.Rates)
}

func TestFetchRates_CustomAdapter(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {"quotes": {"GBP": 0.2031}}}`))
	}))
	defer mockServer.Close()

	adapter := func(body map[string]interface{}) map[string]interface{} {
		data, _ := body["data"].(map[string]interface{})
		quotes, _ := data["quotes"].(map[string]interface{})
		return quotes
	}
	client := NewRateAPIClient(mockServer.URL+"/", nil, WithAdapter(adapter))

	snapshot, err := client.FetchRates(context.Background(), "PLN")

	require.NoError(t, err)
	assert.Equal(t, 0.2031, snapshot.Rates["GBP"])
}

func TestFetchRates_Errors(t *testing.T) {
	t.Run("unexpected status", func(t *testing.T) {
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"result": "error"}`))
		}))
		defer mockServer.Close()

		client := NewRateAPIClient(mockServer.URL+"/", nil)
		snapshot, err := client.FetchRates(context.Background(), "XXX")

		assert.Nil(t, snapshot)
		assert.True(t, errors.Is(err, ErrUnexpectedStatus))
		assert.Contains(t, err.Error(), "404")
	})

	t.Run("malformed body", func(t *testing.T) {
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`not json`))
		}))
		defer mockServer.Close()

		client := NewRateAPIClient(mockServer.URL+"/", nil)
		_, err := client.FetchRates(context.Background(), "PLN")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decode response")
		assert.False(t, errors.Is(err, ErrUnexpectedStatus))
	})

	t.Run("transport failure", func(t *testing.T) {
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := mockServer.URL + "/"
		mockServer.Close()

		client := NewRateAPIClient(url, nil)
		_, err := client.FetchRates(context.Background(), "PLN")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to execute request")
	})

	t.Run("no endpoint", func(t *testing.T) {
		client := NewRateAPIClient("", nil)
		_, err := client.FetchRates(context.Background(), "PLN")

		assert.ErrorIs(t, err, ErrNoEndpoint)
	})

	t.Run("canceled context", func(t *testing.T) {
		mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"rates": {}}`))
		}))
		defer mockServer.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		client := NewRateAPIClient(mockServer.URL+"/", nil)
		_, err := client.FetchRates(ctx, "PLN")

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestFetchRates_Cache(t *testing.T) {
	var requests int
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Write([]byte(`{"rates": {"USD": 0.275}}`))
	}))
	defer mockServer.Close()

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	client := NewRateAPIClient(mockServer.URL+"/", nil, WithCacheTTL(time.Minute))
	client.now = func() time.Time { return now }

	first, err := client.FetchRates(context.Background(), "PLN")
	require.NoError(t, err)
	second, err := client.FetchRates(context.Background(), "PLN")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, requests)

	// Other bases are fetched separately
	_, err = client.FetchRates(context.Background(), "EUR")
	require.NoError(t, err)
	assert.Equal(t, 2, requests)
}

func TestDefaultAdapter(t *testing.T) {
	both := map[string]interface{}{
		"conversion_rates": map[string]interface{}{"USD": 1.0},
		"rates":            map[string]interface{}{"USD": 2.0},
	}
	assert.Equal(t, map[string]interface{}{"USD": 1.0}, DefaultAdapter(both))
	assert.Nil(t, DefaultAdapter(map[string]interface{}{"rates": "n/a"}))
	assert.Nil(t, DefaultAdapter(nil))
}
