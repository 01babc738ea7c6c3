package gateway

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omondi/sokocart/internal/pkg/logger"
	"github.com/omondi/sokocart/internal/pkg/models"
	"github.com/omondi/sokocart/services/payments"
)

func testLogger(t *testing.T) *logger.ZapLogger {
	t.Helper()
	zl, err := logger.NewZapLogger(logger.ZapConfig{Level: "error"}, nil)
	require.NoError(t, err)
	return zl
}

func testMpesaConfig(baseURL string) models.MpesaConfig {
	return models.MpesaConfig{
		BaseURL:         baseURL,
		ConsumerKey:     "test-key",
		ConsumerSecret:  "test-secret",
		ShortCode:       "174379",
		PassKey:         "test-passkey",
		CallbackBaseURL: "https://shop.example.com",
		TransactionDesc: "SokoCart order",
		Timeout:         5,
	}
}

func tokenJSON() string {
	return `{"access_token": "test-token-abc", "expires_in": "3599"}`
}

func TestProviderTimestamp(t *testing.T) {
	// 2026-03-15 09:30:45 UTC is 12:30:45 in Nairobi (UTC+3)
	utc := time.Date(2026, 3, 15, 9, 30, 45, 0, time.UTC)
	assert.Equal(t, "20260315123045", ProviderTimestamp(utc))
}

func TestSTKPassword(t *testing.T) {
	password := STKPassword("174379", "passkey", "20260315123045")

	decoded, err := base64.StdEncoding.DecodeString(password)
	require.NoError(t, err)
	assert.Equal(t, "174379passkey20260315123045", string(decoded))
}

func TestAccessToken_FetchAndCache(t *testing.T) {
	var tokenCalls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/oauth/v1/generate", r.URL.Path)
		require.Equal(t, "client_credentials", r.URL.Query().Get("grant_type"))

		expectedAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("test-key:test-secret"))
		require.Equal(t, expectedAuth, r.Header.Get("Authorization"))

		atomic.AddInt32(&tokenCalls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(tokenJSON()))
	}))
	defer server.Close()

	client := NewMpesaClient(testMpesaConfig(server.URL), testLogger(t))

	token, err := client.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "test-token-abc", token)

	// Second call is served from cache
	token, err = client.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "test-token-abc", token)
	assert.Equal(t, int32(1), atomic.LoadInt32(&tokenCalls))
}

func TestAccessToken_RefreshNearExpiry(t *testing.T) {
	var tokenCalls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&tokenCalls, 1)
		w.Write([]byte(tokenJSON()))
	}))
	defer server.Close()

	client := NewMpesaClient(testMpesaConfig(server.URL), testLogger(t))

	_, err := client.AccessToken(context.Background())
	require.NoError(t, err)

	// Force the cached token inside the refresh margin
	client.mu.Lock()
	client.tokenExpiry = time.Now().Add(10 * time.Second)
	client.mu.Unlock()

	_, err = client.AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&tokenCalls))
}

func TestAccessToken_RejectedCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewMpesaClient(testMpesaConfig(server.URL), testLogger(t))

	token, err := client.AccessToken(context.Background())
	assert.Empty(t, token)
	assert.ErrorIs(t, err, payments.ErrAuthFailure)
}

func TestSTKPush_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth/v1/generate":
			w.Write([]byte(tokenJSON()))
		case "/mpesa/stkpush/v1/processrequest":
			require.Equal(t, "Bearer test-token-abc", r.Header.Get("Authorization"))

			var req models.STKPushRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "174379", req.BusinessShortCode)
			assert.Equal(t, "CustomerPayBillOnline", req.TransactionType)
			assert.Equal(t, "1500", req.Amount)
			assert.Equal(t, "254712345678", req.PartyA)
			assert.Equal(t, "174379", req.PartyB)
			assert.Equal(t, "254712345678", req.PhoneNumber)
			assert.Equal(t, "https://shop.example.com/payments/callback", req.CallBackURL)
			assert.Equal(t, "ORD-1001", req.AccountReference)

			// The password must be reproducible from the request's own timestamp
			expected := STKPassword("174379", "test-passkey", req.Timestamp)
			assert.Equal(t, expected, req.Password)

			w.Write([]byte(`{
				"MerchantRequestID": "29115-34620561-1",
				"CheckoutRequestID": "ws_CO_191220191020363925",
				"ResponseCode": "0",
				"ResponseDescription": "Success. Request accepted for processing",
				"CustomerMessage": "Success. Request accepted for processing"
			}`))
		default:
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := NewMpesaClient(testMpesaConfig(server.URL), testLogger(t))

	resp, err := client.STKPush(context.Background(), 1500, "254712345678", "ORD-1001")
	require.NoError(t, err)
	assert.Equal(t, "29115-34620561-1", resp.MerchantRequestID)
	assert.Equal(t, "ws_CO_191220191020363925", resp.CheckoutRequestID)
}

func TestSTKPush_ProviderRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth/v1/generate":
			w.Write([]byte(tokenJSON()))
		case "/mpesa/stkpush/v1/processrequest":
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"requestId": "1234-1", "errorCode": "400.002.02", "errorMessage": "Bad Request - Invalid Amount"}`))
		}
	}))
	defer server.Close()

	client := NewMpesaClient(testMpesaConfig(server.URL), testLogger(t))

	resp, err := client.STKPush(context.Background(), 0, "254712345678", "ORD-1001")
	assert.Nil(t, resp)

	var providerErr *payments.ProviderError
	require.ErrorAs(t, err, &providerErr)
	assert.Equal(t, http.StatusBadRequest, providerErr.StatusCode)
	assert.Equal(t, "400.002.02", providerErr.Response.ErrorCode)
}

func TestSTKPush_RejectionsDoNotTripBreaker(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth/v1/generate":
			w.Write([]byte(tokenJSON()))
		case "/mpesa/stkpush/v1/processrequest":
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"errorCode": "400.002.02", "errorMessage": "Bad Request - Invalid Amount"}`))
		}
	}))
	defer server.Close()

	client := NewMpesaClient(testMpesaConfig(server.URL), testLogger(t))

	// Well past the breaker's failure threshold
	for i := 0; i < 10; i++ {
		_, err := client.STKPush(context.Background(), 0, "254712345678", "ORD-1001")

		var providerErr *payments.ProviderError
		require.ErrorAs(t, err, &providerErr,
			"rejection %d should surface the provider error, not an open breaker", i)
	}
}

func TestSTKPush_MissingIdentifiers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth/v1/generate":
			w.Write([]byte(tokenJSON()))
		case "/mpesa/stkpush/v1/processrequest":
			w.Write([]byte(`{"ResponseCode": "0"}`))
		}
	}))
	defer server.Close()

	client := NewMpesaClient(testMpesaConfig(server.URL), testLogger(t))

	resp, err := client.STKPush(context.Background(), 100, "254712345678", "ORD-1001")
	assert.Nil(t, resp)
	assert.Error(t, err)
}
