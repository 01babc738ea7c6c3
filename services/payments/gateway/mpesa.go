package gateway

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/omondi/sokocart/internal/pkg/circuitbreaker"
	httppkg "github.com/omondi/sokocart/internal/pkg/http"
	"github.com/omondi/sokocart/internal/pkg/logger"
	"github.com/omondi/sokocart/internal/pkg/models"
	nrpkg "github.com/omondi/sokocart/internal/pkg/newrelic"
	"github.com/omondi/sokocart/services/payments"
)

const (
	tokenPath   = "/oauth/v1/generate?grant_type=client_credentials"
	stkPushPath = "/mpesa/stkpush/v1/processrequest"

	transactionType = "CustomerPayBillOnline"

	// tokens are refreshed this long before their advertised expiry
	tokenRefreshMargin = 30 * time.Second
)

// nairobi is the timezone the provider expects request timestamps in
var nairobi = loadNairobi()

func loadNairobi() *time.Location {
	loc, err := time.LoadLocation("Africa/Nairobi")
	if err != nil {
		return time.FixedZone("EAT", 3*60*60)
	}
	return loc
}

// ProviderTimestamp formats a time the way the provider's signature scheme
// requires: YYYYMMDDHHMMSS in the provider's timezone
func ProviderTimestamp(t time.Time) string {
	return t.In(nairobi).Format("20060102150405")
}

// STKPassword derives the request password exactly as the provider
// specifies: base64 of shortcode, passkey and timestamp concatenated.
// Any deviation from this byte-for-byte scheme is rejected upstream.
func STKPassword(shortCode, passKey, timestamp string) string {
	return base64.StdEncoding.EncodeToString([]byte(shortCode + passKey + timestamp))
}

// MpesaClient is the outbound provider client. It owns the short-lived
// access credential: a token is cached and refreshed before its advertised
// expiry, with a single writer refreshing while readers wait.
type MpesaClient struct {
	cfg     models.MpesaConfig
	client  *httppkg.Client
	breaker *circuitbreaker.CircuitBreaker
	logger  *logger.ZapLogger

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// NewMpesaClient creates a new provider client
func NewMpesaClient(cfg models.MpesaConfig, zapLogger *logger.ZapLogger) *MpesaClient {
	return &MpesaClient{
		cfg:     cfg,
		client:  httppkg.NewClient(cfg.BaseURL, time.Duration(cfg.Timeout)*time.Second),
		breaker: circuitbreaker.New(circuitbreaker.DefaultConfig("mpesa"), zapLogger),
		logger:  zapLogger,
	}
}

// AccessToken returns a valid bearer token, fetching a fresh one from the
// provider when the cached token is missing or close to expiry
func (m *MpesaClient) AccessToken(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token != "" && time.Now().Before(m.tokenExpiry.Add(-tokenRefreshMargin)) {
		return m.token, nil
	}

	token, expiresIn, err := m.fetchToken(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", payments.ErrAuthFailure, err)
	}

	m.token = token
	m.tokenExpiry = time.Now().Add(time.Duration(expiresIn) * time.Second)

	m.logger.Debug("Acquired provider access token",
		logger.Time("expires_at", m.tokenExpiry))

	return m.token, nil
}

func (m *MpesaClient) fetchToken(ctx context.Context) (string, int, error) {
	basicAuth := base64.StdEncoding.EncodeToString(
		[]byte(m.cfg.ConsumerKey + ":" + m.cfg.ConsumerSecret))

	var tokenResp models.MpesaTokenResponse

	err := m.breaker.Execute(ctx, func(ctx context.Context) error {
		return nrpkg.WithExternalSegment(ctx, "mpesa", "GET", m.cfg.BaseURL+tokenPath, func() error {
			resp, err := m.client.Get(ctx, tokenPath, map[string]string{
				"Authorization": "Basic " + basicAuth,
			})
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return &httppkg.HTTPError{StatusCode: resp.StatusCode, Message: "token request rejected"}
			}

			return json.NewDecoder(resp.Body).Decode(&tokenResp)
		})
	})
	if err != nil {
		return "", 0, err
	}

	if tokenResp.AccessToken == "" {
		return "", 0, fmt.Errorf("token response missing access_token")
	}

	expiresIn, err := strconv.Atoi(tokenResp.ExpiresIn)
	if err != nil || expiresIn <= 0 {
		expiresIn = 3600
	}

	return tokenResp.AccessToken, expiresIn, nil
}

// STKPush submits a payment request to the provider's initiate endpoint.
// The canonical request encoding (timestamp, password) is computed here.
func (m *MpesaClient) STKPush(ctx context.Context, amount int, phoneNumber, accountReference string) (*models.STKPushResponse, error) {
	token, err := m.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	timestamp := ProviderTimestamp(time.Now())
	req := &models.STKPushRequest{
		BusinessShortCode: m.cfg.ShortCode,
		Password:          STKPassword(m.cfg.ShortCode, m.cfg.PassKey, timestamp),
		Timestamp:         timestamp,
		TransactionType:   transactionType,
		Amount:            strconv.Itoa(amount),
		PartyA:            phoneNumber,
		PartyB:            m.cfg.ShortCode,
		PhoneNumber:       phoneNumber,
		CallBackURL:       m.cfg.CallbackBaseURL + "/payments/callback",
		AccountReference:  accountReference,
		TransactionDesc:   m.cfg.TransactionDesc,
	}

	var pushResp models.STKPushResponse
	var providerErr *payments.ProviderError

	err = m.breaker.Execute(ctx, func(ctx context.Context) error {
		return nrpkg.WithExternalSegment(ctx, "mpesa", "POST", m.cfg.BaseURL+stkPushPath, func() error {
			resp, err := m.client.PostJSON(ctx, stkPushPath, req, map[string]string{
				"Authorization": "Bearer " + token,
			})
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				var errResp models.MpesaErrorResponse
				if decodeErr := json.NewDecoder(resp.Body).Decode(&errResp); decodeErr != nil {
					errResp.ErrorMessage = "unreadable provider error response"
				}
				providerErr = &payments.ProviderError{
					StatusCode: resp.StatusCode,
					Response:   errResp,
				}
				// A rejection is a definitive answer, not a provider outage;
				// it must not trip the breaker.
				return nil
			}

			return json.NewDecoder(resp.Body).Decode(&pushResp)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("stk push request failed: %w", err)
	}
	if providerErr != nil {
		return nil, providerErr
	}

	if pushResp.MerchantRequestID == "" || pushResp.CheckoutRequestID == "" {
		return nil, fmt.Errorf("provider response missing request identifiers")
	}

	return &pushResp, nil
}
