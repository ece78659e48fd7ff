package monnify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	errs "github.com/amirhossein-jamali/cashely/internal/domain/error"
	coreport "github.com/amirhossein-jamali/cashely/internal/domain/port/core"
)

// API paths
const (
	loginPath           = "/api/v1/auth/login"
	bvnMatchPath        = "/api/v1/vas/bvn-details-match"
	ninDetailsPath      = "/api/v1/vas/nin-details"
	reservedAccountPath = "/api/v2/bank-transfer/reserved-accounts"
)

// tokenSkew renews the token slightly before Monnify expires it
const tokenSkew = 30 * time.Second

// maxResponseSize caps how much of a response body is read
const maxResponseSize = 1 << 20

// Config holds the Monnify credentials and account settings
type Config struct {
	BaseURL              string
	APIKey               string
	SecretKey            string
	ContractCode         string
	Timeout              time.Duration
	GetAllAvailableBanks bool
	PreferredBanks       []string
}

// Client talks to the Monnify API. It logs in with the API key and secret
// and caches the bearer token until it expires.
type Client struct {
	config       Config
	httpClient   *http.Client
	timeProvider coreport.TimeProvider
	logger       coreport.Logger

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

// NewClient creates a new Monnify client
func NewClient(config Config, timeProvider coreport.TimeProvider, logger coreport.Logger) *Client {
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// accessToken returns the cached token, logging in again when it is missing or about to expire
func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && c.timeProvider.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+loginPath, nil)
	if err != nil {
		return "", errs.NewGatewayUnavailableError("login", 0, "failed to create request", err)
	}
	req.SetBasicAuth(c.config.APIKey, c.config.SecretKey)
	req.Header.Set("Accept", "application/json")

	var login loginResponse
	if err := c.send(req, "login", &login); err != nil {
		return "", err
	}
	if login.AccessToken == "" {
		return "", errs.NewGatewayUnavailableError("login", 0, "empty access token", nil)
	}

	c.token = login.AccessToken
	c.tokenExpiry = c.timeProvider.Now().Add(time.Duration(login.ExpiresIn)*time.Second - tokenSkew)
	c.logger.Debug("Monnify access token renewed", map[string]any{
		"expires_in": login.ExpiresIn,
	})
	return c.token, nil
}

// invalidateToken drops a token the API refused
func (c *Client) invalidateToken() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
}

// do sends an authenticated JSON request and decodes the response body into target
func (c *Client) do(ctx context.Context, operation, method, path string, body, target any) error {
	token, err := c.accessToken(ctx)
	if err != nil {
		return err
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errs.NewGatewayRejectedError(operation, 0, "failed to marshal request body: "+err.Error())
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, reqBody)
	if err != nil {
		return errs.NewGatewayUnavailableError(operation, 0, "failed to create request", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return c.send(req, operation, target)
}

// send executes req and classifies the outcome: transport failures, 401,
// 429 and 5xx are unavailable; other 4xx and unsuccessful envelopes are rejected
func (c *Client) send(req *http.Request, operation string, target any) error {
	fields := map[string]any{
		"operation": operation,
		"method":    req.Method,
		"path":      req.URL.Path,
	}

	start := c.timeProvider.Now()
	resp, err := c.httpClient.Do(req)
	fields["elapsed_ms"] = c.timeProvider.Since(start).Milliseconds()
	if err != nil {
		fields["error"] = err.Error()
		c.logger.Warn("Monnify request failed", fields)
		if ctxErr := req.Context().Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
			err = fmt.Errorf("%w: %w", ctxErr, err)
		}
		return errs.NewGatewayUnavailableError(operation, 0, "request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return errs.NewGatewayUnavailableError(operation, resp.StatusCode, "failed to read response", err)
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	fields["status"] = resp.StatusCode
	fields["response_code"] = env.ResponseCode
	c.logger.Debug("Monnify response", fields)

	message := env.ResponseMessage
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		c.invalidateToken()
		return errs.NewGatewayUnavailableError(operation, resp.StatusCode, message, nil)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return errs.NewGatewayUnavailableError(operation, resp.StatusCode, message, nil)
	case resp.StatusCode >= 400:
		return errs.NewGatewayRejectedError(operation, resp.StatusCode, message)
	case decodeErr != nil:
		return errs.NewGatewayUnavailableError(operation, resp.StatusCode, "malformed response", decodeErr)
	case !env.RequestSuccessful:
		return errs.NewGatewayRejectedError(operation, resp.StatusCode, message)
	}

	if target == nil || len(env.ResponseBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.ResponseBody, target); err != nil {
		return errs.NewGatewayUnavailableError(operation, resp.StatusCode, "malformed response body", err)
	}
	return nil
}
