package monnify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/amirhossein-jamali/cashely/internal/domain/error"
	"github.com/amirhossein-jamali/cashely/internal/domain/port/gateway"
	"github.com/amirhossein-jamali/cashely/internal/infrastructure/adapter/logger"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Since(t time.Time) time.Duration { return c.Now().Sub(t) }

func (c *clock) WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout)
}

func (c *clock) advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type fakeMonnify struct {
	logins   atomic.Int32
	handlers map[string]http.HandlerFunc
}

func writeEnvelope(w http.ResponseWriter, status int, successful bool, message string, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"requestSuccessful": successful,
		"responseMessage":   message,
		"responseCode":      "0",
		"responseBody":      body,
	})
}

func reservedAccountBody(reference string) map[string]any {
	return map[string]any{
		"accountReference":     reference,
		"reservationReference": "RES-" + reference,
		"status":               "ACTIVE",
		"accounts": []map[string]any{{
			"bankCode":      "50515",
			"bankName":      "Moniepoint Microfinance Bank",
			"accountNumber": "6001234567",
		}},
	}
}

func newTestClient(t *testing.T, handlers map[string]http.HandlerFunc) (*Client, *fakeMonnify, *clock) {
	t.Helper()
	fake := &fakeMonnify{handlers: handlers}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == loginPath {
			user, pass, ok := r.BasicAuth()
			if !ok || user != "MK_TEST" || pass != "SECRET" {
				writeEnvelope(w, http.StatusUnauthorized, false, "invalid credentials", nil)
				return
			}
			n := fake.logins.Add(1)
			writeEnvelope(w, http.StatusOK, true, "success", map[string]any{
				"accessToken": "token-" + string(rune('0'+n)),
				"expiresIn":   3600,
			})
			return
		}

		handler, ok := fake.handlers[r.Method+" "+r.URL.Path]
		if !ok {
			writeEnvelope(w, http.StatusNotFound, false, "not found", nil)
			return
		}
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	tp := &clock{now: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
	client := NewClient(Config{
		BaseURL:              server.URL + "/",
		APIKey:               "MK_TEST",
		SecretKey:            "SECRET",
		ContractCode:         "7059707855",
		Timeout:              2 * time.Second,
		GetAllAvailableBanks: true,
		PreferredBanks:       []string{"50515"},
	}, tp, logger.NewNoopLogger())

	return client, fake, tp
}

func accountRequest(reference string) gateway.VirtualAccountRequest {
	return gateway.VirtualAccountRequest{
		IdempotencyKey: reference,
		AccountName:    "Ada Obi",
		CustomerName:   "Ada Obi",
		CustomerEmail:  "ada@example.com",
		BVN:            "22212345678",
		CurrencyCode:   "NGN",
	}
}

func TestProvisionVirtualAccount(t *testing.T) {
	var received reserveAccountRequest
	var authHeader string

	client, fake, _ := newTestClient(t, map[string]http.HandlerFunc{
		"POST " + reservedAccountPath: func(w http.ResponseWriter, r *http.Request) {
			authHeader = r.Header.Get("Authorization")
			require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
			writeEnvelope(w, http.StatusOK, true, "success", reservedAccountBody(received.AccountReference))
		},
	})

	account, err := client.ProvisionVirtualAccount(context.Background(), accountRequest("cashely-wallet-1"))

	require.NoError(t, err)
	assert.Equal(t, "6001234567", account.AccountNumber)
	assert.Equal(t, "50515", account.BankCode)
	assert.Equal(t, "Moniepoint Microfinance Bank", account.BankName)
	assert.Equal(t, "RES-cashely-wallet-1", account.ReservationReference)

	assert.Equal(t, "Bearer token-1", authHeader)
	assert.Equal(t, "cashely-wallet-1", received.AccountReference)
	assert.Equal(t, "7059707855", received.ContractCode)
	assert.Equal(t, "NGN", received.CurrencyCode)
	assert.True(t, received.GetAllAvailableBanks)
	assert.Equal(t, []string{"50515"}, received.PreferredBanks)
	assert.Equal(t, int32(1), fake.logins.Load())
}

func TestAccessTokenIsCachedUntilExpiry(t *testing.T) {
	client, fake, tp := newTestClient(t, map[string]http.HandlerFunc{
		"POST " + reservedAccountPath: func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, http.StatusOK, true, "success", reservedAccountBody("ref"))
		},
	})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := client.ProvisionVirtualAccount(ctx, accountRequest("ref"))
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), fake.logins.Load())

	tp.advance(time.Hour)

	_, err := client.ProvisionVirtualAccount(ctx, accountRequest("ref"))
	require.NoError(t, err)
	assert.Equal(t, int32(2), fake.logins.Load())
}

func TestProvisionVirtualAccountErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("Server error is retryable", func(t *testing.T) {
		client, _, _ := newTestClient(t, map[string]http.HandlerFunc{
			"POST " + reservedAccountPath: func(w http.ResponseWriter, r *http.Request) {
				writeEnvelope(w, http.StatusBadGateway, false, "upstream error", nil)
			},
		})

		_, err := client.ProvisionVirtualAccount(ctx, accountRequest("ref"))

		assert.ErrorIs(t, err, errs.ErrGatewayUnavailable)
		assert.True(t, errs.IsRetryable(err))
	})

	t.Run("Unauthorized drops the cached token", func(t *testing.T) {
		client, fake, _ := newTestClient(t, map[string]http.HandlerFunc{
			"POST " + reservedAccountPath: func(w http.ResponseWriter, r *http.Request) {
				writeEnvelope(w, http.StatusUnauthorized, false, "token expired", nil)
			},
		})

		_, err := client.ProvisionVirtualAccount(ctx, accountRequest("ref"))
		assert.ErrorIs(t, err, errs.ErrGatewayUnavailable)

		_, err = client.ProvisionVirtualAccount(ctx, accountRequest("ref"))
		assert.ErrorIs(t, err, errs.ErrGatewayUnavailable)
		assert.Equal(t, int32(2), fake.logins.Load())
	})

	t.Run("Unsuccessful envelope is rejected", func(t *testing.T) {
		client, _, _ := newTestClient(t, map[string]http.HandlerFunc{
			"POST " + reservedAccountPath: func(w http.ResponseWriter, r *http.Request) {
				writeEnvelope(w, http.StatusOK, false, "invalid contract code", nil)
			},
		})

		_, err := client.ProvisionVirtualAccount(ctx, accountRequest("ref"))

		assert.ErrorIs(t, err, errs.ErrGatewayRejected)
		assert.False(t, errs.IsRetryable(err))
	})

	t.Run("Response without accounts is rejected", func(t *testing.T) {
		client, _, _ := newTestClient(t, map[string]http.HandlerFunc{
			"POST " + reservedAccountPath: func(w http.ResponseWriter, r *http.Request) {
				writeEnvelope(w, http.StatusOK, true, "success", map[string]any{"accountReference": "ref"})
			},
		})

		_, err := client.ProvisionVirtualAccount(ctx, accountRequest("ref"))
		assert.ErrorIs(t, err, errs.ErrGatewayRejected)
	})

	t.Run("Timeout is retryable", func(t *testing.T) {
		client, _, _ := newTestClient(t, map[string]http.HandlerFunc{
			"POST " + reservedAccountPath: func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-r.Context().Done():
				case <-time.After(time.Second):
				}
			},
		})

		callCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
		defer cancel()

		_, err := client.ProvisionVirtualAccount(callCtx, accountRequest("ref"))

		assert.ErrorIs(t, err, errs.ErrGatewayUnavailable)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestProvisionVirtualAccountReusesExistingReservation(t *testing.T) {
	ctx := context.Background()

	t.Run("Existing reservation is returned", func(t *testing.T) {
		client, _, _ := newTestClient(t, map[string]http.HandlerFunc{
			"POST " + reservedAccountPath: func(w http.ResponseWriter, r *http.Request) {
				writeEnvelope(w, http.StatusUnprocessableEntity, false,
					"There is an existing reserved account with the same reference", nil)
			},
			"GET " + reservedAccountPath + "/cashely-wallet-9": func(w http.ResponseWriter, r *http.Request) {
				writeEnvelope(w, http.StatusOK, true, "success", reservedAccountBody("cashely-wallet-9"))
			},
		})

		account, err := client.ProvisionVirtualAccount(ctx, accountRequest("cashely-wallet-9"))

		require.NoError(t, err)
		assert.Equal(t, "6001234567", account.AccountNumber)
		assert.Equal(t, "RES-cashely-wallet-9", account.ReservationReference)
	})

	t.Run("Rejection stands when nothing was reserved", func(t *testing.T) {
		client, _, _ := newTestClient(t, map[string]http.HandlerFunc{
			"POST " + reservedAccountPath: func(w http.ResponseWriter, r *http.Request) {
				writeEnvelope(w, http.StatusBadRequest, false, "invalid BVN", nil)
			},
		})

		_, err := client.ProvisionVirtualAccount(ctx, accountRequest("cashely-wallet-9"))

		assert.ErrorIs(t, err, errs.ErrGatewayRejected)
		assert.Contains(t, err.Error(), "invalid BVN")
	})
}

func TestVerifyIdentity(t *testing.T) {
	check := gateway.IdentityCheck{
		BVN:          "22212345678",
		NIN:          "12345678901",
		FullName:     "Ada Obi",
		MobileNumber: "08012345678",
		DateOfBirth:  time.Date(1993, 10, 3, 0, 0, 0, 0, time.UTC),
	}

	bvnHandler := func(nameStatus string, percentage float64, dob string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			var req bvnMatchRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "03-Oct-1993", req.DateOfBirth)
			assert.Equal(t, "08012345678", req.MobileNo)
			writeEnvelope(w, http.StatusOK, true, "success", map[string]any{
				"bvn":         req.BVN,
				"name":        map[string]any{"matchStatus": nameStatus, "matchPercentage": percentage},
				"dateOfBirth": dob,
				"mobileNo":    matchFull,
			})
		}
	}
	ninHandler := func(lastName string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			var req ninRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			writeEnvelope(w, http.StatusOK, true, "success", map[string]any{
				"nin":       req.NIN,
				"firstName": "ADA",
				"lastName":  lastName,
			})
		}
	}

	tests := []struct {
		name     string
		bvn      http.HandlerFunc
		nin      http.HandlerFunc
		expected bool
	}{
		{"Full match", bvnHandler(matchFull, 100, matchFull), ninHandler("OBI"), true},
		{"Partial name above threshold", bvnHandler(matchPartial, 80, matchFull), ninHandler("OBI"), true},
		{"Partial name below threshold", bvnHandler(matchPartial, 50, matchFull), ninHandler("OBI"), false},
		{"Date of birth mismatch", bvnHandler(matchFull, 100, "NO_MATCH"), ninHandler("OBI"), false},
		{"NIN belongs to someone else", bvnHandler(matchFull, 100, matchFull), ninHandler("EZE"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _, _ := newTestClient(t, map[string]http.HandlerFunc{
				"POST " + bvnMatchPath:   tt.bvn,
				"POST " + ninDetailsPath: tt.nin,
			})

			matched, err := client.VerifyIdentity(context.Background(), check)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, matched)
		})
	}

	t.Run("Unknown BVN is rejected", func(t *testing.T) {
		client, _, _ := newTestClient(t, map[string]http.HandlerFunc{
			"POST " + bvnMatchPath: func(w http.ResponseWriter, r *http.Request) {
				writeEnvelope(w, http.StatusBadRequest, false, "BVN not found", nil)
			},
		})

		_, err := client.VerifyIdentity(context.Background(), check)
		assert.ErrorIs(t, err, errs.ErrGatewayRejected)
	})
}
