package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerr "github.com/amirhossein-jamali/cashely/internal/domain/error"
	"github.com/amirhossein-jamali/cashely/internal/infrastructure/adapter/api/dto"
	"github.com/amirhossein-jamali/cashely/internal/infrastructure/adapter/logger"
	timeprovider "github.com/amirhossein-jamali/cashely/internal/infrastructure/adapter/time"
)

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logger.NewNoopLogger()
	router := gin.New()
	router.Use(RequestID(), Logger(log, timeprovider.NewRealTimeProvider()), ErrorHandler(log))
	return router
}

func serve(router *gin.Engine, path, requestID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if requestID != "" {
		req.Header.Set(RequestIDHeader, requestID)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestErrorHandler(t *testing.T) {
	router := newEngine()
	router.GET("/panic", func(c *gin.Context) { panic("boom") })
	router.GET("/funds", func(c *gin.Context) {
		_ = c.Error(domainerr.NewInsufficientFundsError("w-1", "1.50", "1.00"))
	})
	router.GET("/internal", func(c *gin.Context) {
		_ = c.Error(fmt.Errorf("%w: connection refused on 10.0.0.3", domainerr.ErrDatabaseConnection))
	})

	t.Run("Panic becomes 500", func(t *testing.T) {
		w := serve(router, "/panic", "req-1")

		require.Equal(t, http.StatusInternalServerError, w.Code)
		var body dto.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, domainerr.CodeInternalServer, body.Code)
		assert.Equal(t, "req-1", body.RequestID)
	})

	t.Run("Domain error is rendered", func(t *testing.T) {
		w := serve(router, "/funds", "")

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		var body dto.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, domainerr.CodeInsufficientFunds, body.Code)
		assert.Contains(t, body.Message, "insufficient funds")
		assert.Equal(t, w.Header().Get(RequestIDHeader), body.RequestID)
	})

	t.Run("Server failures are not described", func(t *testing.T) {
		w := serve(router, "/internal", "")

		require.Equal(t, http.StatusServiceUnavailable, w.Code)
		var body dto.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "Internal server error", body.Message)
	})
}

func TestRequestID(t *testing.T) {
	router := newEngine()
	router.GET("/id", func(c *gin.Context) {
		c.String(http.StatusOK, logger.RequestIDFromContext(c.Request.Context()))
	})

	w := serve(router, "/id", "caller-id")
	assert.Equal(t, "caller-id", w.Header().Get(RequestIDHeader))
	assert.Equal(t, "caller-id", w.Body.String())

	w = serve(router, "/id", "")
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	assert.Equal(t, w.Header().Get(RequestIDHeader), w.Body.String())
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		err      error
		expected int
	}{
		{domainerr.ErrInvalidAmount, http.StatusBadRequest},
		{domainerr.ErrWeakPassword, http.StatusBadRequest},
		{domainerr.ErrInvalidCredentials, http.StatusUnauthorized},
		{domainerr.ErrWalletNotFound, http.StatusNotFound},
		{domainerr.ErrUnknownItem, http.StatusNotFound},
		{domainerr.ErrDuplicateReference, http.StatusConflict},
		{domainerr.ErrDuplicateUser, http.StatusConflict},
		{domainerr.NewInsufficientStockError("item", 30, 19), http.StatusUnprocessableEntity},
		{domainerr.NewGatewayRejectedError("verify identity", 400, "no match"), http.StatusUnprocessableEntity},
		{domainerr.NewGatewayUnavailableError("reserve account", 0, "timed out", nil), http.StatusServiceUnavailable},
		{errors.New("unexpected"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.expected, StatusCode(tt.err))
		})
	}
}
