package middleware

import (
	"net/http"

	domainerr "github.com/amirhossein-jamali/cashely/internal/domain/error"
	coreport "github.com/amirhossein-jamali/cashely/internal/domain/port/core"
	"github.com/amirhossein-jamali/cashely/internal/infrastructure/adapter/api/dto"
	"github.com/gin-gonic/gin"
)

// ErrorHandler recovers from panics and renders the last error a handler
// attached with c.Error
func ErrorHandler(logger coreport.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("Panic recovered in API request", map[string]any{
					"error":      err,
					"path":       c.Request.URL.Path,
					"method":     c.Request.Method,
					"client_ip":  c.ClientIP(),
					"request_id": RequestIDFrom(c),
					"user_agent": c.Request.UserAgent(),
				})

				c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{
					Code:      domainerr.ErrorCode(domainerr.ErrInternalServer),
					Message:   "Internal server error",
					RequestID: RequestIDFrom(c),
				})
			}
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status := StatusCode(err)
		fields := map[string]any{
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
			"status":     status,
			"request_id": RequestIDFrom(c),
			"error":      err.Error(),
		}
		if status >= http.StatusInternalServerError {
			logger.Error("Request failed", fields)
		} else {
			logger.Debug("Request rejected", fields)
		}

		c.JSON(status, ErrorResponse(c, err))
	}
}

// ErrorResponse builds the response body for err. Server-side failures are
// not described to the client.
func ErrorResponse(c *gin.Context, err error) dto.ErrorResponse {
	message := err.Error()
	if code := domainerr.ErrorCode(err); code == domainerr.CodeInternalServer || code == domainerr.CodeDatabaseConnection {
		message = "Internal server error"
	}
	return dto.ErrorResponse{
		Code:      domainerr.ErrorCode(err),
		Message:   message,
		RequestID: RequestIDFrom(c),
	}
}

// StatusCode maps a domain error to its HTTP status
func StatusCode(err error) int {
	switch domainerr.ErrorCode(err) {
	case domainerr.CodeInvalidAmount,
		domainerr.CodeAmountOverflow,
		domainerr.CodeInvalidQuantity,
		domainerr.CodeInvalidCurrency,
		domainerr.CodeInvalidKind,
		domainerr.CodeWeakPassword,
		domainerr.CodeInvalidRequest:
		return http.StatusBadRequest
	case domainerr.CodeInvalidCredentials:
		return http.StatusUnauthorized
	case domainerr.CodeUserNotFound,
		domainerr.CodeWalletNotFound,
		domainerr.CodeUnknownItem,
		domainerr.CodeVirtualAccountMissing,
		domainerr.CodeNotFound:
		return http.StatusNotFound
	case domainerr.CodeDuplicateUser,
		domainerr.CodeDuplicateWallet,
		domainerr.CodeDuplicateReference,
		domainerr.CodeConstraintViolation:
		return http.StatusConflict
	case domainerr.CodeInsufficientFunds,
		domainerr.CodeInsufficientStock,
		domainerr.CodeGatewayRejected:
		return http.StatusUnprocessableEntity
	case domainerr.CodeGatewayUnavailable,
		domainerr.CodeDatabaseConnection:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
