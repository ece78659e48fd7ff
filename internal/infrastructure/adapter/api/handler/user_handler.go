package handler

import (
	"net/http"

	"github.com/amirhossein-jamali/cashely/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/cashely/internal/domain/port/core"
	"github.com/amirhossein-jamali/cashely/internal/domain/port/usecase"
	"github.com/amirhossein-jamali/cashely/internal/infrastructure/adapter/api/dto"
	"github.com/amirhossein-jamali/cashely/internal/infrastructure/adapter/api/middleware"
	"github.com/gin-gonic/gin"
)

// UserHandler handles registration and provisioning requests
type UserHandler struct {
	provisioning usecase.ProvisioningUseCase
	wallets      usecase.WalletUseCase
	logger       coreport.Logger
}

// NewUserHandler creates a new user handler instance
func NewUserHandler(
	provisioning usecase.ProvisioningUseCase,
	wallets usecase.WalletUseCase,
	logger coreport.Logger,
) *UserHandler {
	return &UserHandler{
		provisioning: provisioning,
		wallets:      wallets,
		logger:       logger,
	}
}

// Register handles POST /users
func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	reg, err := req.ToRegistration()
	if err != nil {
		_ = c.Error(err)
		return
	}

	result, err := h.provisioning.Provision(c.Request.Context(), reg)
	h.respondProvisioning(c, http.StatusCreated, result, err)
}

// Resume handles POST /users/:userId/provision
func (h *UserHandler) Resume(c *gin.Context) {
	result, err := h.provisioning.Resume(c.Request.Context(), c.Param("userId"))
	h.respondProvisioning(c, http.StatusOK, result, err)
}

// Status handles GET /users/:userId/provisioning
func (h *UserHandler) Status(c *gin.Context) {
	result, err := h.provisioning.Status(c.Request.Context(), c.Param("userId"))
	h.respondProvisioning(c, http.StatusOK, result, err)
}

// GetBalance handles GET /users/:userId/balance. The key may be a user id,
// an email or a mobile number.
func (h *UserHandler) GetBalance(c *gin.Context) {
	balance, err := h.wallets.GetBalance(c.Request.Context(), c.Param("userId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewBalanceResponse(balance))
}

// respondProvisioning reports partial progress alongside the error when the
// workflow got past registration
func (h *UserHandler) respondProvisioning(c *gin.Context, status int, result *entity.ProvisioningResult, err error) {
	if err == nil {
		c.JSON(status, dto.NewProvisioningResponse(result))
		return
	}
	if result == nil || result.User == nil {
		_ = c.Error(err)
		return
	}

	h.logger.Warn("Provisioning incomplete", map[string]any{
		"user_id":    result.User.ID,
		"state":      result.State,
		"error":      err.Error(),
		"request_id": middleware.RequestIDFrom(c),
	})

	resp := dto.NewProvisioningResponse(result)
	errResp := middleware.ErrorResponse(c, err)
	resp.Error = &errResp
	c.JSON(middleware.StatusCode(err), resp)
}
