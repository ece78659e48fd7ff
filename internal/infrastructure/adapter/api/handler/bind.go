package handler

import (
	"fmt"

	domainerr "github.com/amirhossein-jamali/cashely/internal/domain/error"
	"github.com/gin-gonic/gin"
)

// bindJSON decodes the body into req, attaching an invalid request error on failure
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		_ = c.Error(fmt.Errorf("%w: %s", domainerr.ErrInvalidRequest, err.Error()))
		return false
	}
	return true
}
