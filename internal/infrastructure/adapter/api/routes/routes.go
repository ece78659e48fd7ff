package routes

import (
	"context"
	"net/http"

	coreport "github.com/amirhossein-jamali/cashely/internal/domain/port/core"
	"github.com/amirhossein-jamali/cashely/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/cashely/internal/infrastructure/adapter/api/middleware"
	"github.com/gin-gonic/gin"
)

// Handlers groups the API handlers
type Handlers struct {
	User      *handler.UserHandler
	Wallet    *handler.WalletHandler
	Inventory *handler.InventoryHandler
}

// HealthCheck reports whether the backing store is reachable
type HealthCheck func(ctx context.Context) error

// SetupRoutes configures all the routes for the API
func SetupRoutes(router *gin.Engine, handlers Handlers, health HealthCheck) {
	router.GET("/health", func(c *gin.Context) {
		if health != nil {
			if err := health(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	userRoutes := router.Group("/users")
	{
		userRoutes.POST("", handlers.User.Register)
		userRoutes.POST("/:userId/provision", handlers.User.Resume)
		userRoutes.GET("/:userId/provisioning", handlers.User.Status)
		userRoutes.GET("/:userId/balance", handlers.User.GetBalance)
	}

	walletRoutes := router.Group("/wallets")
	{
		walletRoutes.POST("", handlers.Wallet.CreateWallet)
		walletRoutes.GET("/:walletId/balance", handlers.Wallet.GetBalance)
		walletRoutes.POST("/:walletId/credit", handlers.Wallet.Credit)
		walletRoutes.POST("/:walletId/debit", handlers.Wallet.Debit)
		walletRoutes.GET("/:walletId/transactions", handlers.Wallet.ListTransactions)
	}

	inventoryRoutes := router.Group("/inventory/items")
	{
		inventoryRoutes.POST("", handlers.Inventory.CreateItem)
		inventoryRoutes.GET("", handlers.Inventory.ListItems)
		inventoryRoutes.GET("/:itemId", handlers.Inventory.GetItem)
		inventoryRoutes.POST("/:itemId/batches", handlers.Inventory.AddBatch)
		inventoryRoutes.POST("/:itemId/allocations", handlers.Inventory.Allocate)
	}
}

// SetupMiddlewares configures global middlewares for the API
func SetupMiddlewares(router *gin.Engine, logger coreport.Logger, timeProvider coreport.TimeProvider) {
	// order matters: the request id must exist before anything logs
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger, timeProvider))
	router.Use(middleware.ErrorHandler(logger))
}
