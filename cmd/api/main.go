package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	coreport "github.com/amirhossein-jamali/cashely/internal/domain/port/core"
	"github.com/amirhossein-jamali/cashely/internal/domain/port/gateway"
	inventoryUseCase "github.com/amirhossein-jamali/cashely/internal/domain/usecase/inventory"
	provisioningUseCase "github.com/amirhossein-jamali/cashely/internal/domain/usecase/provisioning"
	"github.com/amirhossein-jamali/cashely/internal/domain/usecase/serial"
	userUseCase "github.com/amirhossein-jamali/cashely/internal/domain/usecase/user"
	walletUseCase "github.com/amirhossein-jamali/cashely/internal/domain/usecase/wallet"

	"github.com/amirhossein-jamali/cashely/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/cashely/internal/infrastructure/adapter/api/routes"
	"github.com/amirhossein-jamali/cashely/internal/infrastructure/adapter/database"
	"github.com/amirhossein-jamali/cashely/internal/infrastructure/adapter/gateway/monnify"
	"github.com/amirhossein-jamali/cashely/internal/infrastructure/adapter/gateway/sandbox"
	"github.com/amirhossein-jamali/cashely/internal/infrastructure/adapter/idgen"
	"github.com/amirhossein-jamali/cashely/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/cashely/internal/infrastructure/adapter/repository"
	"github.com/amirhossein-jamali/cashely/internal/infrastructure/adapter/security"
	timeProvider "github.com/amirhossein-jamali/cashely/internal/infrastructure/adapter/time"
	"github.com/amirhossein-jamali/cashely/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
)

// Gateway drivers
const (
	gatewayMonnify = "monnify"
	gatewaySandbox = "sandbox"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := validateConfig(cfg); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	appLogger, err := logger.NewZapLogger(logger.Options{
		Production: cfg.Environment == config.Production || cfg.Logger.Format == "json",
		Level:      cfg.Logger.Level,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = appLogger.Flush() }()

	tp := timeProvider.NewRealTimeProvider()

	// Connect and migrate
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), time.Minute)
	dbManager := database.NewManager(database.NewConfig(cfg.Database, cfg.Logger.Level), appLogger, tp)
	if _, err := dbManager.Connect(startupCtx); err != nil {
		appLogger.Error("Failed to connect to database", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	defer func() { _ = dbManager.Close() }()

	if err := dbManager.Migrate(startupCtx); err != nil {
		appLogger.Error("Failed to run migrations", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	cancelStartup()

	// Repositories
	db := dbManager.DB()
	userRepo := repository.NewUserRepository(db, appLogger)
	walletRepo := repository.NewWalletRepository(db, appLogger)
	ledgerRepo := repository.NewLedgerRepository(db, appLogger)
	virtualAccountRepo := repository.NewVirtualAccountRepository(db, appLogger)

	// Per-wallet and per-item serializer
	executor := serial.NewExecutor(appLogger,
		serial.WithQueueSize(cfg.Ledger.QueueSize),
		serial.WithIdleTimeout(cfg.Ledger.WorkerIdleTime),
	)

	idGenerator := idgen.NewUUIDGenerator()

	// Use cases
	users := userUseCase.NewUserUseCase(
		userRepo,
		security.NewBcryptHasher(cfg.Security.BcryptCost),
		idGenerator,
		tp,
		appLogger,
	)
	wallets := walletUseCase.NewWalletUseCase(
		walletRepo,
		userRepo,
		ledgerRepo,
		executor,
		idGenerator,
		tp,
		appLogger,
		cfg.Ledger.DefaultCurrency,
	)
	provisioning := provisioningUseCase.NewProvisioningUseCase(
		users,
		wallets,
		virtualAccountRepo,
		newIdentityGateway(cfg.Gateway, tp, appLogger),
		executor,
		idGenerator,
		tp,
		appLogger,
		provisioningUseCase.Options{
			VerifyIdentity: cfg.Gateway.VerifyIdentity,
			GatewayTimeout: cfg.Gateway.Timeout,
			Currency:       cfg.Ledger.DefaultCurrency,
		},
	)
	inventory := inventoryUseCase.NewInventoryUseCase(
		dbManager.CreateUnitOfWork(),
		executor,
		idGenerator,
		tp,
		appLogger,
	)

	// HTTP
	router := gin.New()
	routes.SetupMiddlewares(router, appLogger, tp)
	routes.SetupRoutes(router, routes.Handlers{
		User:      handler.NewUserHandler(provisioning, wallets, appLogger),
		Wallet:    handler.NewWalletHandler(wallets, appLogger),
		Inventory: handler.NewInventoryHandler(inventory, appLogger),
	}, dbManager.Ping)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	go func() {
		appLogger.Info("Starting server", map[string]any{
			"addr":    server.Addr,
			"env":     cfg.Environment,
			"gateway": cfg.Gateway.Driver,
		})

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("Failed to start server", map[string]any{
				"error": err.Error(),
			})
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// stop accepting requests before draining the queues they feed
	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", map[string]any{
			"error": err.Error(),
		})
	}

	if err := executor.Shutdown(ctx); err != nil {
		appLogger.Error("Serializer did not drain", map[string]any{
			"error": err.Error(),
		})
	}

	appLogger.Info("Server exited gracefully", nil)
}

// newIdentityGateway selects the gateway adapter named by configuration
func newIdentityGateway(cfg config.GatewayConfig, tp coreport.TimeProvider, appLogger coreport.Logger) gateway.IdentityGateway {
	if strings.EqualFold(cfg.Driver, gatewaySandbox) {
		return sandbox.NewGateway(appLogger)
	}
	return monnify.NewClient(monnify.Config{
		BaseURL:              cfg.BaseURL,
		APIKey:               cfg.APIKey,
		SecretKey:            cfg.SecretKey,
		ContractCode:         cfg.ContractCode,
		Timeout:              cfg.Timeout,
		GetAllAvailableBanks: cfg.GetAllAvailableBanks,
		PreferredBanks:       cfg.PreferredBanks,
	}, tp, appLogger)
}

// validateConfig ensures all required configuration values are present
func validateConfig(cfg *config.Config) error {
	var missingConfigs []string

	if cfg.Server.Port == 0 {
		missingConfigs = append(missingConfigs, "server.port")
	}
	if cfg.Server.ReadTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.readTimeout")
	}
	if cfg.Server.WriteTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.writeTimeout")
	}
	if cfg.Server.ShutdownTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.shutdownTimeout")
	}

	// Database: sqlite needs only a path
	if strings.EqualFold(cfg.Database.Driver, database.DriverSQLite) {
		if cfg.Database.Database == "" {
			missingConfigs = append(missingConfigs, "database.database (sqlite file path)")
		}
	} else {
		required := []struct {
			value, key, env string
		}{
			{cfg.Database.Host, "database.host", "CASHELY_DB_HOST"},
			{cfg.Database.Port, "database.port", "CASHELY_DB_PORT"},
			{cfg.Database.Username, "database.username", "CASHELY_DB_USERNAME"},
			{cfg.Database.Password, "database.password", "CASHELY_DB_PASSWORD"},
			{cfg.Database.Database, "database.database", "CASHELY_DB_NAME"},
		}
		for _, r := range required {
			if r.value == "" {
				missingConfigs = append(missingConfigs, fmt.Sprintf("%s (or %s environment variable)", r.key, r.env))
			}
		}
	}
	if cfg.Database.QueryTimeout == 0 {
		missingConfigs = append(missingConfigs, "database.queryTimeout")
	}

	// Ledger serializer
	if cfg.Ledger.QueueSize <= 0 {
		missingConfigs = append(missingConfigs, "ledger.queueSize")
	}
	if cfg.Ledger.WorkerIdleTime == 0 {
		missingConfigs = append(missingConfigs, "ledger.workerIdleTime")
	}

	// Gateway
	switch strings.ToLower(cfg.Gateway.Driver) {
	case gatewaySandbox:
	case gatewayMonnify:
		if cfg.Gateway.BaseURL == "" {
			missingConfigs = append(missingConfigs, "gateway.baseUrl (or CASHELY_MONNIFY_BASE_URL environment variable)")
		}
		if cfg.Gateway.APIKey == "" {
			missingConfigs = append(missingConfigs, "gateway.apiKey (or CASHELY_MONNIFY_API_KEY environment variable)")
		}
		if cfg.Gateway.SecretKey == "" {
			missingConfigs = append(missingConfigs, "gateway.secretKey (or CASHELY_MONNIFY_SECRET_KEY environment variable)")
		}
		if cfg.Gateway.ContractCode == "" {
			missingConfigs = append(missingConfigs, "gateway.contractCode (or CASHELY_MONNIFY_CONTRACT_CODE environment variable)")
		}
	default:
		return fmt.Errorf("invalid gateway driver: %s, must be one of: %s, %s",
			cfg.Gateway.Driver, gatewayMonnify, gatewaySandbox)
	}
	if cfg.Gateway.Timeout == 0 {
		missingConfigs = append(missingConfigs, "gateway.timeout")
	}

	if cfg.Environment == "" {
		missingConfigs = append(missingConfigs, "environment")
	} else if cfg.Environment != config.Development &&
		cfg.Environment != config.Production &&
		cfg.Environment != config.Test {
		return fmt.Errorf("invalid environment value: %s, must be one of: %s, %s, or %s",
			cfg.Environment, config.Development, config.Production, config.Test)
	}

	if cfg.Logger.Level == "" {
		missingConfigs = append(missingConfigs, "logger.level")
	}

	if len(missingConfigs) > 0 {
		return fmt.Errorf("missing required configurations: %v", missingConfigs)
	}

	if cfg.Environment == config.Production {
		var warnings []string

		sslMode := strings.ToLower(cfg.Database.SSLMode)
		if !strings.EqualFold(cfg.Database.Driver, database.DriverSQLite) &&
			sslMode != "require" && sslMode != "verify-ca" && sslMode != "verify-full" {
			warnings = append(warnings, "database.sslMode should be set to 'require', 'verify-ca', or 'verify-full' in production")
		}
		if strings.EqualFold(cfg.Gateway.Driver, gatewaySandbox) {
			warnings = append(warnings, "gateway.driver is sandbox in production")
		}
		if cfg.Server.ReadTimeout < 5*time.Second {
			warnings = append(warnings, "server.readTimeout is too low for production")
		}
		if cfg.Server.WriteTimeout < cfg.Gateway.Timeout {
			warnings = append(warnings, "server.writeTimeout is shorter than gateway.timeout")
		}

		if len(warnings) > 0 {
			log.Printf("Warning: potential issues in production configuration: %v", warnings)
		}
	}

	return nil
}
