package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment constants
const (
	Development = "development"
	Production  = "production"
	Test        = "test"
)

// EnvPrefix prefixes every environment variable read by the loader
const EnvPrefix = "CASHELY"

// ConfigPaths defines the paths to look for config files
var ConfigPaths = []string{
	"./configs",
	"../configs",
	"../../configs",
}

// DotEnvPaths defines the paths to look for .env files
var DotEnvPaths = []string{
	".env",
	"../.env",
	"../../.env",
	"./configs/.env",
}

// envBindings maps short, conventional variable names onto config keys.
// Every other key is reachable as CASHELY_<SECTION>_<KEY>.
var envBindings = map[string]string{
	"database.host":        "CASHELY_DB_HOST",
	"database.port":        "CASHELY_DB_PORT",
	"database.username":    "CASHELY_DB_USERNAME",
	"database.password":    "CASHELY_DB_PASSWORD",
	"database.database":    "CASHELY_DB_NAME",
	"database.sslMode":     "CASHELY_DB_SSL_MODE",
	"database.driver":      "CASHELY_DB_DRIVER",
	"gateway.apiKey":       "CASHELY_MONNIFY_API_KEY",
	"gateway.secretKey":    "CASHELY_MONNIFY_SECRET_KEY",
	"gateway.contractCode": "CASHELY_MONNIFY_CONTRACT_CODE",
	"gateway.baseUrl":      "CASHELY_MONNIFY_BASE_URL",
}

// LoadConfig loads configuration for the environment named by CASHELY_ENV.
// The YAML file is optional; defaults and environment variables are enough
// to run.
func LoadConfig() (*Config, error) {
	// .env is a convenience for local runs; its absence is not an error
	_ = loadDotEnvFile()

	env := getEnvironment()

	v := viper.New()
	v.SetConfigName(env)
	v.SetConfigType("yaml")
	for _, path := range ConfigPaths {
		v.AddConfigPath(path)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, envVar := range envBindings {
		if err := v.BindEnv(key, envVar); err != nil {
			return nil, fmt.Errorf("bind %s: %w", envVar, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	config.Environment = env
	processDurations(&config)

	return &config, nil
}

// loadDotEnvFile loads the first .env file found in the search paths
func loadDotEnvFile() error {
	for _, path := range DotEnvPaths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("could not load %s: %w", path, err)
		}
		return nil
	}
	return errors.New("no .env file found in search paths")
}

// setDefaults sets default values for non-critical configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.readTimeout", 15)       // seconds
	v.SetDefault("server.writeTimeout", 30)      // seconds, covers a gateway round trip
	v.SetDefault("server.idleTimeout", 60)       // seconds
	v.SetDefault("server.readHeaderTimeout", 10) // seconds
	v.SetDefault("server.shutdownTimeout", 10)   // seconds

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.maxOpenConns", 50)
	v.SetDefault("database.maxIdleConns", 25)
	v.SetDefault("database.connMaxLifetime", 30) // minutes
	v.SetDefault("database.connMaxIdleTime", 15) // minutes
	v.SetDefault("database.queryTimeout", 5)     // seconds
	v.SetDefault("database.slowThreshold", 200)  // milliseconds
	v.SetDefault("database.retryAttempts", 3)
	v.SetDefault("database.retryDelay", 1) // seconds

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")

	v.SetDefault("ledger.queueSize", 100)
	v.SetDefault("ledger.workerIdleTime", 60) // seconds
	v.SetDefault("ledger.defaultCurrency", "NGN")

	v.SetDefault("gateway.driver", "monnify")
	v.SetDefault("gateway.baseUrl", "https://sandbox.monnify.com")
	v.SetDefault("gateway.timeout", 15) // seconds
	v.SetDefault("gateway.verifyIdentity", true)
	v.SetDefault("gateway.getAllAvailableBanks", true)
	v.SetDefault("gateway.preferredBanks", []string{"50515"})

	v.SetDefault("security.bcryptCost", 12)
}

// getEnvironment determines the environment from CASHELY_ENV
func getEnvironment() string {
	env := os.Getenv(EnvPrefix + "_ENV")
	if env == "" {
		env = Development
	}
	return strings.ToLower(env)
}

// processDurations converts the integer values read from config into durations
func processDurations(config *Config) {
	config.Server.ReadTimeout = config.Server.ReadTimeout * time.Second
	config.Server.WriteTimeout = config.Server.WriteTimeout * time.Second
	config.Server.IdleTimeout = config.Server.IdleTimeout * time.Second
	config.Server.ReadHeaderTimeout = config.Server.ReadHeaderTimeout * time.Second
	config.Server.ShutdownTimeout = config.Server.ShutdownTimeout * time.Second

	config.Database.ConnMaxLifetime = config.Database.ConnMaxLifetime * time.Minute
	config.Database.ConnMaxIdleTime = config.Database.ConnMaxIdleTime * time.Minute
	config.Database.QueryTimeout = config.Database.QueryTimeout * time.Second
	config.Database.SlowThreshold = config.Database.SlowThreshold * time.Millisecond
	config.Database.RetryDelay = config.Database.RetryDelay * time.Second

	config.Ledger.WorkerIdleTime = config.Ledger.WorkerIdleTime * time.Second
	config.Gateway.Timeout = config.Gateway.Timeout * time.Second
}
