package config

import "time"

// Config holds all configuration for the application
type Config struct {
	Environment string         `mapstructure:"environment"`
	Server      ServerConfig   `mapstructure:"server"`
	Database    DatabaseConfig `mapstructure:"database"`
	Logger      LoggerConfig   `mapstructure:"logger"`
	Ledger      LedgerConfig   `mapstructure:"ledger"`
	Gateway     GatewayConfig  `mapstructure:"gateway"`
	Security    SecurityConfig `mapstructure:"security"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	ReadTimeout       time.Duration `mapstructure:"readTimeout"`       // seconds
	WriteTimeout      time.Duration `mapstructure:"writeTimeout"`      // seconds
	IdleTimeout       time.Duration `mapstructure:"idleTimeout"`       // seconds
	ReadHeaderTimeout time.Duration `mapstructure:"readHeaderTimeout"` // seconds
	ShutdownTimeout   time.Duration `mapstructure:"shutdownTimeout"`   // seconds
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // postgres or sqlite
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"` // database name, or file path for sqlite
	SSLMode         string        `mapstructure:"sslMode"`
	MaxOpenConns    int           `mapstructure:"maxOpenConns"`
	MaxIdleConns    int           `mapstructure:"maxIdleConns"`
	ConnMaxLifetime time.Duration `mapstructure:"connMaxLifetime"` // minutes
	ConnMaxIdleTime time.Duration `mapstructure:"connMaxIdleTime"` // minutes
	QueryTimeout    time.Duration `mapstructure:"queryTimeout"`    // seconds
	SlowThreshold   time.Duration `mapstructure:"slowThreshold"`   // milliseconds
	RetryAttempts   int           `mapstructure:"retryAttempts"`
	RetryDelay      time.Duration `mapstructure:"retryDelay"` // seconds
}

// LoggerConfig contains logger settings
type LoggerConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
}

// LedgerConfig tunes the per-wallet and per-item serializer
type LedgerConfig struct {
	QueueSize       int           `mapstructure:"queueSize"`
	WorkerIdleTime  time.Duration `mapstructure:"workerIdleTime"` // seconds
	DefaultCurrency string        `mapstructure:"defaultCurrency"`
}

// GatewayConfig configures the identity and account gateway
type GatewayConfig struct {
	Driver               string        `mapstructure:"driver"` // monnify or sandbox
	BaseURL              string        `mapstructure:"baseUrl"`
	APIKey               string        `mapstructure:"apiKey"`
	SecretKey            string        `mapstructure:"secretKey"`
	ContractCode         string        `mapstructure:"contractCode"`
	Timeout              time.Duration `mapstructure:"timeout"` // seconds
	VerifyIdentity       bool          `mapstructure:"verifyIdentity"`
	GetAllAvailableBanks bool          `mapstructure:"getAllAvailableBanks"`
	PreferredBanks       []string      `mapstructure:"preferredBanks"`
}

// SecurityConfig contains password hashing settings
type SecurityConfig struct {
	BcryptCost int `mapstructure:"bcryptCost"`
}
