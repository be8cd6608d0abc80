package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	envPort                  = "PORT"
	envServerReadTimeout     = "SERVER_READ_TIMEOUT"
	envServerWriteTimeout    = "SERVER_WRITE_TIMEOUT"
	envServerShutdownTimeout = "SERVER_SHUTDOWN_TIMEOUT"
	envLogLevel              = "LOG_LEVEL"
	envDBEnabled             = "DB_ENABLED"
	envDBHost                = "DB_HOST"
	envDBPort                = "DB_PORT"
	envDBName                = "DB_NAME"
	envDBUser                = "DB_USER"
	envDBPassword            = "DB_PASSWORD"
	envDBSSLMode             = "DB_SSL_MODE"
	envDBMaxConns            = "DB_MAX_CONNS"
	envDBMinConns            = "DB_MIN_CONNS"
	envStorageProvider       = "STORAGE_PROVIDER"
	envStorageEndpoint       = "STORAGE_ENDPOINT"
	envStorageRegion         = "STORAGE_REGION"
	envStorageBucket         = "STORAGE_BUCKET"
	envStorageKeyPrefix      = "STORAGE_KEY_PREFIX"
	envStorageAccessKeyID    = "STORAGE_ACCESS_KEY_ID"
	envStorageSecretKey      = "STORAGE_SECRET_ACCESS_KEY"
	envStoragePathStyle      = "STORAGE_FORCE_PATH_STYLE"
	envBasicAuthEnabled      = "BASICAUTH_ENABLED"
	envBasicAuthUsername     = "BASICAUTH_USERNAME"
	envBasicAuthPasswordHash = "BASICAUTH_PASSWORD_HASH"
	envOIDCEnabled           = "OIDC_ENABLED"
	envOIDCIdentityKeys      = "OIDC_IDENTITY_KEYS"
	envJWTSecret             = "JWT_SECRET"
	envRateLimitRPS          = "RATE_LIMIT_RPS"
	envRateLimitBurst        = "RATE_LIMIT_BURST"
)

const (
	defaultServerPort         = "8080"
	defaultServerReadTimeout  = 10 * time.Second
	defaultServerWriteTimeout = 10 * time.Second
	defaultServerShutdown     = 10 * time.Second
	defaultLogLevel           = "info"
	defaultDBHost             = "localhost"
	defaultDBPort             = 5432
	defaultDBName             = "objectgateway"
	defaultDBUser             = "objectgateway_app"
	defaultDBSSLMode          = "disable"
	defaultDBMaxConns         = 25
	defaultDBMinConns         = 5
	defaultStorageProvider    = "s3"
	defaultRateLimitRPS       = 50
	defaultRateLimitBurst     = 100
	minJWTSecretLength        = 32

	errPortRequired         = "PORT must be set"
	errDBPasswordRequired   = "DB_PASSWORD must be set when DB_ENABLED is true"
	errBucketRequired       = "STORAGE_BUCKET must be set"
	errRegionRequired       = "STORAGE_REGION must be set"
	errAccessKeyRequired    = "STORAGE_ACCESS_KEY_ID must be set"
	errSecretKeyRequired    = "STORAGE_SECRET_ACCESS_KEY must be set"
	errJWTSecretRequired    = "JWT_SECRET must be set when OIDC is enabled"
	errJWTSecretMinLength   = "JWT_SECRET must be at least %d characters"
	errBasicUserRequired    = "BASICAUTH_USERNAME must be set when basic auth is enabled"
	errBasicHashRequired    = "BASICAUTH_PASSWORD_HASH must be set when basic auth is enabled"
	errInvalidConfiguration = "invalid configuration: %w"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Storage   StorageConfig
	BasicAuth BasicAuthConfig
	OIDC      OIDCConfig
	App       AppConfig
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Database string
	User     string
	Password string
	SSLMode  string
	MaxConns int
	MinConns int
}

type StorageConfig struct {
	Provider        string
	Endpoint        string
	Region          string
	Bucket          string
	KeyPrefix       string
	AccessKeyID     string
	SecretAccessKey string
	ForcePathStyle  bool
}

type BasicAuthConfig struct {
	Enabled      bool
	Username     string
	PasswordHash string
}

type OIDCConfig struct {
	Enabled bool
	// IdentityKeys is the ordered claim list consulted when resolving the
	// caller identity. The resolver always appends "sub" as the terminal
	// fallback.
	IdentityKeys []string
	JWTSecret    string
}

type AppConfig struct {
	LogLevel       string
	RateLimitRPS   int
	RateLimitBurst int
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv(envPort, defaultServerPort),
			ReadTimeout:     getDurationEnv(envServerReadTimeout, defaultServerReadTimeout),
			WriteTimeout:    getDurationEnv(envServerWriteTimeout, defaultServerWriteTimeout),
			ShutdownTimeout: getDurationEnv(envServerShutdownTimeout, defaultServerShutdown),
		},
		Database: DatabaseConfig{
			Enabled:  getBoolEnv(envDBEnabled, true),
			Host:     getEnv(envDBHost, defaultDBHost),
			Port:     getIntEnv(envDBPort, defaultDBPort),
			Database: getEnv(envDBName, defaultDBName),
			User:     getEnv(envDBUser, defaultDBUser),
			Password: os.Getenv(envDBPassword),
			SSLMode:  getEnv(envDBSSLMode, defaultDBSSLMode),
			MaxConns: getIntEnv(envDBMaxConns, defaultDBMaxConns),
			MinConns: getIntEnv(envDBMinConns, defaultDBMinConns),
		},
		Storage: StorageConfig{
			Provider:        getEnv(envStorageProvider, defaultStorageProvider),
			Endpoint:        os.Getenv(envStorageEndpoint),
			Region:          os.Getenv(envStorageRegion),
			Bucket:          os.Getenv(envStorageBucket),
			KeyPrefix:       os.Getenv(envStorageKeyPrefix),
			AccessKeyID:     os.Getenv(envStorageAccessKeyID),
			SecretAccessKey: os.Getenv(envStorageSecretKey),
			ForcePathStyle:  getBoolEnv(envStoragePathStyle, false),
		},
		BasicAuth: BasicAuthConfig{
			Enabled:      getBoolEnv(envBasicAuthEnabled, false),
			Username:     os.Getenv(envBasicAuthUsername),
			PasswordHash: os.Getenv(envBasicAuthPasswordHash),
		},
		OIDC: OIDCConfig{
			Enabled:      getBoolEnv(envOIDCEnabled, false),
			IdentityKeys: getCSVEnv(envOIDCIdentityKeys),
			JWTSecret:    os.Getenv(envJWTSecret),
		},
		App: AppConfig{
			LogLevel:       getEnv(envLogLevel, defaultLogLevel),
			RateLimitRPS:   getIntEnv(envRateLimitRPS, defaultRateLimitRPS),
			RateLimitBurst: getIntEnv(envRateLimitBurst, defaultRateLimitBurst),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf(errInvalidConfiguration, err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf(errPortRequired)
	}

	if c.Database.Enabled && c.Database.Password == "" {
		return fmt.Errorf(errDBPasswordRequired)
	}

	if c.Storage.Bucket == "" {
		return fmt.Errorf(errBucketRequired)
	}
	if c.Storage.Region == "" {
		return fmt.Errorf(errRegionRequired)
	}
	if c.Storage.AccessKeyID == "" {
		return fmt.Errorf(errAccessKeyRequired)
	}
	if c.Storage.SecretAccessKey == "" {
		return fmt.Errorf(errSecretKeyRequired)
	}

	if c.BasicAuth.Enabled {
		if c.BasicAuth.Username == "" {
			return fmt.Errorf(errBasicUserRequired)
		}
		if c.BasicAuth.PasswordHash == "" {
			return fmt.Errorf(errBasicHashRequired)
		}
	}

	if c.OIDC.Enabled {
		if c.OIDC.JWTSecret == "" {
			return fmt.Errorf(errJWTSecretRequired)
		}
		if len(c.OIDC.JWTSecret) < minJWTSecretLength {
			return fmt.Errorf(errJWTSecretMinLength, minJWTSecretLength)
		}
	}

	return nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}

func getCSVEnv(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
