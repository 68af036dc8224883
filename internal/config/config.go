package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	DB      DBConfig
	JWT     JWTConfig
	Storage StorageConfig
	Image   ImageConfig
	Orphan  OrphanConfig
	CORS    CORSConfig
	Email   EmailConfig
	Log     LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpen         int           `mapstructure:"max_open"`
	MaxIdle         int           `mapstructure:"max_idle"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret             string        `mapstructure:"secret"`
	AccessTokenExpiry  time.Duration `mapstructure:"access_expiry"`
	RefreshTokenExpiry time.Duration `mapstructure:"refresh_expiry"`
	Issuer             string        `mapstructure:"issuer"`
}

// RetryConfig holds the storage retry policy knobs.
type RetryConfig struct {
	Retries    int           `mapstructure:"retries"`
	MinTimeout time.Duration `mapstructure:"min_timeout"`
	Factor     float64       `mapstructure:"factor"`
}

// StorageConfig holds object store settings. PublicBaseURL plus FilesPrefix
// form the stable public path every stored object is reachable under.
type StorageConfig struct {
	Region          string      `mapstructure:"region"`
	Bucket          string      `mapstructure:"bucket"`
	Endpoint        string      `mapstructure:"endpoint"`
	AccessKey       string      `mapstructure:"access_key"`
	SecretKey       string      `mapstructure:"secret_key"`
	PublicBaseURL   string      `mapstructure:"public_base_url"`
	FilesPrefix     string      `mapstructure:"files_prefix"`
	MaxUploadSizeMB int64       `mapstructure:"max_upload_size_mb"`
	Retry           RetryConfig `mapstructure:"retry"`
}

// ImageConfig holds default image processing settings for draft uploads.
type ImageConfig struct {
	MaxWidth  int    `mapstructure:"max_width"`
	MaxHeight int    `mapstructure:"max_height"`
	Quality   int    `mapstructure:"quality"`
	Format    string `mapstructure:"format"`
	Fit       string `mapstructure:"fit"`
}

// OrphanConfig holds orphan-scan worker settings.
type OrphanConfig struct {
	ScanInterval time.Duration `mapstructure:"scan_interval"`
	Enabled      bool          `mapstructure:"enabled"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the VENDORA_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("VENDORA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "vendora")
	v.SetDefault("db.password", "vendora_secret")
	v.SetDefault("db.name", "vendora_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)
	v.SetDefault("db.conn_max_lifetime", "30m")

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "15m")
	v.SetDefault("jwt.refresh_expiry", "168h")
	v.SetDefault("jwt.issuer", "vendora")

	// Storage defaults
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.bucket", "vendora-media")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.public_base_url", "http://localhost:8080")
	v.SetDefault("storage.files_prefix", "files")
	v.SetDefault("storage.max_upload_size_mb", 20)
	v.SetDefault("storage.retry.retries", 3)
	v.SetDefault("storage.retry.min_timeout", "200ms")
	v.SetDefault("storage.retry.factor", 2.0)

	// Image defaults
	v.SetDefault("image.max_width", 1600)
	v.SetDefault("image.max_height", 1600)
	v.SetDefault("image.quality", 82)
	v.SetDefault("image.format", "jpeg")
	v.SetDefault("image.fit", "contain")

	// Orphan scan defaults
	v.SetDefault("orphan.scan_interval", "6h")
	v.SetDefault("orphan.enabled", true)

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "us-east-1")
	v.SetDefault("email.from_address", "orders@vendora.dev")
	v.SetDefault("email.from_name", "Vendora")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                "VENDORA_SERVER_PORT",
		"server.read_timeout":        "VENDORA_SERVER_READ_TIMEOUT",
		"server.write_timeout":       "VENDORA_SERVER_WRITE_TIMEOUT",
		"server.environment":         "VENDORA_SERVER_ENVIRONMENT",
		"db.host":                    "VENDORA_DB_HOST",
		"db.port":                    "VENDORA_DB_PORT",
		"db.user":                    "VENDORA_DB_USER",
		"db.password":                "VENDORA_DB_PASSWORD",
		"db.name":                    "VENDORA_DB_NAME",
		"db.sslmode":                 "VENDORA_DB_SSLMODE",
		"db.max_open":                "VENDORA_DB_MAX_OPEN",
		"db.max_idle":                "VENDORA_DB_MAX_IDLE",
		"db.conn_max_lifetime":       "VENDORA_DB_CONN_MAX_LIFETIME",
		"jwt.secret":                 "VENDORA_JWT_SECRET",
		"jwt.access_expiry":          "VENDORA_JWT_ACCESS_EXPIRY",
		"jwt.refresh_expiry":         "VENDORA_JWT_REFRESH_EXPIRY",
		"jwt.issuer":                 "VENDORA_JWT_ISSUER",
		"storage.region":             "VENDORA_STORAGE_REGION",
		"storage.bucket":             "VENDORA_STORAGE_BUCKET",
		"storage.endpoint":           "VENDORA_STORAGE_ENDPOINT",
		"storage.access_key":         "VENDORA_STORAGE_ACCESS_KEY",
		"storage.secret_key":         "VENDORA_STORAGE_SECRET_KEY",
		"storage.public_base_url":    "VENDORA_STORAGE_PUBLIC_BASE_URL",
		"storage.files_prefix":       "VENDORA_STORAGE_FILES_PREFIX",
		"storage.max_upload_size_mb": "VENDORA_STORAGE_MAX_UPLOAD_SIZE_MB",
		"storage.retry.retries":      "VENDORA_STORAGE_RETRY_RETRIES",
		"storage.retry.min_timeout":  "VENDORA_STORAGE_RETRY_MIN_TIMEOUT",
		"storage.retry.factor":       "VENDORA_STORAGE_RETRY_FACTOR",
		"image.max_width":            "VENDORA_IMAGE_MAX_WIDTH",
		"image.max_height":           "VENDORA_IMAGE_MAX_HEIGHT",
		"image.quality":              "VENDORA_IMAGE_QUALITY",
		"image.format":               "VENDORA_IMAGE_FORMAT",
		"image.fit":                  "VENDORA_IMAGE_FIT",
		"orphan.scan_interval":       "VENDORA_ORPHAN_SCAN_INTERVAL",
		"orphan.enabled":             "VENDORA_ORPHAN_ENABLED",
		"cors.allowed_origins":       "VENDORA_CORS_ALLOWED_ORIGINS",
		"email.provider":             "VENDORA_EMAIL_PROVIDER",
		"email.region":               "VENDORA_EMAIL_REGION",
		"email.from_address":         "VENDORA_EMAIL_FROM_ADDRESS",
		"email.from_name":            "VENDORA_EMAIL_FROM_NAME",
		"log.level":                  "VENDORA_LOG_LEVEL",
		"log.format":                 "VENDORA_LOG_FORMAT",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if VENDORA_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("VENDORA_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:            v.GetString("db.host"),
		Port:            v.GetInt("db.port"),
		User:            v.GetString("db.user"),
		Password:        v.GetString("db.password"),
		Name:            v.GetString("db.name"),
		SSLMode:         v.GetString("db.sslmode"),
		MaxOpen:         v.GetInt("db.max_open"),
		MaxIdle:         v.GetInt("db.max_idle"),
		ConnMaxLifetime: v.GetDuration("db.conn_max_lifetime"),
	}
	cfg.JWT = JWTConfig{
		Secret:             v.GetString("jwt.secret"),
		AccessTokenExpiry:  v.GetDuration("jwt.access_expiry"),
		RefreshTokenExpiry: v.GetDuration("jwt.refresh_expiry"),
		Issuer:             v.GetString("jwt.issuer"),
	}
	cfg.Storage = StorageConfig{
		Region:          v.GetString("storage.region"),
		Bucket:          v.GetString("storage.bucket"),
		Endpoint:        v.GetString("storage.endpoint"),
		AccessKey:       v.GetString("storage.access_key"),
		SecretKey:       v.GetString("storage.secret_key"),
		PublicBaseURL:   v.GetString("storage.public_base_url"),
		FilesPrefix:     v.GetString("storage.files_prefix"),
		MaxUploadSizeMB: v.GetInt64("storage.max_upload_size_mb"),
		Retry: RetryConfig{
			Retries:    v.GetInt("storage.retry.retries"),
			MinTimeout: v.GetDuration("storage.retry.min_timeout"),
			Factor:     v.GetFloat64("storage.retry.factor"),
		},
	}
	cfg.Image = ImageConfig{
		MaxWidth:  v.GetInt("image.max_width"),
		MaxHeight: v.GetInt("image.max_height"),
		Quality:   v.GetInt("image.quality"),
		Format:    v.GetString("image.format"),
		Fit:       v.GetString("image.fit"),
	}
	cfg.Orphan = OrphanConfig{
		ScanInterval: v.GetDuration("orphan.scan_interval"),
		Enabled:      v.GetBool("orphan.enabled"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	return cfg, nil
}
