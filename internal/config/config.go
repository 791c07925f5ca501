package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	StorageMemory   = "memory"
	StorageRedis    = "redis"
	StoragePostgres = "postgres"

	MirrorNone     = "none"
	MirrorMemory   = "memory"
	MirrorFirebase = "firebase"

	EnvProduction = "production"
)

type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Mirror   MirrorConfig
	Sync     SyncConfig
	Gemini   GeminiConfig
	CORS     CORSConfig
	Logging  LoggingConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type StorageConfig struct {
	Type   string
	Prefix string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	AccessSecret    string
	AccessExpiryMin int
}

type MirrorConfig struct {
	Type            string
	DatabaseURL     string
	CredentialsFile string
	PollInterval    time.Duration
}

type SyncConfig struct {
	Workers     int
	MaxAttempts int
}

type GeminiConfig struct {
	APIKey      string
	Model       string
	PlacesModel string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LoggingConfig struct {
	Level  string
	Format string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", 8080)
	v.SetDefault("ENV", "development")
	v.SetDefault("STORAGE_TYPE", StorageMemory)
	v.SetDefault("STORAGE_PREFIX", "fitmatch:")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("JWT_ACCESS_EXPIRY_MIN", 60*24*7)
	v.SetDefault("MIRROR_TYPE", MirrorNone)
	v.SetDefault("MIRROR_POLL_INTERVAL", "2s")
	v.SetDefault("SYNC_WORKERS", 4)
	v.SetDefault("SYNC_MAX_ATTEMPTS", 1)
	v.SetDefault("GEMINI_MODEL", "gemini-3-flash-preview")
	v.SetDefault("GEMINI_PLACES_MODEL", "gemini-2.5-flash")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
}

// Load loads configuration from environment variables or .env file
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	setDefaults(v)

	// Try to read from .env file, but don't fail if it doesn't exist
	_ = v.ReadInConfig()

	config := fromViper(v)

	// Validate critical configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Host:         v.GetString("SERVER_HOST"),
			Port:         v.GetInt("SERVER_PORT"),
			Env:          v.GetString("ENV"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Storage: StorageConfig{
			Type:   strings.ToLower(v.GetString("STORAGE_TYPE")),
			Prefix: v.GetString("STORAGE_PREFIX"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSL_MODE"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetInt("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			AccessSecret:    v.GetString("JWT_ACCESS_SECRET"),
			AccessExpiryMin: v.GetInt("JWT_ACCESS_EXPIRY_MIN"),
		},
		Mirror: MirrorConfig{
			Type:            strings.ToLower(v.GetString("MIRROR_TYPE")),
			DatabaseURL:     v.GetString("FIREBASE_DATABASE_URL"),
			CredentialsFile: v.GetString("FIREBASE_CREDENTIALS_FILE"),
			PollInterval:    v.GetDuration("MIRROR_POLL_INTERVAL"),
		},
		Sync: SyncConfig{
			Workers:     v.GetInt("SYNC_WORKERS"),
			MaxAttempts: v.GetInt("SYNC_MAX_ATTEMPTS"),
		},
		Gemini: GeminiConfig{
			APIKey:      v.GetString("GEMINI_API_KEY"),
			Model:       v.GetString("GEMINI_MODEL"),
			PlacesModel: v.GetString("GEMINI_PLACES_MODEL"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Validate validates critical configuration values
func (c *Config) Validate() error {
	if c.JWT.AccessSecret == "" {
		return fmt.Errorf("JWT access secret is required")
	}
	if len(c.JWT.AccessSecret) < 32 {
		return fmt.Errorf("JWT access secret must be at least 32 characters")
	}
	if c.JWT.AccessExpiryMin <= 0 {
		return fmt.Errorf("JWT access expiry must be positive")
	}

	switch c.Storage.Type {
	case StorageMemory, StorageRedis:
	case StoragePostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database user is required")
		}
		if c.Database.DBName == "" {
			return fmt.Errorf("database name is required")
		}
	default:
		return fmt.Errorf("unknown storage type %q", c.Storage.Type)
	}

	switch c.Mirror.Type {
	case MirrorNone, MirrorMemory:
	case MirrorFirebase:
		if c.Mirror.DatabaseURL == "" {
			return fmt.Errorf("firebase database url is required")
		}
	default:
		return fmt.Errorf("unknown mirror type %q", c.Mirror.Type)
	}

	if c.Sync.Workers <= 0 {
		return fmt.Errorf("sync workers must be positive")
	}
	return nil
}

func (c *ServerConfig) IsProduction() bool {
	return strings.EqualFold(c.Env, EnvProduction)
}

func (c *JWTConfig) AccessTTL() time.Duration {
	return time.Duration(c.AccessExpiryMin) * time.Minute
}

// GetDSN returns PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// GetAddr returns Redis address
func (c *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
