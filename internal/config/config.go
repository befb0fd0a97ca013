package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Redis     RedisConfig
	Storage   StorageConfig
	Tracing   TracingConfig   `mapstructure:"tracing"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	OTP       OTPConfig       `mapstructure:"otp"`
	Practice  PracticeConfig  `mapstructure:"practice"`
	Log       LogConfig       `mapstructure:"log"`

	// Runtime flags set from the command line, not the config file.
	ForceMigrate bool `mapstructure:"-"`
	MigrateOnly  bool `mapstructure:"-"`
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	ExpireTime time.Duration `mapstructure:"expire_hours"`
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type StorageConfig struct {
	Type          string `mapstructure:"type"`
	LocalPath     string `mapstructure:"local_path"`
	MinioEndpoint string `mapstructure:"minio_endpoint"`
	MinioAccessID string `mapstructure:"minio_access_key"`
	MinioSecret   string `mapstructure:"minio_secret_key"`
	MinioBucket   string `mapstructure:"minio_bucket"`
	MinioUseSSL   bool   `mapstructure:"minio_use_ssl"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

type LogConfig struct {
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

type OTPConfig struct {
	ExpiryMinutes     int    `mapstructure:"expiry_minutes"`
	MaxVerifyAttempts int    `mapstructure:"max_verify_attempts"`
	HourlySendLimit   int    `mapstructure:"hourly_send_limit"`
	DailySendLimit    int    `mapstructure:"daily_send_limit"`
	SenderEmail       string `mapstructure:"sender_email"`
}

// PracticeConfig carries the tunable policy of the practice engine. The retry
// cap and the adaptive weighting thresholds are business rules, not constants,
// so they live here and are hot-reloadable.
type PracticeConfig struct {
	MaxAttempts          int     `mapstructure:"max_attempts"`
	AccuracyWindowDays   int     `mapstructure:"accuracy_window_days"`
	MinTopicAttempts     int     `mapstructure:"min_topic_attempts"`
	RecentExcludeCount   int     `mapstructure:"recent_exclude_count"`
	DefaultDifficulty    int     `mapstructure:"default_difficulty"`
	RaiseAccuracy        float64 `mapstructure:"raise_accuracy"`
	LowerAccuracy        float64 `mapstructure:"lower_accuracy"`
	RevisionAccuracy     float64 `mapstructure:"revision_accuracy"`
	PointsPerAttempt     int     `mapstructure:"points_per_attempt"`
	PointsFirstCorrect   int     `mapstructure:"points_first_correct"`
	PointsRetryCorrect   int     `mapstructure:"points_retry_correct"`
	FastSolverSeconds    int     `mapstructure:"fast_solver_seconds"`
	FastSolverSampleSize int     `mapstructure:"fast_solver_sample_size"`
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("TACHYON")
	viper.AutomaticEnv()

	// Database
	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.dbname", "DATABASE_NAME")

	// JWT
	viper.BindEnv("jwt.secret", "JWT_SECRET")

	// Redis
	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	viper.BindEnv("server.mode", "SERVER_MODE")

	// Storage / MinIO
	viper.BindEnv("storage.type", "STORAGE_TYPE")
	viper.BindEnv("storage.minio_endpoint", "MINIO_ENDPOINT")
	viper.BindEnv("storage.minio_access_key", "MINIO_ACCESS_KEY")
	viper.BindEnv("storage.minio_secret_key", "MINIO_SECRET_KEY")
	viper.BindEnv("storage.minio_bucket", "MINIO_BUCKET")

	// Tracing
	viper.BindEnv("tracing.enabled", "TRACING_ENABLED")
	viper.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.JWT.ExpireTime = cfg.JWT.ExpireTime * time.Hour
	applyPracticeDefaults(&cfg.Practice)
	applyOTPDefaults(&cfg.OTP)
	applyLogDefaults(&cfg.Log)

	if cfg.Server.Mode == "release" && len(cfg.JWT.Secret) < 32 {
		return nil, fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(cfg.JWT.Secret))
	}

	return &cfg, nil
}

func applyPracticeDefaults(p *PracticeConfig) {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 2
	}
	if p.AccuracyWindowDays <= 0 {
		p.AccuracyWindowDays = 30
	}
	if p.MinTopicAttempts <= 0 {
		p.MinTopicAttempts = 3
	}
	if p.RecentExcludeCount <= 0 {
		p.RecentExcludeCount = 30
	}
	if p.DefaultDifficulty <= 0 {
		p.DefaultDifficulty = 2
	}
	if p.RaiseAccuracy <= 0 {
		p.RaiseAccuracy = 0.8
	}
	if p.LowerAccuracy <= 0 {
		p.LowerAccuracy = 0.4
	}
	if p.RevisionAccuracy <= 0 {
		p.RevisionAccuracy = 0.6
	}
	if p.PointsPerAttempt <= 0 {
		p.PointsPerAttempt = 2
	}
	if p.PointsFirstCorrect <= 0 {
		p.PointsFirstCorrect = 5
	}
	if p.PointsRetryCorrect <= 0 {
		p.PointsRetryCorrect = 3
	}
	if p.FastSolverSeconds <= 0 {
		p.FastSolverSeconds = 40
	}
	if p.FastSolverSampleSize <= 0 {
		p.FastSolverSampleSize = 20
	}
}

func applyLogDefaults(l *LogConfig) {
	if l.Filename == "" {
		l.Filename = "logs/app.log"
	}
	if l.MaxSizeMB <= 0 {
		l.MaxSizeMB = 100
	}
	if l.MaxBackups <= 0 {
		l.MaxBackups = 5
	}
	if l.MaxAgeDays <= 0 {
		l.MaxAgeDays = 30
	}
}

func applyOTPDefaults(o *OTPConfig) {
	if o.ExpiryMinutes <= 0 {
		o.ExpiryMinutes = 5
	}
	if o.MaxVerifyAttempts <= 0 {
		o.MaxVerifyAttempts = 3
	}
	if o.HourlySendLimit <= 0 {
		o.HourlySendLimit = 5
	}
	if o.DailySendLimit <= 0 {
		o.DailySendLimit = 20
	}
}
