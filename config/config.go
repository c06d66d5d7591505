package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	AppBaseURL        string `mapstructure:"APP_BASE_URL"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Storage. DatabaseDriver is "mongo" or "memory"; the payment ledger lives in SQL.
	DatabaseDriver string `mapstructure:"DATABASE_DRIVER"`
	DatabaseURL    string `mapstructure:"DATABASE_URL"`
	DatabaseName   string `mapstructure:"DATABASE_NAME"`
	SQLDriver      string `mapstructure:"SQL_DRIVER"`
	SQLDSN         string `mapstructure:"SQL_DSN"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Payments.
	StripeKey       string  `mapstructure:"STRIPE_SECRET_KEY"`
	PlatformFeeRate float64 `mapstructure:"PLATFORM_FEE_RATE"`

	// Notification channels.
	LineChannelAccessToken  string `mapstructure:"LINE_CHANNEL_ACCESS_TOKEN"`
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`
	SMTPHost                string `mapstructure:"SMTP_HOST"`
	SMTPPort                int    `mapstructure:"SMTP_PORT"`
	SMTPUser                string `mapstructure:"SMTP_USER"`
	SMTPPass                string `mapstructure:"SMTP_PASS"`
	SMTPFrom                string `mapstructure:"SMTP_FROM"`

	VendorCapacityEnforced bool `mapstructure:"VENDOR_CAPACITY_ENFORCED"`
}

var AppConfig Config

var configKeys = []string{
	"APP_PORT", "APP_BASE_URL", "ENV", "JWT_SECRET", "LOG_LEVEL", "MAX_REQUESTS_PER_MIN",
	"DATABASE_DRIVER", "DATABASE_URL", "DATABASE_NAME", "SQL_DRIVER", "SQL_DSN",
	"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_CACHE_DB", "REDIS_QUEUE_DB",
	"STRIPE_SECRET_KEY", "PLATFORM_FEE_RATE",
	"LINE_CHANNEL_ACCESS_TOKEN", "FIREBASE_CREDENTIALS_FILE",
	"SMTP_HOST", "SMTP_PORT", "SMTP_USER", "SMTP_PASS", "SMTP_FROM",
	"VENDOR_CAPACITY_ENFORCED",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_BASE_URL", "http://localhost:5173")
	v.SetDefault("ENV", "development")
	v.SetDefault("JWT_SECRET", "marche-dev-secret")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 200)
	v.SetDefault("DATABASE_DRIVER", "mongo")
	v.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	v.SetDefault("DATABASE_NAME", "marche")
	v.SetDefault("SQL_DRIVER", "sqlite")
	v.SetDefault("SQL_DSN", "file:marche.db")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_CACHE_DB", 0)
	v.SetDefault("REDIS_QUEUE_DB", 1)
	v.SetDefault("STRIPE_SECRET_KEY", "")
	v.SetDefault("PLATFORM_FEE_RATE", 0.1)
	v.SetDefault("LINE_CHANNEL_ACCESS_TOKEN", "")
	v.SetDefault("FIREBASE_CREDENTIALS_FILE", "")
	v.SetDefault("SMTP_HOST", "")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USER", "")
	v.SetDefault("SMTP_PASS", "")
	v.SetDefault("SMTP_FROM", "")
	v.SetDefault("VENDOR_CAPACITY_ENFORCED", false)
}

// LoadConfig reads .env.local (if present), config.yaml and the environment, in
// increasing order of precedence, into AppConfig.
func LoadConfig() {
	if err := godotenv.Load(".env.local"); err != nil {
		log.Println("No .env.local found, skipping")
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()
	setDefaults(v)
	// AutomaticEnv only covers keys viper already knows about when unmarshalling.
	for _, k := range configKeys {
		_ = v.BindEnv(k)
	}

	if err := v.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := v.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// UsesMemoryStore reports whether the in-process store backs the repositories.
func UsesMemoryStore() bool {
	return AppConfig.DatabaseDriver == "memory"
}
