package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisAuthDB   int    `mapstructure:"REDIS_AUTH_DB"`
	RedisTaskDB   int    `mapstructure:"REDIS_TASK_DB"`

	// Stripe.
	StripeKey string `mapstructure:"STRIPE_KEY"`

	// Kafka event stream.
	KafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	KafkaTopic   string `mapstructure:"KAFKA_TOPIC"`

	// Reservation economics. Per-listing overrides take precedence;
	// these are the platform-wide defaults.
	CommissionRate      float64 `mapstructure:"COMMISSION_RATE"`
	ServiceFeeRate      float64 `mapstructure:"SERVICE_FEE_RATE"`
	DepositRate         float64 `mapstructure:"DEPOSIT_RATE"`
	DepositDeadlineHrs  int     `mapstructure:"DEPOSIT_DEADLINE_HOURS"`
	MinSlotMinutes      int     `mapstructure:"MIN_SLOT_MINUTES"`
	DefaultCancelPolicy string  `mapstructure:"DEFAULT_CANCEL_POLICY"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_AUTH_DB", 1)
	viper.SetDefault("REDIS_TASK_DB", 2)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "roomify")
	viper.SetDefault("STRIPE_KEY", "")
	viper.SetDefault("KAFKA_BROKERS", "")
	viper.SetDefault("KAFKA_TOPIC", "reservation-events")
	viper.SetDefault("COMMISSION_RATE", 0.10)
	viper.SetDefault("SERVICE_FEE_RATE", 0.05)
	viper.SetDefault("DEPOSIT_RATE", 0.20)
	viper.SetDefault("DEPOSIT_DEADLINE_HOURS", 12)
	viper.SetDefault("MIN_SLOT_MINUTES", 30)
	viper.SetDefault("DEFAULT_CANCEL_POLICY", "flexible")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
