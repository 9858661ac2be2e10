package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort   string `mapstructure:"APP_PORT"`
	Env       string `mapstructure:"ENV"`
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	JWTSecret string `mapstructure:"JWT_SECRET"`

	// Storage backend: "mongo" or "memory". Selected once at process start;
	// services only ever see the repository interfaces.
	StorageBackend string `mapstructure:"STORAGE_BACKEND"`
	DatabaseURL    string `mapstructure:"DATABASE_URL"`
	DatabaseName   string `mapstructure:"DATABASE_NAME"`

	// Redis configuration.
	RedisAddr      string `mapstructure:"REDIS_ADDR"`
	RedisPassword  string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB   int    `mapstructure:"REDIS_CACHE_DB"`
	RedisContextDB int    `mapstructure:"REDIS_CONTEXT_DB"`
	RedisQueueDB   int    `mapstructure:"REDIS_QUEUE_DB"`

	MaxRequestsPerMin int `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Caller identity normalization.
	DefaultCountryCode string `mapstructure:"DEFAULT_COUNTRY_CODE"`

	// Conversation sessions.
	SessionAbandonMinutes int `mapstructure:"SESSION_ABANDON_MINUTES"`

	// Usage pricing. Token prices are per 1K tokens.
	PriceSTTPerSecond   float64 `mapstructure:"PRICE_STT_PER_SECOND"`
	PriceTTSPerChar     float64 `mapstructure:"PRICE_TTS_PER_CHAR"`
	PriceLLMInputPer1K  float64 `mapstructure:"PRICE_LLM_INPUT_PER_1K"`
	PriceLLMOutputPer1K float64 `mapstructure:"PRICE_LLM_OUTPUT_PER_1K"`

	// Gemini decision-maker (optional; the tool dispatcher works without it).
	GeminiAPIKey string `mapstructure:"GEMINI_API_KEY"`
	GeminiModel  string `mapstructure:"GEMINI_MODEL"`
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
	viper.SetDefault("STORAGE_BACKEND", "memory")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "mentorline")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_CONTEXT_DB", 1)
	viper.SetDefault("REDIS_QUEUE_DB", 2)
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("DEFAULT_COUNTRY_CODE", "+1")
	viper.SetDefault("SESSION_ABANDON_MINUTES", 30)
	viper.SetDefault("PRICE_STT_PER_SECOND", 0.0043)
	viper.SetDefault("PRICE_TTS_PER_CHAR", 0.00003)
	viper.SetDefault("PRICE_LLM_INPUT_PER_1K", 0.00015)
	viper.SetDefault("PRICE_LLM_OUTPUT_PER_1K", 0.0006)
	viper.SetDefault("GEMINI_MODEL", "models/gemini-1.5-pro")

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
