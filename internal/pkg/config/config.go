package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/omondi/sokocart/internal/pkg/models"
)

func InitConfig(configPath string) *models.Config {
	local := GetEnv("APP_ENV", "local")
	if local == "local" {
		// Load config from file
		err := godotenv.Load(configPath)
		if err != nil {
			log.Println("error loading config from file", err)
		}
	}
	// Create config from environment variables
	return loadConfigFromEnv()
}

func loadConfigFromEnv() *models.Config {
	configs := &models.Config{}

	// App config
	configs.App.Name = GetEnv("APP_NAME", "")
	configs.App.Environment = GetEnv("APP_ENV", "")
	configs.App.Debug = GetEnvAsBool("APP_DEBUG", true)
	configs.App.Version = GetEnv("APP_VERSION", "")

	// Server config
	configs.Server.Host = GetEnv("SERVER_HOST", "")
	configs.Server.Port = GetEnvAsInt("SERVER_PORT", 0)
	configs.Server.ReadTimeout = GetEnvAsInt("SERVER_READ_TIMEOUT", 0)
	configs.Server.WriteTimeout = GetEnvAsInt("SERVER_WRITE_TIMEOUT", 0)
	configs.Server.ShutdownTimeout = GetEnvAsInt("SERVER_SHUTDOWN_TIMEOUT", 0)

	// Database config
	configs.Database.Driver = GetEnv("DB_DRIVER", "")
	configs.Database.Host = GetEnv("DB_HOST", "")
	configs.Database.Port = GetEnvAsInt("DB_PORT", 0)
	configs.Database.Username = GetEnv("DB_USERNAME", "")
	configs.Database.Password = GetEnv("DB_PASSWORD", "")
	configs.Database.Database = GetEnv("DB_DATABASE", "")
	configs.Database.SSLMode = GetEnv("DB_SSL_MODE", "")
	configs.Database.MaxConns = GetEnvAsInt("DB_MAX_CONNS", 0)
	configs.Database.IdleConns = GetEnvAsInt("DB_IDLE_CONNS", 0)

	// Redis config
	configs.Redis.Host = GetEnv("REDIS_HOST", "")
	configs.Redis.Port = GetEnvAsInt("REDIS_PORT", 0)
	configs.Redis.Password = GetEnv("REDIS_PASSWORD", "")
	configs.Redis.DB = GetEnvAsInt("REDIS_DB", 0)
	configs.Redis.PoolSize = GetEnvAsInt("REDIS_POOL_SIZE", 0)

	// NATS config
	configs.NATS.URL = GetEnv("NATS_URL", "")

	// M-Pesa provider config
	configs.Mpesa.BaseURL = GetEnv("MPESA_BASE_URL", "https://sandbox.safaricom.co.ke")
	configs.Mpesa.ConsumerKey = GetEnv("MPESA_CONSUMER_KEY", "")
	configs.Mpesa.ConsumerSecret = GetEnv("MPESA_CONSUMER_SECRET", "")
	configs.Mpesa.ShortCode = GetEnv("MPESA_SHORTCODE", "")
	configs.Mpesa.PassKey = GetEnv("MPESA_PASSKEY", "")
	configs.Mpesa.CallbackBaseURL = GetEnv("MPESA_CALLBACK_BASE_URL", "")
	configs.Mpesa.TransactionDesc = GetEnv("MPESA_TRANSACTION_DESC", "Sokocart order payment")
	configs.Mpesa.Timeout = GetEnvAsInt("MPESA_TIMEOUT", 30)

	// Payment lifecycle config
	configs.Payment.ValidityWindowMinutes = GetEnvAsInt("PAYMENT_VALIDITY_WINDOW_MINUTES", 5)
	configs.Payment.SweepIntervalSeconds = GetEnvAsInt("PAYMENT_SWEEP_INTERVAL_SECONDS", 60)
	configs.Payment.StatusCacheTTLMinutes = GetEnvAsInt("PAYMENT_STATUS_CACHE_TTL_MINUTES", 30)

	// Services config
	configs.Services.PaymentServiceURL = GetEnv("PAYMENT_SERVICE_URL", "http://localhost:9990")

	// NewRelic config
	configs.NewRelic.LicenseKey = GetEnv("NEW_RELIC_LICENSE_KEY", "")
	configs.NewRelic.AppName = GetEnv("NEW_RELIC_APP_NAME", "")
	configs.NewRelic.Enabled = GetEnvAsBool("NEW_RELIC_ENABLED", false)
	configs.NewRelic.ForwardLogs = GetEnvAsBool("NEW_RELIC_FORWARD_LOGS", false)

	// Logger config
	configs.Logger.Level = GetEnv("LOG_LEVEL", "info")
	configs.Logger.FilePath = GetEnv("LOG_FILE_PATH", "logs/sokocart.log")
	configs.Logger.MaxSize = GetEnvAsInt64("LOG_MAX_SIZE", 100)
	configs.Logger.MaxAge = GetEnvAsInt("LOG_MAX_AGE", 7)
	configs.Logger.MaxBackups = GetEnvAsInt("LOG_MAX_BACKUPS", 3)
	configs.Logger.Compress = GetEnvAsBool("LOG_COMPRESS", true)

	return configs
}

// Helper functions to get environment variables with different types
func GetEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func GetEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		log.Printf("Warning: Invalid int64 value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func GetEnvAsBool(key string, defaultValue bool) bool {
	valueStr := GetEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean value for %s, using default: %v", key, defaultValue)
		return defaultValue
	}

	return value
}
