package models

// Config represents application configuration
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	NATS     NATSConfig
	Mpesa    MpesaConfig
	Payment  PaymentConfig
	Services ServicesConfig
	NewRelic NewRelicConfig
	Logger   LoggerConfig
}

// AppConfig contains application-specific configuration
type AppConfig struct {
	Name        string
	Environment string
	Debug       bool
	Version     string
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Driver    string
	Host      string
	Port      int
	Username  string
	Password  string
	Database  string
	SSLMode   string
	MaxConns  int
	IdleConns int
}

// RedisConfig contains Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

// NATSConfig contains NATS connection configuration
type NATSConfig struct {
	URL string
}

// MpesaConfig contains the Daraja API credentials and endpoints used by the
// payments service to initiate STK push requests
type MpesaConfig struct {
	BaseURL         string
	ConsumerKey     string
	ConsumerSecret  string
	ShortCode       string
	PassKey         string
	CallbackBaseURL string
	TransactionDesc string
	Timeout         int // HTTP timeout in seconds for provider calls
}

// PaymentConfig contains payment lifecycle configuration
type PaymentConfig struct {
	ValidityWindowMinutes int // how long a pending STK push stays resolvable
	SweepIntervalSeconds  int // how often the timeout sweeper runs
	StatusCacheTTLMinutes int // TTL for cached transaction status entries
}

// ServicesConfig contains URLs for other services
type ServicesConfig struct {
	PaymentServiceURL string
}

// NewRelicConfig contains New Relic monitoring configuration
type NewRelicConfig struct {
	LicenseKey  string
	AppName     string
	Enabled     bool
	ForwardLogs bool
}

// LoggerConfig contains logging configuration
type LoggerConfig struct {
	Level      string
	FilePath   string
	MaxSize    int64
	MaxAge     int
	MaxBackups int
	Compress   bool
}
