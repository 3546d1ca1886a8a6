package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Gmail     GmailConfig
	Extractor ExtractorConfig
	Sync      SyncConfig
	Rates     RatesConfig
}

type ServerConfig struct {
	Port             string
	Host             string
	Environment      string
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	CORSAllowOrigins []string
}

type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxConnections  int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type AuthConfig struct {
	// SessionSecret signs the HS256 session tokens issued by the OAuth
	// callback. TokenCipherKey encrypts stored Gmail tokens at rest.
	SessionSecret  string
	SessionTTL     time.Duration
	TokenCipherKey string
}

type GmailConfig struct {
	OAuthClientID     string
	OAuthClientSecret string
	BankSenders       []string
	PageSize          int64
}

type ExtractorConfig struct {
	Model     string
	MaxTokens int32
}

type SyncConfig struct {
	Interval            time.Duration
	DefaultLookbackDays int
	MinLookbackDays     int
	MaxLookbackDays     int
}

type RatesConfig struct {
	APIURL       string
	CacheTTL     time.Duration
	FetchTimeout time.Duration
	FallbackRate string
}

// defaultBankSenders are the notification addresses of the Peruvian banks
// the mailbox query filters on when BANK_SENDERS is not set.
var defaultBankSenders = []string{
	"alertas@bcp.com.pe",
	"notificaciones@interbank.pe",
	"avisos@bbva.pe",
	"alertas@scotiabank.com.pe",
	"notificaciones@notificacionesbcp.com.pe",
	"servicioalcliente@netinterbank.com.pe",
	"no-reply@operaciones.agora.pe",
	"notificaciones.io.pe",
}

func Load() *Config {
	config := &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Host:         getEnv("SERVER_HOST", "localhost"),
			Environment:  getEnv("APP_ENV", "development"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 15*time.Second),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "soltrack_user"),
			Password:        getEnv("DB_PASSWORD", "soltrack_password"),
			Name:            getEnv("DB_NAME", "soltrack_db"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxConnections:  getIntEnv("DB_MAX_CONNECTIONS", 25),
			MaxIdleConns:    getIntEnv("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getDurationEnv("DB_CONN_MAX_LIFETIME", time.Hour),
		},
		Auth: AuthConfig{
			SessionSecret:  getEnv("SESSION_SECRET", ""),
			SessionTTL:     getDurationEnv("SESSION_TTL", 7*24*time.Hour),
			TokenCipherKey: getEnv("TOKEN_CIPHER_KEY", ""),
		},
		Gmail: GmailConfig{
			OAuthClientID:     getEnv("GOOGLE_OAUTH_CLIENT_ID", ""),
			OAuthClientSecret: getEnv("GOOGLE_OAUTH_CLIENT_SECRET", ""),
			BankSenders:       getListEnv("BANK_SENDERS", defaultBankSenders),
			PageSize:          int64(getIntEnv("GMAIL_PAGE_SIZE", 100)),
		},
		Extractor: ExtractorConfig{
			Model:     getEnv("EXTRACTOR_MODEL", "gemini-2.0-flash"),
			MaxTokens: int32(getIntEnv("EXTRACTOR_MAX_TOKENS", 1024)),
		},
		Sync: SyncConfig{
			Interval:            getDurationEnv("SYNC_INTERVAL", 6*time.Hour),
			DefaultLookbackDays: getIntEnv("SYNC_DEFAULT_LOOKBACK_DAYS", 7),
			MinLookbackDays:     1,
			MaxLookbackDays:     180,
		},
		Rates: RatesConfig{
			APIURL:       getEnv("EXCHANGE_RATE_API_URL", "https://open.er-api.com/v6/latest/%s"),
			CacheTTL:     getDurationEnv("EXCHANGE_RATE_CACHE_TTL", 24*time.Hour),
			FetchTimeout: getDurationEnv("EXCHANGE_RATE_FETCH_TIMEOUT", 5*time.Second),
			FallbackRate: getEnv("EXCHANGE_RATE_FALLBACK", "0.27"),
		},
	}

	config.Server.CORSAllowOrigins = loadCORSAllowOrigins()

	return config
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Environment == "development"
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
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

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parts := strings.Split(value, ",")
	list := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			list = append(list, trimmed)
		}
	}
	if len(list) == 0 {
		return defaultValue
	}
	return list
}

func loadCORSAllowOrigins() []string {
	corsOrigins := os.Getenv("CORS_ALLOW_ORIGINS")
	if corsOrigins == "" {
		return []string{"http://localhost:5173"}
	}

	origins := strings.Split(corsOrigins, ",")
	for i, origin := range origins {
		origins[i] = strings.TrimSpace(origin)
	}
	return origins
}
