package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config holds the application configuration
type Config struct {
	Port            string
	DatabasePath    string
	SheetWebhookURL string
	WhatsAppDataDir string
	NotifyPhone     string
	ExportDir       string

	BrideName   string
	GroomName   string
	WeddingDate string

	AllowedOrigins      []string
	SubmitRatePerMinute int64
	LogLevel            zerolog.Level
}

// LoadConfig loads configuration from a .env file (when present), the
// environment, or defaults
func LoadConfig() *Config {
	// A missing .env is normal in production
	_ = godotenv.Load()

	return &Config{
		Port:            getEnv("PORT", "8080"),
		DatabasePath:    getEnv("DATABASE_PATH", "data/rsvp.db"),
		SheetWebhookURL: getEnv("SHEET_WEBHOOK_URL", ""),
		WhatsAppDataDir: getEnv("WHATSAPP_DATA_DIR", "data"),
		NotifyPhone:     getEnv("WHATSAPP_NOTIFY_PHONE", ""),
		ExportDir:       getEnv("EXPORT_DIR", "exports"),

		BrideName:   getEnv("BRIDE_NAME", "Bride"),
		GroomName:   getEnv("GROOM_NAME", "Groom"),
		WeddingDate: getEnv("WEDDING_DATE", "zaterdag 2 mei 2026"),

		AllowedOrigins:      getList("ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		SubmitRatePerMinute: getInt("SUBMIT_RATE_PER_MINUTE", 20),
		LogLevel:            getLevel("LOG_LEVEL", zerolog.InfoLevel),
	}
}

// NotifyEnabled reports whether RSVPs should be forwarded to WhatsApp
func (c *Config) NotifyEnabled() bool {
	return c.NotifyPhone != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getList(key string, defaultValue []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

func getInt(key string, defaultValue int64) int64 {
	n, err := strconv.ParseInt(getEnv(key, ""), 10, 64)
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}

func getLevel(key string, defaultValue zerolog.Level) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(getEnv(key, "")))
	if err != nil || level == zerolog.NoLevel {
		return defaultValue
	}
	return level
}
