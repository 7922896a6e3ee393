package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment key, e.g. VASTU_NOTIFY_URL.
const EnvPrefix = "VASTU"

// Keys understood by Load. Flag names use the same spelling with dashes.
const (
	KeyAPIBaseURL     = "api_base_url"
	KeyAPIKey         = "api_key"
	KeyNotifyURL      = "notify_url"
	KeyNotifyTimeout  = "notify_timeout"
	KeyDB             = "db"
	KeyAddr           = "addr"
	KeyQuestions      = "questions"
	KeySendGridAPIKey = "sendgrid_api_key"
	KeyFromEmail      = "from_email"
	KeyFromName       = "from_name"
	KeyAdminEmail     = "admin_email"
	KeyBookingURL     = "booking_url"
	KeyRedisAddr      = "redis_addr"
	KeyRedisPassword  = "redis_password"
	KeyRedisDB        = "redis_db"
	KeyAllowedOrigins = "allowed_origins"
)

// Config is the resolved application configuration.
type Config struct {
	APIBaseURL     string
	APIKey         string
	NotifyURL      string
	NotifyTimeout  time.Duration
	DB             string
	Addr           string
	Questions      string
	SendGridAPIKey string
	FromEmail      string
	FromName       string
	AdminEmail     string
	BookingURL     string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	AllowedOrigins []string
}

// New returns a viper instance with defaults and environment binding.
// Callers bind cobra flags onto it before calling From.
func New() *viper.Viper {
	v := viper.New()
	v.SetTypeByDefaultValue(true)

	v.SetDefault(KeyAPIBaseURL, "")
	v.SetDefault(KeyAPIKey, "")
	v.SetDefault(KeyNotifyURL, "http://localhost:8080/api/questionnaire-email")
	v.SetDefault(KeyNotifyTimeout, time.Duration(0))
	v.SetDefault(KeyDB, "")
	v.SetDefault(KeyAddr, ":8080")
	v.SetDefault(KeyQuestions, "")
	v.SetDefault(KeySendGridAPIKey, "")
	v.SetDefault(KeyFromEmail, "hello@vastu.local")
	v.SetDefault(KeyFromName, "Vastu Consultancy")
	v.SetDefault(KeyAdminEmail, "")
	v.SetDefault(KeyBookingURL, "https://vastu.local/book-consultation")
	v.SetDefault(KeyRedisAddr, "")
	v.SetDefault(KeyRedisPassword, "")
	v.SetDefault(KeyRedisDB, 0)
	v.SetDefault(KeyAllowedOrigins, "*")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadDotEnv loads a .env file into the process environment if it exists.
// Variables already set are not overridden.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// From reads the resolved values out of v.
func From(v *viper.Viper) Config {
	return Config{
		APIBaseURL:     strings.TrimRight(v.GetString(KeyAPIBaseURL), "/"),
		APIKey:         v.GetString(KeyAPIKey),
		NotifyURL:      v.GetString(KeyNotifyURL),
		NotifyTimeout:  v.GetDuration(KeyNotifyTimeout),
		DB:             v.GetString(KeyDB),
		Addr:           v.GetString(KeyAddr),
		Questions:      v.GetString(KeyQuestions),
		SendGridAPIKey: v.GetString(KeySendGridAPIKey),
		FromEmail:      v.GetString(KeyFromEmail),
		FromName:       v.GetString(KeyFromName),
		AdminEmail:     v.GetString(KeyAdminEmail),
		BookingURL:     v.GetString(KeyBookingURL),
		RedisAddr:      v.GetString(KeyRedisAddr),
		RedisPassword:  v.GetString(KeyRedisPassword),
		RedisDB:        v.GetInt(KeyRedisDB),
		AllowedOrigins: splitList(v.GetString(KeyAllowedOrigins)),
	}
}

// CMSEnabled reports whether a CMS base URL is configured.
func (c Config) CMSEnabled() bool {
	return c.APIBaseURL != ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
