package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Form variants. The deployed event decides which extra fields the form
// collects; it is a configuration choice, never a runtime branch.
const (
	VariantStartup = "startup" // poste + startup
	VariantAdresse = "adresse" // pays + adresse
)

// Email provider names for EMAIL_PROVIDER.
const (
	ProviderEmailJS = "emailjs"
	ProviderResend  = "resend"
	ProviderSMTP    = "smtp"
	ProviderNone    = "none"
)

// Config holds application configuration loaded from environment.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Email     EmailConfig
	Form      FormConfig
	Countries CountriesConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port               string
	ReadTimeout        int
	WriteTimeout       int
	CORSAllowedOrigins string // comma-separated, or "*" for all
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	URL      string // if set, used as-is
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// EmailConfig selects and configures the confirmation email provider.
// Provider is one of emailjs, resend, smtp, none.
type EmailConfig struct {
	Provider    string
	FromAddress string
	FromName    string

	// EmailJS REST API
	EmailJSServiceID  string
	EmailJSTemplateID string
	EmailJSPublicKey  string
	EmailJSOrigin     string // Origin header required by the EmailJS API

	// Resend REST API
	ResendAPIKey string

	// SMTP
	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
}

// FormConfig holds form-level deployment choices.
type FormConfig struct {
	Variant       string // startup or adresse
	RelayEndpoint string // optional client-side mail relay (Formspree-style); empty = disabled
}

// CountriesConfig holds the country-list lookup settings (adresse variant).
type CountriesConfig struct {
	LookupURL  string
	TimeoutSec int
}

// DSN returns the PostgreSQL connection string.
// If DatabaseConfig.URL is set (e.g. DATABASE_URL env), it is used as-is; otherwise built from components.
func (c DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

// Load reads configuration from environment, with optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	readTimeout, _ := strconv.Atoi(getEnv("READ_TIMEOUT_SEC", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("WRITE_TIMEOUT_SEC", "30"))

	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "8080"),
			ReadTimeout:        readTimeout,
			WriteTimeout:       writeTimeout,
			CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		},
		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", ""),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "inscriptions"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Email: EmailConfig{
			Provider:          strings.ToLower(getEnv("EMAIL_PROVIDER", ProviderNone)),
			FromAddress:       getEnv("EMAIL_FROM_ADDRESS", "noreply@forumdeeptech.fr"),
			FromName:          getEnv("EMAIL_FROM_NAME", "Forum Deeptech"),
			EmailJSServiceID:  getEnv("EMAILJS_SERVICE_ID", ""),
			EmailJSTemplateID: getEnv("EMAILJS_TEMPLATE_ID", ""),
			EmailJSPublicKey:  getEnv("EMAILJS_PUBLIC_KEY", ""),
			EmailJSOrigin:     getEnv("EMAILJS_ORIGIN", "https://forumdeeptech2026.vercel.app"),
			ResendAPIKey:      getEnv("RESEND_API_KEY", ""),
			SMTPHost:          getEnv("SMTP_HOST", ""),
			SMTPPort:          getEnvInt("SMTP_PORT", 587),
			SMTPUser:          getEnv("SMTP_USER", ""),
			SMTPPass:          getEnv("SMTP_PASS", ""),
		},
		Form: FormConfig{
			Variant:       strings.ToLower(getEnv("FORM_VARIANT", VariantStartup)),
			RelayEndpoint: strings.TrimSpace(getEnv("MAIL_RELAY_ENDPOINT", "")),
		},
		Countries: CountriesConfig{
			LookupURL:  getEnv("COUNTRIES_LOOKUP_URL", "https://restcountries.com/v3.1/all?fields=translations"),
			TimeoutSec: getEnvInt("COUNTRIES_TIMEOUT_SEC", 5),
		},
	}

	if cfg.Form.Variant != VariantStartup && cfg.Form.Variant != VariantAdresse {
		return nil, fmt.Errorf("unknown FORM_VARIANT %q", cfg.Form.Variant)
	}
	switch cfg.Email.Provider {
	case ProviderEmailJS, ProviderResend, ProviderSMTP, ProviderNone:
	default:
		return nil, fmt.Errorf("unknown EMAIL_PROVIDER %q", cfg.Email.Provider)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
