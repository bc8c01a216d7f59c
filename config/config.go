package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

const (
	DefaultPort                  = "8080"
	DefaultAccessTokenExpiryMin  = 15
	DefaultRefreshTokenExpiryMin = 10080
	DefaultEmailTokenExpiryHours = 72
	DefaultSMTPPort              = 587
)

type Config struct {
	Env          string
	Port         string
	ProjectName  string
	DBURL        string
	SecretKey    string
	FrontendHost string
	CORSOrigins  []string

	AccessExpiryMin  int
	RefreshExpiryMin int
	EmailExpiryHours int

	SMTPHost       string
	SMTPPort       int
	SMTPUser       string
	SMTPPassword   string
	SMTPTLS        bool
	EmailsFrom     string
	EmailsFromName string
}

func Load() *Config {
	cfg := &Config{
		Env:              getEnv("ENVIRONMENT", "local"),
		Port:             getEnv("PORT", DefaultPort),
		ProjectName:      getEnv("PROJECT_NAME", "account-service"),
		DBURL:            mustGetEnv("DB_URL"),
		SecretKey:        mustGetEnv("SECRET_KEY"),
		FrontendHost:     getEnv("FRONTEND_HOST", "http://localhost:5173"),
		CORSOrigins:      getEnvAsList("BACKEND_CORS_ORIGINS"),
		AccessExpiryMin:  getEnvAsInt("ACCESS_TOKEN_EXPIRY", DefaultAccessTokenExpiryMin),
		RefreshExpiryMin: getEnvAsInt("REFRESH_TOKEN_EXPIRY", DefaultRefreshTokenExpiryMin),
		EmailExpiryHours: getEnvAsInt("EMAIL_TOKEN_EXPIRY_HOURS", DefaultEmailTokenExpiryHours),
		SMTPHost:         getEnv("SMTP_HOST", ""),
		SMTPPort:         getEnvAsInt("SMTP_PORT", DefaultSMTPPort),
		SMTPUser:         getEnv("SMTP_USER", ""),
		SMTPPassword:     getEnv("SMTP_PASSWORD", ""),
		SMTPTLS:          getEnvAsBool("SMTP_TLS", true),
		EmailsFrom:       getEnv("EMAILS_FROM_EMAIL", ""),
		EmailsFromName:   getEnv("EMAILS_FROM_NAME", ""),
	}

	if cfg.EmailsFromName == "" {
		cfg.EmailsFromName = cfg.ProjectName
	}

	return cfg
}

// EmailsEnabled reports whether outbound email is configured. When false the
// service still serves every endpoint; mail simply never leaves the process.
func (c *Config) EmailsEnabled() bool {
	return c.SMTPHost != "" && c.EmailsFrom != ""
}

// AllCORSOrigins is the configured origin list plus the frontend host.
func (c *Config) AllCORSOrigins() []string {
	origins := make([]string, 0, len(c.CORSOrigins)+1)
	for _, o := range c.CORSOrigins {
		origins = append(origins, strings.TrimRight(o, "/"))
	}
	return append(origins, strings.TrimRight(c.FrontendHost, "/"))
}

func getEnv(key string, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func mustGetEnv(key string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	log.Fatalf("Missing required config: %s", key)
	return ""
}

func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		log.Printf("Invalid value for %s, using default %d", key, defaultVal)
		return defaultVal
	}
	return val
}

func getEnvAsBool(key string, defaultVal bool) bool {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Invalid value for %s, using default %t", key, defaultVal)
		return defaultVal
	}
	return val
}

func getEnvAsList(key string) []string {
	valStr := os.Getenv(key)
	if valStr == "" {
		return nil
	}
	parts := strings.Split(valStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
