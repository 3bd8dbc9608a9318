package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	APIBaseURL     string
	ImageBaseURL   string
	APITimeout     time.Duration
	SessionStore   string // sqlite | redis
	SessionDSN     string
	RedisURL       string
	SessionTTL     time.Duration
	LogLevel       string
	LogFile        string
	CookieSecure   bool
	TemplateReload bool
	RateLimit      int // requests per minute per IP
}

func Load() Config {
	// .env is optional; real environment wins over it
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[config] could not read .env: %v", err)
	}

	cfg := Config{
		Port:           getEnv("PORT", "8081"),
		APIBaseURL:     strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:5000"), "/"),
		ImageBaseURL:   strings.TrimRight(getEnv("IMAGE_BASE_URL", "http://localhost:5000/uploads"), "/"),
		APITimeout:     getDuration("API_TIMEOUT", 10*time.Second),
		SessionStore:   strings.ToLower(getEnv("SESSION_STORE", "sqlite")),
		SessionDSN:     getEnv("SESSION_DSN", "storefront-sessions.db"),
		RedisURL:       getEnv("REDIS_URL", "redis://localhost:6379/0"),
		SessionTTL:     getDuration("SESSION_TTL", 7*24*time.Hour),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFile:        os.Getenv("LOG_FILE"),
		CookieSecure:   getBool("COOKIE_SECURE", false),
		TemplateReload: getBool("TEMPLATE_RELOAD", false),
		RateLimit:      getInt("RATE_LIMIT", 120),
	}
	log.Printf("[config] PORT=%s API_BASE_URL=%s IMAGE_BASE_URL=%s SESSION_STORE=%s LOG_LEVEL=%s",
		cfg.Port, cfg.APIBaseURL, cfg.ImageBaseURL, cfg.SessionStore, cfg.LogLevel)
	return cfg
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getBool(key string, def bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return def
	}
	return v
}

func getInt(key string, def int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// getDuration accepts Go durations ("30s") or plain seconds ("30").
func getDuration(key string, def time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return def
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(raw); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return def
}
