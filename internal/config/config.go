package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config centraliza a configuração carregada do ambiente.
type Config struct {
	Port             int
	AuthAPIURL       string
	BackendAPIURL    string
	HTTPTimeout      time.Duration
	SessionTTL       time.Duration
	RedisURL         string
	CookieName       string
	CookieSecure     bool
	AllowOrigins     []string
	RateLimitPublico RateLimitConfig
	RateLimitSessao  RateLimitConfig
}

// RateLimitConfig representa limites simples para throttling.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// Load carrega variáveis de ambiente e aplica defaults seguros.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 {
		return nil, errors.New("PORT inválida")
	}
	cfg.Port = port

	cfg.AuthAPIURL = strings.TrimRight(getEnv("AUTH_API_URL", ""), "/")
	if cfg.AuthAPIURL == "" {
		return nil, errors.New("AUTH_API_URL obrigatório")
	}

	cfg.BackendAPIURL = strings.TrimRight(getEnv("BACKEND_API_URL", ""), "/")
	if cfg.BackendAPIURL == "" {
		return nil, errors.New("BACKEND_API_URL obrigatório")
	}

	timeout, err := parseDurationEnv("HTTP_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.HTTPTimeout = timeout

	sessionTTL, err := parseDurationEnv("SESSION_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	cfg.SessionTTL = sessionTTL

	cfg.RedisURL = getEnv("REDIS_URL", "")

	cfg.CookieName = getEnv("COOKIE_NAME", "smartpark_sessao")
	cfg.CookieSecure = strings.EqualFold(getEnv("COOKIE_SECURE", "false"), "true")

	allowOrigins := strings.Split(getEnv("ALLOW_ORIGINS", ""), ",")
	cfg.AllowOrigins = nil
	for _, origin := range allowOrigins {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			cfg.AllowOrigins = append(cfg.AllowOrigins, origin)
		}
	}

	cfg.RateLimitPublico = RateLimitConfig{RequestsPerSecond: 10, Burst: 20}
	cfg.RateLimitSessao = RateLimitConfig{RequestsPerSecond: 10, Burst: 40}

	return cfg, nil
}

func getEnv(key, def string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return def
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	val := getEnv(key, "")
	if val == "" {
		return def, nil
	}
	dur, err := time.ParseDuration(val)
	if err != nil {
		return 0, errors.New(key + " inválido")
	}
	return dur, nil
}
