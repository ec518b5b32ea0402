package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"formpulse/internal/log"
)

const devJWTSecret = "super-secret-key-change-in-production"

// Config holds process-wide settings read from the environment
type Config struct {
	MongoURI  string
	MongoDB   string
	RedisAddr string
	HTTPPort  string

	JWTSecret string
	TokenTTL  time.Duration

	CORSAllowedOrigins string
	LogLevel           string

	PublicFormCacheTTL time.Duration
	SubmitRateLimit    int
	SubmitRateWindow   time.Duration
	MaxBodyBytes       int64
}

// Load reads a .env file when present, then the environment
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found")
	}

	cfg := &Config{
		MongoURI:           getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:            getEnv("MONGO_DB", "formpulse"),
		RedisAddr:          redisAddr(getEnv("REDIS_URI", "localhost:6379")),
		HTTPPort:           getEnv("PORT", "8080"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		TokenTTL:           getDuration("TOKEN_TTL", 7*24*time.Hour),
		CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		PublicFormCacheTTL: getDuration("PUBLIC_FORM_CACHE_TTL", 10*time.Minute),
		SubmitRateLimit:    getInt("SUBMIT_RATE_LIMIT", 20),
		SubmitRateWindow:   getDuration("SUBMIT_RATE_WINDOW", time.Minute),
		MaxBodyBytes:       int64(getInt("MAX_BODY_BYTES", 1<<20)),
	}

	if cfg.JWTSecret == "" {
		log.Warn("JWT_SECRET not set, using development default")
		cfg.JWTSecret = devJWTSecret
	}

	return cfg
}

// redisAddr strips the redis:// scheme go-redis Options.Addr does not accept
func redisAddr(uri string) string {
	return strings.TrimPrefix(uri, "redis://")
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		log.Warnf("invalid %s=%q, using %d", key, val, defaultVal)
		return defaultVal
	}
	return n
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		log.Warnf("invalid %s=%q, using %s", key, val, defaultVal)
		return defaultVal
	}
	return d
}
