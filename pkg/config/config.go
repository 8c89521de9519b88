package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr    string
	PostgresDSN string
	MongoURI    string
	MongoDB     string
	RedisAddr   string
	NatsURL     string
	SecretKey   string
	LogLevel    string

	ReportHideThreshold int
	LocationGridMeters  float64
	SponsorEvery        int
	FeedPageSize        int
	CommentPageSize     int
	PostTTL             time.Duration

	OTPTTL        time.Duration
	OTPDevCode    string
	AllowAnon     bool
	DefaultAdCity string

	RateLimitMax    int
	RateLimitWindow time.Duration
}

// Load reads the optional dotenv file and overlays the process environment.
// A missing file is not an error: every key has a default.
func Load(dotenvPath string) Config {
	env, err := godotenv.Read(dotenvPath)
	if err != nil {
		env = map[string]string{}
	}
	return fromEnv(env)
}

func fromEnv(file map[string]string) Config {
	get := func(key, fallback string) string {
		if v := os.Getenv(key); v != "" {
			return strings.TrimSpace(v)
		}
		if v, ok := file[key]; ok && v != "" {
			return strings.TrimSpace(v)
		}
		return fallback
	}

	return Config{
		HTTPAddr:    get("HTTP_ADDR", ":3000"),
		PostgresDSN: get("POSTGRES_DSN", "postgres://localhost:5432/spotted?sslmode=disable"),
		MongoURI:    get("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDB:     get("MONGODB_DB", "spotted"),
		RedisAddr:   get("REDIS_ADDR", "redis://localhost:6379"),
		NatsURL:     get("NATS_URL", "nats://localhost:4222"),
		SecretKey:   get("SECRET_KEY", "dev-secret"),
		LogLevel:    get("LOG_LEVEL", "info"),

		ReportHideThreshold: atoi(get("REPORT_HIDE_THRESHOLD", ""), 20),
		LocationGridMeters:  atof(get("LOCATION_GRID_METERS", ""), 1000),
		SponsorEvery:        atoi(get("SPONSOR_EVERY", ""), 8),
		FeedPageSize:        atoi(get("FEED_PAGE_SIZE", ""), 20),
		CommentPageSize:     atoi(get("COMMENT_PAGE_SIZE", ""), 50),
		PostTTL:             duration(get("POST_TTL", ""), 24*time.Hour),

		OTPTTL:        time.Duration(atoi(get("OTP_TTL_SECONDS", ""), 300)) * time.Second,
		OTPDevCode:    get("OTP_DEV_CODE", ""),
		AllowAnon:     get("ALLOW_ANON", "false") == "true",
		DefaultAdCity: get("DEFAULT_AD_CITY", "istanbul"),

		RateLimitMax:    atoi(get("RATE_LIMIT_MAX", ""), 60),
		RateLimitWindow: time.Duration(atoi(get("RATE_LIMIT_TIME_WINDOW", ""), 60000)) * time.Millisecond,
	}
}

func atoi(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

func atof(s string, fallback float64) float64 {
	if s == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}
	return f
}

func duration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
