package config

import (
	"os"
	"strconv"
	"time"

	"habit_webapp/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort        string
	DatabaseURL    string
	JWTSecret      string
	IdentitySecret string // shared secret with the auth provider
	Timezone       string // logical timezone used to resolve "today"

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Check-in limits
	EditWindowDays    int
	CheckinRateLimit  int // per user, per window
	CheckinRateWindow int // seconds
}

// Загрузка конфига из env
func Load() *Config {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	identitySecret := os.Getenv("IDENTITY_SECRET")
	if identitySecret == "" && os.Getenv("DEV_MODE") != "true" {
		logger.Fatal("IDENTITY_SECRET is not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	tz := os.Getenv("APP_TIMEZONE")
	if tz == "" {
		tz = "UTC"
	}
	if _, err := time.LoadLocation(tz); err != nil {
		logger.Fatal("invalid APP_TIMEZONE", "tz", tz, "error", err)
	}

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			redisDB = n
		}
	}

	// Окно редактирования (по умолчанию 30 дней)
	editWindow := 30
	if v := os.Getenv("EDIT_WINDOW_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			editWindow = n
		}
	}

	checkinRateLimit := 30
	if v := os.Getenv("CHECKIN_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			checkinRateLimit = n
		}
	}

	checkinRateWindow := 60
	if v := os.Getenv("CHECKIN_RATE_WINDOW"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			checkinRateWindow = n
		}
	}

	return &Config{
		AppPort:           port,
		DatabaseURL:       dbURL,
		JWTSecret:         jwtSecret,
		IdentitySecret:    identitySecret,
		Timezone:          tz,
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		RedisDB:           redisDB,
		EditWindowDays:    editWindow,
		CheckinRateLimit:  checkinRateLimit,
		CheckinRateWindow: checkinRateWindow,
	}
}
