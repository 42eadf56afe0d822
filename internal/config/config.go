package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port          string
	MongoURI      string
	MongoDatabase string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration
	JWTSecret     string
	NatsURL       string
	EmailAPIKey   string
	EmailSender   string
}

func Load() *Config {
	return &Config{
		Port:          GetEnvAsString("PORT", "3000"),
		MongoURI:      GetEnvAsString("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: GetEnvAsString("MONGO_DB", "astrologer"),
		RedisAddr:     GetEnvAsString("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       GetEnvAsInt("REDIS_DB", 0),
		CacheTTL:      GetEnvAsDuration("CACHE_TTL", time.Hour),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		NatsURL:       os.Getenv("NATS_URL"),
		EmailAPIKey:   os.Getenv("EMAIL_API_KEY"),
		EmailSender:   os.Getenv("EMAIL_SENDER"),
	}
}

// GetEnvAsString gets environment variable as string with default value
func GetEnvAsString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvAsInt gets environment variable as int with default value
func GetEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// GetEnvAsDuration gets environment variable as duration with default value
func GetEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
