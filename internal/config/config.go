package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/mtakagi/task-tracker-api/internal/constants"
)

// Supported database drivers
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

type Config struct {
	DBDriver          string
	DBHost            string
	DBPort            string
	DBUser            string
	DBPassword        string
	DBName            string
	RedisHost         string
	RedisPort         string
	SessionSecret     string
	GinMode           string
	ServerAddr        string
	PasswordMinLength int
}

func Load() *Config {
	// Optional .env for local development; real deployments use the environment
	_ = godotenv.Load()

	return &Config{
		DBDriver:          getEnv("DB_DRIVER", DriverMySQL),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "3306"),
		DBUser:            getEnv("DB_USER", "taskuser"),
		DBPassword:        getEnv("DB_PASSWORD", "taskpassword"),
		DBName:            getEnv("DB_NAME", "task_tracker"),
		RedisHost:         getEnv("REDIS_HOST", ""),
		RedisPort:         getEnv("REDIS_PORT", "6379"),
		SessionSecret:     getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		GinMode:           getEnv("GIN_MODE", "debug"),
		ServerAddr:        getEnv("SERVER_ADDR", ":8080"),
		PasswordMinLength: getEnvInt("PASSWORD_MIN_LENGTH", constants.DefaultMinPasswordLength),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
