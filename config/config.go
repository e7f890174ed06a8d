package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	AppMode        string
	APIBaseURL     string
	RequestTimeout int

	// Where the session record is persisted: "file", "redis" or "memory".
	StateBackend string
	StateFile    string

	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	GoogleClientID string
	LoopbackPort   string
}

func LoadConfig() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	return &Config{
		AppMode:        getEnv("APP_MODE", "development"),
		APIBaseURL:     getEnv("API_BASE_URL", "http://127.0.0.1:8000/api"),
		RequestTimeout: getEnvAsInt("REQUEST_TIMEOUT_SECONDS", 30),
		StateBackend:   getEnv("STATE_BACKEND", "file"),
		StateFile:      getEnv("STATE_FILE", defaultStateFile()),
		RedisHost:      getEnv("REDIS_HOST", "localhost"),
		RedisPort:      getEnv("REDIS_PORT", "6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        getEnvAsInt("REDIS_DB", 0),
		GoogleClientID: getEnv("GOOGLE_CLIENT_ID", ""),
		LoopbackPort:   getEnv("LOOPBACK_PORT", "8910"),
	}
}

func defaultStateFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		log.Println("cannot resolve home directory, persisting state in working directory")
		return ".cinepoll.json"
	}
	return home + "/.cinepoll.json"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}
