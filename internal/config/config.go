package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Kafka consumer. The subscriber is started only when a broker
	// address is configured.
	KafkaBroker  string
	KafkaTopic   string
	KafkaGroupID string
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		// Server
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "chronicle"),
		DBPassword: getEnv("DB_PASSWORD", "chronicle"),
		DBName:     getEnv("DB_NAME", "chronicle"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// Kafka
		KafkaBroker:  getEnv("KAFKA_BROKER", ""),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "activity-logs"),
		KafkaGroupID: getEnv("KAFKA_GROUP_ID", "chronicle-api"),
	}

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
