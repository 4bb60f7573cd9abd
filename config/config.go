package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	JWTSecret  string
	ServerPort string

	// SMTP settings for the notification mailer.
	SMTPHost   string
	SMTPPort   string
	SMTPSender string
	SMTPPass   string

	// Certificate storage: base URL the signed links point at, the
	// secret used to sign them, and the local root for rendered files.
	StorageBaseURL string
	StorageSecret  string
	StorageRoot    string
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "trainhub"),
		JWTSecret:  getEnv("JWT_SECRET", "secret"),
		ServerPort: getEnv("SERVER_PORT", "8080"),

		SMTPHost:   getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:   getEnv("SMTP_PORT", "587"),
		SMTPSender: getEnv("SMTP_SENDER", ""),
		SMTPPass:   getEnv("SMTP_PASSWORD", ""),

		StorageBaseURL: getEnv("STORAGE_BASE_URL", "http://localhost:8080/files"),
		StorageSecret:  getEnv("STORAGE_SECRET", "storage-secret"),
		StorageRoot:    getEnv("STORAGE_ROOT", "storage"),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
