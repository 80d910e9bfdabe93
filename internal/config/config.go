package config

import (
	"os"
	"strings"
)

type Config struct {
	App      AppConfig
	Auth     AuthConfig
	Postgres PostgresConfig
	SMTP     SMTPConfig
	Storage  StorageConfig
}

type AppConfig struct {
	Port           string
	FrontendURL    string
	AllowedOrigins []string
}

type AuthConfig struct {
	JWTSecret string
}

type PostgresConfig struct {
	DatabaseURL string
	Host        string
	Port        string
	User        string
	Password    string
	Database    string
	SSLMode     string
}

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	FromName string
}

type StorageConfig struct {
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
}

func Load() Config {
	return Config{
		App: AppConfig{
			Port:           getenv("PORT", "8080"),
			FrontendURL:    getenv("FRONTEND_URL", "http://localhost:5173"),
			AllowedOrigins: splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("JWT_SECRET"),
		},
		Postgres: PostgresConfig{
			DatabaseURL: os.Getenv("DATABASE_URL"),
			Host:        getenv("PGHOST", "localhost"),
			Port:        getenv("PGPORT", "5432"),
			User:        os.Getenv("PGUSER"),
			Password:    os.Getenv("PGPASSWORD"),
			Database:    os.Getenv("PGDATABASE"),
			SSLMode:     getenv("PGSSLMODE", "disable"),
		},
		SMTP: SMTPConfig{
			Host:     getenv("SMTP_HOST", "smtp.gmail.com"),
			Port:     getenv("SMTP_PORT", "587"),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     getenv("SMTP_FROM", "noreply@movietrack.dev"),
			FromName: getenv("SMTP_FROM_NAME", "MovieTrack"),
		},
		Storage: StorageConfig{
			Region:    os.Getenv("AWS_S3_REGION"),
			Bucket:    os.Getenv("AWS_S3_BUCKET_NAME"),
			AccessKey: os.Getenv("APP_AWS_ACCESS_KEY"),
			SecretKey: os.Getenv("APP_AWS_SECRET_ACCESS_KEY"),
		},
	}
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
