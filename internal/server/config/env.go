package config

import (
	"os"
	"strconv"
)

// parseEnv overlays environment variables onto the config. Variable names
// follow the deployment's .env convention (SMTP_*, OPENAI_API_KEY, ...).
func parseEnv(config *Config) {
	setString(&config.Addr, "SERVER_ADDR")
	setString(&config.DatabaseDSN, "DATABASE_URL")
	setString(&config.SecretKey, "SECRET_KEY")
	setString(&config.AppURL, "APP_URL")
	setString(&config.SMTPHost, "SMTP_HOST")
	setInt(&config.SMTPPort, "SMTP_PORT")
	setString(&config.SMTPUser, "SMTP_USER")
	setString(&config.SMTPPassword, "SMTP_PASSWORD")
	setString(&config.FromEmail, "FROM_EMAIL")
	setString(&config.OpenAIAPIKey, "OPENAI_API_KEY")
	setString(&config.ModelName, "MODEL_NAME")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
