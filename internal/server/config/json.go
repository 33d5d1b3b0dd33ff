package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/celestia-oracle/celestia/internal/flagx"
	"github.com/celestia-oracle/celestia/internal/timex"
)

// JsonConfig is the intermediate DTO used only for reading JSON config
// files. Interval fields use timex.Duration so both "24h" strings and
// integer nanoseconds parse. Values are copied into the runtime Config.
type JsonConfig struct {
	Addr           string         `json:"addr"`
	DatabaseDSN    string         `json:"database_dsn"`
	SecretKey      string         `json:"secret_key"`
	AccessTokenTTL timex.Duration `json:"access_token_ttl"`
	VerifyTokenTTL timex.Duration `json:"verify_token_ttl"`
	ResetTokenTTL  timex.Duration `json:"reset_token_ttl"`
	AppURL         string         `json:"app_url"`
	SMTPHost       string         `json:"smtp_host"`
	SMTPPort       int            `json:"smtp_port"`
	SMTPUser       string         `json:"smtp_user"`
	SMTPPassword   string         `json:"smtp_password"`
	FromEmail      string         `json:"from_email"`
	OpenAIAPIKey   string         `json:"openai_api_key"`
	ModelName      string         `json:"model_name"`
	HistoryLimit   int            `json:"history_limit"`
	EmailTimeout   timex.Duration `json:"email_timeout"`
	ModelTimeout   timex.Duration `json:"model_timeout"`
}

// parseJson loads configuration values from the JSON file named by the
// -c/-config flags into the provided Config. Absent file path means nothing
// is loaded; an unreadable or invalid file panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.Addr != "" {
		config.Addr = c.Addr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.AccessTokenTTL.Duration != 0 {
		config.AccessTokenTTL = time.Duration(c.AccessTokenTTL.Duration)
	}
	if c.VerifyTokenTTL.Duration != 0 {
		config.VerifyTokenTTL = time.Duration(c.VerifyTokenTTL.Duration)
	}
	if c.ResetTokenTTL.Duration != 0 {
		config.ResetTokenTTL = time.Duration(c.ResetTokenTTL.Duration)
	}
	if c.AppURL != "" {
		config.AppURL = c.AppURL
	}
	if c.SMTPHost != "" {
		config.SMTPHost = c.SMTPHost
	}
	if c.SMTPPort != 0 {
		config.SMTPPort = c.SMTPPort
	}
	if c.SMTPUser != "" {
		config.SMTPUser = c.SMTPUser
	}
	if c.SMTPPassword != "" {
		config.SMTPPassword = c.SMTPPassword
	}
	if c.FromEmail != "" {
		config.FromEmail = c.FromEmail
	}
	if c.OpenAIAPIKey != "" {
		config.OpenAIAPIKey = c.OpenAIAPIKey
	}
	if c.ModelName != "" {
		config.ModelName = c.ModelName
	}
	if c.HistoryLimit != 0 {
		config.HistoryLimit = c.HistoryLimit
	}
	if c.EmailTimeout.Duration != 0 {
		config.EmailTimeout = time.Duration(c.EmailTimeout.Duration)
	}
	if c.ModelTimeout.Duration != 0 {
		config.ModelTimeout = time.Duration(c.ModelTimeout.Duration)
	}
}
