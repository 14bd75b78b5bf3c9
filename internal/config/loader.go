package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Load loads and validates configuration from:
// 1. Default values
// 2. config.yaml file
// 3. DISPATCH_* environment variables
func Load() (*Config, error) {
	setDefaults()

	if err := readConfigFile(); err != nil {
		return nil, fmt.Errorf("%w: failed to load config file: %v", ErrConfiguration, err)
	}

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrConfiguration, err)
	}

	if len(cfg.Scheduler.Tasks) == 0 {
		cfg.Scheduler.Tasks = DefaultSchedulerTasks
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// envKeys lists every configuration key that may arrive through a
// DISPATCH_* environment variable. AutomaticEnv alone is not enough for
// Unmarshal: viper only surfaces keys it already knows from a default, the
// config file, or an explicit binding, and the uploader credentials
// deliberately have no defaults. Env is the channel for supplying them
// without writing secrets to disk, so each key is bound explicitly.
var envKeys = []string{
	"log.level",
	"log.format",
	"telegram.token",
	"telegram.admin_user_id",
	"uploader.api_id",
	"uploader.api_hash",
	"uploader.bot_token",
	"uploader.chat_id",
	"uploader.changelog_repository",
	"workflow.owner",
	"workflow.repo",
	"workflow.file",
	"workflow.ref",
	"github.token",
	"github.base_url",
	"github.timeout",
	"gemini.api_key",
	"gemini.model",
	"gemini.temperature",
	"gemini.max_retries",
	"gemini.retry_delay_seconds",
	"database.path",
	"database.retention_days",
}

// readConfigFile initializes viper and reads the optional config file.
func readConfigFile() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("DISPATCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	for _, key := range envKeys {
		if err := viper.BindEnv(key); err != nil {
			return fmt.Errorf("failed to bind environment variable for %s: %v", key, err)
		}
	}

	// A missing config file is fine, env vars and defaults still apply.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config file: %v", err)
		}
	}

	return nil
}

// setDefaults sets default values for optional configuration parameters.
func setDefaults() {
	viper.SetDefault("log.level", DefaultLogLevel)
	viper.SetDefault("log.format", DefaultLogFormat)

	viper.SetDefault("workflow.file", DefaultWorkflowFile)
	viper.SetDefault("workflow.ref", DefaultWorkflowRef)

	viper.SetDefault("github.base_url", DefaultGitHubBaseURL)
	viper.SetDefault("github.timeout", DefaultGitHubTimeout)

	viper.SetDefault("gemini.model", DefaultGeminiModel)
	viper.SetDefault("gemini.temperature", DefaultGeminiTemperature)
	viper.SetDefault("gemini.max_retries", DefaultGeminiMaxRetries)
	viper.SetDefault("gemini.retry_delay_seconds", DefaultGeminiRetryDelaySeconds)

	viper.SetDefault("database.path", DefaultDBPath)
	viper.SetDefault("database.retention_days", DefaultRetentionDays)

	viper.SetDefault("messages.welcome", DefaultMessages.Welcome)
	viper.SetDefault("messages.help", DefaultMessages.Help)
	viper.SetDefault("messages.not_authorized", DefaultMessages.NotAuthorized)
	viper.SetDefault("messages.general_error", DefaultMessages.GeneralError)
	viper.SetDefault("messages.dispatch_accepted", DefaultMessages.DispatchAccepted)
	viper.SetDefault("messages.dispatch_rejected", DefaultMessages.DispatchRejected)
	viper.SetDefault("messages.no_history", DefaultMessages.NoHistory)
	viper.SetDefault("messages.changelog_unavailable", DefaultMessages.ChangelogUnavailable)
}
