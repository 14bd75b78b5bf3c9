// Package config provides configuration loading, validation, and management
// for the dispatch service. It handles reading from YAML files, environment
// variables, setting default values, and validating configuration parameters.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// ErrConfiguration wraps all configuration loading and validation failures.
var ErrConfiguration = errors.New("configuration error")

// Config defines the application configuration. Values can be set through
// config.yaml or environment variables prefixed with DISPATCH_
// (e.g., DISPATCH_GITHUB_TOKEN).
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Uploader  UploaderConfig  `mapstructure:"uploader"`
	Workflow  WorkflowConfig  `mapstructure:"workflow"`
	GitHub    GitHubConfig    `mapstructure:"github"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Messages  MessagesConfig  `mapstructure:"messages"`
}

// LogConfig controls structured logging output.
type LogConfig struct {
	Level  string `mapstructure:"level"  validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
}

// TelegramConfig holds the settings for the bot trigger surface. These are
// only required when running the long-lived bot; the one-shot CLI does not
// use them.
type TelegramConfig struct {
	Token       string `mapstructure:"token"`
	AdminUserID int64  `mapstructure:"admin_user_id"`
}

// UploaderConfig holds the five dispatch inputs forwarded to the external
// uploader workflow. All of them are secret-typed once forwarded, so none of
// these values may appear in logs or in the audit store.
//
// Required-ness is enforced per trigger by dispatch.Request.Validate, not
// here: the CLI may supply any of these via flags instead of config.
type UploaderConfig struct {
	APIID               int64  `mapstructure:"api_id"`
	APIHash             string `mapstructure:"api_hash"`
	BotToken            string `mapstructure:"bot_token"`
	ChatID              int64  `mapstructure:"chat_id"`
	ChangelogRepository string `mapstructure:"changelog_repository"`
}

// WorkflowConfig identifies the external reusable workflow that receives
// every forwarded invocation.
type WorkflowConfig struct {
	Owner string `mapstructure:"owner" validate:"required"`
	Repo  string `mapstructure:"repo"  validate:"required"`
	File  string `mapstructure:"file"  validate:"required"`
	Ref   string `mapstructure:"ref"   validate:"required"`
}

// GitHubConfig holds GitHub API access settings.
type GitHubConfig struct {
	Token   string        `mapstructure:"token"    validate:"required"`
	BaseURL string        `mapstructure:"base_url" validate:"required,url"`
	Timeout time.Duration `mapstructure:"timeout"  validate:"required,min=1s,max=5m"`
}

// GeminiConfig holds the optional changelog summarization settings. The
// summarizer is disabled when APIKey is empty.
type GeminiConfig struct {
	APIKey            string  `mapstructure:"api_key"`
	Model             string  `mapstructure:"model"       validate:"required"`
	Temperature       float32 `mapstructure:"temperature" validate:"min=0,max=2"`
	MaxRetries        int     `mapstructure:"max_retries" validate:"min=0,max=10"`
	RetryDelaySeconds int     `mapstructure:"retry_delay_seconds" validate:"min=0,max=300"`
}

// DatabaseConfig holds the audit store settings.
type DatabaseConfig struct {
	Path          string `mapstructure:"path"           validate:"required"`
	RetentionDays int    `mapstructure:"retention_days" validate:"required,min=1,max=3650"`
}

// TaskConfig describes a single scheduled task.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// SchedulerConfig maps task names to their schedules.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// MessagesConfig holds the user-facing bot messages.
type MessagesConfig struct {
	Welcome              string `mapstructure:"welcome"               validate:"required"`
	Help                 string `mapstructure:"help"                  validate:"required"`
	NotAuthorized        string `mapstructure:"not_authorized"        validate:"required"`
	GeneralError         string `mapstructure:"general_error"         validate:"required"`
	DispatchAccepted     string `mapstructure:"dispatch_accepted"     validate:"required"`
	DispatchRejected     string `mapstructure:"dispatch_rejected"     validate:"required"`
	NoHistory            string `mapstructure:"no_history"            validate:"required"`
	ChangelogUnavailable string `mapstructure:"changelog_unavailable" validate:"required"`
}

// Validate checks the configuration fields needed by every entrypoint.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	return nil
}

// ValidateBot checks the additional fields required by the long-lived bot
// entrypoint on top of Validate.
func (c *Config) ValidateBot() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Telegram.Token == "" {
		return fmt.Errorf("%w: telegram.token is required in bot mode", ErrConfiguration)
	}
	if c.Telegram.AdminUserID <= 0 {
		return fmt.Errorf("%w: telegram.admin_user_id is required in bot mode", ErrConfiguration)
	}
	return nil
}
