package config

import "time"

// Default values for optional configuration parameters.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultWorkflowFile = "telegram-uploader.yml"
	DefaultWorkflowRef  = "main"

	DefaultGitHubBaseURL = "https://api.github.com"
	DefaultGitHubTimeout = 30 * time.Second

	DefaultGeminiModel             = "gemini-2.0-flash"
	DefaultGeminiTemperature       = 0.4
	DefaultGeminiMaxRetries        = 2
	DefaultGeminiRetryDelaySeconds = 5

	DefaultDBPath        = "dispatch.db"
	DefaultRetentionDays = 90
)

// DefaultMessages are the user-facing bot messages used when the config file
// does not override them.
var DefaultMessages = MessagesConfig{
	Welcome:              "Hi! I trigger uploads to the Telegram uploader workflow. Use /help to see what I can do.",
	Help:                 "Commands:\n/dispatch [owner/repo] - trigger an upload, optionally overriding the changelog repository\n/preview [owner/repo] - preview the changelog for the next upload\n/history - show recent dispatches",
	NotAuthorized:        "You are not authorized to use this command.",
	GeneralError:         "An error occurred. Please try again later.",
	DispatchAccepted:     "Dispatch forwarded to the uploader workflow.",
	DispatchRejected:     "Dispatch rejected: ",
	NoHistory:            "No dispatches recorded yet.",
	ChangelogUnavailable: "No changelog repository configured.",
}

// DefaultSchedulerTasks enables the periodic audit retention sweep and the
// SQLite maintenance job.
var DefaultSchedulerTasks = map[string]TaskConfig{
	"audit_retention": {Enabled: true, Schedule: "0 30 3 * * *"},
	"sql_maintenance": {Enabled: true, Schedule: "0 0 4 * * 0"},
}
