package domain

import "time"

// Config represents the application configuration
type Config struct {
	Download     DownloadConfig     `mapstructure:"download"`
	MediaFire    MediaFireConfig    `mapstructure:"mediafire"`
	History      HistoryConfig      `mapstructure:"history"`
	Server       ServerConfig       `mapstructure:"server"`
	Notification NotificationConfig `mapstructure:"notification"`
	Logging      LoggingConfig      `mapstructure:"logging"`
}

// DownloadConfig contains download-related configuration
type DownloadConfig struct {
	OutputDir             string        `mapstructure:"output_dir"`
	MaxConcurrent         int           `mapstructure:"max_concurrent"`
	UserAgent             string        `mapstructure:"user_agent"`
	ConnectTimeout        time.Duration `mapstructure:"connect_timeout"`
	ResponseHeaderTimeout time.Duration `mapstructure:"response_header_timeout"`
	ShowProgress          bool          `mapstructure:"show_progress"`
}

// MediaFireConfig contains MediaFire API configuration
type MediaFireConfig struct {
	APIBaseURL        string        `mapstructure:"api_base_url"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout"`
	FolderConcurrency int           `mapstructure:"folder_concurrency"`
}

// HistoryConfig contains run history configuration
type HistoryConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	DatabasePath string `mapstructure:"database_path"`
}

// ServerConfig contains history API server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// NotificationConfig contains notification-related configuration
type NotificationConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Method  string `mapstructure:"method"` // osascript, notify-send
}

// LoggingConfig contains logging-related configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, or file path
	LogsDir    string `mapstructure:"logs_dir"`    // categorised JSON event logs
}

// DefaultUserAgent is sent with every HTTP request
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/89.0.4389.90 Safari/537.36"

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Download: DownloadConfig{
			OutputDir:             ".",
			MaxConcurrent:         10,
			UserAgent:             DefaultUserAgent,
			ConnectTimeout:        30 * time.Second,
			ResponseHeaderTimeout: 60 * time.Second,
			ShowProgress:          true,
		},
		MediaFire: MediaFireConfig{
			APIBaseURL:        "https://www.mediafire.com/api/1.5",
			RequestTimeout:    30 * time.Second,
			FolderConcurrency: 4,
		},
		History: HistoryConfig{
			Enabled:      true,
			DatabasePath: "$HOME/.mfdl/history.db",
		},
		Server: ServerConfig{
			Host: "localhost",
			Port: 8080,
		},
		Notification: NotificationConfig{
			Enabled: false,
			Method:  "notify-send",
		},
		Logging: LoggingConfig{
			Level:      "warn",
			Format:     "console",
			OutputPath: "stderr",
			LogsDir:    "$HOME/.mfdl/logs",
		},
	}
}
