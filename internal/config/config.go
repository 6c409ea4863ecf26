package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// FileEnv names the environment variable pointing at an optional config
// file. Any format viper understands works; environment variables still
// take precedence over the file.
const FileEnv = "BOOKSHELF_CONFIG"

type (
	Config struct {
		HTTP
		Global
		Database
		UI
		Auth
		Tasks
		Maintenance
		Audit
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	UI struct {
		TemplatesPath string // empty serves the embedded templates
		StaticPath    string
		AvatarDir     string // relative to StaticPath
	}
	Auth struct {
		SessionSecret    string // hex or raw; CSRF signing key
		SessionLifetime  time.Duration
		BcryptCost       int
		SecureCookies    bool
		MaxLoginAttempts int
		RateLimitWindow  time.Duration
		LockoutDuration  time.Duration
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	Maintenance struct {
		AvatarSweepEnabled  bool
		AvatarSweepSchedule string // standard 5-field cron
	}
	Audit struct {
		RetentionDays int
	}
)

var defaults = map[string]any{
	"port":                        8188,
	"host":                        "0.0.0.0",
	"shutdown_timeout_in_seconds": 2,

	"database_path":  DefaultDatabasePath,
	"templates_path": "",
	"static_path":    "./static",
	"avatar_dir":     DefaultAvatarDir,

	"auth_session_secret":     "",
	"auth_session_lifetime":   "24h",
	"auth_bcrypt_cost":        12,
	"auth_secure_cookies":     true,
	"auth_max_login_attempts": 5,
	"auth_rate_limit_window":  "15m",
	"auth_lockout_duration":   "30m",

	"tasks_enabled":         true,
	"task_workers":          1,
	"task_release_after":    "15m",
	"task_cleanup_interval": "1h",

	"avatar_sweep_enabled":  true,
	"avatar_sweep_schedule": DefaultAvatarSweepSchedule,
	"audit_retention_days":  30,
}

// AvatarPath is the directory uploaded avatars are written to.
func (ui UI) AvatarPath() string {
	return filepath.Join(ui.StaticPath, ui.AvatarDir)
}

// Load reads settings from the environment, layered over the file named
// by BOOKSHELF_CONFIG when it is set.
func Load() (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if err := v.BindEnv("config_file", FileEnv); err != nil {
		return nil, err
	}
	if file := v.GetString("config_file"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	return &Config{
		HTTP:   HTTP{Port: v.GetInt32("port"), Host: v.GetString("host")},
		Global: Global{ShutdownTimeoutInSeconds: v.GetInt("shutdown_timeout_in_seconds")},
		Database: Database{
			Path: v.GetString("database_path"),
		},
		UI: UI{
			TemplatesPath: v.GetString("templates_path"),
			StaticPath:    v.GetString("static_path"),
			AvatarDir:     v.GetString("avatar_dir"),
		},
		Auth: Auth{
			SessionSecret:    v.GetString("auth_session_secret"),
			SessionLifetime:  v.GetDuration("auth_session_lifetime"),
			BcryptCost:       v.GetInt("auth_bcrypt_cost"),
			SecureCookies:    v.GetBool("auth_secure_cookies"),
			MaxLoginAttempts: v.GetInt("auth_max_login_attempts"),
			RateLimitWindow:  v.GetDuration("auth_rate_limit_window"),
			LockoutDuration:  v.GetDuration("auth_lockout_duration"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("tasks_enabled"),
			Workers:         v.GetInt("task_workers"),
			ReleaseAfter:    v.GetDuration("task_release_after"),
			CleanupInterval: v.GetDuration("task_cleanup_interval"),
		},
		Maintenance: Maintenance{
			AvatarSweepEnabled:  v.GetBool("avatar_sweep_enabled"),
			AvatarSweepSchedule: v.GetString("avatar_sweep_schedule"),
		},
		Audit: Audit{RetentionDays: v.GetInt("audit_retention_days")},
	}, nil
}
