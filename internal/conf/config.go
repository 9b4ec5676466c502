// Package conf loads SeoDeck settings from YAML config and environment.
package conf

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Settings holds the full SeoDeck configuration.
type Settings struct {
	Server       ServerSettings       `mapstructure:"server"`
	Database     DatabaseSettings     `mapstructure:"database"`
	Notification NotificationSettings `mapstructure:"notification"`
	Automation   AutomationSettings   `mapstructure:"automation"`
}

// ServerSettings configures the HTTP server and trigger auth.
type ServerSettings struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	// AutomationSecret guards the run-trigger endpoints. Requests must
	// carry it in the X-Automation-Secret header. Empty disables the
	// endpoints entirely rather than leaving them open.
	AutomationSecret string `mapstructure:"automation_secret"`
}

// DatabaseSettings configures the GORM datastore.
type DatabaseSettings struct {
	Driver string `mapstructure:"driver"` // "sqlite" or "mysql"
	DSN    string `mapstructure:"dsn"`
}

// NotificationSettings configures alert delivery.
type NotificationSettings struct {
	Enabled     bool     `mapstructure:"enabled"`
	URLs        []string `mapstructure:"urls"`
	MinSeverity string   `mapstructure:"min_severity"`
}

// AutomationSettings configures the evaluation runs.
type AutomationSettings struct {
	// RunBudget bounds one batch's wall clock. Work committed before the
	// budget expires stays committed; the remainder is reported as skipped.
	RunBudget Duration `mapstructure:"run_budget"`
	// EventRetentionDays prunes old alert events; 0 disables pruning.
	EventRetentionDays int `mapstructure:"event_retention_days"`
	// SeedDefaults controls whether built-in alert rules are created on
	// startup.
	SeedDefaults bool `mapstructure:"seed_defaults"`
}

// Load reads settings from the given config file, or from ./config.yaml
// and /etc/seodeck/config.yaml when path is empty. Environment variables
// prefixed SEODECK_ override file values (SEODECK_SERVER_PORT, ...).
func Load(path string) (*Settings, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/seodeck")
	}

	v.SetEnvPrefix("SEODECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// A missing default config file is fine; defaults and env apply.
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings, viper.DecodeHook(DurationDecodeHook())); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &settings, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "seodeck.db")
	v.SetDefault("notification.enabled", false)
	v.SetDefault("notification.min_severity", "info")
	v.SetDefault("automation.run_budget", "30s")
	v.SetDefault("automation.event_retention_days", 90)
	v.SetDefault("automation.seed_defaults", true)
}
