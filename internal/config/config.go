package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	v *viper.Viper
}

// New creates a new configuration instance
func New() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/spam-blocker/")
	v.AddConfigPath("$HOME/.spam-blocker")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	// Set defaults
	setDefaults(v)

	// Environment variables
	v.AutomaticEnv()
	v.SetEnvPrefix("SPAM_BLOCKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, using defaults
	} else {
		// Pick up blocklist edits without a restart
		v.WatchConfig()
	}

	return &Config{v: v}, nil
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// Blocklist defaults
	v.SetDefault("blocklist.mode", "reject")
	v.SetDefault("blocklist.keywords", []string{
		"backlink",
		"link building",
		"link-building",
		"buy links",
		"seo services",
		"guest post",
		"guest posting",
		"link exchange",
		"paid links",
		"dofollow links",
	})
	v.SetDefault("blocklist.fields_to_scan", []string{"subject", "message"})
	v.SetDefault("blocklist.reject_message", "Your message could not be sent. Please try again later.")

	// State defaults
	v.SetDefault("state.store", "memory")
	v.SetDefault("state.ttl", "60s")
	v.SetDefault("state.cleanup_frequency", "30s")
	v.SetDefault("state.sqlite_path", "/data/spam_flags.db")
	v.SetDefault("state.mysql_dsn", "user:password@tcp(localhost:3306)/spam_blocker")

	// Submissions defaults
	v.SetDefault("submissions.driver", "sqlite3")
	v.SetDefault("submissions.dsn", "/data/submissions.db")

	// Mail defaults
	v.SetDefault("mail.transport", "log")
	v.SetDefault("mail.smtp.addr", "localhost:25")
	v.SetDefault("mail.smtp.from", "forms@localhost")
	v.SetDefault("mail.smtp.username", "")
	v.SetDefault("mail.smtp.password", "")
	v.SetDefault("mail.notify_to", []string{})

	// Server defaults
	v.SetDefault("server.listen_address", "0.0.0.0:8025")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// GetString gets a string value from the configuration
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt gets an integer value from the configuration
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetBool gets a boolean value from the configuration
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// GetStringSlice gets a string slice value from the configuration
func (c *Config) GetStringSlice(key string) []string {
	return c.v.GetStringSlice(key)
}

// GetDuration gets a duration value from the configuration
func (c *Config) GetDuration(key string) (time.Duration, error) {
	return time.ParseDuration(c.GetString(key))
}

// GetViper returns the underlying Viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.v
}
