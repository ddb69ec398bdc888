package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds the complete application configuration
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	General GeneralConfig `mapstructure:"general"`
	Picker  PickerConfig  `mapstructure:"picker"`
	Server  ServerConfig  `mapstructure:"server"`
	Auth    AuthConfig    `mapstructure:"auth"`
	S3      S3Config      `mapstructure:"s3"`
	SFTP    SFTPConfig    `mapstructure:"sftp"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// GeneralConfig holds general application configuration
type GeneralConfig struct {
	DefaultTimeout int    `mapstructure:"default_timeout"`
	ConfigPath     string `mapstructure:"config_path"`
}

// PickerConfig holds the defaults of a picker session
type PickerConfig struct {
	Root       string   `mapstructure:"root"`
	Source     string   `mapstructure:"source"`
	Multiple   bool     `mapstructure:"multiple"`
	Accept     []string `mapstructure:"accept"`
	Cancelable bool     `mapstructure:"cancelable"`
	Title      string   `mapstructure:"title"`
	ShowHidden bool     `mapstructure:"show_hidden"`
	Watch      bool     `mapstructure:"watch"`
}

// ServerConfig holds web host configuration
type ServerConfig struct {
	Listen    string `mapstructure:"listen"`
	Exec      string `mapstructure:"exec"`
	ThumbSize int    `mapstructure:"thumb_size"`
}

// AuthConfig holds persistent login configuration for the web host
type AuthConfig struct {
	Enabled    bool              `mapstructure:"enabled"`
	Secret     string            `mapstructure:"secret"`
	ExpireDays int               `mapstructure:"expire_days"`
	TokenName  string            `mapstructure:"token_name"`
	Users      map[string]string `mapstructure:"users"`
}

// S3Config holds S3/R2 bucket source configuration
type S3Config struct {
	AccountID       string `mapstructure:"account_id"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	AccessKeySecret string `mapstructure:"access_key_secret"`
	BucketName      string `mapstructure:"bucket_name"`
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
}

// SFTPConfig holds remote SFTP source configuration
type SFTPConfig struct {
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	User       string `mapstructure:"user"`
	Password   string `mapstructure:"password"`
	KeyFile    string `mapstructure:"key_file"`
	KnownHosts string `mapstructure:"known_hosts"`
	Insecure   bool   `mapstructure:"insecure"`
}

// Source names
const (
	SourceLocal = "local"
	SourceS3    = "s3"
	SourceSFTP  = "sftp"
)

// Load loads configuration from multiple sources with priority:
// 1. Command line flags (highest)
// 2. Environment variables
// 3. Configuration file
// 4. Defaults (lowest)
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Set environment variable prefix
	v.SetEnvPrefix("FPICK")
	v.AutomaticEnv()

	// Environment variable mappings
	v.BindEnv("log.level", "FPICK_LOG_LEVEL")
	v.BindEnv("log.format", "FPICK_LOG_FORMAT")
	v.BindEnv("picker.root", "FPICK_ROOT")
	v.BindEnv("picker.source", "FPICK_SOURCE")
	v.BindEnv("server.listen", "FPICK_LISTEN")
	v.BindEnv("server.exec", "FPICK_EXEC")
	v.BindEnv("auth.enabled", "FPICK_AUTH_ENABLED")
	v.BindEnv("auth.secret", "FPICK_AUTH_SECRET")
	v.BindEnv("s3.account_id", "FPICK_S3_ACCOUNT_ID")
	v.BindEnv("s3.access_key_id", "FPICK_S3_ACCESS_KEY_ID")
	v.BindEnv("s3.access_key_secret", "FPICK_S3_ACCESS_KEY_SECRET")
	v.BindEnv("s3.bucket_name", "FPICK_S3_BUCKET_NAME")
	v.BindEnv("s3.endpoint", "FPICK_S3_ENDPOINT")
	v.BindEnv("s3.region", "FPICK_S3_REGION")
	v.BindEnv("sftp.host", "FPICK_SFTP_HOST")
	v.BindEnv("sftp.user", "FPICK_SFTP_USER")
	v.BindEnv("sftp.password", "FPICK_SFTP_PASSWORD")

	// Configuration file handling
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")

		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.fpick")
		v.AddConfigPath("/etc/fpick/")
	}

	// Read configuration file if it exists
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is not an error - we can use defaults and env vars
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.General.ConfigPath = v.ConfigFileUsed()

	if err := Validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// General defaults
	v.SetDefault("general.default_timeout", 30)

	// Picker defaults
	v.SetDefault("picker.root", ".")
	v.SetDefault("picker.source", SourceLocal)
	v.SetDefault("picker.multiple", false)
	v.SetDefault("picker.accept", []string{})
	v.SetDefault("picker.cancelable", true)
	v.SetDefault("picker.title", "File Picker")
	v.SetDefault("picker.show_hidden", false)
	v.SetDefault("picker.watch", false)

	// Server defaults
	v.SetDefault("server.listen", "127.0.0.1:8080")
	v.SetDefault("server.thumb_size", 256)

	// Auth defaults
	v.SetDefault("auth.enabled", false)
	v.SetDefault("auth.expire_days", 7)
	v.SetDefault("auth.token_name", "fpick_auth_token")

	// S3 defaults
	v.SetDefault("s3.endpoint", "auto")
	v.SetDefault("s3.region", "auto")

	// SFTP defaults
	v.SetDefault("sftp.port", 22)
}

// GetDefaultConfigPath returns the default configuration file path
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./config.toml"
	}
	return filepath.Join(homeDir, ".fpick", "config.toml")
}

// EnsureConfigDir creates the configuration directory if it doesn't exist
func EnsureConfigDir() error {
	configPath := GetDefaultConfigPath()
	dir := filepath.Dir(configPath)
	return os.MkdirAll(dir, 0700)
}
