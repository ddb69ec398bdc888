package config

import (
	"fmt"
	"net"
	"strings"
)

// Validate validates the configuration and returns an error if invalid
func Validate(config *Config) error {
	if err := validateLogConfig(&config.Log); err != nil {
		return fmt.Errorf("log config validation failed: %w", err)
	}

	if err := validateGeneralConfig(&config.General); err != nil {
		return fmt.Errorf("general config validation failed: %w", err)
	}

	if err := validatePickerConfig(&config.Picker); err != nil {
		return fmt.Errorf("picker config validation failed: %w", err)
	}

	if err := validateServerConfig(&config.Server); err != nil {
		return fmt.Errorf("server config validation failed: %w", err)
	}

	if err := validateAuthConfig(&config.Auth); err != nil {
		return fmt.Errorf("auth config validation failed: %w", err)
	}

	switch strings.ToLower(config.Picker.Source) {
	case SourceS3:
		if err := validateS3Config(&config.S3); err != nil {
			return fmt.Errorf("s3 config validation failed: %w", err)
		}
	case SourceSFTP:
		if err := validateSFTPConfig(&config.SFTP); err != nil {
			return fmt.Errorf("sftp config validation failed: %w", err)
		}
	}

	return nil
}

// validateLogConfig validates log configuration
func validateLogConfig(config *LogConfig) error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"fatal": true,
		"panic": true,
	}

	level := strings.ToLower(config.Level)
	if !validLevels[level] {
		return fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error, fatal, panic)", config.Level)
	}

	validFormats := map[string]bool{
		"text": true,
		"json": true,
	}

	format := strings.ToLower(config.Format)
	if !validFormats[format] {
		return fmt.Errorf("invalid log format: %s (valid: text, json)", config.Format)
	}

	return nil
}

// validateGeneralConfig validates general configuration
func validateGeneralConfig(config *GeneralConfig) error {
	if config.DefaultTimeout < 0 {
		return fmt.Errorf("default_timeout must be non-negative, got: %d", config.DefaultTimeout)
	}
	return nil
}

// validatePickerConfig validates picker defaults
func validatePickerConfig(config *PickerConfig) error {
	if strings.TrimSpace(config.Root) == "" {
		return fmt.Errorf("root is required")
	}

	switch strings.ToLower(config.Source) {
	case SourceLocal, SourceS3, SourceSFTP:
	default:
		return fmt.Errorf("invalid source: %s (valid: local, s3, sftp)", config.Source)
	}

	if config.Watch && strings.ToLower(config.Source) != SourceLocal {
		return fmt.Errorf("watch is only supported for the local source")
	}

	return nil
}

// validateServerConfig validates web host configuration
func validateServerConfig(config *ServerConfig) error {
	if _, _, err := net.SplitHostPort(config.Listen); err != nil {
		return fmt.Errorf("invalid listen address %q: %w", config.Listen, err)
	}

	if config.ThumbSize < 16 || config.ThumbSize > 2048 {
		return fmt.Errorf("thumb_size must be between 16 and 2048, got: %d", config.ThumbSize)
	}

	return nil
}

// validateAuthConfig validates login configuration
func validateAuthConfig(config *AuthConfig) error {
	if !config.Enabled {
		return nil
	}

	if len(config.Secret) < 16 {
		return fmt.Errorf("secret must be at least 16 characters when auth is enabled")
	}

	if config.ExpireDays <= 0 {
		return fmt.Errorf("expire_days must be positive, got: %d", config.ExpireDays)
	}

	if strings.TrimSpace(config.TokenName) == "" {
		return fmt.Errorf("token_name is required")
	}

	if len(config.Users) == 0 {
		return fmt.Errorf("at least one user is required when auth is enabled")
	}

	for name, hash := range config.Users {
		if !strings.HasPrefix(hash, "$2") {
			return fmt.Errorf("user %s: password must be a bcrypt hash (see fpick hash-password)", name)
		}
	}

	return nil
}

// validateS3Config validates bucket source configuration
func validateS3Config(config *S3Config) error {
	if strings.TrimSpace(config.AccessKeyID) == "" {
		return fmt.Errorf("access_key_id is required")
	}

	if strings.TrimSpace(config.AccessKeySecret) == "" {
		return fmt.Errorf("access_key_secret is required")
	}

	if strings.TrimSpace(config.BucketName) == "" {
		return fmt.Errorf("bucket_name is required")
	}

	if !isValidBucketName(config.BucketName) {
		return fmt.Errorf("invalid bucket_name format: %s", config.BucketName)
	}

	if config.Endpoint == "auto" && strings.TrimSpace(config.AccountID) == "" {
		return fmt.Errorf("account_id is required when endpoint is auto")
	}

	return nil
}

// validateSFTPConfig validates remote source configuration
func validateSFTPConfig(config *SFTPConfig) error {
	if strings.TrimSpace(config.Host) == "" {
		return fmt.Errorf("host is required")
	}

	if strings.TrimSpace(config.User) == "" {
		return fmt.Errorf("user is required")
	}

	if config.Port <= 0 || config.Port > 65535 {
		return fmt.Errorf("invalid port: %d", config.Port)
	}

	if config.Password == "" && config.KeyFile == "" {
		return fmt.Errorf("password or key_file is required")
	}

	if !config.Insecure && config.KnownHosts == "" {
		return fmt.Errorf("known_hosts is required unless insecure is set")
	}

	return nil
}

// isValidBucketName checks if the bucket name follows basic S3 naming rules
func isValidBucketName(name string) bool {
	if len(name) < 3 || len(name) > 63 {
		return false
	}

	// Must start and end with letter or number
	if !isAlphaNum(name[0]) || !isAlphaNum(name[len(name)-1]) {
		return false
	}

	for i, char := range name {
		if !isAlphaNum(byte(char)) && char != '-' && char != '.' {
			return false
		}

		// Cannot have consecutive periods or period-dash combinations
		if i > 0 {
			prev := name[i-1]
			if char == '.' && (prev == '.' || prev == '-') {
				return false
			}
			if char == '-' && prev == '.' {
				return false
			}
		}
	}

	return true
}

// isAlphaNum checks if a byte is alphanumeric
func isAlphaNum(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
