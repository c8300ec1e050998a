package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the main configuration structure
type Config struct {
	ImageExtensions []string         `mapstructure:"image_extensions"`
	RawExtensions   []string         `mapstructure:"raw_extensions"`
	Processing      ProcessingConfig `mapstructure:"processing"`
	Security        SecurityConfig   `mapstructure:"security"`
	Logging         LoggingConfig    `mapstructure:"logging"`
}

// ProcessingConfig contains file processing settings
type ProcessingConfig struct {
	SkipCanonical       bool `mapstructure:"skip_canonical"`
	UseExiftoolFallback bool `mapstructure:"use_exiftool_fallback"`
}

// SecurityConfig contains security and safety settings
type SecurityConfig struct {
	DryRun             bool `mapstructure:"dry_run"`
	ConfirmBeforeStart bool `mapstructure:"confirm_before_start"`
	MaxFilesPerRun     int  `mapstructure:"max_files_per_run"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"` // MB
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"` // days
	Compress   bool   `mapstructure:"compress"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		ImageExtensions: []string{".jpg", ".jpeg", ".png", ".gif"},
		RawExtensions:   []string{".orf", ".raw"},
		Processing: ProcessingConfig{
			SkipCanonical:       true,
			UseExiftoolFallback: false,
		},
		Security: SecurityConfig{
			DryRun:             false,
			ConfirmBeforeStart: true,
			MaxFilesPerRun:     0, // 0 means no limit
		},
		Logging: LoggingConfig{
			Level:      "info",
			FilePath:   "",
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     30,
			Compress:   true,
		},
	}
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	viper.SetConfigType("yaml")

	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		// Look for config file in current directory and home directory
		viper.SetConfigName("config")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.exifdate")
		viper.AddConfigPath("/etc/exifdate")
	}

	// Enable environment variable support
	viper.SetEnvPrefix("EXIFDATE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Try to read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	// Unmarshal config
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate and normalize config
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if len(c.ImageExtensions) == 0 {
		return fmt.Errorf("image_extensions must not be empty")
	}
	if len(c.RawExtensions) == 0 {
		return fmt.Errorf("raw_extensions must not be empty")
	}

	c.ImageExtensions = normalizeExtensions(c.ImageExtensions)
	c.RawExtensions = normalizeExtensions(c.RawExtensions)

	if c.Security.MaxFilesPerRun < 0 {
		c.Security.MaxFilesPerRun = 0
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error)", c.Logging.Level)
	}

	return nil
}

// IsImageExtension checks if the extension is for an image file
func (c *Config) IsImageExtension(ext string) bool {
	ext = strings.ToLower(ext)
	for _, supportedExt := range c.ImageExtensions {
		if ext == supportedExt {
			return true
		}
	}
	return false
}

// IsRawExtension checks if the extension is for a raw sensor file
func (c *Config) IsRawExtension(ext string) bool {
	ext = strings.ToLower(ext)
	for _, supportedExt := range c.RawExtensions {
		if ext == supportedExt {
			return true
		}
	}
	return false
}

func normalizeExtensions(extensions []string) []string {
	normalized := make([]string, len(extensions))
	for i, ext := range extensions {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		normalized[i] = ext
	}
	return normalized
}
