package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds application configuration
type Config struct {
	DataDir               string `json:"data_dir"`
	UploadsDir            string `json:"uploads_dir"`
	HomeCountry           string `json:"home_country"`
	MaxUploadSizeMB       int    `json:"max_upload_size_mb"`
	ExtractionTimeoutSecs int    `json:"extraction_timeout_secs"`
	GoogleCloudProject    string `json:"google_cloud_project"`
	GoogleCloudLocation   string `json:"google_cloud_location"`
	GoogleCredentialsPath string `json:"google_credentials_path"`
	GmailCredentialsPath  string `json:"gmail_credentials_path"`
	GeminiModel           string `json:"gemini_model"`
	LogLevel              string `json:"log_level"`
	LogFormat             string `json:"log_format"`
}

// DefaultConfig returns a new config with default values
func DefaultConfig() *Config {
	return &Config{
		DataDir:               "data",
		UploadsDir:            "uploads",
		HomeCountry:           "South Africa",
		MaxUploadSizeMB:       10,
		ExtractionTimeoutSecs: 60,
		GoogleCloudLocation:   "us-central1",
		GeminiModel:           "gemini-1.5-flash",
		LogLevel:              "info",
		LogFormat:             "pretty",
	}
}

// GetConfigPath returns the path to the configuration file
// On Windows: %APPDATA%/ResumeTracker/config.json
// On Unix: ~/.config/ResumeTracker/config.json
func GetConfigPath() (string, error) {
	var configDir string

	if os.Getenv("APPDATA") != "" {
		// Windows
		configDir = filepath.Join(os.Getenv("APPDATA"), "ResumeTracker")
	} else {
		// Unix-like systems
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config", "ResumeTracker")
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	return filepath.Join(configDir, "config.json"), nil
}

// Load loads configuration from the default config path
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	return LoadFrom(configPath)
}

// LoadFrom loads configuration from a specific path
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return default config if file doesn't exist
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// Save saves the configuration to the default config path
func (c *Config) Save() error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	return c.SaveTo(configPath)
}

// SaveTo saves the configuration to a specific path
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MaxUploadSizeBytes returns the upload size limit in bytes.
func (c *Config) MaxUploadSizeBytes() int64 {
	return int64(c.MaxUploadSizeMB) << 20
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.HomeCountry == "" {
		return fmt.Errorf("home_country is required")
	}

	if c.MaxUploadSizeMB <= 0 {
		return fmt.Errorf("max_upload_size_mb must be positive")
	}

	if c.ExtractionTimeoutSecs <= 0 {
		return fmt.Errorf("extraction_timeout_secs must be positive")
	}

	if c.GoogleCredentialsPath != "" {
		if _, err := os.Stat(c.GoogleCredentialsPath); err != nil {
			return fmt.Errorf("google credentials file not found: %w", err)
		}
	}

	if c.GmailCredentialsPath != "" {
		if _, err := os.Stat(c.GmailCredentialsPath); err != nil {
			return fmt.Errorf("gmail credentials file not found: %w", err)
		}
	}

	return nil
}

// ApplyToEnv applies configuration values to environment variables
func (c *Config) ApplyToEnv() {
	if c.GoogleCloudProject != "" {
		os.Setenv("GOOGLE_CLOUD_PROJECT", c.GoogleCloudProject)
	}
	if c.GoogleCloudLocation != "" {
		os.Setenv("GOOGLE_CLOUD_LOCATION", c.GoogleCloudLocation)
	}
	if c.GoogleCredentialsPath != "" {
		os.Setenv("GOOGLE_APPLICATION_CREDENTIALS", c.GoogleCredentialsPath)
	}
}
