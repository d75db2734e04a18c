package cfg

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

var ErrConfigNotFound = errors.New("config file not found")

const (
	DefaultTimeout           = 30
	DefaultUserAgent         = "telelinker/1.0"
	DefaultRequestsPerSecond = 1.0
	DefaultMaxRetries        = 2
	DefaultSessionName       = "telelinker"
	DefaultYtDlpPath         = "yt-dlp"
)

func DefaultSettings() Settings {
	return Settings{
		Telegram: TelegramSettings{
			SessionName: DefaultSessionName,
		},
		Extractors: ExtractorSettings{
			Timeout:           DefaultTimeout,
			UserAgent:         DefaultUserAgent,
			RequestsPerSecond: DefaultRequestsPerSecond,
			MaxRetries:        DefaultMaxRetries,
			YouTube: YouTubeSettings{
				YtDlpPath: DefaultYtDlpPath,
			},
		},
	}
}

// LoadSettings reads the YAML settings file on top of DefaultSettings, so
// omitted keys keep their defaults and explicit zeros are preserved.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	settings := DefaultSettings()
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if settings.Extractors.UserAgent == "" {
		settings.Extractors.UserAgent = DefaultUserAgent
	}
	if settings.Extractors.YouTube.YtDlpPath == "" {
		settings.Extractors.YouTube.YtDlpPath = DefaultYtDlpPath
	}

	if err := validateSettings(&settings); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return &settings, nil
}

func SaveSettings(path string, settings *Settings) error {
	if err := validateSettings(settings); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

func validateSettings(settings *Settings) error {
	if settings == nil {
		return fmt.Errorf("settings are nil")
	}

	if settings.Telegram.SessionName == "" {
		return fmt.Errorf("telegram session name is required")
	}

	nonNegativeFields := map[string]float64{
		"telegram api id":     float64(settings.Telegram.APIID),
		"timeout":             float64(settings.Extractors.Timeout),
		"requests per second": settings.Extractors.RequestsPerSecond,
		"max retries":         float64(settings.Extractors.MaxRetries),
	}

	for fieldName, fieldValue := range nonNegativeFields {
		if fieldValue < 0 {
			return fmt.Errorf("%s must be non-negative", fieldName)
		}
	}

	return nil
}
