package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// dateLayout is the accepted format for the Before/After bounds.
const dateLayout = "2006-01-02"

// Settings holds all configuration options.
type Settings struct {
	// Feed selection
	Subreddit string `json:"subreddit"`
	Before    string `json:"before"` // YYYY-MM-DD, empty for no upper bound
	After     string `json:"after"`  // YYYY-MM-DD, empty for no lower bound

	// Download settings
	DownloadRoot           string  `json:"download_root"`
	MaxConcurrentDownloads int     `json:"max_concurrent_downloads"`
	DownloadMaxRetries     int     `json:"download_max_retries"`
	DownloadRetryDelay     float64 `json:"download_retry_delay_seconds"`
	RateLimitCooldown      float64 `json:"rate_limit_cooldown_seconds"`

	// HTTP settings
	UserAgent    string `json:"user_agent"`
	SearchAPIURL string `json:"search_api_url"`

	// Image post-processing
	ResizeImages       bool `json:"resize_images"`
	ImageMaxSize       int  `json:"image_max_size"`
	ConvertImagesToJPG bool `json:"convert_images_to_jpg"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	homeDir, _ := os.UserHomeDir()
	return &Settings{
		DownloadRoot:           filepath.Join(homeDir, "Downloads", "reddit"),
		MaxConcurrentDownloads: 10,
		DownloadMaxRetries:     5,
		DownloadRetryDelay:     10,
		RateLimitCooldown:      300,

		UserAgent:    "subreddit-dl",
		SearchAPIURL: "https://api.pushshift.io/reddit/search/submission",

		ResizeImages:       false,
		ImageMaxSize:       2048,
		ConvertImagesToJPG: false,
	}
}

// Load reads settings from a JSON file.
//
// If the file does not exist, defaults are returned without error so that
// a fresh install works with no config file at all.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// RetryDelay returns the retry delay as a time.Duration.
func (s *Settings) RetryDelay() time.Duration {
	return time.Duration(s.DownloadRetryDelay * float64(time.Second))
}

// Cooldown returns the 429 cooldown as a time.Duration.
func (s *Settings) Cooldown() time.Duration {
	return time.Duration(s.RateLimitCooldown * float64(time.Second))
}

// Window parses the Before/After bounds into unix timestamps.
//
// A zero return for either bound means the bound is unset. A date that is
// present but not in YYYY-MM-DD form is a configuration error; the caller
// is expected to abort the run.
func (s *Settings) Window() (before, after int64, err error) {
	if s.Before != "" {
		t, perr := time.Parse(dateLayout, s.Before)
		if perr != nil {
			return 0, 0, fmt.Errorf("bad before date %q, use YYYY-MM-DD: %w", s.Before, perr)
		}
		before = t.Unix()
	}
	if s.After != "" {
		t, perr := time.Parse(dateLayout, s.After)
		if perr != nil {
			return 0, 0, fmt.Errorf("bad after date %q, use YYYY-MM-DD: %w", s.After, perr)
		}
		after = t.Unix()
	}
	return before, after, nil
}
