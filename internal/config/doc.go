// Package config provides configuration management for subreddit-dl.
//
// This package handles:
//   - Loading and saving settings from JSON files
//   - Default configuration values
//   - Date-window parsing for the before/after bounds
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Downloads to ~/Downloads/reddit/<subreddit>/{videos,gifs,images}
//	// 10 concurrent downloads, 5 retries with a 10 second delay
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.json")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//
// # Date Window
//
// Before and After bound the enumeration window and use the YYYY-MM-DD
// format. A malformed date is a configuration error that aborts the run:
//
//	before, after, err := settings.Window()
package config
