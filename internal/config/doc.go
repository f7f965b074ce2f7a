// Package config loads and validates the trendpulse YAML configuration.
// Missing optional fields receive defaults; secrets (API keys, webhook URLs)
// are referenced by environment variable name and resolved at use time.
// Watch provides fsnotify-based hot reload of the config file.
package config
