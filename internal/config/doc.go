// ABOUTME: Package config loads the focuslearn server configuration
// ABOUTME: YAML with env var expansion; see config.example.yaml

// Package config provides configuration loading for the focuslearn
// server from YAML files with ${VAR} environment expansion.
package config
