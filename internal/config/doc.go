// Package config provides application configuration loaded from
// environment variables (FISCAL_ prefix) merged over an optional YAML
// file, plus the canonical paths of pipeline artifacts.
package config
