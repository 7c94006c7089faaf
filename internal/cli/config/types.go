// Package config provides configuration management for the iamkit CLI.
package config

// Config holds all CLI configuration options.
type Config struct {
	Service      string `koanf:"service"`
	Credentials  string `koanf:"credentials"`
	Username     string `koanf:"username"`
	Password     string `koanf:"password"`
	Verbose      bool   `koanf:"verbose"`
	OutputFormat string `koanf:"output"`
}

// Default configuration values.
const (
	DefaultService = "iamc15"
	DefaultOutput  = "text"
)
