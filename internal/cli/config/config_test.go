package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultService, cfg.Service)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.False(t, cfg.Verbose)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "iamkit.yaml")
	require.NoError(t, os.WriteFile(path, []byte("service: ngfs\noutput: csv\n"), 0o644))

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "ngfs", cfg.Service)
	assert.Equal(t, "csv", cfg.OutputFormat)
	assert.Equal(t, path, GetConfigFileUsed())
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "iamkit.yaml")
	require.NoError(t, os.WriteFile(path, []byte("service: ngfs\n"), 0o644))
	t.Setenv("IAMKIT_SERVICE", "iamc15")

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "iamc15", cfg.Service)
}

func TestLoadConfigFlagsOverrideEnv(t *testing.T) {
	t.Setenv("IAMKIT_SERVICE", "ngfs")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("service", "", "")
	require.NoError(t, flags.Parse([]string{"--service", "iamc15"}))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)
	assert.Equal(t, "iamc15", cfg.Service)
}

func TestLoadConfigUnchangedFlagsIgnored(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("service", "", "")
	require.NoError(t, flags.Parse(nil))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)
	assert.Equal(t, DefaultService, cfg.Service, "unset flags must not clobber defaults")
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
}

func TestCurrentFallsBackToDefaults(t *testing.T) {
	currentConfig = nil
	cfg := Current()
	assert.Equal(t, DefaultService, cfg.Service)
}
