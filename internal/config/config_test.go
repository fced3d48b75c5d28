package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWithDefaults_Defaults(t *testing.T) {
	for _, key := range []string{
		"IFACECHECK_VYPER", "IFACECHECK_MIN_VYPER_VERSION", "IFACECHECK_COLOR",
		"IFACECHECK_FORMAT", "IFACECHECK_STRICT", "IFACECHECK_SKIP_UNUSED",
		"LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}

	cfg, err := LoadWithDefaults(Defaults())
	require.NoError(t, err)

	assert.Equal(t, "vyper", cfg.Compiler.Binary)
	assert.Empty(t, cfg.Compiler.MinVersion)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.False(t, cfg.Check.Strict)
	assert.False(t, cfg.Check.SkipUnused)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadWithDefaults_FromEnv(t *testing.T) {
	t.Setenv("IFACECHECK_VYPER", "/opt/vyper/bin/vyper")
	t.Setenv("IFACECHECK_MIN_VYPER_VERSION", "0.3.7")
	t.Setenv("IFACECHECK_COLOR", "NEVER")
	t.Setenv("IFACECHECK_FORMAT", "json")
	t.Setenv("IFACECHECK_STRICT", "true")
	t.Setenv("IFACECHECK_SKIP_UNUSED", "1")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadWithDefaults(Defaults())
	require.NoError(t, err)

	assert.Equal(t, "/opt/vyper/bin/vyper", cfg.Compiler.Binary)
	assert.Equal(t, "0.3.7", cfg.Compiler.MinVersion)
	assert.Equal(t, ColorNever, cfg.Output.Color)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.True(t, cfg.Check.Strict)
	assert.True(t, cfg.Check.SkipUnused)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadWithDefaults_NoColor(t *testing.T) {
	t.Setenv("IFACECHECK_COLOR", "")
	t.Setenv("NO_COLOR", "1")

	cfg, err := LoadWithDefaults(Defaults())
	require.NoError(t, err)
	assert.Equal(t, ColorNever, cfg.Output.Color)
}

func TestLoadWithDefaults_Base(t *testing.T) {
	t.Setenv("IFACECHECK_VYPER", "")
	t.Setenv("IFACECHECK_STRICT", "")
	t.Setenv("IFACECHECK_SKIP_UNUSED", "false")

	base := Defaults()
	base.Compiler.Binary = "./venv/bin/vyper"
	base.Check.Strict = true
	base.Check.SkipUnused = true

	cfg, err := LoadWithDefaults(base)
	require.NoError(t, err)

	assert.Equal(t, "./venv/bin/vyper", cfg.Compiler.Binary)
	assert.True(t, cfg.Check.Strict)
	assert.False(t, cfg.Check.SkipUnused, "environment overrides the base value")
}
