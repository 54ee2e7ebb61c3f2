package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, defaultConfig(), cfg)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`root: /var/cache/gel
name: specs
codec: yaml
compress: zstd
cache_size_max: 4096
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/cache/gel", cfg.Root)
	assert.Equal(t, "specs", cfg.Name)
	assert.Equal(t, "yaml", cfg.Codec)
	assert.Equal(t, "zstd", cfg.Compress)
	assert.Equal(t, uint64(4096), cfg.CacheSizeMax)
	assert.Equal(t, "warn", cfg.LogLevel, "unset fields keep their default")
}

func TestLoadConfigInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("root: [unterminated"), 0o644))
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	cfg := defaultConfig()
	env := map[string]string{"GELDB_ROOT": "/srv", "GELDB_LOG_LEVEL": "debug"}
	cfg.applyEnv(func(k string) string { return env[k] })
	assert.Equal(t, "/srv", cfg.Root)
	assert.Equal(t, "db", cfg.Name)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestConfigCodec(t *testing.T) {
	for _, tc := range []struct {
		codec, compress string
		ok              bool
	}{
		{"msgpack", "none", true},
		{"yaml", "gzip", true},
		{"msgpack", "zlib", true},
		{"", "zstd", true},
		{"json", "none", false},
		{"msgpack", "lz4", false},
	} {
		cfg := &Config{Codec: tc.codec, Compress: tc.compress}
		c, err := cfg.codec()
		if !tc.ok {
			assert.Error(t, err, "%s/%s", tc.codec, tc.compress)
			continue
		}
		require.NoError(t, err, "%s/%s", tc.codec, tc.compress)
		data, err := c.Marshal(map[string]any{"a": "b"})
		require.NoError(t, err)
		v, err := c.Unmarshal(data)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"a": "b"}, v)
	}
}
