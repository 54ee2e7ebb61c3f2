package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"github.com/gelpkg/geldb"
)

const (
	// DefaultBaseDir is the configuration directory under the user's home.
	DefaultBaseDir = ".geldb"
	// DefaultConfigFile is the configuration filename in DefaultBaseDir.
	DefaultConfigFile = "config.yaml"
)

// Config is the on-disk configuration of the geldb command.
type Config struct {
	// Root is the parent directory of the store. It must exist.
	Root string `yaml:"root,omitempty"`

	// Name is the store's subdirectory under Root.
	Name string `yaml:"name,omitempty"`

	// Codec is "msgpack" (default) or "yaml".
	Codec string `yaml:"codec,omitempty"`

	// Compress is "none" (default), "gzip", "zlib" or "zstd".
	Compress string `yaml:"compress,omitempty"`

	// CacheSizeMax bounds the read cache in bytes; 0 disables it.
	CacheSizeMax uint64 `yaml:"cache_size_max,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level,omitempty"`
}

func defaultConfig() *Config {
	return &Config{
		Root:     ".",
		Name:     "db",
		Codec:    "msgpack",
		Compress: "none",
		LogLevel: "warn",
	}
}

// DefaultConfigPath returns ~/.geldb/config.yaml.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, DefaultBaseDir, DefaultConfigFile), nil
}

// LoadConfig reads path over the defaults. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// applyEnv overrides fields from GELDB_* variables that are set.
func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv("GELDB_ROOT"); v != "" {
		c.Root = v
	}
	if v := getenv("GELDB_NAME"); v != "" {
		c.Name = v
	}
	if v := getenv("GELDB_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

func (c *Config) codec() (geldb.Codec[any], error) {
	var codec geldb.Codec[any]
	switch c.Codec {
	case "", "msgpack":
		codec = geldb.Msgpack[any]()
	case "yaml":
		codec = geldb.YAML[any]()
	default:
		return nil, fmt.Errorf("unknown codec %q", c.Codec)
	}

	switch c.Compress {
	case "", "none":
		return codec, nil
	case "gzip":
		return geldb.Compressed(codec, geldb.NewGzipCompression()), nil
	case "zlib":
		return geldb.Compressed(codec, geldb.NewZlibCompression()), nil
	case "zstd":
		return geldb.Compressed(codec, geldb.NewZstdCompression()), nil
	default:
		return nil, fmt.Errorf("unknown compression %q", c.Compress)
	}
}
