// Package commands implements the geldb command line.
package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gelpkg/geldb"
)

// app holds what the subcommands share once flags are parsed.
type app struct {
	configPath string
	root       string
	name       string
	codec      string
	compress   string
	logLevel   string

	cfg   *Config
	store *geldb.Store[any]
}

// Execute runs the geldb command with os.Args.
func Execute() error {
	return NewRootCommand().Execute()
}

// NewRootCommand returns the geldb command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "geldb",
		Short:         "Inspect and edit a geldb store directory",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ~/.geldb/config.yaml)")
	root.PersistentFlags().StringVar(&a.root, "root", "", "parent directory of the store")
	root.PersistentFlags().StringVar(&a.name, "name", "", "store name under --root")
	root.PersistentFlags().StringVar(&a.codec, "codec", "", "value codec: msgpack or yaml")
	root.PersistentFlags().StringVar(&a.compress, "compress", "", "value compression: none, gzip, zlib or zstd")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")

	root.AddCommand(keysCmd(a), getCmd(a), setCmd(a), rmCmd(a), refCmd(a))
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	path := a.configPath
	if path == "" {
		p, err := DefaultConfigPath()
		if err != nil {
			return err
		}
		path = p
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return err
	}
	cfg.applyEnv(os.Getenv)

	flags := cmd.Flags()
	if flags.Changed("root") {
		cfg.Root = a.root
	}
	if flags.Changed("name") {
		cfg.Name = a.name
	}
	if flags.Changed("codec") {
		cfg.Codec = a.codec
	}
	if flags.Changed("compress") {
		cfg.Compress = a.compress
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	codec, err := cfg.codec()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.store = geldb.New(cfg.Root, cfg.Name, geldb.Options[any]{
		Codec:        codec,
		CacheSizeMax: cfg.CacheSizeMax,
		Logger:       logger,
	})
	logger.Debug("store opened", "dir", a.store.Dir(), "codec", cfg.Codec, "compress", cfg.Compress)
	return nil
}
