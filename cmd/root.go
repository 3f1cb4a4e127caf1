package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/opcalc/internal/config"
	"github.com/zjrosen/opcalc/internal/log"
)

// defaultConfigPath is where a config is written when none is found.
const defaultConfigPath = ".opcalc/config.yaml"

var (
	version    = "dev"
	cfgFile    string
	cfg        config.Config
	logCleanup func()
)

var rootCmd = &cobra.Command{
	Use:   "opcalc",
	Short: "An extensible integer calculator",
	Long: `opcalc reads commands of the form <int><operator><int> and replies with the
result. Operators are served by providers composed into a registry at startup;
which providers are active is controlled by the operators section of the config.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer func() { _ = a.Close(context.WithoutCancel(cmd.Context())) }()
		return runREPL(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), a.calculator)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/opcalc/config.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false,
		"write debug logs (also enabled by OPCALC_DEBUG=1)")
	rootCmd.PersistentFlags().Bool("reject-duplicates", false,
		"fail startup when two providers claim the same operator symbol")
}

func initConfig() {
	viper.Reset()
	viper.SetEnvPrefix("OPCALC")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Lookup order: ./.opcalc/config.yaml, then ~/.config/opcalc/config.yaml.
		if _, err := os.Stat(defaultConfigPath); err == nil {
			viper.SetConfigFile(defaultConfigPath)
		} else {
			viper.AddConfigPath(config.ConfigDir())
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if writeErr := config.WriteDefaultConfig(defaultConfigPath); writeErr == nil {
				viper.SetConfigFile(defaultConfigPath)
				_ = viper.ReadInConfig()
			}
		}
		// Any other read error leaves the defaults in place.
	}

	cfg = config.Defaults()
	_ = viper.Unmarshal(&cfg)
	cfg.ExpandPaths()
}

// setup runs before every command: it applies flag overrides, validates the
// config and starts debug logging when requested.
func setup(cmd *cobra.Command, _ []string) error {
	if cmd.Flags().Changed("reject-duplicates") {
		cfg.Operators.RejectDuplicates, _ = cmd.Flags().GetBool("reject-duplicates")
	}

	if logCleanup != nil {
		logCleanup()
		logCleanup = nil
	}
	if viper.GetBool("debug") {
		var mirror io.Writer
		if cfg.Log.Stderr {
			mirror = cmd.ErrOrStderr()
		}
		cleanup, err := initLog(cfg.Log, mirror)
		if err != nil {
			return fmt.Errorf("initializing debug log: %w", err)
		}
		logCleanup = cleanup
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	log.Debug(log.CatConfig, "configuration loaded", "file", viper.ConfigFileUsed())
	return nil
}

func initLog(lc config.LogConfig, mirror io.Writer) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(lc.Path), 0o750); err != nil {
		return nil, err
	}
	cleanup, err := log.Init(lc.Path, mirror)
	if err != nil {
		return nil, err
	}
	if level, ok := log.ParseLevel(lc.Level); ok {
		log.SetMinLevel(level)
	}
	return cleanup, nil
}

// configFilePath returns the config file in use, or the default location
// that a save should create.
func configFilePath() string {
	if p := viper.ConfigFileUsed(); p != "" {
		return p
	}
	if cfgFile != "" {
		return cfgFile
	}
	return defaultConfigPath
}

// Execute runs the root command
func Execute() error {
	defer func() {
		if logCleanup != nil {
			logCleanup()
			logCleanup = nil
		}
	}()
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
