package cmd

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/zjrosen/opcalc/internal/config"
	"github.com/zjrosen/opcalc/internal/log"
	"github.com/zjrosen/opcalc/internal/presentation"
	"github.com/zjrosen/opcalc/internal/registry"
)

var providersListCmd = &cobra.Command{
	Use:   "providers:list",
	Short: "List builtin providers as JSON",
	Long: `List every builtin provider in registration order as JSON.

"enabled" reflects the operators.enabled config list; "shadowed" marks a
provider whose symbol is already claimed by an earlier one.

Examples:
  opcalc providers:list
  opcalc providers:list | jq '.[] | select(.enabled) | .symbol'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		all := registry.New()
		if err := registry.Compose(all, registry.Builtin()); err != nil {
			return err
		}
		dtos := presentation.FromEntries(all.Entries(), cfg.Operators.Enabled)
		return presentation.NewFormatter(cmd.OutOrStdout()).FormatProviders(dtos)
	},
}

var providersEnableCmd = &cobra.Command{
	Use:   "providers:enable <name|symbol>",
	Short: "Enable a builtin provider in the config file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateEnabled(cmd, args[0], true)
	},
}

var providersDisableCmd = &cobra.Command{
	Use:   "providers:disable <name|symbol>",
	Short: "Disable a builtin provider in the config file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateEnabled(cmd, args[0], false)
	},
}

func init() {
	rootCmd.AddCommand(providersListCmd, providersEnableCmd, providersDisableCmd)
}

// updateEnabled rewrites operators.enabled as an explicit list of provider
// names with key added or removed.
func updateEnabled(cmd *cobra.Command, key string, enable bool) error {
	builtins, err := registry.Builtin().Descriptors()
	if err != nil {
		return err
	}

	var target []string
	for _, d := range builtins {
		if registry.Matches(d.Metadata, []string{key}) {
			target = append(target, d.Metadata.Name())
		}
	}
	if len(target) == 0 {
		return fmt.Errorf("no builtin provider named or bound to %q", key)
	}

	enabled := enabledNames(builtins, cfg.Operators.Enabled)
	for _, name := range target {
		has := slices.Contains(enabled, name)
		switch {
		case enable && !has:
			enabled = append(enabled, name)
		case !enable && has:
			enabled = slices.DeleteFunc(enabled, func(n string) bool { return n == name })
		}
	}
	if len(enabled) == 0 {
		return fmt.Errorf("refusing to disable %q: it is the last enabled provider", key)
	}

	path := configFilePath()
	if err := config.SaveEnabledOperators(path, enabled); err != nil {
		return err
	}
	cfg.Operators.Enabled = enabled
	log.Info(log.CatConfig, "enabled operators updated", "path", path, "enabled", enabled)

	fmt.Fprintf(cmd.OutOrStdout(), "enabled: %v\n", enabled)
	return nil
}

// enabledNames resolves selector keys to provider names in catalog order.
// An empty selector list means every builtin.
func enabledNames(builtins []registry.Descriptor, keys []string) []string {
	var names []string
	for _, d := range builtins {
		if len(keys) > 0 && !registry.Matches(d.Metadata, keys) {
			continue
		}
		if !slices.Contains(names, d.Metadata.Name()) {
			names = append(names, d.Metadata.Name())
		}
	}
	return names
}
