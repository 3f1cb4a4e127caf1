package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var calcCmd = &cobra.Command{
	Use:   "calc <command>...",
	Short: "Evaluate one or more commands and exit",
	Long: `Evaluate each argument as a command and print one reply per line.

A failure raised by an operation (for example a modulo by zero) stops
evaluation and exits non-zero.

Examples:
  opcalc calc 3+4
  opcalc calc 10-3 10%3 5*2`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer func() { _ = a.Close(context.WithoutCancel(cmd.Context())) }()

		for _, raw := range args {
			reply, err := a.calculator.Calculate(cmd.Context(), raw)
			if err != nil {
				return fmt.Errorf("%s: %w", raw, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), reply)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(calcCmd)
}
