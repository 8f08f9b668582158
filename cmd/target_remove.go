package cmd

import (
	"fmt"

	"github.com/pingwatch/pingwatch/internal/config"
	"github.com/spf13/cobra"
)

var targetRemoveCmd = &cobra.Command{
	Use:   "target:remove <name>",
	Short: "Remove a target from monitoring",
	Long: `Remove a target by name from your pingwatch configuration.

Example:
  pingwatch target:remove google`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if err := cfg.RemoveTarget(name); err != nil {
			return err
		}

		if err := config.SaveConfig(cfg); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		fmt.Printf("✓ Removed target '%s'\n", name)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(targetRemoveCmd)
}
