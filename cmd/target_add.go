package cmd

import (
	"fmt"

	"github.com/pingwatch/pingwatch/internal/config"
	"github.com/pingwatch/pingwatch/internal/probe"
	"github.com/spf13/cobra"
)

var (
	targetName    string
	targetAddress string
)

var targetAddCmd = &cobra.Command{
	Use:   "target:add",
	Short: "Add a new target to monitor",
	Long: `Add a new target to your pingwatch configuration.

Examples:
  pingwatch target:add --name cloudflare --address 1.1.1.1
  pingwatch target:add --name home-router --address 192.168.1.1`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Validate required fields
		if targetName == "" {
			return fmt.Errorf("target name is required (--name)")
		}
		if targetAddress == "" {
			return fmt.Errorf("target address is required (--address)")
		}

		if err := probe.ValidateTargets([]string{targetAddress}); err != nil {
			return err
		}

		// Load existing config
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		target := config.Target{
			Name:    targetName,
			Address: targetAddress,
		}

		if err := cfg.AddTarget(target); err != nil {
			return err
		}

		if err := config.SaveConfig(cfg); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		fmt.Printf("✓ Added target '%s' (%s)\n", target.Name, target.Address)

		return nil
	},
}

func init() {
	targetAddCmd.Flags().StringVarP(&targetName, "name", "n", "", "target name (required)")
	targetAddCmd.Flags().StringVarP(&targetAddress, "address", "a", "", "target IP or hostname (required)")
	rootCmd.AddCommand(targetAddCmd)
}
