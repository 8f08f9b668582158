package cmd

import (
	"fmt"

	"github.com/pingwatch/pingwatch/internal/config"
	"github.com/spf13/cobra"
)

var targetListCmd = &cobra.Command{
	Use:   "target:list",
	Short: "List all configured targets",
	Long:  `Display all targets currently configured in pingwatch.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if len(cfg.Targets) == 0 {
			fmt.Println("No targets configured yet.")
			fmt.Println("\nAdd a target with:")
			fmt.Println("  pingwatch target:add --name <name> --address <address>")
			return nil
		}

		fmt.Printf("Configured targets (%d):\n\n", len(cfg.Targets))

		for i, target := range cfg.Targets {
			marker := "•"
			if i == 0 {
				marker = "★" // the primary target drives the health indicator
			}
			fmt.Printf("  %s %s\n", marker, target.Name)
			fmt.Printf("    Address: %s\n\n", target.Address)
		}

		fmt.Println("★ = primary target (drives the health indicator)")

		return nil
	},
}

func init() {
	rootCmd.AddCommand(targetListCmd)
}
