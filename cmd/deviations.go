package cmd

import (
	"fmt"
	"time"

	"github.com/pingwatch/pingwatch/internal/config"
	"github.com/pingwatch/pingwatch/internal/devlog"
	"github.com/spf13/cobra"
)

var deviationsTail int

var deviationsCmd = &cobra.Command{
	Use:   "deviations",
	Short: "Show recent deviations",
	Long: `Print the most recent entries of the deviation log, plus a per-target
count over the last 24 hours.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		log := devlog.New(cfg.DeviationsFile)

		lines, err := log.Tail(deviationsTail)
		if err != nil {
			return fmt.Errorf("failed to read deviation log: %w", err)
		}

		if len(lines) == 0 {
			fmt.Println("No deviations recorded.")
			return nil
		}

		for _, line := range lines {
			fmt.Println(line)
		}

		fmt.Println()
		for _, target := range cfg.Targets {
			count, err := log.RecentCount(target.Name, 24*time.Hour)
			if err != nil {
				return fmt.Errorf("failed to count deviations: %w", err)
			}
			fmt.Printf("  %s: %d in the last 24h\n", target.Name, count)
		}

		return nil
	},
}

func init() {
	deviationsCmd.Flags().IntVarP(&deviationsTail, "tail", "t", 20, "number of recent entries to show")
	rootCmd.AddCommand(deviationsCmd)
}
