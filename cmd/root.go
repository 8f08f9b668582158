package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pingwatch/pingwatch/internal/config"
	"github.com/pingwatch/pingwatch/internal/devlog"
	"github.com/pingwatch/pingwatch/internal/lockfile"
	"github.com/pingwatch/pingwatch/internal/monitor"
	"github.com/pingwatch/pingwatch/internal/notify"
	"github.com/pingwatch/pingwatch/internal/probe"
	"github.com/pingwatch/pingwatch/internal/tui"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pingwatch",
	Short: "Watch network reachability from your desktop",
	Long: `Pingwatch probes a fixed set of hosts with ICMP echoes at a steady
cadence, classifies every round-trip into latency bands, and keeps a
rolling log of deviations. A traffic-light indicator derived from the
first configured target tells you at a glance whether your connection
is healthy, with hysteresis so it doesn't flicker on borderline pings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Load configuration
		cfg, err := config.LoadConfig()
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				fmt.Println("Config not found, creating default config...")
				if initErr := config.InitConfig(false); initErr != nil {
					return fmt.Errorf("failed to create default config: %w", initErr)
				}
				cfg, err = config.LoadConfig()
				if err != nil {
					return fmt.Errorf("failed to load config after creation: %w", err)
				}
			} else {
				return fmt.Errorf("failed to load config: %w (run 'pingwatch init' to create one)", err)
			}
		}

		if err := cfg.Validate(); err != nil {
			return err
		}

		addresses := make([]string, 0, len(cfg.Targets))
		for _, t := range cfg.Targets {
			addresses = append(addresses, t.Address)
		}
		if err := probe.ValidateTargets(addresses); err != nil {
			return err
		}

		// Only one instance may run against the same lock file
		lock, err := lockfile.Acquire(cfg.LockFile)
		if err != nil {
			if errors.Is(err, lockfile.ErrHeld) {
				return fmt.Errorf("pingwatch is already running: %w", err)
			}
			fmt.Fprintf(os.Stderr, "Warning: lock file check failed: %v\n", err)
		}
		defer func() {
			if lock != nil {
				if releaseErr := lock.Release(); releaseErr != nil {
					fmt.Fprintf(os.Stderr, "Warning: %v\n", releaseErr)
				}
			}
		}()

		prober, err := probe.NewICMPProber()
		if err != nil {
			return fmt.Errorf("failed to set up ICMP: %w", err)
		}

		deviations := devlog.New(cfg.DeviationsFile)

		mon, err := monitor.NewMonitor(cfg, prober, deviations)
		if err != nil {
			return fmt.Errorf("failed to create monitor: %w", err)
		}

		// Setup context with cancellation
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Handle OS signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		// Start monitoring in background
		go mon.Start(ctx)

		// Start TUI
		notifier := notify.NewNotifier(cfg.Notifications)
		model := tui.NewModel(mon, notifier, cancel)
		p := tea.NewProgram(model, tea.WithAltScreen())

		if _, err := p.Run(); err != nil {
			return fmt.Errorf("failed to start TUI: %w", err)
		}

		// Let the in-flight round drain before releasing the lock
		cancel()
		<-mon.Done()

		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
