// cmd/regimen/main.go
//
// This is the entry point for the regimen CLI.
//
// Flow:
// 1. Resolve the home directory ($REGIMEN_HOME or ~/.regimen) and load config
// 2. `regimen` launches the setup wizard
// 3. `regimen stub` serves a local program service for the wizard to talk to

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/kingrea/regimen/internal/catalog"
	"github.com/kingrea/regimen/internal/config"
	"github.com/kingrea/regimen/internal/devserver"
	"github.com/kingrea/regimen/internal/logging"
	"github.com/kingrea/regimen/internal/tui"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "regimen",
		Short: "Set up a personalised training program",
		Long: `regimen walks you through goals, schedule, disciplines, movement
preferences, activities and coaching style, then asks the program service
to build your program.

Examples:
  regimen           # Start the setup wizard
  regimen stub      # Serve a local program service on the configured port
  regimen last      # Show the most recently created program`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWizard()
		},
	}
	root.AddCommand(newStubCommand(), newLastCommand())
	return root
}

func loadConfig() (*config.Config, error) {
	home, err := config.ResolveHome()
	if err != nil {
		return nil, err
	}
	if err := config.InitHomeDir(home); err != nil {
		return nil, err
	}
	return config.NewConfig(home)
}

func runWizard() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.LogsDir())
	if err != nil {
		return err
	}
	defer logger.Close()

	app, err := tui.NewApp(cfg, tui.WithLogger(logger.With("wizard")))
	if err != nil {
		return err
	}
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}

func newStubCommand() *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "stub",
		Short: "Serve a local program service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			settings := devserver.SettingsFromConfig(cfg)
			if cmd.Flags().Changed("port") {
				settings.Port = port
			}
			cat, err := catalog.Load(cfg.File.Catalog.Path)
			if err != nil {
				return err
			}
			logger := logging.NewWriter(cmd.ErrOrStderr())
			srv := devserver.NewServer(settings,
				devserver.WithLogger(logger),
				devserver.WithCatalog(cat),
			)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := srv.Start(ctx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Program service listening on %s (ctrl+c to stop)\n", srv.BaseURL())
			<-ctx.Done()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to bind (defaults to dev_server.port)")
	return cmd
}

func newLastCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "last",
		Short: "Show the most recently created program",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			last, ok, err := cfg.LastProgram()
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "No program created yet.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (created %s)\n", last.ID, last.CreatedAt.Local().Format(time.RFC1123))
			return nil
		},
	}
}
