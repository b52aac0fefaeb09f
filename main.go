package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/miosa/osa-vlist/app"
	"github.com/miosa/osa-vlist/config"
	"github.com/miosa/osa-vlist/logger"
	"github.com/miosa/osa-vlist/source"
	"github.com/miosa/osa-vlist/style"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "osa-vlist",
	Short: "Browse a large list through a virtual scroller",
	Long: `osa-vlist renders a list of generated or stored items in the terminal,
keeping only the visible window (plus a configurable margin) attached while
you scroll.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "osa-vlist %s\n", version)
	},
}

var saveConfigCmd = &cobra.Command{
	Use:   "save-config",
	Short: "Write the effective settings to the config file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(cmd.Flags())
		if err != nil {
			return err
		}
		if _, err := cfg.ListOptions(); err != nil {
			return err
		}
		path := config.Path()
		if err := config.Save(path, cfg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		return nil
	},
}

func init() {
	config.RegisterFlags(rootCmd.Flags())
	config.RegisterFlags(saveConfigCmd.Flags())
	rootCmd.AddCommand(versionCmd, saveConfigCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "osa-vlist: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	opts, err := cfg.ListOptions()
	if err != nil {
		return err
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	if err := logger.Init(logger.Options{Enabled: cfg.Log.Enabled, LogDir: cfg.Log.Dir, Level: level}); err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logger.Close()

	// Pick the theme before any rendering.
	switch {
	case cfg.UI.Theme == "":
		if lipgloss.HasDarkBackground(os.Stdin, os.Stdout) {
			style.SetTheme("dark")
		} else {
			style.SetTheme("light")
		}
	case !style.SetTheme(cfg.UI.Theme):
		return fmt.Errorf("unknown theme %q (have %v)", cfg.UI.Theme, style.ThemeNames)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	src, err := openSource(ctx, cfg)
	if err != nil {
		return err
	}
	defer src.Close()

	logger.Info("starting", "version", version, "mode", cfg.List.Mode, "axis", cfg.List.Axis, "db", cfg.Source.DB)

	// In bubbletea v2 the alt screen and mouse mode are set on the View.
	p := tea.NewProgram(app.New(ctx, cfg, opts, src), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}

	if !cfg.UI.Metrics {
		return nil
	}
	m, ok := final.(app.Model)
	if !ok {
		return nil
	}
	metrics, ok := m.Metrics()
	if !ok {
		return nil
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(metrics)
}

// openSource returns the sqlite store named by the config, seeding it when
// empty, or an in-memory list of generated items.
func openSource(ctx context.Context, cfg config.Config) (source.Source, error) {
	if cfg.Source.DB == "" {
		return source.NewMemory(source.Generate(cfg.List.Length, cfg.Source.Seed, cfg.Source.Markdown)), nil
	}

	db, err := source.OpenSQLite(ctx, cfg.Source.DB)
	if err != nil {
		return nil, err
	}
	n, err := db.Len(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}
	if n == 0 {
		logger.Info("seeding database", "path", cfg.Source.DB, "items", cfg.List.Length)
		if err := db.Fill(ctx, source.Generate(cfg.List.Length, cfg.Source.Seed, cfg.Source.Markdown)); err != nil {
			db.Close()
			return nil, err
		}
	}
	return db, nil
}
