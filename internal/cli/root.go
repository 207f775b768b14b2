package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"sortable-cli/internal/config"
	"sortable-cli/internal/format"
	"sortable-cli/internal/model"
	"sortable-cli/internal/store"

	"github.com/spf13/cobra"
)

type App struct {
	DB         string
	ConfigPath string
	Format     string
	Pretty     bool
	Verbose    bool

	cfg *config.Config
	log *slog.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "sortable",
		Short:        "Reorder a nested list from the terminal or the browser",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Load a tree and look at it
  sortable import tree.json
  sortable show --outline

  # Move the first root item to the end of item 3's children
  sortable move --from "" --to 3 --old 0 --new 99 --diff

  # Drag things around
  sortable tui
  sortable web --addr 127.0.0.1:3335
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.init(cmd)
	}

	cmd.PersistentFlags().StringVar(&app.DB, "db", envOr("SORTABLE_DB", ""), "Path to the SQLite database (default: db from config, else ~/.sortable/tree.sqlite)")
	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr("SORTABLE_CONFIG", ""), "Path to config.yaml")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("SORTABLE_FORMAT", ""), "Output format (json|edn|yaml)")
	cmd.PersistentFlags().BoolVar(&app.Pretty, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().BoolVarP(&app.Verbose, "verbose", "v", false, "Log debug details to stderr")

	cmd.AddCommand(newImportCmd(app))
	cmd.AddCommand(newShowCmd(app))
	cmd.AddCommand(newMoveCmd(app))
	cmd.AddCommand(newResolveCmd(app))
	cmd.AddCommand(newHistoryCmd(app))
	cmd.AddCommand(newDoctorCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newBackupCmd(app))
	cmd.AddCommand(newRestoreCmd(app))
	cmd.AddCommand(newTUICmd(app))
	cmd.AddCommand(newWebCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

// init applies flag > env > config file > default precedence. Flags already
// carry their env fallback, so only empty values consult the file.
func (app *App) init(cmd *cobra.Command) error {
	level := slog.LevelWarn
	if app.Verbose {
		level = slog.LevelDebug
	}
	app.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	cfg, err := config.Load(app.ConfigPath)
	if err != nil {
		return writeErr(cmd, fmt.Errorf("config: %w", err))
	}
	app.cfg = cfg
	if strings.TrimSpace(app.DB) == "" {
		app.DB = cfg.DB
	}
	if strings.TrimSpace(app.Format) == "" {
		app.Format = cfg.Format
	}
	app.log.Debug("configured", "db", app.DB, "format", app.Format)
	return nil
}

func (app *App) openStore(ctx context.Context) (*store.Store, error) {
	return store.Open(ctx, app.DB)
}

// currentTree returns the latest stored tree; an empty store yields an empty
// tree.
func currentTree(ctx context.Context, st *store.Store) (model.Tree, error) {
	t, _, err := st.Latest(ctx)
	if errors.Is(err, store.ErrNoSnapshot) {
		return model.Tree{}, nil
	}
	return t, err
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.Pretty)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
