package cli

import (
	"io"
	"log/slog"
	"strings"

	"sortable-cli/internal/bridge"
	"sortable-cli/internal/tui"

	"github.com/spf13/cobra"
)

func newTUICmd(app *App) *cobra.Command {
	var glyphs string

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Reorder the stored tree interactively",
		Long: strings.TrimSpace(`
Reorder the stored tree with the keyboard. Grab a row with space, move it with
j/k, indent with l or tab, outdent with h or shift+tab, and drop it with space
or esc. Every step is saved.
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := app.openStore(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			tree, err := currentTree(ctx, st)
			if err != nil {
				return writeErr(cmd, err)
			}

			// The alternate screen owns the terminal; only errors get through.
			log := app.log
			if !app.Verbose {
				log = slog.New(slog.NewTextHandler(io.Discard, nil))
			}
			b := bridge.New(tree, nil,
				bridge.WithLogger(log),
				bridge.WithObserver(st.Observer(ctx, "tui", app.log)),
			)

			if strings.TrimSpace(glyphs) == "" {
				glyphs = app.cfg.TUI.Glyphs
			}
			return tui.Run(b, tui.Options{Glyphs: glyphs})
		},
	}

	cmd.Flags().StringVar(&glyphs, "glyphs", envOr("SORTABLE_GLYPHS", ""), "Glyph set (unicode|ascii)")
	return cmd
}
