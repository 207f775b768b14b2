package cli

import (
	"github.com/spf13/cobra"
)

func newHistoryCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored snapshots and logged moves, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := app.openStore(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			snaps, err := st.Snapshots(ctx, limit)
			if err != nil {
				return writeErr(cmd, err)
			}
			moves, err := st.Moves(ctx, limit)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"snapshots": snaps,
					"moves":     moves,
				},
				"meta": map[string]any{
					"limit": limit,
				},
				"_hints": []string{
					"sortable show --snapshot <id>",
				},
			})
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Max entries per list (0 = all)")
	return cmd
}
