package cli

import (
	"errors"
	"strconv"
	"strings"

	"sortable-cli/internal/publish"
	"sortable-cli/internal/store"

	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var (
		to        string
		title     string
		overwrite bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the current tree as markdown, HTML and JSON files",
		Example: strings.TrimSpace(`
sortable export --to ./site --title "Roadmap"
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
			res, err := publish.WriteTree(tree, to, publish.WriteOptions{Overwrite: overwrite, Title: title})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": res})
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Output directory")
	cmd.Flags().StringVar(&title, "title", "", "Page title")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace existing files")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newBackupCmd(app *App) *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Copy the database (snapshots and move log) to a new file",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := app.openStore(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			if err := st.Backup(ctx, to); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"from": st.Path(), "to": to},
				"_hints": []string{
					"sortable --db " + to + " history",
				},
			})
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Destination file (must not exist)")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newRestoreCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restore <snapshot-id>",
		Short: "Make an earlier snapshot the current tree again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(strings.TrimSpace(args[0]), 10, 64)
			if err != nil {
				return writeErr(cmd, errNotFound("snapshot", args[0]))
			}
			ctx := cmd.Context()
			st, err := app.openStore(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			snap, err := st.Restore(ctx, id)
			if errors.Is(err, store.ErrNoSnapshot) {
				return writeErr(cmd, errNotFound("snapshot", args[0]))
			}
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": snap})
		},
	}
	return cmd
}
