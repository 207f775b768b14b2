package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"sortable-cli/internal/ingest"
	"sortable-cli/internal/model"
	"sortable-cli/internal/render"
	"sortable-cli/internal/store"

	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	var inputFormat string

	cmd := &cobra.Command{
		Use:   "import <file|->",
		Short: "Replace the stored tree with a JSON or YAML file",
		Long: strings.TrimSpace(`
Replace the stored tree with the contents of a file.

The file holds a list of {id, name, children} nodes. The format follows the
file extension (.json, .yaml, .yml); use --input-format when reading stdin.
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				tree model.Tree
				err  error
			)
			if args[0] == "-" {
				b, rerr := io.ReadAll(cmd.InOrStdin())
				if rerr != nil {
					return writeErr(cmd, rerr)
				}
				tree, err = ingest.Parse(b, inputFormat)
			} else {
				tree, err = ingest.ReadFile(args[0])
			}
			if err != nil {
				return writeErr(cmd, err)
			}
			if dups := tree.Duplicates(); len(dups) > 0 {
				return writeErr(cmd, fmt.Errorf("import: duplicate ids %v", dups))
			}

			st, err := app.openStore(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			snap, err := st.SaveSnapshot(cmd.Context(), tree, "import")
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": snap,
				"_hints": []string{
					"sortable show --outline",
				},
			})
		},
	}

	cmd.Flags().StringVar(&inputFormat, "input-format", "json", "Format of stdin input (json|yaml)")
	return cmd
}

func newShowCmd(app *App) *cobra.Command {
	var (
		outline  bool
		markdown bool
		style    string
		width    int
		snapshot int64
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the current tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			if outline && markdown {
				return writeErr(cmd, errUsage("markdown", "cannot be combined with --outline"))
			}
			st, err := app.openStore(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			var (
				tree model.Tree
				snap store.Snapshot
			)
			if snapshot > 0 {
				tree, snap, err = st.Load(cmd.Context(), snapshot)
				if errors.Is(err, store.ErrNoSnapshot) {
					err = errNotFound("snapshot", strconv.FormatInt(snapshot, 10))
				}
			} else {
				tree, snap, err = st.Latest(cmd.Context())
				if errors.Is(err, store.ErrNoSnapshot) {
					tree, err = model.Tree{}, nil
				}
			}
			if err != nil {
				return writeErr(cmd, err)
			}

			switch {
			case outline:
				_, err = io.WriteString(cmd.OutOrStdout(), render.Outline(tree))
				return err
			case markdown:
				_, err = io.WriteString(cmd.OutOrStdout(), render.Glamour(render.Markdown(tree), style, width))
				return err
			}
			return writeOut(cmd, app, map[string]any{
				"data": tree,
				"meta": map[string]any{
					"nodes":    tree.Count(),
					"snapshot": snap.ID,
					"digest":   snap.Digest,
				},
			})
		},
	}

	cmd.Flags().BoolVar(&outline, "outline", false, "Print an indented outline")
	cmd.Flags().BoolVar(&markdown, "markdown", false, "Print a rendered markdown list")
	cmd.Flags().StringVar(&style, "style", "notty", "Markdown style (notty|dark|light|ascii)")
	cmd.Flags().IntVar(&width, "width", 80, "Markdown wrap width")
	cmd.Flags().Int64Var(&snapshot, "snapshot", 0, "Show a stored snapshot instead of the latest")
	return cmd
}
