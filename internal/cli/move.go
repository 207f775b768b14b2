package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"sortable-cli/internal/bridge"
	"sortable-cli/internal/model"
	"sortable-cli/internal/render"
	"sortable-cli/internal/reorder"

	"github.com/spf13/cobra"
)

func newMoveCmd(app *App) *cobra.Command {
	var (
		from     string
		to       string
		oldIndex int
		newIndex int
		slot     bool
		diff     bool
	)

	cmd := &cobra.Command{
		Use:   "move",
		Short: "Move one item between (or within) lists",
		Long: strings.TrimSpace(`
Move the item at --old in the list at --from to position --new in the list at
--to, exactly as a completed drag would.

Lists are addressed by the ids of their owning items from the root down,
comma separated; an empty value (or "root") is the top-level list. --new is
the item's final index. With --slot it is an insertion slot counted before the
item was removed, which matters only within one list.

Rejected moves exit non-zero and leave the stored tree unchanged.
`),
		Example: strings.TrimSpace(`
# Swap the first two top-level items
sortable move --from root --to root --old 0 --new 1

# Move item 2's first child to the top level, showing what changed
sortable move --from 2 --to root --old 0 --new 0 --diff
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			fromPath, err := parsePath(from)
			if err != nil {
				return writeErr(cmd, errUsage("from", err.Error()))
			}
			toPath, err := parsePath(to)
			if err != nil {
				return writeErr(cmd, errUsage("to", err.Error()))
			}

			ctx := cmd.Context()
			st, err := app.openStore(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			before, err := currentTree(ctx, st)
			if err != nil {
				return writeErr(cmd, err)
			}

			b := bridge.New(before, nil,
				bridge.WithLogger(app.log),
				bridge.WithObserver(st.Observer(ctx, "cli", app.log)),
			)
			mv := reorder.Move{From: fromPath, To: toPath, OldIndex: oldIndex, NewIndex: newIndex, Slot: slot}
			if err := b.ApplyMove(mv); err != nil {
				return writeErr(cmd, fmt.Errorf("move %s: %w", mv, err))
			}
			after := b.Value()

			if diff {
				_, err := io.WriteString(cmd.OutOrStdout(), render.Diff(render.Outline(before), render.Outline(after)))
				return err
			}
			return writeOut(cmd, app, map[string]any{
				"data": after,
				"meta": map[string]any{
					"move":  mv.String(),
					"nodes": after.Count(),
				},
			})
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Source list as owning ids from the root (e.g. 1,4); empty or root for the top level")
	cmd.Flags().StringVar(&to, "to", "", "Destination list, same form as --from")
	cmd.Flags().IntVar(&oldIndex, "old", 0, "Index of the item in the source list")
	cmd.Flags().IntVar(&newIndex, "new", 0, "Index in the destination list")
	cmd.Flags().BoolVar(&slot, "slot", false, "Treat --new as a pre-removal insertion slot")
	cmd.Flags().BoolVar(&diff, "diff", false, "Print an outline diff instead of the tree")
	return cmd
}

// parsePath reads "1,4,7" as a path; "", "root" and "/" are the root list.
func parsePath(s string) (model.Path, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "root" || s == "/" {
		return model.Path{}, nil
	}
	out := model.Path{}
	for _, part := range strings.Split(s, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("not an id: %q", part)
		}
		out = append(out, id)
	}
	return out, nil
}
