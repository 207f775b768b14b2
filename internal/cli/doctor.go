package cli

import (
	"errors"

	"sortable-cli/internal/store"

	"github.com/spf13/cobra"
)

var errDoctorIssuesFound = errors.New("doctor: issues found")

type doctorIssue struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	IDs     []int  `json:"ids,omitempty"`
}

func newDoctorCmd(app *App) *cobra.Command {
	var fail bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check the stored tree for duplicate ids and snapshot corruption",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := app.openStore(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer st.Close()

			issues := []doctorIssue{}
			nodes := 0
			tree, snap, err := st.Latest(ctx)
			switch {
			case errors.Is(err, store.ErrNoSnapshot):
			case err != nil:
				// Latest verifies the digest, so corruption lands here.
				issues = append(issues, doctorIssue{Code: "snapshot_unreadable", Message: err.Error()})
			default:
				nodes = tree.Count()
				if dups := tree.Duplicates(); len(dups) > 0 {
					issues = append(issues, doctorIssue{
						Code:    "duplicate_ids",
						Message: "ids must be unique for drags to resolve",
						IDs:     dups,
					})
				}
			}

			if err := writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"db":       st.Path(),
					"snapshot": snap.ID,
					"nodes":    nodes,
					"issues":   issues,
				},
				"meta": map[string]any{
					"issues":    len(issues),
					"hasErrors": len(issues) > 0,
				},
				"_hints": []string{
					"sortable history",
				},
			}); err != nil {
				return err
			}

			if fail && len(issues) > 0 {
				return errDoctorIssuesFound
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fail, "fail", false, "Exit with non-zero status if issues are found")
	return cmd
}
