package cli

import (
	"fmt"
	"io"

	"sortable-cli/internal/docs"
	"sortable-cli/internal/render"

	"github.com/spf13/cobra"
)

func newDocsCmd(app *App) *cobra.Command {
	var (
		raw    bool
		pretty bool
		style  string
	)

	cmd := &cobra.Command{
		Use:   "docs [topic]",
		Short: "Show on-demand documentation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return writeOut(cmd, app, map[string]any{"data": map[string]any{"topics": docs.Topics()}})
			}

			topic := args[0]
			body, ok := docs.Get(topic)
			if !ok {
				return writeErr(cmd, fmt.Errorf("unknown docs topic: %q (run `sortable docs` to list topics)", topic))
			}

			switch {
			case pretty:
				_, err := io.WriteString(cmd.OutOrStdout(), render.Glamour(body, style, 80))
				return err
			case raw:
				_, err := io.WriteString(cmd.OutOrStdout(), body)
				return err
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"topic": topic, "markdown": body}})
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print raw markdown (no JSON envelope)")
	cmd.Flags().BoolVar(&pretty, "render", false, "Render markdown for the terminal")
	cmd.Flags().StringVar(&style, "style", "notty", "Render style (notty|dark|light|ascii)")
	return cmd
}
