package cli

import (
	"fmt"
	"strings"

	"sortable-cli/internal/reorder"

	"github.com/spf13/cobra"
)

func newResolveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <marker>...",
		Short: "Resolve an ancestor chain to a list path",
		Long: strings.TrimSpace(`
Resolve an ancestor chain, nearest element first, the way a drag container is
resolved. Each marker is one element:

  id:<value>  an element carrying an identifier
  -           an element without one
  root        the structural root (resolution stops here)

Identifiers that are not integers are skipped and reported under "ignored".
`),
		Example: strings.TrimSpace(`
# A list nested two levels deep: list, wrapper, item 4, list, wrapper, item 1, list, root
sortable resolve - - id:4 - - id:1 - root
`),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chain, err := parseChain(args)
			if err != nil {
				return writeErr(cmd, err)
			}
			ignored := []string{}
			path := reorder.ResolvePath(chain, func(raw string) {
				ignored = append(ignored, raw)
			})
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"path":    path,
					"ignored": ignored,
				},
			})
		},
	}
	return cmd
}

func parseChain(tokens []string) (reorder.Chain, error) {
	chain := make(reorder.Chain, 0, len(tokens))
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		switch {
		case tok == "root":
			chain = append(chain, reorder.RootMarker())
		case tok == "-":
			chain = append(chain, reorder.Wrapper())
		case strings.HasPrefix(tok, "id:"):
			chain = append(chain, reorder.Marker{ID: strings.TrimPrefix(tok, "id:"), HasID: true})
		default:
			return nil, fmt.Errorf("unknown marker %q (want id:<value>, - or root)", tok)
		}
	}
	return chain, nil
}
