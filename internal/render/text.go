package render

import (
	"fmt"
	"strings"
	"sync"

	"sortable-cli/internal/model"

	"github.com/charmbracelet/glamour"
)

// Outline renders one line per node, indented two spaces per level.
func Outline(tree model.Tree) string {
	var b strings.Builder
	for _, r := range Rows(tree, nil) {
		fmt.Fprintf(&b, "%s- %s (#%d)\n", strings.Repeat("  ", r.Depth), r.Node.Name, r.Node.ID)
	}
	return b.String()
}

// Markdown renders the tree as a nested bullet list.
func Markdown(tree model.Tree) string {
	var b strings.Builder
	for _, r := range Rows(tree, nil) {
		fmt.Fprintf(&b, "%s- %s\n", strings.Repeat("  ", r.Depth), escapeMarkdown(r.Node.Name))
	}
	return b.String()
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
	"]", `\]`,
	"#", `\#`,
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

var (
	glamourMu        sync.Mutex
	glamourRenderers = map[string]*glamour.TermRenderer{}
)

// Glamour renders markdown for a terminal of the given width. style is a
// glamour standard style name ("dark", "light", "notty", ...). On renderer
// errors the markdown is returned unchanged.
func Glamour(md, style string, width int) string {
	if width <= 0 {
		width = 80
	}
	if style == "" {
		style = "notty"
	}
	key := fmt.Sprintf("%s:%d", style, width)

	glamourMu.Lock()
	defer glamourMu.Unlock()
	r := glamourRenderers[key]
	if r == nil {
		rr, err := glamour.NewTermRenderer(
			// WithAutoStyle can block on terminal queries.
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		glamourRenderers[key] = rr
		r = rr
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}
