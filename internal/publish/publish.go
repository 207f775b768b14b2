// Package publish writes a tree to a directory as static files.
package publish

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"sortable-cli/internal/model"
	"sortable-cli/internal/render"
)

type WriteOptions struct {
	Overwrite bool
	// Title heads the markdown and HTML pages.
	Title string
	Now   time.Time
}

type WriteResult struct {
	Written []string `json:"written"`
}

var pageTmpl = template.Must(template.New("page").Parse(`<!doctype html>
<html lang="en">
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
{{.Tree}}
<p><small>Exported {{.Exported}}</small></p>
</body>
</html>
`))

// WriteTree writes index.md, index.html and tree.json under toDir. Existing
// files are kept unless opt.Overwrite is set.
func WriteTree(tree model.Tree, toDir string, opt WriteOptions) (WriteResult, error) {
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)
	if tree == nil {
		tree = model.Tree{}
	}
	title := strings.TrimSpace(opt.Title)
	if title == "" {
		title = "Tree"
	}
	now := opt.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	if err := os.MkdirAll(toDir, 0o755); err != nil {
		return WriteResult{}, err
	}

	md := fmt.Sprintf("# %s\n\n%s", title, render.Markdown(tree))

	body, err := render.HTML(tree)
	if err != nil {
		return WriteResult{}, err
	}
	var page bytes.Buffer
	if err := pageTmpl.Execute(&page, map[string]any{
		"Title":    title,
		"Tree":     body,
		"Exported": now.Format(time.RFC3339),
	}); err != nil {
		return WriteResult{}, err
	}

	raw, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return WriteResult{}, err
	}

	files := []struct {
		name string
		body []byte
	}{
		{"index.md", []byte(md)},
		{"index.html", page.Bytes()},
		{"tree.json", append(raw, '\n')},
	}
	written := []string{}
	for _, f := range files {
		p := filepath.Join(toDir, f.name)
		if err := writeFile(p, f.body, opt.Overwrite); err != nil {
			return WriteResult{Written: written}, err
		}
		written = append(written, p)
	}
	return WriteResult{Written: written}, nil
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
