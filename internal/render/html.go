package render

import (
	"bytes"
	"html/template"

	"sortable-cli/internal/model"
)

// The markup mirrors what the web client expects: one data-root element,
// one list-group per list, and a data-id on every item element. The client
// derives drag paths from exactly these attributes.
var listTmpl = template.Must(template.New("tree").Parse(`
{{- define "list" -}}
<div class="list-group sortable-list">
{{- range . }}
<div class="list-group-item" role="listitem" data-id="{{ .ID }}">
<div class="item-label"><span>{{ .Name }}</span></div>
<div class="item-children">{{ template "list" .Children }}</div>
</div>
{{- end }}
</div>
{{- end -}}
<div data-root="true">{{ template "list" . }}</div>`))

// HTML renders tree as nested sortable containers.
func HTML(tree model.Tree) (template.HTML, error) {
	if tree == nil {
		tree = model.Tree{}
	}
	var buf bytes.Buffer
	if err := listTmpl.Execute(&buf, []model.Node(tree)); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
