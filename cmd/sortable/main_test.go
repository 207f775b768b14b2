package main

import (
	"reflect"
	"testing"
)

func TestRewriteDirectImportArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"sortable"},
			want: []string{"sortable"},
		},
		{
			name: "tree file first token",
			in:   []string{"sortable", "tree.json"},
			want: []string{"sortable", "import", "tree.json"},
		},
		{
			name: "yaml file after value flag",
			in:   []string{"sortable", "--db", "./tmp.sqlite", "tree.yml"},
			want: []string{"sortable", "--db", "./tmp.sqlite", "import", "tree.yml"},
		},
		{
			name: "tree file after equals flag",
			in:   []string{"sortable", "--db=./tmp.sqlite", "tree.yaml"},
			want: []string{"sortable", "--db=./tmp.sqlite", "import", "tree.yaml"},
		},
		{
			name: "tree file after bool flag",
			in:   []string{"sortable", "--pretty", "tree.json"},
			want: []string{"sortable", "--pretty", "import", "tree.json"},
		},
		{
			name: "tree file after double dash",
			in:   []string{"sortable", "--db", "./tmp.sqlite", "--", "tree.json"},
			want: []string{"sortable", "--db", "./tmp.sqlite", "--", "import", "tree.json"},
		},
		{
			name: "normal subcommand not rewritten",
			in:   []string{"sortable", "import", "tree.json"},
			want: []string{"sortable", "import", "tree.json"},
		},
		{
			name: "db value that looks like a tree file",
			in:   []string{"sortable", "--db", "state.json", "show"},
			want: []string{"sortable", "--db", "state.json", "show"},
		},
		{
			name: "unknown command not rewritten",
			in:   []string{"sortable", "wat"},
			want: []string{"sortable", "wat"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rewriteDirectImportArgs(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("rewriteDirectImportArgs(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
