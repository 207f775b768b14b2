package main

import (
	"os"
	"path/filepath"
	"strings"

	"sortable-cli/internal/cli"
)

func isTreeFile(s string) bool {
	switch strings.ToLower(filepath.Ext(strings.TrimSpace(s))) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// rewriteDirectImportArgs makes `sortable tree.json` work like
// `sortable import tree.json`. Cobra treats the first non-flag token as a
// subcommand, so argv is rewritten before parsing.
func rewriteDirectImportArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	// Flags we don't recognize are skipped without their value so the file
	// argument is never consumed by accident.
	valueFlags := map[string]bool{
		"--db":     true,
		"--config": true,
		"--format": true,
	}

	insert := func(i int) []string {
		out := make([]string, 0, len(argv)+1)
		out = append(out, argv[:i]...)
		out = append(out, "import")
		return append(out, argv[i:]...)
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) && isTreeFile(argv[i+1]) {
				return insert(i + 1)
			}
			return argv
		}
		if strings.HasPrefix(a, "-") {
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++
			}
			continue
		}
		if isTreeFile(a) {
			return insert(i)
		}
		return argv
	}
	return argv
}

func main() {
	os.Args = rewriteDirectImportArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
