package main

import (
	"os"
	"strings"

	"habitdash/internal/cli"
	"habitdash/internal/dash"
)

// rewriteTabShortcutArgs turns `habitdash <tab>` into `habitdash tui --tab <tab>`.
// Subcommand names win over tab ids, so `habitdash goals` and
// `habitdash progress` stay commands.
//
// Cobra treats the first non-flag token as a subcommand, so argv is rewritten
// before parsing. Persistent flags may come first, so the first positional
// token is located rather than assuming argv[1].
func rewriteTabShortcutArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	// Flags we don't recognize are skipped without consuming a value.
	valueFlags := map[string]bool{
		"--config":    true,
		"--api-url":   true,
		"--timeout":   true,
		"--log-level": true,
		"--log-file":  true,
		"--format":    true,
	}
	boolFlags := map[string]bool{
		"--pretty": true,
	}

	commands := commandNames()
	isShortcut := func(a string) bool {
		return dash.ValidTab(a) && !commands[a]
	}

	rewrite := func(i int) []string {
		out := make([]string, 0, len(argv)+2)
		out = append(out, argv[:i]...)
		out = append(out, "tui", "--tab")
		out = append(out, argv[i:]...)
		return out
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			if i+1 < len(argv) && isShortcut(argv[i+1]) {
				// Flags after "--" are not parsed, so drop the separator.
				out := make([]string, 0, len(argv)+1)
				out = append(out, argv[:i]...)
				out = append(out, "tui", "--tab")
				out = append(out, argv[i+1:]...)
				return out
			}
			return argv
		}

		if strings.HasPrefix(a, "-") {
			if strings.Contains(a, "=") || boolFlags[a] {
				continue
			}
			if valueFlags[a] {
				i++
			}
			continue
		}

		if isShortcut(a) {
			return rewrite(i)
		}
		return argv
	}

	return argv
}

func commandNames() map[string]bool {
	names := map[string]bool{"help": true, "completion": true}
	for _, c := range cli.NewRootCmd().Commands() {
		names[c.Name()] = true
	}
	return names
}

func main() {
	os.Args = rewriteTabShortcutArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
