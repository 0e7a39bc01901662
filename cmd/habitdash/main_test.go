package main

import (
	"reflect"
	"testing"
)

func TestRewriteTabShortcutArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"habitdash"},
			want: []string{"habitdash"},
		},
		{
			name: "category first token",
			in:   []string{"habitdash", "health"},
			want: []string{"habitdash", "tui", "--tab", "health"},
		},
		{
			name: "overview tab",
			in:   []string{"habitdash", "overview"},
			want: []string{"habitdash", "tui", "--tab", "overview"},
		},
		{
			name: "category after value flag",
			in:   []string{"habitdash", "--api-url", "http://localhost:9000/", "planner"},
			want: []string{"habitdash", "--api-url", "http://localhost:9000/", "tui", "--tab", "planner"},
		},
		{
			name: "category after equals flag",
			in:   []string{"habitdash", "--timeout=3s", "study"},
			want: []string{"habitdash", "--timeout=3s", "tui", "--tab", "study"},
		},
		{
			name: "category after bool flag",
			in:   []string{"habitdash", "--pretty", "study"},
			want: []string{"habitdash", "--pretty", "tui", "--tab", "study"},
		},
		{
			name: "category after double dash",
			in:   []string{"habitdash", "--", "appearance"},
			want: []string{"habitdash", "tui", "--tab", "appearance"},
		},
		{
			name: "subcommand not rewritten",
			in:   []string{"habitdash", "goals", "list"},
			want: []string{"habitdash", "goals", "list"},
		},
		{
			name: "goals subcommand wins over the tab",
			in:   []string{"habitdash", "goals"},
			want: []string{"habitdash", "goals"},
		},
		{
			name: "progress subcommand wins over the tab",
			in:   []string{"habitdash", "progress"},
			want: []string{"habitdash", "progress"},
		},
		{
			name: "unknown command not rewritten",
			in:   []string{"habitdash", "wat"},
			want: []string{"habitdash", "wat"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rewriteTabShortcutArgs(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("rewriteTabShortcutArgs(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
