package format

import (
	"bytes"
	"strings"
	"testing"

	"habitdash/internal/model"
)

func TestWrite_JSON(t *testing.T) {
	t.Parallel()

	g := model.Goal{ID: 7, Title: "Read", Category: "study", Progress: 30}

	var compact bytes.Buffer
	if err := Write(&compact, g, "", false); err != nil {
		t.Fatalf("write: %v", err)
	}
	want := `{"id":7,"title":"Read","category":"study","progress":30,"completed":false}` + "\n"
	if compact.String() != want {
		t.Fatalf("unexpected json:\n%s", compact.String())
	}

	var pretty bytes.Buffer
	if err := Write(&pretty, g, "json", true); err != nil {
		t.Fatalf("write pretty: %v", err)
	}
	if !strings.Contains(pretty.String(), "\n  \"title\": \"Read\"") {
		t.Fatalf("expected indented json:\n%s", pretty.String())
	}
}

func TestWrite_YAML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	tasks := []model.Task{{ID: 1, Title: "Call client", Time: "09:30"}}
	if err := Write(&buf, tasks, "YAML", false); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"- id: 1", "  title: Call client", `  time: "09:30"`, "  completed: false"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	t.Parallel()

	if err := Write(&bytes.Buffer{}, 1, "edn", false); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}
