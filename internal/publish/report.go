package publish

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"habitdash/internal/model"
)

type RenderOptions struct {
	// Date is printed in the heading; zero means today.
	Date time.Time
	// IncludeCompleted keeps finished goals and tasks in the listing.
	IncludeCompleted bool
}

// RenderReport renders a markdown summary of goals grouped by category and
// today's schedule.
func RenderReport(goals []model.Goal, tasks []model.Task, opt RenderOptions) string {
	date := opt.Date
	if date.IsZero() {
		date = time.Now()
	}

	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# Daily report " + date.Format("2006-01-02"))
	writeLn("")
	writeLn(fmt.Sprintf("Overall progress: **%d%%** across %d goals.", model.OverallProgress(goals), len(goals)))

	for _, c := range model.Categories() {
		in := model.GoalsInCategory(goals, c.ID)
		var shown []model.Goal
		for _, g := range in {
			if g.Completed && !opt.IncludeCompleted {
				continue
			}
			shown = append(shown, g)
		}
		if len(shown) == 0 {
			continue
		}
		writeLn("")
		writeLn(fmt.Sprintf("## %s (%d%%)", c.Name, model.OverallProgress(in)))
		writeLn("")
		for _, g := range shown {
			writeLn(fmt.Sprintf("- %s %s (%d%%)", checkbox(g.Completed), strings.TrimSpace(g.Title), g.Progress))
		}
	}

	writeLn("")
	writeLn("## Today")
	writeLn("")
	shown := 0
	for _, t := range tasks {
		if t.Completed && !opt.IncludeCompleted {
			continue
		}
		writeLn(fmt.Sprintf("- %s %s %s", checkbox(t.Completed), t.Time, strings.TrimSpace(t.Title)))
		shown++
	}
	if shown == 0 {
		writeLn("_Nothing scheduled._")
	}
	return buf.String()
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}
