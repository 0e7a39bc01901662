package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"habitdash/internal/dash"
	"habitdash/internal/docs"
	"habitdash/internal/model"
)

func (m appModel) View() string {
	w := m.width
	if w < 40 {
		w = 40
	}
	st := m.ctrl.State()

	var b strings.Builder
	b.WriteString(m.viewHeader(w))
	b.WriteString("\n\n")
	b.WriteString(m.viewTabs(w))
	b.WriteString("\n\n")

	switch m.modal {
	case modalHelp:
		b.WriteString(m.viewHelp(w))
	default:
		b.WriteString(m.viewBody(w))
		if m.modal == modalAddGoal || m.modal == modalAddTask {
			b.WriteString("\n\n")
			b.WriteString(m.viewForm(w))
		}
	}

	b.WriteString("\n\n")
	if st.Notice != "" {
		b.WriteString(styleNotice(st.NoticeError).Render(truncate(st.Notice, w)))
		b.WriteString("\n")
	}
	b.WriteString(m.viewFooter(w))
	return b.String()
}

func (m appModel) viewHeader(w int) string {
	st := m.ctrl.State()
	title := styleTitle().Render("HABITDASH")
	quote := lipgloss.NewStyle().Italic(true).Foreground(colorMuted).Render(truncate(m.quote, w-12))
	overall := st.OverallProgress()
	barW := w - 24
	if barW > 40 {
		barW = 40
	}
	line := fmt.Sprintf("Overall  %s %3d%%", progressBar(overall, barW, "#3b82f6"), overall)
	if m.inflight > 0 || m.loading || m.submitting {
		line += styleMuted().Render("  syncing…")
	}
	return title + "  " + quote + "\n" + line
}

func tabLabel(tab string) string {
	if tab == dash.TabOverview {
		return "Overview"
	}
	if c, ok := model.CategoryByID(tab); ok {
		return c.Name
	}
	return tab
}

func tabColor(tab string) lipgloss.TerminalColor {
	if c, ok := model.CategoryByID(tab); ok {
		return lipgloss.Color(c.From)
	}
	return colorAccent
}

func (m appModel) viewTabs(w int) string {
	active := m.ctrl.State().Tab
	var parts []string
	for i, tab := range dash.Tabs() {
		label := fmt.Sprintf("%d %s", i+1, tabLabel(tab))
		st := lipgloss.NewStyle().Padding(0, 1)
		if tab == active {
			st = st.Bold(true).Foreground(lipgloss.Color("#ffffff")).Background(tabColor(tab))
		} else {
			st = st.Foreground(colorMuted)
		}
		parts = append(parts, st.Render(label))
	}
	return truncate(lipgloss.JoinHorizontal(lipgloss.Top, parts...), w)
}

func (m appModel) viewBody(w int) string {
	st := m.ctrl.State()
	if !st.Loaded && len(st.Goals) == 0 && len(st.Tasks) == 0 {
		if st.Notice != "" {
			return styleMuted().Render("Nothing loaded. Press r to retry.")
		}
		return styleMuted().Render("Loading…")
	}

	var sections []string
	if c, ok := model.CategoryByID(st.Tab); ok {
		heading := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(c.From)).Render(c.Name)
		sections = append(sections, heading+"  "+styleMuted().Render(c.Tagline))
	}

	switch st.Tab {
	case model.CategoryStudy, model.CategoryHealth, model.CategoryAppearance:
		c, _ := model.CategoryByID(st.Tab)
		pct := model.CategoryPercent(st.Goals, st.Tab)
		sections = append(sections, fmt.Sprintf("Category  %s %3d%%", progressBar(pct, 30, c.From), pct))
	case model.CategoryProgress:
		sections = append(sections, m.viewCategoryBars())
	}

	idx := 0
	goals := st.VisibleGoals()
	if st.Tab != model.CategoryPlanner {
		var lines []string
		for _, g := range goals {
			lines = append(lines, m.goalLine(g, idx == m.cursor, w, st.Tab == model.CategoryProgress))
			idx++
		}
		if len(lines) == 0 {
			lines = append(lines, styleMuted().Render("  No goals yet. Press a to add one."))
		}
		sections = append(sections, styleTitle().Render("Goals")+"\n"+strings.Join(lines, "\n"))
	}

	tasks := st.VisibleTasks()
	if st.Tab == dash.TabOverview || st.Tab == model.CategoryPlanner {
		var lines []string
		for _, t := range tasks {
			lines = append(lines, m.taskLine(t, idx == m.cursor, w))
			idx++
		}
		if len(lines) == 0 {
			hint := "  No tasks today."
			if st.Tab == model.CategoryPlanner {
				hint += " Press a to add one."
			}
			lines = append(lines, styleMuted().Render(hint))
		}
		sections = append(sections, styleTitle().Render("Today")+"\n"+strings.Join(lines, "\n"))
	}
	return strings.Join(sections, "\n\n")
}

func (m appModel) viewCategoryBars() string {
	st := m.ctrl.State()
	var lines []string
	for _, id := range goalFormCategories {
		c, _ := model.CategoryByID(id)
		pct := model.CategoryPercent(st.Goals, id)
		lines = append(lines, fmt.Sprintf("%-8s %s %3d%%", c.Name, progressBar(pct, 24, c.From), pct))
	}
	return strings.Join(lines, "\n")
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func (m appModel) goalLine(g model.Goal, selected bool, w int, withCategory bool) string {
	suffix := fmt.Sprintf(" %s %3d%%", progressBar(g.Progress, 12, categoryColor(g.Category)), g.Progress)
	if withCategory {
		if c, ok := model.CategoryByID(g.Category); ok {
			suffix = " " + styleMuted().Render(c.Name) + suffix
		}
	}
	title := g.Title
	titleW := w - 6 - lipgloss.Width(suffix)
	return renderRow(checkbox(g.Completed), title, suffix, titleW, g.Completed, selected)
}

func (m appModel) taskLine(t model.Task, selected bool, w int) string {
	suffix := " " + styleMuted().Render(t.Time)
	titleW := w - 6 - lipgloss.Width(suffix)
	return renderRow(checkbox(t.Completed), t.Title, suffix, titleW, t.Completed, selected)
}

func renderRow(box, title, suffix string, titleW int, done, selected bool) string {
	if titleW < 8 {
		titleW = 8
	}
	title = truncate(title, titleW)
	titleStyle := lipgloss.NewStyle().Width(titleW)
	if done {
		titleStyle = titleStyle.Strikethrough(true).Foreground(colorMuted)
	}
	line := box + " " + titleStyle.Render(title) + suffix
	if selected {
		return styleSelected().Render("›") + " " + line
	}
	return "  " + line
}

func categoryColor(id string) string {
	if c, ok := model.CategoryByID(id); ok {
		return c.From
	}
	return "#ef4444"
}

// progressBar renders pct (0..100) as a fixed-width bar.
func progressBar(pct, width int, color string) string {
	if width < 4 {
		width = 4
	}
	pct = model.ClampProgress(pct)
	filled := pct * width / 100
	on := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(strings.Repeat("█", filled))
	off := lipgloss.NewStyle().Foreground(colorBarEmpty).Render(strings.Repeat("░", width-filled))
	return on + off
}

func (m appModel) viewForm(w int) string {
	st := m.ctrl.State()
	var lines []string
	if m.modal == modalAddGoal {
		lines = append(lines, styleTitle().Render("New goal"))
		lines = append(lines, m.form.title.View())
		var cats []string
		for i, id := range goalFormCategories {
			c, _ := model.CategoryByID(id)
			label := c.Name
			if i == m.form.category {
				label = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(c.From)).Render("● " + label)
			} else {
				label = styleMuted().Render("○ " + label)
			}
			cats = append(cats, label)
		}
		lines = append(lines, "Category: "+strings.Join(cats, "  "))
	} else {
		lines = append(lines, styleTitle().Render("New task for today"))
		lines = append(lines, "Title "+m.form.title.View())
		lines = append(lines, "Time  "+m.form.at.View())
	}
	if m.submitting {
		lines = append(lines, styleMuted().Render("Saving…"))
	} else if st.NoticeError && st.Notice != "" {
		lines = append(lines, styleNotice(true).Render(st.Notice))
	}
	boxW := w - 4
	if boxW > 64 {
		boxW = 64
	}
	return styleModal().Width(boxW).Render(strings.Join(lines, "\n"))
}

func (m appModel) viewHelp(w int) string {
	body, _ := docs.Get("keys")
	style := styles.DarkStyle
	if !m.darkBG {
		style = styles.LightStyle
	}
	return docs.Render(body, w-2, style)
}

func (m appModel) viewFooter(w int) string {
	hints := m.keys.mainHints()
	switch m.modal {
	case modalAddGoal:
		hints = m.keys.formHints(true)
	case modalAddTask:
		hints = m.keys.formHints(false)
	case modalHelp:
		hints = []key.Binding{m.keys.Cancel}
	}
	var parts []string
	for _, h := range hints {
		hp := h.Help()
		parts = append(parts, hp.Key+" "+hp.Desc)
	}
	return styleMuted().Render(truncate(strings.Join(parts, " · "), w))
}

func truncate(s string, w int) string {
	if w <= 1 {
		return s
	}
	return xansi.Truncate(s, w, "…")
}
