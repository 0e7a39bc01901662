package model

import (
	"math"
	"strconv"
	"strings"
)

type Goal struct {
	ID        int64  `json:"id" yaml:"id"`
	Title     string `json:"title" yaml:"title"`
	Category  string `json:"category" yaml:"category"`
	Progress  int    `json:"progress" yaml:"progress"`
	Completed bool   `json:"completed" yaml:"completed"`
}

type Task struct {
	ID        int64  `json:"id" yaml:"id"`
	Title     string `json:"title" yaml:"title"`
	Time      string `json:"time" yaml:"time"`
	Completed bool   `json:"completed" yaml:"completed"`
}

// Category is static configuration data; the set never changes at runtime.
type Category struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name" yaml:"name"`
	Icon    string `json:"icon" yaml:"icon"`
	Tagline string `json:"tagline" yaml:"tagline"`
	// Gradient endpoints as hex colors.
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

const (
	CategoryStudy      = "study"
	CategoryHealth     = "health"
	CategoryAppearance = "appearance"
	CategoryProgress   = "progress"
	CategoryGoals      = "goals"
	CategoryPlanner    = "planner"
)

// DefaultCategory is used when a goal is added without a (valid) category.
const DefaultCategory = CategoryGoals

// DefaultTaskTime is used when a task is added without a time.
const DefaultTaskTime = "12:00"

const (
	MinProgress = 0
	MaxProgress = 100
)

var categories = []Category{
	{ID: CategoryStudy, Name: "Study", Icon: "BookOpen", Tagline: "Grow your knowledge every day", From: "#3b82f6", To: "#1d4ed8"},
	{ID: CategoryHealth, Name: "Health", Icon: "Heart", Tagline: "Your body is your temple", From: "#22c55e", To: "#15803d"},
	{ID: CategoryAppearance, Name: "Looks", Icon: "Sparkles", Tagline: "Invest in yourself", From: "#a855f7", To: "#7e22ce"},
	{ID: CategoryProgress, Name: "Progress", Icon: "TrendingUp", Tagline: "Track your growth", From: "#f97316", To: "#c2410c"},
	{ID: CategoryGoals, Name: "Goals", Icon: "Target", Tagline: "Achieve the impossible", From: "#ef4444", To: "#b91c1c"},
	{ID: CategoryPlanner, Name: "Planner", Icon: "Calendar", Tagline: "Organize your day", From: "#6366f1", To: "#4338ca"},
}

// Categories returns the fixed category table in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

func CategoryByID(id string) (Category, bool) {
	id = strings.TrimSpace(id)
	for _, c := range categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

func ValidCategory(id string) bool {
	_, ok := CategoryByID(id)
	return ok
}

// NormalizeCategory maps empty/unknown ids to DefaultCategory.
func NormalizeCategory(id string) string {
	id = strings.ToLower(strings.TrimSpace(id))
	if ValidCategory(id) {
		return id
	}
	return DefaultCategory
}

// ValidTime reports whether s is a 24h "HH:MM" time.
func ValidTime(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	h, err := strconv.Atoi(s[:2])
	if err != nil || h < 0 || h > 23 {
		return false
	}
	m, err := strconv.Atoi(s[3:])
	if err != nil || m < 0 || m > 59 {
		return false
	}
	return true
}

func ClampProgress(n int) int {
	if n < MinProgress {
		return MinProgress
	}
	if n > MaxProgress {
		return MaxProgress
	}
	return n
}

// OverallProgress is the rounded mean of goal progress; 0 when there are no goals.
// Halves round up.
func OverallProgress(goals []Goal) int {
	if len(goals) == 0 {
		return 0
	}
	sum := 0
	for _, g := range goals {
		sum += g.Progress
	}
	return int(math.Floor(float64(sum)/float64(len(goals)) + 0.5))
}

func CategoryPercent(goals []Goal, category string) int {
	return OverallProgress(GoalsInCategory(goals, category))
}

func GoalsInCategory(goals []Goal, category string) []Goal {
	var out []Goal
	for _, g := range goals {
		if g.Category == category {
			out = append(out, g)
		}
	}
	return out
}
