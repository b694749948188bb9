package planner

import (
	"sort"
	"time"

	"study-planner/internal/model"
)

// TaskDraft is a task about to be written for a plan.
type TaskDraft struct {
	Date    string
	Title   string
	Order   int
	LinkURL *string
	Status  model.Status
}

// ExpandTemplate puts one template item on each day from start to end (inclusive), in item order.
// Items left over when the range ends are dropped; days left over when the items end stay empty.
func ExpandTemplate(items []model.TemplateItem, start, end time.Time) []TaskDraft {
	sorted := make([]model.TemplateItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Order < sorted[j].Order })

	day := truncateDay(start)
	last := truncateDay(end)

	drafts := make([]TaskDraft, 0, len(sorted))
	for i, item := range sorted {
		if day.After(last) {
			break
		}
		drafts = append(drafts, TaskDraft{
			Date:    day.Format(model.DateLayout),
			Title:   item.Title,
			Order:   i + 1,
			LinkURL: item.LinkURL,
			Status:  model.StatusPlanned,
		})
		day = day.AddDate(0, 0, 1)
	}
	return drafts
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
