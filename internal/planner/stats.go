package planner

import (
	"time"

	"study-planner/internal/model"
)

// Stats counts the plans and tasks behind a calendar or plan list.
type Stats struct {
	TotalPlans     int `json:"total_plans"`
	TotalAssigned  int `json:"total_assigned"`
	Completed      int `json:"completed"`
	CompletionRate int `json:"completion_rate"`
}

// ComputeStats counts tasks and done tasks over plans. The rate is a floored percentage.
func ComputeStats(plans []PlanView) Stats {
	st := Stats{TotalPlans: len(plans)}
	for _, p := range plans {
		st.TotalAssigned += len(p.DailyTasks)
		for _, t := range p.DailyTasks {
			if t.Status == model.StatusDone {
				st.Completed++
			}
		}
	}
	if st.TotalAssigned > 0 {
		st.CompletionRate = st.Completed * 100 / st.TotalAssigned
	}
	return st
}

// YearSummary splits the days of a year into passed, remaining and planned.
type YearSummary struct {
	Total   int `json:"total"`
	Passed  int `json:"passed"`
	Remain  int `json:"remain"`
	Planned int `json:"planned"`
}

// SummarizeYear counts the days of year already behind today and the days that carry a task.
func SummarizeYear(year int, days DayIndex, today time.Time) YearSummary {
	total := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC).YearDay()

	var passed int
	switch {
	case year < today.Year():
		passed = total
	case year == today.Year():
		passed = today.YearDay() - 1
	}

	var planned int
	for date := range days {
		if t, err := time.Parse(model.DateLayout, date); err == nil && t.Year() == year {
			planned++
		}
	}
	return YearSummary{Total: total, Passed: passed, Remain: total - passed, Planned: planned}
}
