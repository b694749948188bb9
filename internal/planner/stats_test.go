package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"study-planner/internal/model"
)

func TestComputeStats(t *testing.T) {
	plans := []PlanView{
		{ID: 1, DailyTasks: []DailyTask{{Status: model.StatusDone}, {Status: model.StatusPartial}, {Status: model.StatusDone}}},
		{ID: 2, DailyTasks: []DailyTask{}},
	}

	assert.Equal(t, Stats{TotalPlans: 2, TotalAssigned: 3, Completed: 2, CompletionRate: 66}, ComputeStats(plans))
	assert.Equal(t, Stats{TotalPlans: 1}, ComputeStats(plans[1:]))
	assert.Equal(t, Stats{}, ComputeStats(nil))
}

func TestSummarizeYear(t *testing.T) {
	today := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	days := DayIndex{"2024-01-01": {}, "2024-05-05": {}, "2023-12-31": {}}

	assert.Equal(t, YearSummary{Total: 366, Passed: 60, Remain: 306, Planned: 2}, SummarizeYear(2024, days, today))
	assert.Equal(t, YearSummary{Total: 365, Passed: 365, Remain: 0, Planned: 1}, SummarizeYear(2023, days, today))
	assert.Equal(t, YearSummary{Total: 365, Passed: 0, Remain: 365}, SummarizeYear(2025, days, today))
}
