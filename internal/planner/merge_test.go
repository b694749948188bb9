package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"study-planner/internal/model"
)

func TestResolveStatus(t *testing.T) {
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		logs []model.Log
		want model.Status
	}{
		{name: "no logs", logs: nil, want: model.StatusPlanned},
		{
			name: "single log",
			logs: []model.Log{{ID: 1, TaskID: 7, Status: model.StatusPartial, LoggedAt: base}},
			want: model.StatusPartial,
		},
		{
			name: "latest wins regardless of order",
			logs: []model.Log{
				{ID: 3, TaskID: 7, Status: model.StatusMissed, LoggedAt: base.Add(-time.Hour)},
				{ID: 1, TaskID: 7, Status: model.StatusDone, LoggedAt: base.Add(time.Hour)},
				{ID: 2, TaskID: 7, Status: model.StatusPartial, LoggedAt: base},
			},
			want: model.StatusDone,
		},
		{
			name: "tie broken by highest id",
			logs: []model.Log{
				{ID: 5, TaskID: 7, Status: model.StatusPartial, LoggedAt: base},
				{ID: 9, TaskID: 7, Status: model.StatusDone, LoggedAt: base},
				{ID: 6, TaskID: 7, Status: model.StatusMissed, LoggedAt: base},
			},
			want: model.StatusDone,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveStatus(tt.logs))
		})
	}
}

func TestResolveStatuses(t *testing.T) {
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	logs := []model.Log{
		{ID: 1, TaskID: 1, Status: model.StatusDone, LoggedAt: base},
		{ID: 2, TaskID: 2, Status: model.StatusMissed, LoggedAt: base},
		{ID: 3, TaskID: 1, Status: model.StatusPartial, LoggedAt: base.Add(time.Minute)},
	}

	got := ResolveStatuses(logs)

	assert.Equal(t, map[uint]model.Status{1: model.StatusPartial, 2: model.StatusMissed}, got)
	assert.Equal(t, model.StatusPlanned, statusOf(got, 3))
	assert.Equal(t, uint(3), LatestLogs(logs)[1].ID)
}
