package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"study-planner/internal/model"
)

func uptr(v uint) *uint { return &v }

func TestAggregatePlans(t *testing.T) {
	created := time.Date(2025, 1, 5, 10, 0, 0, 0, time.UTC)
	custom := "#000000"
	rows := []PlanTaskRow{
		{PlanID: 3, PlanTitle: "TOEFL", Subject: "English", CreatedAt: created, TaskID: uptr(10), Date: "2025-01-06", TaskTitle: "Unit 1", Order: 1},
		{PlanID: 3, PlanTitle: "TOEFL", Subject: "English", CreatedAt: created, TaskID: uptr(11), Date: "2025-01-07", TaskTitle: "Unit 2", Order: 2},
		{PlanID: 1, PlanTitle: "Empty", Subject: "Math", CreatedAt: created},
		{PlanID: 8, PlanTitle: "Custom", Subject: "Art", Color: &custom, TaskID: uptr(12), Date: "2025-01-06", TaskTitle: "Sketch", Order: 1},
	}
	statuses := map[uint]model.Status{11: model.StatusDone}

	plans, err := AggregatePlans(rows, statuses)
	require.NoError(t, err)
	require.Len(t, plans, 3)

	assert.Equal(t, []uint{3, 1, 8}, []uint{plans[0].ID, plans[1].ID, plans[2].ID})
	assert.Equal(t, "2025-01-05", plans[0].CreatedAt)
	assert.Equal(t, Palette[2], plans[0].Color)
	require.Len(t, plans[0].DailyTasks, 2)
	assert.Equal(t, model.StatusPlanned, plans[0].DailyTasks[0].Status)
	assert.Equal(t, model.StatusDone, plans[0].DailyTasks[1].Status)

	assert.NotNil(t, plans[1].DailyTasks)
	assert.Empty(t, plans[1].DailyTasks)
	assert.Equal(t, "#000000", plans[2].Color)
}

func TestAggregatePlans_integrity(t *testing.T) {
	_, err := AggregatePlans([]PlanTaskRow{{PlanID: 1}, {TaskID: uptr(4)}}, nil)

	var integrity *model.IntegrityError
	assert.ErrorAs(t, err, &integrity)
}

func TestPlanColor(t *testing.T) {
	for id := uint(1); id <= 20; id++ {
		want := Palette[(id-1)%uint(len(Palette))]
		assert.Equal(t, want, PlanColor(id, nil))
		assert.Equal(t, PlanColor(id, nil), PlanColor(id, nil))
	}
	empty := ""
	assert.Equal(t, Palette[0], PlanColor(8, &empty))
}
