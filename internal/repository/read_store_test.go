package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"study-planner/internal/model"
	"study-planner/internal/planner"
)

func TestReadStore(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	plans := NewPlanRepository(db)
	tasks := NewTaskRepository(db)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	store, err := NewReadStoreFromGorm(db)
	require.NoError(t, err)

	empty := &model.Plan{UserID: alice.ID, Title: "Empty", Subject: "none"}
	require.NoError(t, plans.Create(ctx, empty))

	full := &model.Plan{UserID: alice.ID, Title: "Algebra", Subject: "math", Color: strPtr("#000000")}
	created, err := plans.CreateWithTasks(ctx, full, []planner.TaskDraft{
		{Date: "2025-01-02", Title: "ch2", Order: 1},
		{Date: "2025-01-01", Title: "ch1", Order: 1, LinkURL: strPtr("https://example.com")},
	}, time.Now())
	require.NoError(t, err)

	_, err = plans.CreateWithTasks(ctx, &model.Plan{UserID: bob.ID, Title: "Other"}, []planner.TaskDraft{
		{Date: "2025-01-01", Title: "bob's", Order: 1},
	}, time.Now())
	require.NoError(t, err)

	t.Run("plan rows", func(t *testing.T) {
		rows, err := store.PlanTaskRows(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, rows, 3)

		assert.Equal(t, full.ID, rows[0].PlanID)
		assert.Equal(t, "ch1", rows[0].TaskTitle)
		assert.Equal(t, "2025-01-01", rows[0].Date)
		require.NotNil(t, rows[0].LinkURL)
		require.NotNil(t, rows[0].Color)
		assert.Equal(t, "ch2", rows[1].TaskTitle)
		assert.Nil(t, rows[1].LinkURL)

		assert.Equal(t, empty.ID, rows[2].PlanID)
		assert.Nil(t, rows[2].TaskID)
		assert.Nil(t, rows[2].Color)
	})

	t.Run("logs", func(t *testing.T) {
		memo := "tired"
		minutes := 45
		require.NoError(t, tasks.AppendLog(ctx, &model.Log{
			TaskID: created[0].ID, UserID: alice.ID, Status: model.StatusDone,
			ActualMinutes: &minutes, Memo: &memo, LoggedAt: time.Now(),
		}))

		logs, err := store.LogsFor(ctx, []uint{created[0].ID, created[1].ID})
		require.NoError(t, err)
		require.Len(t, logs, 1)
		assert.Equal(t, model.StatusDone, logs[0].Status)
		require.NotNil(t, logs[0].ActualMinutes)
		assert.Equal(t, 45, *logs[0].ActualMinutes)
		assert.Equal(t, "tired", *logs[0].Memo)

		logs, err = store.LogsFor(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, logs)
	})

	t.Run("plan tasks", func(t *testing.T) {
		list, err := store.PlanTasks(ctx, full.ID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "ch1", list[0].Title)
		assert.Equal(t, "ch2", list[1].Title)
	})

	t.Run("tasks on date", func(t *testing.T) {
		list, err := store.TasksOn(ctx, alice.ID, "2025-01-01", 0)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "Algebra", list[0].PlanTitle)
		assert.Equal(t, "math", list[0].Subject)

		list, err = store.TasksOn(ctx, alice.ID, "2025-01-01", empty.ID)
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}

func TestReadStore_faults(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	store := NewReadStore(sqlx.NewDb(sqlDB, "sqlite3"))
	ctx := context.Background()

	mock.ExpectQuery(`SELECT .* FROM plans p LEFT JOIN tasks t ON t.plan_id = p.id WHERE p.user_id = \?`).
		WithArgs(1).
		WillReturnError(errors.New("disk I/O error"))

	_, err = store.PlanTaskRows(ctx, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query plan rows")
	assert.Contains(t, err.Error(), "disk I/O error")

	now := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT .* FROM task_logs WHERE task_id IN \(\?,\?\)`).
		WithArgs(3, 4).
		WillReturnRows(sqlmock.NewRows([]string{"id", "task_id", "user_id", "status", "actual_minutes", "memo", "logged_at"}).
			AddRow(int64(1), int64(3), int64(1), "partial", nil, nil, now))

	logs, err := store.LogsFor(ctx, []uint{3, 4})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, model.StatusPartial, logs[0].Status)
	assert.Nil(t, logs[0].ActualMinutes)
	assert.Nil(t, logs[0].Memo)
	assert.Equal(t, now, logs[0].LoggedAt)

	require.NoError(t, mock.ExpectationsWereMet())
}
