package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"study-planner/internal/logger"
	"study-planner/internal/model"
	"study-planner/internal/repository"
)

type testEnv struct {
	db        *gorm.DB
	users     *UserService
	plans     *PlanService
	progress  *ProgressService
	calendar  *CalendarService
	templates *TemplateService
	digest    *DigestService
}

var fixedNow = time.Date(2025, 1, 3, 12, 0, 0, 0, time.UTC)

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := repository.NewDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	reads, err := repository.NewReadStoreFromGorm(db)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	planRepo := repository.NewPlanRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	templateRepo := repository.NewTemplateRepository(db)

	plans := NewPlanService(planRepo, templateRepo, reads)
	plans.now = func() time.Time { return fixedNow }
	progress := NewProgressService(taskRepo)

	env := &testEnv{
		db:        db,
		users:     NewUserService(userRepo),
		plans:     plans,
		progress:  progress,
		calendar:  NewCalendarService(plans, reads),
		templates: NewTemplateService(templateRepo),
		digest:    NewDigestService(userRepo, reads, logger.NewDiscard()),
	}
	return env
}

func (env *testEnv) login(t *testing.T, name string) *model.User {
	t.Helper()

	user, _, err := env.users.Login(context.Background(), LoginInput{Name: name})
	require.NoError(t, err)
	return user
}

// record appends a log with an explicit timestamp.
func (env *testEnv) record(t *testing.T, user *model.User, taskID uint, status model.Status, at time.Time) {
	t.Helper()

	env.progress.now = func() time.Time { return at }
	_, err := env.progress.Record(context.Background(), user, taskID, LogInput{Status: status})
	require.NoError(t, err)
}

func intPtr(v int) *int       { return &v }
func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
