package repository

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"study-planner/internal/model"
	"study-planner/internal/planner"
)

// ReadStore runs the join projections behind the plan list, the calendar and the day view.
type ReadStore struct {
	db *sqlx.DB
}

func NewReadStore(db *sqlx.DB) *ReadStore {
	return &ReadStore{db: db}
}

// NewReadStoreFromGorm shares the connection pool of a gorm handle.
func NewReadStoreFromGorm(db *gorm.DB) (*ReadStore, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "read store")
	}
	return NewReadStore(sqlx.NewDb(sqlDB, "sqlite3")), nil
}

type planTaskRow struct {
	PlanID    uint           `db:"plan_id"`
	PlanTitle string         `db:"plan_title"`
	Subject   string         `db:"subject"`
	Color     sql.NullString `db:"color"`
	CreatedAt time.Time      `db:"created_at"`
	TaskID    sql.NullInt64  `db:"task_id"`
	Date      sql.NullString `db:"plan_date"`
	TaskTitle sql.NullString `db:"task_title"`
	Order     sql.NullInt64  `db:"order_no"`
	LinkURL   sql.NullString `db:"link_url"`
}

// PlanTaskRows returns every plan of the user, newest first, left joined to its tasks by date and order.
func (s *ReadStore) PlanTaskRows(ctx context.Context, userID uint) ([]planner.PlanTaskRow, error) {
	query, args, err := sq.
		Select(
			"p.id AS plan_id", "p.title AS plan_title", "p.subject", "p.color", "p.created_at",
			"t.id AS task_id", "t.plan_date", "t.title AS task_title", "t.order_no", "t.link_url",
		).
		From("plans p").
		LeftJoin("tasks t ON t.plan_id = p.id").
		Where(sq.Eq{"p.user_id": userID}).
		OrderBy("p.created_at DESC", "p.id DESC", "t.plan_date", "t.order_no", "t.id").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build plan rows query")
	}

	var rows []planTaskRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "query plan rows")
	}

	out := make([]planner.PlanTaskRow, len(rows))
	for i, r := range rows {
		out[i] = planner.PlanTaskRow{
			PlanID:    r.PlanID,
			PlanTitle: r.PlanTitle,
			Subject:   r.Subject,
			Color:     nullString(r.Color),
			CreatedAt: r.CreatedAt,
			Date:      r.Date.String,
			TaskTitle: r.TaskTitle.String,
			Order:     int(r.Order.Int64),
			LinkURL:   nullString(r.LinkURL),
		}
		if r.TaskID.Valid {
			id := uint(r.TaskID.Int64)
			out[i].TaskID = &id
		}
	}
	return out, nil
}

type logRow struct {
	ID            uint           `db:"id"`
	TaskID        uint           `db:"task_id"`
	UserID        uint           `db:"user_id"`
	Status        string         `db:"status"`
	ActualMinutes sql.NullInt64  `db:"actual_minutes"`
	Memo          sql.NullString `db:"memo"`
	LoggedAt      time.Time      `db:"logged_at"`
}

// LogsFor returns every log of the given tasks.
func (s *ReadStore) LogsFor(ctx context.Context, taskIDs []uint) ([]model.Log, error) {
	if len(taskIDs) == 0 {
		return nil, nil
	}
	query, args, err := sq.
		Select("id", "task_id", "user_id", "status", "actual_minutes", "memo", "logged_at").
		From("task_logs").
		Where(sq.Eq{"task_id": taskIDs}).
		OrderBy("task_id", "id").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build logs query")
	}

	var rows []logRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "query logs")
	}

	logs := make([]model.Log, len(rows))
	for i, r := range rows {
		logs[i] = model.Log{
			ID:       r.ID,
			TaskID:   r.TaskID,
			UserID:   r.UserID,
			Status:   model.Status(r.Status),
			Memo:     nullString(r.Memo),
			LoggedAt: r.LoggedAt,
		}
		if r.ActualMinutes.Valid {
			m := int(r.ActualMinutes.Int64)
			logs[i].ActualMinutes = &m
		}
	}
	return logs, nil
}

type taskRow struct {
	ID      uint           `db:"id"`
	PlanID  uint           `db:"plan_id"`
	Date    string         `db:"plan_date"`
	Title   string         `db:"title"`
	Order   int            `db:"order_no"`
	LinkURL sql.NullString `db:"link_url"`
}

// PlanTasks returns the tasks of one plan by date and order.
func (s *ReadStore) PlanTasks(ctx context.Context, planID uint) ([]model.Task, error) {
	query, args, err := sq.
		Select("id", "plan_id", "plan_date", "title", "order_no", "link_url").
		From("tasks").
		Where(sq.Eq{"plan_id": planID}).
		OrderBy("plan_date", "order_no", "id").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build tasks query")
	}

	var rows []taskRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "query tasks")
	}

	tasks := make([]model.Task, len(rows))
	for i, r := range rows {
		tasks[i] = model.Task{
			ID:      r.ID,
			PlanID:  r.PlanID,
			Date:    r.Date,
			Title:   r.Title,
			Order:   r.Order,
			LinkURL: nullString(r.LinkURL),
		}
	}
	return tasks, nil
}

// DayTask is a task on one date together with its plan.
type DayTask struct {
	TaskID    uint           `db:"task_id"`
	PlanID    uint           `db:"plan_id"`
	PlanTitle string         `db:"plan_title"`
	Subject   string         `db:"subject"`
	Color     sql.NullString `db:"color"`
	Date      string         `db:"plan_date"`
	Title     string         `db:"title"`
	Order     int            `db:"order_no"`
	LinkURL   sql.NullString `db:"link_url"`
}

// TasksOn returns the user's tasks on date, optionally limited to one plan (planID 0 means all).
func (s *ReadStore) TasksOn(ctx context.Context, userID uint, date string, planID uint) ([]DayTask, error) {
	b := sq.
		Select(
			"t.id AS task_id", "p.id AS plan_id", "p.title AS plan_title", "p.subject", "p.color",
			"t.plan_date", "t.title", "t.order_no", "t.link_url",
		).
		From("tasks t").
		Join("plans p ON p.id = t.plan_id").
		Where(sq.Eq{"p.user_id": userID, "t.plan_date": date})
	if planID != 0 {
		b = b.Where(sq.Eq{"p.id": planID})
	}
	query, args, err := b.OrderBy("t.order_no", "p.id", "t.id").ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build day query")
	}

	var tasks []DayTask
	if err := s.db.SelectContext(ctx, &tasks, query, args...); err != nil {
		return nil, errors.Wrap(err, "query day tasks")
	}
	return tasks, nil
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
