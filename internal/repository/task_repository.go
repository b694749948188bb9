package repository

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"study-planner/internal/model"
)

// TaskRepository handles tasks and their logs.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// FindByID returns the task only if its plan belongs to the user.
func (r *TaskRepository) FindByID(ctx context.Context, userID, taskID uint) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).
		Joins("JOIN plans ON plans.id = tasks.plan_id").
		Where("plans.user_id = ? AND tasks.id = ?", userID, taskID).
		First(&task).Error
	if err != nil {
		return nil, trapNotFound(err, "task", "find task")
	}
	return &task, nil
}

// AppendLog stores a new log; earlier logs of the task are kept.
func (r *TaskRepository) AppendLog(ctx context.Context, log *model.Log) error {
	if err := r.db.WithContext(ctx).Create(log).Error; err != nil {
		return errors.Wrap(err, "create task log")
	}
	return nil
}
