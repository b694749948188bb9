package service

import (
	"context"
	"time"

	"study-planner/internal/model"
	"study-planner/internal/repository"
	"study-planner/internal/validate"
)

// LogInput records progress on a task. Completed is a shorthand for status done (true) or
// planned (false) and is only used when Status is empty.
type LogInput struct {
	Status        model.Status `json:"status" validate:"omitempty,status"`
	Completed     *bool        `json:"completed"`
	ActualMinutes *int         `json:"actual_minutes" validate:"omitempty,gte=0,lte=1440"`
	Memo          *string      `json:"memo" validate:"omitempty,max=500"`
}

// ProgressService appends task logs.
type ProgressService struct {
	taskRepo *repository.TaskRepository
	now      func() time.Time
}

func NewProgressService(taskRepo *repository.TaskRepository) *ProgressService {
	return &ProgressService{taskRepo: taskRepo, now: time.Now}
}

// Record appends a log to the task. Earlier logs are kept; the newest one decides the status.
func (s *ProgressService) Record(ctx context.Context, user *model.User, taskID uint, input LogInput) (*model.Log, error) {
	input.Memo = trimOptional(input.Memo)
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	status := input.Status
	if status == "" {
		if input.Completed == nil {
			return nil, model.NewValidationError("status is required",
				model.FieldError{Field: "status", Error: "status is a required field"})
		}
		status = model.StatusPlanned
		if *input.Completed {
			status = model.StatusDone
		}
	}

	task, err := s.taskRepo.FindByID(ctx, user.ID, taskID)
	if err != nil {
		return nil, err
	}

	log := model.Log{
		TaskID:        task.ID,
		UserID:        user.ID,
		Status:        status,
		ActualMinutes: input.ActualMinutes,
		Memo:          input.Memo,
		LoggedAt:      s.now().UTC(),
	}
	if err := s.taskRepo.AppendLog(ctx, &log); err != nil {
		return nil, err
	}
	return &log, nil
}
