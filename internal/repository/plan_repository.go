package repository

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"study-planner/internal/model"
	"study-planner/internal/planner"
)

// PlanRepository handles plans and the tasks they own.
type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

func (r *PlanRepository) Create(ctx context.Context, plan *model.Plan) error {
	if err := r.db.WithContext(ctx).Omit("Tasks").Create(plan).Error; err != nil {
		return errors.Wrap(err, "create plan")
	}
	return nil
}

// CreateWithTasks stores the plan and its tasks in one transaction.
func (r *PlanRepository) CreateWithTasks(ctx context.Context, plan *model.Plan, drafts []planner.TaskDraft, loggedAt time.Time) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tasks").Create(plan).Error; err != nil {
			return errors.Wrap(err, "create plan")
		}
		var err error
		tasks, err = insertTasks(tx, plan, drafts, loggedAt)
		return err
	})
	if err != nil {
		return nil, err
	}
	plan.Tasks = tasks
	return tasks, nil
}

// FindByID returns the plan only if it belongs to the user.
func (r *PlanRepository) FindByID(ctx context.Context, userID, planID uint) (*model.Plan, error) {
	return findPlan(r.db.WithContext(ctx), userID, planID)
}

// Update saves title, subject and color of the plan.
func (r *PlanRepository) Update(ctx context.Context, plan *model.Plan) error {
	err := r.db.WithContext(ctx).Model(plan).
		Updates(map[string]any{
			"title":   plan.Title,
			"subject": plan.Subject,
			"color":   plan.Color,
		}).Error
	if err != nil {
		return errors.Wrap(err, "update plan")
	}
	return nil
}

// Delete removes the plan with its tasks and their logs.
func (r *PlanRepository) Delete(ctx context.Context, userID, planID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findPlan(tx, userID, planID); err != nil {
			return err
		}
		if err := deleteTasks(tx, planID); err != nil {
			return err
		}
		if err := tx.Delete(&model.Plan{}, planID).Error; err != nil {
			return errors.Wrap(err, "delete plan")
		}
		return nil
	})
}

// ReplaceTasks overwrites every task of the plan. Prior tasks and their logs are removed, drafts
// with a status other than planned get an initial log stamped loggedAt.
func (r *PlanRepository) ReplaceTasks(ctx context.Context, userID, planID uint, drafts []planner.TaskDraft, loggedAt time.Time) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		plan, err := findPlan(tx, userID, planID)
		if err != nil {
			return err
		}
		if err := deleteTasks(tx, planID); err != nil {
			return err
		}
		tasks, err = insertTasks(tx, plan, drafts, loggedAt)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func findPlan(db *gorm.DB, userID, planID uint) (*model.Plan, error) {
	var plan model.Plan
	if err := db.Where("user_id = ? AND id = ?", userID, planID).First(&plan).Error; err != nil {
		return nil, trapNotFound(err, "plan", "find plan")
	}
	return &plan, nil
}

func deleteTasks(tx *gorm.DB, planID uint) error {
	taskIDs := tx.Model(&model.Task{}).Select("id").Where("plan_id = ?", planID)
	if err := tx.Where("task_id IN (?)", taskIDs).Delete(&model.Log{}).Error; err != nil {
		return errors.Wrap(err, "delete task logs")
	}
	if err := tx.Where("plan_id = ?", planID).Delete(&model.Task{}).Error; err != nil {
		return errors.Wrap(err, "delete tasks")
	}
	return nil
}

func insertTasks(tx *gorm.DB, plan *model.Plan, drafts []planner.TaskDraft, loggedAt time.Time) ([]model.Task, error) {
	if len(drafts) == 0 {
		return []model.Task{}, nil
	}

	tasks := make([]model.Task, len(drafts))
	for i, d := range drafts {
		tasks[i] = model.Task{
			PlanID:  plan.ID,
			Date:    d.Date,
			Title:   d.Title,
			Order:   d.Order,
			LinkURL: d.LinkURL,
		}
	}
	if err := tx.Create(&tasks).Error; err != nil {
		return nil, errors.Wrap(err, "create tasks")
	}

	var logs []model.Log
	for i, d := range drafts {
		if d.Status == "" || d.Status == model.StatusPlanned {
			continue
		}
		logs = append(logs, model.Log{
			TaskID:   tasks[i].ID,
			UserID:   plan.UserID,
			Status:   d.Status,
			LoggedAt: loggedAt,
		})
	}
	if len(logs) > 0 {
		if err := tx.Create(&logs).Error; err != nil {
			return nil, errors.Wrap(err, "create task logs")
		}
	}
	return tasks, nil
}
