package service

import (
	"context"
	"strings"
	"time"

	"study-planner/internal/model"
	"study-planner/internal/planner"
	"study-planner/internal/repository"
	"study-planner/internal/validate"
)

// PlanInput represents data required to create or update a plan.
type PlanInput struct {
	Title   string  `json:"title" validate:"notblank,max=100"`
	Subject string  `json:"subject" validate:"notblank,max=50"`
	Color   *string `json:"color" validate:"omitempty,hexcolor"`
}

// DailyTaskInput is one task of a full daily-task overwrite.
type DailyTaskInput struct {
	Date    string       `json:"date" validate:"required,isodate"`
	Title   string       `json:"description" validate:"notblank,max=200"`
	LinkURL *string      `json:"link_url" validate:"omitempty,max=500"`
	Order   *int         `json:"order" validate:"omitempty,gte=0"`
	Status  model.Status `json:"status" validate:"omitempty,status"`
}

type DailyTasksInput struct {
	DailyTasks []DailyTaskInput `json:"daily_plans" validate:"dive"`
}

// FromTemplateInput spreads the items of a template over a date range, one per day.
type FromTemplateInput struct {
	TemplateID uint   `json:"source_template_id" validate:"required"`
	Title      string `json:"title" validate:"notblank,max=100"`
	Subject    string `json:"subject" validate:"notblank,max=50"`
	StartDate  string `json:"start_date" validate:"required,isodate"`
	EndDate    string `json:"end_date" validate:"required,isodate"`
}

// PlanService wraps plan-related business logic.
type PlanService struct {
	planRepo     *repository.PlanRepository
	templateRepo *repository.TemplateRepository
	reads        *repository.ReadStore
	now          func() time.Time
}

func NewPlanService(planRepo *repository.PlanRepository, templateRepo *repository.TemplateRepository, reads *repository.ReadStore) *PlanService {
	return &PlanService{planRepo: planRepo, templateRepo: templateRepo, reads: reads, now: time.Now}
}

// List returns every plan of the user with its tasks and their resolved status.
func (s *PlanService) List(ctx context.Context, user *model.User) ([]planner.PlanView, error) {
	rows, err := s.reads.PlanTaskRows(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	var taskIDs []uint
	for _, row := range rows {
		if row.TaskID != nil {
			taskIDs = append(taskIDs, *row.TaskID)
		}
	}
	logs, err := s.reads.LogsFor(ctx, taskIDs)
	if err != nil {
		return nil, err
	}

	return planner.AggregatePlans(rows, planner.ResolveStatuses(logs))
}

func (s *PlanService) Get(ctx context.Context, user *model.User, planID uint) (*model.Plan, error) {
	return s.planRepo.FindByID(ctx, user.ID, planID)
}

func (s *PlanService) Create(ctx context.Context, user *model.User, input PlanInput) (*model.Plan, error) {
	input = input.trimmed()
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	plan := model.Plan{
		UserID:  user.ID,
		Title:   input.Title,
		Subject: input.Subject,
		Color:   input.Color,
	}
	if err := s.planRepo.Create(ctx, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

func (s *PlanService) Update(ctx context.Context, user *model.User, planID uint, input PlanInput) (*model.Plan, error) {
	input = input.trimmed()
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	plan, err := s.planRepo.FindByID(ctx, user.ID, planID)
	if err != nil {
		return nil, err
	}
	plan.Title = input.Title
	plan.Subject = input.Subject
	plan.Color = input.Color
	if err := s.planRepo.Update(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// Delete removes the plan, its tasks and their logs.
func (s *PlanService) Delete(ctx context.Context, user *model.User, planID uint) error {
	return s.planRepo.Delete(ctx, user.ID, planID)
}

// DailyTasks returns the tasks of one plan by date and order, with their status.
func (s *PlanService) DailyTasks(ctx context.Context, user *model.User, planID uint) ([]planner.DailyTask, error) {
	if _, err := s.planRepo.FindByID(ctx, user.ID, planID); err != nil {
		return nil, err
	}

	tasks, err := s.reads.PlanTasks(ctx, planID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	logs, err := s.reads.LogsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	statuses := planner.ResolveStatuses(logs)

	out := make([]planner.DailyTask, len(tasks))
	for i, t := range tasks {
		status, ok := statuses[t.ID]
		if !ok {
			status = model.StatusPlanned
		}
		out[i] = planner.DailyTask{
			TaskID:  t.ID,
			Date:    t.Date,
			Title:   t.Title,
			LinkURL: t.LinkURL,
			Order:   t.Order,
			Status:  status,
		}
	}
	return out, nil
}

// ReplaceDailyTasks overwrites every task of the plan. Tasks given with a status other than
// planned start with a log carrying that status.
func (s *PlanService) ReplaceDailyTasks(ctx context.Context, user *model.User, planID uint, input DailyTasksInput) ([]model.Task, error) {
	for i := range input.DailyTasks {
		input.DailyTasks[i].Title = strings.TrimSpace(input.DailyTasks[i].Title)
		input.DailyTasks[i].LinkURL = trimOptional(input.DailyTasks[i].LinkURL)
	}
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	drafts := make([]planner.TaskDraft, len(input.DailyTasks))
	for i, in := range input.DailyTasks {
		order := i + 1
		if in.Order != nil {
			order = *in.Order
		}
		status := in.Status
		if status == "" {
			status = model.StatusPlanned
		}
		drafts[i] = planner.TaskDraft{
			Date:    in.Date,
			Title:   in.Title,
			Order:   order,
			LinkURL: in.LinkURL,
			Status:  status,
		}
	}
	return s.planRepo.ReplaceTasks(ctx, user.ID, planID, drafts, s.now())
}

// CreateFromTemplate creates a plan whose tasks are the template items, one per day from the
// start date. Items that do not fit before the end date are dropped.
func (s *PlanService) CreateFromTemplate(ctx context.Context, user *model.User, input FromTemplateInput) (*model.Plan, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Subject = strings.TrimSpace(input.Subject)
	if err := validate.Struct(input); err != nil {
		return nil, err
	}
	start, err := validate.ParseDate(input.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := validate.ParseDate(input.EndDate)
	if err != nil {
		return nil, err
	}
	if start.After(end) {
		return nil, model.NewValidationError("invalid date range",
			model.FieldError{Field: "end_date", Error: "must not be before start_date"})
	}

	items, err := s.templateRepo.Items(ctx, input.TemplateID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, model.NewValidationError("template has no items",
			model.FieldError{Field: "source_template_id", Error: "template has no items"})
	}

	plan := model.Plan{UserID: user.ID, Title: input.Title, Subject: input.Subject}
	if _, err := s.planRepo.CreateWithTasks(ctx, &plan, planner.ExpandTemplate(items, start, end), s.now()); err != nil {
		return nil, err
	}
	return &plan, nil
}

// Stats counts plans and tasks of the user, limited to one plan when planID is not zero.
func (s *PlanService) Stats(ctx context.Context, user *model.User, planID uint) (planner.Stats, error) {
	plans, err := s.List(ctx, user)
	if err != nil {
		return planner.Stats{}, err
	}
	plans, err = filterPlans(plans, planID)
	if err != nil {
		return planner.Stats{}, err
	}
	return planner.ComputeStats(plans), nil
}

func filterPlans(plans []planner.PlanView, planID uint) ([]planner.PlanView, error) {
	if planID == 0 {
		return plans, nil
	}
	plan, ok := planner.FindPlan(plans, planID)
	if !ok {
		return nil, model.NotFound("plan")
	}
	return []planner.PlanView{plan}, nil
}

func (in PlanInput) trimmed() PlanInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Subject = strings.TrimSpace(in.Subject)
	in.Color = trimOptional(in.Color)
	return in
}

// trimOptional trims s and maps an empty value to nil.
func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
