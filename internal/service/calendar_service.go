package service

import (
	"context"
	"fmt"
	"time"

	"study-planner/internal/model"
	"study-planner/internal/planner"
	"study-planner/internal/repository"
)

// YearView is everything the calendar page shows for one year.
type YearView struct {
	Year     int                 `json:"year"`
	PlanID   *uint               `json:"plan_id"`
	Calendar planner.Calendar    `json:"calendar"`
	Stats    planner.Stats       `json:"stats"`
	Summary  planner.YearSummary `json:"summary"`
	Plans    []planner.PlanView  `json:"plans"`
}

// DayTaskDetail is a task on one day with its plan and latest log.
type DayTaskDetail struct {
	TaskID        uint         `json:"task_id"`
	PlanID        uint         `json:"plan_id"`
	PlanTitle     string       `json:"plan_title"`
	Subject       string       `json:"subject"`
	Color         string       `json:"color"`
	Title         string       `json:"task_title"`
	LinkURL       *string      `json:"link_url"`
	Order         int          `json:"order"`
	Status        model.Status `json:"status"`
	ActualMinutes int          `json:"minutes"`
	Memo          string       `json:"memo"`
}

type DayView struct {
	Date  string          `json:"date"`
	DayID string          `json:"day_id"`
	Tasks []DayTaskDetail `json:"tasks"`
}

// CalendarService builds the year calendar and the day details.
type CalendarService struct {
	plans *PlanService
	reads *repository.ReadStore
}

func NewCalendarService(plans *PlanService, reads *repository.ReadStore) *CalendarService {
	return &CalendarService{plans: plans, reads: reads}
}

// Year builds the calendar of year for the user. A non zero planID limits days and stats to that plan.
func (s *CalendarService) Year(ctx context.Context, user *model.User, year int, planID uint, today time.Time) (*YearView, error) {
	if err := checkYear(year); err != nil {
		return nil, err
	}

	plans, err := s.plans.List(ctx, user)
	if err != nil {
		return nil, err
	}
	scoped, err := filterPlans(plans, planID)
	if err != nil {
		return nil, err
	}

	days := planner.IndexDays(plans, planID)
	view := &YearView{
		Year:     year,
		Calendar: planner.BuildCalendar(year, days, today),
		Stats:    planner.ComputeStats(scoped),
		Summary:  planner.SummarizeYear(year, days, today),
		Plans:    plans,
	}
	if planID != 0 {
		view.PlanID = &planID
	}
	return view, nil
}

// Day lists the user's tasks on the day identified by dayID (MMDD) in year. A non zero planID
// must name one of the user's plans.
func (s *CalendarService) Day(ctx context.Context, user *model.User, year int, dayID string, planID uint) (*DayView, error) {
	if err := checkYear(year); err != nil {
		return nil, err
	}
	date, err := planner.ParseDayID(year, dayID)
	if err != nil {
		return nil, model.NewValidationError("invalid day",
			model.FieldError{Field: "day_id", Error: "must be a valid MMDD date"})
	}
	iso := date.Format(model.DateLayout)

	if planID != 0 {
		if _, err := s.plans.Get(ctx, user, planID); err != nil {
			return nil, err
		}
	}

	tasks, err := s.reads.TasksOn(ctx, user.ID, iso, planID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, len(tasks))
	for i, t := range tasks {
		ids[i] = t.TaskID
	}
	logs, err := s.reads.LogsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	latest := planner.LatestLogs(logs)

	view := &DayView{Date: iso, DayID: planner.DayID(date), Tasks: make([]DayTaskDetail, len(tasks))}
	for i, t := range tasks {
		var color *string
		if t.Color.Valid {
			color = &t.Color.String
		}
		detail := DayTaskDetail{
			TaskID:    t.TaskID,
			PlanID:    t.PlanID,
			PlanTitle: t.PlanTitle,
			Subject:   t.Subject,
			Color:     planner.PlanColor(t.PlanID, color),
			Title:     t.Title,
			Order:     t.Order,
			Status:    model.StatusPlanned,
		}
		if t.LinkURL.Valid {
			link := t.LinkURL.String
			detail.LinkURL = &link
		}
		if log, ok := latest[t.TaskID]; ok {
			detail.Status = log.Status
			if log.ActualMinutes != nil {
				detail.ActualMinutes = *log.ActualMinutes
			}
			if log.Memo != nil {
				detail.Memo = *log.Memo
			}
		}
		view.Tasks[i] = detail
	}
	return view, nil
}

func checkYear(year int) error {
	if year < 1 || year > 9999 {
		return model.NewValidationError("invalid year",
			model.FieldError{Field: "year", Error: fmt.Sprintf("%d is out of range", year)})
	}
	return nil
}
