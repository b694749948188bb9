package planner

import (
	"fmt"
	"time"

	"study-planner/internal/model"
)

// PlanTaskRow is one row of plans left joined to their tasks. TaskID is nil for a plan without tasks.
type PlanTaskRow struct {
	PlanID    uint
	PlanTitle string
	Subject   string
	Color     *string
	CreatedAt time.Time
	TaskID    *uint
	Date      string
	TaskTitle string
	Order     int
	LinkURL   *string
}

// DailyTask is a task with its resolved status.
type DailyTask struct {
	TaskID  uint         `json:"task_id"`
	Date    string       `json:"date"`
	Title   string       `json:"description"`
	LinkURL *string      `json:"link_url"`
	Order   int          `json:"order"`
	Status  model.Status `json:"status"`
}

// PlanView is a plan with its color and ordered daily tasks.
type PlanView struct {
	ID         uint        `json:"plan_id"`
	Title      string      `json:"title"`
	Subject    string      `json:"subject"`
	CreatedAt  string      `json:"created_at"`
	Color      string      `json:"color"`
	DailyTasks []DailyTask `json:"daily_plans"`
}

// AggregatePlans groups rows by plan, keeping the order in which plans first appear.
// Task order inside a plan is the row order. A row without plan id is an integrity fault.
func AggregatePlans(rows []PlanTaskRow, statuses map[uint]model.Status) ([]PlanView, error) {
	plans := make([]PlanView, 0)
	index := make(map[uint]int)

	for i, row := range rows {
		if row.PlanID == 0 {
			return nil, model.NewIntegrityError(fmt.Sprintf("row %d has no plan id", i))
		}
		pos, ok := index[row.PlanID]
		if !ok {
			created := ""
			if !row.CreatedAt.IsZero() {
				created = row.CreatedAt.Format(model.DateLayout)
			}
			plans = append(plans, PlanView{
				ID:         row.PlanID,
				Title:      row.PlanTitle,
				Subject:    row.Subject,
				CreatedAt:  created,
				Color:      PlanColor(row.PlanID, row.Color),
				DailyTasks: []DailyTask{},
			})
			pos = len(plans) - 1
			index[row.PlanID] = pos
		}
		if row.TaskID == nil {
			continue
		}
		plans[pos].DailyTasks = append(plans[pos].DailyTasks, DailyTask{
			TaskID:  *row.TaskID,
			Date:    row.Date,
			Title:   row.TaskTitle,
			LinkURL: row.LinkURL,
			Order:   row.Order,
			Status:  statusOf(statuses, *row.TaskID),
		})
	}
	return plans, nil
}

// FindPlan returns the plan with the given id, if present.
func FindPlan(plans []PlanView, id uint) (PlanView, bool) {
	for _, p := range plans {
		if p.ID == id {
			return p, true
		}
	}
	return PlanView{}, false
}
