package model

import "time"

// Plan is a study goal owning a set of dated tasks.
type Plan struct {
	ID        uint      `gorm:"primaryKey" json:"plan_id"`
	UserID    uint      `gorm:"index" json:"-"`
	Title     string    `gorm:"size:100" json:"title"`
	Subject   string    `gorm:"size:50" json:"subject"`
	Color     *string   `gorm:"size:16" json:"color"` // overrides the palette color when set
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Tasks     []Task    `gorm:"foreignKey:PlanID" json:"-"`
}

// Task is one dated unit of work within a plan. Its status lives in the task logs.
type Task struct {
	ID        uint      `gorm:"primaryKey" json:"task_id"`
	PlanID    uint      `gorm:"index" json:"plan_id"`
	Date      string    `gorm:"column:plan_date;size:10;index" json:"date"`
	Title     string    `gorm:"size:200" json:"description"`
	Order     int       `gorm:"column:order_no" json:"order"`
	LinkURL   *string   `gorm:"size:500" json:"link_url"`
	CreatedAt time.Time `json:"created_at"`
}

// Log records a status change of a task. Only the latest one counts.
type Log struct {
	ID            uint      `gorm:"primaryKey" json:"log_id"`
	TaskID        uint      `gorm:"index" json:"task_id"`
	UserID        uint      `gorm:"index" json:"user_id"`
	Status        Status    `gorm:"size:10" json:"status"`
	ActualMinutes *int      `json:"actual_minutes"`
	Memo          *string   `gorm:"size:500" json:"memo"`
	LoggedAt      time.Time `gorm:"index" json:"logged_at"`
}

func (Log) TableName() string { return "task_logs" }
