package planner

import (
	"fmt"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"study-planner/internal/model"
)

// weekStartOffset shifts a Monday based weekday so that the grid starts on Sunday.
const weekStartOffset = 1

// DayInfo is what the calendar knows about a date that has a task.
type DayInfo struct {
	Status model.Status
	Color  string
	PlanID uint
}

// DayIndex maps ISO dates to the task shown on that date.
type DayIndex map[string]DayInfo

// DayCell is a populated calendar cell.
type DayCell struct {
	Date    string       `json:"date"`
	Status  model.Status `json:"status"`
	IsToday bool         `json:"is_today"`
	DayID   string       `json:"day_id"`
	Color   *string      `json:"color"`
	PlanID  *uint        `json:"plan_id"`
}

// Calendar maps month number (1-12) to its cells. Leading nil cells pad the first week.
type Calendar map[int][]*DayCell

// IndexDays scans the daily tasks of plans into a date index. When planID is non zero only
// that plan is indexed. Several tasks on one date: the last one scanned wins.
func IndexDays(plans []PlanView, planID uint) DayIndex {
	days := make(DayIndex)
	for _, p := range plans {
		if planID != 0 && p.ID != planID {
			continue
		}
		for _, t := range p.DailyTasks {
			if t.Date == "" {
				continue
			}
			status := t.Status
			if status == "" {
				status = model.StatusPlanned
			}
			days[t.Date] = DayInfo{Status: status, Color: p.Color, PlanID: p.ID}
		}
	}
	return days
}

// MonthPadding returns how many empty cells precede the first day of the month.
func MonthPadding(year int, month time.Month) int {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	mondayBased := (int(first.Weekday()) + 6) % 7
	return (mondayBased + weekStartOffset) % 7
}

// DaysIn returns the number of days of the month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// BuildCalendar lays out the twelve months of year. Days without a task get status none,
// whether they are in the past or in the future.
func BuildCalendar(year int, days DayIndex, today time.Time) Calendar {
	todayStr := today.Format(model.DateLayout)
	cal := make(Calendar, 12)

	for m := time.January; m <= time.December; m++ {
		padding := MonthPadding(year, m)
		n := DaysIn(year, m)
		cells := make([]*DayCell, padding, padding+n)

		for d := 1; d <= n; d++ {
			date := time.Date(year, m, d, 0, 0, 0, 0, time.UTC)
			dateStr := date.Format(model.DateLayout)
			cell := &DayCell{
				Date:    dateStr,
				Status:  model.StatusNone,
				IsToday: dateStr == todayStr,
				DayID:   DayID(date),
			}
			if info, ok := days[dateStr]; ok {
				color, planID := info.Color, info.PlanID
				cell.Status = info.Status
				cell.Color = &color
				cell.PlanID = &planID
			}
			cells = append(cells, cell)
		}
		cal[int(m)] = cells
	}
	return cal
}

// DayID formats the month and day of t as MMDD. It does not carry the year.
func DayID(t time.Time) string {
	return fmt.Sprintf("%02d%02d", int(t.Month()), t.Day())
}

// ParseDayID turns a MMDD id back into a date of the given year.
func ParseDayID(year int, id string) (time.Time, error) {
	if len(id) != 4 {
		return time.Time{}, errors.Errorf("invalid day id %q", id)
	}
	month, err := strconv.Atoi(id[:2])
	if err != nil {
		return time.Time{}, errors.Errorf("invalid day id %q", id)
	}
	day, err := strconv.Atoi(id[2:])
	if err != nil {
		return time.Time{}, errors.Errorf("invalid day id %q", id)
	}
	if month < 1 || month > 12 || day < 1 || day > DaysIn(year, time.Month(month)) {
		return time.Time{}, errors.Errorf("invalid day id %q for year %d", id, year)
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}
