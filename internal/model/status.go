package model

// DateLayout is the ISO date format used for task dates and calendar keys.
const DateLayout = "2006-01-02"

type Status string

const (
	StatusPlanned Status = "planned"
	StatusDone    Status = "done"
	StatusPartial Status = "partial"
	StatusMissed  Status = "missed"
	// StatusNone marks a calendar day without tasks. It is never stored in a log.
	StatusNone Status = "none"
)

// Loggable reports whether s may be written to a task log.
func (s Status) Loggable() bool {
	switch s {
	case StatusPlanned, StatusDone, StatusPartial, StatusMissed:
		return true
	}
	return false
}
