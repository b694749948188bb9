package planner

import "study-planner/internal/model"

// newer reports whether a was logged after b. Equal timestamps fall back to the higher log id.
func newer(a, b model.Log) bool {
	if !a.LoggedAt.Equal(b.LoggedAt) {
		return a.LoggedAt.After(b.LoggedAt)
	}
	return a.ID > b.ID
}

// ResolveStatus returns the status of the most recent log, or planned when there is none.
// The logs are expected to belong to a single task.
func ResolveStatus(logs []model.Log) model.Status {
	if len(logs) == 0 {
		return model.StatusPlanned
	}
	latest := logs[0]
	for _, l := range logs[1:] {
		if newer(l, latest) {
			latest = l
		}
	}
	return latest.Status
}

// LatestLogs picks the most recent log of every task present in logs.
func LatestLogs(logs []model.Log) map[uint]model.Log {
	latest := make(map[uint]model.Log, len(logs))
	for _, l := range logs {
		if cur, ok := latest[l.TaskID]; !ok || newer(l, cur) {
			latest[l.TaskID] = l
		}
	}
	return latest
}

// ResolveStatuses maps task id to its effective status. Tasks without logs are absent
// from the result; callers treat absence as planned.
func ResolveStatuses(logs []model.Log) map[uint]model.Status {
	latest := LatestLogs(logs)
	statuses := make(map[uint]model.Status, len(latest))
	for id, l := range latest {
		statuses[id] = l.Status
	}
	return statuses
}

func statusOf(statuses map[uint]model.Status, taskID uint) model.Status {
	if s, ok := statuses[taskID]; ok {
		return s
	}
	return model.StatusPlanned
}
