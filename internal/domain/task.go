package domain

import "time"

// Task tracks one in-flight domain check from submission until shortly after
// the result store reports a terminal status. Tasks live only in memory; the
// persisted row is referenced through DBRecordID once discovered.
type Task struct {
	TaskID     string      `json:"taskId"`
	Domain     string      `json:"domain"`
	Status     CheckStatus `json:"status"`
	Progress   int         `json:"progress"` // 0-100, derived from check results
	StartTime  time.Time   `json:"startTime"`
	EndTime    *time.Time  `json:"endTime,omitempty"`
	DBRecordID string      `json:"dbRecordId,omitempty"`
}

// Active reports whether the task still participates in polling.
func (t *Task) Active() bool {
	return t.Status == CheckStatusPending || t.Status == CheckStatusInProgress
}

// TaskUpdate is the normalized event fanned out to subscribers on every poll
// tick that found fresh data for the task's domain.
type TaskUpdate struct {
	TaskID    string       `json:"taskId"`
	Domain    string       `json:"domain"`
	Status    CheckStatus  `json:"status"`
	Results   CheckResults `json:"results"`
	Progress  int          `json:"progress"`
	Timestamp time.Time    `json:"timestamp"`
}
