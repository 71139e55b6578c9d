package domain

import (
	"fmt"
	"time"
)

type RunStatus string

const (
	RunStatusRunning   RunStatus = "RUNNING"
	RunStatusSucceeded RunStatus = "SUCCEEDED"
	RunStatusFailed    RunStatus = "FAILED"
)

// Terminal reports whether the status ends a run.
func (s RunStatus) Terminal() bool {
	return s == RunStatusSucceeded || s == RunStatusFailed
}

// Trigger labels what started an invocation.
type Trigger string

const (
	TriggerTimer  Trigger = "timer"
	TriggerManual Trigger = "manual"
)

// SnapshotRun is one ingestion attempt for a (snapshot, currency) pair.
type SnapshotRun struct {
	SnapshotID   string     `db:"snapshot_id"`
	CurrencyCode string     `db:"currency_code"`
	StartedUTC   time.Time  `db:"started_utc"`
	FinishedUTC  *time.Time `db:"finished_utc"`
	Status       RunStatus  `db:"status"`
	ItemCount    *int64     `db:"item_count"`
}

// SnapshotIDFor returns the period label (year-month) for t.
func SnapshotIDFor(t time.Time) string {
	return t.UTC().Format("200601")
}

// CurrencyResult is the outcome of one currency within an invocation.
type CurrencyResult struct {
	Currency string
	Status   RunStatus
	Items    int
	Duration time.Duration
	Err      error
}

// Line renders the result the way it is reported to callers.
func (r CurrencyResult) Line() string {
	if r.Err != nil {
		return fmt.Sprintf("%s: FAILED - %v", r.Currency, r.Err)
	}
	return fmt.Sprintf("%s: %d items", r.Currency, r.Items)
}

// SnapshotReport summarises one invocation across currencies.
type SnapshotReport struct {
	InvocationID string
	SnapshotID   string
	Trigger      Trigger
	StartedAt    time.Time
	FinishedAt   time.Time
	Results      []CurrencyResult
	HungReaped   int64
}

// Lines returns one line per processed currency.
func (r *SnapshotReport) Lines() []string {
	lines := make([]string, 0, len(r.Results))
	for _, res := range r.Results {
		lines = append(lines, res.Line())
	}
	return lines
}

// TotalItems sums items across succeeded currencies.
func (r *SnapshotReport) TotalItems() int {
	total := 0
	for _, res := range r.Results {
		if res.Err == nil {
			total += res.Items
		}
	}
	return total
}

// RunEvent is published when a currency run reaches a terminal state.
type RunEvent struct {
	InvocationID string    `json:"invocation_id"`
	SnapshotID   string    `json:"snapshot_id"`
	Currency     string    `json:"currency"`
	Status       RunStatus `json:"status"`
	ItemCount    int       `json:"item_count"`
	Error        string    `json:"error,omitempty"`
	Trigger      Trigger   `json:"trigger"`
	StartedAt    time.Time `json:"started_at"`
	FinishedAt   time.Time `json:"finished_at"`
}
