package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskBalanceWarmup pre-computes balance caches for active periods.
	TaskBalanceWarmup = "balances:warmup"
	// TaskIntegrityScan sweeps the ledger for debit/credit drift.
	TaskIntegrityScan = "ledger:integrity_scan"
)

// BalanceWarmupPayload selects which periods to warm.
type BalanceWarmupPayload struct {
	// Scope is "active" (periods with postings in the last 60 days) or
	// "all".
	Scope string `json:"scope"`
}

// NewBalanceWarmupTask constructs an Asynq task.
func NewBalanceWarmupTask(payload BalanceWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskBalanceWarmup, data), nil
}

// NewIntegrityScanTask constructs an Asynq task with an empty payload.
func NewIntegrityScanTask() *asynq.Task {
	return asynq.NewTask(TaskIntegrityScan, nil)
}
