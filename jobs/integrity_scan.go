package jobs

import (
	"context"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	jobmetrics "github.com/contalibre/contalibre/internal/jobs"
	"github.com/contalibre/contalibre/internal/ledger/transactions"
)

// IntegrityScanJob sweeps active transactions for debit/credit drift.
// Posting enforces balance up front, so any hit here means manual data
// surgery or a storage-level fault and warrants a page.
type IntegrityScanJob struct {
	Pool    *pgxpool.Pool
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
}

// NewIntegrityScanJob wires dependencies for the scan handler.
func NewIntegrityScanJob(pool *pgxpool.Pool, logger *slog.Logger, metrics *jobmetrics.Metrics) *IntegrityScanJob {
	return &IntegrityScanJob{Pool: pool, Logger: logger, Metrics: metrics}
}

type driftRow struct {
	TransactionID int64
	UserID        int64
	TotalDebit    float64
	TotalCredit   float64
}

// Handle processes integrity scan tasks.
func (j *IntegrityScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil {
		return errors.New("integrity scan: handler not configured")
	}

	tracker := j.metrics().Track(TaskIntegrityScan)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	drifted, err := j.scan(ctx)
	if err != nil {
		resultErr = err
		j.logger().Error("integrity scan", slog.Any("error", err))
		return resultErr
	}

	if len(drifted) == 0 {
		j.logger().Info("integrity scan clean")
		return resultErr
	}

	j.metrics().AddDrift(len(drifted))
	for _, row := range drifted {
		j.logger().Error("unbalanced transaction detected",
			slog.Int64("transaction_id", row.TransactionID),
			slog.Int64("user_id", row.UserID),
			slog.Float64("total_debit", row.TotalDebit),
			slog.Float64("total_credit", row.TotalCredit))
	}
	return resultErr
}

func (j *IntegrityScanJob) scan(ctx context.Context) ([]driftRow, error) {
	if j.Pool == nil {
		return nil, nil
	}
	rows, err := j.Pool.Query(ctx, `SELECT t.id, t.user_id,
	COALESCE(SUM(l.debit), 0), COALESCE(SUM(l.credit), 0)
FROM transactions t
JOIN transaction_lines l ON l.transaction_id = t.id
WHERE t.status
GROUP BY t.id, t.user_id
HAVING ABS(COALESCE(SUM(l.debit), 0) - COALESCE(SUM(l.credit), 0)) > $1`,
		transactions.BalanceTolerance)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drifted []driftRow
	for rows.Next() {
		var row driftRow
		if err := rows.Scan(&row.TransactionID, &row.UserID, &row.TotalDebit, &row.TotalCredit); err != nil {
			return nil, err
		}
		drifted = append(drifted, row)
	}
	return drifted, rows.Err()
}

func (j *IntegrityScanJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *IntegrityScanJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}
