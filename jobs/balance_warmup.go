package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	jobmetrics "github.com/contalibre/contalibre/internal/jobs"
	"github.com/contalibre/contalibre/internal/ledger/balances"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// BalanceWarmupJob pre-populates balance caches so the first dashboard
// request after a quiet stretch does not pay the aggregation cost.
type BalanceWarmupJob struct {
	Balances *balances.Service
	Pool     *pgxpool.Pool
	Logger   *slog.Logger
	Metrics  *jobmetrics.Metrics
}

type warmupScope struct {
	UserID   int64
	PeriodID int64
}

// NewBalanceWarmupJob wires dependencies for the warmup handler.
func NewBalanceWarmupJob(balanceSvc *balances.Service, pool *pgxpool.Pool, logger *slog.Logger, metrics *jobmetrics.Metrics) *BalanceWarmupJob {
	return &BalanceWarmupJob{Balances: balanceSvc, Pool: pool, Logger: logger, Metrics: metrics}
}

// Handle processes balance warmup tasks.
func (j *BalanceWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil {
		return errors.New("balance warmup: handler not configured")
	}
	var payload BalanceWarmupPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
	}
	if payload.Scope == "" {
		payload.Scope = "active"
	}

	tracker := j.metrics().Track(TaskBalanceWarmup)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger().With(slog.String("scope", payload.Scope))
	logger.Info("starting balance warmup")

	scopes, err := j.fetchScopes(ctx, payload.Scope)
	if err != nil {
		resultErr = err
		logger.Error("load warmup scopes", slog.Any("error", err))
		return resultErr
	}
	if len(scopes) == 0 {
		logger.Info("no periods discovered for warmup")
		return resultErr
	}

	start := time.Now()
	warmed := 0
	for _, scope := range scopes {
		if err := j.warmScope(ctx, scope); err != nil {
			resultErr = err
			logger.Error("warm period",
				slog.Int64("user_id", scope.UserID),
				slog.Int64("period_id", scope.PeriodID),
				slog.Any("error", err))
			return resultErr
		}
		warmed++
	}

	logger.Info("completed balance warmup",
		slog.Int("periods", warmed),
		slog.Duration("duration", time.Since(start)))
	return resultErr
}

func (j *BalanceWarmupJob) fetchScopes(ctx context.Context, scope string) ([]warmupScope, error) {
	if j.Pool == nil {
		return nil, nil
	}
	query := `SELECT DISTINCT t.user_id, t.period_id
FROM transactions t
WHERE t.status AND t.created_at > now() - interval '60 days'`
	if scope == "all" {
		query = `SELECT DISTINCT t.user_id, t.period_id FROM transactions t WHERE t.status`
	}
	rows, err := j.Pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scopes []warmupScope
	for rows.Next() {
		var s warmupScope
		if err := rows.Scan(&s.UserID, &s.PeriodID); err != nil {
			return nil, err
		}
		scopes = append(scopes, s)
	}
	return scopes, rows.Err()
}

func (j *BalanceWarmupJob) warmScope(ctx context.Context, scope warmupScope) error {
	if j.Balances == nil {
		return nil
	}
	scopeCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()
	_, err := j.Balances.DetailBalances(scopeCtx, scope.UserID, scope.PeriodID)
	return err
}

func (j *BalanceWarmupJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *BalanceWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}
