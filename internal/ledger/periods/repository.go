package periods

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/contalibre/contalibre/internal/ledger/shared"
)

type Repository interface {
	List(ctx context.Context, userID int64) ([]Period, error)
	FindByID(ctx context.Context, userID, periodID int64) (Period, error)
	FindByDate(ctx context.Context, userID int64, date time.Time) (Period, error)
	FindPrevious(ctx context.Context, userID int64, before time.Time) (Period, error)
	RangeConflict(ctx context.Context, userID int64, startsAt, endsAt time.Time) (bool, error)
	Insert(ctx context.Context, userID int64, name string, startsAt, endsAt time.Time) (Period, error)
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const periodColumns = `id, user_id, name, starts_at, ends_at, created_at, updated_at`

func (r *repository) List(ctx context.Context, userID int64) ([]Period, error) {
	rows, err := r.db.Query(ctx, `SELECT `+periodColumns+` FROM periods WHERE user_id=$1 ORDER BY starts_at DESC`, userID)
	if err != nil {
		return nil, shared.WrapStorage("periods.list", err)
	}
	defer rows.Close()
	var out []Period
	for rows.Next() {
		var p Period
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.StartsAt, &p.EndsAt, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, shared.WrapStorage("periods.list", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *repository) FindByID(ctx context.Context, userID, periodID int64) (Period, error) {
	var p Period
	err := r.db.QueryRow(ctx, `SELECT `+periodColumns+` FROM periods WHERE id=$1 AND user_id=$2`, periodID, userID).
		Scan(&p.ID, &p.UserID, &p.Name, &p.StartsAt, &p.EndsAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Period{}, shared.ErrPeriodNotFound
		}
		return Period{}, shared.WrapStorage("periods.find", err)
	}
	return p, nil
}

func (r *repository) FindByDate(ctx context.Context, userID int64, date time.Time) (Period, error) {
	var p Period
	err := r.db.QueryRow(ctx, `SELECT `+periodColumns+` FROM periods
WHERE user_id=$1 AND $2 BETWEEN starts_at AND ends_at ORDER BY starts_at LIMIT 1`, userID, date).
		Scan(&p.ID, &p.UserID, &p.Name, &p.StartsAt, &p.EndsAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Period{}, shared.ErrPeriodNotFound
		}
		return Period{}, shared.WrapStorage("periods.find", err)
	}
	return p, nil
}

func (r *repository) FindPrevious(ctx context.Context, userID int64, before time.Time) (Period, error) {
	var p Period
	err := r.db.QueryRow(ctx, `SELECT `+periodColumns+` FROM periods
WHERE user_id=$1 AND ends_at < $2 ORDER BY ends_at DESC LIMIT 1`, userID, before).
		Scan(&p.ID, &p.UserID, &p.Name, &p.StartsAt, &p.EndsAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Period{}, shared.ErrPeriodNotFound
		}
		return Period{}, shared.WrapStorage("periods.previous", err)
	}
	return p, nil
}

func (r *repository) RangeConflict(ctx context.Context, userID int64, startsAt, endsAt time.Time) (bool, error) {
	var conflict bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (
SELECT 1 FROM periods WHERE user_id=$1 AND starts_at <= $3 AND ends_at >= $2)`, userID, startsAt, endsAt).
		Scan(&conflict)
	if err != nil {
		return false, shared.WrapStorage("periods.conflict", err)
	}
	return conflict, nil
}

func (r *repository) Insert(ctx context.Context, userID int64, name string, startsAt, endsAt time.Time) (Period, error) {
	var p Period
	err := r.db.QueryRow(ctx, `INSERT INTO periods (user_id, name, starts_at, ends_at)
VALUES ($1,$2,$3,$4) RETURNING `+periodColumns, userID, name, startsAt, endsAt).
		Scan(&p.ID, &p.UserID, &p.Name, &p.StartsAt, &p.EndsAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Period{}, shared.WrapStorage("periods.insert", err)
	}
	return p, nil
}
