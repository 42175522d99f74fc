package balances

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/contalibre/contalibre/internal/ledger/shared"
)

// Store reads aggregated ledger data. Only lines of active
// transactions contribute; voided entries are invisible here.
type Store interface {
	// AccountTotals returns per-account debit/credit sums for detail
	// accounts with movements in the period, ordered by code.
	AccountTotals(ctx context.Context, userID, periodID int64) ([]AccountBalance, error)
	// MovementsForAccount returns the account's lines ordered by
	// transaction date, then line id as a stable tiebreak.
	MovementsForAccount(ctx context.Context, userID, accountCode, periodID int64) ([]Movement, error)
	// PeriodExists reports whether the period belongs to the user.
	PeriodExists(ctx context.Context, userID, periodID int64) (bool, error)
}

type store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) Store {
	return &store{db: db}
}

func (s *store) AccountTotals(ctx context.Context, userID, periodID int64) ([]AccountBalance, error) {
	rows, err := s.db.Query(ctx, `SELECT a.code, a.name, a.type, a.level,
COALESCE(SUM(l.debit),0), COALESCE(SUM(l.credit),0)
FROM transaction_lines l
JOIN transactions t ON t.id = l.transaction_id
JOIN catalog_accounts a ON a.code = l.account_code
WHERE t.user_id=$1 AND t.period_id=$2 AND t.status AND a.is_detail
GROUP BY a.code, a.name, a.type, a.level
ORDER BY a.code`, userID, periodID)
	if err != nil {
		return nil, shared.WrapStorage("balances.totals", err)
	}
	defer rows.Close()
	var out []AccountBalance
	for rows.Next() {
		var b AccountBalance
		if err := rows.Scan(&b.Code, &b.Name, &b.Type, &b.Level, &b.TotalDebit, &b.TotalCredit); err != nil {
			return nil, shared.WrapStorage("balances.totals", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *store) MovementsForAccount(ctx context.Context, userID, accountCode, periodID int64) ([]Movement, error) {
	rows, err := s.db.Query(ctx, `SELECT t.id, t.date, t.description, t.reference_number, l.debit, l.credit
FROM transaction_lines l
JOIN transactions t ON t.id = l.transaction_id
WHERE t.user_id=$1 AND t.period_id=$2 AND t.status AND l.account_code=$3
ORDER BY t.date, l.id`, userID, periodID, accountCode)
	if err != nil {
		return nil, shared.WrapStorage("balances.movements", err)
	}
	defer rows.Close()
	var out []Movement
	for rows.Next() {
		var m Movement
		if err := rows.Scan(&m.TransactionID, &m.Date, &m.Description, &m.ReferenceNumber, &m.Debit, &m.Credit); err != nil {
			return nil, shared.WrapStorage("balances.movements", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *store) PeriodExists(ctx context.Context, userID, periodID int64) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM periods WHERE id=$1 AND user_id=$2)`, periodID, userID).
		Scan(&exists)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, shared.WrapStorage("balances.period", err)
	}
	return exists, nil
}
