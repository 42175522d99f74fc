package transactions

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/contalibre/contalibre/internal/ledger/periods"
	"github.com/contalibre/contalibre/internal/ledger/shared"
)

// Repository encapsulates transaction persistence. Posting runs inside
// WithTx so the header and its lines commit or roll back as one unit.
type Repository interface {
	ListRecent(ctx context.Context, userID, periodID int64, limit int) ([]Transaction, error)
	FindByID(ctx context.Context, userID, transactionID int64) (Transaction, error)
	FindByRef(ctx context.Context, userID int64, ref uuid.UUID) (Transaction, error)
	FindActiveClosing(ctx context.Context, userID, periodID int64) (Transaction, error)
	ClosingStatus(ctx context.Context, userID int64, periodIDs []int64) (map[int64]bool, error)
	UpdateStatus(ctx context.Context, userID, transactionID int64, status bool) error
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository exposes the operations available within a posting
// transaction.
type TxRepository interface {
	GetPeriod(ctx context.Context, userID, periodID int64) (periods.Period, error)
	HasActiveClosing(ctx context.Context, userID, periodID int64) (bool, error)
	InsertTransaction(ctx context.Context, userID int64, in ProposalInput, amount float64) (Transaction, error)
	InsertLines(ctx context.Context, transactionID int64, lines []LineInput) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

const transactionColumns = `id, ref, user_id, period_id, date, description, reference_number, transaction_type, status, amount, created_at, updated_at`

func scanTransaction(row pgx.Row) (Transaction, error) {
	var t Transaction
	err := row.Scan(&t.ID, &t.Ref, &t.UserID, &t.PeriodID, &t.Date, &t.Description,
		&t.ReferenceNumber, &t.Type, &t.Status, &t.Amount, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (r *repository) ListRecent(ctx context.Context, userID, periodID int64, limit int) ([]Transaction, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.Query(ctx, `SELECT `+transactionColumns+` FROM transactions
WHERE user_id=$1 AND period_id=$2 AND status ORDER BY date DESC, id DESC LIMIT $3`, userID, periodID, limit)
	if err != nil {
		return nil, shared.WrapStorage("transactions.list", err)
	}
	defer rows.Close()
	var out []Transaction
	ids := make([]int64, 0, limit)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, shared.WrapStorage("transactions.list", err)
		}
		out = append(out, t)
		ids = append(ids, t.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, shared.WrapStorage("transactions.list", err)
	}
	if len(ids) == 0 {
		return out, nil
	}
	lines, err := r.linesFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Lines = lines[out[i].ID]
	}
	return out, nil
}

func (r *repository) linesFor(ctx context.Context, transactionIDs []int64) (map[int64][]Line, error) {
	rows, err := r.db.Query(ctx, `SELECT l.id, l.transaction_id, l.account_code, a.name, l.debit, l.credit
FROM transaction_lines l JOIN catalog_accounts a ON a.code = l.account_code
WHERE l.transaction_id = ANY($1) ORDER BY l.id`, transactionIDs)
	if err != nil {
		return nil, shared.WrapStorage("transactions.lines", err)
	}
	defer rows.Close()
	out := make(map[int64][]Line)
	for rows.Next() {
		var line Line
		if err := rows.Scan(&line.ID, &line.TransactionID, &line.AccountCode, &line.AccountName, &line.Debit, &line.Credit); err != nil {
			return nil, shared.WrapStorage("transactions.lines", err)
		}
		out[line.TransactionID] = append(out[line.TransactionID], line)
	}
	return out, rows.Err()
}

func (r *repository) FindByID(ctx context.Context, userID, transactionID int64) (Transaction, error) {
	t, err := scanTransaction(r.db.QueryRow(ctx, `SELECT `+transactionColumns+` FROM transactions
WHERE id=$1 AND user_id=$2`, transactionID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Transaction{}, shared.ErrTransactionNotFound
		}
		return Transaction{}, shared.WrapStorage("transactions.find", err)
	}
	lines, err := r.linesFor(ctx, []int64{t.ID})
	if err != nil {
		return Transaction{}, err
	}
	t.Lines = lines[t.ID]
	return t, nil
}

func (r *repository) FindByRef(ctx context.Context, userID int64, ref uuid.UUID) (Transaction, error) {
	t, err := scanTransaction(r.db.QueryRow(ctx, `SELECT `+transactionColumns+` FROM transactions
WHERE ref=$1 AND user_id=$2`, ref, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Transaction{}, shared.ErrTransactionNotFound
		}
		return Transaction{}, shared.WrapStorage("transactions.find_ref", err)
	}
	lines, err := r.linesFor(ctx, []int64{t.ID})
	if err != nil {
		return Transaction{}, err
	}
	t.Lines = lines[t.ID]
	return t, nil
}

func (r *repository) FindActiveClosing(ctx context.Context, userID, periodID int64) (Transaction, error) {
	t, err := scanTransaction(r.db.QueryRow(ctx, `SELECT `+transactionColumns+` FROM transactions
WHERE user_id=$1 AND period_id=$2 AND transaction_type='CIERRE' AND status LIMIT 1`, userID, periodID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Transaction{}, shared.ErrNotClosed
		}
		return Transaction{}, shared.WrapStorage("transactions.closing", err)
	}
	return t, nil
}

func (r *repository) ClosingStatus(ctx context.Context, userID int64, periodIDs []int64) (map[int64]bool, error) {
	status := make(map[int64]bool, len(periodIDs))
	for _, id := range periodIDs {
		status[id] = false
	}
	if len(periodIDs) == 0 {
		return status, nil
	}
	rows, err := r.db.Query(ctx, `SELECT period_id FROM transactions
WHERE user_id=$1 AND period_id = ANY($2) AND transaction_type='CIERRE' AND status`, userID, periodIDs)
	if err != nil {
		return nil, shared.WrapStorage("transactions.closing_status", err)
	}
	defer rows.Close()
	for rows.Next() {
		var periodID int64
		if err := rows.Scan(&periodID); err != nil {
			return nil, shared.WrapStorage("transactions.closing_status", err)
		}
		status[periodID] = true
	}
	return status, rows.Err()
}

func (r *repository) UpdateStatus(ctx context.Context, userID, transactionID int64, status bool) error {
	cmd, err := r.db.Exec(ctx, `UPDATE transactions SET status=$3, updated_at=NOW()
WHERE id=$1 AND user_id=$2`, transactionID, userID, status)
	if err != nil {
		return shared.WrapStorage("transactions.status", err)
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrTransactionNotFound
	}
	return nil
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return shared.WrapStorage("transactions.begin", err)
	}
	wrapper := &txRepository{tx: tx}
	if err := fn(ctx, wrapper); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			// Rollback failed: the header may be visible without its
			// lines. Surface the stronger error so the caller can void.
			return errors.Join(shared.ErrPostingIncomplete, err)
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return shared.WrapStorage("transactions.commit", err)
	}
	return nil
}

type txRepository struct {
	tx pgx.Tx
}

func (r *txRepository) GetPeriod(ctx context.Context, userID, periodID int64) (periods.Period, error) {
	var p periods.Period
	err := r.tx.QueryRow(ctx, `SELECT id, user_id, name, starts_at, ends_at, created_at, updated_at
FROM periods WHERE id=$1 AND user_id=$2 FOR UPDATE`, periodID, userID).
		Scan(&p.ID, &p.UserID, &p.Name, &p.StartsAt, &p.EndsAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return periods.Period{}, shared.ErrPeriodNotFound
		}
		return periods.Period{}, shared.WrapStorage("transactions.period", err)
	}
	return p, nil
}

func (r *txRepository) HasActiveClosing(ctx context.Context, userID, periodID int64) (bool, error) {
	var closed bool
	err := r.tx.QueryRow(ctx, `SELECT EXISTS (
SELECT 1 FROM transactions WHERE user_id=$1 AND period_id=$2 AND transaction_type='CIERRE' AND status)`, userID, periodID).
		Scan(&closed)
	if err != nil {
		return false, shared.WrapStorage("transactions.closing", err)
	}
	return closed, nil
}

func (r *txRepository) InsertTransaction(ctx context.Context, userID int64, in ProposalInput, amount float64) (Transaction, error) {
	row := r.tx.QueryRow(ctx, `INSERT INTO transactions (ref, user_id, period_id, date, description, reference_number, transaction_type, status, amount)
VALUES ($1,$2,$3,$4,$5,$6,$7,TRUE,$8) RETURNING id, created_at, updated_at`,
		nullUUID(in.Ref), userID, in.PeriodID, in.Date, in.Description, nullString(in.ReferenceNumber), in.Type, toNumeric(amount))
	entry := Transaction{
		Ref:         in.Ref,
		UserID:      userID,
		PeriodID:    in.PeriodID,
		Date:        in.Date,
		Description: in.Description,
		Type:        in.Type,
		Status:      true,
		Amount:      amount,
	}
	if in.ReferenceNumber != "" {
		ref := in.ReferenceNumber
		entry.ReferenceNumber = &ref
	}
	if err := row.Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.ConstraintName {
			case "uq_transactions_ref":
				return Transaction{}, shared.ErrDuplicateRef
			case "uq_transactions_active_closing":
				return Transaction{}, shared.ErrAlreadyClosed
			}
		}
		return Transaction{}, shared.WrapStorage("transactions.insert", err)
	}
	return entry, nil
}

func (r *txRepository) InsertLines(ctx context.Context, transactionID int64, lines []LineInput) error {
	for _, line := range lines {
		if _, err := r.tx.Exec(ctx, `INSERT INTO transaction_lines (transaction_id, account_code, debit, credit)
VALUES ($1,$2,$3,$4)`, transactionID, line.AccountCode, toNumeric(line.Debit), toNumeric(line.Credit)); err != nil {
			return shared.WrapStorage("transactions.insert_lines", err)
		}
	}
	return nil
}

// Helpers

func nullUUID(ref uuid.UUID) any {
	if ref == uuid.Nil {
		return nil
	}
	return ref
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func toNumeric(v float64) any {
	return fmt.Sprintf("%.2f", v)
}
