package catalog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/contalibre/contalibre/internal/ledger/shared"
)

type Repository interface {
	List(ctx context.Context) ([]Account, error)
	FindByCode(ctx context.Context, code int64) (Account, error)
	InsertIfAbsent(ctx context.Context, account Account) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context) ([]Account, error) {
	rows, err := r.db.Query(ctx, `SELECT code, name, type, parent_code, level, is_detail, is_active, created_at, updated_at
FROM catalog_accounts ORDER BY code`)
	if err != nil {
		return nil, shared.WrapStorage("catalog.list", err)
	}
	defer rows.Close()
	var accounts []Account
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.Code, &a.Name, &a.Type, &a.ParentCode, &a.Level, &a.IsDetail, &a.IsActive, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, shared.WrapStorage("catalog.list", err)
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *repository) FindByCode(ctx context.Context, code int64) (Account, error) {
	var a Account
	err := r.db.QueryRow(ctx, `SELECT code, name, type, parent_code, level, is_detail, is_active, created_at, updated_at
FROM catalog_accounts WHERE code=$1`, code).
		Scan(&a.Code, &a.Name, &a.Type, &a.ParentCode, &a.Level, &a.IsDetail, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, shared.ErrAccountNotFound
		}
		return Account{}, shared.WrapStorage("catalog.find", err)
	}
	return a, nil
}

func (r *repository) InsertIfAbsent(ctx context.Context, account Account) error {
	_, err := r.db.Exec(ctx, `INSERT INTO catalog_accounts (code, name, type, parent_code, level, is_detail, is_active)
VALUES ($1,$2,$3,$4,$5,$6,$7) ON CONFLICT (code) DO NOTHING`,
		account.Code, account.Name, account.Type, account.ParentCode, account.Level, account.IsDetail, account.IsActive)
	if err != nil {
		return shared.WrapStorage("catalog.seed", err)
	}
	return nil
}
