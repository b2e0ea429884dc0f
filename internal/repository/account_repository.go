package repository

import (
	"context"
	"time"

	"campus-recruit/internal/database"
	"campus-recruit/internal/database/postgres"
	"campus-recruit/internal/domain/account"

	"github.com/google/uuid"
)

const accountColumns = `id, name, email, password_hash, role, suspended, created_at, updated_at`

type PostgresAccountRepository struct {
	db      database.DB
	timeout time.Duration
}

func NewPostgresAccountRepository(db database.DB, timeout time.Duration) *PostgresAccountRepository {
	return &PostgresAccountRepository{db: db, timeout: timeout}
}

func (r *PostgresAccountRepository) Create(ctx context.Context, a account.Account) (account.Account, error) {
	ctx, cancel := database.Bounded(ctx, r.timeout)
	defer cancel()

	now := time.Now().UTC()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.CreatedAt = now
	a.UpdatedAt = now

	_, err := r.db.Exec(ctx,
		`INSERT INTO accounts (`+accountColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID, a.Name, a.Email, a.PasswordHash, string(a.Role), a.Suspended, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err, "accounts_email_key") {
			return account.Account{}, account.ErrEmailTaken
		}
		return account.Account{}, err
	}
	return a, nil
}

func (r *PostgresAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (account.Account, error) {
	ctx, cancel := database.Bounded(ctx, r.timeout)
	defer cancel()

	return r.getOne(ctx, r.db, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
}

func (r *PostgresAccountRepository) GetByEmail(ctx context.Context, email string) (account.Account, error) {
	ctx, cancel := database.Bounded(ctx, r.timeout)
	defer cancel()

	return r.getOne(ctx, r.db, `SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email)
}

func (r *PostgresAccountRepository) List(ctx context.Context) ([]account.Account, error) {
	ctx, cancel := database.Bounded(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanAccount)
}

func (r *PostgresAccountRepository) Update(ctx context.Context, id uuid.UUID, fn func(*account.Account) error) (account.Account, error) {
	ctx, cancel := database.Bounded(ctx, r.timeout)
	defer cancel()

	var out account.Account
	err := database.WithTx(ctx, r.db, func(tx database.Tx) error {
		cur, err := r.getOne(ctx, tx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1 FOR UPDATE`, id)
		if err != nil {
			return err
		}
		if err := fn(&cur); err != nil {
			return err
		}
		cur.ID = id
		cur.UpdatedAt = time.Now().UTC()

		_, err = tx.Exec(ctx,
			`UPDATE accounts
			 SET name = $2, email = $3, password_hash = $4, role = $5, suspended = $6, updated_at = $7
			 WHERE id = $1`,
			cur.ID, cur.Name, cur.Email, cur.PasswordHash, string(cur.Role), cur.Suspended, cur.UpdatedAt,
		)
		if err != nil {
			if postgres.IsUniqueViolation(err, "accounts_email_key") {
				return account.ErrEmailTaken
			}
			return err
		}
		out = cur
		return nil
	})
	if err != nil {
		return account.Account{}, err
	}
	return out, nil
}

func (r *PostgresAccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := database.Bounded(ctx, r.timeout)
	defer cancel()

	n, err := r.db.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return account.ErrNotFound
	}
	return nil
}

func (r *PostgresAccountRepository) CountByRole(ctx context.Context) (map[account.Role]int, error) {
	ctx, cancel := database.Bounded(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.Query(ctx, `SELECT role, COUNT(1) FROM accounts GROUP BY role`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[account.Role]int{}
	for rows.Next() {
		var role string
		var c int
		if err := rows.Scan(&role, &c); err != nil {
			return nil, err
		}
		out[account.Role(role)] = c
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresAccountRepository) getOne(ctx context.Context, q querier, query string, arg any) (account.Account, error) {
	a, err := scanAccount(q.QueryRow(ctx, query, arg))
	if err != nil {
		if isNoRows(err) {
			return account.Account{}, account.ErrNotFound
		}
		return account.Account{}, err
	}
	return a, nil
}

func scanAccount(s scanner) (account.Account, error) {
	var a account.Account
	var role string
	if err := s.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &role, &a.Suspended, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return account.Account{}, err
	}
	a.Role = account.Role(role)
	return a, nil
}
