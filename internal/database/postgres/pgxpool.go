package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"campus-recruit/internal/config"
	"campus-recruit/internal/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

const uniqueViolation = "23505"

var errNilPool = errors.New("postgres: nil pool")

// DSN returns DATABASE_URL when set, otherwise a keyword/value string built
// from the discrete connection fields.
func DSN(cfg config.DatabaseConfig) string {
	if u := strings.TrimSpace(cfg.URL); u != "" {
		return u
	}
	kv := []string{
		"host=" + strings.TrimSpace(cfg.DBHost),
		"port=" + strings.TrimSpace(cfg.DBPort),
		"user=" + strings.TrimSpace(cfg.DBUser),
		"dbname=" + strings.TrimSpace(cfg.DBName),
		"sslmode=" + strings.TrimSpace(cfg.DBSSLMode),
	}
	if cfg.DBPassword != "" {
		kv = append(kv, "password="+cfg.DBPassword)
	}
	return strings.Join(kv, " ")
}

func poolConfig(cfg config.DatabaseConfig) (*pgxpool.Config, error) {
	pcfg, err := pgxpool.ParseConfig(DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	if cfg.ConnectTimeout > 0 {
		pcfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	}

	p := cfg.Pool
	if p.MaxConns > 0 {
		pcfg.MaxConns = p.MaxConns
	}
	if p.MinConns > 0 && p.MinConns <= pcfg.MaxConns {
		pcfg.MinConns = p.MinConns
	}
	for dst, v := range map[*time.Duration]time.Duration{
		&pcfg.MaxConnLifetime:   p.MaxConnLifetime,
		&pcfg.MaxConnIdleTime:   p.MaxConnIdleTime,
		&pcfg.HealthCheckPeriod: p.HealthCheckPeriod,
	} {
		if v > 0 {
			*dst = v
		}
	}
	return pcfg, nil
}

// querier is the statement surface pgxpool.Pool and pgx.Tx share.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// conn adapts a querier to the database package's statement methods.
type conn struct {
	q querier
}

func (c conn) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	tag, err := c.q.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (c conn) Query(ctx context.Context, query string, args ...any) (database.Rows, error) {
	rows, err := c.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (c conn) QueryRow(ctx context.Context, query string, args ...any) database.Row {
	return c.q.QueryRow(ctx, query, args...)
}

// Pool is the pgx-backed database.DB. SQLDB exposes the same pool through
// database/sql for the migration runner.
type Pool struct {
	conn
	pool  *pgxpool.Pool
	sqlDB *sql.DB
}

func Connect(ctx context.Context, cfg config.DatabaseConfig) (*Pool, error) {
	pcfg, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}

	p, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}

	pingCtx, cancel := database.Bounded(ctx, cfg.ConnectTimeout)
	defer cancel()
	if err := p.Ping(pingCtx); err != nil {
		p.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &Pool{conn: conn{q: p}, pool: p, sqlDB: stdlib.OpenDBFromPool(p)}, nil
}

func (p *Pool) Ping(ctx context.Context) error {
	if p == nil || p.pool == nil {
		return errNilPool
	}
	return p.pool.Ping(ctx)
}

func (p *Pool) Close() error {
	if p == nil || p.pool == nil {
		return nil
	}
	err := p.sqlDB.Close()
	p.pool.Close()
	return err
}

func (p *Pool) Begin(ctx context.Context) (database.Tx, error) {
	t, err := p.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return tx{conn: conn{q: t}, tx: t}, nil
}

func (p *Pool) SQLDB() *sql.DB {
	if p == nil {
		return nil
	}
	return p.sqlDB
}

// WithAdvisoryLock runs fn while holding the session-level advisory lock key
// on one pooled connection, so cooperating processes run fn one at a time.
func (p *Pool) WithAdvisoryLock(ctx context.Context, key int64, fn func(context.Context) error) error {
	if p == nil || p.pool == nil {
		return errNilPool
	}
	c, err := p.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire conn: %w", err)
	}
	defer c.Release()

	if _, err := c.Exec(ctx, `SELECT pg_advisory_lock($1)`, key); err != nil {
		return fmt.Errorf("advisory lock %d: %w", key, err)
	}
	defer func() {
		_, _ = c.Exec(context.Background(), `SELECT pg_advisory_unlock($1)`, key)
	}()

	return fn(ctx)
}

// AdvisoryLock binds WithAdvisoryLock to one key.
type AdvisoryLock struct {
	pool *Pool
	key  int64
}

func (p *Pool) Lock(key int64) AdvisoryLock {
	return AdvisoryLock{pool: p, key: key}
}

func (l AdvisoryLock) WithLock(ctx context.Context, fn func(context.Context) error) error {
	return l.pool.WithAdvisoryLock(ctx, l.key, fn)
}

type tx struct {
	conn
	tx pgx.Tx
}

func (t tx) Commit(ctx context.Context) error   { return t.tx.Commit(ctx) }
func (t tx) Rollback(ctx context.Context) error { return t.tx.Rollback(ctx) }

// IsUniqueViolation reports whether err carries SQLSTATE 23505, optionally
// restricted to one constraint name.
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}
