package repository

import (
	"context"
	"time"

	"campus-recruit/internal/database"
	"campus-recruit/internal/database/postgres"
	"campus-recruit/internal/domain/application"

	"github.com/google/uuid"
)

const applicationColumns = `id, job_id, student_id, status, ai_score, applied_at, updated_at`

type PostgresApplicationRepository struct {
	db      database.DB
	timeout time.Duration
}

func NewPostgresApplicationRepository(db database.DB, timeout time.Duration) *PostgresApplicationRepository {
	return &PostgresApplicationRepository{db: db, timeout: timeout}
}

func (r *PostgresApplicationRepository) Create(ctx context.Context, a application.Application) (application.Application, error) {
	ctx, cancel := database.Bounded(ctx, r.timeout)
	defer cancel()

	now := time.Now().UTC()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status == "" {
		a.Status = application.StatusApplied
	}
	a.AppliedAt = now
	a.UpdatedAt = now

	_, err := r.db.Exec(ctx,
		`INSERT INTO applications (`+applicationColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, a.JobID, a.StudentID, string(a.Status), a.AIScore, a.AppliedAt, a.UpdatedAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err, "applications_job_student_key") {
			return application.Application{}, application.ErrAlreadyApplied
		}
		return application.Application{}, err
	}
	return a, nil
}

func (r *PostgresApplicationRepository) GetByID(ctx context.Context, id uuid.UUID) (application.Application, error) {
	ctx, cancel := database.Bounded(ctx, r.timeout)
	defer cancel()

	return r.getOne(ctx, r.db, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)
}

func (r *PostgresApplicationRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]application.Application, error) {
	return r.list(ctx, `SELECT `+applicationColumns+` FROM applications WHERE student_id = $1 ORDER BY applied_at DESC`, studentID)
}

func (r *PostgresApplicationRepository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]application.Application, error) {
	return r.list(ctx, `SELECT `+applicationColumns+` FROM applications WHERE job_id = $1 ORDER BY applied_at ASC`, jobID)
}

func (r *PostgresApplicationRepository) Update(ctx context.Context, id uuid.UUID, fn func(*application.Application) error) (application.Application, error) {
	ctx, cancel := database.Bounded(ctx, r.timeout)
	defer cancel()

	var out application.Application
	err := database.WithTx(ctx, r.db, func(tx database.Tx) error {
		cur, err := r.getOne(ctx, tx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1 FOR UPDATE`, id)
		if err != nil {
			return err
		}
		if err := fn(&cur); err != nil {
			return err
		}
		cur.ID = id

		_, err = tx.Exec(ctx,
			`UPDATE applications SET status = $2, ai_score = $3, updated_at = $4 WHERE id = $1`,
			cur.ID, string(cur.Status), cur.AIScore, cur.UpdatedAt,
		)
		if err != nil {
			return err
		}
		out = cur
		return nil
	})
	if err != nil {
		return application.Application{}, err
	}
	return out, nil
}

func (r *PostgresApplicationRepository) DeleteByStudent(ctx context.Context, studentID uuid.UUID) error {
	ctx, cancel := database.Bounded(ctx, r.timeout)
	defer cancel()

	_, err := r.db.Exec(ctx, `DELETE FROM applications WHERE student_id = $1`, studentID)
	return err
}

func (r *PostgresApplicationRepository) DeleteByJob(ctx context.Context, jobID uuid.UUID) error {
	ctx, cancel := database.Bounded(ctx, r.timeout)
	defer cancel()

	_, err := r.db.Exec(ctx, `DELETE FROM applications WHERE job_id = $1`, jobID)
	return err
}

func (r *PostgresApplicationRepository) Count(ctx context.Context) (int, error) {
	ctx, cancel := database.Bounded(ctx, r.timeout)
	defer cancel()

	var c int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(1) FROM applications`).Scan(&c); err != nil {
		return 0, err
	}
	return c, nil
}

func (r *PostgresApplicationRepository) list(ctx context.Context, query string, args ...any) ([]application.Application, error) {
	ctx, cancel := database.Bounded(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanApplication)
}

func (r *PostgresApplicationRepository) getOne(ctx context.Context, q querier, query string, arg any) (application.Application, error) {
	a, err := scanApplication(q.QueryRow(ctx, query, arg))
	if err != nil {
		if isNoRows(err) {
			return application.Application{}, application.ErrNotFound
		}
		return application.Application{}, err
	}
	return a, nil
}

func scanApplication(s scanner) (application.Application, error) {
	var a application.Application
	var status string
	if err := s.Scan(&a.ID, &a.JobID, &a.StudentID, &status, &a.AIScore, &a.AppliedAt, &a.UpdatedAt); err != nil {
		return application.Application{}, err
	}
	a.Status = application.Status(status)
	return a, nil
}
