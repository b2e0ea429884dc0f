package repository

import (
	"context"
	"time"

	"campus-recruit/internal/database"
	"campus-recruit/internal/domain/verification"

	"github.com/google/uuid"
)

const verificationColumns = `id, student_id, user_id, document_type, doc_url, status, admin_notes, reviewed_by, reviewed_at, submitted_at`

type PostgresVerificationRepository struct {
	db      database.DB
	timeout time.Duration
}

func NewPostgresVerificationRepository(db database.DB, timeout time.Duration) *PostgresVerificationRepository {
	return &PostgresVerificationRepository{db: db, timeout: timeout}
}

func (r *PostgresVerificationRepository) Create(ctx context.Context, rec verification.Record) (verification.Record, error) {
	ctx, cancel := database.Bounded(ctx, r.timeout)
	defer cancel()

	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	rec.Status = verification.StatusPending
	rec.AdminNotes = nil
	rec.ReviewedBy = nil
	rec.ReviewedAt = nil
	if rec.SubmittedAt.IsZero() {
		rec.SubmittedAt = time.Now().UTC()
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO verifications (id, student_id, user_id, document_type, doc_url, status, submitted_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ID, rec.StudentID, rec.UserID, rec.DocumentType, rec.DocURL, string(rec.Status), rec.SubmittedAt,
	)
	if err != nil {
		return verification.Record{}, err
	}
	return rec, nil
}

func (r *PostgresVerificationRepository) GetByID(ctx context.Context, id uuid.UUID) (verification.Record, error) {
	ctx, cancel := database.Bounded(ctx, r.timeout)
	defer cancel()

	return r.getOne(ctx, r.db, `SELECT `+verificationColumns+` FROM verifications WHERE id = $1`, id)
}

func (r *PostgresVerificationRepository) List(ctx context.Context, status verification.Status) ([]verification.Record, error) {
	if status == "" {
		return r.list(ctx, `SELECT `+verificationColumns+` FROM verifications ORDER BY submitted_at ASC`)
	}
	return r.list(ctx, `SELECT `+verificationColumns+` FROM verifications WHERE status = $1 ORDER BY submitted_at ASC`, string(status))
}

func (r *PostgresVerificationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]verification.Record, error) {
	return r.list(ctx, `SELECT `+verificationColumns+` FROM verifications WHERE user_id = $1 ORDER BY submitted_at ASC`, userID)
}

func (r *PostgresVerificationRepository) Update(ctx context.Context, id uuid.UUID, fn func(*verification.Record) error) (verification.Record, error) {
	ctx, cancel := database.Bounded(ctx, r.timeout)
	defer cancel()

	var out verification.Record
	err := database.WithTx(ctx, r.db, func(tx database.Tx) error {
		cur, err := r.getOne(ctx, tx, `SELECT `+verificationColumns+` FROM verifications WHERE id = $1 FOR UPDATE`, id)
		if err != nil {
			return err
		}
		if err := fn(&cur); err != nil {
			return err
		}
		cur.ID = id

		_, err = tx.Exec(ctx,
			`UPDATE verifications
			 SET status = $2, admin_notes = $3, reviewed_by = $4, reviewed_at = $5
			 WHERE id = $1`,
			cur.ID, string(cur.Status), cur.AdminNotes, cur.ReviewedBy, cur.ReviewedAt,
		)
		if err != nil {
			return err
		}
		out = cur
		return nil
	})
	if err != nil {
		return verification.Record{}, err
	}
	return out, nil
}

func (r *PostgresVerificationRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	ctx, cancel := database.Bounded(ctx, r.timeout)
	defer cancel()

	_, err := r.db.Exec(ctx, `DELETE FROM verifications WHERE user_id = $1`, userID)
	return err
}

func (r *PostgresVerificationRepository) list(ctx context.Context, query string, args ...any) ([]verification.Record, error) {
	ctx, cancel := database.Bounded(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanVerification)
}

func (r *PostgresVerificationRepository) getOne(ctx context.Context, q querier, query string, arg any) (verification.Record, error) {
	rec, err := scanVerification(q.QueryRow(ctx, query, arg))
	if err != nil {
		if isNoRows(err) {
			return verification.Record{}, verification.ErrNotFound
		}
		return verification.Record{}, err
	}
	return rec, nil
}

func scanVerification(s scanner) (verification.Record, error) {
	var rec verification.Record
	var status string
	if err := s.Scan(
		&rec.ID, &rec.StudentID, &rec.UserID, &rec.DocumentType, &rec.DocURL, &status,
		&rec.AdminNotes, &rec.ReviewedBy, &rec.ReviewedAt, &rec.SubmittedAt,
	); err != nil {
		return verification.Record{}, err
	}
	rec.Status = verification.Status(status)
	return rec, nil
}
