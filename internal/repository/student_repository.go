package repository

import (
	"context"
	"encoding/json"
	"time"

	"campus-recruit/internal/database"
	"campus-recruit/internal/domain/student"

	"github.com/google/uuid"
)

const studentColumns = `id, user_id, skills, education, resume_url, verified, verification_documents, phone, bio, created_at, updated_at`

type PostgresStudentRepository struct {
	db      database.DB
	timeout time.Duration
}

func NewPostgresStudentRepository(db database.DB, timeout time.Duration) *PostgresStudentRepository {
	return &PostgresStudentRepository{db: db, timeout: timeout}
}

func (r *PostgresStudentRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (student.Profile, error) {
	ctx, cancel := database.Bounded(ctx, r.timeout)
	defer cancel()

	p, err := scanProfile(r.db.QueryRow(ctx, `SELECT `+studentColumns+` FROM student_profiles WHERE user_id = $1`, userID))
	if err != nil {
		if isNoRows(err) {
			return student.Profile{}, student.ErrNotFound
		}
		return student.Profile{}, err
	}
	return p, nil
}

func (r *PostgresStudentRepository) Upsert(ctx context.Context, userID uuid.UUID, fn func(*student.Profile) error) (student.Profile, error) {
	return r.modify(ctx, userID, true, fn)
}

func (r *PostgresStudentRepository) Update(ctx context.Context, userID uuid.UUID, fn func(*student.Profile) error) (student.Profile, error) {
	return r.modify(ctx, userID, false, fn)
}

func (r *PostgresStudentRepository) modify(ctx context.Context, userID uuid.UUID, create bool, fn func(*student.Profile) error) (student.Profile, error) {
	ctx, cancel := database.Bounded(ctx, r.timeout)
	defer cancel()

	var out student.Profile
	err := database.WithTx(ctx, r.db, func(tx database.Tx) error {
		now := time.Now().UTC()

		if create {
			blank := student.New(userID, now)
			// Concurrent first writers race on the unique user_id; the loser's insert is a no-op.
			_, err := tx.Exec(ctx,
				`INSERT INTO student_profiles (id, user_id, created_at, updated_at)
				 VALUES ($1, $2, $3, $3)
				 ON CONFLICT (user_id) DO NOTHING`,
				blank.ID, userID, now,
			)
			if err != nil {
				return err
			}
		}

		cur, err := scanProfile(tx.QueryRow(ctx, `SELECT `+studentColumns+` FROM student_profiles WHERE user_id = $1 FOR UPDATE`, userID))
		if err != nil {
			if isNoRows(err) {
				return student.ErrNotFound
			}
			return err
		}
		if fn != nil {
			if err := fn(&cur); err != nil {
				return err
			}
		}
		cur.UserID = userID
		cur.UpdatedAt = now

		docs, err := json.Marshal(cur.VerificationDocuments)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx,
			`UPDATE student_profiles
			 SET skills = $2, education = $3, resume_url = $4, verified = $5,
			     verification_documents = $6, phone = $7, bio = $8, updated_at = $9
			 WHERE id = $1`,
			cur.ID, nonNilStrings(cur.Skills), nonNilStrings(cur.Education), cur.ResumeURL, cur.Verified,
			docs, cur.Phone, cur.Bio, cur.UpdatedAt,
		)
		if err != nil {
			return err
		}
		out = cur
		return nil
	})
	if err != nil {
		return student.Profile{}, err
	}
	return out, nil
}

func (r *PostgresStudentRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	ctx, cancel := database.Bounded(ctx, r.timeout)
	defer cancel()

	_, err := r.db.Exec(ctx, `DELETE FROM student_profiles WHERE user_id = $1`, userID)
	return err
}

func (r *PostgresStudentRepository) CountVerified(ctx context.Context) (int, error) {
	ctx, cancel := database.Bounded(ctx, r.timeout)
	defer cancel()

	var c int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(1) FROM student_profiles WHERE verified`).Scan(&c); err != nil {
		return 0, err
	}
	return c, nil
}

func scanProfile(s scanner) (student.Profile, error) {
	var p student.Profile
	var docs []byte
	if err := s.Scan(
		&p.ID, &p.UserID, &p.Skills, &p.Education, &p.ResumeURL, &p.Verified,
		&docs, &p.Phone, &p.Bio, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return student.Profile{}, err
	}
	p.VerificationDocuments = []student.Document{}
	if len(docs) > 0 {
		if err := json.Unmarshal(docs, &p.VerificationDocuments); err != nil {
			return student.Profile{}, err
		}
	}
	p.Skills = nonNilStrings(p.Skills)
	p.Education = nonNilStrings(p.Education)
	return p, nil
}
