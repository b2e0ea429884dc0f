package repository

import (
	"context"
	"time"

	"campus-recruit/internal/database"
	"campus-recruit/internal/domain/job"

	"github.com/google/uuid"
)

const jobColumns = `id, recruiter_id, title, description, requirements, location, job_type, salary, applicants::text[], status, created_at, updated_at`

type PostgresJobRepository struct {
	db      database.DB
	timeout time.Duration
}

func NewPostgresJobRepository(db database.DB, timeout time.Duration) *PostgresJobRepository {
	return &PostgresJobRepository{db: db, timeout: timeout}
}

func (r *PostgresJobRepository) Create(ctx context.Context, p job.Posting) (job.Posting, error) {
	ctx, cancel := database.Bounded(ctx, r.timeout)
	defer cancel()

	now := time.Now().UTC()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = job.StatusActive
	}
	if p.Requirements == nil {
		p.Requirements = []string{}
	}
	if p.Applicants == nil {
		p.Applicants = []uuid.UUID{}
	}
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := r.db.Exec(ctx,
		`INSERT INTO job_postings (id, recruiter_id, title, description, requirements, location, job_type, salary, applicants, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::uuid[], $10, $11, $12)`,
		p.ID, p.RecruiterID, p.Title, p.Description, p.Requirements, p.Location, p.JobType, p.Salary,
		uuidStrings(p.Applicants), string(p.Status), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return job.Posting{}, err
	}
	return p, nil
}

func (r *PostgresJobRepository) GetByID(ctx context.Context, id uuid.UUID) (job.Posting, error) {
	ctx, cancel := database.Bounded(ctx, r.timeout)
	defer cancel()

	return r.getOne(ctx, r.db, `SELECT `+jobColumns+` FROM job_postings WHERE id = $1`, id)
}

func (r *PostgresJobRepository) ListActive(ctx context.Context) ([]job.Posting, error) {
	return r.list(ctx, `SELECT `+jobColumns+` FROM job_postings WHERE status = $1 ORDER BY created_at DESC`, string(job.StatusActive))
}

func (r *PostgresJobRepository) ListByRecruiter(ctx context.Context, recruiterID uuid.UUID) ([]job.Posting, error) {
	return r.list(ctx, `SELECT `+jobColumns+` FROM job_postings WHERE recruiter_id = $1 ORDER BY created_at DESC`, recruiterID)
}

func (r *PostgresJobRepository) ListAll(ctx context.Context) ([]job.Posting, error) {
	return r.list(ctx, `SELECT `+jobColumns+` FROM job_postings ORDER BY created_at DESC`)
}

func (r *PostgresJobRepository) Update(ctx context.Context, id uuid.UUID, fn func(*job.Posting) error) (job.Posting, error) {
	ctx, cancel := database.Bounded(ctx, r.timeout)
	defer cancel()

	var out job.Posting
	err := database.WithTx(ctx, r.db, func(tx database.Tx) error {
		cur, err := r.getOne(ctx, tx, `SELECT `+jobColumns+` FROM job_postings WHERE id = $1 FOR UPDATE`, id)
		if err != nil {
			return err
		}
		if err := fn(&cur); err != nil {
			return err
		}
		cur.ID = id
		cur.UpdatedAt = time.Now().UTC()

		_, err = tx.Exec(ctx,
			`UPDATE job_postings
			 SET title = $2, description = $3, requirements = $4, location = $5, job_type = $6,
			     salary = $7, applicants = $8::uuid[], status = $9, updated_at = $10
			 WHERE id = $1`,
			cur.ID, cur.Title, cur.Description, nonNilStrings(cur.Requirements), cur.Location, cur.JobType,
			cur.Salary, uuidStrings(cur.Applicants), string(cur.Status), cur.UpdatedAt,
		)
		if err != nil {
			return err
		}
		out = cur
		return nil
	})
	if err != nil {
		return job.Posting{}, err
	}
	return out, nil
}

func (r *PostgresJobRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := database.Bounded(ctx, r.timeout)
	defer cancel()

	n, err := r.db.Exec(ctx, `DELETE FROM job_postings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return job.ErrNotFound
	}
	return nil
}

func (r *PostgresJobRepository) DeleteByRecruiter(ctx context.Context, recruiterID uuid.UUID) ([]uuid.UUID, error) {
	ctx, cancel := database.Bounded(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.Query(ctx, `DELETE FROM job_postings WHERE recruiter_id = $1 RETURNING id`, recruiterID)
	if err != nil {
		return nil, err
	}
	return collect(rows, func(s scanner) (uuid.UUID, error) {
		var id uuid.UUID
		err := s.Scan(&id)
		return id, err
	})
}

func (r *PostgresJobRepository) RemoveApplicant(ctx context.Context, studentID uuid.UUID) error {
	ctx, cancel := database.Bounded(ctx, r.timeout)
	defer cancel()

	_, err := r.db.Exec(ctx,
		`UPDATE job_postings
		 SET applicants = array_remove(applicants, $1::uuid), updated_at = now()
		 WHERE $1::uuid = ANY(applicants)`,
		studentID.String(),
	)
	return err
}

func (r *PostgresJobRepository) list(ctx context.Context, query string, args ...any) ([]job.Posting, error) {
	ctx, cancel := database.Bounded(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanPosting)
}

func (r *PostgresJobRepository) getOne(ctx context.Context, q querier, query string, arg any) (job.Posting, error) {
	p, err := scanPosting(q.QueryRow(ctx, query, arg))
	if err != nil {
		if isNoRows(err) {
			return job.Posting{}, job.ErrNotFound
		}
		return job.Posting{}, err
	}
	return p, nil
}

func scanPosting(s scanner) (job.Posting, error) {
	var p job.Posting
	var status string
	var applicants []string
	if err := s.Scan(
		&p.ID, &p.RecruiterID, &p.Title, &p.Description, &p.Requirements,
		&p.Location, &p.JobType, &p.Salary, &applicants, &status, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return job.Posting{}, err
	}
	ids, err := parseUUIDs(applicants)
	if err != nil {
		return job.Posting{}, err
	}
	p.Applicants = ids
	p.Requirements = nonNilStrings(p.Requirements)
	p.Status = job.Status(status)
	return p, nil
}
