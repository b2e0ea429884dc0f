package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"campus-recruit/internal/domain/job"
	"campus-recruit/internal/search"

	"github.com/rs/zerolog"
)

var ErrInternal = errors.New("internal error")

// JobListParams narrows the public listing. Empty fields do not filter.
type JobListParams struct {
	Search   string
	Location string
	JobType  string
}

type JobListUsecase interface {
	ListActive(ctx context.Context, params JobListParams) ([]job.Posting, error)
}

// JobListInvalidator drops cached listings after a posting changes.
type JobListInvalidator interface {
	Invalidate(ctx context.Context)
}

type JobList struct {
	jobs   job.Repository
	cache  SearchCache
	ttl    time.Duration
	logger *zerolog.Logger
	now    func() time.Time
}

func NewJobListUsecase(jobs job.Repository, cache SearchCache, ttl time.Duration, logger *zerolog.Logger) *JobList {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &JobList{
		jobs:   jobs,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// ListActive returns active postings matching params. Results are served from
// the cache when present; a cache failure falls through to the repository.
func (u *JobList) ListActive(ctx context.Context, params JobListParams) ([]job.Posting, error) {
	key := JobsListCacheKey(params)

	if u.cache != nil {
		var cached []job.Posting
		hit, err := u.cache.GetJSON(ctx, key, &cached)
		if err == nil && hit {
			u.logger.Debug().Str("key", key).Msg("jobs cache hit")
			return cached, nil
		}
		u.logger.Debug().Str("key", key).Msg("jobs cache miss")
	}

	postings, err := u.jobs.ListActive(ctx)
	if err != nil {
		return nil, ErrInternal
	}

	out := u.filter(postings, params)

	if u.cache != nil {
		if err := u.cache.SetJSON(ctx, key, out, u.ttl); err != nil {
			u.logger.Warn().Err(err).Str("key", key).Msg("jobs cache set failed")
		}
	}
	return out, nil
}

func (u *JobList) Invalidate(ctx context.Context) {
	if u == nil || u.cache == nil {
		return
	}
	if err := u.cache.DeleteByPattern(ctx, JobsListCachePattern); err != nil {
		u.logger.Warn().Err(err).Msg("jobs cache invalidation failed")
	}
}

func (u *JobList) filter(postings []job.Posting, params JobListParams) []job.Posting {
	location := normalizeSearchValue(params.Location)
	jobType := normalizeSearchValue(params.JobType)
	qctx := search.ProcessQuery(params.Search)

	candidates := make([]search.Job, 0, len(postings))
	for i, p := range postings {
		if location != "" && !strings.Contains(normalizeSearchValue(deref(p.Location)), location) {
			continue
		}
		if jobType != "" && normalizeSearchValue(deref(p.JobType)) != jobType {
			continue
		}
		sj := search.Job{
			OriginalIndex: i,
			Title:         p.Title,
			Description:   p.Description,
			Requirements:  p.Requirements,
			CreatedAt:     p.CreatedAt,
		}
		if qctx.Normalized != "" && !search.Matches(sj, qctx.Variants) {
			continue
		}
		candidates = append(candidates, sj)
	}

	if qctx.Normalized != "" {
		candidates = search.RankJobs(candidates, qctx.Variants, u.now())
	}

	out := make([]job.Posting, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, postings[c.OriginalIndex])
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
