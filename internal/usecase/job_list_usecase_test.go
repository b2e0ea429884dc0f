package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"campus-recruit/internal/domain/job"
	"campus-recruit/internal/repository/memory"

	"github.com/google/uuid"
)

type fakeCache struct {
	items   map[string][]byte
	deletes int
}

func newFakeCache() *fakeCache {
	return &fakeCache{items: map[string][]byte{}}
}

func (f *fakeCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	b, ok := f.items[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (f *fakeCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.items[key] = b
	return nil
}

func (f *fakeCache) DeleteByPattern(_ context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range f.items {
		if strings.HasPrefix(k, prefix) {
			delete(f.items, k)
		}
	}
	f.deletes++
	return nil
}

type failingJobRepo struct {
	job.Repository
}

func (failingJobRepo) ListActive(context.Context) ([]job.Posting, error) {
	return nil, errors.New("db down")
}

func strPtr(s string) *string { return &s }

func TestJobsListCacheKey_Normalizes(t *testing.T) {
	a := JobsListCacheKey(JobListParams{Search: "  Go  Developer ", Location: "Jakarta"})
	b := JobsListCacheKey(JobListParams{Search: "go developer", Location: "jakarta"})
	if a != b {
		t.Fatalf("expected equal keys, got %q and %q", a, b)
	}
	if !strings.HasPrefix(a, "jobs:list:") {
		t.Fatalf("unexpected key %q", a)
	}
	if a == JobsListCacheKey(JobListParams{}) {
		t.Fatalf("filters must change the key")
	}
}

func TestJobList_ListActive_FiltersAndRanks(t *testing.T) {
	ctx := context.Background()
	jobs := memory.NewJobRepository()
	recruiter := uuid.New()

	_, _ = jobs.Create(ctx, job.Posting{RecruiterID: recruiter, Title: "Sales Intern", Description: "help the team with go-to-market", Location: strPtr("Jakarta")})
	_, _ = jobs.Create(ctx, job.Posting{RecruiterID: recruiter, Title: "Go Backend Intern", Requirements: []string{"Go"}, Location: strPtr("Jakarta"), JobType: strPtr("Internship")})
	_, _ = jobs.Create(ctx, job.Posting{RecruiterID: recruiter, Title: "Go Engineer", Location: strPtr("Bandung")})
	_, _ = jobs.Create(ctx, job.Posting{RecruiterID: recruiter, Title: "Closed Go Role", Status: job.StatusClosed})

	uc := NewJobListUsecase(jobs, nil, 0, nil)

	all, err := uc.ListActive(ctx, JobListParams{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 active postings, got %d", len(all))
	}

	got, err := uc.ListActive(ctx, JobListParams{Search: "go", Location: "jakarta"})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}
	if got[0].Title != "Go Backend Intern" {
		t.Fatalf("expected title match ranked first, got %q", got[0].Title)
	}

	got, _ = uc.ListActive(ctx, JobListParams{JobType: "internship"})
	if len(got) != 1 || got[0].Title != "Go Backend Intern" {
		t.Fatalf("job type filter failed: %+v", got)
	}
}

func TestJobList_CacheHitAndInvalidate(t *testing.T) {
	ctx := context.Background()
	jobs := memory.NewJobRepository()
	cache := newFakeCache()
	uc := NewJobListUsecase(jobs, cache, time.Minute, nil)

	_, _ = jobs.Create(ctx, job.Posting{RecruiterID: uuid.New(), Title: "first"})

	first, err := uc.ListActive(ctx, JobListParams{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("expected 1 posting, got %d", len(first))
	}

	_, _ = jobs.Create(ctx, job.Posting{RecruiterID: uuid.New(), Title: "second"})

	stale, _ := uc.ListActive(ctx, JobListParams{})
	if len(stale) != 1 {
		t.Fatalf("expected cached result, got %d postings", len(stale))
	}

	uc.Invalidate(ctx)
	if cache.deletes != 1 {
		t.Fatalf("expected one invalidation, got %d", cache.deletes)
	}

	fresh, _ := uc.ListActive(ctx, JobListParams{})
	if len(fresh) != 2 {
		t.Fatalf("expected 2 postings after invalidation, got %d", len(fresh))
	}
}

func TestJobList_RepositoryError(t *testing.T) {
	uc := NewJobListUsecase(failingJobRepo{}, newFakeCache(), time.Minute, nil)
	_, err := uc.ListActive(context.Background(), JobListParams{})
	if !errors.Is(err, ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
}
