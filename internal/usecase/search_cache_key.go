package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
)

const (
	jobsListKeyPrefix = "jobs:list:"

	// JobsListCachePattern matches every cached public job list.
	JobsListCachePattern = jobsListKeyPrefix + "*"
)

type jobListCacheKeyInput struct {
	Search   string `json:"search"`
	Location string `json:"location"`
	JobType  string `json:"job_type"`
}

func normalizeSearchValue(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	s = strings.Join(strings.Fields(s), " ")
	return s
}

func JobsListCacheKey(params JobListParams) string {
	in := jobListCacheKeyInput{
		Search:   normalizeSearchValue(params.Search),
		Location: normalizeSearchValue(params.Location),
		JobType:  normalizeSearchValue(params.JobType),
	}

	b, _ := json.Marshal(in)
	sum := sha256.Sum256(b)
	return jobsListKeyPrefix + hex.EncodeToString(sum[:])
}
