package search

import (
	"sort"
	"strings"
	"time"
)

// Job is the slice of a posting that ranking looks at.
type Job struct {
	OriginalIndex int
	Title         string
	Description   string
	Requirements  []string
	Location      string
	JobType       string
	CreatedAt     time.Time
}

func ComputeRelevance(job Job, queryVariants []string) float64 {
	if len(queryVariants) == 0 {
		return 0
	}

	title := strings.ToLower(job.Title)
	desc := strings.ToLower(job.Description)
	reqs := strings.ToLower(strings.Join(job.Requirements, " "))

	score := 0.0
	for _, v := range queryVariants {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		if title != "" && strings.Contains(title, v) {
			score += 3
		}
		if reqs != "" && strings.Contains(reqs, v) {
			score += 2
		}
		if desc != "" && strings.Contains(desc, v) {
			score += 1
		}
		if score >= 10 {
			return 10
		}
	}
	return score
}

func ComputeFreshness(job Job, now time.Time) float64 {
	if job.CreatedAt.IsZero() {
		return 0
	}

	age := now.Sub(job.CreatedAt)
	if age < 0 {
		age = 0
	}

	switch {
	case age <= 24*time.Hour:
		return 5
	case age <= 3*24*time.Hour:
		return 4
	case age <= 7*24*time.Hour:
		return 3
	case age <= 14*24*time.Hour:
		return 2
	case age <= 30*24*time.Hour:
		return 1
	default:
		return 0
	}
}

func ScoreJob(job Job, queryVariants []string, now time.Time) float64 {
	return ComputeRelevance(job, queryVariants)*2.0 + ComputeFreshness(job, now)*1.5
}

// Matches reports whether any variant occurs in the title, description or
// requirements of job.
func Matches(job Job, queryVariants []string) bool {
	return ComputeRelevance(job, queryVariants) > 0
}

// RankJobs orders jobs by descending score. Ties keep their input order.
func RankJobs(jobs []Job, queryVariants []string, now time.Time) []Job {
	if len(jobs) == 0 {
		return jobs
	}

	type scored struct {
		idx   int
		score float64
	}
	items := make([]scored, len(jobs))
	maxScore := 0.0
	for i := range jobs {
		s := ScoreJob(jobs[i], queryVariants, now)
		items[i] = scored{idx: i, score: s}
		if s > maxScore {
			maxScore = s
		}
	}
	if maxScore == 0 {
		return jobs
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].score > items[j].score
	})

	out := make([]Job, 0, len(jobs))
	for _, it := range items {
		out = append(out, jobs[it.idx])
	}
	return out
}
