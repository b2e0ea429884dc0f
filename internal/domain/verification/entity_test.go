package verification

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestRecord_Review(t *testing.T) {
	reviewer := uuid.New()
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	cases := []struct {
		name     string
		from     Status
		decision Status
		wantErr  error
	}{
		{name: "approve pending", from: StatusPending, decision: StatusApproved},
		{name: "reject pending", from: StatusPending, decision: StatusRejected},
		{name: "back to pending", from: StatusApproved, decision: StatusPending, wantErr: ErrInvalidStatus},
		{name: "pending to pending", from: StatusPending, decision: StatusPending, wantErr: ErrInvalidStatus},
		{name: "approve rejected", from: StatusRejected, decision: StatusApproved, wantErr: ErrAlreadyReviewed},
		{name: "reject approved", from: StatusApproved, decision: StatusRejected, wantErr: ErrAlreadyReviewed},
		{name: "unknown value", from: StatusPending, decision: Status("archived"), wantErr: ErrInvalidStatus},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := Record{ID: uuid.New(), Status: tc.from}
			err := r.Review(tc.decision, nil, reviewer, now)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				if r.Status != tc.from {
					t.Fatalf("status changed on failed review: %s", r.Status)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if r.Status != tc.decision {
				t.Fatalf("expected %s, got %s", tc.decision, r.Status)
			}
			if r.ReviewedBy == nil || *r.ReviewedBy != reviewer {
				t.Fatalf("reviewer not recorded")
			}
			if r.ReviewedAt == nil || !r.ReviewedAt.Equal(now) {
				t.Fatalf("review time not recorded")
			}
		})
	}
}
