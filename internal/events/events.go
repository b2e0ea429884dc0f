// Package events describes domain change notifications and fans them out to
// subscribers such as the WebSocket hub and the message broker.
package events

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

const (
	JobCreated            = "job.created"
	JobUpdated            = "job.updated"
	JobDeleted            = "job.deleted"
	VerificationSubmitted = "verification.submitted"
	VerificationReviewed  = "verification.reviewed"
	ApplicationCreated    = "application.created"
	ApplicationUpdated    = "application.updated"
	AccountDeleted        = "account.deleted"
	AccountSuspended      = "account.suspended"
)

type Event struct {
	Type      string         `json:"type"`
	SubjectID string         `json:"subject_id,omitempty"`
	ActorID   string         `json:"actor_id,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

func New(eventType, subjectID, actorID string, data map[string]any) Event {
	return Event{
		Type:      eventType,
		SubjectID: subjectID,
		ActorID:   actorID,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Fanout publishes to every sink and joins their errors.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, evt Event) error {
	var errs []error
	for _, p := range f {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Notifier publishes best-effort: failures are logged, never returned, so a
// broker outage cannot fail a request that already committed.
type Notifier struct {
	pub    Publisher
	logger *zerolog.Logger
}

func NewNotifier(pub Publisher, logger *zerolog.Logger) *Notifier {
	if pub == nil {
		pub = Nop{}
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Notifier{pub: pub, logger: logger}
}

func (n *Notifier) Notify(ctx context.Context, evt Event) {
	if n == nil {
		return
	}
	if err := n.pub.Publish(ctx, evt); err != nil {
		n.logger.Warn().Err(err).Str("event", evt.Type).Msg("event publish failed")
	}
}
