package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/streadway/amqp"
)

type recorder struct {
	got []Event
	err error
}

func (r *recorder) Publish(_ context.Context, evt Event) error {
	r.got = append(r.got, evt)
	return r.err
}

func TestFanout_PublishesToAllAndJoinsErrors(t *testing.T) {
	boom := errors.New("boom")
	a := &recorder{}
	b := &recorder{err: boom}
	c := &recorder{}

	err := Fanout{a, nil, b, c}.Publish(context.Background(), New(JobCreated, "j1", "r1", nil))
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if len(a.got) != 1 || len(b.got) != 1 || len(c.got) != 1 {
		t.Fatalf("every sink should receive the event")
	}
}

func TestNotifier_SwallowsErrors(t *testing.T) {
	r := &recorder{err: errors.New("down")}
	n := NewNotifier(r, nil)

	n.Notify(context.Background(), New(VerificationReviewed, "v1", "a1", map[string]any{"status": "approved"}))
	if len(r.got) != 1 {
		t.Fatalf("expected publish attempt")
	}

	var nilNotifier *Notifier
	nilNotifier.Notify(context.Background(), Event{})
}

type fakeChannel struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

func (f *fakeChannel) Publish(exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return nil
}

func (f *fakeChannel) Close() error { return nil }

func TestAMQPPublisher_RoutesByType(t *testing.T) {
	ch := &fakeChannel{}
	p := &AMQPPublisher{ch: ch, exchange: "campus.events"}

	evt := New(ApplicationCreated, "app-1", "stu-1", map[string]any{"job_id": "job-1"})
	if err := p.Publish(context.Background(), evt); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if ch.exchange != "campus.events" || ch.key != ApplicationCreated {
		t.Fatalf("unexpected routing %s/%s", ch.exchange, ch.key)
	}
	if ch.msg.ContentType != "application/json" {
		t.Fatalf("unexpected content type %q", ch.msg.ContentType)
	}

	var decoded Event
	if err := json.Unmarshal(ch.msg.Body, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.SubjectID != "app-1" || decoded.Data["job_id"] != "job-1" {
		t.Fatalf("unexpected body %+v", decoded)
	}
}

func TestAMQPPublisher_CanceledContext(t *testing.T) {
	p := &AMQPPublisher{ch: &fakeChannel{}, exchange: "x"}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := p.Publish(ctx, New(JobDeleted, "j", "", nil)); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
