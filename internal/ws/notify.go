package ws

import (
	"context"
	"encoding/json"

	"campus-recruit/internal/events"
)

// Publish forwards evt to every connected client, making the hub an
// events.Publisher.
func (h *Hub) Publish(ctx context.Context, evt events.Event) error {
	if h == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	h.Broadcast(b)
	return nil
}
