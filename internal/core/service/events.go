package service

import (
	"context"
	"log"
	"time"

	"github.com/rl1809/cims/internal/port"
)

const (
	entityUser        = "user"
	entityActivityLog = "activity_log"
	entityCategory    = "category"
	entityItem        = "item"
	entityOrder       = "order"
	entityOrderItem   = "order_item"
)

// notifier announces committed mutations. Publishing never fails the
// operation that triggered it.
type notifier struct {
	events port.EventPublisher
}

func newNotifier(events port.EventPublisher) notifier {
	if events == nil {
		events = port.NopPublisher{}
	}
	return notifier{events: events}
}

func (n notifier) notify(ctx context.Context, entity, id string, action port.ChangeAction) {
	event := port.ChangeEvent{Entity: entity, ID: id, Action: action}
	if err := n.events.Publish(ctx, event); err != nil {
		log.Printf("publish %s %s %s: %v", entity, action, id, err)
	}
}

// now is truncated to the microsecond precision timestamps are stored with.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
