package port

import "context"

type ChangeAction string

const (
	ChangeCreated ChangeAction = "created"
	ChangeUpdated ChangeAction = "updated"
	ChangeDeleted ChangeAction = "deleted"
)

// ChangeEvent announces a committed mutation of one entity.
type ChangeEvent struct {
	Entity string       `json:"entity"`
	ID     string       `json:"id"`
	Action ChangeAction `json:"action"`
}

type EventPublisher interface {
	// Publish is best effort; callers log the error and carry on.
	Publish(ctx context.Context, event ChangeEvent) error
}

// NopPublisher discards every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ChangeEvent) error { return nil }
