package ports

import "github.com/google/uuid"

// Event is one real-time message fanned out to connected clients.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// EventPublisher pushes events to interested parties. Delivery is best
// effort: a publish with no subscribers, or a slow client, never fails the
// operation that triggered it.
type EventPublisher interface {
	// PublishToUser delivers to every connection of one user.
	PublishToUser(userID uuid.UUID, event Event)
	// PublishToProject delivers to every connection subscribed to the
	// project's channel.
	PublishToProject(projectID uuid.UUID, event Event)
}

// EventSink receives a copy of every published event for consumption
// outside the process (message broker mirror). Implementations must not
// block.
type EventSink interface {
	Mirror(channel string, event Event)
}

// NopPublisher discards all events. Used where real-time delivery is not
// wired, such as tests and the maintenance CLI.
type NopPublisher struct{}

func (NopPublisher) PublishToUser(uuid.UUID, Event)    {}
func (NopPublisher) PublishToProject(uuid.UUID, Event) {}
