package websocket

import (
	"sync"

	"github.com/google/uuid"

	"taskboard/domain/ports"
	"taskboard/pkg/logger"
)

// Conn is the subset of a websocket connection the hub needs. The real
// *websocket.Conn satisfies it; tests plug in fakes.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Client is one registered connection. A user may hold several clients
// (multiple tabs); each client subscribes to any number of projects.
type Client struct {
	conn     Conn
	userID   uuid.UUID
	writeMu  sync.Mutex
	projects map[uuid.UUID]bool
}

func (c *Client) UserID() uuid.UUID {
	return c.userID
}

// Send writes one event to this connection. Writes are serialized per
// connection.
func (c *Client) Send(event ports.Event) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(event)
}

// Hub routes events to connected clients over two channel kinds: a user
// channel reaching every connection of one user, and a project channel
// reaching every connection subscribed to that project. The hub is
// injected into whoever publishes; there is no package-level instance.
type Hub struct {
	mu        sync.RWMutex
	byUser    map[uuid.UUID]map[*Client]bool
	byProject map[uuid.UUID]map[*Client]bool

	// sink mirrors every published event to an external consumer, when
	// configured.
	sink ports.EventSink
}

func NewHub(sink ports.EventSink) *Hub {
	return &Hub{
		byUser:    make(map[uuid.UUID]map[*Client]bool),
		byProject: make(map[uuid.UUID]map[*Client]bool),
		sink:      sink,
	}
}

var _ ports.EventPublisher = (*Hub)(nil)

// Register adds a connection for the user and returns its client handle.
func (h *Hub) Register(userID uuid.UUID, conn Conn) *Client {
	client := &Client{
		conn:     conn,
		userID:   userID,
		projects: make(map[uuid.UUID]bool),
	}

	h.mu.Lock()
	if h.byUser[userID] == nil {
		h.byUser[userID] = make(map[*Client]bool)
	}
	h.byUser[userID][client] = true
	h.mu.Unlock()

	logger.Debug("websocket client registered", "user_id", userID)
	return client
}

// Unregister drops the client from its user channel and every project
// channel, then closes the connection. Safe to call more than once.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	if set, ok := h.byUser[client.userID]; ok {
		delete(set, client)
		if len(set) == 0 {
			delete(h.byUser, client.userID)
		}
	}
	for projectID := range client.projects {
		h.dropFromProject(client, projectID)
	}
	client.projects = make(map[uuid.UUID]bool)
	h.mu.Unlock()

	_ = client.conn.Close()
	logger.Debug("websocket client unregistered", "user_id", client.userID)
}

// JoinProject subscribes the client to a project channel. Joining twice is
// a no-op.
func (h *Hub) JoinProject(client *Client, projectID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if client.projects[projectID] {
		return
	}
	client.projects[projectID] = true

	if h.byProject[projectID] == nil {
		h.byProject[projectID] = make(map[*Client]bool)
	}
	h.byProject[projectID][client] = true
}

// LeaveProject unsubscribes the client from a project channel. Leaving a
// channel the client never joined is a no-op.
func (h *Hub) LeaveProject(client *Client, projectID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !client.projects[projectID] {
		return
	}
	delete(client.projects, projectID)
	h.dropFromProject(client, projectID)
}

// dropFromProject removes the client from a project set; caller holds the
// lock.
func (h *Hub) dropFromProject(client *Client, projectID uuid.UUID) {
	if set, ok := h.byProject[projectID]; ok {
		delete(set, client)
		if len(set) == 0 {
			delete(h.byProject, projectID)
		}
	}
}

// PublishToUser delivers the event to every connection of the user.
// Publishing to a user with no connections is a no-op.
func (h *Hub) PublishToUser(userID uuid.UUID, event ports.Event) {
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.byUser[userID]))
	for client := range h.byUser[userID] {
		targets = append(targets, client)
	}
	h.mu.RUnlock()

	h.deliver(targets, event)

	if h.sink != nil {
		h.sink.Mirror("user-"+userID.String(), event)
	}
}

// PublishToProject delivers the event to every subscriber of the project
// channel. Publishing to an empty channel is a no-op.
func (h *Hub) PublishToProject(projectID uuid.UUID, event ports.Event) {
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.byProject[projectID]))
	for client := range h.byProject[projectID] {
		targets = append(targets, client)
	}
	h.mu.RUnlock()

	h.deliver(targets, event)

	if h.sink != nil {
		h.sink.Mirror("project-"+projectID.String(), event)
	}
}

// deliver is best effort: a failed write drops that client, the rest
// still receive the event.
func (h *Hub) deliver(targets []*Client, event ports.Event) {
	for _, client := range targets {
		if err := client.Send(event); err != nil {
			logger.Warn("websocket write failed, dropping client",
				"user_id", client.userID,
				"error", err,
			)
			h.Unregister(client)
		}
	}
}

// UserConnections reports how many connections the user currently holds.
func (h *Hub) UserConnections(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.byUser[userID])
}

// ProjectSubscribers reports the subscriber count of a project channel.
func (h *Hub) ProjectSubscribers(projectID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.byProject[projectID])
}
