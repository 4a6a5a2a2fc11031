package messaging

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"taskboard/domain/ports"
	"taskboard/pkg/logger"
)

// SubjectPrefix roots every mirrored board event subject. The websocket
// channel name becomes the subject suffix, with the channel's "-"
// separator mapped to ".": user-<id> becomes board.events.user.<id>.
const SubjectPrefix = "board.events"

// NATSEventSink mirrors hub events onto NATS core subjects so other
// processes (exporters, audit consumers) can observe board activity
// without a websocket connection. Publishing is fire and forget.
type NATSEventSink struct {
	conn *nats.Conn
}

func NewNATSEventSink(url string) (*NATSEventSink, error) {
	nc, err := nats.Connect(url,
		nats.Name("taskboard-event-mirror"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("NATS disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	logger.Info("NATS event sink initialized", "url", url)
	return &NATSEventSink{conn: nc}, nil
}

var _ ports.EventSink = (*NATSEventSink)(nil)

func (s *NATSEventSink) Mirror(channel string, event ports.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		logger.Warn("failed to marshal mirrored event", "channel", channel, "error", err)
		return
	}

	subject := SubjectPrefix + "." + strings.Replace(channel, "-", ".", 1)
	if err := s.conn.Publish(subject, data); err != nil {
		logger.Warn("failed to mirror event", "subject", subject, "error", err)
	}
}

func (s *NATSEventSink) Close() {
	// Flush what we can before dropping the connection.
	_ = s.conn.FlushTimeout(2 * time.Second)
	s.conn.Close()
}
