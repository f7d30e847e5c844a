package ws

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"neon-arena/domain/event"
)

// connSink adapts one websocket connection into an event sink. Writes are
// guarded by a mutex because the fanout worker and the read loop's direct
// replies share the connection.
type connSink struct {
	conn         *websocket.Conn
	mu           sync.Mutex
	writeTimeout time.Duration
}

func newConnSink(conn *websocket.Conn, writeTimeout time.Duration) *connSink {
	return &connSink{conn: conn, writeTimeout: writeTimeout}
}

func (s *connSink) send(msg serverMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout)); err != nil {
		return err
	}
	return s.conn.WriteJSON(msg)
}

func (s *connSink) Consume(_ context.Context, e event.DomainEvent) error {
	msg, ok := eventToMessage(e)
	if !ok {
		return nil
	}
	return s.send(msg)
}
