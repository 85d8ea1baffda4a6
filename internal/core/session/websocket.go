package session

import (
	"context"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/worldmesh/worldmesh/internal/core/observability/log"
)

var _ Session = (*WebSocketSession)(nil)

// WebSocketSession is the websocket transport behind the Session contract.
type WebSocketSession struct {
	contextID uuid.UUID
	config    Config
	log       log.Log

	mu       sync.Mutex
	conn     *websocket.Conn
	state    ConnectionState
	onState  func(ConnectionState, string)
	onEntity func([]byte)
	group    *errgroup.Group

	dialed int32
	closed int32
}

// NewWebSocketSession creates a session in the Disconnected state.
func NewWebSocketSession(cfg Config, lg log.Log) *WebSocketSession {
	return &WebSocketSession{
		contextID: uuid.New(),
		config:    cfg,
		log:       lg.With(log.String("component", "ws-session")),
		state:     StateDisconnected,
	}
}

// Connect issues the dial and returns. The outcome arrives through the
// state-change callback.
func (s *WebSocketSession) Connect(ctx context.Context, url string) error {
	if atomic.LoadInt32(&s.closed) == 1 {
		return ErrSessionClosed
	}
	if !atomic.CompareAndSwapInt32(&s.dialed, 0, 1) {
		return ErrAlreadyConnecting
	}

	s.setState(StateConnecting, "dialing "+url)
	go s.dial(ctx, url)
	return nil
}

func (s *WebSocketSession) dial(ctx context.Context, url string) {
	dialer := websocket.Dialer{HandshakeTimeout: s.config.DialTimeout}

	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		if atomic.LoadInt32(&s.closed) == 1 {
			return
		}
		if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, websocket.ErrBadHandshake) {
			s.setState(StateRefused, err.Error())
		} else {
			s.setState(StateError, err.Error())
		}
		return
	}

	// Disconnect may have raced the dial; the link is already dead.
	if atomic.LoadInt32(&s.closed) == 1 {
		_ = conn.Close()
		return
	}

	if s.config.MaxMessageSize > 0 {
		conn.SetReadLimit(s.config.MaxMessageSize)
	}

	group := &errgroup.Group{}
	s.mu.Lock()
	s.conn = conn
	s.group = group
	s.mu.Unlock()

	s.setState(StateConnected, conn.RemoteAddr().String())

	group.Go(func() error { return s.readPump(conn) })
}

// readPump delivers entity frames until the link drops.
func (s *WebSocketSession) readPump(conn *websocket.Conn) error {
	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if atomic.LoadInt32(&s.closed) == 1 {
				return nil
			}
			wrapped := errors.Wrap(err, "read frame")
			s.setState(StateError, wrapped.Error())
			return wrapped
		}

		if messageType != websocket.TextMessage && messageType != websocket.BinaryMessage {
			continue
		}

		s.mu.Lock()
		fn := s.onEntity
		s.mu.Unlock()
		if fn != nil {
			fn(data)
		}
	}
}

// Disconnect closes the link and reports Disconnected. Calling it on a
// session that never connected is a no-op beyond the state report.
func (s *WebSocketSession) Disconnect() error {
	if !atomic.CompareAndSwapInt32(&s.closed, 0, 1) {
		return nil
	}

	s.mu.Lock()
	conn := s.conn
	group := s.group
	s.conn = nil
	s.mu.Unlock()

	if conn != nil {
		deadline := s.config.WriteTimeout
		if deadline <= 0 {
			deadline = time.Second
		}
		closeMessage := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "client disconnect")
		_ = conn.WriteControl(websocket.CloseMessage, closeMessage, time.Now().Add(deadline))
		_ = conn.Close()
	}
	if group != nil {
		_ = group.Wait()
	}

	s.setState(StateDisconnected, "client disconnect")
	return nil
}

func (s *WebSocketSession) State() ConnectionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *WebSocketSession) OnStateChange(fn func(ConnectionState, string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onState = fn
}

func (s *WebSocketSession) OnEntityData(fn func([]byte)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onEntity = fn
}

func (s *WebSocketSession) ContextID() uuid.UUID {
	return s.contextID
}

// setState records a transition and fires the callback inline. Repeated
// reports of the same state are collapsed so the callback sees exactly one
// invocation per transition.
func (s *WebSocketSession) setState(next ConnectionState, info string) {
	s.mu.Lock()
	if s.state == next {
		s.mu.Unlock()
		return
	}
	s.state = next
	fn := s.onState
	s.mu.Unlock()

	s.log.Debug("session state changed",
		log.String("state", next.String()),
		log.String("info", info))

	if fn != nil {
		fn(next, info)
	}
}
