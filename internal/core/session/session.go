// Package session wraps the wire-level link to a domain server. A Session
// owns framing and transport and reports its raw state through a single
// settable callback; establishment is always asynchronous.
package session

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/worldmesh/worldmesh/internal/core/observability/log"
)

// Session is the transport contract consumed by the domain connection
// manager. Connect returns once the dial has been issued; the outcome is
// reported through the state-change callback. Callbacks must be registered
// before Connect.
type Session interface {
	// Connect issues the asynchronous dial. The session moves to
	// Connecting immediately and to Connected, Refused or Error once the
	// dial resolves.
	Connect(ctx context.Context, url string) error
	// Disconnect tears the link down. Safe to call at any point in the
	// lifecycle; a session cannot be reused afterwards.
	Disconnect() error
	// State reports the current raw transport state.
	State() ConnectionState
	// OnStateChange sets the single state-change callback. The info string
	// carries transport detail (peer address, error text).
	OnStateChange(fn func(state ConnectionState, info string))
	// OnEntityData sets the callback invoked with each entity frame the
	// server delivers.
	OnEntityData(fn func(data []byte))
	// ContextID is the opaque handle dependent sub-clients (audio) are
	// constructed with.
	ContextID() uuid.UUID
}

// Config holds transport tuning shared by all session implementations.
type Config struct {
	DialTimeout    time.Duration
	WriteTimeout   time.Duration
	MaxMessageSize int64
}

// DefaultConfig returns the transport defaults.
func DefaultConfig() Config {
	return Config{
		DialTimeout:    30 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxMessageSize: 1024 * 1024, // 1MB
	}
}

// New selects a session implementation by URL scheme.
func New(url string, cfg Config, lg log.Log) (Session, error) {
	switch {
	case strings.HasPrefix(url, "ws://"), strings.HasPrefix(url, "wss://"):
		return NewWebSocketSession(cfg, lg), nil
	case strings.HasPrefix(url, "quic://"):
		return NewQUICSession(cfg, lg), nil
	default:
		return nil, ErrUnsupportedScheme
	}
}
