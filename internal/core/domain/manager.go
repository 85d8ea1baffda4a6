// Package domain owns the lifecycle of a client's connection to a domain
// server: connect, state tracking, state-change fan-out, persisted URL
// recovery, and the dependent audio session that spins up once the
// transport is usable.
package domain

import (
	"context"
	"regexp"
	"strings"
	"sync"

	"github.com/worldmesh/worldmesh/internal/core/audio"
	"github.com/worldmesh/worldmesh/internal/core/config"
	"github.com/worldmesh/worldmesh/internal/core/observability/log"
	"github.com/worldmesh/worldmesh/internal/core/session"
	"github.com/worldmesh/worldmesh/internal/core/signal"
)

// StateChange is the payload published on every raw transport transition.
type StateChange struct {
	Manager *Manager
	State   string
	Info    string
}

// Manager owns at most one connection session and republishes its raw
// state transitions. The manager never invents a state of its own; every
// published change originates from the session callback.
type Manager struct {
	store         *config.Store
	log           log.Log
	sessionConfig session.Config

	mu          sync.Mutex
	url         string
	sess        session.Session
	audioClient *audio.Client
	onEntity    func([]byte)

	stateChanged *signal.Signal[StateChange]

	// newSession builds the transport for a normalized URL. Overridable
	// in tests.
	newSession func(url string) (session.Session, error)
}

// NewManager creates a manager and immediately restores the persisted
// domain URL from the store.
func NewManager(store *config.Store, lg log.Log) *Manager {
	m := &Manager{
		store:         store,
		log:           lg.With(log.String("component", "domain")),
		sessionConfig: session.DefaultConfig(),
		stateChanged:  signal.New[StateChange](),
	}
	m.url = store.GetItemDefault(config.KeyDomainURL, config.UnknownValue)
	m.newSession = func(url string) (session.Session, error) {
		return session.New(url, m.sessionConfig, m.log)
	}
	return m
}

// Connect normalizes rawURL, persists it, opens a connection session and
// issues its asynchronous connect. It returns once the connect has been
// issued; establishment is reported through OnStateChange. Connecting
// while a session is live is a usage error.
func (m *Manager) Connect(rawURL string) error {
	normalized := m.NormalizeURL(rawURL)

	m.mu.Lock()
	if m.sess != nil {
		m.mu.Unlock()
		return ErrAlreadyConnected
	}
	if err := m.store.SetItem(config.KeyDomainURL, normalized); err != nil {
		m.mu.Unlock()
		return err
	}
	m.url = normalized

	s, err := m.newSession(normalized)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	s.OnStateChange(func(st session.ConnectionState, info string) {
		m.handleStateChange(s, st, info)
	})
	if m.onEntity != nil {
		s.OnEntityData(m.onEntity)
	}
	m.sess = s
	m.mu.Unlock()

	m.log.Info("connecting to domain", log.String("url", normalized))

	// The session fires Connecting synchronously; the manager must not
	// hold its lock here.
	if err = s.Connect(context.Background(), normalized); err != nil {
		m.mu.Lock()
		if m.sess == s {
			m.sess = nil
		}
		m.mu.Unlock()
		return err
	}
	return nil
}

// Disconnect tears down the connection session and the audio client.
// Calling it with no live session is a no-op.
func (m *Manager) Disconnect() error {
	m.mu.Lock()
	s := m.sess
	a := m.audioClient
	m.sess = nil
	m.audioClient = nil
	m.mu.Unlock()

	if s == nil {
		return nil
	}
	if a != nil {
		_ = a.Stop()
	}

	err := s.Disconnect()
	m.log.Info("disconnected from domain", log.String("url", m.URL()))
	return err
}

// OnStateChange exposes the signal fired exactly once per observed raw
// transport transition, in transport order.
func (m *Manager) OnStateChange() *signal.Signal[StateChange] {
	return m.stateChanged
}

// OnEntityData registers the consumer for entity frames arriving over the
// current and any future session.
func (m *Manager) OnEntityData(fn func(data []byte)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onEntity = fn
	if m.sess != nil {
		m.sess.OnEntityData(fn)
	}
}

// URL returns the current normalized domain URL, or the UNKNOWN sentinel
// when none was ever set.
func (m *Manager) URL() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.url
}

// MetaverseURL returns the configured default metaverse service URL. No
// network call is involved.
func (m *Manager) MetaverseURL() string {
	return m.store.GetItemDefault(config.KeyMetaverseURL, "")
}

// State reflects the live session's raw state, or Disconnected when no
// session exists.
func (m *Manager) State() session.ConnectionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sess == nil {
		return session.StateDisconnected
	}
	return m.sess.State()
}

// StateString returns the display form of State.
func (m *Manager) StateString() string {
	return m.State().String()
}

// IsConnected reports whether the live session is Connected.
func (m *Manager) IsConnected() bool {
	return m.State() == session.StateConnected
}

// Audio returns the audio client for the current session, or nil before
// the first Connected transition.
func (m *Manager) Audio() *audio.Client {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.audioClient
}

// handleStateChange runs inside the session's state callback. On the first
// Connected transition of the current session it constructs the audio
// client from the session's context handle; every transition is then
// republished synchronously.
func (m *Manager) handleStateChange(s session.Session, st session.ConnectionState, info string) {
	if st == session.StateConnected {
		m.mu.Lock()
		if m.audioClient == nil && m.sess == s {
			m.audioClient = audio.NewClient(s.ContextID(), m.log)
			_ = m.audioClient.Start()
		}
		m.mu.Unlock()
	}

	m.log.Debug("domain state changed",
		log.String("state", st.String()),
		log.String("info", info))

	m.stateChanged.Emit(StateChange{Manager: m, State: st.String(), Info: info})
}

var trailingPort = regexp.MustCompile(`:\d+$`)

// NormalizeURL maps whatever the user typed to a websocket-style
// host[:port] address: lowercase, strip an http(s) scheme, prepend the
// configured default protocol when no transport scheme remains, append
// the configured default port when none is present. Idempotent.
func (m *Manager) NormalizeURL(raw string) string {
	u := strings.ToLower(strings.TrimSpace(raw))
	u = strings.TrimPrefix(u, "http://")
	u = strings.TrimPrefix(u, "https://")

	if !hasTransportScheme(u) {
		u = m.store.GetItemDefault(config.KeyDefaultProtocol, "wss://") + u
	}
	if !trailingPort.MatchString(u) {
		u += ":" + m.store.GetItemDefault(config.KeyDefaultPort, "40102")
	}
	return u
}

func hasTransportScheme(u string) bool {
	return strings.HasPrefix(u, "ws://") ||
		strings.HasPrefix(u, "wss://") ||
		strings.HasPrefix(u, "quic://")
}
