package domain

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worldmesh/worldmesh/internal/core/config"
	"github.com/worldmesh/worldmesh/internal/core/observability/log"
	"github.com/worldmesh/worldmesh/internal/core/session"
)

// fakeSession drives scripted state transitions through the manager's
// callback, standing in for a real transport.
type fakeSession struct {
	mu           sync.Mutex
	state        session.ConnectionState
	onState      func(session.ConnectionState, string)
	onEntity     func([]byte)
	contextID    uuid.UUID
	connectCalls int
	disconnected bool
}

func newFakeSession() *fakeSession {
	return &fakeSession{state: session.StateDisconnected, contextID: uuid.New()}
}

func (f *fakeSession) Connect(ctx context.Context, url string) error {
	f.mu.Lock()
	f.connectCalls++
	f.mu.Unlock()
	return nil
}

func (f *fakeSession) Disconnect() error {
	f.mu.Lock()
	f.disconnected = true
	f.mu.Unlock()
	f.transition(session.StateDisconnected, "client disconnect")
	return nil
}

func (f *fakeSession) State() session.ConnectionState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *fakeSession) OnStateChange(fn func(session.ConnectionState, string)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onState = fn
}

func (f *fakeSession) OnEntityData(fn func([]byte)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onEntity = fn
}

func (f *fakeSession) ContextID() uuid.UUID { return f.contextID }

// transition reports a raw state change the way a transport would.
func (f *fakeSession) transition(st session.ConnectionState, info string) {
	f.mu.Lock()
	f.state = st
	fn := f.onState
	f.mu.Unlock()
	if fn != nil {
		fn(st, info)
	}
}

func newTestManager(t *testing.T) (*Manager, *fakeSession) {
	t.Helper()
	store, err := config.Open("")
	require.NoError(t, err)

	m := NewManager(store, log.New(log.LevelError))
	fake := newFakeSession()
	m.newSession = func(url string) (session.Session, error) { return fake, nil }
	return m, fake
}

func TestNormalizeURL(t *testing.T) {
	m, _ := newTestManager(t)

	cases := []struct {
		in   string
		want string
	}{
		{"http://example.com", "wss://example.com:40102"},
		{"https://example.com:400", "wss://example.com:400"},
		{"example.com", "wss://example.com:40102"},
		{"EXAMPLE.com", "wss://example.com:40102"},
		{"wss://example.com:40102", "wss://example.com:40102"},
		{"ws://example.com", "ws://example.com:40102"},
	}
	for _, tc := range cases {
		got := m.NormalizeURL(tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
		// Normalization is idempotent.
		assert.Equal(t, got, m.NormalizeURL(got), "re-normalizing %q", got)
	}
}

func TestConnectPersistsURL(t *testing.T) {
	m, _ := newTestManager(t)

	require.NoError(t, m.Connect("example.com"))

	assert.Equal(t, "wss://example.com:40102", m.URL())
	v, err := m.store.GetItem(config.KeyDomainURL)
	require.NoError(t, err)
	assert.Equal(t, "wss://example.com:40102", v)
}

func TestConnectTwiceFails(t *testing.T) {
	m, fake := newTestManager(t)

	require.NoError(t, m.Connect("example.com"))
	err := m.Connect("other.example.com")
	assert.ErrorIs(t, err, ErrAlreadyConnected)

	// The existing session is untouched.
	assert.Equal(t, 1, fake.connectCalls)
	assert.False(t, fake.disconnected)
	assert.Equal(t, "wss://example.com:40102", m.URL())
}

func TestStateSignalOrder(t *testing.T) {
	m, fake := newTestManager(t)

	var states []string
	m.OnStateChange().Connect(func(ch StateChange) {
		assert.Same(t, m, ch.Manager)
		states = append(states, ch.State)
	})

	require.NoError(t, m.Connect("example.com"))

	fake.transition(session.StateDisconnected, "initial")
	fake.transition(session.StateConnecting, "dialing")
	fake.transition(session.StateConnected, "established")
	require.NoError(t, m.Disconnect())

	assert.Equal(t, []string{"Disconnected", "Connecting", "Connected", "Disconnected"}, states)
}

func TestAudioCreatedOnFirstConnectedOnly(t *testing.T) {
	m, fake := newTestManager(t)
	require.NoError(t, m.Connect("example.com"))

	assert.Nil(t, m.Audio())

	fake.transition(session.StateConnecting, "dialing")
	assert.Nil(t, m.Audio())

	fake.transition(session.StateConnected, "established")
	first := m.Audio()
	require.NotNil(t, first)
	assert.True(t, first.IsRunning())
	assert.Equal(t, fake.ContextID(), first.ContextID())

	// A second Connected transition within the same session lifetime must
	// not replace the audio client.
	fake.transition(session.StateError, "blip")
	fake.transition(session.StateConnected, "recovered")
	assert.Same(t, first, m.Audio())

	require.NoError(t, m.Disconnect())
	assert.Nil(t, m.Audio())
	assert.False(t, first.IsRunning())
}

func TestDisconnectWithoutSession(t *testing.T) {
	m, _ := newTestManager(t)
	assert.NoError(t, m.Disconnect())
	assert.Equal(t, session.StateDisconnected, m.State())
}

func TestStateReflectsSession(t *testing.T) {
	m, fake := newTestManager(t)

	assert.Equal(t, "Disconnected", m.StateString())
	assert.False(t, m.IsConnected())

	require.NoError(t, m.Connect("example.com"))
	fake.transition(session.StateConnected, "established")

	assert.True(t, m.IsConnected())
	assert.Equal(t, "Connected", m.StateString())

	require.NoError(t, m.Disconnect())
	assert.False(t, m.IsConnected())
	assert.Equal(t, session.StateDisconnected, m.State())
}

func TestMetaverseURL(t *testing.T) {
	m, _ := newTestManager(t)
	assert.Equal(t, "https://metaverse.worldmesh.io/live", m.MetaverseURL())
}

func TestRestoresPersistedURL(t *testing.T) {
	store, err := config.Open("")
	require.NoError(t, err)
	require.NoError(t, store.SetItem(config.KeyDomainURL, "wss://saved.example.com:40102"))

	m := NewManager(store, log.New(log.LevelError))
	assert.Equal(t, "wss://saved.example.com:40102", m.URL())
}

func TestEntityDataForwarded(t *testing.T) {
	m, fake := newTestManager(t)

	var got []byte
	m.OnEntityData(func(data []byte) { got = data })

	require.NoError(t, m.Connect("example.com"))
	require.NotNil(t, fake.onEntity)

	fake.onEntity([]byte("frame"))
	assert.Equal(t, []byte("frame"), got)
}
