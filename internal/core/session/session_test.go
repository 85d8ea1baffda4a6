package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/worldmesh/worldmesh/internal/core/observability/log"
)

func TestStateString(t *testing.T) {
	cases := map[ConnectionState]string{
		StateDisconnected:   "Disconnected",
		StateConnecting:     "Connecting",
		StateConnected:      "Connected",
		StateRefused:        "Refused",
		StateError:          "Error",
		ConnectionState(42): "Unknown",
	}
	for state, want := range cases {
		assert.Equal(t, want, state.String())
	}
}

func TestFactorySchemes(t *testing.T) {
	lg := log.New(log.LevelError)

	s, err := New("wss://example.com:40102", DefaultConfig(), lg)
	require.NoError(t, err)
	assert.IsType(t, &WebSocketSession{}, s)

	s, err = New("ws://example.com:40102", DefaultConfig(), lg)
	require.NoError(t, err)
	assert.IsType(t, &WebSocketSession{}, s)

	s, err = New("quic://example.com:40102", DefaultConfig(), lg)
	require.NoError(t, err)
	assert.IsType(t, &QUICSession{}, s)

	_, err = New("ftp://example.com", DefaultConfig(), lg)
	assert.ErrorIs(t, err, ErrUnsupportedScheme)
}
