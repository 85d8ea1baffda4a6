// Package audio holds the mixer sub-client that rides on an established
// domain connection. The domain manager constructs one client per
// connection lifetime, on the first transition into Connected, and stops
// it on disconnect. Codec and stream internals live below this layer.
package audio

import (
	"errors"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/worldmesh/worldmesh/internal/core/observability/log"
)

// ErrAlreadyStarted is returned when Start is called on a running client.
var ErrAlreadyStarted = errors.New("audio client already started")

// Client is the per-connection audio mixer session.
type Client struct {
	contextID uuid.UUID
	log       log.Log

	running        int32
	framesReceived uint64
}

// NewClient creates an audio client bound to the transport context handle
// of the owning connection session.
func NewClient(contextID uuid.UUID, lg log.Log) *Client {
	return &Client{
		contextID: contextID,
		log:       lg.With(log.String("component", "audio")),
	}
}

// Start activates the mixer session. A client starts at most once.
func (c *Client) Start() error {
	if !atomic.CompareAndSwapInt32(&c.running, 0, 1) {
		return ErrAlreadyStarted
	}
	c.log.Info("audio client started", log.String("context_id", c.contextID.String()))
	return nil
}

// Stop deactivates the mixer session. Safe to call when not running.
func (c *Client) Stop() error {
	if !atomic.CompareAndSwapInt32(&c.running, 1, 0) {
		return nil
	}
	c.log.Info("audio client stopped",
		log.Uint64("frames_received", atomic.LoadUint64(&c.framesReceived)))
	return nil
}

// IngestFrame accepts one mixed audio frame from the transport. Frames
// arriving while stopped are dropped.
func (c *Client) IngestFrame(data []byte) {
	if atomic.LoadInt32(&c.running) == 0 {
		return
	}
	atomic.AddUint64(&c.framesReceived, 1)
	_ = data
}

// ContextID returns the transport context handle this client was built with.
func (c *Client) ContextID() uuid.UUID {
	return c.contextID
}

// IsRunning reports whether the mixer session is active.
func (c *Client) IsRunning() bool {
	return atomic.LoadInt32(&c.running) == 1
}

// FramesReceived reports how many frames have been ingested.
func (c *Client) FramesReceived() uint64 {
	return atomic.LoadUint64(&c.framesReceived)
}
