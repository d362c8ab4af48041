// Package stream owns the single live connection to a room's message
// stream. The controller is a three-state machine (disconnected,
// connecting, connected) driven by identity/room changes and network
// events; every identity or room change is an atomic reset followed by
// at most one new connection attempt.
package stream

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/utkarsh-90/Axum-Chat-Service/client/api"
	"github.com/utkarsh-90/Axum-Chat-Service/client/domain"
)

type Controller struct {
	dialer Dialer
	wsBase string
	notify func()

	mu sync.Mutex
	// attempt tags each connection attempt; events carrying a stale
	// attempt id are ignored so a superseded connection can never touch
	// its successor's state.
	attempt  uint64
	cancel   context.CancelFunc
	conn     Conn
	status   domain.ConnectionStatus
	messages []domain.Message
	errMsg   string

	identity *domain.Identity
	roomID   string
}

// NewController creates a controller for one chat view. notify, if not
// nil, is invoked after every externally visible state change without
// the controller lock held, so the callback may call Snapshot.
func NewController(dialer Dialer, wsBase string, notify func()) *Controller {
	return &Controller{
		dialer: dialer,
		wsBase: wsBase,
		notify: notify,
		status: domain.Disconnected,
	}
}

// Reconcile applies a new (identity, room) pair: tear down whatever
// connection exists, discard the message log, then open a fresh
// connection only when both identity and room are present.
func (c *Controller) Reconcile(identity *domain.Identity, roomID string) {
	c.mu.Lock()
	c.teardownLocked()
	c.identity = identity
	c.roomID = roomID
	attempt := c.attempt
	c.mu.Unlock()
	c.changed()

	if identity == nil || roomID == "" {
		return
	}

	c.mu.Lock()
	if attempt != c.attempt {
		// A later reconcile raced ahead of this one.
		c.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.status = domain.Connecting
	url := api.StreamURL(c.wsBase, roomID, identity.Token)
	c.mu.Unlock()
	c.changed()

	go c.connect(ctx, attempt, url)
}

// Close disposes of the controller, closing any live connection.
func (c *Controller) Close() {
	c.Reconcile(nil, "")
}

// Send transmits one outbound message. It is a silent no-op unless the
// controller is connected; callers gate the UI on status, and a race
// with a close should not surface as an error.
func (c *Controller) Send(content string) {
	c.mu.Lock()
	conn := c.conn
	connected := c.status == domain.Connected
	c.mu.Unlock()

	if !connected || conn == nil {
		return
	}
	if err := conn.WriteJSON(domain.Outgoing{Content: content}); err != nil {
		log.Debug().Err(err).Msg("stream write failed")
	}
}

// Snapshot returns the current message log, status and connectivity
// error for rendering. The returned slice is a copy.
func (c *Controller) Snapshot() ([]domain.Message, domain.ConnectionStatus, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	messages := make([]domain.Message, len(c.messages))
	copy(messages, c.messages)
	return messages, c.status, c.errMsg
}

// teardownLocked is the first half of every reconcile: close the live
// connection, cancel an in-flight dial, bump the attempt counter so any
// late event from the old connection is provably stale, and reset the
// session-scoped log and status.
func (c *Controller) teardownLocked() {
	c.attempt++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.messages = nil
	c.status = domain.Disconnected
	c.errMsg = ""
}

func (c *Controller) connect(ctx context.Context, attempt uint64, url string) {
	conn, err := c.dialer.Dial(ctx, url)
	if err != nil {
		c.handleDialError(attempt)
		return
	}

	c.mu.Lock()
	if attempt != c.attempt {
		// Superseded while dialing; the fresh connection is not ours to keep.
		c.mu.Unlock()
		conn.Close()
		return
	}
	c.conn = conn
	c.mu.Unlock()

	c.handleOpen(attempt)
	c.readLoop(attempt, conn)
}

func (c *Controller) readLoop(attempt uint64, conn Conn) {
	for {
		data, err := conn.ReadMessage()
		if err != nil {
			c.handleClose(attempt, err)
			return
		}
		c.handleFrame(attempt, data)
	}
}

func (c *Controller) handleOpen(attempt uint64) {
	c.mu.Lock()
	if attempt != c.attempt {
		c.mu.Unlock()
		return
	}
	c.status = domain.Connected
	// The log is session-scoped; drop anything buffered while connecting.
	c.messages = nil
	c.errMsg = ""
	c.mu.Unlock()
	c.changed()
}

func (c *Controller) handleFrame(attempt uint64, data []byte) {
	var msg domain.Message
	if err := json.Unmarshal(data, &msg); err != nil {
		// Malformed frames are dropped, never surfaced and never fatal.
		log.Debug().Err(err).Msg("discarding malformed stream frame")
		return
	}

	c.mu.Lock()
	if attempt != c.attempt {
		c.mu.Unlock()
		return
	}
	c.messages = append(c.messages, msg)
	c.mu.Unlock()
	c.changed()
}

func (c *Controller) handleClose(attempt uint64, err error) {
	c.mu.Lock()
	if attempt != c.attempt {
		c.mu.Unlock()
		return
	}
	c.conn = nil
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.status = domain.Disconnected
	c.errMsg = closeReason(err)
	c.mu.Unlock()
	c.changed()
}

func (c *Controller) handleDialError(attempt uint64) {
	c.mu.Lock()
	if attempt != c.attempt {
		c.mu.Unlock()
		return
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.status = domain.Disconnected
	c.errMsg = "connection failed, is the backend running?"
	c.mu.Unlock()
	c.changed()
}

func (c *Controller) changed() {
	if c.notify != nil {
		c.notify()
	}
}
