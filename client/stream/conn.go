package stream

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
)

func closeDeadline() time.Time {
	return time.Now().Add(time.Second)
}

// Conn is one live stream connection. Exactly one may exist per
// controller at any time.
type Conn interface {
	ReadMessage() ([]byte, error)
	WriteJSON(v any) error
	Close() error
}

// Dialer opens stream connections. The controller is written against
// this interface so tests can feed synthetic events without a network.
type Dialer interface {
	Dial(ctx context.Context, url string) (Conn, error)
}

// WebsocketDialer is the production dialer.
type WebsocketDialer struct{}

func (WebsocketDialer) Dial(ctx context.Context, url string) (Conn, error) {
	ws, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	return &websocketConn{ws: ws}, nil
}

type websocketConn struct {
	ws *websocket.Conn
}

func (c *websocketConn) ReadMessage() ([]byte, error) {
	for {
		messageType, data, err := c.ws.ReadMessage()
		if err != nil {
			return nil, err
		}
		// Binary frames are not part of the protocol.
		if messageType == websocket.TextMessage {
			return data, nil
		}
	}
}

func (c *websocketConn) WriteJSON(v any) error {
	return c.ws.WriteJSON(v)
}

func (c *websocketConn) Close() error {
	c.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), closeDeadline())
	return c.ws.Close()
}

// closeReason turns a read-loop error into a user-facing connectivity
// message, or "" when the closure was clean. An abnormal closure with no
// close frame usually means the backend went away entirely, which is
// worth saying explicitly.
func closeReason(err error) string {
	if err == nil {
		return ""
	}
	var ce *websocket.CloseError
	if errors.As(err, &ce) {
		switch ce.Code {
		case websocket.CloseNormalClosure, websocket.CloseGoingAway:
			return ""
		case websocket.CloseAbnormalClosure:
			return "connection failed, is the backend running?"
		default:
			if ce.Text != "" {
				return fmt.Sprintf("connection closed (%d: %s)", ce.Code, ce.Text)
			}
			return fmt.Sprintf("connection closed (%d)", ce.Code)
		}
	}
	return "connection error, check that the backend is reachable"
}
