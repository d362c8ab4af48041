package adaptor

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/utkarsh-90/Axum-Chat-Service/server/auth"
	"github.com/utkarsh-90/Axum-Chat-Service/server/domain"
	"github.com/utkarsh-90/Axum-Chat-Service/server/usecase"
)

const (
	writeWait      = 5 * time.Second
	outboundBuffer = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser clients connect from a different origin than the API.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type incomingFrame struct {
	Content string `json:"content"`
}

// roomStreamHandler serves one room's live stream. Browsers cannot set
// an Authorization header on a websocket upgrade, so the token rides in
// a query parameter.
func (a *Adaptor) roomStreamHandler(c *gin.Context) {
	roomID := c.Param("id")
	token := c.Query("token")
	if token == "" {
		c.String(http.StatusUnauthorized, "missing token (use ?token=JWT)")
		return
	}
	claims, err := a.tokens.Validate(token)
	if err != nil {
		c.String(http.StatusUnauthorized, "invalid or expired token")
		return
	}
	if err := a.stream.EnsureAccess(roomID, claims.UserID); err != nil {
		writeError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	sessionID := usecase.NewID()
	out := make(chan domain.StreamMessage, outboundBuffer)
	done := make(chan struct{})

	// The session subscribes before history is replayed so a message
	// broadcast during the replay window is queued rather than lost. The
	// write pump only starts draining the queue after the replay, so
	// history frames still precede live ones on this connection.
	a.stream.Join(sessionID, roomID, claims.Username, out)

	history, err := a.stream.History(roomID)
	if err != nil {
		log.Warn().Err(err).Str("room", roomID).Msg("failed to load history")
	}
	for _, frame := range history {
		if writeFrame(conn, frame) != nil {
			a.stream.Leave(sessionID, roomID, claims.Username)
			conn.Close()
			return
		}
	}

	go a.writePump(conn, out, done)
	a.readPump(conn, roomID, claims, sessionID, done)
}

func (a *Adaptor) writePump(conn *websocket.Conn, out <-chan domain.StreamMessage, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case msg := <-out:
			if err := writeFrame(conn, msg); err != nil {
				log.Debug().Err(err).Msg("stream write failed")
				conn.Close()
				return
			}
		}
	}
}

func (a *Adaptor) readPump(conn *websocket.Conn, roomID string, claims *auth.Claims, sessionID string, done chan<- struct{}) {
	defer func() {
		a.stream.Leave(sessionID, roomID, claims.Username)
		close(done)
		conn.Close()
	}()

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug().Err(err).Str("room", roomID).Msg("websocket closed")
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var frame incomingFrame
		content := string(data)
		// JSON payloads carry {content}; anything unparsable is treated
		// as raw text, matching the lenient server contract.
		if err := json.Unmarshal(data, &frame); err == nil {
			content = frame.Content
		}
		if err := a.stream.HandleChat(roomID, claims.UserID, claims.Username, content); err != nil {
			log.Warn().Err(err).Str("room", roomID).Msg("failed to handle chat message")
		}
	}
}

func writeFrame(conn *websocket.Conn, msg domain.StreamMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}
