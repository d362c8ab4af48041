package adaptor_test

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	_ "github.com/mattn/go-sqlite3"

	"github.com/utkarsh-90/Axum-Chat-Service/server/adaptor"
	"github.com/utkarsh-90/Axum-Chat-Service/server/auth"
	"github.com/utkarsh-90/Axum-Chat-Service/server/domain"
	"github.com/utkarsh-90/Axum-Chat-Service/server/repository"
	"github.com/utkarsh-90/Axum-Chat-Service/server/usecase"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	if err := repository.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	tokens := auth.NewJWTManager(auth.JWTConfig{
		SecretKey:     "test-secret",
		TokenDuration: time.Hour,
		Issuer:        "chat-test",
	})
	repo := repository.NewRepository(db)
	hub := domain.NewHub()
	ad := adaptor.NewAdaptor(
		usecase.NewAuthUsecase(repo, tokens),
		usecase.NewRoomUsecase(repo),
		usecase.NewStreamUsecase(repo, hub),
		tokens,
	)

	r := gin.New()
	ad.Register(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

type loginResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

func register(t *testing.T, srv *httptest.Server, username string) loginResponse {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"username": username, "password": "pw"})
	res, err := http.Post(srv.URL+"/api/auth/register", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("register request failed: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("register status = %d", res.StatusCode)
	}
	var lr loginResponse
	if err := json.NewDecoder(res.Body).Decode(&lr); err != nil {
		t.Fatalf("register decode failed: %v", err)
	}
	return lr
}

func createRoom(t *testing.T, srv *httptest.Server, token, name string) domain.Room {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"name": name})
	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/api/rooms", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("create room request failed: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("create room status = %d", res.StatusCode)
	}
	var room domain.Room
	if err := json.NewDecoder(res.Body).Decode(&room); err != nil {
		t.Fatalf("create room decode failed: %v", err)
	}
	return room
}

func TestAuthAndRoomFlow(t *testing.T) {
	srv := newTestServer(t)

	lr := register(t, srv, "alice")
	if lr.Token == "" || lr.Username != "alice" {
		t.Fatalf("register response = %+v", lr)
	}

	// Listing without a token is rejected.
	res, err := http.Get(srv.URL + "/api/rooms")
	if err != nil {
		t.Fatalf("list request failed: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusUnauthorized {
		t.Errorf("unauthenticated list status = %d, want 401", res.StatusCode)
	}

	room := createRoom(t, srv, lr.Token, "general")
	if room.Name != "general" || room.OwnerUserID != lr.UserID {
		t.Errorf("room = %+v", room)
	}

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/rooms", nil)
	req.Header.Set("Authorization", "Bearer "+lr.Token)
	res, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("list request failed: %v", err)
	}
	defer res.Body.Close()
	var rooms []domain.Room
	if err := json.NewDecoder(res.Body).Decode(&rooms); err != nil {
		t.Fatalf("list decode failed: %v", err)
	}
	if len(rooms) != 1 || rooms[0].ID != room.ID {
		t.Errorf("rooms = %+v", rooms)
	}
}

func TestCreateRoomRejectsBlankName(t *testing.T) {
	srv := newTestServer(t)
	lr := register(t, srv, "alice")

	body, _ := json.Marshal(map[string]string{"name": "   "})
	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/api/rooms", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+lr.Token)
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("create room request failed: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", res.StatusCode)
	}
}

func wsURL(srv *httptest.Server, roomID, token string) string {
	return fmt.Sprintf("%s/ws/rooms/%s?token=%s",
		strings.Replace(srv.URL, "http://", "ws://", 1), roomID, token)
}

func readFrame(t *testing.T, conn *websocket.Conn) domain.StreamMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}
	var msg domain.StreamMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("frame is not a message: %v (%s)", err, data)
	}
	return msg
}

func TestStreamDeliversHistoryThenLive(t *testing.T) {
	srv := newTestServer(t)
	lr := register(t, srv, "alice")
	room := createRoom(t, srv, lr.Token, "general")

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, room.ID, lr.Token), nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	// First frame is our own join announcement; no history exists yet.
	frame := readFrame(t, conn)
	if frame.Kind != domain.KindSystem || frame.Content != "joined the room" {
		t.Fatalf("first frame = %+v", frame)
	}

	if err := conn.WriteJSON(map[string]string{"content": "hi"}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	frame = readFrame(t, conn)
	if frame.Kind != domain.KindMessage || frame.Content != "hi" || frame.Username != "alice" {
		t.Fatalf("live frame = %+v", frame)
	}
	conn.Close()

	// A second connection replays the stored message as history.
	conn2, _, err := websocket.DefaultDialer.Dial(wsURL(srv, room.ID, lr.Token), nil)
	if err != nil {
		t.Fatalf("second dial failed: %v", err)
	}
	defer conn2.Close()

	frame = readFrame(t, conn2)
	if frame.Kind != domain.KindHistory || frame.Content != "hi" {
		t.Fatalf("history frame = %+v", frame)
	}
}

func TestStreamRejectsBadToken(t *testing.T) {
	srv := newTestServer(t)
	lr := register(t, srv, "alice")
	room := createRoom(t, srv, lr.Token, "general")

	if _, res, err := websocket.DefaultDialer.Dial(wsURL(srv, room.ID, "bogus"), nil); err == nil {
		t.Error("dial with bogus token succeeded")
	} else if res != nil && res.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", res.StatusCode)
	}

	if _, res, err := websocket.DefaultDialer.Dial(wsURL(srv, "missing-room", lr.Token), nil); err == nil {
		t.Error("dial to missing room succeeded")
	} else if res != nil && res.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", res.StatusCode)
	}
}

func TestStreamOpenToNonOwner(t *testing.T) {
	srv := newTestServer(t)
	owner := register(t, srv, "alice")
	visitor := register(t, srv, "bob")
	room := createRoom(t, srv, owner.Token, "general")

	// A listed room is open to any authenticated user; no explicit join
	// call is required before connecting.
	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, room.ID, visitor.Token), nil)
	if err != nil {
		t.Fatalf("dial as non-owner failed: %v", err)
	}
	defer conn.Close()

	frame := readFrame(t, conn)
	if frame.Kind != domain.KindSystem || frame.Content != "joined the room" || frame.Username != "bob" {
		t.Fatalf("first frame = %+v", frame)
	}

	if err := conn.WriteJSON(map[string]string{"content": "hello from bob"}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	frame = readFrame(t, conn)
	if frame.Kind != domain.KindMessage || frame.Content != "hello from bob" || frame.Username != "bob" {
		t.Fatalf("live frame = %+v", frame)
	}
}

func TestStreamDeliversMessagesSentDuringReplay(t *testing.T) {
	srv := newTestServer(t)
	alice := register(t, srv, "alice")
	bob := register(t, srv, "bob")
	room := createRoom(t, srv, alice.Token, "general")

	sender, _, err := websocket.DefaultDialer.Dial(wsURL(srv, room.ID, alice.Token), nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer sender.Close()
	readFrame(t, sender) // own join announcement

	want := make(map[string]bool)
	for i := 0; i < 5; i++ {
		content := fmt.Sprintf("seed %d", i)
		want[content] = true
		if err := sender.WriteJSON(map[string]string{"content": content}); err != nil {
			t.Fatalf("seed write failed: %v", err)
		}
		readFrame(t, sender)
	}

	// Keep sending while the second connection replays the backlog; a
	// message broadcast in that window must arrive as history or live,
	// never vanish.
	sent := make(chan struct{})
	go func() {
		defer close(sent)
		for i := 0; i < 10; i++ {
			content := fmt.Sprintf("burst %d", i)
			if err := sender.WriteJSON(map[string]string{"content": content}); err != nil {
				return
			}
		}
	}()
	for i := 0; i < 10; i++ {
		want[fmt.Sprintf("burst %d", i)] = true
	}

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, room.ID, bob.Token), nil)
	if err != nil {
		t.Fatalf("second dial failed: %v", err)
	}
	defer conn.Close()
	<-sent

	for len(want) > 0 {
		frame := readFrame(t, conn)
		if frame.Kind == domain.KindSystem {
			continue
		}
		delete(want, frame.Content)
	}
}
