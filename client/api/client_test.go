package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/utkarsh-90/Axum-Chat-Service/client/api"
	"github.com/utkarsh-90/Axum-Chat-Service/client/domain"
)

var testIdentity = domain.Identity{Token: "tok", UserID: "u1", DisplayName: "alice"}

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["username"] != "alice" || body["password"] != "pw" {
			t.Errorf("unexpected body %v", body)
		}
		json.NewEncoder(w).Encode(map[string]string{
			"token": "tok", "user_id": "u1", "username": "alice",
		})
	}))
	defer srv.Close()

	identity, err := api.NewClient(srv.URL).Login(context.Background(), "alice", "pw")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if identity.Token != "tok" || identity.UserID != "u1" || identity.DisplayName != "alice" {
		t.Errorf("identity = %+v", identity)
	}
}

func TestLoginErrorCarriesBodyText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := api.NewClient(srv.URL).Login(context.Background(), "alice", "wrong")
	var authErr *domain.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("error = %v, want AuthError", err)
	}
	if authErr.Status != http.StatusUnauthorized || authErr.Message != "invalid credentials" {
		t.Errorf("AuthError = %+v", authErr)
	}
}

func TestListRoomsSendsBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q", got)
		}
		json.NewEncoder(w).Encode([]map[string]string{
			{"id": "r1", "name": "general"},
		})
	}))
	defer srv.Close()

	rooms, err := api.NewClient(srv.URL).ListRooms(context.Background(), testIdentity)
	if err != nil {
		t.Fatalf("ListRooms() error = %v", err)
	}
	if len(rooms) != 1 || rooms[0].ID != "r1" {
		t.Errorf("rooms = %+v", rooms)
	}
}

func TestListRoomsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := api.NewClient(srv.URL).ListRooms(context.Background(), testIdentity)
	var fetchErr *domain.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("error = %v, want FetchError", err)
	}
	if fetchErr.Status != http.StatusBadGateway {
		t.Errorf("status = %d", fetchErr.Status)
	}
}

func TestJoinRoom(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/rooms/r1/join" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]string{"id": "r1", "name": "general"})
	}))
	defer srv.Close()

	room, err := api.NewClient(srv.URL).JoinRoom(context.Background(), testIdentity, "r1")
	if err != nil {
		t.Fatalf("JoinRoom() error = %v", err)
	}
	if room.ID != "r1" || room.Name != "general" {
		t.Errorf("room = %+v", room)
	}
}

func TestCreateRoomFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "room name must not be empty", http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := api.NewClient(srv.URL).CreateRoom(context.Background(), testIdentity, "x")
	var createErr *domain.CreateError
	if !errors.As(err, &createErr) {
		t.Fatalf("error = %v, want CreateError", err)
	}
	if createErr.Message != "room name must not be empty" {
		t.Errorf("message = %q", createErr.Message)
	}
}

func TestStreamURL(t *testing.T) {
	got := api.StreamURL("ws://localhost:8080/", "r1", "a b+c")
	want := "ws://localhost:8080/ws/rooms/r1?token=a+b%2Bc"
	if got != want {
		t.Errorf("StreamURL = %q, want %q", got, want)
	}
}
