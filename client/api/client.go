// Package api is the HTTP face of the chat service: credential calls,
// room calls and the websocket URL scheme. The presentation layer never
// uses it directly; session and directory wrap it.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/utkarsh-90/Axum-Chat-Service/client/domain"
)

const requestTimeout = 10 * time.Second

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: requestTimeout},
	}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// Login exchanges credentials for an Identity. Non-2xx responses become
// a domain.AuthError carrying the response body text.
func (c *Client) Login(ctx context.Context, username, password string) (domain.Identity, error) {
	return c.authenticate(ctx, "/api/auth/login", username, password)
}

// Register creates an account and returns the issued Identity.
func (c *Client) Register(ctx context.Context, username, password string) (domain.Identity, error) {
	return c.authenticate(ctx, "/api/auth/register", username, password)
}

func (c *Client) authenticate(ctx context.Context, path, username, password string) (domain.Identity, error) {
	body, err := json.Marshal(credentialsRequest{Username: username, Password: password})
	if err != nil {
		return domain.Identity{}, fmt.Errorf("failed to encode credentials: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return domain.Identity{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return domain.Identity{}, &domain.AuthError{Message: "credential service unreachable"}
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return domain.Identity{}, &domain.AuthError{Status: res.StatusCode, Message: readErrorBody(res.Body)}
	}

	var lr loginResponse
	if err := json.NewDecoder(res.Body).Decode(&lr); err != nil {
		return domain.Identity{}, &domain.AuthError{Message: "malformed credential response"}
	}
	return domain.Identity{Token: lr.Token, UserID: lr.UserID, DisplayName: lr.Username}, nil
}

// ListRooms fetches the rooms visible to the given identity.
func (c *Client) ListRooms(ctx context.Context, identity domain.Identity) ([]domain.Room, error) {
	res, err := c.authorized(ctx, http.MethodGet, "/api/rooms", nil, identity.Token)
	if err != nil {
		return nil, &domain.FetchError{}
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &domain.FetchError{Status: res.StatusCode}
	}
	var rooms []domain.Room
	if err := json.NewDecoder(res.Body).Decode(&rooms); err != nil {
		return nil, &domain.FetchError{Status: res.StatusCode}
	}
	return rooms, nil
}

// CreateRoom asks the server for a new room.
func (c *Client) CreateRoom(ctx context.Context, identity domain.Identity, name string) (domain.Room, error) {
	body, _ := json.Marshal(map[string]string{"name": name})
	res, err := c.authorized(ctx, http.MethodPost, "/api/rooms", bytes.NewReader(body), identity.Token)
	if err != nil {
		return domain.Room{}, &domain.CreateError{Message: "room service unreachable"}
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return domain.Room{}, &domain.CreateError{Status: res.StatusCode, Message: readErrorBody(res.Body)}
	}
	var room domain.Room
	if err := json.NewDecoder(res.Body).Decode(&room); err != nil {
		return domain.Room{}, &domain.CreateError{Status: res.StatusCode, Message: "malformed room response"}
	}
	return room, nil
}

// JoinRoom marks the identity as a member of the room and returns it.
func (c *Client) JoinRoom(ctx context.Context, identity domain.Identity, roomID string) (domain.Room, error) {
	res, err := c.authorized(ctx, http.MethodPost, "/api/rooms/"+roomID+"/join", nil, identity.Token)
	if err != nil {
		return domain.Room{}, &domain.FetchError{}
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return domain.Room{}, &domain.FetchError{Status: res.StatusCode}
	}
	var room domain.Room
	if err := json.NewDecoder(res.Body).Decode(&room); err != nil {
		return domain.Room{}, &domain.FetchError{Status: res.StatusCode}
	}
	return room, nil
}

func (c *Client) authorized(ctx context.Context, method, path string, body io.Reader, token string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return c.http.Do(req)
}

// StreamURL builds the websocket address for one room's stream. The token
// rides in a query parameter because browsers cannot set headers on
// websocket upgrades, and the server keeps that contract for all clients.
func StreamURL(wsBase, roomID, token string) string {
	return fmt.Sprintf("%s/ws/rooms/%s?token=%s",
		strings.TrimRight(wsBase, "/"), roomID, url.QueryEscape(token))
}

func readErrorBody(r io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}
