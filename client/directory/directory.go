// Package directory tracks the rooms visible to the current identity and
// which one is selected. The list is append-only from the client's point
// of view: new rooms are appended, none are ever removed locally.
package directory

import (
	"context"
	"net/url"
	"strings"

	"github.com/utkarsh-90/Axum-Chat-Service/client/domain"
)

// RoomService is the slice of the API client the directory needs.
type RoomService interface {
	ListRooms(ctx context.Context, identity domain.Identity) ([]domain.Room, error)
	CreateRoom(ctx context.Context, identity domain.Identity, name string) (domain.Room, error)
}

type Directory struct {
	svc      RoomService
	identity domain.Identity

	rooms     []domain.Room
	selected  string
	requested string
}

func New(svc RoomService, identity domain.Identity) *Directory {
	return &Directory{svc: svc, identity: identity}
}

// RequestRoom records a deep-linked room id to prefer on the next Load.
// It is consumed once.
func (d *Directory) RequestRoom(id string) {
	d.requested = id
}

// ParseRoomFragment extracts a requested room id from a shareable URL
// fragment of the form "room=<id>". Returns "" when absent.
func ParseRoomFragment(fragment string) string {
	values, err := url.ParseQuery(strings.TrimPrefix(fragment, "#"))
	if err != nil {
		return ""
	}
	return values.Get("room")
}

// Load fetches the room list and applies the selection policy: a
// previously requested room id wins if present, else the first room in
// server order, else no selection.
func (d *Directory) Load(ctx context.Context) error {
	rooms, err := d.svc.ListRooms(ctx, d.identity)
	if err != nil {
		return err
	}
	d.rooms = rooms

	requested := d.requested
	d.requested = ""
	switch {
	case requested != "" && d.contains(requested):
		d.selected = requested
	case len(rooms) > 0:
		d.selected = rooms[0].ID
	default:
		d.selected = ""
	}
	return nil
}

// Create asks the server for a new room, appends it locally and switches
// selection to it. Empty or whitespace-only names are rejected without a
// network call.
func (d *Directory) Create(ctx context.Context, name string) (domain.Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Room{}, &domain.CreateError{Message: "room name must not be empty"}
	}
	room, err := d.svc.CreateRoom(ctx, d.identity, name)
	if err != nil {
		return domain.Room{}, err
	}
	d.rooms = append(d.rooms, room)
	d.selected = room.ID
	return room, nil
}

// Select switches the current room. Unknown ids are ignored so a stale
// deep link cannot point the stream at a room the user cannot see.
func (d *Directory) Select(id string) bool {
	if !d.contains(id) {
		return false
	}
	d.selected = id
	return true
}

func (d *Directory) Rooms() []domain.Room { return d.rooms }

func (d *Directory) Selected() string { return d.selected }

func (d *Directory) contains(id string) bool {
	for _, r := range d.rooms {
		if r.ID == id {
			return true
		}
	}
	return false
}
