package domain

import "fmt"

// AuthError is returned when the credential service rejects a login or
// register attempt. It carries the server-provided message so the auth
// form can show it inline.
type AuthError struct {
	Status  int
	Message string
}

func (e *AuthError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("authentication failed: %d", e.Status)
}

// FetchError is returned when listing rooms fails.
type FetchError struct {
	Status int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to load rooms: %d", e.Status)
}

// CreateError is returned when room creation fails server-side.
type CreateError struct {
	Status  int
	Message string
}

func (e *CreateError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("failed to create room: %d", e.Status)
}
