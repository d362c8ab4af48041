package domain

// Identity is the authenticated user's credential and profile data held
// client-side. It is immutable once issued: login, register and restore
// replace it wholesale, logout discards it.
type Identity struct {
	Token       string `json:"token"`
	UserID      string `json:"user_id"`
	DisplayName string `json:"username"`
}

func (i Identity) Valid() bool {
	return i.Token != ""
}
