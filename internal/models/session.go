package models

import "time"

// Session holds the opaque markers written at login and cleared at logout.
// Their contents are owned by the authentication subsystem; this layer
// only stores and forwards them.
type Session struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	OwnerName string    `json:"owner_name"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
}
