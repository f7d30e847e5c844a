package domain

import "github.com/google/uuid"

// Settlement is the handoff payload for the external stake settlement
// collaborator. Key is generated once per terminal session so retries of
// the same outcome stay idempotent on the receiving side.
type Settlement struct {
	Key     uuid.UUID
	Session SessionID
	Winner  PlayerID
	Loser   PlayerID
}
