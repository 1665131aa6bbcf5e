package models

// Participant represents one active chat session, keyed by display name.
type Participant struct {
	Name          string `db:"name" json:"name"`
	LastHeartbeat int64  `db:"last_heartbeat" json:"lastStatus"`
}
