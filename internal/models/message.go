package models

// Message types recognized by the service. Status messages are
// system-generated presence transitions, never client-authored.
const (
	TypeMessage        = "message"
	TypePrivateMessage = "private_message"
	TypeStatus         = "status"
)

// BroadcastTarget is the distinguished recipient meaning "everyone".
const BroadcastTarget = "Todos"

// Message represents one entry in the room's message log. Seq is the
// insertion-order key; Time is a display string and never used for ordering.
type Message struct {
	ID   string `db:"id" json:"id"`
	Seq  int64  `db:"seq" json:"-"`
	From string `db:"from_name" json:"from"`
	To   string `db:"to_name" json:"to"`
	Text string `db:"text" json:"text"`
	Type string `db:"type" json:"type"`
	Time string `db:"time" json:"time"`
}

// IsClientType reports whether a message type may be supplied by a client.
func IsClientType(t string) bool {
	return t == TypeMessage || t == TypePrivateMessage
}
