package chat

import "time"

// Message senders. Exactly three variants exist.
const (
	SenderUser   = "user"
	SenderAI     = "ai"
	SenderSystem = "system"
)

// Message is a single transcript entry. Transcripts are append-only; a
// message is never mutated or removed once appended.
type Message struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}
