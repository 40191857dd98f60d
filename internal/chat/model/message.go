package model

import (
	"time"

	"github.com/google/uuid"
)

// Message is one immutable entry of a conversation log. The ciphertext and
// file metadata are opaque to the server; it stores and relays them unread.
// Seq is assigned by the store and is the authoritative read-back order,
// timestamps are informational only.
type Message struct {
	Seq int64     `bun:",pk,autoincrement" json:"-"`
	ID  uuid.UUID `bun:",notnull,type:uuid" json:"-"`

	ConversationKey string `bun:",notnull" json:"-"`

	From     string         `bun:"sender,notnull" json:"from"`
	Text     string         `bun:",notnull" json:"text"`
	FileInfo map[string]any `bun:",type:jsonb,nullzero" json:"file_info,omitempty"`

	Timestamp time.Time `bun:",notnull" json:"timestamp"`
}
