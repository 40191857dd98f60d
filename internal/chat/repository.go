package chat

import (
	"context"

	model "github.com/flpflJ/crypto-chat/internal/chat/model"
)

// MessageRepository is the append-only conversation store. A conversation log
// comes into existence with its first append; History on an unknown key
// returns an empty slice, not an error.
type MessageRepository interface {
	// Append adds msg to the end of the log for key. A message counts as
	// sent only after Append returns nil.
	Append(ctx context.Context, key string, msg *model.Message) error

	// History returns the full log for key in append order.
	History(ctx context.Context, key string) ([]model.Message, error)
}
