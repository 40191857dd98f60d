package chat

import "context"

type ChatUsecase interface {
	// Route persists a message and, when the recipient has a live channel,
	// delivers it immediately. Used by the websocket path where the sender is
	// the channel's bound identity.
	Route(ctx context.Context, sender, recipient, text string, fileInfo map[string]any) (*MessageDTO, error)

	// Send is the request/response submission path: rejects the claimed
	// sender when it differs from the authenticated caller, then routes.
	Send(ctx context.Context, caller string, cmd SendMessageCommand) (*MessageDTO, error)

	// History returns the caller's conversation with withUser in append order.
	History(ctx context.Context, caller, withUser string) ([]MessageDTO, error)
}
