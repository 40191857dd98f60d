package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/flpflJ/crypto-chat/internal/chat"
	model "github.com/flpflJ/crypto-chat/internal/chat/model"
	"github.com/flpflJ/crypto-chat/internal/chat/registry"
	"github.com/flpflJ/crypto-chat/internal/metrics"
	"github.com/flpflJ/crypto-chat/pkg/errors"
	"github.com/flpflJ/crypto-chat/pkg/logger"
)

// ChatUsecase is the message router: the single point that turns an
// authenticated "send payload to recipient" into a persisted and possibly
// live-delivered message.
type ChatUsecase struct {
	store    chat.MessageRepository
	registry *registry.Registry
	logger   logger.Logger
	metrics  *metrics.Metrics
}

func NewChatUsecase(store chat.MessageRepository, reg *registry.Registry, logger logger.Logger, m *metrics.Metrics) *ChatUsecase {
	return &ChatUsecase{store: store, registry: reg, logger: logger, metrics: m}
}

// Route persists the message unconditionally, then takes one registry
// snapshot and delivers best-effort. The append is the durability guarantee;
// a failed live delivery is logged and degraded to store-only, never
// surfaced to the sender.
func (uc *ChatUsecase) Route(ctx context.Context, sender, recipient, text string, fileInfo map[string]any) (*chat.MessageDTO, error) {
	if recipient == "" {
		return nil, errors.ErrEmptyRecipient
	}
	if text == "" && fileInfo == nil {
		return nil, errors.ErrEmptyMessage
	}

	key := chat.ConversationKey(sender, recipient)
	msg := &model.Message{
		ID:        uuid.New(),
		From:      sender,
		Text:      text,
		FileInfo:  fileInfo,
		Timestamp: time.Now().UTC(),
	}

	if err := uc.store.Append(ctx, key, msg); err != nil {
		uc.logger.Error("failed to append message", "key", key, "err", err)
		return nil, errors.ErrMessageNotStored(err)
	}
	if uc.metrics != nil {
		uc.metrics.MessagesStored.Inc()
	}

	if conn, ok := uc.registry.Lookup(recipient); ok {
		if err := conn.Deliver(*msg); err != nil {
			uc.logger.Warn("live delivery failed, stored only", "to", recipient, "err", err)
			if uc.metrics != nil {
				uc.metrics.DeliveryFailures.Inc()
			}
		} else if uc.metrics != nil {
			uc.metrics.MessagesLive.Inc()
		}
	}

	return &chat.MessageDTO{
		From:      sender,
		To:        recipient,
		Text:      text,
		Timestamp: msg.Timestamp,
		FileInfo:  fileInfo,
	}, nil
}

// Send rejects a claimed sender that differs from the authenticated caller
// before anything is stored.
func (uc *ChatUsecase) Send(ctx context.Context, caller string, cmd chat.SendMessageCommand) (*chat.MessageDTO, error) {
	if cmd.From != caller {
		uc.logger.Warn("sender mismatch", "caller", caller, "claimed", cmd.From)
		return nil, errors.ErrSenderMismatch
	}
	return uc.Route(ctx, caller, cmd.To, cmd.Text, cmd.FileInfo)
}

// History returns the caller's conversation with withUser in append order,
// reconstructing each message's recipient as whichever participant did not
// send it.
func (uc *ChatUsecase) History(ctx context.Context, caller, withUser string) ([]chat.MessageDTO, error) {
	if withUser == "" {
		return nil, errors.ErrEmptyRecipient
	}

	key := chat.ConversationKey(caller, withUser)
	msgs, err := uc.store.History(ctx, key)
	if err != nil {
		uc.logger.Error("failed to read conversation", "key", key, "err", err)
		return nil, errors.Internal("failed to read conversation")
	}

	out := make([]chat.MessageDTO, 0, len(msgs))
	for _, m := range msgs {
		to := withUser
		if m.From == withUser {
			to = caller
		}
		out = append(out, chat.MessageDTO{
			From:      m.From,
			To:        to,
			Text:      m.Text,
			Timestamp: m.Timestamp,
			FileInfo:  m.FileInfo,
		})
	}
	return out, nil
}
