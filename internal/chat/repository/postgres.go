package repository

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"

	model "github.com/flpflJ/crypto-chat/internal/chat/model"
	"github.com/flpflJ/crypto-chat/pkg/logger"
)

// MessageRepository is the durable conversation store. Read-back order is the
// insertion sequence (seq), not the message timestamp.
type MessageRepository struct {
	db     *bun.DB
	logger *logger.Logger
}

func NewMessageRepository(db *bun.DB, logger logger.Logger) *MessageRepository {
	return &MessageRepository{
		db:     db,
		logger: &logger,
	}
}

func (r *MessageRepository) Append(ctx context.Context, key string, msg *model.Message) error {

	msg.ConversationKey = key
	_, err := r.db.NewInsert().Model(msg).Returning("*").Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "chatRepo.Append.InsertMessage: ")
	}
	return nil
}

func (r *MessageRepository) History(ctx context.Context, key string) ([]model.Message, error) {

	msgs := make([]model.Message, 0)
	err := r.db.NewSelect().
		Model(&msgs).
		Where("conversation_key = ?", key).
		Order("seq ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "chatRepo.History.Scan: ")
	}
	return msgs, nil
}
