package user

import (
	"context"

	models "github.com/flpflJ/crypto-chat/internal/user/model"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)

	// SetPublicKey overwrites the stored key; only the usecase enforces ownership.
	SetPublicKey(ctx context.Context, username string, pubkey string) error
	ListPublicKeys(ctx context.Context) (map[string]string, error)

	// ListMessageable returns users that own a public key, excluding the caller.
	ListMessageable(ctx context.Context, excludeUsername string) ([]*models.User, error)
}
