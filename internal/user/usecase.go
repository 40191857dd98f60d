package user

import "context"

type UserUsecase interface {
	// Register a new identity with display name + login + password
	Register(ctx context.Context, cmd RegisterCommand) (*UserDTO, error)

	// Login verifies credentials and issues a bearer token
	Login(ctx context.Context, cmd LoginCommand) (*LoginResponse, error)

	// SavePublicKey stores the caller's key; rejects writes to other identities
	SavePublicKey(ctx context.Context, caller string, cmd SavePublicKeyCommand) error

	PublicKeys(ctx context.Context) (map[string]string, error)

	// ListContacts returns messageable identities (key uploaded), caller excluded
	ListContacts(ctx context.Context, caller string) ([]*ContactDTO, error)
}
