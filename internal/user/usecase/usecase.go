package usecase

import (
	"context"
	"regexp"

	"github.com/flpflJ/crypto-chat/config"
	"github.com/flpflJ/crypto-chat/internal/user"
	models "github.com/flpflJ/crypto-chat/internal/user/model"
	"github.com/flpflJ/crypto-chat/internal/user/repository"
	"github.com/flpflJ/crypto-chat/pkg/errors"
	"github.com/flpflJ/crypto-chat/pkg/logger"
	"github.com/flpflJ/crypto-chat/pkg/utils"
)

type UserUsecase struct {
	repo   user.UserRepository
	logger logger.Logger
	config config.Config
}

func NewUserUsecase(repo user.UserRepository, logger logger.Logger, config config.Config) *UserUsecase {
	return &UserUsecase{repo: repo, logger: logger, config: config}
}

// Username charset deliberately excludes '-', the conversation key separator.
var usernameRegex = regexp.MustCompile(`^[a-z0-9_]{3,32}$`)

func validateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return errors.ErrInvalidUsername
	}
	return nil
}

func (uc *UserUsecase) Register(ctx context.Context, cmd user.RegisterCommand) (*user.UserDTO, error) {
	if err := validateUsername(cmd.Login); err != nil {
		return nil, err
	}
	if cmd.Name == "" {
		return nil, errors.InvalidArg("display name is required")
	}
	if cmd.Password == "" {
		return nil, errors.InvalidArg("password is required")
	}

	if exists, err := uc.repo.UsernameExists(ctx, cmd.Login); err != nil {
		uc.logger.Error("database error checking username", "err", err)
		return nil, errors.Internal("internal server error")
	} else if exists {
		return nil, errors.ErrUsernameTaken
	}

	hash, err := utils.HashPassword(cmd.Password)
	if err != nil {
		uc.logger.Error("failed to hash password", "err", err)
		return nil, errors.Internal("internal server error")
	}

	u := &models.User{
		Username:     cmd.Login,
		Name:         cmd.Name,
		PasswordHash: hash,
	}
	if err := uc.repo.CreateUser(ctx, u); err != nil {
		uc.logger.Errorf("error while saving user in db: %v", err)
		return nil, errors.ErrRegistrationFailed(errors.Internal("database error"))
	}

	return &user.UserDTO{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
	}, nil
}

func (uc *UserUsecase) Login(ctx context.Context, cmd user.LoginCommand) (*user.LoginResponse, error) {
	u, err := uc.repo.GetUserByUsername(ctx, cmd.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.ErrInvalidLogin
		}
		uc.logger.Error("database error fetching user", "username", cmd.Username, "err", err)
		return nil, errors.Internal("internal server error")
	}

	if !utils.CheckPassword(u.PasswordHash, cmd.Password) {
		uc.logger.Warn("failed login attempt", "username", cmd.Username)
		return nil, errors.ErrInvalidLogin
	}

	token, err := utils.GenerateJWTToken(u.Username, uc.config)
	if err != nil {
		uc.logger.Error("failed to issue token", "err", err)
		return nil, errors.Internal("error while creating token")
	}

	return &user.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		Username:    u.Username,
	}, nil
}

func (uc *UserUsecase) SavePublicKey(ctx context.Context, caller string, cmd user.SavePublicKeyCommand) error {
	if cmd.Username != caller {
		return errors.ErrPubKeyOwnership
	}
	if cmd.PubKey == "" {
		return errors.InvalidArg("pubkey is required")
	}

	if err := uc.repo.SetPublicKey(ctx, caller, cmd.PubKey); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return errors.ErrUserNotFound
		}
		uc.logger.Error("failed to store public key", "username", caller, "err", err)
		return errors.Internal("failed to store public key")
	}
	return nil
}

func (uc *UserUsecase) PublicKeys(ctx context.Context) (map[string]string, error) {
	keys, err := uc.repo.ListPublicKeys(ctx)
	if err != nil {
		uc.logger.Error("failed to list public keys", "err", err)
		return nil, errors.Internal("failed to list public keys")
	}
	return keys, nil
}

func (uc *UserUsecase) ListContacts(ctx context.Context, caller string) ([]*user.ContactDTO, error) {
	users, err := uc.repo.ListMessageable(ctx, caller)
	if err != nil {
		uc.logger.Error("failed to list users", "err", err)
		return nil, errors.Internal("failed to list users")
	}

	contacts := make([]*user.ContactDTO, 0, len(users))
	for _, u := range users {
		contacts = append(contacts, &user.ContactDTO{Username: u.Username, Name: u.Name})
	}
	return contacts, nil
}
