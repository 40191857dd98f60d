package repository

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"

	models "github.com/flpflJ/crypto-chat/internal/user/model"
	"github.com/flpflJ/crypto-chat/pkg/logger"
)

type UserRepository struct {
	db     *bun.DB
	logger *logger.Logger
}

var ErrUserNotFound = errors.New("user not found")

func NewUserRepository(db *bun.DB, logger logger.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: &logger,
	}
}

func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) error {

	_, err := r.db.NewInsert().Model(user).Returning("*").Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "userRepo.CreateUser.InsertUser: ")
	}
	return nil
}

func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {

	user := new(models.User)
	err := r.db.NewSelect().Model(user).Where("username = ?", username).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Wrap(err, "userRepo.GetUserByUsername.Scan: ")
	}
	return user, nil
}

func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {

	exists, err := r.db.NewSelect().
		Model((*models.User)(nil)).
		Where("username = ?", username).
		Exists(ctx)
	if err != nil {
		return false, errors.Wrap(err, "userRepo.UsernameExists.Exists: ")
	}
	return exists, nil
}

func (r *UserRepository) SetPublicKey(ctx context.Context, username string, pubkey string) error {

	res, err := r.db.NewUpdate().
		Model((*models.User)(nil)).
		Set("public_key = ?", pubkey).
		Set("updated_at = current_timestamp").
		Where("username = ?", username).
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "userRepo.SetPublicKey.Update: ")
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "userRepo.SetPublicKey.RowsAffected: ")
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) ListPublicKeys(ctx context.Context) (map[string]string, error) {

	var users []models.User
	err := r.db.NewSelect().
		Model(&users).
		Column("username", "public_key").
		Where("public_key IS NOT NULL AND public_key != ''").
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "userRepo.ListPublicKeys.Scan: ")
	}

	keys := make(map[string]string, len(users))
	for _, u := range users {
		keys[u.Username] = u.PublicKey
	}
	return keys, nil
}

func (r *UserRepository) ListMessageable(ctx context.Context, excludeUsername string) ([]*models.User, error) {

	var users []*models.User
	err := r.db.NewSelect().
		Model(&users).
		Where("public_key IS NOT NULL AND public_key != ''").
		Where("username != ?", excludeUsername).
		Order("username ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "userRepo.ListMessageable.Scan: ")
	}
	return users, nil
}
