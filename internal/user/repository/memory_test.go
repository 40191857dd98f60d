package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	models "github.com/flpflJ/crypto-chat/internal/user/model"
)

func TestMemoryUserRepository(t *testing.T) {
	repo := NewMemoryUserRepository()
	ctx := context.Background()

	t.Run("create and fetch", func(t *testing.T) {
		u := &models.User{Username: "alice", Name: "Alice", PasswordHash: "x"}
		require.NoError(t, repo.CreateUser(ctx, u))
		assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", u.ID.String())

		fetched, err := repo.GetUserByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "Alice", fetched.Name)

		_, err = repo.GetUserByUsername(ctx, "nobody")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("exists", func(t *testing.T) {
		exists, err := repo.UsernameExists(ctx, "alice")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.UsernameExists(ctx, "nobody")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("public keys", func(t *testing.T) {
		require.NoError(t, repo.CreateUser(ctx, &models.User{Username: "bob", Name: "Bob", PasswordHash: "x"}))

		require.NoError(t, repo.SetPublicKey(ctx, "alice", "alice-key"))
		assert.ErrorIs(t, repo.SetPublicKey(ctx, "nobody", "k"), ErrUserNotFound)

		keys, err := repo.ListPublicKeys(ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"alice": "alice-key"}, keys)

		// bob has no key yet: nobody is messageable from alice's view
		users, err := repo.ListMessageable(ctx, "alice")
		require.NoError(t, err)
		assert.Empty(t, users)

		require.NoError(t, repo.SetPublicKey(ctx, "bob", "bob-key"))
		users, err = repo.ListMessageable(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, "bob", users[0].Username)
	})
}
