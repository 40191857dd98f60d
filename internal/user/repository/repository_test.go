package repository

import (
	"context"
	"database/sql"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	models "github.com/flpflJ/crypto-chat/internal/user/model"
	"github.com/flpflJ/crypto-chat/pkg/logger"
)

var testDB *bun.DB

func TestMain(m *testing.M) {
	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("cryptochat"),
		postgres.WithUsername("cryptochat"),
		postgres.WithPassword("password"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		log.Printf("failed to start container: %s", err)
		return
	}

	defer func() {
		if err := postgresContainer.Terminate(ctx); err != nil {
			log.Printf("failed to terminate container: %s", err)
		}
	}()

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable", "application_name=test")
	if err != nil {
		log.Printf("failed to get connection string, %v", err)
		return
	}

	connector := pgdriver.NewConnector(pgdriver.WithDSN(connStr))
	sqlDB := sql.OpenDB(connector)
	testDB = bun.NewDB(sqlDB, pgdialect.New())

	if err := sqlDB.PingContext(ctx); err != nil {
		log.Fatalf("failed to ping db: %v", err)
	}

	if _, err := testDB.NewCreateTable().Model((*models.User)(nil)).IfNotExists().Exec(ctx); err != nil {
		testDB.Close()
		log.Fatalf("failed to create users table: %v", err)
	}

	code := m.Run()

	testDB.Close()

	os.Exit(code)
}

func cleanupUsers(t *testing.T) {
	t.Cleanup(func() {
		_, err := testDB.ExecContext(context.Background(), `TRUNCATE TABLE users RESTART IDENTITY CASCADE`)
		require.NoError(t, err)
	})
}

func Test_CreateUser(t *testing.T) {
	cleanupUsers(t)

	user := models.User{Username: "alice", Name: "Alice", PasswordHash: "x"}
	repo := NewUserRepository(testDB, logger.Logger{})

	err := repo.CreateUser(context.Background(), &user)
	require.NoError(t, err)
	assert.NotEqual(t, user.ID.String(), "00000000-0000-0000-0000-000000000000")
}

func Test_GetUserByUsername(t *testing.T) {
	cleanupUsers(t)

	user := models.User{Username: "alice", Name: "Alice", PasswordHash: "x"}
	repo := NewUserRepository(testDB, logger.Logger{})

	err := repo.CreateUser(context.Background(), &user)
	require.NoError(t, err)

	fetched, err := repo.GetUserByUsername(t.Context(), "alice")
	require.NoError(t, err)
	assert.Equal(t, user.Username, fetched.Username)
	assert.Equal(t, user.Name, fetched.Name)

	_, err = repo.GetUserByUsername(t.Context(), "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func Test_UsernameExists(t *testing.T) {
	cleanupUsers(t)

	repo := NewUserRepository(testDB, logger.Logger{})

	exists, err := repo.UsernameExists(t.Context(), "alice")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, repo.CreateUser(context.Background(), &models.User{Username: "alice", Name: "Alice", PasswordHash: "x"}))

	exists, err = repo.UsernameExists(t.Context(), "alice")
	require.NoError(t, err)
	assert.True(t, exists)
}

func Test_SetPublicKey(t *testing.T) {
	cleanupUsers(t)

	repo := NewUserRepository(testDB, logger.Logger{})
	user := models.User{Username: "alice", Name: "Alice", PasswordHash: "x"}
	require.NoError(t, repo.CreateUser(context.Background(), &user))

	t.Run("set and overwrite", func(t *testing.T) {
		require.NoError(t, repo.SetPublicKey(t.Context(), "alice", "key-v1"))
		require.NoError(t, repo.SetPublicKey(t.Context(), "alice", "key-v2"))

		fetched, err := repo.GetUserByUsername(t.Context(), "alice")
		require.NoError(t, err)
		assert.Equal(t, "key-v2", fetched.PublicKey)
	})

	t.Run("unknown user", func(t *testing.T) {
		err := repo.SetPublicKey(t.Context(), "nobody", "key")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func Test_ListPublicKeysAndMessageable(t *testing.T) {
	cleanupUsers(t)

	repo := NewUserRepository(testDB, logger.Logger{})
	for _, u := range []models.User{
		{Username: "alice", Name: "Alice", PasswordHash: "x"},
		{Username: "bob", Name: "Bob", PasswordHash: "x"},
		{Username: "carol", Name: "Carol", PasswordHash: "x"},
	} {
		u := u
		require.NoError(t, repo.CreateUser(context.Background(), &u))
	}
	require.NoError(t, repo.SetPublicKey(t.Context(), "alice", "alice-key"))
	require.NoError(t, repo.SetPublicKey(t.Context(), "bob", "bob-key"))

	keys, err := repo.ListPublicKeys(t.Context())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"alice": "alice-key", "bob": "bob-key"}, keys)

	// carol has no key and alice asks: only bob is messageable
	users, err := repo.ListMessageable(t.Context(), "alice")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "bob", users[0].Username)
}
