package database

import (
	"context"
	"testing"

	"roomdesk/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrUpdateUser(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	t.Run("insert with default role", func(t *testing.T) {
		user := &models.User{Name: "Alice"}
		require.NoError(t, db.CreateOrUpdateUser(ctx, user))
		assert.NotZero(t, user.ID)
		assert.Equal(t, models.RoleMember, user.Role)
	})

	t.Run("several users without email", func(t *testing.T) {
		first := &models.User{Name: "No Mail One"}
		require.NoError(t, db.CreateOrUpdateUser(ctx, first))

		second := &models.User{Name: "No Mail Two"}
		require.NoError(t, db.CreateOrUpdateUser(ctx, second))

		got, err := db.GetUser(ctx, second.ID)
		require.NoError(t, err)
		assert.Empty(t, got.Email)
	})

	t.Run("upsert clearing the email", func(t *testing.T) {
		user := &models.User{Name: "Carol", Email: "carol@example.com"}
		require.NoError(t, db.CreateOrUpdateUser(ctx, user))

		user.Email = ""
		require.NoError(t, db.CreateOrUpdateUser(ctx, user))

		other := &models.User{Name: "Dave"}
		assert.NoError(t, db.CreateOrUpdateUser(ctx, other))
	})

	t.Run("upsert by id", func(t *testing.T) {
		user := &models.User{Name: "Bob", Role: models.RoleMember}
		require.NoError(t, db.CreateOrUpdateUser(ctx, user))

		user.Role = models.RoleAdmin
		user.Name = "Bob Admin"
		require.NoError(t, db.CreateOrUpdateUser(ctx, user))

		got, err := db.GetUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "Bob Admin", got.Name)
		assert.True(t, got.IsAdmin())
	})
}

func TestGetUser_NotFound(t *testing.T) {
	db := setupTestDB(t)
	_, err := db.GetUser(context.Background(), 404)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestListAndCountUsers(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	seedUser(t, db, "Alice", models.RoleMember)
	seedUser(t, db, "Bob", models.RoleAdmin)

	users, err := db.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	count, err := db.CountUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
