package repository_test

import (
	"context"
	"testing"

	"groop/internal/model"
	"groop/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_Create(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	userRepo := repository.NewUserRepository(gormDB)

	user := &model.User{
		Username:      "alice",
		Password:      "hashed_password",
		Fullname:      "Alice Doe",
		Email:         "alice@example.com",
		Notifications: true,
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "groop_users"`).
		WithArgs(user.Username, user.Password, user.Fullname, user.Email, user.Notifications).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectCommit()

	// Act
	err := userRepo.Create(context.Background(), user)

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, int64(7), user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByUsername_Found(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	userRepo := repository.NewUserRepository(gormDB)

	mock.ExpectQuery(`SELECT \* FROM "groop_users" WHERE username = .* LIMIT`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password", "fullname", "email", "notifications"}).
			AddRow(3, "alice", "hashed_password", "Alice Doe", "alice@example.com", true))

	// Act
	user, err := userRepo.FindByUsername(context.Background(), "alice")

	// Assert
	assert.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, int64(3), user.ID)
	assert.Equal(t, "Alice Doe", user.Fullname)
	assert.True(t, user.Notifications)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByEmail_NotFound(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	userRepo := repository.NewUserRepository(gormDB)

	mock.ExpectQuery(`SELECT \* FROM "groop_users" WHERE email = .* LIMIT`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password", "fullname", "email", "notifications"}))

	// Act
	user, err := userRepo.FindByEmail(context.Background(), "nobody@example.com")

	// Assert
	assert.NoError(t, err) // a missing row is not an error
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetByID_Error(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	userRepo := repository.NewUserRepository(gormDB)

	mock.ExpectQuery(`SELECT \* FROM "groop_users" WHERE id = .* LIMIT`).
		WillReturnError(assert.AnError)

	// Act
	user, err := userRepo.GetByID(context.Background(), 1)

	// Assert
	assert.Error(t, err)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Update(t *testing.T) {
	// Arrange
	db := setupSQLiteDB(t)
	userRepo := repository.NewUserRepository(db)
	user := seedUser(t, db, "alice")

	user.Fullname = "Alice Updated"
	user.Notifications = false

	// Act
	err := userRepo.Update(context.Background(), user)

	// Assert
	require.NoError(t, err)
	stored, err := userRepo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice Updated", stored.Fullname)
	assert.False(t, stored.Notifications)
}

func TestUserRepository_ListWithNotifications(t *testing.T) {
	// Arrange
	db := setupSQLiteDB(t)
	userRepo := repository.NewUserRepository(db)
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	bob.Notifications = false
	require.NoError(t, userRepo.Update(context.Background(), bob))

	// Act
	users, err := userRepo.ListWithNotifications(context.Background())

	// Assert
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, alice.ID, users[0].ID)
}
