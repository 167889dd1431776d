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

func TestGroupRepository_CreateWithOwner(t *testing.T) {
	// Arrange
	db := setupSQLiteDB(t)
	groupRepo := repository.NewGroupRepository(db)
	memberRepo := repository.NewGroupMemberRepository(db)
	owner := seedUser(t, db, "alice")

	group := &model.Group{Name: "Flatmates", OwnerID: owner.ID}

	// Act
	member, err := groupRepo.CreateWithOwner(context.Background(), group)

	// Assert
	require.NoError(t, err)
	assert.NotZero(t, group.ID)
	assert.Equal(t, group.ID, member.GroupID)
	assert.Equal(t, owner.ID, member.MemberID)
	assert.Equal(t, int64(0), member.Score)

	isMember, err := memberRepo.IsMember(context.Background(), group.ID, owner.ID)
	require.NoError(t, err)
	assert.True(t, isMember)
}

func TestGroupRepository_CreateWithOwner_RollsBack(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	groupRepo := repository.NewGroupRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "groop_groups"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(`INSERT INTO "groop_groups_members"`).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	// Act
	member, err := groupRepo.CreateWithOwner(context.Background(), &model.Group{Name: "g", OwnerID: 2})

	// Assert
	assert.Error(t, err)
	assert.Nil(t, member)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupRepository_GetByID_NotFound(t *testing.T) {
	// Arrange
	db := setupSQLiteDB(t)
	groupRepo := repository.NewGroupRepository(db)

	// Act
	group, err := groupRepo.GetByID(context.Background(), 42)

	// Assert
	assert.NoError(t, err)
	assert.Nil(t, group)
}

func TestGroupRepository_Delete(t *testing.T) {
	// Arrange
	db := setupSQLiteDB(t)
	groupRepo := repository.NewGroupRepository(db)
	owner := seedUser(t, db, "alice")
	group := &model.Group{Name: "Flatmates", OwnerID: owner.ID}
	_, err := groupRepo.CreateWithOwner(context.Background(), group)
	require.NoError(t, err)

	// Act
	err = groupRepo.Delete(context.Background(), group.ID)

	// Assert
	require.NoError(t, err)
	stored, err := groupRepo.GetByID(context.Background(), group.ID)
	assert.NoError(t, err)
	assert.Nil(t, stored)
}
