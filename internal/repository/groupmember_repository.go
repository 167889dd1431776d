package repository

import (
	"context"
	"errors"

	"groop/internal/model"

	"gorm.io/gorm"
)

type GroupMemberRepository struct {
	db *gorm.DB
}

func NewGroupMemberRepository(db *gorm.DB) *GroupMemberRepository {
	return &GroupMemberRepository{db: db}
}

func (r *GroupMemberRepository) Add(ctx context.Context, member *model.GroupMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

// Get returns ErrMemberNotFound when the user does not belong to the group.
func (r *GroupMemberRepository) Get(ctx context.Context, groupID, memberID int64) (*model.GroupMember, error) {
	var member model.GroupMember
	err := r.db.WithContext(ctx).
		Where("group_id = ? AND member_id = ?", groupID, memberID).
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrMemberNotFound
	}
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *GroupMemberRepository) IsMember(ctx context.Context, groupID, userID int64) (bool, error) {
	_, err := r.Get(ctx, groupID, userID)
	if errors.Is(err, ErrMemberNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *GroupMemberRepository) Remove(ctx context.Context, groupID, memberID int64) error {
	result := r.db.WithContext(ctx).
		Where("group_id = ? AND member_id = ?", groupID, memberID).
		Delete(&model.GroupMember{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMemberNotFound
	}
	return nil
}

// ListMembers returns the members of a group joined with their user rows.
// The id column is the user id.
func (r *GroupMemberRepository) ListMembers(ctx context.Context, groupID int64) ([]model.MemberDetail, error) {
	var members []model.MemberDetail
	err := r.db.WithContext(ctx).
		Table("groop_groups_members AS gm").
		Select("u.id AS id, gm.member_id, gm.score, u.username, u.fullname, u.email, u.notifications, gm.group_id, g.name").
		Joins("JOIN groop_users AS u ON u.id = gm.member_id").
		Joins("JOIN groop_groups AS g ON g.id = gm.group_id").
		Where("gm.group_id = ?", groupID).
		Order("gm.id").
		Scan(&members).Error
	return members, err
}

// ListUserGroups returns the groups the user belongs to, ordered by group id.
func (r *GroupMemberRepository) ListUserGroups(ctx context.Context, userID int64) ([]model.UserGroup, error) {
	var groups []model.UserGroup
	err := r.db.WithContext(ctx).
		Table("groop_groups_members AS gm").
		Select("gm.group_id, g.name").
		Joins("JOIN groop_groups AS g ON g.id = gm.group_id").
		Where("gm.member_id = ?", userID).
		Order("gm.group_id").
		Scan(&groups).Error
	return groups, err
}

// RecalculateScore sets the member's score to the sum of priorities of their
// completed tasks in the group and returns it.
func (r *GroupMemberRepository) RecalculateScore(ctx context.Context, groupID, memberID int64) (int64, error) {
	var score int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := tx.Model(&model.Task{}).
			Select("COALESCE(SUM(priority), 0)").
			Where("group_id = ? AND user_assigned_id = ? AND completed = ?", groupID, memberID, true).
			Row()
		if err := row.Scan(&score); err != nil {
			return err
		}
		return tx.Model(&model.GroupMember{}).
			Where("group_id = ? AND member_id = ?", groupID, memberID).
			Update("score", score).Error
	})
	if err != nil {
		return 0, err
	}
	return score, nil
}
