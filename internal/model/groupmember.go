package model

// GroupMember links a user to a group. Score is the sum of priorities of the
// member's completed tasks in that group.
type GroupMember struct {
	ID       int64 `gorm:"primaryKey"`
	GroupID  int64 `gorm:"not null;uniqueIndex:idx_group_member"`
	MemberID int64 `gorm:"not null;uniqueIndex:idx_group_member"`
	Score    int64 `gorm:"not null"`
}

func (GroupMember) TableName() string {
	return "groop_groups_members"
}

// MemberDetail is a membership row joined with its user and group.
type MemberDetail struct {
	ID            int64
	MemberID      int64
	Score         int64
	Username      string
	Fullname      string
	Email         string
	Notifications bool
	GroupID       int64
	Name          string
}

// UserGroup is a group the user belongs to.
type UserGroup struct {
	GroupID int64
	Name    string
}
