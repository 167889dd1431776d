package model

import (
	"time"
)

const (
	PriorityLow    = 1
	PriorityMedium = 2
	PriorityHigh   = 3
)

type Task struct {
	ID             int64  `gorm:"primaryKey"`
	Name           string `gorm:"not null"`
	Description    string `gorm:"not null"`
	Completed      bool   `gorm:"not null"`
	CreatorID      int64  `gorm:"not null"`
	UserAssignedID *int64 `gorm:"index"`
	GroupID        int64  `gorm:"not null;index"`
	CategoryID     *int64
	Priority       int       `gorm:"not null"`
	DateDue        time.Time `gorm:"not null"`
	TimeStart      *time.Time
}

func (Task) TableName() string {
	return "groop_tasks"
}

// ValidPriority reports whether p is one of the three supported levels.
func ValidPriority(p int) bool {
	return p >= PriorityLow && p <= PriorityHigh
}

func PriorityLabel(p int) string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	default:
		return "high"
	}
}

// DueTask is an upcoming task joined with its group name, used by the weekly digest.
type DueTask struct {
	ID          int64
	Name        string
	Description string
	Priority    int
	DateDue     time.Time
	GroupID     int64
	GroupName   string
}
