package model

type Group struct {
	ID      int64  `gorm:"primaryKey"`
	Name    string `gorm:"not null"`
	OwnerID int64  `gorm:"not null;index"`
}

func (Group) TableName() string {
	return "groop_groups"
}
