package model

type User struct {
	ID            int64  `gorm:"primaryKey"`
	Username      string `gorm:"uniqueIndex;not null"`
	Password      string `gorm:"not null"`
	Fullname      string `gorm:"not null"`
	Email         string `gorm:"uniqueIndex;not null"`
	Notifications bool   `gorm:"not null"`
}

func (User) TableName() string {
	return "groop_users"
}
