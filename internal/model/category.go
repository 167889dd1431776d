package model

type TaskCategory struct {
	ID           int64  `gorm:"primaryKey"`
	CategoryName string `gorm:"not null"`
	GroupID      int64  `gorm:"not null;index"`
}

func (TaskCategory) TableName() string {
	return "groop_task_categories"
}
