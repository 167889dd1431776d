package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"groop/internal/model"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create adds a new task to the database
func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// GetByID retrieves a task by its ID
func (r *TaskRepository) GetByID(ctx context.Context, id int64) (*model.Task, error) {
	var task model.Task
	result := r.db.WithContext(ctx).First(&task, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, result.Error
	}
	return &task, nil
}

// ListAssignedTo retrieves every task assigned to the user, across groups
func (r *TaskRepository) ListAssignedTo(ctx context.Context, userID int64) ([]model.Task, error) {
	var tasks []model.Task
	result := r.db.WithContext(ctx).Where("user_assigned_id = ?", userID).Order("id").Find(&tasks)
	if result.Error != nil {
		return nil, result.Error
	}
	return tasks, nil
}

// ListByGroup retrieves all tasks of a group
func (r *TaskRepository) ListByGroup(ctx context.Context, groupID int64) ([]model.Task, error) {
	var tasks []model.Task
	result := r.db.WithContext(ctx).Where("group_id = ?", groupID).Order("id").Find(&tasks)
	if result.Error != nil {
		return nil, result.Error
	}
	return tasks, nil
}

// Update updates an existing task
func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	result := r.db.WithContext(ctx).Model(task).Select("*").Updates(task)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// Delete removes a task by its ID
func (r *TaskRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&model.Task{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// ListDueForUser returns the user's open tasks due in [from, to], soonest first,
// with the name of the group each belongs to.
func (r *TaskRepository) ListDueForUser(ctx context.Context, userID int64, from, to time.Time) ([]model.DueTask, error) {
	var tasks []model.DueTask
	err := r.db.WithContext(ctx).
		Table("groop_tasks AS t").
		Select("t.id, t.name, t.description, t.priority, t.date_due, t.group_id, g.name AS group_name").
		Joins("JOIN groop_groups AS g ON g.id = t.group_id").
		Where("t.user_assigned_id = ? AND t.completed = ? AND t.date_due >= ? AND t.date_due <= ?", userID, false, from, to).
		Order("t.date_due").
		Scan(&tasks).Error
	return tasks, err
}
