package repository

import (
	"context"

	"taskmanager/internal/model"

	"gorm.io/gorm"
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

// GetByProjectID retrieves all tasks of a project
func (r *TaskRepository) GetByProjectID(ctx context.Context, projectID uint) ([]model.Task, error) {
	var tasks []model.Task
	result := r.db.WithContext(ctx).Preload("AssignedTo").Where("project_id = ?", projectID).Order("id").Find(&tasks)
	if result.Error != nil {
		return nil, result.Error
	}
	return tasks, nil
}

// CountByProjectID counts the tasks of a project
func (r *TaskRepository) CountByProjectID(ctx context.Context, projectID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Task{}).Where("project_id = ?", projectID).Count(&count).Error
	return count, err
}
