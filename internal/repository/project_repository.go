package repository

import (
	"context"
	"errors"

	"taskmanager/internal/model"

	"gorm.io/gorm"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// withTasks loads the manager and the full, unfiltered task set of each project.
func withTasks(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Manager").
		Preload("Tasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("tasks.id")
		}).
		Preload("Tasks.AssignedTo")
}

func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("projects.created_at DESC").Order("projects.id DESC")
}

func (r *ProjectRepository) Create(ctx context.Context, project *model.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

// Get retrieves a project by its ID without any relations.
func (r *ProjectRepository) Get(ctx context.Context, id uint) (*model.Project, error) {
	var project model.Project
	err := r.db.WithContext(ctx).First(&project, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// GetWithTasks retrieves a project by its ID together with its tasks
func (r *ProjectRepository) GetWithTasks(ctx context.Context, id uint) (*model.Project, error) {
	var project model.Project
	err := r.db.WithContext(ctx).Scopes(withTasks).Where("projects.id = ?", id).First(&project).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProjectNotFound
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// ListAll returns every project, newest first.
func (r *ProjectRepository) ListAll(ctx context.Context) ([]model.Project, error) {
	var projects []model.Project
	err := r.db.WithContext(ctx).Scopes(withTasks, newestFirst).Find(&projects).Error
	return projects, err
}

// ListManagedBy returns the projects whose manager is userID, newest first.
func (r *ProjectRepository) ListManagedBy(ctx context.Context, userID uint) ([]model.Project, error) {
	var projects []model.Project
	err := r.db.WithContext(ctx).Scopes(withTasks, newestFirst).
		Where("projects.manager_id = ?", userID).
		Find(&projects).Error
	return projects, err
}

// ListAssignedTo returns the distinct projects having at least one task
// assigned to userID, newest first.
func (r *ProjectRepository) ListAssignedTo(ctx context.Context, userID uint) ([]model.Project, error) {
	assigned := r.db.Model(&model.Task{}).Select("project_id").Where("assigned_to_id = ?", userID)

	var projects []model.Project
	err := r.db.WithContext(ctx).Scopes(withTasks, newestFirst).
		Where("projects.id IN (?)", assigned).
		Find(&projects).Error
	return projects, err
}

// Delete removes a project and all of its tasks.
func (r *ProjectRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&model.Task{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.Project{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrProjectNotFound
		}
		return nil
	})
}
