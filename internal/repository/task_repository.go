package repository

import (
	"errors"

	"github.com/google/uuid"
	"github.com/yukikurage/task-api/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrTaskNotFound is returned when the target task row does not exist.
	ErrTaskNotFound = errors.New("task repository: task not found")
	// ErrNotTaskOwner is returned when the caller does not own the target task.
	ErrNotTaskOwner = errors.New("task repository: caller is not the task owner")
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create inserts a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return translateError(r.db.Create(task).Error)
}

// ListByOwner retrieves all tasks owned by the given user
func (r *GormTaskRepository) ListByOwner(ownerID uuid.UUID) ([]models.Task, error) {
	tasks := []models.Task{}
	if err := r.db.Where("user_id = ?", ownerID).Order("created_at").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// UpdateOwned runs the ownership check and the update in one transaction so
// the owner cannot change between check and mutation. Not-found and not-owner
// stay distinguishable for the caller.
func (r *GormTaskRepository) UpdateOwned(task *models.Task, ownerID uuid.UUID) (*models.Task, error) {
	var updated models.Task
	err := r.db.Transaction(func(tx *gorm.DB) error {
		storedOwner, err := fetchOwner(tx, task.ID)
		if err != nil {
			return err
		}
		if storedOwner != ownerID {
			return ErrNotTaskOwner
		}

		// user_id is immutable after creation
		updates := map[string]interface{}{
			"name":        task.Name,
			"description": task.Description,
			"tag":         task.Tag,
			"date":        task.Date,
		}
		if err := tx.Model(&models.Task{}).Where("id = ?", task.ID).Updates(updates).Error; err != nil {
			return err
		}

		return tx.First(&updated, "id = ?", task.ID).Error
	})
	if err != nil {
		return nil, translateError(err)
	}
	return &updated, nil
}

// DeleteOwned runs the ownership check and the delete in one transaction,
// returning the deleted row.
func (r *GormTaskRepository) DeleteOwned(id, ownerID uuid.UUID) (*models.Task, error) {
	var deleted models.Task
	err := r.db.Transaction(func(tx *gorm.DB) error {
		storedOwner, err := fetchOwner(tx, id)
		if err != nil {
			return err
		}
		if storedOwner != ownerID {
			return ErrNotTaskOwner
		}

		if err := tx.First(&deleted, "id = ?", id).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Task{}, "id = ?", id).Error
	})
	if err != nil {
		return nil, translateError(err)
	}
	return &deleted, nil
}

func fetchOwner(tx *gorm.DB, taskID uuid.UUID) (uuid.UUID, error) {
	var task models.Task
	if err := tx.Select("user_id").First(&task, "id = ?", taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, ErrTaskNotFound
		}
		return uuid.Nil, err
	}
	return task.UserID, nil
}
