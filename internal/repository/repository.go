package repository

import (
	"github.com/google/uuid"
	"github.com/yukikurage/task-api/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create inserts a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uuid.UUID) (*models.User, error)

	// FindByEmail finds a user by email (exact match)
	FindByEmail(email string) (*models.User, error)

	// Update saves the user's mutable fields
	Update(user *models.User) error

	// Delete removes the user together with their tasks and returns the
	// deleted row
	Delete(id uuid.UUID) (*models.User, error)

	// Exists reports whether a user row with the given id is still present
	Exists(id uuid.UUID) (bool, error)
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create inserts a new task
	Create(task *models.Task) error

	// ListByOwner retrieves all tasks owned by the given user
	ListByOwner(ownerID uuid.UUID) ([]models.Task, error)

	// UpdateOwned verifies ownership and updates the task inside a single
	// transaction, returning the updated row
	UpdateOwned(task *models.Task, ownerID uuid.UUID) (*models.Task, error)

	// DeleteOwned verifies ownership and deletes the task inside a single
	// transaction, returning the deleted row
	DeleteOwned(id, ownerID uuid.UUID) (*models.Task, error)
}
