package dto

import (
	"github.com/yukikurage/task-api/internal/models"
)

// UserDTO represents a user in API responses. The password never leaves the
// server.
type UserDTO struct {
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Image *string `json:"image"`
}

// LoginResponse carries the user info together with the bearer token.
type LoginResponse struct {
	User  UserDTO `json:"user"`
	Token string  `json:"token"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		Name:  user.Name,
		Email: user.Email,
		Image: user.Image,
	}
}
