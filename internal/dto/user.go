package dto

import "github.com/mtakagi/task-tracker-api/internal/models"

// UserDTO represents a user in API responses. Password material is never
// part of any response shape.
type UserDTO struct {
	ID        uint64 `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// AccountDTO is returned from registration and session endpoints, where the
// caller also needs to know their privilege level.
type AccountDTO struct {
	UserDTO
	IsStaff bool `json:"is_staff"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:        user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
	}
}

// ToAccountDTO converts a User model to AccountDTO
func ToAccountDTO(user models.User) AccountDTO {
	return AccountDTO{
		UserDTO: ToUserDTO(user),
		IsStaff: user.IsStaff,
	}
}
