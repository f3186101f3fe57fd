package dto

import "reviewhub/internal/api/models"

// UserResponse is the user representation on the management endpoints and
// /users/me.
type UserResponse struct {
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Bio       *string `json:"bio,omitempty"`
	Role      string  `json:"role"`
}

func FromModelToUserResponse(u *models.User) UserResponse {
	return UserResponse{
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Bio:       u.Bio,
		Role:      u.Role,
	}
}

// CreateUserDTO for admin user creation
type CreateUserDTO struct {
	Username  string  `json:"username" binding:"required,min=3,max=150"`
	Email     string  `json:"email" binding:"required,email,max=254"`
	Role      *string `json:"role,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Bio       *string `json:"bio,omitempty"`
}

// UpdateUserDTO for partial updates; nil fields are left untouched
type UpdateUserDTO struct {
	Email     *string `json:"email,omitempty"`
	Role      *string `json:"role,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Bio       *string `json:"bio,omitempty"`
}

// PaginatedUserResponse for returning paginated users
type PaginatedUserResponse struct {
	Data       []UserResponse `json:"data"`
	Pagination Pagination     `json:"pagination"`
}
