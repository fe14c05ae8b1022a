package request

// CreateUserRequest represents a create user request
type CreateUserRequest struct {
	Fullname     string  `json:"fullname" binding:"required,min=2,max=255"`
	Username     string  `json:"username" binding:"required,min=3,max=255"`
	Password     string  `json:"password" binding:"required,min=8"`
	ProfileImage *string `json:"profile_image"`
	RoleID       uint    `json:"role_id" binding:"required"`
}

// UpdateUserRequest represents an update user request
type UpdateUserRequest struct {
	Fullname     *string `json:"fullname" binding:"omitempty,min=2,max=255"`
	Password     *string `json:"password" binding:"omitempty,min=8"`
	ProfileImage *string `json:"profile_image"`
	RoleID       *uint   `json:"role_id"`
}
