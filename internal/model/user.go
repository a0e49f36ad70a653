package model

// User represents an account in the database.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Name         string
	IsActive     bool
	IsStaff      bool
	IsSuperuser  bool
}

func (u User) String() string {
	return u.Email
}

// CreateUserRequest represents a registration request.
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=5,max=128"`
	Name     string `json:"name" validate:"omitempty,max=255"`
}

// UpdateUserRequest represents a PUT or PATCH on the caller's profile.
// Nil fields are left untouched by PATCH and rejected by PUT.
type UpdateUserRequest struct {
	Email    *string `json:"email" validate:"omitnil,email,max=255"`
	Password *string `json:"password" validate:"omitnil,min=5,max=128"`
	Name     *string `json:"name" validate:"omitnil,required,max=255"`
}

// TokenRequest represents a token exchange request.
type TokenRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse carries an issued bearer token.
type TokenResponse struct {
	Token string `json:"token"`
}

// UserResponse is the public view of an account; the password never leaves the server.
type UserResponse struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func NewUserResponse(u *User) UserResponse {
	return UserResponse{Email: u.Email, Name: u.Name}
}
