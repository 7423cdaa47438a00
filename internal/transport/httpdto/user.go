package httpdto

import "fitfinder-backend/internal/domain/user"

// UserResponse is the public profile returned by GET /user/me
type UserResponse struct {
	UserID       int64  `json:"user_id"`
	UserUsername string `json:"user_username"`
	UserEmail    string `json:"user_email"`
	UserAge      int    `json:"user_age"`
	UserGender   string `json:"user_gender"`
	UserRole     string `json:"user_role"`
}

func NewUserResponse(u user.User) UserResponse {
	return UserResponse{
		UserID:       u.ID,
		UserUsername: u.Username,
		UserEmail:    u.Email,
		UserAge:      u.Age,
		UserGender:   string(u.Gender),
		UserRole:     string(u.Role),
	}
}
