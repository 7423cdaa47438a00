package httpdto

// TokenTypeBearer is reported alongside issued tokens.
const TokenTypeBearer = "bearer"

// RegisterRequest is used for POST /auth/register
type RegisterRequest struct {
	Username string `json:"user_username" binding:"required,min=3,max=50"`
	Email    string `json:"user_email" binding:"required,email,max=100"`
	Password string `json:"user_password" binding:"required,min=8,max=72"`
	Age      int    `json:"user_age" binding:"required,gte=16,lte=80"`
	Gender   string `json:"user_gender" binding:"required,oneof=Male Female"`
}

// RegisterResponse is returned after successful registration
type RegisterResponse struct {
	UserID       int64  `json:"user_id"`
	UserUsername string `json:"user_username"`
	UserEmail    string `json:"user_email"`
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
}

// LoginRequest is used for POST /auth/login. Both JSON bodies and
// OAuth2 password-form submissions bind to it.
type LoginRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
