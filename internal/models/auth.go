package models

type AdminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type PhoneLoginRequest struct {
	PhoneNumber string `json:"phoneNumber" validate:"required"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type UserLoginResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    UserSummary `json:"user"`
}

type RegisterResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
