package dto

import "jobconnect_backend/internal/models"

type RegisterRequest struct {
	FullName        string `json:"full_name" binding:"required"`
	Email           string `json:"email" binding:"required" validate:"required,email"`
	Phone           string `json:"phone" binding:"required" validate:"required"`
	Password        string `json:"password" binding:"required" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" binding:"required" validate:"required"`
	Role            string `json:"role" validate:"omitempty,is-user-role"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required" validate:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required" validate:"required"`
}

type VerifyEmailRequest struct {
	Email string `json:"email" binding:"required" validate:"required,email"`
	Code  string `json:"code" binding:"required" validate:"required"`
}

type VerifyPhoneRequest struct {
	Phone string `json:"phone" binding:"required" validate:"required"`
	Code  string `json:"code" binding:"required" validate:"required"`
}

type ResendEmailCodeRequest struct {
	Email string `json:"email" binding:"required" validate:"required,email"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required" validate:"required,email"`
	ResetCode   string `json:"reset_code" binding:"required" validate:"required"`
	NewPassword string `json:"new_password" binding:"required" validate:"required,min=6"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required" validate:"required"`
}

type SendOTPRequest struct {
	Phone string `json:"phone" binding:"required" validate:"required"`
}

type VerifyOTPRequest struct {
	Phone       string `json:"phone" binding:"required" validate:"required"`
	OTP         string `json:"otp" binding:"required" validate:"required"`
	NewPassword string `json:"new_password" binding:"required" validate:"required,min=6"`
}

// SocialProfile - верифицированный профиль от identity-провайдера.
// Redirect-флоу провайдера остается за пределами ядра.
type SocialProfile struct {
	Email    string `json:"email" binding:"required" validate:"required,email"`
	FullName string `json:"full_name"`
	Avatar   string `json:"avatar"`
}

type UserResponse struct {
	ID              string           `json:"id"`
	FullName        string           `json:"full_name"`
	Email           string           `json:"email"`
	Phone           *string          `json:"phone,omitempty"`
	Role            *models.UserRole `json:"role,omitempty"`
	Avatar          string           `json:"avatar,omitempty"`
	IsEmailVerified bool             `json:"is_email_verified"`
	IsPhoneVerified bool             `json:"is_phone_verified"`
}

type AuthResponse struct {
	AccessToken  string        `json:"token"`
	RefreshToken string        `json:"refresh_token"`
	User         *UserResponse `json:"user"`
}

// NewUserResponse строит безопасное представление пользователя.
// Хеши и коды наружу не выходят.
func NewUserResponse(u *models.User) *UserResponse {
	return &UserResponse{
		ID:              u.ID,
		FullName:        u.FullName,
		Email:           u.Email,
		Phone:           u.Phone,
		Role:            u.Role,
		Avatar:          u.Avatar,
		IsEmailVerified: u.IsEmailVerified,
		IsPhoneVerified: u.IsPhoneVerified,
	}
}
