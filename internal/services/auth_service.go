package services

import (
	"errors"
	"strings"

	"jobconnect_backend/internal/auth"
	"jobconnect_backend/internal/config"
	"jobconnect_backend/internal/logger"
	"jobconnect_backend/internal/models"
	"jobconnect_backend/internal/repositories"
	"jobconnect_backend/internal/services/dto"
	"jobconnect_backend/pkg/apperrors"
)

type AuthService interface {
	Register(req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(req *dto.LoginRequest) (*dto.AuthResponse, error)
	Refresh(refreshToken string) (*dto.AuthResponse, error)
	Logout(refreshToken string) error
	UpdateRole(userID, role string) (*dto.UserResponse, error)
	GetMe(userID string) (*dto.UserResponse, error)
}

type AuthServiceImpl struct {
	userRepo     repositories.UserRepository
	tokens       *auth.TokenService
	verification VerificationService
	cfg          *config.Config
}

func NewAuthService(
	userRepo repositories.UserRepository,
	tokens *auth.TokenService,
	verification VerificationService,
	cfg *config.Config,
) AuthService {
	return &AuthServiceImpl{
		userRepo:     userRepo,
		tokens:       tokens,
		verification: verification,
		cfg:          cfg,
	}
}

func (s *AuthServiceImpl) Register(req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	phone := strings.TrimSpace(req.Phone)

	if len(req.Password) < 6 {
		return nil, apperrors.ErrWeakPassword
	}
	if req.Password != req.ConfirmPassword {
		return nil, apperrors.ErrPasswordMismatch
	}

	var role *models.UserRole
	if req.Role != "" {
		r := models.UserRole(req.Role)
		if !models.ValidUserRole(r) {
			return nil, apperrors.ErrInvalidUserRole
		}
		role = &r
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		FullName:     strings.TrimSpace(req.FullName),
		Email:        email,
		Phone:        &phone,
		Role:         role,
		PasswordHash: &hash,
	}

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrEmailOrPhoneTaken
		}
		return nil, apperrors.InternalError(err)
	}

	// Невозможность отправить код не должна ломать регистрацию:
	// пользователь всегда может запросить повторную отправку.
	if err := s.verification.SendEmailCode(user); err != nil {
		logger.WithError(err).Warn("failed to send email verification code", "user_id", user.ID)
	}
	if err := s.verification.SendPhoneCode(user); err != nil {
		logger.WithError(err).Warn("failed to send phone verification code", "user_id", user.ID)
	}

	return s.issueTokens(user)
}

func (s *AuthServiceImpl) Login(req *dto.LoginRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	phone := strings.TrimSpace(req.Phone)
	if email == "" && phone == "" {
		return nil, apperrors.ErrInvalidCredentials
	}

	user, err := s.userRepo.FindByEmailOrPhone(email, phone)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	// Social-only аккаунт: пароля нет, вход только через провайдера
	if user.IsSocialOnly() {
		return nil, apperrors.ErrInvalidCredentials
	}

	// Блокировка проверяется до пароля: залоченный аккаунт не дает
	// оракула для дальнейшего перебора
	if user.FailedLoginAttempts >= s.cfg.Auth.MaxLoginAttempts {
		return nil, apperrors.ErrTooManyAttempts
	}

	if !auth.CheckPasswordHash(req.Password, *user.PasswordHash) {
		if err := s.userRepo.IncrementFailedLogins(user.ID); err != nil {
			logger.WithError(err).Error("failed to increment login attempts", "user_id", user.ID)
		}
		return nil, apperrors.ErrInvalidCredentials
	}

	if !user.IsEmailVerified {
		return nil, apperrors.ErrEmailNotVerified
	}
	if s.cfg.Auth.RequirePhoneVerification && !user.IsPhoneVerified {
		return nil, apperrors.ErrPhoneNotVerified
	}

	if user.FailedLoginAttempts > 0 {
		if err := s.userRepo.ResetFailedLogins(user.ID); err != nil {
			logger.WithError(err).Error("failed to reset login attempts", "user_id", user.ID)
		}
	}

	return s.issueTokens(user)
}

func (s *AuthServiceImpl) Refresh(refreshToken string) (*dto.AuthResponse, error) {
	claims, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	// Предъявленный токен обязан совпадать с текущим хранимым хешем:
	// ротация или logout инвалидируют все ранее выданные refresh-токены
	if !auth.CompareRefreshTokenHash(refreshToken, user.RefreshTokenHash) {
		return nil, apperrors.ErrInvalidToken
	}

	return s.issueTokens(user)
}

// Logout отзывает текущий refresh-токен. Неизвестный или уже
// отозванный токен не является ошибкой: выход идемпотентен.
func (s *AuthServiceImpl) Logout(refreshToken string) error {
	hash := auth.HashRefreshToken(refreshToken)

	user, err := s.userRepo.FindByRefreshTokenHash(hash)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil
		}
		return apperrors.InternalError(err)
	}

	if err := s.userRepo.UpdateRefreshTokenHash(user.ID, ""); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *AuthServiceImpl) UpdateRole(userID, role string) (*dto.UserResponse, error) {
	newRole := models.UserRole(role)
	if !models.ValidUserRole(newRole) {
		return nil, apperrors.ErrInvalidUserRole
	}

	if err := s.userRepo.UpdateRole(userID, newRole); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	return s.GetMe(userID)
}

func (s *AuthServiceImpl) GetMe(userID string) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return dto.NewUserResponse(user), nil
}

// issueTokens выпускает пару токенов и сохраняет хеш refresh-токена.
// Перезапись хеша отзывает предыдущий refresh-токен пользователя.
func (s *AuthServiceImpl) issueTokens(user *models.User) (*dto.AuthResponse, error) {
	accessToken, err := s.tokens.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	refreshToken, err := s.tokens.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := s.userRepo.UpdateRefreshTokenHash(user.ID, auth.HashRefreshToken(refreshToken)); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         dto.NewUserResponse(user),
	}, nil
}
