package services

import (
	"errors"
	"strings"

	"jobconnect_backend/internal/auth"
	"jobconnect_backend/internal/models"
	"jobconnect_backend/internal/repositories"
	"jobconnect_backend/internal/services/dto"
	"jobconnect_backend/pkg/apperrors"
)

// SocialService - вход через внешнего identity-провайдера.
// Профиль уже верифицирован провайдером, поэтому email считается
// подтвержденным, а пароль у аккаунта отсутствует.
type SocialService interface {
	RegisterFromSocial(profile *dto.SocialProfile) (*dto.AuthResponse, error)
}

type SocialServiceImpl struct {
	userRepo repositories.UserRepository
	tokens   *auth.TokenService
}

func NewSocialService(userRepo repositories.UserRepository, tokens *auth.TokenService) SocialService {
	return &SocialServiceImpl{userRepo: userRepo, tokens: tokens}
}

func (s *SocialServiceImpl) RegisterFromSocial(profile *dto.SocialProfile) (*dto.AuthResponse, error) {
	emailAddr := strings.ToLower(strings.TrimSpace(profile.Email))
	if emailAddr == "" {
		return nil, apperrors.NewBadRequestError("Email is required")
	}

	user, err := s.userRepo.FindByEmail(emailAddr)
	if err != nil {
		if !errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.InternalError(err)
		}

		user = &models.User{
			FullName:        strings.TrimSpace(profile.FullName),
			Email:           emailAddr,
			Avatar:          profile.Avatar,
			IsEmailVerified: true,
		}
		if err := s.userRepo.Create(user); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}

	accessToken, err := s.tokens.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	refreshToken, err := s.tokens.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	// Social-вход проходит ту же ротацию, что и парольный:
	// хеш нового refresh-токена вытесняет предыдущий
	if err := s.userRepo.UpdateRefreshTokenHash(user.ID, auth.HashRefreshToken(refreshToken)); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         dto.NewUserResponse(user),
	}, nil
}
