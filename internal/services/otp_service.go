package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"jobconnect_backend/internal/auth"
	"jobconnect_backend/internal/cache"
	"jobconnect_backend/internal/config"
	"jobconnect_backend/internal/repositories"
	"jobconnect_backend/internal/sms"
	"jobconnect_backend/pkg/apperrors"
)

// OTPService - восстановление пароля по SMS-коду.
// Коды живут в cache.Store (Redis в проде), TTL обеспечивает хранилище.
type OTPService interface {
	SendOTP(ctx context.Context, phone string) error
	VerifyOTP(ctx context.Context, phone, otp, newPassword string) error
}

type OTPServiceImpl struct {
	userRepo repositories.UserRepository
	store    cache.Store
	sms      sms.Sender
	ttl      time.Duration
}

func NewOTPService(
	userRepo repositories.UserRepository,
	store cache.Store,
	smsSender sms.Sender,
	cfg *config.Config,
) OTPService {
	return &OTPServiceImpl{
		userRepo: userRepo,
		store:    store,
		sms:      smsSender,
		ttl:      time.Duration(cfg.Auth.OTPTTLMinutes) * time.Minute,
	}
}

func otpKey(phone string) string {
	return "otp:" + phone
}

func (s *OTPServiceImpl) SendOTP(ctx context.Context, phone string) error {
	phone = strings.TrimSpace(phone)

	if _, err := s.userRepo.FindByPhone(phone); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.InternalError(err)
	}

	code := generateCode()
	// Повторный запрос перезаписывает код и сбрасывает TTL
	if err := s.store.Set(ctx, otpKey(phone), code, s.ttl); err != nil {
		return apperrors.InternalError(err)
	}

	if err := s.sms.Send(phone, fmt.Sprintf("Your password reset code: %s", code)); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *OTPServiceImpl) VerifyOTP(ctx context.Context, phone, otp, newPassword string) error {
	phone = strings.TrimSpace(phone)

	if len(newPassword) < 6 {
		return apperrors.ErrWeakPassword
	}

	stored, err := s.store.Get(ctx, otpKey(phone))
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return apperrors.ErrCodeExpired
		}
		return apperrors.InternalError(err)
	}
	if stored != otp {
		return apperrors.ErrInvalidVerificationCode
	}

	user, err := s.userRepo.FindByPhone(phone)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.InternalError(err)
	}

	// Код одноразовый: удаляем до смены пароля
	if err := s.store.Delete(ctx, otpKey(phone)); err != nil {
		return apperrors.InternalError(err)
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.userRepo.UpdatePassword(user.ID, hash); err != nil {
		return apperrors.InternalError(err)
	}

	// Активная сессия отзывается вместе со сменой пароля
	if err := s.userRepo.UpdateRefreshTokenHash(user.ID, ""); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}
