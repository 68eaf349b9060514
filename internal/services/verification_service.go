package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"jobconnect_backend/internal/auth"
	"jobconnect_backend/internal/config"
	"jobconnect_backend/internal/email"
	"jobconnect_backend/internal/models"
	"jobconnect_backend/internal/repositories"
	"jobconnect_backend/internal/sms"
	"jobconnect_backend/pkg/apperrors"
)

type VerificationService interface {
	SendEmailCode(user *models.User) error
	SendPhoneCode(user *models.User) error
	VerifyEmail(emailAddr, code string) error
	VerifyPhone(phone, code string) error
	ResendEmailCode(emailAddr string) error
	RequestPasswordReset(emailAddr string) error
	ResetPassword(emailAddr, code, newPassword string) error
}

type VerificationServiceImpl struct {
	userRepo repositories.UserRepository
	email    email.Provider
	sms      sms.Sender
	codeTTL  time.Duration
	resetTTL time.Duration
}

func NewVerificationService(
	userRepo repositories.UserRepository,
	emailProvider email.Provider,
	smsSender sms.Sender,
	cfg *config.Config,
) VerificationService {
	return &VerificationServiceImpl{
		userRepo: userRepo,
		email:    emailProvider,
		sms:      smsSender,
		codeTTL:  time.Duration(cfg.Auth.CodeTTLHours) * time.Hour,
		resetTTL: time.Duration(cfg.Auth.ResetTTLMinutes) * time.Minute,
	}
}

// generateCode возвращает 6-значный цифровой код (crypto/rand)
func generateCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		// crypto/rand на поддерживаемых платформах не падает
		panic(err)
	}
	return fmt.Sprintf("%06d", n.Int64())
}

// SendEmailCode выпускает новый email-код и отправляет письмо.
// Повторный вызов перезаписывает предыдущий код.
func (s *VerificationServiceImpl) SendEmailCode(user *models.User) error {
	code := generateCode()
	expires := time.Now().Add(s.codeTTL)

	user.EmailVerificationCode = code
	user.EmailCodeExpiresAt = &expires
	if err := s.userRepo.Update(user); err != nil {
		return apperrors.InternalError(err)
	}

	body := fmt.Sprintf("Your verification code is: %s\nIt expires in %d hours.", code, int(s.codeTTL.Hours()))
	if err := s.email.Send(user.Email, "Verify your email", body); err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternalError, "email", "Failed to send verification email", http.StatusInternalServerError)
	}
	return nil
}

func (s *VerificationServiceImpl) SendPhoneCode(user *models.User) error {
	if user.Phone == nil || *user.Phone == "" {
		return nil
	}

	code := generateCode()
	expires := time.Now().Add(s.codeTTL)

	user.PhoneVerificationCode = code
	user.PhoneCodeExpiresAt = &expires
	if err := s.userRepo.Update(user); err != nil {
		return apperrors.InternalError(err)
	}

	text := fmt.Sprintf("Your verification code: %s", code)
	if err := s.sms.Send(*user.Phone, text); err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternalError, "sms", "Failed to send verification SMS", http.StatusInternalServerError)
	}
	return nil
}

func (s *VerificationServiceImpl) VerifyEmail(emailAddr, code string) error {
	user, err := s.findByEmail(emailAddr)
	if err != nil {
		return err
	}

	// Уже подтвержден - повторная проверка не ошибка
	if user.IsEmailVerified {
		return nil
	}

	if err := checkCode(user.EmailVerificationCode, code, user.EmailCodeExpiresAt); err != nil {
		return err
	}

	if err := s.userRepo.VerifyEmail(user.ID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *VerificationServiceImpl) VerifyPhone(phone, code string) error {
	user, err := s.userRepo.FindByPhone(strings.TrimSpace(phone))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.InternalError(err)
	}

	if user.IsPhoneVerified {
		return nil
	}

	if err := checkCode(user.PhoneVerificationCode, code, user.PhoneCodeExpiresAt); err != nil {
		return err
	}

	if err := s.userRepo.VerifyPhone(user.ID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *VerificationServiceImpl) ResendEmailCode(emailAddr string) error {
	user, err := s.findByEmail(emailAddr)
	if err != nil {
		return err
	}
	if user.IsEmailVerified {
		return apperrors.ErrInvalidOperation("verification", "Email already verified")
	}
	return s.SendEmailCode(user)
}

func (s *VerificationServiceImpl) RequestPasswordReset(emailAddr string) error {
	user, err := s.findByEmail(emailAddr)
	if err != nil {
		return err
	}

	code := generateCode()
	expires := time.Now().Add(s.resetTTL)

	user.ResetCode = code
	user.ResetCodeExpiresAt = &expires
	if err := s.userRepo.Update(user); err != nil {
		return apperrors.InternalError(err)
	}

	body := fmt.Sprintf("Your password reset code is: %s\nIt expires in %d minutes.", code, int(s.resetTTL.Minutes()))
	if err := s.email.Send(user.Email, "Password reset", body); err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternalError, "email", "Failed to send reset email", http.StatusInternalServerError)
	}
	return nil
}

func (s *VerificationServiceImpl) ResetPassword(emailAddr, code, newPassword string) error {
	if len(newPassword) < 6 {
		return apperrors.ErrWeakPassword
	}

	user, err := s.findByEmail(emailAddr)
	if err != nil {
		return err
	}

	if err := checkCode(user.ResetCode, code, user.ResetCodeExpiresAt); err != nil {
		return err
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return apperrors.InternalError(err)
	}

	// UpdatePassword заодно очищает reset-код: код одноразовый
	if err := s.userRepo.UpdatePassword(user.ID, hash); err != nil {
		return apperrors.InternalError(err)
	}

	// Смена пароля отзывает активную сессию
	if err := s.userRepo.UpdateRefreshTokenHash(user.ID, ""); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *VerificationServiceImpl) findByEmail(emailAddr string) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(strings.ToLower(strings.TrimSpace(emailAddr)))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}

// checkCode проверяет совпадение и срок кода.
// Пустой хранимый код означает, что код уже использован или не выдавался.
func checkCode(stored, presented string, expiresAt *time.Time) error {
	if stored == "" || stored != presented {
		return apperrors.ErrInvalidVerificationCode
	}
	if expiresAt == nil || time.Now().After(*expiresAt) {
		return apperrors.ErrCodeExpired
	}
	return nil
}
