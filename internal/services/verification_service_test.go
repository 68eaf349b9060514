package services

import (
	"testing"
	"time"

	"jobconnect_backend/internal/auth"
	"jobconnect_backend/internal/services/dto"
	"jobconnect_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyEmail_Success(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)

	reg, err := f.auth.Register(registerRequest())
	require.NoError(t, err)

	code := f.users.get(reg.User.ID).EmailVerificationCode
	require.Len(t, code, 6)

	require.NoError(t, f.verification.VerifyEmail("jane@example.com", code))

	stored := f.users.get(reg.User.ID)
	assert.True(t, stored.IsEmailVerified)
	assert.Empty(t, stored.EmailVerificationCode, "код одноразовый и очищается")
	assert.Nil(t, stored.EmailCodeExpiresAt)
}

func TestVerifyEmail_WrongCode(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)

	reg, err := f.auth.Register(registerRequest())
	require.NoError(t, err)

	err = f.verification.VerifyEmail("jane@example.com", "000000")
	if f.users.get(reg.User.ID).EmailVerificationCode == "000000" {
		t.Skip("собранный код совпал со сгенерированным")
	}
	assert.ErrorIs(t, err, apperrors.ErrInvalidVerificationCode)
	assert.False(t, f.users.get(reg.User.ID).IsEmailVerified)
}

func TestVerifyEmail_SecondCallIdempotent(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)

	reg, err := f.auth.Register(registerRequest())
	require.NoError(t, err)

	code := f.users.get(reg.User.ID).EmailVerificationCode
	require.NoError(t, f.verification.VerifyEmail("jane@example.com", code))

	// Уже подтвержден - повторная verify не ошибка
	assert.NoError(t, f.verification.VerifyEmail("jane@example.com", code))
}

func TestVerifyEmail_ExpiredCode(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)

	reg, err := f.auth.Register(registerRequest())
	require.NoError(t, err)

	// Отодвигаем срок в прошлое
	stored := f.users.get(reg.User.ID)
	past := time.Now().Add(-time.Minute)
	stored.EmailCodeExpiresAt = &past

	err = f.verification.VerifyEmail("jane@example.com", stored.EmailVerificationCode)
	assert.ErrorIs(t, err, apperrors.ErrCodeExpired)
}

func TestVerifyPhone_Success(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)

	reg, err := f.auth.Register(registerRequest())
	require.NoError(t, err)

	code := f.users.get(reg.User.ID).PhoneVerificationCode
	require.Len(t, code, 6)

	// Код ушел по SMS
	last, ok := f.sms.last()
	require.True(t, ok)
	assert.Contains(t, last.Body, code)

	require.NoError(t, f.verification.VerifyPhone("650000001", code))
	assert.True(t, f.users.get(reg.User.ID).IsPhoneVerified)
}

func TestResendEmailCode_ReplacesCode(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)

	reg, err := f.auth.Register(registerRequest())
	require.NoError(t, err)

	first := f.users.get(reg.User.ID).EmailVerificationCode
	require.NoError(t, f.verification.ResendEmailCode("jane@example.com"))
	second := f.users.get(reg.User.ID).EmailVerificationCode

	// Старый код больше не подходит (если коды совпали, проверка бессмысленна)
	if first != second {
		assert.ErrorIs(t, f.verification.VerifyEmail("jane@example.com", first),
			apperrors.ErrInvalidVerificationCode)
	}
	assert.NoError(t, f.verification.VerifyEmail("jane@example.com", second))
	assert.Equal(t, 2, f.email.count())
}

func TestResendEmailCode_AlreadyVerified(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)
	f.registerVerified(t)

	err := f.verification.ResendEmailCode("jane@example.com")
	require.Error(t, err)
}

func TestResetPassword_FullFlow(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)
	reg := f.registerVerified(t)

	require.NoError(t, f.verification.RequestPasswordReset("jane@example.com"))
	code := f.users.get(reg.User.ID).ResetCode
	require.Len(t, code, 6)

	require.NoError(t, f.verification.ResetPassword("jane@example.com", code, "newsecret1"))

	// Старый пароль не подходит, новый работает
	_, err := f.auth.Login(&dto.LoginRequest{Email: "jane@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	_, err = f.auth.Login(&dto.LoginRequest{Email: "jane@example.com", Password: "newsecret1"})
	assert.NoError(t, err)

	// Reset-код одноразовый
	err = f.verification.ResetPassword("jane@example.com", code, "anothersecret1")
	assert.ErrorIs(t, err, apperrors.ErrInvalidVerificationCode)
}

func TestResetPassword_RevokesSession(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)
	f.registerVerified(t)

	login, err := f.auth.Login(&dto.LoginRequest{Email: "jane@example.com", Password: "secret123"})
	require.NoError(t, err)

	require.NoError(t, f.verification.RequestPasswordReset("jane@example.com"))
	code := f.users.get(login.User.ID).ResetCode
	require.NoError(t, f.verification.ResetPassword("jane@example.com", code, "newsecret1"))

	// Смена пароля отзывает активный refresh-токен
	_, err = f.auth.Refresh(login.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestResetPassword_ExpiredCode(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)
	reg := f.registerVerified(t)

	require.NoError(t, f.verification.RequestPasswordReset("jane@example.com"))

	stored := f.users.get(reg.User.ID)
	past := time.Now().Add(-time.Minute)
	stored.ResetCodeExpiresAt = &past

	err := f.verification.ResetPassword("jane@example.com", stored.ResetCode, "newsecret1")
	assert.ErrorIs(t, err, apperrors.ErrCodeExpired)
}

func TestResetPassword_UnknownEmail(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)

	err := f.verification.RequestPasswordReset("ghost@example.com")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestClearExpiredCodes(t *testing.T) {
	t.Parallel()
	f := newAuthFixture(t)

	reg, err := f.auth.Register(registerRequest())
	require.NoError(t, err)

	stored := f.users.get(reg.User.ID)
	past := time.Now().Add(-time.Minute)
	stored.EmailCodeExpiresAt = &past
	stored.PhoneCodeExpiresAt = &past

	require.NoError(t, f.users.ClearExpiredCodes())

	stored = f.users.get(reg.User.ID)
	assert.Empty(t, stored.EmailVerificationCode)
	assert.Empty(t, stored.PhoneVerificationCode)
	assert.Nil(t, stored.EmailCodeExpiresAt)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	t.Parallel()

	hash, err := auth.HashPassword("secret123")
	require.NoError(t, err)
	assert.True(t, auth.CheckPasswordHash("secret123", hash))
	assert.False(t, auth.CheckPasswordHash("secret124", hash))
}
