package repositories

import (
	"errors"
	"time"

	"jobconnect_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

type UserRepository interface {
	FindByID(id string) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	FindByPhone(phone string) (*models.User, error)
	// FindByEmailOrPhone ищет по любому из двух идентификаторов (логин-форма)
	FindByEmailOrPhone(email, phone string) (*models.User, error)
	// FindByRefreshTokenHash - обратный поиск для logout
	FindByRefreshTokenHash(hash string) (*models.User, error)

	Create(user *models.User) error
	Update(user *models.User) error

	UpdateRefreshTokenHash(userID, hash string) error
	IncrementFailedLogins(userID string) error
	ResetFailedLogins(userID string) error
	UpdateRole(userID string, role models.UserRole) error
	VerifyEmail(userID string) error
	VerifyPhone(userID string) error
	UpdatePassword(userID, passwordHash string) error

	// ClearExpiredCodes очищает протухшие verification/reset коды (worker)
	ClearExpiredCodes() error
}

type UserRepositoryImpl struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &UserRepositoryImpl{db: db}
}

func (r *UserRepositoryImpl) FindByID(id string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByPhone(phone string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "phone = ?", phone).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByEmailOrPhone(email, phone string) (*models.User, error) {
	var user models.User
	query := r.db.Where("email = ?", email)
	if phone != "" {
		query = r.db.Where("email = ? OR phone = ?", email, phone)
	}
	err := query.First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) FindByRefreshTokenHash(hash string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "refresh_token_hash = ? AND refresh_token_hash != ''", hash).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepositoryImpl) Create(user *models.User) error {
	// Предварительная проверка занятости email/телефона. Уникальные
	// индексы в БД остаются последней линией защиты от гонки.
	var count int64
	query := r.db.Model(&models.User{}).Where("email = ?", user.Email)
	if user.Phone != nil {
		query = r.db.Model(&models.User{}).Where("email = ? OR phone = ?", user.Email, *user.Phone)
	}
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrUserAlreadyExists
	}

	if err := r.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrUserAlreadyExists
		}
		return err
	}
	return nil
}

func (r *UserRepositoryImpl) Update(user *models.User) error {
	result := r.db.Model(user).Updates(map[string]interface{}{
		"full_name":               user.FullName,
		"email":                   user.Email,
		"phone":                   user.Phone,
		"role":                    user.Role,
		"avatar":                  user.Avatar,
		"password_hash":           user.PasswordHash,
		"is_email_verified":       user.IsEmailVerified,
		"is_phone_verified":       user.IsPhoneVerified,
		"email_verification_code": user.EmailVerificationCode,
		"email_code_expires_at":   user.EmailCodeExpiresAt,
		"phone_verification_code": user.PhoneVerificationCode,
		"phone_code_expires_at":   user.PhoneCodeExpiresAt,
		"reset_code":              user.ResetCode,
		"reset_code_expires_at":   user.ResetCodeExpiresAt,
		"refresh_token_hash":      user.RefreshTokenHash,
		"failed_login_attempts":   user.FailedLoginAttempts,
		"updated_at":              time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) UpdateRefreshTokenHash(userID, hash string) error {
	return r.updateFields(userID, map[string]interface{}{
		"refresh_token_hash": hash,
	})
}

func (r *UserRepositoryImpl) IncrementFailedLogins(userID string) error {
	result := r.db.Model(&models.User{}).Where("id = ?", userID).
		UpdateColumn("failed_login_attempts", gorm.Expr("failed_login_attempts + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepositoryImpl) ResetFailedLogins(userID string) error {
	return r.updateFields(userID, map[string]interface{}{
		"failed_login_attempts": 0,
	})
}

func (r *UserRepositoryImpl) UpdateRole(userID string, role models.UserRole) error {
	return r.updateFields(userID, map[string]interface{}{
		"role": role,
	})
}

func (r *UserRepositoryImpl) VerifyEmail(userID string) error {
	return r.updateFields(userID, map[string]interface{}{
		"is_email_verified":       true,
		"email_verification_code": "",
		"email_code_expires_at":   nil,
	})
}

func (r *UserRepositoryImpl) VerifyPhone(userID string) error {
	return r.updateFields(userID, map[string]interface{}{
		"is_phone_verified":       true,
		"phone_verification_code": "",
		"phone_code_expires_at":   nil,
	})
}

func (r *UserRepositoryImpl) UpdatePassword(userID, passwordHash string) error {
	return r.updateFields(userID, map[string]interface{}{
		"password_hash":         passwordHash,
		"reset_code":            "",
		"reset_code_expires_at": nil,
	})
}

func (r *UserRepositoryImpl) ClearExpiredCodes() error {
	now := time.Now()

	if err := r.db.Model(&models.User{}).
		Where("email_code_expires_at IS NOT NULL AND email_code_expires_at < ?", now).
		Updates(map[string]interface{}{"email_verification_code": "", "email_code_expires_at": nil}).Error; err != nil {
		return err
	}

	if err := r.db.Model(&models.User{}).
		Where("phone_code_expires_at IS NOT NULL AND phone_code_expires_at < ?", now).
		Updates(map[string]interface{}{"phone_verification_code": "", "phone_code_expires_at": nil}).Error; err != nil {
		return err
	}

	return r.db.Model(&models.User{}).
		Where("reset_code_expires_at IS NOT NULL AND reset_code_expires_at < ?", now).
		Updates(map[string]interface{}{"reset_code": "", "reset_code_expires_at": nil}).Error
}

func (r *UserRepositoryImpl) updateFields(userID string, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	result := r.db.Model(&models.User{}).Where("id = ?", userID).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
