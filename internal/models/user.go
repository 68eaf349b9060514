package models

import "time"

type User struct {
	BaseModel
	FullName string    `json:"full_name"`
	Email    string    `gorm:"uniqueIndex;not null" json:"email"`
	Phone    *string   `gorm:"uniqueIndex" json:"phone,omitempty"`
	Role     *UserRole `gorm:"type:varchar(20)" json:"role,omitempty"`
	Avatar   string    `json:"avatar,omitempty"`

	// Пусто для social-only аккаунтов
	PasswordHash *string `json:"-"`

	IsEmailVerified bool `gorm:"default:false" json:"is_email_verified"`
	IsPhoneVerified bool `gorm:"default:false" json:"is_phone_verified"`

	// Один активный код на канал; очищается при успешной проверке
	EmailVerificationCode string     `json:"-"`
	EmailCodeExpiresAt    *time.Time `json:"-"`
	PhoneVerificationCode string     `json:"-"`
	PhoneCodeExpiresAt    *time.Time `json:"-"`

	ResetCode          string     `json:"-"`
	ResetCodeExpiresAt *time.Time `json:"-"`

	// SHA-256 текущего refresh-токена. Не более одного валидного
	// refresh-токена на пользователя: перезапись отзывает предыдущий.
	RefreshTokenHash string `gorm:"index" json:"-"`

	FailedLoginAttempts int `gorm:"default:0" json:"-"`

	// Идентификатор во внешнем identity-провайдере
	ExternalID *string `gorm:"index" json:"-"`
}

// IsSocialOnly - аккаунт создан через social login и не имеет пароля
func (u *User) IsSocialOnly() bool {
	return u.PasswordHash == nil
}
