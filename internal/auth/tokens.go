package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims - полезная нагрузка access- и refresh-токенов
type Claims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// TokenService выпускает и проверяет подписанные токены.
// Access и refresh подписываются РАЗНЫМИ секретами: утечка
// access-секрета не дает подделать refresh-токены.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewTokenService создает TokenService.
// accessTTL обычно 15 минут, refreshTTL - 7 дней.
func NewTokenService(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (s *TokenService) AccessTTL() time.Duration  { return s.accessTTL }
func (s *TokenService) RefreshTTL() time.Duration { return s.refreshTTL }

// GenerateAccessToken выпускает короткоживущий access-токен.
// Проверка stateless: единственный механизм инвалидации - истечение срока.
func (s *TokenService) GenerateAccessToken(userID, email string) (string, error) {
	return s.generate(userID, email, s.accessSecret, s.accessTTL)
}

// GenerateRefreshToken выпускает долгоживущий refresh-токен
func (s *TokenService) GenerateRefreshToken(userID, email string) (string, error) {
	return s.generate(userID, email, s.refreshSecret, s.refreshTTL)
}

func (s *TokenService) generate(userID, email string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			// jti делает каждый выпущенный токен уникальным: без него два
			// токена, выпущенных в одну секунду, байт-в-байт совпадают и
			// ротация не отзывает предыдущий
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ParseAccessToken проверяет подпись и срок access-токена
func (s *TokenService) ParseAccessToken(tokenString string) (*Claims, error) {
	return s.parse(tokenString, s.accessSecret)
}

// ParseRefreshToken проверяет подпись и срок refresh-токена
func (s *TokenService) ParseRefreshToken(tokenString string) (*Claims, error) {
	return s.parse(tokenString, s.refreshSecret)
}

func (s *TokenService) parse(tokenString string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// HashRefreshToken возвращает SHA-256 hex сырого refresh-токена.
// Детерминированный хеш позволяет обратный поиск пользователя по
// предъявленному токену (logout) без хранения plaintext.
func HashRefreshToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// CompareRefreshTokenHash сравнивает хеш предъявленного токена
// с хранимым за константное время.
func CompareRefreshTokenHash(presented, storedHash string) bool {
	if storedHash == "" {
		return false
	}
	computed := HashRefreshToken(presented)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(storedHash)) == 1
}
