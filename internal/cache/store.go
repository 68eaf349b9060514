package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound возвращается, когда ключ отсутствует или истек
var ErrNotFound = errors.New("cache: key not found")

// Store - key-value хранилище с TTL. За ним живет эфемерное состояние
// (OTP-коды), которое не должно попадать в постоянные записи: бэкенд
// можно заменить (Redis, память) без изменения контракта сервисов.
type Store interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}
