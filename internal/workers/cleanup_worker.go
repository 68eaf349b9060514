package workers

import (
	"context"
	"time"

	"jobconnect_backend/internal/logger"
	"jobconnect_backend/internal/repositories"
)

// CleanupWorker периодически вычищает протухшие verification/reset коды.
// Коды проверяются на срок и при использовании, так что sweep только
// гигиенический: он не влияет на корректность, лишь убирает мусор из БД.
type CleanupWorker struct {
	userRepo repositories.UserRepository
	interval time.Duration
}

func NewCleanupWorker(userRepo repositories.UserRepository, interval time.Duration) *CleanupWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &CleanupWorker{userRepo: userRepo, interval: interval}
}

// Run крутит sweep до отмены контекста. Запускается горутиной.
func (w *CleanupWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	logger.Info("cleanup worker started", "interval", w.interval.String())

	for {
		select {
		case <-ctx.Done():
			logger.Info("cleanup worker stopped")
			return
		case <-ticker.C:
			if err := w.userRepo.ClearExpiredCodes(); err != nil {
				logger.WithError(err).Error("failed to clear expired codes")
			} else {
				logger.Debug("expired codes cleared")
			}
		}
	}
}
