package sms

import (
	"jobconnect_backend/internal/logger"
)

// Sender - внешний канал доставки SMS. Транспорт (Twilio, Vonage и т.п.)
// подключается снаружи; ядро знает только эту сигнатуру.
type Sender interface {
	Send(to, text string) error
}

// LogSender пишет SMS в лог вместо реальной отправки.
// Используется, пока SMS-канал выключен в конфигурации.
type LogSender struct{}

func NewLogSender() *LogSender {
	return &LogSender{}
}

func (s *LogSender) Send(to, text string) error {
	logger.Info("sms dispatch (log only)", "to", to)
	return nil
}
