package email

// Provider - внешний канал доставки email. Сервисы не зависят
// от конкретного транспорта и не ждут подтверждения доставки.
type Provider interface {
	Send(to, subject, body string) error
}
