package chat

import "time"

type Message struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	ChatID    string    `gorm:"index;not null" json:"chat_id"`
	SenderID  string    `gorm:"index;not null" json:"sender_id"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	Reads []MessageRead `gorm:"foreignKey:MessageID" json:"reads,omitempty"`
}

// MessageRead - строка read-set'а сообщения. Только добавляется,
// никогда не удаляется.
type MessageRead struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"-"`
	MessageID string    `gorm:"index:idx_message_read,unique;not null" json:"-"`
	UserID    string    `gorm:"index:idx_message_read,unique;not null" json:"user_id"`
	ReadAt    time.Time `json:"read_at"`
}

// ReadBy возвращает id пользователей из read-set'а сообщения
func (m *Message) ReadBy() []string {
	ids := make([]string, 0, len(m.Reads))
	for _, r := range m.Reads {
		ids = append(ids, r.UserID)
	}
	return ids
}

// IsReadBy проверяет, есть ли пользователь в read-set'е сообщения
func (m *Message) IsReadBy(userID string) bool {
	for _, r := range m.Reads {
		if r.UserID == userID {
			return true
		}
	}
	return false
}
