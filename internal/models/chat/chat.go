package chat

import (
	"sort"
	"strings"
	"time"
)

// Chat - диалог ровно двух участников вокруг одного объявления.
type Chat struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	ItemID string `gorm:"index;not null" json:"item_id"`

	// Детерминированный ключ (item, отсортированная пара участников).
	// Уникальный индекс закрывает гонку lookup-then-create: два
	// одновременных StartOrGetChat не создадут дубликат.
	PairKey string `gorm:"uniqueIndex;not null" json:"-"`

	LastMessageAt *time.Time `gorm:"index" json:"last_message_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Participants []ChatParticipant `gorm:"foreignKey:ChatID" json:"participants"`
}

type ChatParticipant struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"-"`
	ChatID string `gorm:"index:idx_chat_participant,unique;not null" json:"-"`
	UserID string `gorm:"index:idx_chat_participant,unique;index;not null" json:"user_id"`

	JoinedAt time.Time `json:"joined_at"`
}

// PairKey строит ключ чата из объявления и пары пользователей.
// Порядок участников не важен.
func PairKey(itemID, userA, userB string) string {
	pair := []string{userA, userB}
	sort.Strings(pair)
	return strings.Join([]string{itemID, pair[0], pair[1]}, ":")
}

// HasParticipant проверяет членство по предзагруженным участникам
func (c *Chat) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}
