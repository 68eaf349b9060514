package repositories

import (
	"errors"
	"time"

	chatmodels "jobconnect_backend/internal/models/chat"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrChatNotFound = errors.New("chat not found")
)

// ChatUnread - количество непрочитанных сообщений в одном чате
type ChatUnread struct {
	ChatID string `json:"chat_id"`
	Count  int64  `json:"count"`
}

type ChatRepository interface {
	// FindOrCreate атомарно находит или создает чат по ключу
	// (item, пара участников). Гонка двух одновременных вызовов
	// разрешается уникальным индексом по pair_key.
	FindOrCreate(itemID, userA, userB string) (*chatmodels.Chat, error)
	FindByID(chatID string) (*chatmodels.Chat, error)
	FindByUser(userID string) ([]chatmodels.Chat, error)

	// CreateMessage выполняет связанную запись одной транзакцией:
	// сообщение + отметка о прочтении отправителем + bump чата.
	CreateMessage(msg *chatmodels.Message) error
	FindMessages(chatID string, page, pageSize int) ([]chatmodels.Message, error)
	LastMessage(chatID string) (*chatmodels.Message, error)

	MarkRead(chatID, userID string) error
	UnreadCounts(userID string) ([]ChatUnread, error)
}

type ChatRepositoryImpl struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &ChatRepositoryImpl{db: db}
}

func (r *ChatRepositoryImpl) FindOrCreate(itemID, userA, userB string) (*chatmodels.Chat, error) {
	pairKey := chatmodels.PairKey(itemID, userA, userB)

	var existing chatmodels.Chat
	err := r.db.Preload("Participants").Where("pair_key = ?", pairKey).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	now := time.Now()
	created := chatmodels.Chat{
		ItemID:  itemID,
		PairKey: pairKey,
		Participants: []chatmodels.ChatParticipant{
			{UserID: userA, JoinedAt: now},
			{UserID: userB, JoinedAt: now},
		},
	}

	if err := r.db.Create(&created).Error; err != nil {
		// Параллельный вызов успел первым - возвращаем его чат
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			var winner chatmodels.Chat
			if ferr := r.db.Preload("Participants").Where("pair_key = ?", pairKey).First(&winner).Error; ferr != nil {
				return nil, ferr
			}
			return &winner, nil
		}
		return nil, err
	}
	return &created, nil
}

func (r *ChatRepositoryImpl) FindByID(chatID string) (*chatmodels.Chat, error) {
	var c chatmodels.Chat
	err := r.db.Preload("Participants").First(&c, "id = ?", chatID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChatNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *ChatRepositoryImpl) FindByUser(userID string) ([]chatmodels.Chat, error) {
	var chats []chatmodels.Chat
	err := r.db.Preload("Participants").
		Joins("JOIN chat_participants cp ON cp.chat_id = chats.id AND cp.user_id = ?", userID).
		Order("chats.updated_at DESC").
		Find(&chats).Error
	return chats, err
}

func (r *ChatRepositoryImpl) CreateMessage(msg *chatmodels.Message) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}

		// Отправитель сразу входит в read-set своего сообщения
		read := chatmodels.MessageRead{
			MessageID: msg.ID,
			UserID:    msg.SenderID,
			ReadAt:    msg.CreatedAt,
		}
		if err := tx.Create(&read).Error; err != nil {
			return err
		}
		msg.Reads = []chatmodels.MessageRead{read}

		return tx.Model(&chatmodels.Chat{}).Where("id = ?", msg.ChatID).
			Updates(map[string]interface{}{
				"last_message_at": msg.CreatedAt,
				"updated_at":      time.Now(),
			}).Error
	})
}

// FindMessages возвращает страницу сообщений от новых к старым.
// Разворот в хронологический порядок делает сервис.
func (r *ChatRepositoryImpl) FindMessages(chatID string, page, pageSize int) ([]chatmodels.Message, error) {
	var messages []chatmodels.Message
	err := r.db.Preload("Reads").
		Where("chat_id = ?", chatID).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&messages).Error
	return messages, err
}

func (r *ChatRepositoryImpl) LastMessage(chatID string) (*chatmodels.Message, error) {
	var msg chatmodels.Message
	err := r.db.Where("chat_id = ?", chatID).Order("created_at DESC").First(&msg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &msg, nil
}

func (r *ChatRepositoryImpl) MarkRead(chatID, userID string) error {
	var unread []chatmodels.Message
	err := r.db.
		Where("chat_id = ?", chatID).
		Where("NOT EXISTS (SELECT 1 FROM message_reads mr WHERE mr.message_id = messages.id AND mr.user_id = ?)", userID).
		Find(&unread).Error
	if err != nil {
		return err
	}
	if len(unread) == 0 {
		return nil
	}

	now := time.Now()
	reads := make([]chatmodels.MessageRead, 0, len(unread))
	for _, msg := range unread {
		reads = append(reads, chatmodels.MessageRead{
			MessageID: msg.ID,
			UserID:    userID,
			ReadAt:    now,
		})
	}

	// ON CONFLICT DO NOTHING: параллельный markRead не должен падать
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&reads).Error
}

func (r *ChatRepositoryImpl) UnreadCounts(userID string) ([]ChatUnread, error) {
	var counts []ChatUnread
	err := r.db.Model(&chatmodels.Message{}).
		Select("messages.chat_id AS chat_id, COUNT(*) AS count").
		Joins("JOIN chat_participants cp ON cp.chat_id = messages.chat_id AND cp.user_id = ?", userID).
		Where("messages.sender_id != ?", userID).
		Where("NOT EXISTS (SELECT 1 FROM message_reads mr WHERE mr.message_id = messages.id AND mr.user_id = ?)", userID).
		Group("messages.chat_id").
		Scan(&counts).Error
	return counts, err
}
