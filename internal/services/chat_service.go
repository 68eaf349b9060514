package services

import (
	"errors"
	"strings"

	"jobconnect_backend/internal/logger"
	chatmodels "jobconnect_backend/internal/models/chat"
	"jobconnect_backend/internal/repositories"
	"jobconnect_backend/internal/services/dto"
	"jobconnect_backend/pkg/apperrors"
)

const defaultMessagePageSize = 20

// Broadcaster разносит события чата по подключенным websocket-клиентам.
// Интерфейс объявлен здесь, реализация живет в ws - без обратного импорта.
type Broadcaster interface {
	BroadcastToChat(chatID, event string, payload interface{})
}

type ChatService interface {
	StartOrGetChat(buyerID string, req *dto.StartChatRequest) (*chatmodels.Chat, error)
	GetChat(chatID, userID string) (*chatmodels.Chat, error)
	SendMessage(chatID, senderID, text string) (*dto.MessageResponse, error)
	ListMessages(chatID, userID string, page, pageSize int) ([]dto.MessageResponse, error)
	MarkRead(chatID, userID string) error
	ListUserChats(userID string) ([]dto.ChatSummary, error)
	UnreadCounts(userID string) (map[string]int64, error)
}

type ChatServiceImpl struct {
	chatRepo    repositories.ChatRepository
	userRepo    repositories.UserRepository
	broadcaster Broadcaster
}

func NewChatService(chatRepo repositories.ChatRepository, userRepo repositories.UserRepository) *ChatServiceImpl {
	return &ChatServiceImpl{chatRepo: chatRepo, userRepo: userRepo}
}

// SetBroadcaster подключает websocket-менеджер после его создания
// (менеджер сам зависит от ChatService)
func (s *ChatServiceImpl) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

func (s *ChatServiceImpl) StartOrGetChat(buyerID string, req *dto.StartChatRequest) (*chatmodels.Chat, error) {
	if buyerID == req.SellerID {
		return nil, apperrors.ErrSelfChat
	}

	if _, err := s.userRepo.FindByID(req.SellerID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	chat, err := s.chatRepo.FindOrCreate(req.ItemID, buyerID, req.SellerID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return chat, nil
}

// GetChat возвращает чат, если userID его участник
func (s *ChatServiceImpl) GetChat(chatID, userID string) (*chatmodels.Chat, error) {
	return s.requireParticipant(chatID, userID)
}

func (s *ChatServiceImpl) SendMessage(chatID, senderID, text string) (*dto.MessageResponse, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.ErrEmptyMessage
	}

	if _, err := s.requireParticipant(chatID, senderID); err != nil {
		return nil, err
	}

	msg := &chatmodels.Message{
		ChatID:   chatID,
		SenderID: senderID,
		Text:     text,
	}
	if err := s.chatRepo.CreateMessage(msg); err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := dto.NewMessageResponse(msg)

	// Доставка по websocket best-effort: сообщение уже в БД,
	// офлайн-клиенты получат его при следующей загрузке истории
	if s.broadcaster != nil {
		s.broadcaster.BroadcastToChat(chatID, "new_message", resp)
	}

	return resp, nil
}

func (s *ChatServiceImpl) ListMessages(chatID, userID string, page, pageSize int) ([]dto.MessageResponse, error) {
	if _, err := s.requireParticipant(chatID, userID); err != nil {
		return nil, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = defaultMessagePageSize
	}

	messages, err := s.chatRepo.FindMessages(chatID, page, pageSize)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	// Репозиторий отдает новые первыми (пагинация от конца),
	// клиенту история нужна в хронологическом порядке
	out := make([]dto.MessageResponse, 0, len(messages))
	for i := len(messages) - 1; i >= 0; i-- {
		out = append(out, *dto.NewMessageResponse(&messages[i]))
	}
	return out, nil
}

// MarkRead отмечает все входящие сообщения чата прочитанными.
// Повторный вызов - no-op.
func (s *ChatServiceImpl) MarkRead(chatID, userID string) error {
	if _, err := s.requireParticipant(chatID, userID); err != nil {
		return err
	}

	if err := s.chatRepo.MarkRead(chatID, userID); err != nil {
		return apperrors.InternalError(err)
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToChat(chatID, "messages_read", map[string]string{
			"chat_id": chatID,
			"user_id": userID,
		})
	}
	return nil
}

// UnreadCounts отдает количество непрочитанных сообщений по каждому чату.
// Чаты без непрочитанных в карту не попадают.
func (s *ChatServiceImpl) UnreadCounts(userID string) (map[string]int64, error) {
	unread, err := s.chatRepo.UnreadCounts(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	counts := make(map[string]int64, len(unread))
	for _, u := range unread {
		counts[u.ChatID] = u.Count
	}
	return counts, nil
}

func (s *ChatServiceImpl) ListUserChats(userID string) ([]dto.ChatSummary, error) {
	chats, err := s.chatRepo.FindByUser(userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	unreadByChat, err := s.UnreadCounts(userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]dto.ChatSummary, 0, len(chats))
	for i := range chats {
		c := &chats[i]

		summary := dto.ChatSummary{
			ID:            c.ID,
			ItemID:        c.ItemID,
			UnreadCount:   unreadByChat[c.ID],
			LastMessageAt: c.LastMessageAt,
		}
		for _, p := range c.Participants {
			summary.Participants = append(summary.Participants, p.UserID)
		}

		last, err := s.chatRepo.LastMessage(c.ID)
		if err != nil {
			logger.WithError(err).Error("failed to load last message", "chat_id", c.ID)
		} else if last != nil {
			summary.LastMessage = dto.NewMessageResponse(last)
		}

		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// requireParticipant возвращает чат, если userID его участник
func (s *ChatServiceImpl) requireParticipant(chatID, userID string) (*chatmodels.Chat, error) {
	chat, err := s.chatRepo.FindByID(chatID)
	if err != nil {
		if errors.Is(err, repositories.ErrChatNotFound) {
			return nil, apperrors.ErrChatNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	if !chat.HasParticipant(userID) {
		return nil, apperrors.ErrChatAccessDenied
	}
	return chat, nil
}
