package dto

import (
	"time"

	"jobconnect_backend/internal/models/chat"
)

type StartChatRequest struct {
	ItemID   string `json:"item_id" binding:"required" validate:"required"`
	SellerID string `json:"seller_id" binding:"required" validate:"required"`
}

type SendMessageRequest struct {
	Text string `json:"text" binding:"required" validate:"required"`
}

type MessageResponse struct {
	ID        string    `json:"id"`
	ChatID    string    `json:"chat_id"`
	SenderID  string    `json:"sender_id"`
	Text      string    `json:"text"`
	ReadBy    []string  `json:"read_by"`
	CreatedAt time.Time `json:"created_at"`
}

type ChatSummary struct {
	ID            string           `json:"id"`
	ItemID        string           `json:"item_id"`
	Participants  []string         `json:"participants"`
	LastMessage   *MessageResponse `json:"last_message,omitempty"`
	UnreadCount   int64            `json:"unread_count"`
	LastMessageAt *time.Time       `json:"last_message_at,omitempty"`
}

func NewMessageResponse(m *chat.Message) *MessageResponse {
	return &MessageResponse{
		ID:        m.ID,
		ChatID:    m.ChatID,
		SenderID:  m.SenderID,
		Text:      m.Text,
		ReadBy:    m.ReadBy(),
		CreatedAt: m.CreatedAt,
	}
}
