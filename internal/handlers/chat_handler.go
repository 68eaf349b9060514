package handlers

import (
	"net/http"

	"jobconnect_backend/internal/services"
	"jobconnect_backend/internal/services/dto"
	"jobconnect_backend/internal/validator"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	*BaseHandler
	chatService services.ChatService
}

func NewChatHandler(v *validator.Validator, chatService services.ChatService) *ChatHandler {
	return &ChatHandler{
		BaseHandler: NewBaseHandler(v),
		chatService: chatService,
	}
}

// StartChat - POST /api/v1/chats
func (h *ChatHandler) StartChat(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.StartChatRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	chat, err := h.chatService.StartOrGetChat(userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, chat)
}

// ListChats - GET /api/v1/chats
func (h *ChatHandler) ListChats(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	chats, err := h.chatService.ListUserChats(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"chats": chats})
}

// UnreadCounts - GET /api/v1/chats/unread-counts
func (h *ChatHandler) UnreadCounts(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	counts, err := h.chatService.UnreadCounts(userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread_counts": counts})
}

// ListMessages - GET /api/v1/chats/:chatID/messages
func (h *ChatHandler) ListMessages(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	page, pageSize := ParsePagination(c)
	messages, err := h.chatService.ListMessages(c.Param("chatID"), userID, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages, "page": page, "page_size": pageSize})
}

// SendMessage - POST /api/v1/chats/:chatID/messages
func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.SendMessageRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	msg, err := h.chatService.SendMessage(c.Param("chatID"), userID, req.Text)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, msg)
}

// MarkRead - POST /api/v1/chats/:chatID/read
func (h *ChatHandler) MarkRead(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.chatService.MarkRead(c.Param("chatID"), userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Messages marked as read"})
}
