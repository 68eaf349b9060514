package services

import (
	"fmt"
	"testing"

	"jobconnect_backend/internal/models"
	"jobconnect_backend/internal/services/dto"
	"jobconnect_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatFixture struct {
	users       *memUserRepo
	chats       *memChatRepo
	broadcaster *recordingBroadcaster
	svc         *ChatServiceImpl

	buyer  string
	seller string
	other  string
}

func newChatFixture(t *testing.T) *chatFixture {
	t.Helper()

	f := &chatFixture{
		users:       newMemUserRepo(),
		chats:       newMemChatRepo(),
		broadcaster: &recordingBroadcaster{},
	}
	f.svc = NewChatService(f.chats, f.users)
	f.svc.SetBroadcaster(f.broadcaster)

	for i, name := range []string{"Buyer", "Seller", "Other"} {
		u := &models.User{FullName: name, Email: fmt.Sprintf("user%d@example.com", i)}
		require.NoError(t, f.users.Create(u))
		switch i {
		case 0:
			f.buyer = u.ID
		case 1:
			f.seller = u.ID
		case 2:
			f.other = u.ID
		}
	}
	return f
}

func (f *chatFixture) startChat(t *testing.T) string {
	t.Helper()
	chat, err := f.svc.StartOrGetChat(f.buyer, &dto.StartChatRequest{ItemID: "item-1", SellerID: f.seller})
	require.NoError(t, err)
	return chat.ID
}

func TestStartOrGetChat_Idempotent(t *testing.T) {
	t.Parallel()
	f := newChatFixture(t)

	first, err := f.svc.StartOrGetChat(f.buyer, &dto.StartChatRequest{ItemID: "item-1", SellerID: f.seller})
	require.NoError(t, err)
	assert.True(t, first.HasParticipant(f.buyer))
	assert.True(t, first.HasParticipant(f.seller))

	// Повторный вызов и вызов с обратным порядком участников дают тот же чат
	second, err := f.svc.StartOrGetChat(f.buyer, &dto.StartChatRequest{ItemID: "item-1", SellerID: f.seller})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	mirrored, err := f.svc.StartOrGetChat(f.seller, &dto.StartChatRequest{ItemID: "item-1", SellerID: f.buyer})
	require.NoError(t, err)
	assert.Equal(t, first.ID, mirrored.ID)

	// Другой item - другой чат
	otherItem, err := f.svc.StartOrGetChat(f.buyer, &dto.StartChatRequest{ItemID: "item-2", SellerID: f.seller})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, otherItem.ID)
}

func TestStartOrGetChat_SelfChatRejected(t *testing.T) {
	t.Parallel()
	f := newChatFixture(t)

	_, err := f.svc.StartOrGetChat(f.buyer, &dto.StartChatRequest{ItemID: "item-1", SellerID: f.buyer})
	assert.ErrorIs(t, err, apperrors.ErrSelfChat)
}

func TestStartOrGetChat_UnknownSeller(t *testing.T) {
	t.Parallel()
	f := newChatFixture(t)

	_, err := f.svc.StartOrGetChat(f.buyer, &dto.StartChatRequest{ItemID: "item-1", SellerID: "ghost"})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestSendMessage_Success(t *testing.T) {
	t.Parallel()
	f := newChatFixture(t)
	chatID := f.startChat(t)

	msg, err := f.svc.SendMessage(chatID, f.buyer, "  hello there  ")
	require.NoError(t, err)
	assert.Equal(t, "hello there", msg.Text, "текст обрезается")
	assert.Contains(t, msg.ReadBy, f.buyer, "отправитель сразу в read-наборе")

	// Событие ушло в комнату
	events := f.broadcaster.all()
	require.Len(t, events, 1)
	assert.Equal(t, "new_message", events[0].Event)
	assert.Equal(t, chatID, events[0].ChatID)
}

func TestSendMessage_EmptyText(t *testing.T) {
	t.Parallel()
	f := newChatFixture(t)
	chatID := f.startChat(t)

	_, err := f.svc.SendMessage(chatID, f.buyer, "   \t\n ")
	assert.ErrorIs(t, err, apperrors.ErrEmptyMessage)
	assert.Empty(t, f.broadcaster.all())
}

func TestSendMessage_NonParticipant(t *testing.T) {
	t.Parallel()
	f := newChatFixture(t)
	chatID := f.startChat(t)

	_, err := f.svc.SendMessage(chatID, f.other, "let me in")
	assert.ErrorIs(t, err, apperrors.ErrChatAccessDenied)
}

func TestSendMessage_ChatNotFound(t *testing.T) {
	t.Parallel()
	f := newChatFixture(t)

	_, err := f.svc.SendMessage("missing-chat", f.buyer, "hello")
	assert.ErrorIs(t, err, apperrors.ErrChatNotFound)
}

func TestListMessages_ChronologicalOrder(t *testing.T) {
	t.Parallel()
	f := newChatFixture(t)
	chatID := f.startChat(t)

	for i := 1; i <= 5; i++ {
		_, err := f.svc.SendMessage(chatID, f.buyer, fmt.Sprintf("msg %d", i))
		require.NoError(t, err)
	}

	msgs, err := f.svc.ListMessages(chatID, f.seller, 1, 10)
	require.NoError(t, err)
	require.Len(t, msgs, 5)
	assert.Equal(t, "msg 1", msgs[0].Text)
	assert.Equal(t, "msg 5", msgs[4].Text)
}

func TestListMessages_Pagination(t *testing.T) {
	t.Parallel()
	f := newChatFixture(t)
	chatID := f.startChat(t)

	for i := 1; i <= 5; i++ {
		_, err := f.svc.SendMessage(chatID, f.buyer, fmt.Sprintf("msg %d", i))
		require.NoError(t, err)
	}

	// Первая страница - последние сообщения, в хронологическом порядке
	page1, err := f.svc.ListMessages(chatID, f.buyer, 1, 2)
	require.NoError(t, err)
	require.Len(t, page1, 2)
	assert.Equal(t, "msg 4", page1[0].Text)
	assert.Equal(t, "msg 5", page1[1].Text)

	page3, err := f.svc.ListMessages(chatID, f.buyer, 3, 2)
	require.NoError(t, err)
	require.Len(t, page3, 1)
	assert.Equal(t, "msg 1", page3[0].Text)
}

func TestListMessages_NonParticipant(t *testing.T) {
	t.Parallel()
	f := newChatFixture(t)
	chatID := f.startChat(t)

	_, err := f.svc.ListMessages(chatID, f.other, 1, 10)
	assert.ErrorIs(t, err, apperrors.ErrChatAccessDenied)
}

func TestMarkRead_Idempotent(t *testing.T) {
	t.Parallel()
	f := newChatFixture(t)
	chatID := f.startChat(t)

	_, err := f.svc.SendMessage(chatID, f.buyer, "unread one")
	require.NoError(t, err)
	_, err = f.svc.SendMessage(chatID, f.buyer, "unread two")
	require.NoError(t, err)

	unread, err := f.svc.ListUserChats(f.seller)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, int64(2), unread[0].UnreadCount)

	require.NoError(t, f.svc.MarkRead(chatID, f.seller))
	require.NoError(t, f.svc.MarkRead(chatID, f.seller), "повторный вызов - no-op")

	after, err := f.svc.ListUserChats(f.seller)
	require.NoError(t, err)
	assert.Equal(t, int64(0), after[0].UnreadCount)

	// Для отправителя собственные сообщения непрочитанными не считаются
	buyerChats, err := f.svc.ListUserChats(f.buyer)
	require.NoError(t, err)
	assert.Equal(t, int64(0), buyerChats[0].UnreadCount)
}

func TestListUserChats_Summary(t *testing.T) {
	t.Parallel()
	f := newChatFixture(t)
	chatID := f.startChat(t)

	_, err := f.svc.SendMessage(chatID, f.buyer, "first")
	require.NoError(t, err)
	last, err := f.svc.SendMessage(chatID, f.buyer, "latest")
	require.NoError(t, err)

	chats, err := f.svc.ListUserChats(f.seller)
	require.NoError(t, err)
	require.Len(t, chats, 1)

	summary := chats[0]
	assert.Equal(t, chatID, summary.ID)
	assert.ElementsMatch(t, []string{f.buyer, f.seller}, summary.Participants)
	require.NotNil(t, summary.LastMessage)
	assert.Equal(t, last.ID, summary.LastMessage.ID)
	assert.NotNil(t, summary.LastMessageAt)

	// У третьего пользователя чатов нет
	none, err := f.svc.ListUserChats(f.other)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUnreadCounts_PerChat(t *testing.T) {
	t.Parallel()
	f := newChatFixture(t)
	chatID := f.startChat(t)

	_, err := f.svc.SendMessage(chatID, f.buyer, "hello")
	require.NoError(t, err)
	_, err = f.svc.SendMessage(chatID, f.buyer, "still there?")
	require.NoError(t, err)

	counts, err := f.svc.UnreadCounts(f.seller)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[chatID])

	// Свои сообщения не считаются, чаты без непрочитанных отсутствуют
	counts, err = f.svc.UnreadCounts(f.buyer)
	require.NoError(t, err)
	assert.Empty(t, counts)

	require.NoError(t, f.svc.MarkRead(chatID, f.seller))
	counts, err = f.svc.UnreadCounts(f.seller)
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestGetChat_EnforcesMembership(t *testing.T) {
	t.Parallel()
	f := newChatFixture(t)
	chatID := f.startChat(t)

	chat, err := f.svc.GetChat(chatID, f.buyer)
	require.NoError(t, err)
	assert.Equal(t, chatID, chat.ID)

	_, err = f.svc.GetChat(chatID, f.other)
	assert.ErrorIs(t, err, apperrors.ErrChatAccessDenied)
}
