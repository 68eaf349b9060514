package ws

import (
	"sync"

	"jobconnect_backend/internal/logger"
	"jobconnect_backend/internal/services"
)

// Event - исходящий конверт для клиентов
type Event struct {
	Event   string      `json:"event"`
	ChatID  string      `json:"chat_id,omitempty"`
	Payload interface{} `json:"payload,omitempty"`
}

// Manager держит подключенных клиентов и комнаты (одна комната - один чат).
// Реализует services.Broadcaster.
type Manager struct {
	clients    map[*Client]bool
	rooms      map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex

	chatService services.ChatService
}

func NewManager(chatService services.ChatService) *Manager {
	return &Manager{
		clients:     make(map[*Client]bool),
		rooms:       make(map[string]map[*Client]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		chatService: chatService,
	}
}

// Run обслуживает регистрацию и отключение клиентов.
// Запускается одной горутиной при старте приложения.
func (m *Manager) Run() {
	for {
		select {
		case client := <-m.register:
			m.mu.Lock()
			m.clients[client] = true
			total := len(m.clients)
			m.mu.Unlock()
			logger.Info("websocket client connected", "user_id", client.UserID, "total", total)

		case client := <-m.unregister:
			m.removeClient(client)
		}
	}
}

func (m *Manager) removeClient(client *Client) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.clients[client]; !ok {
		return
	}
	delete(m.clients, client)
	for chatID, room := range m.rooms {
		delete(room, client)
		if len(room) == 0 {
			delete(m.rooms, chatID)
		}
	}
	close(client.send)
	logger.Info("websocket client disconnected", "user_id", client.UserID, "total", len(m.clients))
}

// JoinRoom подписывает клиента на события чата.
// Членство проверяется сервисом: чужой чат подключить нельзя.
func (m *Manager) JoinRoom(client *Client, chatID string) error {
	if _, err := m.chatService.GetChat(chatID, client.UserID); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	room, ok := m.rooms[chatID]
	if !ok {
		room = make(map[*Client]bool)
		m.rooms[chatID] = room
	}
	room[client] = true
	return nil
}

func (m *Manager) LeaveRoom(client *Client, chatID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if room, ok := m.rooms[chatID]; ok {
		delete(room, client)
		if len(room) == 0 {
			delete(m.rooms, chatID)
		}
	}
}

// BroadcastToChat рассылает событие всем подписчикам комнаты.
// Клиент с забитым каналом отключается, а не тормозит остальных.
func (m *Manager) BroadcastToChat(chatID, event string, payload interface{}) {
	msg := Event{Event: event, ChatID: chatID, Payload: payload}

	m.mu.RLock()
	var slow []*Client
	for client := range m.rooms[chatID] {
		select {
		case client.send <- msg:
		default:
			slow = append(slow, client)
		}
	}
	m.mu.RUnlock()

	for _, client := range slow {
		logger.Warn("dropping slow websocket client", "user_id", client.UserID, "chat_id", chatID)
		go func(c *Client) { m.unregister <- c }(client)
	}
}

// ClientCount возвращает число подключенных клиентов
func (m *Manager) ClientCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}
