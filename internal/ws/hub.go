package ws

import (
	"encoding/json"
	"sync"

	"github.com/ahavlova/portfolio-backend/internal/goroutine"
	"github.com/ahavlova/portfolio-backend/internal/logger"
	"github.com/ahavlova/portfolio-backend/internal/service"
)

// Hub ведёт живую ленту активности для админки: каждое подтверждённое
// действие клиента в галерее рассылается всем открытым подключениям.
// Аудитория одна (администратор), поэтому адресации по пользователям нет.
type Hub struct {
	mu         sync.RWMutex
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
}

// NewHub создаёт новый хаб.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 32),
	}
}

// Run запускает главный цикл хаба.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case payload := <-h.broadcast:
			h.send(payload)
		}
	}
}

// Register добавляет подключение.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister удаляет подключение.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// BroadcastSelection рассылает подтверждённое событие выбора. Сообщение
// следует контракту WebSocket API: "type" — имя события, "data" — нагрузка.
func (h *Hub) BroadcastSelection(event service.SelectionEvent) {
	payload := map[string]any{
		"type": "selection_updated",
		"data": event,
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		logger.Log.WithError(err).Error("ws: не удалось сериализовать событие")
		return
	}

	select {
	case h.broadcast <- raw:
	default:
		logger.Log.Warn("ws: очередь рассылки переполнена, событие пропущено")
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = struct{}{}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, client)
}

func (h *Hub) send(payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		select {
		case client.send <- payload:
		default:
			// Медленное подключение отключается, чтобы не тормозить остальных.
			goroutine.SafeGo(client.Close)
		}
	}
}
