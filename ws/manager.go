package ws

import (
	"context"
	"sync"

	"campusjobs_backend/internal/algorithms"
	"campusjobs_backend/internal/auth"
	"campusjobs_backend/internal/logger"
)

const broadcastBuffer = 256

// FeedEvent - сообщение, которое получает клиент
type FeedEvent struct {
	Type string              `json:"type"`
	Item algorithms.FeedItem `json:"item"`
}

const EventFeedItem = "feed.item"

// WebSocketManager рассылает новые элементы ленты подключенным клиентам.
// Реализует services.FeedPublisher.
type WebSocketManager struct {
	clients   map[*Client]struct{}
	broadcast chan algorithms.FeedItem
	mu        sync.RWMutex
}

func NewWebSocketManager() *WebSocketManager {
	return &WebSocketManager{
		clients:   make(map[*Client]struct{}),
		broadcast: make(chan algorithms.FeedItem, broadcastBuffer),
	}
}

// Run обслуживает рассылку до отмены ctx
func (manager *WebSocketManager) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			manager.closeAll()
			return

		case item := <-manager.broadcast:
			manager.broadcastItem(item)
		}
	}
}

// Publish ставит элемент в очередь рассылки и не блокирует запрос.
// При переполненной очереди элемент отбрасывается: клиенты получат его при следующей загрузке ленты.
func (manager *WebSocketManager) Publish(item algorithms.FeedItem) {
	select {
	case manager.broadcast <- item:
	default:
		logger.Warn("feed broadcast queue is full, dropping item", "item_id", item.ID, "kind", item.Kind)
	}
}

func (manager *WebSocketManager) broadcastItem(item algorithms.FeedItem) {
	manager.mu.RLock()
	var slow []*Client
	for client := range manager.clients {
		select {
		case client.Send <- FeedEvent{Type: EventFeedItem, Item: personalize(item, client.Actor)}:
		default:
			slow = append(slow, client)
		}
	}
	manager.mu.RUnlock()

	for _, client := range slow {
		logger.Warn("feed client is too slow, disconnecting", "client_id", client.ID)
		manager.remove(client)
	}
}

// personalize пересчитывает can_delete для получателя
func personalize(item algorithms.FeedItem, viewer auth.Actor) algorithms.FeedItem {
	res := auth.Resource{Kind: auth.KindPost, OwnerID: item.Author.ID}
	if item.Kind == algorithms.KindJob {
		res.Kind = auth.KindJobPosting
	}
	item.CanDelete = auth.Evaluate(viewer, auth.ActionDelete, res).Allowed()
	return item
}

func (manager *WebSocketManager) add(client *Client) {
	manager.mu.Lock()
	manager.clients[client] = struct{}{}
	total := len(manager.clients)
	manager.mu.Unlock()
	logger.Debug("feed client registered", "client_id", client.ID, "user_id", client.Actor.UserID(), "total", total)
}

// sendTo отправляет сообщение одному клиенту, если он еще подключен
func (manager *WebSocketManager) sendTo(client *Client, msg any) bool {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	if _, ok := manager.clients[client]; !ok {
		return false
	}
	select {
	case client.Send <- msg:
		return true
	default:
		return false
	}
}

func (manager *WebSocketManager) remove(client *Client) {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	if _, ok := manager.clients[client]; ok {
		close(client.Send)
		delete(manager.clients, client)
		logger.Debug("feed client unregistered", "client_id", client.ID, "total", len(manager.clients))
	}
}

func (manager *WebSocketManager) closeAll() {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	for client := range manager.clients {
		close(client.Send)
		delete(manager.clients, client)
	}
}

// GetClientCount возвращает количество подключенных клиентов
func (manager *WebSocketManager) GetClientCount() int {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	return len(manager.clients)
}
