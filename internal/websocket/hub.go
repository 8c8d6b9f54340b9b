package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"spark-journal-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const clusterChannel = "cluster_events"

// Hub fans spark events out to connected editor sessions. Multi-device: one
// user may hold several connections. Redis pub/sub relays events across
// instances; without Redis the hub degrades to single-instance delivery.
type Hub struct {
	clients map[uuid.UUID][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	rdb *redis.Client

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"user_id": client.UserID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.UserID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.UserID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.UserID]) == 0 {
					delete(h.clients, client.UserID)
					h.logger.Info("Hub", "Client completely unregistered", map[string]interface{}{"user_id": client.UserID})
				}
			}
			h.mu.Unlock()
		}
	}
}

// Send delivers one event to every connection a user holds, locally and via
// Redis for connections on other instances.
func (h *Hub) Send(userID uuid.UUID, eventType string, payload interface{}) {
	data, err := json.Marshal(map[string]interface{}{
		"type": eventType,
		"data": payload,
	})
	if err != nil {
		h.logger.Error("Hub", "Failed to marshal event", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		return
	}

	h.mu.RLock()
	clients, localFound := h.clients[userID]
	h.mu.RUnlock()

	if localFound {
		for _, client := range clients {
			select {
			case client.Send <- data:
			default:
				h.logger.Warn("Hub", "Client Send buffer full, dropping message", map[string]interface{}{"user_id": userID})
				close(client.Send)
				h.unregister <- client
			}
		}
	}

	if h.rdb != nil {
		envelope := map[string]interface{}{
			"target_user_id": userID.String(),
			"message":        data,
		}
		jsonEnvelope, _ := json.Marshal(envelope)
		h.rdb.Publish(context.Background(), clusterChannel, jsonEnvelope)
	}
}

func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()

	for msg := range ch {
		var envelope struct {
			TargetUserID string          `json:"target_user_id"`
			Message      json.RawMessage `json:"message"`
		}
		if err := json.Unmarshal([]byte(msg.Payload), &envelope); err != nil {
			log.Printf("Redis msg parse error: %v", err)
			continue
		}

		uid, err := uuid.Parse(envelope.TargetUserID)
		if err != nil {
			continue
		}

		h.mu.RLock()
		clients, ok := h.clients[uid]
		h.mu.RUnlock()

		if ok {
			for _, client := range clients {
				select {
				case client.Send <- envelope.Message:
				default:
					close(client.Send)
					h.unregister <- client
				}
			}
		}
	}
}
