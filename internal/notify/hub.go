package notify

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Event is a best-effort interaction notification delivered to the
// affected user (post author on like/comment, followed user on follow).
type Event struct {
	Type      string    `json:"type"`
	ActorID   string    `json:"actor_id"`
	PostID    string    `json:"post_id,omitempty"`
	CommentID string    `json:"comment_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Hub struct {
	redis   *redis.Client
	clients map[string]map[*Client]struct{}
	mu      sync.RWMutex
}

type Client struct {
	UserID string
	Send   chan []byte
}

func NewHub(redisClient *redis.Client) *Hub {
	h := &Hub{
		redis:   redisClient,
		clients: map[string]map[*Client]struct{}{},
	}

	if redisClient != nil {
		go h.subscribeRedis()
	}
	return h
}

func (h *Hub) Register(userID string) *Client {
	client := &Client{
		UserID: userID,
		Send:   make(chan []byte, 64),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[userID] == nil {
		h.clients[userID] = map[*Client]struct{}{}
	}
	h.clients[userID][client] = struct{}{}
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if userClients, ok := h.clients[client.UserID]; ok {
		delete(userClients, client)
		if len(userClients) == 0 {
			delete(h.clients, client.UserID)
		}
	}
	close(client.Send)
}

// Emit delivers an event to every connection the user holds on this
// instance and publishes it for other instances. Self-notifications and
// slow clients are dropped.
func (h *Hub) Emit(userID string, event Event) {
	if h == nil || userID == "" || userID == event.ActorID {
		return
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}

	h.deliver(userID, payload)

	if h.redis != nil {
		if err := h.redis.Publish(context.Background(), redisChannel(userID), payload).Err(); err != nil {
			logrus.WithError(err).Warn("notify publish failed")
		}
	}
}

func (h *Hub) deliver(userID string, payload []byte) {
	h.mu.RLock()
	clients := h.clients[userID]
	h.mu.RUnlock()

	for client := range clients {
		select {
		case client.Send <- payload:
		default:
		}
	}
}

func (h *Hub) subscribeRedis() {
	ctx := context.Background()
	pubsub := h.redis.PSubscribe(ctx, "notify:*:events")
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		h.deliver(userIDFromChannel(msg.Channel), []byte(msg.Payload))
	}
}

func redisChannel(userID string) string {
	return "notify:" + userID + ":events"
}

func userIDFromChannel(ch string) string {
	// notify:{user}:events
	const prefix = "notify:"
	const suffix = ":events"
	if len(ch) <= len(prefix)+len(suffix) || !strings.HasPrefix(ch, prefix) {
		return ""
	}
	return ch[len(prefix) : len(ch)-len(suffix)]
}
