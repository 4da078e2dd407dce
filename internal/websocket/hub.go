package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"hcp-chatbot-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	logModule = "Hub"

	// ClusterChannel carries session frames between instances.
	ClusterChannel = "chatbot_session_events"
)

// QueryHandler answers one question asked over a socket. The answer itself
// reaches the socket through Hub.Publish.
type QueryHandler func(ctx context.Context, sessionID, question string) error

type clusterEnvelope struct {
	Origin    string          `json:"origin"`
	SessionID string          `json:"session_id"`
	Message   json.RawMessage `json:"message"`
}

// Hub tracks chat sockets per session. Several tabs may share a session and
// all of them see every answer.
type Hub struct {
	clients map[string][]*Client

	register   chan *Client
	unregister chan *Client

	// Closed when Run returns. Sends on register and unregister select on it.
	done     chan struct{}
	stopOnce sync.Once

	mu sync.RWMutex

	// Redis connection for cross-instance fan-out, nil for a single node.
	rdb        *redis.Client
	instanceID string

	handler QueryHandler
	logger  logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[string][]*Client),
		rdb:        rdb,
		instanceID: uuid.NewString(),
		logger:     log,
	}
}

// SetHandler installs the callback used for incoming questions.
func (h *Hub) SetHandler(fn QueryHandler) {
	h.mu.Lock()
	h.handler = fn
	h.mu.Unlock()
}

func (h *Hub) queryHandler() QueryHandler {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.handler
}

// Run serves registrations until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			h.stopOnce.Do(func() { close(h.done) })
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SessionID] = append(h.clients[client.SessionID], client)
			h.mu.Unlock()
			h.logger.Info(logModule, "Client registered", map[string]interface{}{"session_id": client.SessionID})

		case client := <-h.unregister:
			h.remove(client)
		}
	}
}

// join hands the client to Run. It reports false once the hub has stopped.
func (h *Hub) join(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// leave hands the client back to Run for removal and returns immediately
// once the hub has stopped, since closeAll already released the client.
func (h *Hub) leave(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.clients[client.SessionID]
	for i, c := range clients {
		if c == client {
			h.clients[client.SessionID] = append(clients[:i], clients[i+1:]...)
			client.closeSend()
			break
		}
	}
	if len(h.clients[client.SessionID]) == 0 {
		delete(h.clients, client.SessionID)
		h.logger.Info(logModule, "Session has no sockets left", map[string]interface{}{"session_id": client.SessionID})
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, clients := range h.clients {
		for _, c := range clients {
			c.closeSend()
		}
		delete(h.clients, id)
	}
}

// SessionCount returns the number of sessions with at least one socket here.
func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish sends a frame to every socket of the session on this instance and
// relays it to the other instances through Redis.
func (h *Hub) Publish(ctx context.Context, sessionID string, frame Frame) {
	data, err := json.Marshal(frame)
	if err != nil {
		h.logger.Error(logModule, "Frame marshal failed", map[string]interface{}{"error": err.Error()})
		return
	}
	h.deliver(sessionID, data)

	if h.rdb == nil {
		return
	}
	payload, _ := json.Marshal(clusterEnvelope{Origin: h.instanceID, SessionID: sessionID, Message: data})
	if err := h.rdb.Publish(ctx, ClusterChannel, payload).Err(); err != nil {
		h.logger.Warn(logModule, "Redis publish failed", map[string]interface{}{"error": err.Error()})
	}
}

// sendTo queues data for one socket without blocking. Send is closed only
// under the write lock, so holding the read lock makes the closed check safe.
func (h *Hub) sendTo(c *Client, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if c.closed {
		return
	}
	select {
	case c.Send <- data:
	default:
	}
}

// deliver never blocks: a socket with a full buffer misses the frame.
func (h *Hub) deliver(sessionID string, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients[sessionID] {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn(logModule, "Client Send buffer full, dropping message", map[string]interface{}{"session_id": sessionID})
		}
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, ClusterChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var env clusterEnvelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				h.logger.Warn(logModule, "Redis msg parse error", map[string]interface{}{"error": err.Error()})
				continue
			}
			if env.Origin == h.instanceID {
				continue
			}
			h.deliver(env.SessionID, env.Message)
		}
	}
}
