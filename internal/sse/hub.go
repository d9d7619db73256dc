package sse

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/edusphere/edusphere-backend/internal/logger"
)

type SSEEvent string

const (
	SSEEventNotificationCreated SSEEvent = "NotificationCreated"
	SSEEventGradeReceived       SSEEvent = "GradeReceived"
	SSEEventCertificateIssued   SSEEvent = "CertificateIssued"
	SSEEventProgressUpdated     SSEEvent = "ProgressUpdated"
)

type SSEMessage struct {
	Channel string   `json:"channel"`
	Event   SSEEvent `json:"event"`
	Data    any      `json:"data,omitempty"`
}

type SSEClient struct {
	ID       uuid.UUID
	UserID   uuid.UUID
	Channels map[string]bool
	Outbound chan SSEMessage
	done     chan struct{}
}

// SSEHub fans messages out to connected clients. When a Redis client is
// supplied, messages are also published to "sse:<channel>" so every
// server instance delivers to its own connections.
type SSEHub struct {
	mu            sync.RWMutex
	logger        *logger.Logger
	rdb           *redis.Client
	subscriptions map[string]map[*SSEClient]bool
}

const redisChannelPrefix = "sse:"

func NewSSEHub(log *logger.Logger, rdb *redis.Client) *SSEHub {
	return &SSEHub{
		logger:        log.With("component", "SSEHub"),
		rdb:           rdb,
		subscriptions: make(map[string]map[*SSEClient]bool),
	}
}

func (hub *SSEHub) NewSSEClient(userID uuid.UUID) *SSEClient {
	return &SSEClient{
		ID:       uuid.New(),
		UserID:   userID,
		Channels: make(map[string]bool),
		Outbound: make(chan SSEMessage, 10),
		done:     make(chan struct{}),
	}
}

func (hub *SSEHub) AddChannel(client *SSEClient, channel string) {
	hub.mu.Lock()
	defer hub.mu.Unlock()

	channel = strings.TrimSpace(channel)
	if channel == "" {
		return
	}

	client.Channels[channel] = true

	clients, exists := hub.subscriptions[channel]
	if !exists {
		clients = make(map[*SSEClient]bool)
		hub.subscriptions[channel] = clients
	}
	clients[client] = true

	hub.logger.Debug("SSE client subscribed", "clientID", client.ID, "channel", channel)
}

func (hub *SSEHub) RemoveClient(client *SSEClient) {
	hub.mu.Lock()
	defer hub.mu.Unlock()

	for ch := range client.Channels {
		if subMap, ok := hub.subscriptions[ch]; ok {
			delete(subMap, client)
			if len(subMap) == 0 {
				delete(hub.subscriptions, ch)
			}
		}
	}
	client.Channels = make(map[string]bool)
	hub.logger.Debug("SSE client unsubscribed from all channels", "clientID", client.ID)
}

// Publish delivers locally and, when Redis is configured, to the other
// instances.
func (hub *SSEHub) Publish(ctx context.Context, msg SSEMessage) {
	hub.broadcastLocal(msg)

	if hub.rdb == nil || msg.Channel == "" {
		return
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		hub.logger.Warn("Failed to marshal SSE message for Redis", "error", err)
		return
	}
	if err := hub.rdb.Publish(ctx, redisChannelPrefix+msg.Channel, payload).Err(); err != nil {
		hub.logger.Warn("Redis publish failed", "channel", msg.Channel, "error", err)
	}
}

func (hub *SSEHub) broadcastLocal(msg SSEMessage) {
	hub.mu.RLock()
	defer hub.mu.RUnlock()

	if msg.Channel == "" {
		return
	}
	clientsMap, ok := hub.subscriptions[msg.Channel]
	if !ok {
		return
	}
	for c := range clientsMap {
		select {
		case c.Outbound <- msg:
		default:
			hub.logger.Warn("Dropping SSE message; outbound buffer full", "clientID", c.ID)
		}
	}
}

// RunRedisRelay blocks pumping messages published by other instances
// into the local subscriptions. Call it in a goroutine; it returns when
// ctx is cancelled. No-op without Redis.
func (hub *SSEHub) RunRedisRelay(ctx context.Context) {
	if hub.rdb == nil {
		return
	}
	sub := hub.rdb.PSubscribe(ctx, redisChannelPrefix+"*")
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-ch:
			if !ok {
				return
			}
			var msg SSEMessage
			if err := json.Unmarshal([]byte(m.Payload), &msg); err != nil {
				hub.logger.Warn("Dropping malformed SSE relay payload", "error", err)
				continue
			}
			hub.broadcastLocal(msg)
		}
	}
}

func (hub *SSEHub) ServeHTTP(w http.ResponseWriter, r *http.Request, client *SSEClient) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported!", http.StatusInternalServerError)
		return
	}
	ctx := r.Context()

	heartbeat := time.NewTicker(15 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			hub.logger.Debug("SSE client context done", "clientID", client.ID, "err", ctx.Err())
			return
		case <-client.done:
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case msg := <-client.Outbound:
			jsonBytes, err := json.Marshal(msg)
			if err != nil {
				hub.logger.Warn("Failed to marshal SSE message", "error", err)
				continue
			}
			fmt.Fprintf(w, "event: message\ndata: %s\n\n", string(jsonBytes))
			flusher.Flush()
		}
	}
}

func (hub *SSEHub) CloseClient(client *SSEClient) {
	close(client.done)
	hub.RemoveClient(client)
	close(client.Outbound)
}
