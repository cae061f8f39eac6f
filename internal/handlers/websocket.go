package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/bosbiss/internal/common"
	"github.com/ternarybob/bosbiss/internal/interfaces"
	"github.com/ternarybob/bosbiss/internal/models"
)

const (
	// MessageTypeSnapshot is sent once to each client after it connects
	MessageTypeSnapshot = "session.snapshot"

	writeWait = 10 * time.Second
)

// WSMessage is the envelope of every message sent to clients
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// insightPayload adds the rendered insight to an analysis.insight event
type insightPayload struct {
	models.SessionEvent
	InsightHTML string `json:"insightHtml,omitempty"`
}

type WebSocketHandler struct {
	logger           arbor.ILogger
	upgrader         websocket.Upgrader
	clients          map[*websocket.Conn]bool
	clientMutex      map[*websocket.Conn]*sync.Mutex
	mu               sync.RWMutex
	eventService     interfaces.EventService
	snapshots        Snapshotter
	pingInterval     time.Duration
	subscriptions    map[interfaces.EventType]interfaces.SubscriptionID
	serverInstanceID string // clients use it to detect a server restart
}

func NewWebSocketHandler(eventService interfaces.EventService, snapshots Snapshotter, logger arbor.ILogger, config *common.WebSocketConfig) *WebSocketHandler {
	h := &WebSocketHandler{
		logger:           logger,
		clients:          make(map[*websocket.Conn]bool),
		clientMutex:      make(map[*websocket.Conn]*sync.Mutex),
		eventService:     eventService,
		snapshots:        snapshots,
		pingInterval:     30 * time.Second,
		subscriptions:    make(map[interfaces.EventType]interfaces.SubscriptionID),
		serverInstanceID: uuid.New().String(),
	}

	var allowed []string
	if config != nil {
		allowed = config.AllowedOrigins
		h.pingInterval = common.ParseDurationOr(config.PingInterval, h.pingInterval)
	}

	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     originChecker(allowed),
	}

	logger.Info().Str("server_instance_id", h.serverInstanceID).Msg("WebSocket handler initialized with server instance ID")

	return h
}

// originChecker allows any origin when the list is empty
func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(r *http.Request) bool { return true }
	}
	set := make(map[string]bool, len(allowed))
	for _, origin := range allowed {
		set[strings.TrimRight(strings.ToLower(origin), "/")] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true // non-browser client
		}
		return set[strings.TrimRight(strings.ToLower(origin), "/")]
	}
}

// SubscribeToSessionEvents forwards every session event to connected clients
func (h *WebSocketHandler) SubscribeToSessionEvents() error {
	if h.eventService == nil {
		return nil
	}

	for _, eventType := range interfaces.AllEventTypes {
		id, err := h.eventService.Subscribe(eventType, h.handleEvent)
		if err != nil {
			return fmt.Errorf("failed to subscribe websocket to %s: %w", eventType, err)
		}
		h.subscriptions[eventType] = id
	}

	h.logger.Debug().Int("event_types", len(h.subscriptions)).Msg("WebSocket subscribed to session events")
	return nil
}

func (h *WebSocketHandler) handleEvent(ctx context.Context, event interfaces.Event) error {
	payload := event.Payload
	if event.Type == interfaces.EventAnalysisInsight {
		if sessionEvent, ok := event.Payload.(models.SessionEvent); ok {
			html, err := RenderInsightHTML(sessionEvent.Insight)
			if err != nil {
				h.logger.Warn().Err(err).Msg("Failed to render insight markdown")
			}
			payload = insightPayload{SessionEvent: sessionEvent, InsightHTML: html}
		}
	}

	h.Broadcast(WSMessage{Type: string(event.Type), Payload: payload})
	return nil
}

// HandleWebSocket upgrades the connection and keeps it until the client leaves
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}

	mutex := &sync.Mutex{}
	h.mu.Lock()
	h.clients[conn] = true
	h.clientMutex[conn] = mutex
	clientCount := len(h.clients)
	h.mu.Unlock()

	h.logger.Debug().Msgf("WebSocket client connected (total: %d)", clientCount)

	if h.snapshots != nil {
		h.send(conn, mutex, WSMessage{Type: MessageTypeSnapshot, Payload: h.snapshots.Snapshot()})
	}

	done := make(chan struct{})
	go h.pingLoop(conn, mutex, done)

	defer func() {
		close(done)

		h.mu.Lock()
		delete(h.clients, conn)
		delete(h.clientMutex, conn)
		clientCount := len(h.clients)
		h.mu.Unlock()

		conn.Close()
		h.logger.Debug().Msgf("WebSocket client disconnected (remaining: %d)", clientCount)
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn().Err(err).Msg("WebSocket error")
			}
			break
		}
	}
}

func (h *WebSocketHandler) pingLoop(conn *websocket.Conn, mutex *sync.Mutex, done <-chan struct{}) {
	ticker := time.NewTicker(h.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			mutex.Lock()
			err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			mutex.Unlock()
			if err != nil {
				return
			}
		}
	}
}

// Broadcast sends msg to all connected clients
func (h *WebSocketHandler) Broadcast(msg WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error().Err(err).Str("type", msg.Type).Msg("Failed to marshal websocket message")
		return
	}

	h.mu.RLock()
	clients := make([]*websocket.Conn, 0, len(h.clients))
	mutexes := make([]*sync.Mutex, 0, len(h.clients))
	for conn := range h.clients {
		clients = append(clients, conn)
		mutexes = append(mutexes, h.clientMutex[conn])
	}
	h.mu.RUnlock()

	for i, conn := range clients {
		if err := h.write(conn, mutexes[i], data); err != nil {
			h.logger.Warn().Err(err).Str("type", msg.Type).Msg("Failed to send message to client")
		}
	}
}

func (h *WebSocketHandler) send(conn *websocket.Conn, mutex *sync.Mutex, msg WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error().Err(err).Str("type", msg.Type).Msg("Failed to marshal websocket message")
		return
	}
	if err := h.write(conn, mutex, data); err != nil {
		h.logger.Warn().Err(err).Str("type", msg.Type).Msg("Failed to send message to client")
	}
}

func (h *WebSocketHandler) write(conn *websocket.Conn, mutex *sync.Mutex, data []byte) error {
	mutex.Lock()
	defer mutex.Unlock()
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, data)
}

// ClientCount returns the number of connected clients
func (h *WebSocketHandler) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close unsubscribes from events and disconnects every client
func (h *WebSocketHandler) Close() error {
	if h.eventService != nil {
		for eventType, id := range h.subscriptions {
			if err := h.eventService.Unsubscribe(eventType, id); err != nil {
				h.logger.Warn().Err(err).Str("event_type", string(eventType)).Msg("Failed to unsubscribe websocket")
			}
		}
		h.subscriptions = make(map[interfaces.EventType]interfaces.SubscriptionID)
	}

	h.mu.Lock()
	for conn := range h.clients {
		conn.Close()
	}
	h.mu.Unlock()
	return nil
}
