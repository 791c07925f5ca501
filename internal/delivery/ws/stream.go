// Package ws pushes full chat and match snapshots to websocket clients.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/gdugdh24/fitmatch-backend/internal/domain"
	"github.com/gdugdh24/fitmatch-backend/internal/infrastructure/mirror"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	sendBuffer = 16
)

type ChatWatcher interface {
	WatchChat(ctx context.Context, userID, buddyID string, fn func([]domain.ChatMessage)) mirror.Unsubscribe
}

type MatchWatcher interface {
	WatchMatches(ctx context.Context, userID string, fn func([]domain.Match)) mirror.Unsubscribe
}

// Envelope is the frame sent to clients
type Envelope struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type Handler struct {
	chats    ChatWatcher
	matches  MatchWatcher
	upgrader websocket.Upgrader
	log      logrus.FieldLogger
}

func NewHandler(chats ChatWatcher, matches MatchWatcher, allowedOrigins []string, log logrus.FieldLogger) *Handler {
	return &Handler{
		chats:   chats,
		matches: matches,
		upgrader: websocket.Upgrader{
			CheckOrigin: originChecker(allowedOrigins),
		},
		log: log,
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}
}

// ChatStream handles GET /ws/chats/:buddy_id
func (h *Handler) ChatStream(c *gin.Context) {
	userID := c.GetString("user_id")
	buddyID := c.Param("buddy_id")

	h.serve(c, func(ctx context.Context, push func(Envelope)) mirror.Unsubscribe {
		return h.chats.WatchChat(ctx, userID, buddyID, func(msgs []domain.ChatMessage) {
			push(Envelope{Type: "chat", Data: msgs})
		})
	})
}

// MatchStream handles GET /ws/matches
func (h *Handler) MatchStream(c *gin.Context) {
	userID := c.GetString("user_id")

	h.serve(c, func(ctx context.Context, push func(Envelope)) mirror.Unsubscribe {
		return h.matches.WatchMatches(ctx, userID, func(matches []domain.Match) {
			push(Envelope{Type: "matches", Data: matches})
		})
	})
}

func (h *Handler) serve(c *gin.Context, subscribe func(ctx context.Context, push func(Envelope)) mirror.Unsubscribe) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	client := &client{conn: conn, send: make(chan []byte, sendBuffer), cancel: cancel, log: h.log}

	go client.writePump(ctx)
	unsub := subscribe(ctx, client.push)
	client.readPump()

	unsub()
	cancel()
}

type client struct {
	conn   *websocket.Conn
	send   chan []byte
	cancel context.CancelFunc
	log    logrus.FieldLogger
}

// push never blocks the notifier; a client that cannot keep up is dropped.
func (c *client) push(env Envelope) {
	payload, err := json.Marshal(env)
	if err != nil {
		c.log.WithError(err).Warn("failed to encode snapshot")
		return
	}
	select {
	case c.send <- payload:
	default:
		c.log.Warn("websocket client too slow, closing")
		c.cancel()
	}
}

func (c *client) readPump() {
	defer c.conn.Close()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.WithError(err).Debug("websocket closed")
			}
			return
		}
	}
}

func (c *client) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			return
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.log.WithError(err).Debug("websocket write failed")
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
