package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/DineshPrabhakaran22/Zerodha1/internal/models"
	"github.com/DineshPrabhakaran22/Zerodha1/storage/redis"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 256
)

type Client struct {
	Manager  *Manager
	Conn     *websocket.Conn
	UserID   uuid.UUID
	Username string
	Send     chan []byte
}

func NewClient(m *Manager, conn *websocket.Conn, userID uuid.UUID, username string) *Client {
	return &Client{
		Manager:  m,
		Conn:     conn,
		UserID:   userID,
		Username: username,
		Send:     make(chan []byte, sendBuffer),
	}
}

// Manager fans ledger events out to every connected dashboard. It is fed
// either directly through Publish or from a redis channel.
type Manager struct {
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
	log        *slog.Logger
}

func NewManager(log *slog.Logger) *Manager {
	return &Manager{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, sendBuffer),
		done:       make(chan struct{}),
		log:        log,
	}
}

func (m *Manager) Run(ctx context.Context) {
	defer close(m.done)

	for {
		select {
		case <-ctx.Done():
			m.log.Info("websocket manager run loop stopping...")
			for client := range m.clients {
				m.drop(client)
			}
			return
		case client := <-m.register:
			m.clients[client] = struct{}{}
			m.log.Info("new client registered", "userID", client.UserID, "clients", len(m.clients))
		case client := <-m.unregister:
			if _, ok := m.clients[client]; ok {
				m.drop(client)
				m.log.Info("client unregistered", "userID", client.UserID, "clients", len(m.clients))
			}
		case payload := <-m.broadcast:
			for client := range m.clients {
				select {
				case client.Send <- payload:
				default:
					m.log.Warn("client send channel is full, dropping client", "userID", client.UserID)
					m.drop(client)
				}
			}
		}
	}
}

func (m *Manager) drop(client *Client) {
	delete(m.clients, client)
	close(client.Send)
}

// ListenRedis forwards every message of sub to the connected clients.
func (m *Manager) ListenRedis(ctx context.Context, sub *redis.Subscriber) {
	for {
		select {
		case <-ctx.Done():
			m.log.Info("redis listener stopping...")
			return
		case msg, ok := <-sub.Messages:
			if !ok {
				m.log.Warn("manager redis subscriber channel closed")
				return
			}
			m.enqueue(ctx, []byte(msg.Payload))
		}
	}
}

// Register reports false once the manager has stopped.
func (m *Manager) Register(client *Client) bool {
	select {
	case m.register <- client:
		return true
	case <-m.done:
		return false
	}
}

func (m *Manager) Unregister(client *Client) {
	select {
	case m.unregister <- client:
	case <-m.done:
	}
}

// Publish makes the manager an in-process ledger event sink.
func (m *Manager) Publish(ctx context.Context, ev models.LedgerEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("websocket.Publish: %w", err)
	}
	return m.enqueue(ctx, payload)
}

func (m *Manager) enqueue(ctx context.Context, payload []byte) error {
	select {
	case m.broadcast <- payload:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		m.log.Warn("broadcast queue is full, dropping ledger event")
		return nil
	}
}

func (c *Client) Writer() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.Manager.log.Warn("failed to write message to client", "userID", c.UserID, "error", err)
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) Reader() {
	defer func() {
		c.Manager.Unregister(c)
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(512)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { c.Conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Manager.log.Warn("unexpected close error", "userID", c.UserID, "error", err)
			}
			break
		}
	}
}
