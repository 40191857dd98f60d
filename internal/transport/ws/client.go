package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/flpflJ/crypto-chat/config"
	"github.com/flpflJ/crypto-chat/internal/chat"
	model "github.com/flpflJ/crypto-chat/internal/chat/model"
	"github.com/flpflJ/crypto-chat/internal/chat/registry"
	"github.com/flpflJ/crypto-chat/pkg/logger"
	"github.com/flpflJ/crypto-chat/pkg/utils"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer. Ciphertext plus file metadata
	// can get large.
	maxMessageSize = 512 * 1024 // 512KB
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

var errSendBufferFull = errors.New("send buffer full")
var errConnClosed = errors.New("connection closed")

// inboundFrame is what a connected client sends: the implicit sender is the
// channel's bound identity, never a field of the frame.
type inboundFrame struct {
	To       string         `json:"to"`
	Text     string         `json:"text"`
	FileInfo map[string]any `json:"file_info,omitempty"`
}

// Client binds one authenticated identity to one websocket connection and
// implements registry.Conn for live delivery.
type Client struct {
	registry *registry.Registry
	chatUC   chat.ChatUsecase
	logger   logger.Logger

	conn *websocket.Conn

	// Buffered channel of outbound messages.
	send chan []byte

	done      chan struct{}
	closeOnce sync.Once

	Username string
}

// Deliver queues a message for the write pump. It never blocks: a closed
// connection or a full buffer reports failure and the router degrades the
// message to store-only.
func (c *Client) Deliver(msg model.Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return errors.Wrap(err, "ws.Deliver.Marshal")
	}

	select {
	case <-c.done:
		return errConnClosed
	default:
	}

	select {
	case c.send <- data:
		return nil
	default:
		return errSendBufferFull
	}
}

// Close tears the connection down. Safe to call from any goroutine and more
// than once; the read pump's cleanup still runs exactly one deregister.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
		c.conn.Close()
	})
	return nil
}

func (c *Client) ReadPump() {
	defer func() {
		c.registry.Deregister(c.Username, c)
		c.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, msgData, err := c.conn.ReadMessage()
		if err != nil {
			break
		}

		var frame inboundFrame
		if err := json.Unmarshal(msgData, &frame); err != nil {
			c.logger.Warn("dropping malformed frame", "from", c.Username, "err", err)
			continue
		}

		// sender is the registered identity, not anything in the frame
		if _, err := c.chatUC.Route(context.Background(), c.Username, frame.To, frame.Text, frame.FileInfo); err != nil {
			c.logger.Warn("failed to route frame", "from", c.Username, "to", frame.To, "err", err)
		}
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()
	for {
		select {
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)
			if err := w.Close(); err != nil {
				return
			}
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeWs authenticates the bearer token, upgrades the connection and
// registers the client as the identity's live channel. The displaced channel,
// if any, is closed so its pumps exit before the ping timeout would notice.
func ServeWs(reg *registry.Registry, chatUC chat.ChatUsecase, cfg config.Config, log logger.Logger, w http.ResponseWriter, r *http.Request) {
	username, err := utils.ParseJWTToken(r.URL.Query().Get("token"), cfg)
	if err != nil {
		http.Error(w, "invalid or expired token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("websocket upgrade failed", "err", err)
		return
	}

	client := &Client{
		registry: reg,
		chatUC:   chatUC,
		logger:   log,
		conn:     conn,
		send:     make(chan []byte, 256),
		done:     make(chan struct{}),
		Username: username,
	}

	if displaced := reg.Register(username, client); displaced != nil {
		log.Info("replacing live connection", "username", username)
		displaced.Close()
	}

	go client.WritePump()
	go client.ReadPump()
}
