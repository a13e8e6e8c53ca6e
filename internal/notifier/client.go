package notifier

import (
	"time"

	"github.com/kds-next/internal/logger"

	"github.com/gorilla/websocket"
)

const maxMessageSize = 4096

// Client 单个看板终端连接
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	stationID uint // 0 表示订阅全部工位
}

// readPump 读取终端消息，终端只收不发，读循环用于探测断连
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	pongWait := c.pingInterval() * 2
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Debugw("notifier_read_closed", "error", err)
			}
			return
		}
	}
}

// writePump 将事件写入连接并维持心跳
func (c *Client) writePump() {
	ticker := time.NewTicker(c.pingInterval())
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	writeTimeout := c.writeTimeout()
	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) pingInterval() time.Duration {
	if c.hub != nil && c.hub.cfg.PingIntervalSeconds > 0 {
		return time.Duration(c.hub.cfg.PingIntervalSeconds) * time.Second
	}
	return 30 * time.Second
}

func (c *Client) writeTimeout() time.Duration {
	if c.hub != nil && c.hub.cfg.WriteTimeoutSeconds > 0 {
		return time.Duration(c.hub.cfg.WriteTimeoutSeconds) * time.Second
	}
	return 10 * time.Second
}
