package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/kds-next/internal/config"
	"github.com/kds-next/internal/logger"
	"github.com/kds-next/internal/monitoring"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// envelope 序列化后的事件及其过滤信息
type envelope struct {
	stationID uint
	data      []byte
}

// Hub 看板终端连接中枢，单 goroutine 管理全部注册与分发
type Hub struct {
	cfg        config.NotifierConfig
	upgrader   websocket.Upgrader
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan envelope
	done       chan struct{}
}

// NewHub 创建连接中枢
func NewHub(cfg config.NotifierConfig) *Hub {
	readBuf := cfg.ReadBufferSize
	if readBuf <= 0 {
		readBuf = 1024
	}
	writeBuf := cfg.WriteBufferSize
	if writeBuf <= 0 {
		writeBuf = 1024
	}
	return &Hub{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  readBuf,
			WriteBufferSize: writeBuf,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan envelope, 256),
		done:       make(chan struct{}),
	}
}

// Name 服务名称
func (h *Hub) Name() string {
	return "notifier"
}

// Start 运行分发循环
func (h *Hub) Start(ctx context.Context) error {
	if h == nil {
		return errors.New("hub not initialized")
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-h.done:
			return nil
		case client := <-h.register:
			h.clients[client] = true
			monitoring.NotifierClients.Set(float64(len(h.clients)))
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				monitoring.NotifierClients.Set(float64(len(h.clients)))
			}
		case msg := <-h.broadcast:
			for client := range h.clients {
				if client.stationID > 0 && msg.stationID > 0 && client.stationID != msg.stationID {
					continue
				}
				select {
				case client.send <- msg.data:
				default:
					// 写缓冲打满说明终端跟不上，断开让其重新拉取全量
					delete(h.clients, client)
					close(client.send)
					monitoring.NotifierClients.Set(float64(len(h.clients)))
				}
			}
		}
	}
}

// Stop 停止分发循环并断开终端
func (h *Hub) Stop(ctx context.Context) error {
	if h == nil {
		return nil
	}
	_ = ctx
	close(h.done)
	return nil
}

// Broadcast 向所有匹配的终端推送事件
func (h *Hub) Broadcast(event Event) {
	if h == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		logger.Warnw("notifier_marshal_failed", "kind", event.Kind, "error", err)
		return
	}
	select {
	case h.broadcast <- envelope{stationID: event.StationID(), data: data}:
	default:
		logger.Warnw("notifier_broadcast_dropped", "kind", event.Kind)
	}
}

// ServeWS 将 HTTP 请求升级为终端连接，支持 station_id 过滤
func (h *Hub) ServeWS(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warnw("notifier_upgrade_failed", "error", err)
		return
	}

	var stationID uint
	if raw := c.Query("station_id"); raw != "" {
		if parsed, parseErr := strconv.ParseUint(raw, 10, 64); parseErr == nil {
			stationID = uint(parsed)
		}
	}

	sendBuf := h.cfg.SendBufferSize
	if sendBuf <= 0 {
		sendBuf = 64
	}
	client := &Client{
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, sendBuf),
		stationID: stationID,
	}
	h.register <- client

	go client.writePump()
	go client.readPump()
}
