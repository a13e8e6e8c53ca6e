package kitchen

import "github.com/gin-gonic/gin"

// SubscribeEvents 升级为 WebSocket 连接订阅变更事件。
// 通知不重放，终端重连后应先拉取全量看板再订阅。
func (h *Handler) SubscribeEvents(c *gin.Context) {
	h.Hub.ServeWS(c)
}
