package kitchen

import "github.com/kds-next/internal/provider"

// Handler 厨房看板接口处理器入口
// 说明：该处理器用于工位终端与传菜口终端 API。
type Handler struct {
	*provider.Container
}

// New 创建看板处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
