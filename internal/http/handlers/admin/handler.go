package admin

import "github.com/kds-next/internal/provider"

// Handler 后厨管理接口处理器入口
// 说明：该处理器用于工位配置与统计查询 API。
type Handler struct {
	*provider.Container
}

// New 创建管理处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
