package admin

import (
	"errors"
	"strconv"

	"github.com/kds-next/internal/http/response"
	"github.com/kds-next/internal/service"

	"github.com/gin-gonic/gin"
)

// stationRequest 工位创建/更新请求体
type stationRequest struct {
	Name     string                 `json:"name"`
	Category string                 `json:"category"`
	Color    string                 `json:"color"`
	Position int                    `json:"position"`
	Active   *bool                  `json:"active"`
	Config   map[string]interface{} `json:"config"`
}

func (req stationRequest) toInput() service.StationInput {
	return service.StationInput{
		Name:     req.Name,
		Category: req.Category,
		Color:    req.Color,
		Position: req.Position,
		Active:   req.Active,
		Config:   req.Config,
	}
}

// ListStations 获取工位列表，含停用工位
func (h *Handler) ListStations(c *gin.Context) {
	stations, err := h.StationService.List(true)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{"stations": stations})
}

// CreateStation 创建工位
func (h *Handler) CreateStation(c *gin.Context) {
	var req stationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	station, err := h.StationService.Create(req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{"station": station})
}

// UpdateStation 更新工位
func (h *Handler) UpdateStation(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		response.BadRequest(c, "invalid station id")
		return
	}
	var req stationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	station, err := h.StationService.Update(id, req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{"station": station})
}

// SetStationActive 启用/停用工位。停用只影响后续路由，已有记录不迁移。
func (h *Handler) SetStationActive(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		response.BadRequest(c, "invalid station id")
		return
	}
	var req struct {
		Active bool `json:"active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	station, err := h.StationService.SetActive(id, req.Active)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{"station": station})
}

func parseUintParam(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || value == 0 {
		return 0, strconv.ErrSyntax
	}
	return uint(value), nil
}

// respondError 管理接口错误映射
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c, "resource not found")
	case errors.Is(err, service.ErrInvalidStation):
		response.BadRequest(c, "invalid station payload")
	default:
		response.Error(c, response.CodeInternal, "internal error")
	}
}
