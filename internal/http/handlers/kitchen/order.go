package kitchen

import (
	"strconv"

	"github.com/kds-next/internal/http/response"
	"github.com/kds-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateOrder 落单并触发路由规划
func (h *Handler) CreateOrder(c *gin.Context) {
	var input service.CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	order, records, err := h.OrderService.Create(input)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{
		"order":   order,
		"records": records,
	})
}

// GetOrder 获取订单详情、派生状态与全部流转记录
func (h *Handler) GetOrder(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		response.BadRequest(c, "invalid order id")
		return
	}

	order, derived, err := h.OrderService.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	records, err := h.BoardService.OrderRecords(id)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{
		"order":          order,
		"derived_status": derived,
		"records":        records,
	})
}

func parseUintParam(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || value == 0 {
		return 0, strconv.ErrSyntax
	}
	return uint(value), nil
}
