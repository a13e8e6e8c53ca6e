package kitchen

import (
	"github.com/kds-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// bumpRequest 出餐请求体
type bumpRequest struct {
	Operator string `json:"operator"`
}

// StartRecord 工位开工。重复点击开工保持首次开工时间。
func (h *Handler) StartRecord(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		response.BadRequest(c, "invalid record id")
		return
	}
	record, err := h.TicketService.Start(id)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{"record": record})
}

// CompleteRecord 工位出餐。并发出餐只有一台终端成功，其余返回冲突。
func (h *Handler) CompleteRecord(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		response.BadRequest(c, "invalid record id")
		return
	}
	var req bumpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	record, err := h.TicketService.Complete(id, req.Operator)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{"record": record})
}

// RecallRecord 召回已出餐记录使其重新排队
func (h *Handler) RecallRecord(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		response.BadRequest(c, "invalid record id")
		return
	}
	result, err := h.TicketService.Recall(id)
	if err != nil {
		respondError(c, err)
		return
	}
	payload := gin.H{"record": result.Record}
	if result.Warning != "" {
		payload["warning"] = result.Warning
	}
	response.Success(c, payload)
}
