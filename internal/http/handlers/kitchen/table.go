package kitchen

import (
	"github.com/kds-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// BumpTable 整桌批量出餐，全部成功或整体拒绝
func (h *Handler) BumpTable(c *gin.Context) {
	tableNo := c.Param("table_no")
	var req bumpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	completed, err := h.TicketService.CompleteTable(tableNo, req.Operator)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{
		"table_no": tableNo,
		"records":  completed,
	})
}
