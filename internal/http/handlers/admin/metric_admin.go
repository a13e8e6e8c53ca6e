package admin

import (
	"strconv"

	"github.com/kds-next/internal/http/response"
	"github.com/kds-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListMetricSamples 查询备餐耗时样本
func (h *Handler) ListMetricSamples(c *gin.Context) {
	filter := repository.MetricFilter{
		ShiftDate: c.Query("shift_date"),
	}
	if raw := c.Query("station_id"); raw != "" {
		value, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			response.BadRequest(c, "invalid station id")
			return
		}
		filter.StationID = uint(value)
	}
	if raw := c.Query("hour_bucket"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 0 || value > 23 {
			response.BadRequest(c, "invalid hour bucket")
			return
		}
		filter.HourBucket = &value
	}
	if raw := c.Query("limit"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value <= 0 {
			response.BadRequest(c, "invalid limit")
			return
		}
		filter.Limit = value
	}

	samples, err := h.MetricService.List(filter)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{"samples": samples})
}

// SummarizeMetrics 按班次日期汇总各工位耗时
func (h *Handler) SummarizeMetrics(c *gin.Context) {
	shiftDate := c.Query("shift_date")
	if shiftDate == "" {
		response.BadRequest(c, "shift_date is required")
		return
	}
	summaries, err := h.MetricService.Summarize(shiftDate)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{"summaries": summaries})
}
