package kitchen

import (
	"strconv"

	"github.com/kds-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// ListBoard 全部工位的在制记录视图
func (h *Handler) ListBoard(c *gin.Context) {
	board, err := h.BoardService.ListActive(0)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{"records": board})
}

// ListStationBoard 单工位的在制记录视图
func (h *Handler) ListStationBoard(c *gin.Context) {
	stationID, err := parseUintParam(c, "station_id")
	if err != nil {
		response.BadRequest(c, "invalid station id")
		return
	}
	if _, err := h.StationService.GetByID(stationID); err != nil {
		respondError(c, err)
		return
	}
	board, err := h.BoardService.ListActive(stationID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{"records": board})
}

// ListTableBoard 桌台视角的在制汇总
func (h *Handler) ListTableBoard(c *gin.Context) {
	groups, err := h.BoardService.TableGroups()
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{"tables": groups})
}

// ListStations 看板终端拉取工位快照用于分屏
func (h *Handler) ListStations(c *gin.Context) {
	includeInactive, _ := strconv.ParseBool(c.Query("include_inactive"))
	stations, err := h.StationService.List(includeInactive)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, gin.H{"stations": stations})
}
