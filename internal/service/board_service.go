package service

import (
	"context"
	"time"

	"github.com/kds-next/internal/cache"
	"github.com/kds-next/internal/config"
	"github.com/kds-next/internal/constants"
	"github.com/kds-next/internal/logger"
	"github.com/kds-next/internal/models"
	"github.com/kds-next/internal/repository"
)

// BoardRecord 看板视图中的流转记录，附带派生状态与滞留标记
type BoardRecord struct {
	models.RoutingRecord
	State string `json:"state"`
	Stale bool   `json:"stale"`
}

// BoardService 实时看板投影服务，只读账本
type BoardService struct {
	routing    repository.RoutingRepository
	cacheTTL   time.Duration
	staleAfter time.Duration
}

// NewBoardService 创建看板服务
func NewBoardService(routing repository.RoutingRepository, cfg *config.KitchenConfig) *BoardService {
	ttl := 5 * time.Second
	staleAfter := 20 * time.Minute
	if cfg != nil {
		if cfg.BoardCacheTTLSeconds > 0 {
			ttl = time.Duration(cfg.BoardCacheTTLSeconds) * time.Second
		}
		if cfg.StaleAfterMinutes > 0 {
			staleAfter = time.Duration(cfg.StaleAfterMinutes) * time.Minute
		}
	}
	return &BoardService{routing: routing, cacheTTL: ttl, staleAfter: staleAfter}
}

// ListActive 工位视角的在制记录，stationID 为 0 返回全部工位。
// 排序为优先级降序、路由时间升序，已出餐记录不出现在视图中。
func (s *BoardService) ListActive(stationID uint) ([]BoardRecord, error) {
	ctx := context.Background()
	key := cache.BoardKey(stationID)

	var cached []BoardRecord
	hit, err := cache.GetJSON(ctx, key, &cached)
	if err != nil {
		logger.Warnw("board_cache_read_failed", "error", err)
	}
	if hit {
		return s.refreshStale(cached), nil
	}

	records, err := s.routing.ListActive(stationID)
	if err != nil {
		return nil, err
	}
	board := s.decorate(records)
	if err := cache.SetJSON(ctx, key, board, s.cacheTTL); err != nil {
		logger.Warnw("board_cache_write_failed", "error", err)
	}
	return board, nil
}

// TableGroups 桌台视角的在制汇总
func (s *BoardService) TableGroups() ([]repository.TableGroup, error) {
	ctx := context.Background()
	key := cache.TableBoardKey()

	var cached []repository.TableGroup
	hit, err := cache.GetJSON(ctx, key, &cached)
	if err != nil {
		logger.Warnw("board_cache_read_failed", "error", err)
	}
	if hit {
		return cached, nil
	}

	groups, err := s.routing.TableGroups()
	if err != nil {
		return nil, err
	}
	if err := cache.SetJSON(ctx, key, groups, s.cacheTTL); err != nil {
		logger.Warnw("board_cache_write_failed", "error", err)
	}
	return groups, nil
}

// OrderRecords 订单视角的全量流转记录，含已出餐记录
func (s *BoardService) OrderRecords(orderID uint) ([]BoardRecord, error) {
	records, err := s.routing.ListByOrder(orderID)
	if err != nil {
		return nil, err
	}
	return s.decorate(records), nil
}

func (s *BoardService) decorate(records []models.RoutingRecord) []BoardRecord {
	now := time.Now()
	board := make([]BoardRecord, 0, len(records))
	for i := range records {
		record := records[i]
		board = append(board, BoardRecord{
			RoutingRecord: record,
			State:         record.State(),
			Stale:         s.isStale(&record, now),
		})
	}
	return board
}

// refreshStale 缓存命中时重算滞留标记，避免陈旧标记随缓存存续
func (s *BoardService) refreshStale(board []BoardRecord) []BoardRecord {
	now := time.Now()
	for i := range board {
		board[i].Stale = s.isStale(&board[i].RoutingRecord, now)
	}
	return board
}

func (s *BoardService) isStale(record *models.RoutingRecord, now time.Time) bool {
	if record.State() != constants.RecordStateQueued {
		return false
	}
	return now.Sub(record.RoutedAt) > s.staleAfter
}
