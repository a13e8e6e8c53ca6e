package service

import (
	"context"
	"strings"
	"time"

	"github.com/kds-next/internal/cache"
	"github.com/kds-next/internal/constants"
	"github.com/kds-next/internal/logger"
	"github.com/kds-next/internal/models"
	"github.com/kds-next/internal/monitoring"
	"github.com/kds-next/internal/notifier"
	"github.com/kds-next/internal/queue"
	"github.com/kds-next/internal/repository"
)

// TicketService 工位流转服务，处理开工、出餐、召回与整桌出餐
type TicketService struct {
	routing repository.RoutingRepository
	hub     *notifier.Hub
	queue   *queue.Client
}

// NewTicketService 创建流转服务
func NewTicketService(routing repository.RoutingRepository, hub *notifier.Hub, queueClient *queue.Client) *TicketService {
	return &TicketService{
		routing: routing,
		hub:     hub,
		queue:   queueClient,
	}
}

// RecallResult 召回结果，Warning 非空表示整单已齐菜后的越级召回
type RecallResult struct {
	Record  *models.RoutingRecord
	Warning string
}

// Start 标记记录开工。重复开工保持原开工时间，已出餐的记录拒绝开工。
func (s *TicketService) Start(recordID uint) (*models.RoutingRecord, error) {
	transitioned, err := s.routing.MarkStarted(recordID, time.Now())
	if err != nil {
		return nil, err
	}
	record, err := s.routing.GetByID(recordID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrNotFound
	}
	if !transitioned {
		if record.CompletedAt != nil {
			monitoring.TransitionConflicts.WithLabelValues("start").Inc()
			return nil, ErrStateConflict
		}
		// 已开工，保持首次开工时间不变
		return record, nil
	}

	monitoring.RecordTransitions.WithLabelValues("start").Inc()
	s.afterTransition(record, constants.EventRecordStarted)
	return record, nil
}

// Complete 标记记录出餐，同一记录并发出餐只有一台终端成功
func (s *TicketService) Complete(recordID uint, operator string) (*models.RoutingRecord, error) {
	operator = strings.TrimSpace(operator)
	if operator == "" {
		return nil, ErrInvalidOperator
	}
	transitioned, err := s.routing.MarkCompleted(recordID, operator, time.Now())
	if err != nil {
		return nil, err
	}
	record, err := s.routing.GetByID(recordID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrNotFound
	}
	if !transitioned {
		monitoring.TransitionConflicts.WithLabelValues("complete").Inc()
		return nil, ErrStateConflict
	}

	monitoring.RecordTransitions.WithLabelValues("complete").Inc()
	if record.ActualPrepSeconds != nil {
		monitoring.PrepSeconds.Observe(float64(*record.ActualPrepSeconds))
	}
	s.afterTransition(record, constants.EventRecordCompleted)
	return record, nil
}

// Recall 召回已出餐记录使其重新排队。整单已齐菜时仍允许召回，但附带告警。
func (s *TicketService) Recall(recordID uint) (*RecallResult, error) {
	before, err := s.routing.GetByID(recordID)
	if err != nil {
		return nil, err
	}
	if before == nil {
		return nil, ErrNotFound
	}

	warning := ""
	if before.Order != nil {
		switch before.Order.Status {
		case constants.OrderStatusReady, constants.OrderStatusServed:
			warning = "order already marked " + before.Order.Status
		}
	}

	transitioned, err := s.routing.MarkRecalled(recordID)
	if err != nil {
		return nil, err
	}
	if !transitioned {
		monitoring.TransitionConflicts.WithLabelValues("recall").Inc()
		return nil, ErrStateConflict
	}

	record, err := s.routing.GetByID(recordID)
	if err != nil {
		return nil, err
	}
	monitoring.RecordTransitions.WithLabelValues("recall").Inc()
	s.afterTransition(record, constants.EventRecordRecalled)
	if warning != "" {
		logger.Warnw("record_recalled_after_ready",
			"record_id", recordID,
			"order_id", before.OrderID,
			"warning", warning,
		)
	}
	return &RecallResult{Record: record, Warning: warning}, nil
}

// CompleteTable 整桌批量出餐，单事务内全部成功或全部回滚
func (s *TicketService) CompleteTable(tableNo, operator string) ([]models.RoutingRecord, error) {
	tableNo = strings.TrimSpace(tableNo)
	operator = strings.TrimSpace(operator)
	if operator == "" {
		return nil, ErrInvalidOperator
	}
	if tableNo == "" {
		return nil, ErrInvalidOrder
	}

	open, err := s.routing.ListOpenByTable(tableNo)
	if err != nil {
		return nil, err
	}
	if len(open) == 0 {
		return nil, ErrNotFound
	}
	expected := make([]uint, 0, len(open))
	for i := range open {
		expected = append(expected, open[i].ID)
	}

	completed, ok, err := s.routing.CompleteAllForTable(tableNo, operator, time.Now(), expected)
	if err != nil {
		return nil, err
	}
	if !ok {
		// 快照与当前在制集合不一致，说明期间有终端单点出餐，整批拒绝
		monitoring.TransitionConflicts.WithLabelValues("table_bump").Inc()
		return nil, ErrBatchRejected
	}

	stationIDs := make([]uint, 0, len(completed))
	orderSeen := make(map[uint]bool)
	for i := range completed {
		record := &completed[i]
		monitoring.RecordTransitions.WithLabelValues("complete").Inc()
		if record.ActualPrepSeconds != nil {
			monitoring.PrepSeconds.Observe(float64(*record.ActualPrepSeconds))
		}
		stationIDs = append(stationIDs, record.StationID)
		if s.hub != nil {
			s.hub.Broadcast(notifier.NewRecordEvent(constants.EventRecordCompleted, record))
		}
		if !orderSeen[record.OrderID] {
			orderSeen[record.OrderID] = true
			s.enqueueStatusSync(record.OrderID)
		}
	}
	s.invalidateBoard(stationIDs...)
	return completed, nil
}

// afterTransition 流转成功后的统一收尾：推送事件、失效缓存、回写订单状态
func (s *TicketService) afterTransition(record *models.RoutingRecord, eventKind string) {
	if record == nil {
		return
	}
	if s.hub != nil {
		s.hub.Broadcast(notifier.NewRecordEvent(eventKind, record))
	}
	s.invalidateBoard(record.StationID)
	s.enqueueStatusSync(record.OrderID)
}

func (s *TicketService) invalidateBoard(stationIDs ...uint) {
	if err := cache.InvalidateBoard(context.Background(), stationIDs...); err != nil {
		logger.Warnw("board_cache_invalidate_failed", "error", err)
	}
}

func (s *TicketService) enqueueStatusSync(orderID uint) {
	if s.queue == nil {
		return
	}
	err := s.queue.EnqueueOrderStatusSync(queue.OrderStatusSyncPayload{OrderID: orderID})
	if err != nil {
		logger.Warnw("order_status_sync_enqueue_failed", "order_id", orderID, "error", err)
	}
}
