package worker

import (
	"context"
	"errors"
	"time"

	"github.com/kds-next/internal/config"
	"github.com/kds-next/internal/constants"
	"github.com/kds-next/internal/logger"
	"github.com/kds-next/internal/notifier"
	"github.com/kds-next/internal/queue"

	"github.com/hibiken/asynq"
)

// Service 异步队列服务，附带滞留记录巡检
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
}

// NewService 创建异步队列服务
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.Container != nil {
		go s.runStaleScanLoop(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

// runStaleScanLoop 周期巡检排队超时的记录并向看板推送告警
func (s *Service) runStaleScanLoop(ctx context.Context) {
	cfg := s.consumer.Config.Kitchen
	interval := time.Minute
	if cfg.StaleScanIntervalSeconds > 0 {
		interval = time.Duration(cfg.StaleScanIntervalSeconds) * time.Second
	}
	staleAfter := 20 * time.Minute
	if cfg.StaleAfterMinutes > 0 {
		staleAfter = time.Duration(cfg.StaleAfterMinutes) * time.Minute
	}

	runOnce := func() {
		threshold := time.Now().Add(-staleAfter)
		records, err := s.consumer.RoutingRepo.ListStaleQueued(threshold)
		if err != nil {
			logger.Warnw("worker_stale_scan_failed", "error", err)
			return
		}
		for i := range records {
			record := &records[i]
			if s.consumer.Hub != nil {
				event := notifier.NewRecordEvent(constants.EventAlertStale, record)
				event.Detail = map[string]interface{}{
					"queued_seconds": int(time.Since(record.RoutedAt).Seconds()),
				}
				s.consumer.Hub.Broadcast(event)
			}
			logger.Warnw("record_stale",
				"record_id", record.ID,
				"order_id", record.OrderID,
				"station_id", record.StationID,
				"routed_at", record.RoutedAt,
			)
		}
	}
	runOnce()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
