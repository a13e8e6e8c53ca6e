package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kds-next/internal/cache"
	"github.com/kds-next/internal/config"
	"github.com/kds-next/internal/constants"
	"github.com/kds-next/internal/logger"
	"github.com/kds-next/internal/models"
	"github.com/kds-next/internal/monitoring"
	"github.com/kds-next/internal/repository"
)

// PlannerService 路由规划服务，订单落库后一次性生成全部流转记录
type PlannerService struct {
	stations           *StationService
	routing            repository.RoutingRepository
	classifier         *Classifier
	defaultPrepSeconds int
}

// NewPlannerService 创建规划服务
func NewPlannerService(stations *StationService, routing repository.RoutingRepository, classifier *Classifier, cfg *config.KitchenConfig) *PlannerService {
	defaultPrep := 300
	if cfg != nil && cfg.DefaultPrepSeconds > 0 {
		defaultPrep = cfg.DefaultPrepSeconds
	}
	if classifier == nil {
		classifier = NewClassifier()
	}
	return &PlannerService{
		stations:           stations,
		routing:            routing,
		classifier:         classifier,
		defaultPrepSeconds: defaultPrep,
	}
}

// planEntry 规划过程中的单工位聚合
type planEntry struct {
	station *models.Station
	notes   []string
	isFinal bool
}

func (e *planEntry) addNote(note string) {
	for _, existing := range e.notes {
		if existing == note {
			return
		}
	}
	e.notes = append(e.notes, note)
}

// PlanOrder 为订单生成流转记录并落库。
// 每个菜品路由到其命中的全部类别；无命中走兜底工位；
// 最后恒定追加出品口记录，序号为保留最大值。
func (s *PlannerService) PlanOrder(order *models.Order) ([]*models.RoutingRecord, error) {
	if order == nil || order.ID == 0 {
		return nil, ErrInvalidOrder
	}

	snapshot, err := s.stations.ActiveSnapshot()
	if err != nil {
		return nil, err
	}
	if len(snapshot) == 0 {
		// 无在用工位时拒单，绝不吞掉菜品
		return nil, ErrNoActiveStation
	}

	byCategory := make(map[string]*models.Station)
	for i := range snapshot {
		station := &snapshot[i]
		if _, ok := byCategory[station.Category]; !ok {
			byCategory[station.Category] = station
		}
	}
	catchAll := s.pickCatchAll(snapshot, byCategory)

	entries := make(map[uint]*planEntry)
	var ordered []uint
	require := func(station *models.Station) *planEntry {
		entry, ok := entries[station.ID]
		if !ok {
			entry = &planEntry{station: station}
			entries[station.ID] = entry
			ordered = append(ordered, station.ID)
		}
		return entry
	}

	for _, item := range order.Items {
		categories := s.classifier.Classify(item)
		if len(categories) == 0 {
			entry := require(catchAll)
			entry.addNote(fmt.Sprintf("unclassified: %s", item.Name))
			continue
		}
		for _, category := range categories {
			station, ok := byCategory[category]
			if !ok {
				station = catchAll
			}
			entry := require(station)
			if !ok {
				entry.addNote(fmt.Sprintf("no active %s station, rerouted: %s", category, item.Name))
			}
		}
	}

	// 出品口恒为最后一站；已命中则就地升格，未命中则追加
	expoStation, hasExpo := byCategory[constants.StationCategoryExpo]
	if !hasExpo {
		expoStation = catchAll
	}
	finalEntry := require(expoStation)
	finalEntry.isFinal = true
	if !hasExpo {
		finalEntry.addNote("no active expo station, final assembly rerouted")
	}

	priority := orderPriority(order)
	now := time.Now()
	records := make([]*models.RoutingRecord, 0, len(ordered))
	sequence := 0
	for _, stationID := range ordered {
		entry := entries[stationID]
		seq := sequence + 1
		if entry.isFinal {
			seq = constants.SequenceExpo
		} else {
			sequence++
		}
		records = append(records, &models.RoutingRecord{
			OrderID:              order.ID,
			StationID:            entry.station.ID,
			Sequence:             seq,
			Priority:             priority,
			RoutedAt:             now,
			EstimatedPrepSeconds: entry.station.EstimatedPrepSeconds(s.defaultPrepSeconds),
			Notes:                strings.Join(entry.notes, "; "),
		})
	}

	if err := s.routing.CreateBatch(records); err != nil {
		return nil, err
	}
	stationIDs := make([]uint, 0, len(records))
	for _, record := range records {
		stationIDs = append(stationIDs, record.StationID)
		if entry, ok := entries[record.StationID]; ok && entry.station != nil {
			record.Station = entry.station
			monitoring.RecordsRouted.WithLabelValues(entry.station.Category).Inc()
		}
		record.Order = order
	}
	// 新记录入账也是账本变更，看板缓存同样立即失效
	if err := cache.InvalidateBoard(context.Background(), stationIDs...); err != nil {
		logger.Warnw("board_cache_invalidate_failed", "order_id", order.ID, "error", err)
	}
	return records, nil
}

// pickCatchAll 选择兜底工位，备餐优先，其次出品口，再次第一个在用工位
func (s *PlannerService) pickCatchAll(snapshot []models.Station, byCategory map[string]*models.Station) *models.Station {
	if station, ok := byCategory[constants.StationCategoryPrep]; ok {
		return station
	}
	if station, ok := byCategory[constants.StationCategoryExpo]; ok {
		return station
	}
	return &snapshot[0]
}

// orderPriority 由加急级别推导初始优先级，酒水单加一以便先出饮品
func orderPriority(order *models.Order) int {
	priority := constants.PriorityNormal
	switch order.Urgency {
	case constants.OrderUrgencyRush:
		priority = constants.PriorityRush
	case constants.OrderUrgencyVIP:
		priority = constants.PriorityVIP
	}
	if order.Kind == constants.OrderKindBeverage {
		priority++
	}
	return priority
}
