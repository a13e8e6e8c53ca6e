package repository

import (
	"errors"
	"time"

	"github.com/kds-next/internal/constants"
	"github.com/kds-next/internal/models"

	"gorm.io/gorm"
)

// errTableBumpConflict 批量完成时用于回滚整个事务
var errTableBumpConflict = errors.New("table bump conflict")

// TableGroup 按桌号聚合的在制汇总
type TableGroup struct {
	TableNo      string    `json:"table_no"`
	OrderCount   int       `json:"order_count"`
	RecordCount  int       `json:"record_count"`
	EarliestAt   time.Time `json:"earliest_at"`
	LatestAt     time.Time `json:"latest_at"`
	StationNames []string  `json:"station_names"`
}

// OrderProgress 订单各路由记录的状态计数
type OrderProgress struct {
	Total     int64
	Queued    int64
	Started   int64
	Completed int64
}

// RoutingRepository 路由记录数据访问接口
type RoutingRepository interface {
	CreateBatch(records []*models.RoutingRecord) error
	GetByID(id uint) (*models.RoutingRecord, error)
	ListByOrder(orderID uint) ([]models.RoutingRecord, error)
	ListActive(stationID uint) ([]models.RoutingRecord, error)
	ListOpenByTable(tableNo string) ([]models.RoutingRecord, error)
	ListStaleQueued(before time.Time) ([]models.RoutingRecord, error)
	MarkStarted(id uint, now time.Time) (bool, error)
	MarkCompleted(id uint, operator string, now time.Time) (bool, error)
	MarkRecalled(id uint) (bool, error)
	CompleteAllForTable(tableNo, operator string, now time.Time, expectedIDs []uint) ([]models.RoutingRecord, bool, error)
	Progress(orderID uint) (*OrderProgress, error)
	TableGroups() ([]TableGroup, error)
}

// GormRoutingRepository GORM 实现
type GormRoutingRepository struct {
	db *gorm.DB
}

// NewRoutingRepository 创建路由记录仓库
func NewRoutingRepository(db *gorm.DB) *GormRoutingRepository {
	return &GormRoutingRepository{db: db}
}

// CreateBatch 在单个事务内写入一个订单的全部路由记录
func (r *GormRoutingRepository) CreateBatch(records []*models.RoutingRecord) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, record := range records {
			if err := tx.Create(record).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GetByID 根据 ID 获取路由记录，包含订单与工位
func (r *GormRoutingRepository) GetByID(id uint) (*models.RoutingRecord, error) {
	var record models.RoutingRecord
	err := r.db.Preload("Order").Preload("Order.Items").Preload("Station").
		First(&record, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// ListByOrder 获取订单的全部路由记录，按工序序号排列
func (r *GormRoutingRepository) ListByOrder(orderID uint) ([]models.RoutingRecord, error) {
	var records []models.RoutingRecord
	err := r.db.Preload("Station").
		Where("order_id = ?", orderID).
		Order("sequence asc").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ListActive 获取未完成的路由记录，stationID 为 0 时返回全部工位
func (r *GormRoutingRepository) ListActive(stationID uint) ([]models.RoutingRecord, error) {
	var records []models.RoutingRecord
	query := r.db.Preload("Order").Preload("Order.Items").Preload("Station").
		Where("completed_at IS NULL")
	if stationID > 0 {
		query = query.Where("station_id = ?", stationID)
	}
	err := query.Order("priority desc, routed_at asc, id asc").Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ListOpenByTable 获取桌台的全部在制记录
func (r *GormRoutingRepository) ListOpenByTable(tableNo string) ([]models.RoutingRecord, error) {
	var records []models.RoutingRecord
	err := r.db.Preload("Station").
		Joins("JOIN orders ON orders.id = routing_records.order_id").
		Where("orders.table_no = ? AND routing_records.completed_at IS NULL", tableNo).
		Order("routing_records.routed_at asc, routing_records.id asc").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ListStaleQueued 获取在指定时间之前入队且仍未开工的记录
func (r *GormRoutingRepository) ListStaleQueued(before time.Time) ([]models.RoutingRecord, error) {
	var records []models.RoutingRecord
	err := r.db.Preload("Order").Preload("Station").
		Where("completed_at IS NULL AND started_at IS NULL AND routed_at < ?", before).
		Order("routed_at asc").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// MarkStarted 条件标记开工，已开工或已完成时不产生变更
func (r *GormRoutingRepository) MarkStarted(id uint, now time.Time) (bool, error) {
	result := r.db.Model(&models.RoutingRecord{}).
		Where("id = ? AND started_at IS NULL AND completed_at IS NULL", id).
		Update("started_at", now)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// MarkCompleted 条件标记完成并在同一事务内追加统计样本
func (r *GormRoutingRepository) MarkCompleted(id uint, operator string, now time.Time) (bool, error) {
	transitioned := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var record models.RoutingRecord
		if err := tx.First(&record, id).Error; err != nil {
			return err
		}
		actual := int(record.PrepDuration(now).Seconds())
		result := tx.Model(&models.RoutingRecord{}).
			Where("id = ? AND completed_at IS NULL", id).
			Updates(map[string]interface{}{
				"completed_at":        now,
				"bumped_by":           operator,
				"actual_prep_seconds": actual,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		record.CompletedAt = &now
		record.ActualPrepSeconds = &actual
		sample := models.NewMetricSample(&record, now)
		if err := tx.Create(sample).Error; err != nil {
			return err
		}
		transitioned = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return transitioned, nil
}

// MarkRecalled 条件撤回已完成记录，清除完成信息并累加撤回次数
func (r *GormRoutingRepository) MarkRecalled(id uint) (bool, error) {
	result := r.db.Model(&models.RoutingRecord{}).
		Where("id = ? AND completed_at IS NOT NULL", id).
		Updates(map[string]interface{}{
			"completed_at":        nil,
			"bumped_by":           "",
			"actual_prep_seconds": nil,
			"recall_count":        gorm.Expr("recall_count + 1"),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// CompleteAllForTable 整桌批量完成，任一记录冲突则整体回滚。
// expectedIDs 非空时要求当前在制集合与调用方快照完全一致，不一致视为冲突。
func (r *GormRoutingRepository) CompleteAllForTable(tableNo, operator string, now time.Time, expectedIDs []uint) ([]models.RoutingRecord, bool, error) {
	var completed []models.RoutingRecord
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var records []models.RoutingRecord
		err := tx.Preload("Station").
			Joins("JOIN orders ON orders.id = routing_records.order_id").
			Where("orders.table_no = ? AND routing_records.completed_at IS NULL", tableNo).
			Find(&records).Error
		if err != nil {
			return err
		}
		if len(expectedIDs) > 0 {
			if len(expectedIDs) != len(records) {
				return errTableBumpConflict
			}
			open := make(map[uint]bool, len(records))
			for i := range records {
				open[records[i].ID] = true
			}
			for _, id := range expectedIDs {
				if !open[id] {
					return errTableBumpConflict
				}
			}
		}
		for i := range records {
			record := &records[i]
			actual := int(record.PrepDuration(now).Seconds())
			result := tx.Model(&models.RoutingRecord{}).
				Where("id = ? AND completed_at IS NULL", record.ID).
				Updates(map[string]interface{}{
					"completed_at":        now,
					"bumped_by":           operator,
					"actual_prep_seconds": actual,
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return errTableBumpConflict
			}
			record.CompletedAt = &now
			record.BumpedBy = operator
			record.ActualPrepSeconds = &actual
			if err := tx.Create(models.NewMetricSample(record, now)).Error; err != nil {
				return err
			}
		}
		completed = records
		return nil
	})
	if errors.Is(err, errTableBumpConflict) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return completed, true, nil
}

// Progress 统计订单各状态的路由记录数量
func (r *GormRoutingRepository) Progress(orderID uint) (*OrderProgress, error) {
	var records []models.RoutingRecord
	if err := r.db.Where("order_id = ?", orderID).Find(&records).Error; err != nil {
		return nil, err
	}
	progress := &OrderProgress{Total: int64(len(records))}
	for i := range records {
		switch records[i].State() {
		case constants.RecordStateQueued:
			progress.Queued++
		case constants.RecordStateStarted:
			progress.Started++
		case constants.RecordStateCompleted:
			progress.Completed++
		}
	}
	return progress, nil
}

// TableGroups 按桌号聚合在制记录
func (r *GormRoutingRepository) TableGroups() ([]TableGroup, error) {
	var records []models.RoutingRecord
	err := r.db.Preload("Order").Preload("Station").
		Where("completed_at IS NULL").
		Order("routed_at asc, id asc").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	groups := make(map[string]*TableGroup)
	orderSeen := make(map[string]map[uint]bool)
	stationSeen := make(map[string]map[string]bool)
	var keys []string

	for i := range records {
		record := &records[i]
		if record.Order == nil || record.Order.TableNo == "" {
			continue
		}
		tableNo := record.Order.TableNo
		group, ok := groups[tableNo]
		if !ok {
			group = &TableGroup{TableNo: tableNo, EarliestAt: record.RoutedAt, LatestAt: record.RoutedAt}
			groups[tableNo] = group
			orderSeen[tableNo] = make(map[uint]bool)
			stationSeen[tableNo] = make(map[string]bool)
			keys = append(keys, tableNo)
		}
		group.RecordCount++
		if record.RoutedAt.Before(group.EarliestAt) {
			group.EarliestAt = record.RoutedAt
		}
		if record.RoutedAt.After(group.LatestAt) {
			group.LatestAt = record.RoutedAt
		}
		if !orderSeen[tableNo][record.OrderID] {
			orderSeen[tableNo][record.OrderID] = true
			group.OrderCount++
		}
		if record.Station != nil && !stationSeen[tableNo][record.Station.Name] {
			stationSeen[tableNo][record.Station.Name] = true
			group.StationNames = append(group.StationNames, record.Station.Name)
		}
	}

	result := make([]TableGroup, 0, len(keys))
	for _, key := range keys {
		result = append(result, *groups[key])
	}
	return result, nil
}
