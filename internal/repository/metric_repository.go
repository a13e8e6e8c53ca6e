package repository

import (
	"github.com/kds-next/internal/models"

	"gorm.io/gorm"
)

// MetricFilter 统计样本查询条件
type MetricFilter struct {
	StationID  uint
	ShiftDate  string
	HourBucket *int
	Limit      int
}

// MetricRepository 统计样本数据访问接口
type MetricRepository interface {
	Append(sample *models.MetricSample) error
	List(filter MetricFilter) ([]models.MetricSample, error)
}

// GormMetricRepository GORM 实现
type GormMetricRepository struct {
	db *gorm.DB
}

// NewMetricRepository 创建统计样本仓库
func NewMetricRepository(db *gorm.DB) *GormMetricRepository {
	return &GormMetricRepository{db: db}
}

// Append 追加一条样本，样本只增不改
func (r *GormMetricRepository) Append(sample *models.MetricSample) error {
	return r.db.Create(sample).Error
}

// List 按条件查询样本
func (r *GormMetricRepository) List(filter MetricFilter) ([]models.MetricSample, error) {
	var samples []models.MetricSample
	query := r.db.Model(&models.MetricSample{})
	if filter.StationID > 0 {
		query = query.Where("station_id = ?", filter.StationID)
	}
	if filter.ShiftDate != "" {
		query = query.Where("shift_date = ?", filter.ShiftDate)
	}
	if filter.HourBucket != nil {
		query = query.Where("hour_bucket = ?", *filter.HourBucket)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if err := query.Order("recorded_at desc, id desc").Find(&samples).Error; err != nil {
		return nil, err
	}
	return samples, nil
}
