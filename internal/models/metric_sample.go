package models

import (
	"time"
)

// MetricSample 出餐耗时样本表，只追加不修改
type MetricSample struct {
	ID              uint      `gorm:"primarykey" json:"id"`                              // 主键
	StationID       uint      `gorm:"index;not null" json:"station_id"`                  // 工位ID
	RecordID        uint      `gorm:"index;not null" json:"record_id"`                   // 流转记录ID
	RecordedAt      time.Time `gorm:"index;not null" json:"recorded_at"`                 // 采样时间
	DurationSeconds int       `gorm:"not null" json:"duration_seconds"`                  // 实测耗时（秒）
	ShiftDate       string    `gorm:"index;type:varchar(10);not null" json:"shift_date"` // 班次日期 YYYY-MM-DD
	HourBucket      int       `gorm:"index;not null" json:"hour_bucket"`                 // 小时桶 0-23
	CreatedAt       time.Time `json:"created_at"`                                        // 创建时间
}

// TableName 指定表名
func (MetricSample) TableName() string {
	return "metric_samples"
}

// NewMetricSample 基于一次出餐转换构建样本
func NewMetricSample(record *RoutingRecord, completedAt time.Time) *MetricSample {
	duration := record.PrepDuration(completedAt)
	return &MetricSample{
		StationID:       record.StationID,
		RecordID:        record.ID,
		RecordedAt:      completedAt,
		DurationSeconds: int(duration / time.Second),
		ShiftDate:       completedAt.Format("2006-01-02"),
		HourBucket:      completedAt.Hour(),
	}
}
