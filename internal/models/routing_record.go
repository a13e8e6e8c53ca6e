package models

import (
	"time"

	"github.com/kds-next/internal/constants"
)

// RoutingRecord 工位流转记录表，每条记录是独立的状态机
type RoutingRecord struct {
	ID                   uint       `gorm:"primarykey" json:"id"`                                     // 主键
	OrderID              uint       `gorm:"not null;uniqueIndex:idx_order_station" json:"order_id"`   // 订单ID
	StationID            uint       `gorm:"not null;uniqueIndex:idx_order_station" json:"station_id"` // 工位ID
	Sequence             int        `gorm:"not null" json:"sequence"`                                 // 流水线序号，出品口恒为保留最大值
	Priority             int        `gorm:"index;not null;default:0" json:"priority"`                 // 优先级，越大越靠前
	RoutedAt             time.Time  `gorm:"index;not null" json:"routed_at"`                          // 路由时间
	StartedAt            *time.Time `json:"started_at"`                                               // 开始时间
	CompletedAt          *time.Time `gorm:"index" json:"completed_at"`                                // 出餐时间
	BumpedBy             string     `gorm:"type:varchar(64)" json:"bumped_by,omitempty"`              // 出餐操作员，与 completed_at 同生共灭
	RecallCount          int        `gorm:"not null;default:0" json:"recall_count"`                   // 召回次数
	EstimatedPrepSeconds int        `gorm:"not null;default:0" json:"estimated_prep_seconds"`         // 预估备餐秒数
	ActualPrepSeconds    *int       `json:"actual_prep_seconds"`                                      // 实际备餐秒数
	Notes                string     `json:"notes,omitempty"`                                          // 备注
	CreatedAt            time.Time  `json:"created_at"`                                               // 创建时间
	UpdatedAt            time.Time  `json:"updated_at"`                                               // 更新时间

	Order   *Order   `gorm:"foreignKey:OrderID" json:"order,omitempty"`     // 关联订单
	Station *Station `gorm:"foreignKey:StationID" json:"station,omitempty"` // 关联工位
}

// TableName 指定表名
func (RoutingRecord) TableName() string {
	return "routing_records"
}

// State 派生当前状态
func (r *RoutingRecord) State() string {
	if r == nil {
		return ""
	}
	if r.CompletedAt != nil {
		return constants.RecordStateCompleted
	}
	if r.StartedAt != nil {
		return constants.RecordStateStarted
	}
	return constants.RecordStateQueued
}

// PrepDuration 计算从开工（或路由）到 completedAt 的耗时
func (r *RoutingRecord) PrepDuration(completedAt time.Time) time.Duration {
	if r == nil {
		return 0
	}
	since := r.RoutedAt
	if r.StartedAt != nil {
		since = *r.StartedAt
	}
	d := completedAt.Sub(since)
	if d < 0 {
		return 0
	}
	return d
}
