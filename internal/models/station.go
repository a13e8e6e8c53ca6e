package models

import (
	"time"
)

// Station 工位表
type Station struct {
	ID        uint      `gorm:"primarykey" json:"id"`                      // 主键
	Name      string    `gorm:"not null" json:"name"`                      // 显示名称
	Category  string    `gorm:"index;not null" json:"category"`            // 工位类别
	Color     string    `gorm:"type:varchar(20)" json:"color"`             // 看板颜色
	Position  int       `gorm:"index;not null;default:0" json:"position"`  // 显示顺序
	Active    bool      `gorm:"index;not null;default:true" json:"active"` // 启用标记，下线而非删除
	Config    JSON      `gorm:"type:text" json:"config,omitempty"`         // 自由配置
	CreatedAt time.Time `json:"created_at"`                                // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                                // 更新时间
}

// TableName 指定表名
func (Station) TableName() string {
	return "stations"
}

// EstimatedPrepSeconds 从工位配置解析预估备餐时长
func (s *Station) EstimatedPrepSeconds(fallback int) int {
	if s == nil {
		return fallback
	}
	return s.Config.IntValue("estimated_prep_seconds", fallback)
}
