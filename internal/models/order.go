package models

import (
	"time"
)

// Order 订单表，由接单侧写入，路由引擎只读
type Order struct {
	ID        uint      `gorm:"primarykey" json:"id"`                      // 主键
	OrderNo   string    `gorm:"uniqueIndex;not null" json:"order_no"`      // 订单编号
	TableNo   string    `gorm:"index;not null" json:"table_no"`            // 桌号
	SeatNo    string    `gorm:"type:varchar(20)" json:"seat_no,omitempty"` // 座位号
	Kind      string    `gorm:"not null" json:"kind"`                      // 订单类型（food/beverage）
	Urgency   string    `gorm:"not null" json:"urgency"`                   // 加急级别
	Status    string    `gorm:"index;not null" json:"status"`              // 整体状态（worker 异步回写，读取侧以派生值为准）
	CreatedAt time.Time `gorm:"index" json:"created_at"`                   // 下单时间
	UpdatedAt time.Time `json:"updated_at"`                                // 更新时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单项
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// OrderItem 订单项
type OrderItem struct {
	ID          uint   `gorm:"primarykey" json:"id"`                 // 主键
	OrderID     uint   `gorm:"index;not null" json:"order_id"`       // 订单ID
	Name        string `gorm:"not null" json:"name"`                 // 菜品名称
	Quantity    int    `gorm:"not null;default:1" json:"quantity"`   // 数量
	Modifier    string `json:"modifier,omitempty"`                   // 备注/做法
	MenuItemKey string `gorm:"index" json:"menu_item_key,omitempty"` // 稳定菜品标识，用于显式映射
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
