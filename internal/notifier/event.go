package notifier

import (
	"time"

	"github.com/kds-next/internal/models"
)

// Event 推送给看板终端的变更通知，只通知不重放
type Event struct {
	Kind   string                 `json:"kind"`
	At     time.Time              `json:"at"`
	Record *models.RoutingRecord  `json:"record,omitempty"`
	Order  *models.Order          `json:"order,omitempty"`
	Detail map[string]interface{} `json:"detail,omitempty"`
}

// StationID 事件归属的工位，0 表示全局事件
func (e Event) StationID() uint {
	if e.Record != nil {
		return e.Record.StationID
	}
	return 0
}

// NewRecordEvent 创建流转记录事件
func NewRecordEvent(kind string, record *models.RoutingRecord) Event {
	return Event{Kind: kind, At: time.Now(), Record: record}
}

// NewOrderEvent 创建订单级事件
func NewOrderEvent(kind string, order *models.Order) Event {
	return Event{Kind: kind, At: time.Now(), Order: order}
}
