package constants

// 工位类别
const (
	StationCategoryGrill   = "grill"   // 烧烤工位
	StationCategoryFryer   = "fryer"   // 油炸工位
	StationCategorySalad   = "salad"   // 冷菜工位
	StationCategoryBar     = "bar"     // 酒水工位
	StationCategoryDessert = "dessert" // 甜品工位
	StationCategoryPrep    = "prep"    // 备餐工位（兜底）
	StationCategoryExpo    = "expo"    // 出品口（最终装配）
)

// 订单类型
const (
	OrderKindFood     = "food"
	OrderKindBeverage = "beverage"
)

// 订单加急级别
const (
	OrderUrgencyNormal = "normal"
	OrderUrgencyRush   = "rush"
	OrderUrgencyVIP    = "vip"
)

// 订单整体状态（由流转记录派生）
const (
	OrderStatusNew        = "new"
	OrderStatusInProgress = "in_progress"
	OrderStatusReady      = "ready"
	OrderStatusServed     = "served"
	OrderStatusClosed     = "closed"
)

// 流转记录状态（派生，不落库）
const (
	RecordStateQueued    = "queued"
	RecordStateStarted   = "started"
	RecordStateCompleted = "completed"
)

// 加急级别对应的初始优先级，数值越大越靠前
const (
	PriorityNormal = 0
	PriorityRush   = 10
	PriorityVIP    = 20
)

// SequenceExpo 出品口保留序号，恒大于其它工位序号
const SequenceExpo = 100

// 推送事件类型
const (
	EventRecordCreated   = "record.created"
	EventRecordStarted   = "record.started"
	EventRecordCompleted = "record.completed"
	EventRecordRecalled  = "record.recalled"
	EventOrderReady      = "order.ready"
	EventAlertStale      = "alert.stale"
)

// 队列与任务
const (
	QueueDefault        = "default"
	TaskOrderStatusSync = "kitchen:order_status_sync"
	TaskOrderReady      = "kitchen:order_ready"
)
