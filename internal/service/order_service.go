package service

import (
	"strings"
	"time"

	"github.com/kds-next/internal/constants"
	"github.com/kds-next/internal/logger"
	"github.com/kds-next/internal/models"
	"github.com/kds-next/internal/notifier"
	"github.com/kds-next/internal/queue"
	"github.com/kds-next/internal/repository"

	"github.com/google/uuid"
)

// OrderService 订单接入服务，落单后立即触发路由规划
type OrderService struct {
	orders  repository.OrderRepository
	routing repository.RoutingRepository
	planner *PlannerService
	hub     *notifier.Hub
	queue   *queue.Client
}

// NewOrderService 创建订单服务
func NewOrderService(orders repository.OrderRepository, routing repository.RoutingRepository, planner *PlannerService, hub *notifier.Hub, queueClient *queue.Client) *OrderService {
	return &OrderService{
		orders:  orders,
		routing: routing,
		planner: planner,
		hub:     hub,
		queue:   queueClient,
	}
}

// OrderItemInput 菜品输入
type OrderItemInput struct {
	Name        string `json:"name"`
	Quantity    int    `json:"quantity"`
	Modifier    string `json:"modifier"`
	MenuItemKey string `json:"menu_item_key"`
}

// CreateOrderInput 创建订单输入
type CreateOrderInput struct {
	OrderNo string           `json:"order_no"`
	TableNo string           `json:"table_no"`
	SeatNo  string           `json:"seat_no"`
	Kind    string           `json:"kind"`
	Urgency string           `json:"urgency"`
	Items   []OrderItemInput `json:"items"`
}

// Create 落单并生成流转记录
func (s *OrderService) Create(input CreateOrderInput) (*models.Order, []*models.RoutingRecord, error) {
	order, err := s.buildOrder(input)
	if err != nil {
		return nil, nil, err
	}

	if input.OrderNo != "" {
		existing, err := s.orders.GetByOrderNo(order.OrderNo)
		if err != nil {
			return nil, nil, err
		}
		if existing != nil {
			return nil, nil, ErrDuplicateOrderNo
		}
	}

	// 规划前先确认有在用工位，避免落下无处可去的订单
	snapshot, err := s.planner.stations.ActiveSnapshot()
	if err != nil {
		return nil, nil, err
	}
	if len(snapshot) == 0 {
		return nil, nil, ErrNoActiveStation
	}

	if err := s.orders.Create(order); err != nil {
		return nil, nil, err
	}

	records, err := s.planner.PlanOrder(order)
	if err != nil {
		logger.Errorw("order_plan_failed", "order_id", order.ID, "error", err)
		return nil, nil, err
	}

	for _, record := range records {
		if s.hub != nil {
			s.hub.Broadcast(notifier.NewRecordEvent(constants.EventRecordCreated, record))
		}
	}
	if s.queue != nil {
		err := s.queue.EnqueueOrderStatusSync(queue.OrderStatusSyncPayload{OrderID: order.ID})
		if err != nil {
			logger.Warnw("order_status_sync_enqueue_failed", "order_id", order.ID, "error", err)
		}
	}
	return order, records, nil
}

// GetByID 获取订单及其派生状态
func (s *OrderService) GetByID(id uint) (*models.Order, string, error) {
	order, err := s.orders.GetByID(id)
	if err != nil {
		return nil, "", err
	}
	if order == nil {
		return nil, "", ErrNotFound
	}
	progress, err := s.routing.Progress(id)
	if err != nil {
		return nil, "", err
	}
	return order, DeriveOrderStatus(order.Status, progress), nil
}

// DeriveOrderStatus 由流转记录计数派生订单整体状态。
// 已上桌/已关单的订单状态由前台流程掌控，不再回退。
func DeriveOrderStatus(current string, progress *repository.OrderProgress) string {
	if current == constants.OrderStatusServed || current == constants.OrderStatusClosed {
		return current
	}
	if progress == nil || progress.Total == 0 {
		return constants.OrderStatusNew
	}
	if progress.Completed == progress.Total {
		return constants.OrderStatusReady
	}
	if progress.Started > 0 || progress.Completed > 0 {
		return constants.OrderStatusInProgress
	}
	return constants.OrderStatusNew
}

func (s *OrderService) buildOrder(input CreateOrderInput) (*models.Order, error) {
	if len(input.Items) == 0 {
		return nil, ErrInvalidOrder
	}

	kind := input.Kind
	if kind == "" {
		kind = constants.OrderKindFood
	}
	if kind != constants.OrderKindFood && kind != constants.OrderKindBeverage {
		return nil, ErrInvalidOrder
	}

	urgency := input.Urgency
	if urgency == "" {
		urgency = constants.OrderUrgencyNormal
	}
	switch urgency {
	case constants.OrderUrgencyNormal, constants.OrderUrgencyRush, constants.OrderUrgencyVIP:
	default:
		return nil, ErrInvalidOrder
	}

	orderNo := strings.TrimSpace(input.OrderNo)
	if orderNo == "" {
		orderNo = generateOrderNo()
	}

	items := make([]models.OrderItem, 0, len(input.Items))
	for _, item := range input.Items {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			return nil, ErrInvalidOrder
		}
		quantity := item.Quantity
		if quantity <= 0 {
			quantity = 1
		}
		items = append(items, models.OrderItem{
			Name:        name,
			Quantity:    quantity,
			Modifier:    strings.TrimSpace(item.Modifier),
			MenuItemKey: strings.TrimSpace(item.MenuItemKey),
		})
	}

	return &models.Order{
		OrderNo: orderNo,
		TableNo: strings.TrimSpace(input.TableNo),
		SeatNo:  strings.TrimSpace(input.SeatNo),
		Kind:    kind,
		Urgency: urgency,
		Status:  constants.OrderStatusNew,
		Items:   items,
	}, nil
}

// generateOrderNo 生成订单号：日期前缀加短随机段
func generateOrderNo() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:8]
	return "KD" + time.Now().Format("20060102") + suffix
}
