package main

import (
	"github.com/kds-next/internal/config"
	"github.com/kds-next/internal/constants"
	"github.com/kds-next/internal/logger"
	"github.com/kds-next/internal/models"
	"github.com/kds-next/internal/repository"
	"github.com/kds-next/internal/service"
)

// 演示数据：几桌典型订单，走完整的路由规划流程入库
var demoOrders = []service.CreateOrderInput{
	{
		TableNo: "T1",
		Kind:    constants.OrderKindFood,
		Urgency: constants.OrderUrgencyNormal,
		Items: []service.OrderItemInput{
			{Name: "Grilled Chicken", Quantity: 1},
			{Name: "Fries", Quantity: 2},
			{Name: "Coke", Quantity: 2},
		},
	},
	{
		TableNo: "T1",
		Kind:    constants.OrderKindBeverage,
		Urgency: constants.OrderUrgencyNormal,
		Items: []service.OrderItemInput{
			{Name: "Lemonade", Quantity: 3},
		},
	},
	{
		TableNo: "T2",
		Kind:    constants.OrderKindFood,
		Urgency: constants.OrderUrgencyVIP,
		Items: []service.OrderItemInput{
			{Name: "Ribeye Steak", Quantity: 1, Modifier: "medium rare"},
			{Name: "Caesar Salad", Quantity: 1},
			{Name: "Chocolate Brownie", Quantity: 1},
		},
	},
	{
		TableNo: "T3",
		Kind:    constants.OrderKindFood,
		Urgency: constants.OrderUrgencyRush,
		Items: []service.OrderItemInput{
			{Name: "Mystery Special", Quantity: 1},
		},
	},
}

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns: cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns: cfg.Database.Pool.MaxIdleConns,
	}); err != nil {
		stdLog.Fatalf("数据库初始化失败: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("数据库迁移失败: %v", err)
	}
	if err := models.InitDefaultStations(); err != nil {
		stdLog.Fatalf("初始化标准工位失败: %v", err)
	}

	db := models.DB
	stationRepo := repository.NewStationRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	routingRepo := repository.NewRoutingRepository(db)

	stationService := service.NewStationService(stationRepo, &cfg.Kitchen)
	planner := service.NewPlannerService(stationService, routingRepo, service.NewClassifier(), &cfg.Kitchen)
	orderService := service.NewOrderService(orderRepo, routingRepo, planner, nil, nil)

	for _, input := range demoOrders {
		order, records, err := orderService.Create(input)
		if err != nil {
			stdLog.Fatalf("落单失败 (table %s): %v", input.TableNo, err)
		}
		stdLog.Printf("订单 %s 已落单: table=%s records=%d", order.OrderNo, order.TableNo, len(records))
	}
	stdLog.Printf("演示数据写入完成，共 %d 单", len(demoOrders))
}
