package router

import (
	"github.com/kds-next/internal/config"
	adminhandlers "github.com/kds-next/internal/http/handlers/admin"
	kitchenhandlers "github.com/kds-next/internal/http/handlers/kitchen"
	"github.com/kds-next/internal/logger"
	"github.com/kds-next/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	// 初始化 Handler（按看板/管理分组）
	kitchenHandler := kitchenhandlers.New(c)
	adminHandler := adminhandlers.New(c)

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	// 运行指标与健康检查
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok"})
	})

	// API 路由组
	apiV1 := r.Group("/api/v1")
	{
		// 订单接入
		orders := apiV1.Group("/orders")
		{
			orders.POST("", kitchenHandler.CreateOrder)
			orders.GET("/:id", kitchenHandler.GetOrder)
		}

		// 看板终端接口
		kitchen := apiV1.Group("/kitchen")
		{
			kitchen.GET("/stations", kitchenHandler.ListStations)
			kitchen.GET("/board", kitchenHandler.ListBoard)
			kitchen.GET("/board/stations/:station_id", kitchenHandler.ListStationBoard)
			kitchen.GET("/board/tables", kitchenHandler.ListTableBoard)
			kitchen.POST("/records/:id/start", kitchenHandler.StartRecord)
			kitchen.POST("/records/:id/complete", kitchenHandler.CompleteRecord)
			kitchen.POST("/records/:id/recall", kitchenHandler.RecallRecord)
			kitchen.POST("/tables/:table_no/bump", kitchenHandler.BumpTable)
			kitchen.GET("/events", kitchenHandler.SubscribeEvents)
		}

		// 管理接口
		admin := apiV1.Group("/admin")
		{
			admin.GET("/stations", adminHandler.ListStations)
			admin.POST("/stations", adminHandler.CreateStation)
			admin.PUT("/stations/:id", adminHandler.UpdateStation)
			admin.PUT("/stations/:id/active", adminHandler.SetStationActive)
			admin.GET("/metrics/samples", adminHandler.ListMetricSamples)
			admin.GET("/metrics/summary", adminHandler.SummarizeMetrics)
		}
	}

	return r
}
