package provider

import (
	"github.com/kds-next/internal/cache"
	"github.com/kds-next/internal/config"
	"github.com/kds-next/internal/logger"
	"github.com/kds-next/internal/models"
	"github.com/kds-next/internal/notifier"
	"github.com/kds-next/internal/queue"
	"github.com/kds-next/internal/repository"
	"github.com/kds-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	Hub         *notifier.Hub

	// Repositories
	StationRepo repository.StationRepository
	OrderRepo   repository.OrderRepository
	RoutingRepo repository.RoutingRepository
	MetricRepo  repository.MetricRepository

	// Services
	Classifier     *service.Classifier
	StationService *service.StationService
	PlannerService *service.PlannerService
	OrderService   *service.OrderService
	TicketService  *service.TicketService
	BoardService   *service.BoardService
	MetricService  *service.MetricService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
		Hub:         notifier.NewHub(cfg.Notifier),
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.StationRepo = repository.NewStationRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.RoutingRepo = repository.NewRoutingRepository(db)
	c.MetricRepo = repository.NewMetricRepository(db)
}

func (c *Container) initServices() {
	c.Classifier = service.NewClassifier()
	c.StationService = service.NewStationService(c.StationRepo, &c.Config.Kitchen)
	c.PlannerService = service.NewPlannerService(c.StationService, c.RoutingRepo, c.Classifier, &c.Config.Kitchen)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.RoutingRepo, c.PlannerService, c.Hub, c.QueueClient)
	c.TicketService = service.NewTicketService(c.RoutingRepo, c.Hub, c.QueueClient)
	c.BoardService = service.NewBoardService(c.RoutingRepo, &c.Config.Kitchen)
	c.MetricService = service.NewMetricService(c.MetricRepo)
}
