package provider

import (
	"github.com/niaga-next/internal/authz"
	"github.com/niaga-next/internal/cache"
	"github.com/niaga-next/internal/config"
	"github.com/niaga-next/internal/logger"
	"github.com/niaga-next/internal/models"
	"github.com/niaga-next/internal/queue"
	"github.com/niaga-next/internal/repository"
	"github.com/niaga-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo         repository.AdminRepository
	CategoryRepo      repository.CategoryRepository
	ServiceRepo       repository.ServiceRepository
	StoreItemRepo     repository.StoreItemRepository
	PostRepo          repository.PostRepository
	DiscountRepo      repository.DiscountRepository
	DiscountUsageRepo repository.DiscountUsageRepository
	ServiceOrderRepo  repository.ServiceOrderRepository
	StorePurchaseRepo repository.StorePurchaseRepository

	// Services
	AuthzService         *authz.Service
	AuthService          *service.AuthService
	CategoryService      *service.CategoryService
	CatalogService       *service.CatalogService
	StoreItemService     *service.StoreItemService
	PostService          *service.PostService
	DiscountService      *service.DiscountService
	DiscountAdminService *service.DiscountAdminService
	OrderService         *service.OrderService
	PurchaseService      *service.PurchaseService
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
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.ServiceRepo = repository.NewServiceRepository(db)
	c.StoreItemRepo = repository.NewStoreItemRepository(db)
	c.PostRepo = repository.NewPostRepository(db)
	c.DiscountRepo = repository.NewDiscountRepository(db)
	c.DiscountUsageRepo = repository.NewDiscountUsageRepository(db)
	c.ServiceOrderRepo = repository.NewServiceOrderRepository(db)
	c.StorePurchaseRepo = repository.NewStorePurchaseRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.CategoryService = service.NewCategoryService(c.CategoryRepo)
	c.CatalogService = service.NewCatalogService(c.ServiceRepo, c.CategoryRepo)
	c.StoreItemService = service.NewStoreItemService(c.StoreItemRepo)
	c.PostService = service.NewPostService(c.PostRepo)
	c.DiscountService = service.NewDiscountService(c.DiscountRepo)
	c.DiscountAdminService = service.NewDiscountAdminService(c.DiscountRepo, c.DiscountUsageRepo)
	c.OrderService = service.NewOrderService(c.ServiceOrderRepo, c.ServiceRepo, c.DiscountRepo, c.DiscountUsageRepo, c.DiscountService, c.QueueClient)
	c.PurchaseService = service.NewPurchaseService(c.StorePurchaseRepo, c.StoreItemRepo, c.DiscountRepo, c.DiscountUsageRepo, c.DiscountService, c.QueueClient)
}
