package provider

import (
	"time"

	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/cache"
	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/catalog"
	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/config"
	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/logger"
	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/models"
	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/queue"
	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/repository"
	"github.com/youngre511/PeachBlossom-eStore-sub003/internal/service"
)

// Container wires repositories and services together.
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	ProductRepo   repository.ProductRepository
	CategoryRepo  repository.CategoryRepository
	InventoryRepo repository.InventoryRepository
	PromotionRepo repository.PromotionRepository
	CartRepo      repository.CartRepository
	OrderRepo     repository.OrderRepository
	CustomerRepo  repository.CustomerRepository

	// Services
	CatalogLookup    catalog.Lookup
	PromotionService *service.PromotionService
	CartService      *service.CartService
	InventoryService *service.InventoryService
	OrderService     *service.OrderService
	CartMergeService *service.CartMergeService
	CustomerService  *service.CustomerService
}

// NewContainer initializes the container.
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
		queueClient, _ = queue.NewClient(nil)
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.ProductRepo = repository.NewProductRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.InventoryRepo = repository.NewInventoryRepository(db)
	c.PromotionRepo = repository.NewPromotionRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.CustomerRepo = repository.NewCustomerRepository(db)
}

func (c *Container) initServices() {
	cacheTTL := time.Duration(c.Config.Catalog.CacheTTLSeconds) * time.Second
	c.CatalogLookup = catalog.NewCachedLookup(c.ProductRepo, cacheTTL)

	c.PromotionService = service.NewPromotionService(c.PromotionRepo)
	c.InventoryService = service.NewInventoryService(
		c.InventoryRepo,
		c.CartRepo,
		c.QueueClient,
		c.Config.Order.HoldExpireMinutes,
	)
	c.CartService = service.NewCartService(
		c.CartRepo,
		c.InventoryRepo,
		c.CatalogLookup,
		c.PromotionService,
		c.InventoryService,
	)
	c.OrderService = service.NewOrderService(
		c.OrderRepo,
		c.CartRepo,
		c.InventoryRepo,
		c.Config.Order.NumberPrefix,
		c.Config.Order.TaxRate,
		c.Config.Order.ShippingFlatRate,
	)
	c.CartMergeService = service.NewCartMergeService(c.CartRepo, c.CartService, c.InventoryService)
	c.CustomerService = service.NewCustomerService(c.CustomerRepo)
}
