package cmd

import (
	"log/slog"

	httpadapter "coffeeshop/internal/adapters/in/http"
	"coffeeshop/internal/adapters/out/postgres"
	"coffeeshop/internal/adapters/out/postgres/cartrepo"
	"coffeeshop/internal/adapters/out/postgres/orderrepo"
	"coffeeshop/internal/core/application/dispatch"
	"coffeeshop/internal/core/application/usecases/commands"
	"coffeeshop/internal/core/application/usecases/queries"
	"coffeeshop/internal/core/domain/model/kernel"
	"coffeeshop/internal/core/domain/services"
	"coffeeshop/internal/core/ports"
	"coffeeshop/internal/jobs"

	"gorm.io/gorm"
)

// Adapters are the outbound dependencies chosen at start-up. Publisher may be nil.
type Adapters struct {
	Catalog   ports.Catalog
	Locker    ports.Locker
	Messenger ports.Messenger
	Publisher ports.EventPublisher
}

type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	adapters   Adapters
	dispatcher *dispatch.Dispatcher
	clock      kernel.Clock
	logger     *slog.Logger
}

func NewCompositionRoot(cfg Config, gormDB *gorm.DB, adapters Adapters, logger *slog.Logger) *CompositionRoot {
	return &CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		adapters:   adapters,
		dispatcher: dispatch.New(
			adapters.Messenger,
			adapters.Publisher,
			services.NewMessageComposer(cfg.Location),
			cfg.DispatchConfig(),
			logger,
		),
		clock:  kernel.SystemClock{},
		logger: logger,
	}
}

// Dispatcher is shared by every handler that announces events; main starts and closes it.
func (c *CompositionRoot) Dispatcher() *dispatch.Dispatcher {
	return c.dispatcher
}

func (c *CompositionRoot) cartUoWFactory() commands.CartUoWFactory {
	return FuncCartUoWFactory(func() commands.CartUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateAddCartItemCommandHandler() commands.AddCartItemCommandHandler {
	return commands.NewAddCartItemCommandHandler(c.cartUoWFactory(), c.adapters.Locker, c.clock, c.cfg.OperationTimeout)
}

func (c *CompositionRoot) CreateRemoveCartItemCommandHandler() commands.RemoveCartItemCommandHandler {
	return commands.NewRemoveCartItemCommandHandler(c.cartUoWFactory(), c.adapters.Locker, c.clock, c.cfg.OperationTimeout)
}

func (c *CompositionRoot) CreateClearCartCommandHandler() commands.ClearCartCommandHandler {
	return commands.NewClearCartCommandHandler(c.cartUoWFactory(), c.adapters.Locker, c.clock, c.cfg.OperationTimeout)
}

func (c *CompositionRoot) CreatePurgeExpiredCartsCommandHandler() commands.PurgeExpiredCartsCommandHandler {
	return commands.NewPurgeExpiredCartsCommandHandler(c.cartUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateSubmitOrderCommandHandler() commands.SubmitOrderCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
	return commands.NewSubmitOrderCommandHandler(
		f,
		c.adapters.Catalog,
		c.adapters.Locker,
		c.dispatcher,
		c.clock,
		c.cfg.OperationTimeout,
		c.logger,
	)
}

func (c *CompositionRoot) CreateUpdateOrderStatusCommandHandler() commands.UpdateOrderStatusCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewUpdateOrderStatusCommandHandler(
		f,
		c.adapters.Locker,
		c.dispatcher,
		c.clock,
		c.cfg.OperationTimeout,
		c.logger,
	)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(orderrepo.NewGormOrderRepository(c.gormDB, nil), c.cfg.OperationTimeout)
}

func (c *CompositionRoot) CreateGetCartQueryHandler() queries.GetCartQueryHandler {
	return queries.NewGetCartQueryHandler(cartrepo.NewGormCartRepository(c.gormDB), c.adapters.Catalog, c.cfg.OperationTimeout)
}

func (c *CompositionRoot) CreateListCustomerOrdersQueryHandler() queries.ListCustomerOrdersQueryHandler {
	return queries.NewListCustomerOrdersQueryHandler(orderrepo.NewGormOrderRepository(c.gormDB, nil), c.cfg.OperationTimeout)
}

// CreateHTTPHandlers wires every use case the API exposes.
func (c *CompositionRoot) CreateHTTPHandlers() httpadapter.Handlers {
	return httpadapter.Handlers{
		AddCartItem:        c.CreateAddCartItemCommandHandler(),
		RemoveCartItem:     c.CreateRemoveCartItemCommandHandler(),
		ClearCart:          c.CreateClearCartCommandHandler(),
		SubmitOrder:        c.CreateSubmitOrderCommandHandler(),
		UpdateOrderStatus:  c.CreateUpdateOrderStatusCommandHandler(),
		GetCart:            c.CreateGetCartQueryHandler(),
		GetOrder:           c.CreateGetOrderQueryHandler(),
		ListCustomerOrders: c.CreateListCustomerOrdersQueryHandler(),
	}
}

// CreateWebhook returns nil when no bot is configured.
func (c *CompositionRoot) CreateWebhook(answerer httpadapter.CallbackAnswerer) *httpadapter.Webhook {
	if c.cfg.TelegramBotToken == "" {
		return nil
	}
	return httpadapter.NewWebhook(
		c.CreateUpdateOrderStatusCommandHandler(),
		answerer,
		c.cfg.StaffChatIDs,
		c.cfg.TelegramWebhookSecret,
		c.logger,
	)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		jobs.NewCartExpiryJob(
			c.CreatePurgeExpiredCartsCommandHandler(),
			c.cfg.CartTTL,
			c.cfg.CartCleanupSchedule,
			c.cfg.OperationTimeout,
			c.logger,
		),
	)
}

type FuncCartUoWFactory func() commands.CartUoW

func (f FuncCartUoWFactory) Create() commands.CartUoW {
	return f()
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
