package cmd

import (
	"log/slog"

	"gorm.io/gorm"

	httpin "orderflow/internal/adapters/in/http"
	"orderflow/internal/adapters/out/postgres"
	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/ports"
	"orderflow/internal/jobs"
	"orderflow/internal/tasks"
)

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	logger     *slog.Logger
}

func NewCompositionRoot(_ Config, gormDB *gorm.DB, logger *slog.Logger) CompositionRoot {
	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		logger:     logger,
	}
}

// UnitOfWorkFactory exposes the full-width factory for consumers that need
// every repository (task pool, trigger consumer, outbox relay).
func (c *CompositionRoot) UnitOfWorkFactory() ports.UnitOfWorkFactory {
	return c.uowFactory
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) returnUoWFactory() commands.ReturnUoWFactory {
	return FuncReturnUoWFactory(func() commands.ReturnUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateTransitionOrderCommandHandler() commands.TransitionOrderCommandHandler {
	return commands.NewTransitionOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateUpdateOrderShippingCommandHandler() commands.UpdateOrderShippingCommandHandler {
	return commands.NewUpdateOrderShippingCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateCreateReturnCommandHandler() commands.CreateReturnCommandHandler {
	return commands.NewCreateReturnCommandHandler(c.returnUoWFactory())
}

func (c *CompositionRoot) CreateTransitionReturnCommandHandler() commands.TransitionReturnCommandHandler {
	return commands.NewTransitionReturnCommandHandler(c.returnUoWFactory())
}

func (c *CompositionRoot) CreateUpdateReturnShippingCommandHandler() commands.UpdateReturnShippingCommandHandler {
	return commands.NewUpdateReturnShippingCommandHandler(c.returnUoWFactory())
}

func (c *CompositionRoot) CreateRecordRefundTransactionCommandHandler() commands.RecordRefundTransactionCommandHandler {
	return commands.NewRecordRefundTransactionCommandHandler(c.returnUoWFactory())
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetReturnQueryHandler() queries.GetReturnQueryHandler {
	return queries.NewGetReturnQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListReturnsQueryHandler() queries.ListReturnsQueryHandler {
	return queries.NewListReturnsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetAuditTrailQueryHandler() queries.GetAuditTrailQueryHandler {
	return queries.NewGetAuditTrailQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(
		c.CreateCreateOrderCommandHandler(),
		c.CreateTransitionOrderCommandHandler(),
		c.CreateUpdateOrderShippingCommandHandler(),
		c.CreateCreateReturnCommandHandler(),
		c.CreateTransitionReturnCommandHandler(),
		c.CreateUpdateReturnShippingCommandHandler(),
		c.CreateRecordRefundTransactionCommandHandler(),
		c.CreateGetOrderQueryHandler(),
		c.CreateGetReturnQueryHandler(),
		c.CreateListOrdersQueryHandler(),
		c.CreateListReturnsQueryHandler(),
		c.CreateGetAuditTrailQueryHandler(),
	)
}

// CreateTaskExecutor builds the executor over the registered handlers.
func (c *CompositionRoot) CreateTaskExecutor(handlers ...tasks.Handler) (*tasks.Executor, error) {
	registry := tasks.NewRegistry()
	for _, handler := range handlers {
		if err := registry.Register(handler); err != nil {
			return nil, err
		}
	}
	return tasks.NewExecutor(registry, c.logger)
}

// CreateOutboxRelayJob builds the relay draining the outbox to the broker.
func (c *CompositionRoot) CreateOutboxRelayJob(publisher jobs.EventPublisher) (*jobs.OutboxRelayJob, error) {
	return jobs.NewOutboxRelayJob(c.uowFactory, publisher, c.logger)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncReturnUoWFactory func() commands.ReturnUoW

func (f FuncReturnUoWFactory) Create() commands.ReturnUoW {
	return f()
}
