package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/model/returns"
	"orderflow/internal/core/domain/services"
)

const actorHeader = "X-Actor"

// Server exposes the workflow engine over HTTP. It binds requests, builds
// commands and queries, and maps domain errors to the wire.
type Server struct {
	// Command handlers
	createOrderHandler          commands.CreateOrderCommandHandler
	transitionOrderHandler      commands.TransitionOrderCommandHandler
	updateShippingHandler       commands.UpdateOrderShippingCommandHandler
	createReturnHandler         commands.CreateReturnCommandHandler
	transitionReturnHandler     commands.TransitionReturnCommandHandler
	updateReturnShippingHandler commands.UpdateReturnShippingCommandHandler
	recordRefundHandler         commands.RecordRefundTransactionCommandHandler

	// Query handlers
	getOrderHandler      queries.GetOrderQueryHandler
	getReturnHandler     queries.GetReturnQueryHandler
	listOrdersHandler    queries.ListOrdersQueryHandler
	listReturnsHandler   queries.ListReturnsQueryHandler
	getAuditTrailHandler queries.GetAuditTrailQueryHandler

	validator services.TransitionValidator
}

// NewServer creates the HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	transitionOrderHandler commands.TransitionOrderCommandHandler,
	updateShippingHandler commands.UpdateOrderShippingCommandHandler,
	createReturnHandler commands.CreateReturnCommandHandler,
	transitionReturnHandler commands.TransitionReturnCommandHandler,
	updateReturnShippingHandler commands.UpdateReturnShippingCommandHandler,
	recordRefundHandler commands.RecordRefundTransactionCommandHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	getReturnHandler queries.GetReturnQueryHandler,
	listOrdersHandler queries.ListOrdersQueryHandler,
	listReturnsHandler queries.ListReturnsQueryHandler,
	getAuditTrailHandler queries.GetAuditTrailQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:          createOrderHandler,
		transitionOrderHandler:      transitionOrderHandler,
		updateShippingHandler:       updateShippingHandler,
		createReturnHandler:         createReturnHandler,
		transitionReturnHandler:     transitionReturnHandler,
		updateReturnShippingHandler: updateReturnShippingHandler,
		recordRefundHandler:         recordRefundHandler,
		getOrderHandler:             getOrderHandler,
		getReturnHandler:            getReturnHandler,
		listOrdersHandler:           listOrdersHandler,
		listReturnsHandler:          listReturnsHandler,
		getAuditTrailHandler:        getAuditTrailHandler,
		validator:                   services.NewTransitionValidator(),
	}
}

// NewEcho builds the echo instance with routes and middleware registered.
func (s *Server) NewEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	e.GET("/health", s.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1")
	api.POST("/orders", s.CreateOrder)
	api.GET("/orders", s.ListOrders)
	api.GET("/orders/:id", s.GetOrder)
	api.POST("/orders/:id/transitions", s.TransitionOrder)
	api.GET("/orders/:id/allowed-transitions", s.GetOrderAllowedTransitions)
	api.PUT("/orders/:id/shipping", s.UpdateOrderShipping)
	api.POST("/returns", s.CreateReturn)
	api.GET("/returns", s.ListReturns)
	api.GET("/returns/:id", s.GetReturn)
	api.POST("/returns/:id/transitions", s.TransitionReturn)
	api.GET("/returns/:id/allowed-transitions", s.GetReturnAllowedTransitions)
	api.PUT("/returns/:id/shipping", s.UpdateReturnShipping)
	api.POST("/returns/:id/refund-transaction", s.RecordRefundTransaction)
	api.GET("/audit/:kind/:id", s.GetAuditTrail)

	return e
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) actorInfo(ctx echo.Context) (commands.ActorInfo, error) {
	actor := ctx.Request().Header.Get(actorHeader)
	if actor == "" {
		return commands.ActorInfo{}, echo.NewHTTPError(http.StatusBadRequest)
	}
	return commands.NewActorInfo(actor, kernel.ActorUser, kernel.TriggerAPI, ctx.RealIP())
}

func (s *Server) pathUUID(ctx echo.Context) (kernel.UUID, error) {
	return kernel.UUIDFromString(ctx.Param("id"))
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var req createOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	actorInfo, err := s.actorInfo(ctx)
	if err != nil {
		return badRequest(ctx, "Missing "+actorHeader+" header")
	}

	subtotal, err := kernel.NewMoney(req.SubtotalCents)
	if err != nil {
		return writeError(ctx, err)
	}
	tax, err := kernel.NewMoney(req.TaxCents)
	if err != nil {
		return writeError(ctx, err)
	}
	shippingCost, err := kernel.NewMoney(req.ShippingCostCents)
	if err != nil {
		return writeError(ctx, err)
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(
		orderID,
		req.CustomerID,
		req.ShippingAddress,
		req.BillingAddress,
		req.PaymentMethod,
		subtotal,
		tax,
		shippingCost,
		actorInfo,
	)
	if err != nil {
		return writeError(ctx, err)
	}

	if err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return s.respondWithOrder(ctx, http.StatusCreated, orderID)
}

// GetOrder handles GET /api/v1/orders/:id.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := s.pathUUID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}
	return s.respondWithOrder(ctx, http.StatusOK, orderID)
}

func (s *Server) respondWithOrder(ctx echo.Context, status int, orderID kernel.UUID) error {
	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return writeError(ctx, err)
	}

	response, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(status, toOrderResponse(response))
}

// ListOrders handles GET /api/v1/orders.
func (s *Server) ListOrders(ctx echo.Context) error {
	var params struct {
		Status string `query:"status"`
		Limit  int    `query:"limit"`
		Offset int    `query:"offset"`
	}
	if err := ctx.Bind(&params); err != nil {
		return badRequest(ctx, "Invalid query parameters")
	}

	query, err := queries.NewListOrdersQuery(order.Status(params.Status), params.Limit, params.Offset)
	if err != nil {
		return writeError(ctx, err)
	}

	summaries, err := s.listOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]orderSummaryResponse, len(summaries))
	for i, summary := range summaries {
		response[i] = orderSummaryResponse{
			ID:         summary.ID.String(),
			CustomerID: summary.CustomerID,
			Status:     summary.Status,
			TotalCents: summary.TotalCents,
		}
	}
	return ctx.JSON(http.StatusOK, response)
}

// TransitionOrder handles POST /api/v1/orders/:id/transitions.
func (s *Server) TransitionOrder(ctx echo.Context) error {
	orderID, err := s.pathUUID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	var req transitionRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	actorInfo, err := s.actorInfo(ctx)
	if err != nil {
		return badRequest(ctx, "Missing "+actorHeader+" header")
	}

	cmd, err := commands.NewTransitionOrderCommand(orderID, order.Status(req.TargetState), actorInfo, req.Metadata)
	if err != nil {
		return writeError(ctx, err)
	}

	if err := s.transitionOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}
	return s.respondWithOrder(ctx, http.StatusOK, orderID)
}

// GetOrderAllowedTransitions handles GET /api/v1/orders/:id/allowed-transitions.
func (s *Server) GetOrderAllowedTransitions(ctx echo.Context) error {
	orderID, err := s.pathUUID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return writeError(ctx, err)
	}
	current, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return s.respondAllowedTransitions(ctx, kernel.KindOrder, current.Status)
}

func (s *Server) respondAllowedTransitions(ctx echo.Context, kind kernel.EntityKind, current string) error {
	allowed, err := s.validator.AllowedNext(kind, current)
	if err != nil {
		return writeError(ctx, err)
	}
	terminal, err := s.validator.IsTerminal(kind, current)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, allowedTransitionsResponse{
		Kind:               kind.String(),
		CurrentState:       current,
		AllowedTransitions: allowed,
		Terminal:           terminal,
	})
}

// UpdateOrderShipping handles PUT /api/v1/orders/:id/shipping.
func (s *Server) UpdateOrderShipping(ctx echo.Context) error {
	orderID, err := s.pathUUID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	var req shippingRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	actorInfo, err := s.actorInfo(ctx)
	if err != nil {
		return badRequest(ctx, "Missing "+actorHeader+" header")
	}

	cmd, err := commands.NewUpdateOrderShippingCommand(orderID, req.TrackingNumber, req.Carrier, actorInfo)
	if err != nil {
		return writeError(ctx, err)
	}

	if err := s.updateShippingHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}
	return s.respondWithOrder(ctx, http.StatusOK, orderID)
}

// CreateReturn handles POST /api/v1/returns.
func (s *Server) CreateReturn(ctx echo.Context) error {
	var req createReturnRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	actorInfo, err := s.actorInfo(ctx)
	if err != nil {
		return badRequest(ctx, "Missing "+actorHeader+" header")
	}

	orderID, err := kernel.UUIDFromString(req.OrderID)
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	refundAmount, err := kernel.NewMoney(req.RefundAmountCents)
	if err != nil {
		return writeError(ctx, err)
	}

	returnID := kernel.NewUUID()
	cmd, err := commands.NewCreateReturnCommand(returnID, orderID, req.Reason, refundAmount, actorInfo)
	if err != nil {
		return writeError(ctx, err)
	}

	if err := s.createReturnHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}
	return s.respondWithReturn(ctx, http.StatusCreated, returnID)
}

// GetReturn handles GET /api/v1/returns/:id.
func (s *Server) GetReturn(ctx echo.Context) error {
	returnID, err := s.pathUUID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid return id")
	}
	return s.respondWithReturn(ctx, http.StatusOK, returnID)
}

func (s *Server) respondWithReturn(ctx echo.Context, status int, returnID kernel.UUID) error {
	query, err := queries.NewGetReturnQuery(returnID)
	if err != nil {
		return writeError(ctx, err)
	}

	response, err := s.getReturnHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}
	return ctx.JSON(status, toReturnResponse(response))
}

// TransitionReturn handles POST /api/v1/returns/:id/transitions.
func (s *Server) TransitionReturn(ctx echo.Context) error {
	returnID, err := s.pathUUID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid return id")
	}

	var req transitionRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	actorInfo, err := s.actorInfo(ctx)
	if err != nil {
		return badRequest(ctx, "Missing "+actorHeader+" header")
	}

	cmd, err := commands.NewTransitionReturnCommand(
		returnID,
		returns.Status(req.TargetState),
		req.RejectionReason,
		actorInfo,
		req.Metadata,
	)
	if err != nil {
		return writeError(ctx, err)
	}

	if err := s.transitionReturnHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}
	return s.respondWithReturn(ctx, http.StatusOK, returnID)
}

// GetReturnAllowedTransitions handles GET /api/v1/returns/:id/allowed-transitions.
func (s *Server) GetReturnAllowedTransitions(ctx echo.Context) error {
	returnID, err := s.pathUUID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid return id")
	}

	query, err := queries.NewGetReturnQuery(returnID)
	if err != nil {
		return writeError(ctx, err)
	}
	current, err := s.getReturnHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	return s.respondAllowedTransitions(ctx, kernel.KindReturn, current.Status)
}

// ListReturns handles GET /api/v1/returns.
func (s *Server) ListReturns(ctx echo.Context) error {
	var params struct {
		Status string `query:"status"`
		Limit  int    `query:"limit"`
		Offset int    `query:"offset"`
	}
	if err := ctx.Bind(&params); err != nil {
		return badRequest(ctx, "Invalid query parameters")
	}

	query, err := queries.NewListReturnsQuery(returns.Status(params.Status), params.Limit, params.Offset)
	if err != nil {
		return writeError(ctx, err)
	}

	summaries, err := s.listReturnsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]returnSummaryResponse, len(summaries))
	for i, summary := range summaries {
		response[i] = returnSummaryResponse{
			ID:                summary.ID.String(),
			OrderID:           summary.OrderID.String(),
			Status:            summary.Status,
			RefundAmountCents: summary.RefundAmountCents,
		}
	}
	return ctx.JSON(http.StatusOK, response)
}

// UpdateReturnShipping handles PUT /api/v1/returns/:id/shipping.
func (s *Server) UpdateReturnShipping(ctx echo.Context) error {
	returnID, err := s.pathUUID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid return id")
	}

	var req returnShippingRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	actorInfo, err := s.actorInfo(ctx)
	if err != nil {
		return badRequest(ctx, "Missing "+actorHeader+" header")
	}

	cmd, err := commands.NewUpdateReturnShippingCommand(
		returnID, req.ReturnTrackingNumber, req.ReturnCarrier, actorInfo)
	if err != nil {
		return writeError(ctx, err)
	}

	if err := s.updateReturnShippingHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}
	return s.respondWithReturn(ctx, http.StatusOK, returnID)
}

// RecordRefundTransaction handles POST /api/v1/returns/:id/refund-transaction.
// Manual reconciliation path for operators when the background refund task
// failed terminally but the provider refund went through out of band.
func (s *Server) RecordRefundTransaction(ctx echo.Context) error {
	returnID, err := s.pathUUID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid return id")
	}

	var req refundTransactionRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	actorInfo, err := s.actorInfo(ctx)
	if err != nil {
		return badRequest(ctx, "Missing "+actorHeader+" header")
	}

	cmd, err := commands.NewRecordRefundTransactionCommand(returnID, req.TransactionID, actorInfo)
	if err != nil {
		return writeError(ctx, err)
	}

	if err := s.recordRefundHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}
	return s.respondWithReturn(ctx, http.StatusOK, returnID)
}

// GetAuditTrail handles GET /api/v1/audit/:kind/:id.
func (s *Server) GetAuditTrail(ctx echo.Context) error {
	kind, err := parseKind(ctx.Param("kind"))
	if err != nil {
		return badRequest(ctx, "Unknown entity kind")
	}

	entityID, err := s.pathUUID(ctx)
	if err != nil {
		return badRequest(ctx, "Invalid entity id")
	}

	from, err := parseTimeParam(ctx.QueryParam("from"))
	if err != nil {
		return badRequest(ctx, "Invalid from timestamp")
	}
	to, err := parseTimeParam(ctx.QueryParam("to"))
	if err != nil {
		return badRequest(ctx, "Invalid to timestamp")
	}

	query, err := queries.NewGetAuditTrailQuery(kind, entityID, ctx.QueryParam("actor"), from, to)
	if err != nil {
		return writeError(ctx, err)
	}

	entries, err := s.getAuditTrailHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]auditEntryResponse, len(entries))
	for i, entry := range entries {
		response[i] = toAuditEntryResponse(entry)
	}
	return ctx.JSON(http.StatusOK, response)
}

func parseKind(raw string) (kernel.EntityKind, error) {
	switch raw {
	case "orders":
		return kernel.KindOrder, nil
	case "returns":
		return kernel.KindReturn, nil
	default:
		kind := kernel.EntityKind(raw)
		return kind, kind.Validate()
	}
}

func parseTimeParam(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, raw)
}
