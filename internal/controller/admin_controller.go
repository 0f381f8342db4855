package controller

import (
	"github.com/gofiber/fiber/v2"

	"telecom-support-be/internal/pkg/logger"
	"telecom-support-be/internal/pkg/serverutils"
	"telecom-support-be/internal/repository/unitofwork"
	"telecom-support-be/pkg/dashboard"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	Dashboard(ctx *fiber.Ctx) error
	Priorities(ctx *fiber.Ctx) error
	Logs(ctx *fiber.Ctx) error
}

type adminController struct {
	aggregator *dashboard.Aggregator
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewAdminController(
	aggregator *dashboard.Aggregator,
	uowFactory unitofwork.RepositoryFactory,
	log logger.ILogger,
) IAdminController {
	return &adminController{
		aggregator: aggregator,
		uowFactory: uowFactory,
		logger:     log,
	}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("dashboard", c.Dashboard)
	h.Get("dashboard/priorities", c.Priorities)
	h.Get("logs", c.Logs)
}

func (c *adminController) Dashboard(ctx *fiber.Ctx) error {
	uow := c.uowFactory.NewUnitOfWork(ctx.Context())
	stats, err := c.aggregator.GetStats(ctx.Context(), uow)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show dashboard stats", stats))
}

func (c *adminController) Priorities(ctx *fiber.Ctx) error {
	uow := c.uowFactory.NewUnitOfWork(ctx.Context())
	breakdown, err := c.aggregator.PriorityBreakdown(ctx.Context(), uow)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show priority breakdown", breakdown))
}

func (c *adminController) Logs(ctx *fiber.Ctx) error {
	level := ctx.Query("level")
	limit := ctx.QueryInt("limit", 100)
	offset := ctx.QueryInt("offset", 0)

	logs, err := c.logger.GetLogs(level, limit, offset)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success read logs", logs))
}
