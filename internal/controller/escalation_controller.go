package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"telecom-support-be/internal/dto"
	"telecom-support-be/internal/pkg/serverutils"
	"telecom-support-be/internal/service"
)

type IEscalationController interface {
	RegisterRoutes(r fiber.Router)
	Pending(ctx *fiber.Ctx) error
	Assign(ctx *fiber.Ctx) error
	Close(ctx *fiber.Ctx) error
}

type escalationController struct {
	escalationService service.IEscalationService
}

func NewEscalationController(escalationService service.IEscalationService) IEscalationController {
	return &escalationController{
		escalationService: escalationService,
	}
}

func (c *escalationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/escalation/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("pending", c.Pending)
	h.Put(":sessionId/assign", c.Assign)
	h.Put(":sessionId/close", c.Close)
}

func (c *escalationController) Pending(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit")

	res, err := c.escalationService.PendingEscalations(ctx.Context(), limit)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list pending escalations", res))
}

func (c *escalationController) Assign(ctx *fiber.Ctx) error {
	sessionId, err := uuid.Parse(ctx.Params("sessionId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}

	var req dto.AssignAgentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	ok, err := c.escalationService.AssignAgent(ctx.Context(), sessionId, req.AgentId)
	if err != nil {
		return err
	}
	if !ok {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(fiber.StatusNotFound, "Session not found"))
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Agent assigned", nil))
}

func (c *escalationController) Close(ctx *fiber.Ctx) error {
	sessionId, err := uuid.Parse(ctx.Params("sessionId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}

	var req dto.CloseSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.escalationService.CloseSession(ctx.Context(), sessionId, req.AgentId, req.Reason); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Session closed", nil))
}
