package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"telecom-support-be/internal/dto"
	"telecom-support-be/internal/pkg/serverutils"
	"telecom-support-be/internal/service"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Escalations(ctx *fiber.Ctx) error
	Summary(ctx *fiber.Ctx) error
	Message(ctx *fiber.Ctx) error
}

type sessionController struct {
	escalationService service.IEscalationService
	chatService       service.IChatService
}

func NewSessionController(
	escalationService service.IEscalationService,
	chatService service.IChatService,
) ISessionController {
	return &sessionController{
		escalationService: escalationService,
		chatService:       chatService,
	}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/session/v1")
	h.Post("", c.Create)
	h.Post("message", c.Message)
	h.Get(":id", c.Show)
	h.Get(":id/escalations", c.Escalations)
	h.Get(":id/summary", c.Summary)
}

func (c *sessionController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.escalationService.CreateSession(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create session", res))
}

func (c *sessionController) Show(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}

	res, err := c.escalationService.GetSession(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show session", res))
}

func (c *sessionController) Escalations(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}

	res, err := c.escalationService.SessionEscalations(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list session escalations", res))
}

func (c *sessionController) Summary(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}

	res, err := c.escalationService.EscalationSummary(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show escalation summary", res))
}

// Message is the REST fallback for clients without a websocket; the
// response arrives through the room like any other.
func (c *sessionController) Message(ctx *fiber.Ctx) error {
	var req dto.UserMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.chatService.HandleUserMessage(ctx.Context(), req.RoomId, "", "", req.Message); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Message accepted", nil))
}
