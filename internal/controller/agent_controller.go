package controller

import (
	"github.com/gofiber/fiber/v2"

	"telecom-support-be/internal/pkg/serverutils"
	"telecom-support-be/internal/service"
)

type IAgentController interface {
	RegisterRoutes(r fiber.Router)
	Available(ctx *fiber.Ctx) error
}

type agentController struct {
	escalationService service.IEscalationService
}

func NewAgentController(escalationService service.IEscalationService) IAgentController {
	return &agentController{
		escalationService: escalationService,
	}
}

func (c *agentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/agent/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("available", c.Available)
}

func (c *agentController) Available(ctx *fiber.Ctx) error {
	res, err := c.escalationService.AvailableAgents(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list available agents", res))
}
