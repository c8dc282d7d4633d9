package controller

import (
	"support-agent-be/internal/constant"
	"support-agent-be/internal/dto"
	"support-agent-be/internal/pkg/serverutils"
	"support-agent-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAgentController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
	ListTools(ctx *fiber.Ctx) error
	ExecuteTool(ctx *fiber.Ctx) error
	GetHistory(ctx *fiber.Ctx) error
	GetMetrics(ctx *fiber.Ctx) error
	GetUsage(ctx *fiber.Ctx) error
}

type agentController struct {
	agentService service.IAgentService
}

func NewAgentController(agentService service.IAgentService) IAgentController {
	return &agentController{
		agentService: agentService,
	}
}

func (c *agentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/agent/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("chat", c.Chat)
	h.Get("tools", c.ListTools)
	h.Post("tools/execute", c.ExecuteTool)
	h.Get("history/:ticketId", c.GetHistory)
	h.Get("metrics/:traceId", serverutils.RequireRole(constant.RoleAdmin), c.GetMetrics)
	h.Get("usage", c.GetUsage)
}

func (c *agentController) Chat(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	role, _ := ctx.Locals("role").(string)

	var req dto.SendChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	res, err := c.agentService.Chat(ctx.Context(), userId, role, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success chat", res))
}

func (c *agentController) ListTools(ctx *fiber.Ctx) error {
	role, _ := ctx.Locals("role").(string)

	res := c.agentService.ListTools(role)
	return ctx.JSON(serverutils.SuccessResponse("Success list tools", res))
}

func (c *agentController) ExecuteTool(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	role, _ := ctx.Locals("role").(string)

	var req dto.ExecuteToolRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	call, err := c.agentService.ExecuteTool(ctx.Context(), userId, role, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Tool executed", call))
}

func (c *agentController) GetHistory(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	role, _ := ctx.Locals("role").(string)

	ticketId, err := uuid.Parse(ctx.Params("ticketId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid ticket id")
	}

	res, err := c.agentService.GetHistory(ctx.Context(), userId, role, ticketId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get history", res))
}

func (c *agentController) GetMetrics(ctx *fiber.Ctx) error {
	traceId, err := uuid.Parse(ctx.Params("traceId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid trace id")
	}

	res, err := c.agentService.GetMetrics(ctx.Context(), traceId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get metrics", res))
}

func (c *agentController) GetUsage(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.agentService.GetUsage(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get usage", res))
}
