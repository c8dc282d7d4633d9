package controller

import (
	"support-agent-be/internal/dto"
	"support-agent-be/internal/pkg/serverutils"
	"support-agent-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ITicketController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	UpdateStatus(ctx *fiber.Ctx) error
	ListNotes(ctx *fiber.Ctx) error
}

type ticketController struct {
	ticketService service.ITicketService
}

func NewTicketController(ticketService service.ITicketService) ITicketController {
	return &ticketController{
		ticketService: ticketService,
	}
}

func (c *ticketController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/ticket/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Create)
	h.Get("", c.List)
	h.Get(":id", c.Show)
	h.Put(":id/status", c.UpdateStatus)
	h.Get(":id/notes", c.ListNotes)
}

func (c *ticketController) Create(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.CreateTicketRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.ticketService.Create(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create ticket", res))
}

func (c *ticketController) Show(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	role, _ := ctx.Locals("role").(string)

	id, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.ticketService.Show(ctx.Context(), userId, role, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show ticket", res))
}

func (c *ticketController) List(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	role, _ := ctx.Locals("role").(string)

	res, err := c.ticketService.List(ctx.Context(), userId, role)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list tickets", res))
}

func (c *ticketController) UpdateStatus(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	role, _ := ctx.Locals("role").(string)

	id, _ := uuid.Parse(ctx.Params("id"))

	var req dto.UpdateTicketStatusRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.Id = id

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.ticketService.UpdateStatus(ctx.Context(), userId, role, &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update ticket status", nil))
}

func (c *ticketController) ListNotes(ctx *fiber.Ctx) error {
	role, _ := ctx.Locals("role").(string)
	id, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.ticketService.ListNotes(ctx.Context(), role, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list ticket notes", res))
}
