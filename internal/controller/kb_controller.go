package controller

import (
	"support-agent-be/internal/constant"
	"support-agent-be/internal/dto"
	"support-agent-be/internal/pkg/serverutils"
	"support-agent-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IKBController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	SemanticSearch(ctx *fiber.Ctx) error
}

type kbController struct {
	kbService service.IKBService
}

func NewKBController(kbService service.IKBService) IKBController {
	return &kbController{
		kbService: kbService,
	}
}

func (c *kbController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/kb/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("semantic-search", c.SemanticSearch)
	h.Get("", c.List)
	h.Get(":id", c.Show)

	// Authoring is restricted to support staff.
	staff := h.Group("", serverutils.RequireRole(constant.RoleAgent, constant.RoleAdmin))
	staff.Post("", c.Create)
	staff.Put(":id", c.Update)
	staff.Delete(":id", c.Delete)
}

func (c *kbController) Create(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.CreateArticleRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.kbService.Create(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create article", res))
}

func (c *kbController) Update(ctx *fiber.Ctx) error {
	id, _ := uuid.Parse(ctx.Params("id"))

	var req dto.UpdateArticleRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.Id = id

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.kbService.Update(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update article", res))
}

func (c *kbController) Delete(ctx *fiber.Ctx) error {
	id, _ := uuid.Parse(ctx.Params("id"))

	if err := c.kbService.Delete(ctx.Context(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete article", nil))
}

func (c *kbController) Show(ctx *fiber.Ctx) error {
	id, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.kbService.Show(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show article", res))
}

func (c *kbController) List(ctx *fiber.Ctx) error {
	res, err := c.kbService.List(ctx.Context(), ctx.Query("category"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list articles", res))
}

func (c *kbController) SemanticSearch(ctx *fiber.Ctx) error {
	res, err := c.kbService.SemanticSearch(ctx.Context(), ctx.Query("q"), ctx.Query("category"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success search articles", res))
}
