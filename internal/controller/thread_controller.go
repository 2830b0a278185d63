package controller

import (
	"concierge-be/internal/dto"
	"concierge-be/internal/pkg/serverutils"
	"concierge-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IThreadController interface {
	RegisterRoutes(r fiber.Router)
	GetAll(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Switch(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type threadController struct {
	service     service.IThreadService
	jwtIssuer   string
	jwtAudience string
}

func NewThreadController(service service.IThreadService, jwtIssuer, jwtAudience string) IThreadController {
	return &threadController{
		service:     service,
		jwtIssuer:   jwtIssuer,
		jwtAudience: jwtAudience,
	}
}

func (c *threadController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/thread/v1")
	h.Use(serverutils.JwtMiddleware(c.jwtIssuer, c.jwtAudience))
	h.Get("", c.GetAll)
	h.Post("", c.Create)
	h.Post("switch", c.Switch)
	h.Get(":id", c.History)
	h.Delete(":id", c.Delete)
}

func (c *threadController) GetAll(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(uuid.UUID)

	res, err := c.service.List(ctx.Context(), userId)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get all threads", res))
}

func (c *threadController) Create(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(uuid.UUID)

	threadId, err := c.service.CreateNew(ctx.Context(), userId)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Thread created", dto.ThreadResponse{
		ThreadId: threadId,
		Active:   true,
	}))
}

func (c *threadController) Switch(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(uuid.UUID)

	var req dto.SwitchThreadRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	if err := c.service.SwitchTo(ctx.Context(), userId, req.ThreadId); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Thread switched", dto.ThreadResponse{
		ThreadId: req.ThreadId,
		Active:   true,
	}))
}

func (c *threadController) History(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(uuid.UUID)
	threadId := ctx.Params("id")

	res, err := c.service.History(ctx.Context(), userId, threadId)
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get thread history", res))
}

func (c *threadController) Delete(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(uuid.UUID)
	threadId := ctx.Params("id")

	if err := c.service.Delete(ctx.Context(), userId, threadId); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Thread deleted", nil))
}
