package controller

import (
	"fmt"
	"os"
	"path/filepath"

	"concierge-be/internal/dto"
	"concierge-be/internal/pkg/serverutils"
	"concierge-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IUserController interface {
	RegisterRoutes(r fiber.Router)
	Me(ctx *fiber.Ctx) error
	Provision(ctx *fiber.Ctx) error
	Deprovision(ctx *fiber.Ctx) error
	Documents(ctx *fiber.Ctx) error
	UploadDocument(ctx *fiber.Ctx) error
	Memories(ctx *fiber.Ctx) error
	AddMemory(ctx *fiber.Ctx) error
	DeleteMemory(ctx *fiber.Ctx) error
	ClearSession(ctx *fiber.Ctx) error
}

type userController struct {
	assistants  service.IAssistantService
	threads     service.IThreadService
	jwtIssuer   string
	jwtAudience string
}

func NewUserController(assistants service.IAssistantService, threads service.IThreadService, jwtIssuer, jwtAudience string) IUserController {
	return &userController{
		assistants:  assistants,
		threads:     threads,
		jwtIssuer:   jwtIssuer,
		jwtAudience: jwtAudience,
	}
}

func (c *userController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/me/v1")
	h.Use(serverutils.JwtMiddleware(c.jwtIssuer, c.jwtAudience))
	h.Get("", c.Me)
	h.Post("provision", c.Provision)
	h.Delete("provision", c.Deprovision)
	h.Get("documents", c.Documents)
	h.Post("documents", c.UploadDocument)
	h.Get("memories", c.Memories)
	h.Post("memories", c.AddMemory)
	h.Delete("memories/:id", c.DeleteMemory)
	h.Delete("session", c.ClearSession)
}

func (c *userController) Me(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(uuid.UUID)

	assistant, err := c.assistants.GetAssistant(ctx.Context(), userId)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	res := dto.MeResponse{UserId: userId}
	if assistant != nil {
		res.AssistantId = assistant.AssistantId
		res.AssistantName = assistant.AssistantName
		res.Provisioned = true

		threadId, err := c.threads.Current(ctx.Context(), userId)
		if err != nil {
			return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
		}
		res.ThreadId = threadId
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get profile", res))
}

// Provision runs assistant setup synchronously. Intended for clients
// that want provisioning done before opening the websocket; progress is
// not streamed here.
func (c *userController) Provision(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(uuid.UUID)
	email, _ := ctx.Locals("user_email").(string)

	assistant, created, err := c.assistants.EnsureAssistant(ctx.Context(), userId, service.DisplayNameFromEmail(email), nil)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Assistant ready", dto.ProvisionResponse{
		AssistantId:   assistant.AssistantId,
		AssistantName: assistant.AssistantName,
		Created:       created,
	}))
}

func (c *userController) Deprovision(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(uuid.UUID)

	if err := c.assistants.Deprovision(ctx.Context(), userId); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	// A deleted assistant takes its threads with it.
	if err := c.threads.ClearSession(ctx.Context(), userId); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Assistant removed", nil))
}

func (c *userController) Documents(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(uuid.UUID)

	docs, err := c.assistants.ListDocuments(ctx.Context(), userId)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get documents", docs))
}

// UploadDocument accepts a multipart file, stages it on disk, and passes
// it through to the assistant's knowledge base.
func (c *userController) UploadDocument(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(uuid.UUID)

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "file is required"))
	}

	stagedPath := filepath.Join(os.TempDir(), fmt.Sprintf("upload-%s-%s", userId, filepath.Base(fileHeader.Filename)))
	if err := ctx.SaveFile(fileHeader, stagedPath); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	defer os.Remove(stagedPath)

	doc, err := c.assistants.UploadDocument(ctx.Context(), userId, stagedPath)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Document uploaded", doc))
}

func (c *userController) Memories(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(uuid.UUID)

	memories, err := c.assistants.ListMemories(ctx.Context(), userId)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get memories", memories))
}

func (c *userController) AddMemory(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(uuid.UUID)

	var req dto.AddMemoryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "invalid request body"))
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	memory, err := c.assistants.AddMemory(ctx.Context(), userId, req.Content)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Memory stored", memory))
}

func (c *userController) DeleteMemory(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(uuid.UUID)
	memoryId := ctx.Params("id")
	if memoryId == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "memory id is required"))
	}

	if err := c.assistants.DeleteMemory(ctx.Context(), userId, memoryId); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Memory deleted", nil))
}

func (c *userController) ClearSession(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(uuid.UUID)

	if err := c.threads.ClearSession(ctx.Context(), userId); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Session cleared", nil))
}
