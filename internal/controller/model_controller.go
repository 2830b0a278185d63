package controller

import (
	"concierge-be/internal/constant"
	"concierge-be/internal/dto"
	"concierge-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
)

type IModelController interface {
	RegisterRoutes(r fiber.Router)
	GetAll(ctx *fiber.Ctx) error
}

// modelController exposes the curated chat model catalog. Public: the
// frontend renders the model picker before login.
type modelController struct{}

func NewModelController() IModelController {
	return &modelController{}
}

func (c *modelController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/model/v1")
	h.Get("", c.GetAll)
}

func (c *modelController) GetAll(ctx *fiber.Ctx) error {
	res := make([]dto.ChatModelResponse, 0, len(constant.ChatModels))
	for _, m := range constant.ChatModels {
		res = append(res, dto.ChatModelResponse{
			Id:       m.ID,
			Label:    m.Label,
			Provider: m.Provider,
			Model:    m.Model,
			Default:  m.ID == constant.DefaultChatModelID,
		})
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get models", res))
}
