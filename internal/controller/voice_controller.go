package controller

import (
	"fmt"

	"concierge-be/internal/config"
	"concierge-be/internal/dto"
	"concierge-be/internal/pkg/logger"
	"concierge-be/internal/pkg/serverutils"
	"concierge-be/internal/service"
	"concierge-be/pkg/events"
	"concierge-be/pkg/livekit"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IVoiceController interface {
	RegisterRoutes(r fiber.Router)
	Token(ctx *fiber.Ctx) error
}

// voiceController mints LiveKit room tokens and dispatches the voice
// worker to the room.
type voiceController struct {
	minter      *livekit.TokenMinter
	publisher   service.EventPublisher
	cfg         config.LiveKitConfig
	logger      logger.ILogger
	jwtIssuer   string
	jwtAudience string
}

func NewVoiceController(
	minter *livekit.TokenMinter,
	publisher service.EventPublisher,
	cfg config.LiveKitConfig,
	log logger.ILogger,
	jwtIssuer, jwtAudience string,
) IVoiceController {
	return &voiceController{
		minter:      minter,
		publisher:   publisher,
		cfg:         cfg,
		logger:      log,
		jwtIssuer:   jwtIssuer,
		jwtAudience: jwtAudience,
	}
}

func (c *voiceController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/voice/v1")
	h.Use(serverutils.JwtMiddleware(c.jwtIssuer, c.jwtAudience))
	h.Post("token", c.Token)
}

func (c *voiceController) Token(ctx *fiber.Ctx) error {
	userId := ctx.Locals("user_id").(uuid.UUID)

	// One room per user keeps transcripts attributable without a
	// room membership lookup.
	room := fmt.Sprintf("voice-%s", userId)

	token, err := c.minter.Mint(room, userId.String(), "")
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	if c.publisher != nil {
		if err := c.publisher.Publish(ctx.Context(), events.NewVoiceDispatch(userId.String(), room)); err != nil {
			c.logger.Warn("VoiceController", "Failed to dispatch voice worker", map[string]interface{}{
				"room":  room,
				"error": err.Error(),
			})
		}
	}

	return ctx.JSON(serverutils.SuccessResponse("Voice token issued", dto.LiveKitTokenResponse{
		Token: token,
		URL:   c.cfg.URL,
		Room:  room,
	}))
}
