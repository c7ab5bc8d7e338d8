package handlers

import (
	"refpay/internal/services/identity"
	"refpay/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// BotHandler serves the privileged bot channel, the only surface allowed
// to create referral linkage.
type BotHandler struct {
	identityService identity.Service
}

func NewBotHandler(identityService identity.Service) *BotHandler {
	return &BotHandler{identityService: identityService}
}

// CreateUser resolves or creates an identity on behalf of the bot,
// recording referral linkage for new users when a known ref code is
// supplied. Unknown codes are ignored so onboarding never fails on a
// malformed invite link.
func (h *BotHandler) CreateUser(c *fiber.Ctx) error {
	var input struct {
		ChatID   string  `json:"chat_id"`
		Username string  `json:"username"`
		Avatar   string  `json:"avatar"`
		Ref      *string `json:"ref"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if input.ChatID == "" {
		return utils.BadRequest(c, "chat_id is required")
	}

	user, err := h.identityService.CreateFromReferral(c.Context(), input.ChatID, input.Username, input.Avatar, input.Ref)
	if err != nil {
		logrus.WithError(err).WithField("chat_id", input.ChatID).Error("bot user creation failed")
		return utils.Respond(c, fiber.StatusInternalServerError, fiber.Map{
			"success": false,
			"error":   "failed to process user",
		})
	}

	return utils.Success(c, fiber.Map{
		"success":       true,
		"referral_code": user.ReferralCode,
		"referred_by":   user.ReferredBy,
	})
}
