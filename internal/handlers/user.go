package handlers

import (
	"refpay/internal/services/identity"
	"refpay/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	identityService identity.Service
}

func NewUserHandler(identityService identity.Service) *UserHandler {
	return &UserHandler{identityService: identityService}
}

// ResolveUser resolves or creates the identity for a chatId. The client
// path never sets referral linkage.
func (h *UserHandler) ResolveUser(c *fiber.Ctx) error {
	var input struct {
		ChatID   string `json:"chat_id"`
		Username string `json:"username"`
		Avatar   string `json:"avatar"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if input.ChatID == "" {
		return utils.BadRequest(c, "chat_id is required")
	}

	user, err := h.identityService.ResolveOrCreate(c.Context(), input.ChatID, input.Username, input.Avatar)
	if err != nil {
		return utils.InternalError(c, "failed to resolve user")
	}

	return utils.Success(c, fiber.Map{
		"chat_id":       user.ChatID,
		"username":      user.Username,
		"avatar":        user.Avatar,
		"status":        user.Status,
		"referral_code": user.ReferralCode,
		"referred_by":   user.ReferredBy,
		"created_at":    user.CreatedAt,
	})
}
