package handlers

import (
	"refpay/internal/services/upi"
	"refpay/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type UpiHandler struct {
	upiService upi.Service
}

func NewUpiHandler(upiService upi.Service) *UpiHandler {
	return &UpiHandler{upiService: upiService}
}

// UpsertUpi creates or merge-updates the UPI link for a chatId. Fields
// absent from the body keep their stored values.
func (h *UpiHandler) UpsertUpi(c *fiber.Ctx) error {
	var input struct {
		ChatID   string  `json:"chat_id"`
		VPA      *string `json:"vpa"`
		BankName *string `json:"bank_name"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if input.ChatID == "" {
		return utils.BadRequest(c, "chat_id is required")
	}

	link, err := h.upiService.Upsert(c.Context(), input.ChatID, input.VPA, input.BankName)
	if err != nil {
		return utils.InternalError(c, "failed to save upi link")
	}

	return utils.Success(c, fiber.Map{
		"chat_id":     link.ChatID,
		"vpa":         link.VPA,
		"bank_name":   link.BankName,
		"is_verified": link.IsVerified,
		"linked_at":   link.LinkedAt,
	})
}
