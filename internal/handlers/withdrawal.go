package handlers

import (
	"errors"

	"refpay/internal/models"
	"refpay/internal/services/withdrawal"
	"refpay/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type WithdrawalHandler struct {
	withdrawalService withdrawal.Service
}

func NewWithdrawalHandler(withdrawalService withdrawal.Service) *WithdrawalHandler {
	return &WithdrawalHandler{withdrawalService: withdrawalService}
}

// InitiateWithdrawal records a pending withdrawal request. The wallet is
// not debited here; settlement is external.
func (h *WithdrawalHandler) InitiateWithdrawal(c *fiber.Ctx) error {
	var input struct {
		ChatID string  `json:"chat_id"`
		Amount float64 `json:"amount"`
		VPA    string  `json:"vpa"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if input.ChatID == "" {
		return utils.BadRequest(c, "chat_id is required")
	}

	w, err := h.withdrawalService.Initiate(c.Context(), input.ChatID, input.Amount, input.VPA)
	if err != nil {
		if errors.Is(err, withdrawal.ErrInvalidAmount) || errors.Is(err, withdrawal.ErrMissingVPA) {
			return utils.BadRequest(c, err.Error())
		}
		return utils.InternalError(c, "failed to initiate withdrawal")
	}

	return utils.Success(c, fiber.Map{
		"id":           w.ID,
		"reference":    w.Reference,
		"amount":       utils.FormatAmount(w.Amount),
		"fee":          utils.FormatAmount(w.Fee),
		"net_amount":   utils.FormatAmount(w.NetAmount),
		"vpa":          w.VPA,
		"status":       w.Status,
		"initiated_at": w.InitiatedAt,
	})
}

// ListWithdrawals pages a user's withdrawals, newest first.
func (h *WithdrawalHandler) ListWithdrawals(c *fiber.Ctx) error {
	chatID := c.Params("chatId")
	if chatID == "" {
		return utils.BadRequest(c, "chat_id is required")
	}

	p := utils.GetPagination(c, 20)
	ws, total, err := h.withdrawalService.List(c.Context(), chatID, p.Limit, p.Offset)
	if err != nil {
		return utils.InternalError(c, "failed to list withdrawals")
	}

	return utils.Success(c, utils.NewPaginatedResponse(withdrawalViews(ws), total))
}

func withdrawalViews(ws []models.Withdrawal) []fiber.Map {
	views := make([]fiber.Map, 0, len(ws))
	for _, w := range ws {
		views = append(views, fiber.Map{
			"id":             w.ID,
			"reference":      w.Reference,
			"amount":         utils.FormatAmount(w.Amount),
			"fee":            utils.FormatAmount(w.Fee),
			"net_amount":     utils.FormatAmount(w.NetAmount),
			"vpa":            w.VPA,
			"status":         w.Status,
			"initiated_at":   w.InitiatedAt,
			"completed_at":   w.CompletedAt,
			"transaction_id": w.TransactionID,
			"failure_reason": w.FailureReason,
		})
	}
	return views
}
