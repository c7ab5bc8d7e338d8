package handlers

import (
	"errors"

	"refpay/internal/models"
	"refpay/internal/services/referral"
	"refpay/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type ReferralHandler struct {
	referralService referral.Service
}

func NewReferralHandler(referralService referral.Service) *ReferralHandler {
	return &ReferralHandler{referralService: referralService}
}

// GetSummary returns the inviter-side referral view with the deep link.
func (h *ReferralHandler) GetSummary(c *fiber.Ctx) error {
	chatID := c.Params("chatId")
	if chatID == "" {
		return utils.BadRequest(c, "chat_id is required")
	}

	summary, err := h.referralService.GetSummary(c.Context(), chatID)
	if err != nil {
		if errors.Is(err, referral.ErrUserNotFound) {
			return utils.NotFound(c, "user not found")
		}
		return utils.InternalError(c, "failed to get referral summary")
	}

	return utils.Success(c, fiber.Map{
		"code":                    summary.Code,
		"link":                    summary.Link,
		"total_referrals":         summary.TotalReferrals,
		"successful_referrals":    summary.SuccessfulReferrals,
		"total_earned":            utils.FormatAmount(summary.TotalEarned),
		"pending_earned":          utils.FormatAmount(summary.PendingEarned),
		"commission_per_referral": utils.FormatAmount(summary.CommissionPerReferral),
	})
}

// ListReferredUsers pages the inviter's referred users.
func (h *ReferralHandler) ListReferredUsers(c *fiber.Ctx) error {
	chatID := c.Params("chatId")
	if chatID == "" {
		return utils.BadRequest(c, "chat_id is required")
	}

	p := utils.GetPagination(c, 20)
	entries, total, err := h.referralService.ListReferredUsers(c.Context(), chatID, p.Limit, p.Offset)
	if err != nil {
		if errors.Is(err, referral.ErrUserNotFound) {
			return utils.NotFound(c, "user not found")
		}
		return utils.InternalError(c, "failed to list referred users")
	}

	return utils.Success(c, utils.NewPaginatedResponse(referredUserViews(entries), total))
}

func referredUserViews(entries []models.ReferredUser) []fiber.Map {
	views := make([]fiber.Map, 0, len(entries))
	for _, e := range entries {
		views = append(views, fiber.Map{
			"user_id":       e.UserID,
			"username":      e.Username,
			"joined_at":     e.JoinedAt,
			"earned_amount": utils.FormatAmount(e.EarnedAmount),
			"is_active":     e.IsActive,
		})
	}
	return views
}
