package handlers

import (
	"refpay/internal/models"
	"refpay/internal/services/ledger"
	"refpay/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type WalletHandler struct {
	ledgerService ledger.Service
}

func NewWalletHandler(ledgerService ledger.Service) *WalletHandler {
	return &WalletHandler{ledgerService: ledgerService}
}

// GetWallet returns the balance view for a chatId, provisioning the
// wallet on first access.
func (h *WalletHandler) GetWallet(c *fiber.Ctx) error {
	chatID := c.Params("chatId")
	if chatID == "" {
		return utils.BadRequest(c, "chat_id is required")
	}

	wallet, err := h.ledgerService.GetWallet(c.Context(), chatID)
	if err != nil {
		return utils.InternalError(c, "failed to get wallet")
	}

	return utils.Success(c, fiber.Map{
		"chat_id":         wallet.ChatID,
		"balance":         utils.FormatAmount(wallet.Balance),
		"pending_balance": utils.FormatAmount(wallet.PendingBalance),
		"currency":        wallet.Currency,
	})
}

// ListTransactions pages the transaction history, newest first.
func (h *WalletHandler) ListTransactions(c *fiber.Ctx) error {
	chatID := c.Params("chatId")
	if chatID == "" {
		return utils.BadRequest(c, "chat_id is required")
	}

	p := utils.GetPagination(c, 20)
	txs, total, err := h.ledgerService.ListTransactions(c.Context(), chatID, p.Limit, p.Offset)
	if err != nil {
		return utils.InternalError(c, "failed to list transactions")
	}

	return utils.Success(c, utils.NewPaginatedResponse(transactionViews(txs), total))
}

func transactionViews(txs []models.Transaction) []fiber.Map {
	views := make([]fiber.Map, 0, len(txs))
	for _, tx := range txs {
		views = append(views, fiber.Map{
			"id":          tx.ID,
			"type":        tx.Type,
			"amount":      utils.FormatAmount(tx.Amount),
			"description": tx.Description,
			"status":      tx.Status,
			"reference":   tx.Reference,
			"metadata":    tx.Metadata,
			"timestamp":   tx.CreatedAt,
		})
	}
	return views
}
