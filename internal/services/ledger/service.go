// Package ledger exposes the wallet and transaction history surface.
// Withdrawal initiation deliberately does not move money through here;
// settlement reconciles the wallet out of band.
package ledger

import (
	"context"

	"refpay/internal/models"
	"refpay/internal/repositories"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// WalletCache is the read-side cache for wallet views.
type WalletCache interface {
	GetWallet(ctx context.Context, chatID string) (*models.Wallet, error)
	SetWallet(ctx context.Context, wallet *models.Wallet) error
	InvalidateWallet(ctx context.Context, chatID string) error
}

type Service interface {
	// GetWallet returns the wallet for a chatId, provisioning a
	// zero-balance one on first access.
	GetWallet(ctx context.Context, chatID string) (*models.Wallet, error)

	// ListTransactions pages the append-only history, newest first.
	ListTransactions(ctx context.Context, chatID string, limit, offset int) ([]models.Transaction, int64, error)

	// RecordTransaction appends an immutable entry to the history. Every
	// balance-affecting operation must log through this hook.
	RecordTransaction(ctx context.Context, chatID, txType string, amount float64, description, status string, metadata models.JSON) (*models.Transaction, error)
}

type service struct {
	wallets      repositories.WalletRepository
	transactions repositories.TransactionRepository
	cache        WalletCache
}

func NewService(wallets repositories.WalletRepository, transactions repositories.TransactionRepository, cache WalletCache) Service {
	if wallets == nil {
		panic("wallet repository is required")
	}
	if transactions == nil {
		panic("transaction repository is required")
	}
	return &service{wallets: wallets, transactions: transactions, cache: cache}
}

func (s *service) GetWallet(ctx context.Context, chatID string) (*models.Wallet, error) {
	if chatID == "" {
		return nil, ErrMissingChatID
	}

	if s.cache != nil {
		if wallet, err := s.cache.GetWallet(ctx, chatID); err == nil {
			return wallet, nil
		}
	}

	wallet, err := s.wallets.GetOrCreate(chatID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetWallet(ctx, wallet); err != nil {
			logrus.WithError(err).Warn("failed to cache wallet")
		}
	}
	return wallet, nil
}

func (s *service) ListTransactions(ctx context.Context, chatID string, limit, offset int) ([]models.Transaction, int64, error) {
	if chatID == "" {
		return nil, 0, ErrMissingChatID
	}
	return s.transactions.ListByChatID(chatID, limit, offset)
}

func (s *service) RecordTransaction(ctx context.Context, chatID, txType string, amount float64, description, status string, metadata models.JSON) (*models.Transaction, error) {
	if chatID == "" {
		return nil, ErrMissingChatID
	}
	if txType != models.TransactionTypeCredit && txType != models.TransactionTypeDebit {
		return nil, ErrInvalidTransactionType
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if status == "" {
		status = models.TransactionStatusPending
	}

	tx := &models.Transaction{
		ChatID:      chatID,
		Type:        txType,
		Amount:      amount,
		Description: description,
		Status:      status,
		Reference:   uuid.NewString(),
		Metadata:    metadata,
	}
	if err := s.transactions.Create(tx); err != nil {
		return nil, err
	}

	// Balance-affecting writes make any cached wallet view stale.
	if s.cache != nil {
		if err := s.cache.InvalidateWallet(ctx, chatID); err != nil {
			logrus.WithError(err).Warn("failed to invalidate wallet cache")
		}
	}
	return tx, nil
}
