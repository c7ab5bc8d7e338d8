package repositories

import (
	"fmt"

	"refpay/internal/models"

	"gorm.io/gorm"
)

// TransactionRepository appends and lists immutable ledger entries.
type TransactionRepository interface {
	Create(tx *models.Transaction) error
	ListByChatID(chatID string, limit, offset int) ([]models.Transaction, int64, error)
}

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(tx *models.Transaction) error {
	if err := r.db.Create(tx).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// ListByChatID returns the newest transactions first along with the
// total count for the chatId.
func (r *transactionRepository) ListByChatID(chatID string, limit, offset int) ([]models.Transaction, int64, error) {
	var total int64
	if err := r.db.Model(&models.Transaction{}).Where("chat_id = ?", chatID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	var txs []models.Transaction
	err := r.db.Where("chat_id = ?", chatID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&txs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, total, nil
}
