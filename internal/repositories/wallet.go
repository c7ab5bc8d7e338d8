package repositories

import (
	"errors"
	"fmt"

	"refpay/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WalletRepository stores Wallet records, at most one per chatId.
type WalletRepository interface {
	GetOrCreate(chatID string) (*models.Wallet, error)
	GetByChatID(chatID string) (*models.Wallet, error)
	Update(wallet *models.Wallet) error
}

type walletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) WalletRepository {
	return &walletRepository{db: db}
}

// GetOrCreate provisions a zero-balance wallet on first access.
// The insert is insert-if-absent against the chat_id unique index, so
// concurrent first accesses race safely: the loser's insert is a no-op
// and both callers read back the winner's row.
func (r *walletRepository) GetOrCreate(chatID string) (*models.Wallet, error) {
	wallet := &models.Wallet{ChatID: chatID, Currency: "INR"}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "chat_id"}},
		DoNothing: true,
	}).Create(wallet).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create wallet: %w", err)
	}
	return r.GetByChatID(chatID)
}

func (r *walletRepository) GetByChatID(chatID string) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := r.db.Where("chat_id = ?", chatID).First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return &wallet, nil
}

func (r *walletRepository) Update(wallet *models.Wallet) error {
	if err := r.db.Save(wallet).Error; err != nil {
		return fmt.Errorf("failed to update wallet: %w", err)
	}
	return nil
}
