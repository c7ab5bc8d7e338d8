package repositories

import (
	"errors"
	"fmt"

	"refpay/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository stores User records keyed by chatId.
type UserRepository interface {
	CreateWithWallet(user *models.User) error
	GetByChatID(chatID string) (*models.User, error)
	GetByReferralCode(code string) (*models.User, error)
	Update(user *models.User) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// CreateWithWallet inserts a new user and provisions its zero-balance
// wallet in a single database transaction, so a failed wallet insert never
// leaves a user without one. The chat_id and referral_code unique indexes
// are the authority on uniqueness: a duplicate on either rolls the whole
// creation back and surfaces as ErrDuplicateRecord for the caller to resolve.
func (r *userRepository) CreateWithWallet(user *models.User) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		wallet := &models.Wallet{ChatID: user.ChatID, Currency: "INR"}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "chat_id"}},
			DoNothing: true,
		}).Create(wallet).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateRecord
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByChatID(chatID string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("chat_id = ?", chatID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) GetByReferralCode(code string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("referral_code = ?", code).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by code: %w", err)
	}
	return &user, nil
}

func (r *userRepository) Update(user *models.User) error {
	if err := r.db.Save(user).Error; err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}
