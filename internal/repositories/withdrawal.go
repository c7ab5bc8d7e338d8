package repositories

import (
	"errors"
	"fmt"
	"time"

	"refpay/internal/models"

	"gorm.io/gorm"
)

// WithdrawalRepository stores withdrawal requests and the settlement
// transitions applied to them.
type WithdrawalRepository interface {
	Create(w *models.Withdrawal) error
	ListByChatID(chatID string, limit, offset int) ([]models.Withdrawal, int64, error)
	MarkCompleted(reference, transactionID string) error
	MarkFailed(reference, reason string) error
}

type withdrawalRepository struct {
	db *gorm.DB
}

func NewWithdrawalRepository(db *gorm.DB) WithdrawalRepository {
	return &withdrawalRepository{db: db}
}

func (r *withdrawalRepository) Create(w *models.Withdrawal) error {
	if err := r.db.Create(w).Error; err != nil {
		return fmt.Errorf("failed to create withdrawal: %w", err)
	}
	return nil
}

func (r *withdrawalRepository) ListByChatID(chatID string, limit, offset int) ([]models.Withdrawal, int64, error) {
	var total int64
	if err := r.db.Model(&models.Withdrawal{}).Where("chat_id = ?", chatID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count withdrawals: %w", err)
	}

	var ws []models.Withdrawal
	err := r.db.Where("chat_id = ?", chatID).
		Order("initiated_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&ws).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list withdrawals: %w", err)
	}
	return ws, total, nil
}

// MarkCompleted transitions a pending withdrawal to completed. Used by
// the external settlement process; only pending rows are eligible.
func (r *withdrawalRepository) MarkCompleted(reference, transactionID string) error {
	return r.transition(reference, completionUpdates(transactionID, time.Now()))
}

// MarkFailed transitions a pending withdrawal to failed with a reason.
func (r *withdrawalRepository) MarkFailed(reference, reason string) error {
	return r.transition(reference, failureUpdates(reason, time.Now()))
}

// completionUpdates builds the column set a successful settlement writes.
func completionUpdates(transactionID string, now time.Time) map[string]interface{} {
	return map[string]interface{}{
		"status":         models.WithdrawalStatusCompleted,
		"transaction_id": transactionID,
		"completed_at":   now,
	}
}

// failureUpdates builds the column set a failed settlement writes.
func failureUpdates(reason string, now time.Time) map[string]interface{} {
	return map[string]interface{}{
		"status":         models.WithdrawalStatusFailed,
		"failure_reason": reason,
		"completed_at":   now,
	}
}

func (r *withdrawalRepository) transition(reference string, updates map[string]interface{}) error {
	result := r.db.Model(&models.Withdrawal{}).
		Where("reference = ? AND status = ?", reference, models.WithdrawalStatusPending).
		Updates(updates)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ErrWithdrawalNotFound
		}
		return fmt.Errorf("failed to update withdrawal: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrWithdrawalNotFound
	}
	return nil
}
