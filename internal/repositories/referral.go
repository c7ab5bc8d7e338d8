package repositories

import (
	"errors"
	"fmt"

	"refpay/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReferralRepository stores the inviter-side referral aggregates.
type ReferralRepository interface {
	GetOrCreate(chatID, referralCode string) (*models.Referral, error)
	GetByChatID(chatID string) (*models.Referral, error)
	AppendReferredUser(referralID uint, entry *models.ReferredUser) error
	ListReferredUsers(referralID uint, limit, offset int) ([]models.ReferredUser, int64, error)
	CountReferredUsers(referralID uint) (total int64, active int64, err error)
}

type referralRepository struct {
	db *gorm.DB
}

func NewReferralRepository(db *gorm.DB) ReferralRepository {
	return &referralRepository{db: db}
}

// GetOrCreate provisions the inviter's aggregate record on first use,
// insert-if-absent against the chat_id unique index.
func (r *referralRepository) GetOrCreate(chatID, referralCode string) (*models.Referral, error) {
	ref := &models.Referral{ChatID: chatID, ReferralCode: referralCode}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "chat_id"}},
		DoNothing: true,
	}).Create(ref).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create referral record: %w", err)
	}
	return r.GetByChatID(chatID)
}

func (r *referralRepository) GetByChatID(chatID string) (*models.Referral, error) {
	var ref models.Referral
	if err := r.db.Where("chat_id = ?", chatID).First(&ref).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReferralNotFound
		}
		return nil, fmt.Errorf("failed to get referral record: %w", err)
	}
	return &ref, nil
}

// AppendReferredUser links one invitee under an inviter. The append is a
// single row insert guarded by the (referral_id, user_id) unique index, so
// concurrent referrals to the same inviter never lose entries and linking
// the same invitee twice is a no-op.
func (r *referralRepository) AppendReferredUser(referralID uint, entry *models.ReferredUser) error {
	entry.ReferralID = referralID
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "referral_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(entry).Error
	if err != nil {
		return fmt.Errorf("failed to append referred user: %w", err)
	}
	return nil
}

// ListReferredUsers pages entries in join order, oldest first, with the
// total count. An out-of-range offset yields an empty page.
func (r *referralRepository) ListReferredUsers(referralID uint, limit, offset int) ([]models.ReferredUser, int64, error) {
	var total int64
	if err := r.db.Model(&models.ReferredUser{}).Where("referral_id = ?", referralID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count referred users: %w", err)
	}

	var entries []models.ReferredUser
	err := r.db.Where("referral_id = ?", referralID).
		Order("joined_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list referred users: %w", err)
	}
	return entries, total, nil
}

func (r *referralRepository) CountReferredUsers(referralID uint) (int64, int64, error) {
	var total, active int64
	if err := r.db.Model(&models.ReferredUser{}).Where("referral_id = ?", referralID).Count(&total).Error; err != nil {
		return 0, 0, fmt.Errorf("failed to count referred users: %w", err)
	}
	err := r.db.Model(&models.ReferredUser{}).
		Where("referral_id = ? AND is_active = ?", referralID, true).
		Count(&active).Error
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count active referred users: %w", err)
	}
	return total, active, nil
}
