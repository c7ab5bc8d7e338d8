package repositories

import (
	"errors"
	"fmt"
	"time"

	"refpay/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UpiRepository stores at most one UPI link per chatId with
// merge-update semantics.
type UpiRepository interface {
	Upsert(chatID string, vpa, bankName *string) (*models.UpiLink, error)
	GetByChatID(chatID string) (*models.UpiLink, error)
}

type upiRepository struct {
	db *gorm.DB
}

func NewUpiRepository(db *gorm.DB) UpiRepository {
	return &upiRepository{db: db}
}

// Upsert creates or merge-updates the link for a chatId. Only supplied
// fields overwrite stored ones; supplying a vpa always re-verifies the
// link and refreshes linked_at, even when the value is unchanged.
func (r *upiRepository) Upsert(chatID string, vpa, bankName *string) (*models.UpiLink, error) {
	now := time.Now()
	link := newUpiLink(chatID, vpa, bankName, now)

	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "chat_id"}},
		DoUpdates: clause.Assignments(upiMergeAssignments(vpa, bankName, now)),
	}).Create(link).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert upi link: %w", err)
	}
	return r.GetByChatID(chatID)
}

func (r *upiRepository) GetByChatID(chatID string) (*models.UpiLink, error) {
	var link models.UpiLink
	if err := r.db.Where("chat_id = ?", chatID).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUpiLinkNotFound
		}
		return nil, fmt.Errorf("failed to get upi link: %w", err)
	}
	return &link, nil
}

// newUpiLink builds the row inserted on first contact: verified iff a
// vpa was supplied, linked_at set only alongside it.
func newUpiLink(chatID string, vpa, bankName *string, now time.Time) *models.UpiLink {
	link := &models.UpiLink{ChatID: chatID}
	if vpa != nil {
		link.VPA = *vpa
		link.IsVerified = true
		link.LinkedAt = &now
	}
	if bankName != nil {
		link.BankName = *bankName
	}
	return link
}

// upiMergeAssignments computes the column set a conflicting upsert
// overwrites. Absent fields produce no assignment, which is what makes
// the update a merge.
func upiMergeAssignments(vpa, bankName *string, now time.Time) map[string]interface{} {
	assignments := map[string]interface{}{"updated_at": now}
	if vpa != nil {
		assignments["vpa"] = *vpa
		assignments["is_verified"] = true
		assignments["linked_at"] = now
	}
	if bankName != nil {
		assignments["bank_name"] = *bankName
	}
	return assignments
}
