// Package referral owns the inviter-side referral graph: who referred
// whom, and what the inviter has earned from it.
package referral

import (
	"context"
	"errors"
	"time"

	"refpay/internal/models"
	"refpay/internal/repositories"

	"github.com/sirupsen/logrus"
)

// ErrUserNotFound is returned for referral queries about unknown chatIds.
var ErrUserNotFound = errors.New("user not found")

// SummaryCache is the read-side cache for referral summaries.
type SummaryCache interface {
	GetReferralSummary(ctx context.Context, chatID string, dest interface{}) error
	SetReferralSummary(ctx context.Context, chatID string, summary interface{}) error
	InvalidateReferralSummary(ctx context.Context, chatID string) error
}

type Service interface {
	// GetSummary builds the inviter's referral view. Unknown chatIds are
	// an error; a known user who has referred nobody gets zero counts.
	GetSummary(ctx context.Context, chatID string) (*Summary, error)

	// ListReferredUsers pages the inviter's referred users; out-of-range
	// offsets yield an empty page, never an error.
	ListReferredUsers(ctx context.Context, chatID string, limit, offset int) ([]models.ReferredUser, int64, error)

	// Link appends the invitee under the inviter's referral record,
	// creating the record on first use. Linking the same invitee twice
	// is a no-op.
	Link(ctx context.Context, inviter, invitee *models.User) error
}

type service struct {
	users     repositories.UserRepository
	referrals repositories.ReferralRepository
	cache     SummaryCache
	config    Config
}

func NewService(users repositories.UserRepository, referrals repositories.ReferralRepository, cache SummaryCache, config Config) Service {
	if users == nil {
		panic("user repository is required")
	}
	if referrals == nil {
		panic("referral repository is required")
	}
	return &service{users: users, referrals: referrals, cache: cache, config: config}
}

func (s *service) GetSummary(ctx context.Context, chatID string) (*Summary, error) {
	user, err := s.users.GetByChatID(chatID)
	if errors.Is(err, repositories.ErrUserNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		var cached Summary
		if err := s.cache.GetReferralSummary(ctx, chatID, &cached); err == nil {
			return &cached, nil
		}
	}

	summary := &Summary{
		Code:                  user.ReferralCode,
		Link:                  s.config.LinkBase + user.ReferralCode,
		CommissionPerReferral: s.config.CommissionPerReferral,
	}

	ref, err := s.referrals.GetByChatID(chatID)
	switch {
	case errors.Is(err, repositories.ErrReferralNotFound):
		// Nobody referred yet; all counts stay zero.
	case err != nil:
		return nil, err
	default:
		total, active, err := s.referrals.CountReferredUsers(ref.ID)
		if err != nil {
			return nil, err
		}
		summary.TotalReferrals = total
		summary.SuccessfulReferrals = active
		summary.TotalEarned = ref.TotalEarned
		summary.PendingEarned = ref.PendingEarned
	}

	if s.cache != nil {
		if err := s.cache.SetReferralSummary(ctx, chatID, summary); err != nil {
			logrus.WithError(err).Warn("failed to cache referral summary")
		}
	}
	return summary, nil
}

func (s *service) ListReferredUsers(ctx context.Context, chatID string, limit, offset int) ([]models.ReferredUser, int64, error) {
	if _, err := s.users.GetByChatID(chatID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, 0, ErrUserNotFound
		}
		return nil, 0, err
	}

	ref, err := s.referrals.GetByChatID(chatID)
	if errors.Is(err, repositories.ErrReferralNotFound) {
		return []models.ReferredUser{}, 0, nil
	}
	if err != nil {
		return nil, 0, err
	}
	return s.referrals.ListReferredUsers(ref.ID, limit, offset)
}

func (s *service) Link(ctx context.Context, inviter, invitee *models.User) error {
	ref, err := s.referrals.GetOrCreate(inviter.ChatID, inviter.ReferralCode)
	if err != nil {
		return err
	}

	entry := &models.ReferredUser{
		UserID:   invitee.ChatID,
		Username: invitee.Username,
		JoinedAt: time.Now(),
		IsActive: false,
	}
	if err := s.referrals.AppendReferredUser(ref.ID, entry); err != nil {
		return err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateReferralSummary(ctx, inviter.ChatID); err != nil {
			logrus.WithError(err).Warn("failed to invalidate referral summary cache")
		}
	}
	return nil
}
