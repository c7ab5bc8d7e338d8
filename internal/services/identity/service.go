package identity

import (
	"context"
	"errors"
	"fmt"

	"refpay/internal/models"
	"refpay/internal/repositories"

	"github.com/sirupsen/logrus"
)

// Service resolves chatIds to users. Resolution lazily provisions the
// user's wallet, and the bot path may additionally record referral
// linkage at first creation.
type Service interface {
	// ResolveOrCreate returns the user for a chatId, creating it (and its
	// wallet) on first contact. Existing users get a last-write-wins merge
	// of the profile fields; referral_code and referred_by never change.
	ResolveOrCreate(ctx context.Context, chatID, username, avatar string) (*models.User, error)

	// CreateFromReferral behaves like ResolveOrCreate but, for new users
	// only, stores the supplied inviter code and links the invitee under
	// the inviter's referral record. This is the only path that sets
	// referred_by. Unknown codes are ignored rather than rejected so a
	// malformed invite link never blocks onboarding.
	CreateFromReferral(ctx context.Context, chatID, username, avatar string, ref *string) (*models.User, error)
}

// ReferralLinker records an invitee under an inviter's referral record.
type ReferralLinker interface {
	Link(ctx context.Context, inviter, invitee *models.User) error
}

type service struct {
	users  repositories.UserRepository
	linker ReferralLinker
}

func NewService(users repositories.UserRepository, linker ReferralLinker) Service {
	if users == nil {
		panic("user repository is required")
	}
	return &service{users: users, linker: linker}
}

func (s *service) ResolveOrCreate(ctx context.Context, chatID, username, avatar string) (*models.User, error) {
	if chatID == "" {
		return nil, ErrMissingChatID
	}

	user, err := s.users.GetByChatID(chatID)
	if err == nil {
		return s.mergeProfile(user, username, avatar)
	}
	if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, err
	}

	user, _, err = s.create(chatID, username, avatar, nil)
	return user, err
}

func (s *service) CreateFromReferral(ctx context.Context, chatID, username, avatar string, ref *string) (*models.User, error) {
	if chatID == "" {
		return nil, ErrMissingChatID
	}

	user, err := s.users.GetByChatID(chatID)
	if err == nil {
		// Existing users keep their original referred_by, whatever the
		// bot sends now.
		return s.mergeProfile(user, username, avatar)
	}
	if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, err
	}

	user, adopted, err := s.create(chatID, username, avatar, ref)
	if err != nil {
		return nil, err
	}

	// An adopted row belongs to whichever request created it first; it is
	// an existing user from this caller's point of view and gains no
	// linkage, whatever ref came in now.
	if !adopted && ref != nil && *ref != "" {
		if err := s.linkInviter(ctx, *ref, user); err != nil {
			return nil, err
		}
	}
	return user, nil
}

// create allocates a referral code and inserts the user together with its
// wallet. Code allocation is reserve-on-insert: the referral_code unique
// index arbitrates collisions and the loop retries with a fresh code, a
// bounded number of times. The returned adopted flag reports that another
// request won the creation race and its row was taken over instead.
func (s *service) create(chatID, username, avatar string, ref *string) (*models.User, bool, error) {
	for attempt := 0; attempt < codeAllocationAttempts; attempt++ {
		user := &models.User{
			ChatID:       chatID,
			Username:     username,
			Avatar:       avatar,
			Status:       models.UserStatusActive,
			ReferralCode: randomReferralCode(),
			ReferredBy:   ref,
		}

		err := s.users.CreateWithWallet(user)
		if err == nil {
			return user, false, nil
		}
		if !errors.Is(err, repositories.ErrDuplicateRecord) {
			return nil, false, err
		}

		// The duplicate is either a lost creation race on chat_id or a
		// referral code collision. If the chatId now resolves, another
		// request won the race: adopt its row.
		winner, gerr := s.users.GetByChatID(chatID)
		if gerr == nil {
			merged, merr := s.mergeProfile(winner, username, avatar)
			return merged, true, merr
		}
		if !errors.Is(gerr, repositories.ErrUserNotFound) {
			// Storage failure, not a collision.
			return nil, false, gerr
		}

		logrus.WithField("chat_id", chatID).WithField("attempt", attempt+1).
			Debug("referral code collision, retrying")
	}
	return nil, false, ErrCodeAllocation
}

// mergeProfile applies a last-write-wins update of the display fields,
// overwriting only when the incoming value is non-empty.
func (s *service) mergeProfile(user *models.User, username, avatar string) (*models.User, error) {
	changed := false
	if username != "" && username != user.Username {
		user.Username = username
		changed = true
	}
	if avatar != "" && avatar != user.Avatar {
		user.Avatar = avatar
		changed = true
	}
	if !changed {
		return user, nil
	}
	if err := s.users.Update(user); err != nil {
		return nil, fmt.Errorf("failed to merge profile: %w", err)
	}
	return user, nil
}

func (s *service) linkInviter(ctx context.Context, ref string, invitee *models.User) error {
	inviter, err := s.users.GetByReferralCode(ref)
	if errors.Is(err, repositories.ErrUserNotFound) {
		// Unknown invite codes create no linkage and no error.
		logrus.WithField("ref", ref).Debug("unknown referral code, skipping linkage")
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrReferralLinkage, err)
	}

	if s.linker == nil {
		return nil
	}
	if err := s.linker.Link(ctx, inviter, invitee); err != nil {
		logrus.WithError(err).WithField("inviter", inviter.ChatID).
			Error("referral linkage failed after user creation")
		return fmt.Errorf("%w: %v", ErrReferralLinkage, err)
	}
	return nil
}
