// Package upi manages the payout destination linked to a user.
package upi

import (
	"context"
	"errors"

	"refpay/internal/models"
	"refpay/internal/repositories"
)

// ErrMissingChatID is returned when no chatId accompanies the request.
var ErrMissingChatID = errors.New("chat id is required")

type Service interface {
	// Upsert creates or merge-updates the UPI link for a chatId. Nil
	// fields are left untouched; a supplied vpa re-verifies the link.
	Upsert(ctx context.Context, chatID string, vpa, bankName *string) (*models.UpiLink, error)
}

type service struct {
	links repositories.UpiRepository
}

func NewService(links repositories.UpiRepository) Service {
	if links == nil {
		panic("upi repository is required")
	}
	return &service{links: links}
}

func (s *service) Upsert(ctx context.Context, chatID string, vpa, bankName *string) (*models.UpiLink, error) {
	if chatID == "" {
		return nil, ErrMissingChatID
	}
	return s.links.Upsert(chatID, vpa, bankName)
}
