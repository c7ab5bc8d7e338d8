// Package withdrawal owns the withdrawal request lifecycle. Requests are
// created pending; the external settlement process moves them to
// completed or failed and reconciles the wallet separately.
package withdrawal

import (
	"context"
	"time"

	"refpay/internal/models"
	"refpay/internal/repositories"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Fee is the flat payout fee in currency units, deducted from every
// withdrawal regardless of amount.
const Fee = 3.0

type Service interface {
	// Initiate records a pending withdrawal. No wallet debit happens
	// here; settlement is external.
	Initiate(ctx context.Context, chatID string, amount float64, vpa string) (*models.Withdrawal, error)

	// List pages a user's withdrawals, newest first.
	List(ctx context.Context, chatID string, limit, offset int) ([]models.Withdrawal, int64, error)

	// Complete marks a pending withdrawal settled with the payout rail's
	// transaction id. Rows already in a terminal state are not eligible
	// and report repositories.ErrWithdrawalNotFound.
	Complete(ctx context.Context, reference, transactionID string) error

	// Fail marks a pending withdrawal failed with a reason. Same
	// eligibility rule as Complete.
	Fail(ctx context.Context, reference, reason string) error
}

type service struct {
	withdrawals repositories.WithdrawalRepository
}

func NewService(withdrawals repositories.WithdrawalRepository) Service {
	if withdrawals == nil {
		panic("withdrawal repository is required")
	}
	return &service{withdrawals: withdrawals}
}

func (s *service) Initiate(ctx context.Context, chatID string, amount float64, vpa string) (*models.Withdrawal, error) {
	if chatID == "" {
		return nil, ErrMissingChatID
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if vpa == "" {
		return nil, ErrMissingVPA
	}

	net := amount - Fee
	if net < 0 {
		// There is no minimum-amount floor; a sub-fee request goes
		// through with a negative net for settlement to reject.
		logrus.WithFields(logrus.Fields{
			"chat_id": chatID,
			"amount":  amount,
		}).Warn("withdrawal net amount is negative")
	}

	w := &models.Withdrawal{
		ChatID:      chatID,
		Amount:      amount,
		VPA:         vpa,
		Fee:         Fee,
		NetAmount:   net,
		Status:      models.WithdrawalStatusPending,
		Reference:   uuid.NewString(),
		InitiatedAt: time.Now(),
	}
	if err := s.withdrawals.Create(w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *service) List(ctx context.Context, chatID string, limit, offset int) ([]models.Withdrawal, int64, error) {
	if chatID == "" {
		return nil, 0, ErrMissingChatID
	}
	return s.withdrawals.ListByChatID(chatID, limit, offset)
}

func (s *service) Complete(ctx context.Context, reference, transactionID string) error {
	if reference == "" {
		return ErrMissingReference
	}
	if err := s.withdrawals.MarkCompleted(reference, transactionID); err != nil {
		return err
	}
	logrus.WithField("reference", reference).Info("withdrawal settled")
	return nil
}

func (s *service) Fail(ctx context.Context, reference, reason string) error {
	if reference == "" {
		return ErrMissingReference
	}
	if err := s.withdrawals.MarkFailed(reference, reason); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"reference": reference,
		"reason":    reason,
	}).Info("withdrawal failed")
	return nil
}
