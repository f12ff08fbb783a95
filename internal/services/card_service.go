package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"badger/internal/core"
	"badger/internal/storage"
)

// CardService manages credit cards and their billing configuration.
type CardService struct {
	repo *storage.SQLiteRepository
}

func NewCardService(repo *storage.SQLiteRepository) *CardService {
	return &CardService{repo: repo}
}

// CardPatch updates a credit card. Nil fields are left unchanged.
type CardPatch struct {
	Name       *string
	ClosingDay *int
	DueDay     *int
	IsActive   *bool
	SortOrder  *int
}

func (s *CardService) CreateCard(ctx context.Context, name string, closingDay, dueDay int) (core.CreditCard, error) {
	card := core.CreditCard{
		ID:         uuid.NewString(),
		Name:       name,
		ClosingDay: closingDay,
		DueDay:     dueDay,
		IsActive:   true,
	}
	if err := card.Validate(); err != nil {
		return core.CreditCard{}, err
	}

	q := s.repo.Queries()
	if err := q.CreateCreditCard(ctx, card); err != nil {
		return core.CreditCard{}, err
	}
	return q.GetCreditCard(ctx, card.ID)
}

func (s *CardService) GetCard(ctx context.Context, id string) (core.CreditCard, error) {
	return s.repo.Queries().GetCreditCard(ctx, id)
}

func (s *CardService) ListCards(ctx context.Context, includeInactive bool) ([]core.CreditCard, error) {
	return s.repo.Queries().ListCreditCards(ctx, includeInactive)
}

// UpdateCard applies a patch. Changing the closing day only affects
// statements resolved after the change; existing periods keep their
// bounds.
func (s *CardService) UpdateCard(ctx context.Context, id string, patch CardPatch) (core.CreditCard, error) {
	q := s.repo.Queries()

	card, err := q.GetCreditCard(ctx, id)
	if err != nil {
		return core.CreditCard{}, err
	}
	if patch.Name != nil {
		card.Name = *patch.Name
	}
	if patch.ClosingDay != nil {
		card.ClosingDay = *patch.ClosingDay
	}
	if patch.DueDay != nil {
		card.DueDay = *patch.DueDay
	}
	if patch.IsActive != nil {
		card.IsActive = *patch.IsActive
	}
	if patch.SortOrder != nil {
		card.SortOrder = *patch.SortOrder
	}
	if err := card.Validate(); err != nil {
		return core.CreditCard{}, err
	}

	if err := q.UpdateCreditCard(ctx, card); err != nil {
		return core.CreditCard{}, err
	}
	return q.GetCreditCard(ctx, id)
}

// DeactivateCard retires a card. It is rejected while the card still has
// unpaid statements; history stays queryable either way.
func (s *CardService) DeactivateCard(ctx context.Context, id string) error {
	q := s.repo.Queries()

	card, err := q.GetCreditCard(ctx, id)
	if err != nil {
		return err
	}

	unpaid, err := q.CountUnpaidStatements(ctx, id)
	if err != nil {
		return err
	}
	if unpaid > 0 {
		return fmt.Errorf("card %s has %d unpaid statements: %w",
			id, unpaid, core.ErrConstraintViolation)
	}

	card.IsActive = false
	return q.UpdateCreditCard(ctx, card)
}
