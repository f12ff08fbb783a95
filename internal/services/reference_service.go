package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"badger/internal/core"
	"badger/internal/storage"
)

// ReferenceService manages categories, payment modes, and tags. Reference
// rows are deactivated, never deleted, so historic entries keep resolving.
type ReferenceService struct {
	repo *storage.SQLiteRepository
}

func NewReferenceService(repo *storage.SQLiteRepository) *ReferenceService {
	return &ReferenceService{repo: repo}
}

// Categories

func (s *ReferenceService) CreateCategory(ctx context.Context, name string, sortOrder int) (core.Category, error) {
	if strings.TrimSpace(name) == "" {
		return core.Category{}, core.ErrEmptyName
	}
	category := core.Category{
		ID:        uuid.NewString(),
		Name:      name,
		IsActive:  true,
		SortOrder: sortOrder,
	}

	q := s.repo.Queries()
	if err := q.CreateCategory(ctx, category); err != nil {
		return core.Category{}, err
	}
	return q.GetCategory(ctx, category.ID)
}

func (s *ReferenceService) ListCategories(ctx context.Context, includeInactive bool) ([]core.Category, error) {
	return s.repo.Queries().ListCategories(ctx, includeInactive)
}

func (s *ReferenceService) UpdateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	if strings.TrimSpace(c.Name) == "" {
		return core.Category{}, core.ErrEmptyName
	}
	q := s.repo.Queries()
	if err := q.UpdateCategory(ctx, c); err != nil {
		return core.Category{}, err
	}
	return q.GetCategory(ctx, c.ID)
}

// Modes

func (s *ReferenceService) CreateMode(ctx context.Context, mode core.Mode) (core.Mode, error) {
	mode.ID = uuid.NewString()
	mode.IsActive = true
	if err := mode.Validate(); err != nil {
		return core.Mode{}, err
	}

	q := s.repo.Queries()
	if mode.IsCredit {
		if _, err := q.GetCreditCard(ctx, mode.CreditCardID); err != nil {
			return core.Mode{}, err
		}
	}
	if err := q.CreateMode(ctx, mode); err != nil {
		return core.Mode{}, err
	}
	return q.GetMode(ctx, mode.ID)
}

func (s *ReferenceService) ListModes(ctx context.Context, includeInactive bool) ([]core.Mode, error) {
	return s.repo.Queries().ListModes(ctx, includeInactive)
}

func (s *ReferenceService) UpdateMode(ctx context.Context, mode core.Mode) (core.Mode, error) {
	if err := mode.Validate(); err != nil {
		return core.Mode{}, err
	}

	q := s.repo.Queries()
	if mode.IsCredit {
		if _, err := q.GetCreditCard(ctx, mode.CreditCardID); err != nil {
			return core.Mode{}, err
		}
	}
	if err := q.UpdateMode(ctx, mode); err != nil {
		return core.Mode{}, err
	}
	return q.GetMode(ctx, mode.ID)
}

// Tags

func (s *ReferenceService) CreateTag(ctx context.Context, name string) (core.Tag, error) {
	if strings.TrimSpace(name) == "" {
		return core.Tag{}, core.ErrEmptyName
	}
	tag := core.Tag{
		ID:       uuid.NewString(),
		Name:     name,
		IsActive: true,
	}
	if err := s.repo.Queries().CreateTag(ctx, tag); err != nil {
		return core.Tag{}, err
	}
	return tag, nil
}

func (s *ReferenceService) ListTags(ctx context.Context) ([]core.Tag, error) {
	return s.repo.Queries().ListTags(ctx)
}

// Settings

func (s *ReferenceService) GetSettings(ctx context.Context) (core.Settings, error) {
	return s.repo.Queries().GetSettings(ctx)
}

// UpdateSettings replaces the singleton row. Referenced settlement mode
// and category must exist; empty values reset to the fallback behavior.
func (s *ReferenceService) UpdateSettings(ctx context.Context, settings core.Settings) (core.Settings, error) {
	q := s.repo.Queries()

	if settings.SettlementModeID != "" {
		mode, err := q.GetMode(ctx, settings.SettlementModeID)
		if err != nil {
			return core.Settings{}, err
		}
		if mode.IsCredit {
			return core.Settings{}, core.NewValidationError(
				"settlementModeId", "must be a non-credit mode")
		}
	}
	if settings.SettlementCategoryID != "" {
		if _, err := q.GetCategory(ctx, settings.SettlementCategoryID); err != nil {
			return core.Settings{}, err
		}
	}

	if err := q.UpdateSettings(ctx, settings); err != nil {
		return core.Settings{}, err
	}
	return q.GetSettings(ctx)
}
