package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"badger/internal/core"
)

// Seed inserts the default reference data on an empty database: a starter
// category set, the common non-credit payment modes, and two accounts.
// Credit modes are not seeded; they are created per card. Seeding is a
// no-op when any categories already exist.
func (r *SQLiteRepository) Seed(ctx context.Context) error {
	categories, err := r.queries.ListCategories(ctx, true)
	if err != nil {
		return fmt.Errorf("check existing categories: %w", err)
	}
	if len(categories) > 0 {
		slog.InfoContext(ctx, "Seed skipped, reference data already present", "categories", len(categories))
		return nil
	}

	return r.WithTx(ctx, func(q *Queries) error {
		defaultCategories := []string{
			"Food & Dining", "Transport", "Shopping", "Bills & Utilities",
			"Entertainment", "Health", "Groceries", "Education",
			"Personal Care", "Other",
		}
		for i, name := range defaultCategories {
			c := core.Category{ID: uuid.NewString(), Name: name, IsActive: true, SortOrder: i + 1}
			if err := q.CreateCategory(ctx, c); err != nil {
				return err
			}
		}

		defaultModes := []string{"Cash", "UPI", "Debit Card", "Bank Transfer"}
		for i, name := range defaultModes {
			m := core.Mode{ID: uuid.NewString(), Name: name, IsActive: true, SortOrder: i + 1}
			if err := q.CreateMode(ctx, m); err != nil {
				return err
			}
		}

		defaultAccounts := []string{"Primary Bank", "Cash Wallet"}
		for i, name := range defaultAccounts {
			a := core.Account{ID: uuid.NewString(), Name: name, IsActive: true, SortOrder: i + 1}
			if err := q.CreateAccount(ctx, a); err != nil {
				return err
			}
		}

		slog.InfoContext(ctx, "Seeded default reference data",
			"categories", len(defaultCategories),
			"modes", len(defaultModes),
			"accounts", len(defaultAccounts))
		return nil
	})
}
