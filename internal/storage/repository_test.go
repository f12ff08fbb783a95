package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"badger/internal/core"
)

func TestNewSQLiteRepositoryMigratesAndReopens(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "badger.db")

	repo, err := NewSQLiteRepository(dbPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	// Schema is in place: the settings singleton exists.
	if _, err := repo.Queries().GetSettings(context.Background()); err != nil {
		t.Fatalf("get settings: %v", err)
	}
	if err := repo.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// Reopening runs migrations again; ErrNoChange must be tolerated.
	repo, err = NewSQLiteRepository(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	repo.Close()
}

func TestWithTxRollsBackOnError(t *testing.T) {
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "badger.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer repo.Close()

	ctx := context.Background()
	boom := errors.New("boom")

	err = repo.WithTx(ctx, func(q *Queries) error {
		if err := q.CreateAccount(ctx, core.Account{ID: "a1", Name: "Doomed"}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("want boom, got %v", err)
	}

	if _, err := repo.Queries().GetAccount(ctx, "a1"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("account survived rollback: %v", err)
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "badger.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer repo.Close()

	ctx := context.Background()
	if err := repo.Seed(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}
	categories, err := repo.Queries().ListCategories(ctx, true)
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	if len(categories) == 0 {
		t.Fatal("seed created no categories")
	}

	if err := repo.Seed(ctx); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	again, err := repo.Queries().ListCategories(ctx, true)
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	if len(again) != len(categories) {
		t.Fatalf("second seed duplicated rows: %d != %d", len(again), len(categories))
	}
}
