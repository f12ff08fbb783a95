package services

import (
	"context"
	"fmt"
	"log/slog"

	"badger/internal/core"
	"badger/internal/log"
	"badger/internal/storage"
)

// StatementService owns credit-card statement rows: lazy creation on the
// first transaction of a billing period and read projections with live
// totals.
type StatementService struct {
	repo *storage.SQLiteRepository
}

func NewStatementService(repo *storage.SQLiteRepository) *StatementService {
	return &StatementService{repo: repo}
}

// GetOrCreateCurrentStatement resolves the statement covering date for
// the card. Creation and total recomputation happen in one transaction so
// a concurrent read never sees a statement without its period.
func (s *StatementService) GetOrCreateCurrentStatement(ctx context.Context, cardID string, date core.Date) (core.Statement, error) {
	var statement core.Statement
	err := s.repo.WithTx(ctx, func(q *storage.Queries) error {
		card, err := q.GetCreditCard(ctx, cardID)
		if err != nil {
			return err
		}
		statement, err = resolveStatement(ctx, q, card, date)
		return err
	})
	if err != nil {
		return core.Statement{}, fmt.Errorf("resolve current statement: %w", err)
	}
	return statement, nil
}

// Get returns a statement with its member entries and live total.
func (s *StatementService) Get(ctx context.Context, id string) (core.StatementWithEntries, error) {
	q := s.repo.Queries()

	statement, err := q.GetStatement(ctx, id)
	if err != nil {
		return core.StatementWithEntries{}, err
	}
	return s.withEntries(ctx, statement)
}

// ListByCard returns all statements of a card, newest period first.
func (s *StatementService) ListByCard(ctx context.Context, cardID string) ([]core.StatementWithEntries, error) {
	q := s.repo.Queries()

	if _, err := q.GetCreditCard(ctx, cardID); err != nil {
		return nil, err
	}

	statements, err := q.ListStatementsByCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	return s.collectWithEntries(ctx, statements)
}

// ListUnpaid returns open statements; cardID may be empty for all cards.
func (s *StatementService) ListUnpaid(ctx context.Context, cardID string) ([]core.StatementWithEntries, error) {
	q := s.repo.Queries()

	if cardID != "" {
		if _, err := q.GetCreditCard(ctx, cardID); err != nil {
			return nil, err
		}
	}

	statements, err := q.ListUnpaidStatements(ctx, cardID)
	if err != nil {
		return nil, err
	}
	return s.collectWithEntries(ctx, statements)
}

func (s *StatementService) collectWithEntries(ctx context.Context, statements []core.Statement) ([]core.StatementWithEntries, error) {
	result := make([]core.StatementWithEntries, 0, len(statements))
	for _, statement := range statements {
		swe, err := s.withEntries(ctx, statement)
		if err != nil {
			return nil, err
		}
		result = append(result, swe)
	}
	return result, nil
}

func (s *StatementService) withEntries(ctx context.Context, statement core.Statement) (core.StatementWithEntries, error) {
	q := s.repo.Queries()

	entries, err := q.ListStatementEntries(ctx, statement.ID)
	if err != nil {
		return core.StatementWithEntries{}, err
	}

	// Live total, never the stored value.
	statement.TotalAmount = core.Money{}
	for _, e := range entries {
		statement.TotalAmount = statement.TotalAmount.Add(e.Amount)
	}

	slog.DebugContext(ctx, "Statement projected",
		log.FieldStatementID, statement.ID,
		"entries", len(entries),
		log.FieldAmountCents, statement.TotalAmount.Cents)

	return core.StatementWithEntries{Statement: statement, Entries: entries}, nil
}
