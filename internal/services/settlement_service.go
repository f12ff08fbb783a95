package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"badger/internal/core"
	"badger/internal/log"
	"badger/internal/statemachine"
	"badger/internal/storage"
)

// SettlementService pays credit-card statements. Settlement is the only
// path that closes credit entries: one transaction marks the statement
// paid, closes every linked entry, and posts the cash-out entry that hits
// the paying account.
type SettlementService struct {
	repo *storage.SQLiteRepository
}

func NewSettlementService(repo *storage.SQLiteRepository) *SettlementService {
	return &SettlementService{repo: repo}
}

// PayStatement settles a statement on paidDate against accountID. The
// synthetic cash-out entry is skipped when the statement total is zero.
func (s *SettlementService) PayStatement(ctx context.Context, statementID, accountID string, paidDate core.Date) (core.Statement, error) {
	var paid core.Statement
	err := s.repo.WithTx(ctx, func(q *storage.Queries) error {
		statement, err := q.GetStatement(ctx, statementID)
		if err != nil {
			return err
		}
		if _, err := q.GetAccount(ctx, accountID); err != nil {
			return err
		}
		if err := ensureMonthOpen(ctx, q, paidDate); err != nil {
			return err
		}

		fsm := statemachine.NewStatementFSM(&statement)
		if err := fsm.Pay(ctx, paidDate); err != nil {
			return err
		}

		total, err := q.SumStatementEntries(ctx, statementID)
		if err != nil {
			return err
		}
		statement.TotalAmount = core.Money{Cents: total}

		if err := q.MarkStatementPaid(ctx, statementID, paidDate); err != nil {
			return err
		}
		if err := q.CloseStatementEntries(ctx, statementID); err != nil {
			return err
		}

		if total > 0 {
			if err := s.postCashOut(ctx, q, statement, accountID, paidDate); err != nil {
				return err
			}
		}

		paid = statement
		return nil
	})
	if err != nil {
		return core.Statement{}, fmt.Errorf("pay statement: %w", err)
	}

	slog.InfoContext(ctx, "Statement paid",
		log.FieldStatementID, paid.ID,
		log.FieldCardID, paid.CardID,
		log.FieldAccountID, accountID,
		log.FieldDate, paidDate.String(),
		log.FieldAmountCents, paid.TotalAmount.Cents)

	return paid, nil
}

// postCashOut writes the closed cash entry representing the card payment.
// Mode and category come from settings, falling back to the first active
// non-credit mode and first active category.
func (s *SettlementService) postCashOut(ctx context.Context, q *storage.Queries, statement core.Statement, accountID string, paidDate core.Date) error {
	modeID, categoryID, err := s.settlementRefs(ctx, q)
	if err != nil {
		return err
	}

	card, err := q.GetCreditCard(ctx, statement.CardID)
	if err != nil {
		return err
	}
	expense, err := q.GetOrCreateExpense(ctx, paidDate)
	if err != nil {
		return err
	}

	entry := core.Entry{
		ID:         uuid.NewString(),
		ExpenseID:  expense.ID,
		Date:       paidDate,
		Name:       fmt.Sprintf("%s bill payment (%s)", card.Name, statement.PeriodEnd),
		Amount:     statement.TotalAmount,
		ModeID:     modeID,
		CategoryID: categoryID,
		AccountID:  accountID,
		Necessity:  core.NecessityNecessary,
		Type:       core.TypeExpense,
		Status:     core.StatusClosed,
	}
	return q.CreateEntry(ctx, entry)
}

func (s *SettlementService) settlementRefs(ctx context.Context, q *storage.Queries) (modeID, categoryID string, err error) {
	settings, err := q.GetSettings(ctx)
	if err != nil {
		return "", "", err
	}

	modeID = settings.SettlementModeID
	if modeID == "" {
		mode, err := q.FirstActiveNonCreditMode(ctx)
		if err != nil {
			return "", "", fmt.Errorf("settlement mode fallback: %w", err)
		}
		modeID = mode.ID
	}

	categoryID = settings.SettlementCategoryID
	if categoryID == "" {
		category, err := q.FirstActiveCategory(ctx)
		if err != nil {
			return "", "", fmt.Errorf("settlement category fallback: %w", err)
		}
		categoryID = category.ID
	}
	return modeID, categoryID, nil
}
