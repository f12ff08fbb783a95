package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"badger/internal/core"
	"badger/internal/storage"
)

// BackupVersion is bumped whenever the export format changes shape.
const BackupVersion = 1

// BackupService exports the full database to a versioned JSON document
// and restores from one. Import replaces everything; it is not a merge.
type BackupService struct {
	repo *storage.SQLiteRepository
}

func NewBackupService(repo *storage.SQLiteRepository) *BackupService {
	return &BackupService{repo: repo}
}

type Backup struct {
	Version    int              `json:"version"`
	ExportedAt time.Time        `json:"exportedAt"`
	Accounts   []accountDump    `json:"accounts"`
	Categories []categoryDump   `json:"categories"`
	Cards      []cardDump       `json:"creditCards"`
	Modes      []modeDump       `json:"modes"`
	Tags       []tagDump        `json:"tags"`
	Statements []statementDump  `json:"statements"`
	Expenses   []expenseDump    `json:"expenses"`
	Entries    []entryDump      `json:"entries"`
	Income     []incomeDump     `json:"income"`
	MonthClose []monthCloseDump `json:"monthClose"`
	Settings   settingsDump     `json:"settings"`
}

type accountDump struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	OpeningCents int64  `json:"openingBalanceCents"`
	IsActive     bool   `json:"isActive"`
	SortOrder    int    `json:"sortOrder"`
}

type categoryDump struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsActive  bool   `json:"isActive"`
	SortOrder int    `json:"sortOrder"`
}

type cardDump struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ClosingDay int    `json:"closingDay"`
	DueDay     int    `json:"dueDay"`
	IsActive   bool   `json:"isActive"`
	SortOrder  int    `json:"sortOrder"`
}

type modeDump struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	IsCredit     bool   `json:"isCredit"`
	CreditCardID string `json:"creditCardId,omitempty"`
	IsActive     bool   `json:"isActive"`
	SortOrder    int    `json:"sortOrder"`
}

type tagDump struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"isActive"`
}

type statementDump struct {
	ID          string `json:"id"`
	CardID      string `json:"cardId"`
	PeriodStart string `json:"periodStart"`
	PeriodEnd   string `json:"periodEnd"`
	Status      string `json:"status"`
	PaidDate    string `json:"paidDate,omitempty"`
}

type expenseDump struct {
	ID   string `json:"id"`
	Date string `json:"date"`
}

type entryDump struct {
	ID              string   `json:"id"`
	ExpenseID       string   `json:"expenseId"`
	Name            string   `json:"name"`
	AmountCents     int64    `json:"amountCents"`
	ModeID          string   `json:"modeId"`
	CategoryID      string   `json:"categoryId"`
	AccountID       string   `json:"accountId"`
	Necessity       string   `json:"necessity"`
	Type            string   `json:"type"`
	Status          string   `json:"status"`
	ExpectedClosure string   `json:"expectedClosure,omitempty"`
	StatementID     string   `json:"statementId,omitempty"`
	Tags            []string `json:"tags,omitempty"`
}

type incomeDump struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	Source      string `json:"source"`
	AmountCents int64  `json:"amountCents"`
	AccountID   string `json:"accountId"`
}

type monthCloseDump struct {
	ID     string `json:"id"`
	Year   int    `json:"year"`
	Month  int    `json:"month"`
	Status string `json:"status"`
}

type settingsDump struct {
	Currency             string `json:"currency"`
	SettlementModeID     string `json:"settlementModeId,omitempty"`
	SettlementCategoryID string `json:"settlementCategoryId,omitempty"`
}

// Export writes the whole database as indented JSON to w.
func (s *BackupService) Export(ctx context.Context, w io.Writer) error {
	backup, err := s.snapshot(ctx)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(backup); err != nil {
		return fmt.Errorf("encode backup: %w", err)
	}

	slog.InfoContext(ctx, "Backup exported",
		"entries", len(backup.Entries),
		"statements", len(backup.Statements),
		"income", len(backup.Income))
	return nil
}

// Import wipes the database and reloads it from the backup in one
// transaction. Row timestamps are regenerated, not restored.
func (s *BackupService) Import(ctx context.Context, r io.Reader) error {
	var backup Backup
	if err := json.NewDecoder(r).Decode(&backup); err != nil {
		return fmt.Errorf("decode backup: %w", err)
	}
	if backup.Version != BackupVersion {
		return core.NewValidationError("version",
			fmt.Sprintf("unsupported backup version %d", backup.Version))
	}

	err := s.repo.WithTx(ctx, func(q *storage.Queries) error {
		if err := q.WipeAll(ctx); err != nil {
			return err
		}
		return s.restore(ctx, q, backup)
	})
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	slog.InfoContext(ctx, "Backup imported",
		"entries", len(backup.Entries),
		"statements", len(backup.Statements),
		"income", len(backup.Income))
	return nil
}

func (s *BackupService) snapshot(ctx context.Context) (Backup, error) {
	q := s.repo.Queries()
	backup := Backup{Version: BackupVersion, ExportedAt: time.Now().UTC()}

	accounts, err := q.ListAccounts(ctx, true)
	if err != nil {
		return Backup{}, err
	}
	for _, a := range accounts {
		backup.Accounts = append(backup.Accounts, accountDump{
			ID: a.ID, Name: a.Name, OpeningCents: a.OpeningBalance.Cents,
			IsActive: a.IsActive, SortOrder: a.SortOrder,
		})
	}

	categories, err := q.ListCategories(ctx, true)
	if err != nil {
		return Backup{}, err
	}
	for _, c := range categories {
		backup.Categories = append(backup.Categories, categoryDump{
			ID: c.ID, Name: c.Name, IsActive: c.IsActive, SortOrder: c.SortOrder,
		})
	}

	cards, err := q.ListCreditCards(ctx, true)
	if err != nil {
		return Backup{}, err
	}
	for _, c := range cards {
		backup.Cards = append(backup.Cards, cardDump{
			ID: c.ID, Name: c.Name, ClosingDay: c.ClosingDay, DueDay: c.DueDay,
			IsActive: c.IsActive, SortOrder: c.SortOrder,
		})
	}

	modes, err := q.ListModes(ctx, true)
	if err != nil {
		return Backup{}, err
	}
	for _, m := range modes {
		backup.Modes = append(backup.Modes, modeDump{
			ID: m.ID, Name: m.Name, IsCredit: m.IsCredit,
			CreditCardID: m.CreditCardID, IsActive: m.IsActive, SortOrder: m.SortOrder,
		})
	}

	tags, err := q.ListTags(ctx)
	if err != nil {
		return Backup{}, err
	}
	for _, t := range tags {
		backup.Tags = append(backup.Tags, tagDump{ID: t.ID, Name: t.Name, IsActive: t.IsActive})
	}

	statements, err := q.ListAllStatements(ctx)
	if err != nil {
		return Backup{}, err
	}
	for _, st := range statements {
		dump := statementDump{
			ID: st.ID, CardID: st.CardID,
			PeriodStart: st.PeriodStart.String(), PeriodEnd: st.PeriodEnd.String(),
			Status: string(st.Status),
		}
		if st.PaidDate != nil {
			dump.PaidDate = st.PaidDate.String()
		}
		backup.Statements = append(backup.Statements, dump)
	}

	expenses, err := q.ListAllExpenses(ctx)
	if err != nil {
		return Backup{}, err
	}
	for _, e := range expenses {
		backup.Expenses = append(backup.Expenses, expenseDump{ID: e.ID, Date: e.Date.String()})
	}

	entries, err := q.ListAllEntries(ctx)
	if err != nil {
		return Backup{}, err
	}
	for _, e := range entries {
		dump := entryDump{
			ID: e.ID, ExpenseID: e.ExpenseID, Name: e.Name,
			AmountCents: e.Amount.Cents, ModeID: e.ModeID, CategoryID: e.CategoryID,
			AccountID: e.AccountID, Necessity: string(e.Necessity), Type: string(e.Type),
			Status: string(e.Status), StatementID: e.StatementID, Tags: e.Tags,
		}
		if e.ExpectedClosure != nil {
			dump.ExpectedClosure = e.ExpectedClosure.String()
		}
		backup.Entries = append(backup.Entries, dump)
	}

	income, err := q.ListAllIncome(ctx)
	if err != nil {
		return Backup{}, err
	}
	for _, i := range income {
		backup.Income = append(backup.Income, incomeDump{
			ID: i.ID, Date: i.Date.String(), Source: i.Source,
			AmountCents: i.Amount.Cents, AccountID: i.AccountID,
		})
	}

	monthClose, err := q.ListAllMonthClose(ctx)
	if err != nil {
		return Backup{}, err
	}
	for _, m := range monthClose {
		backup.MonthClose = append(backup.MonthClose, monthCloseDump{
			ID: m.ID, Year: m.Year, Month: m.Month, Status: string(m.Status),
		})
	}

	settings, err := q.GetSettings(ctx)
	if err != nil {
		return Backup{}, err
	}
	backup.Settings = settingsDump{
		Currency:             settings.Currency,
		SettlementModeID:     settings.SettlementModeID,
		SettlementCategoryID: settings.SettlementCategoryID,
	}
	return backup, nil
}

// restore inserts rows in foreign-key order.
func (s *BackupService) restore(ctx context.Context, q *storage.Queries, backup Backup) error {
	for _, a := range backup.Accounts {
		err := q.CreateAccount(ctx, core.Account{
			ID: a.ID, Name: a.Name, OpeningBalance: core.Money{Cents: a.OpeningCents},
			IsActive: a.IsActive, SortOrder: a.SortOrder,
		})
		if err != nil {
			return err
		}
	}
	for _, c := range backup.Categories {
		err := q.CreateCategory(ctx, core.Category{
			ID: c.ID, Name: c.Name, IsActive: c.IsActive, SortOrder: c.SortOrder,
		})
		if err != nil {
			return err
		}
	}
	for _, c := range backup.Cards {
		err := q.CreateCreditCard(ctx, core.CreditCard{
			ID: c.ID, Name: c.Name, ClosingDay: c.ClosingDay, DueDay: c.DueDay,
			IsActive: c.IsActive, SortOrder: c.SortOrder,
		})
		if err != nil {
			return err
		}
	}
	for _, m := range backup.Modes {
		err := q.CreateMode(ctx, core.Mode{
			ID: m.ID, Name: m.Name, IsCredit: m.IsCredit,
			CreditCardID: m.CreditCardID, IsActive: m.IsActive, SortOrder: m.SortOrder,
		})
		if err != nil {
			return err
		}
	}
	for _, t := range backup.Tags {
		if err := q.CreateTag(ctx, core.Tag{ID: t.ID, Name: t.Name, IsActive: t.IsActive}); err != nil {
			return err
		}
	}

	for _, st := range backup.Statements {
		start, err := core.ParseDate(st.PeriodStart)
		if err != nil {
			return err
		}
		end, err := core.ParseDate(st.PeriodEnd)
		if err != nil {
			return err
		}
		statement := core.Statement{
			ID: st.ID, CardID: st.CardID,
			PeriodStart: start, PeriodEnd: end,
			Status: core.StatementOpen,
		}
		if err := q.CreateStatement(ctx, statement); err != nil {
			return err
		}
		// Statements insert open; paid ones get their status and paid
		// date stamped back afterwards.
		if core.StatementStatus(st.Status) == core.StatementPaid {
			paidDate, err := core.ParseDate(st.PaidDate)
			if err != nil {
				return err
			}
			if err := q.MarkStatementPaid(ctx, st.ID, paidDate); err != nil {
				return err
			}
		}
	}

	for _, e := range backup.Expenses {
		date, err := core.ParseDate(e.Date)
		if err != nil {
			return err
		}
		if err := q.CreateExpense(ctx, core.Expense{ID: e.ID, Date: date}); err != nil {
			return err
		}
	}

	for _, e := range backup.Entries {
		entry := core.Entry{
			ID: e.ID, ExpenseID: e.ExpenseID, Name: e.Name,
			Amount: core.Money{Cents: e.AmountCents},
			ModeID: e.ModeID, CategoryID: e.CategoryID, AccountID: e.AccountID,
			Necessity: core.Necessity(e.Necessity), Type: core.EntryType(e.Type),
			Status: core.EntryStatus(e.Status), StatementID: e.StatementID, Tags: e.Tags,
		}
		if e.ExpectedClosure != "" {
			d, err := core.ParseDate(e.ExpectedClosure)
			if err != nil {
				return err
			}
			entry.ExpectedClosure = &d
		}
		if err := q.CreateEntry(ctx, entry); err != nil {
			return err
		}
	}

	for _, i := range backup.Income {
		date, err := core.ParseDate(i.Date)
		if err != nil {
			return err
		}
		err = q.CreateIncome(ctx, core.Income{
			ID: i.ID, Date: date, Source: i.Source,
			Amount: core.Money{Cents: i.AmountCents}, AccountID: i.AccountID,
		})
		if err != nil {
			return err
		}
	}

	for _, m := range backup.MonthClose {
		mc := core.MonthClose{
			ID: m.ID, Year: m.Year, Month: m.Month, Status: core.MonthStatus(m.Status),
		}
		if mc.IsClosed() {
			now := time.Now().UTC()
			mc.ClosedAt = &now
		}
		if err := q.UpsertMonthClose(ctx, mc); err != nil {
			return err
		}
	}

	return q.UpdateSettings(ctx, core.Settings{
		Currency:             backup.Settings.Currency,
		SettlementModeID:     backup.Settings.SettlementModeID,
		SettlementCategoryID: backup.Settings.SettlementCategoryID,
	})
}
