package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"badger/internal/cli"
	"badger/internal/core"
	"badger/internal/log"
	"badger/internal/services"
	"badger/internal/storage"
)

const usage = `usage: badger <command> [args]

commands:
  init                                seed reference data into a fresh database
  balances                            print derived balances for active accounts
  unpaid [cardId]                     list unpaid credit-card statements
  pay <statementId> <accountId> <date> settle a statement (date YYYY-MM-DD)
  close-month <year> <month>          lock a month against ledger mutations
  reopen-month <year> <month>         lift the lock again
  export <file>                       dump the database as versioned JSON
  import <file>                       replace the database from a JSON dump
`

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg)

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	ctx := context.Background()
	if err := run(ctx, repo, os.Args[1], os.Args[2:]); err != nil {
		logger.Error("Command failed", log.FieldOperation, os.Args[1], log.FieldError, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, repo *storage.SQLiteRepository, command string, args []string) error {
	switch command {
	case "init":
		return repo.Seed(ctx)
	case "balances":
		return printBalances(ctx, repo)
	case "unpaid":
		cardID := ""
		if len(args) > 0 {
			cardID = args[0]
		}
		return printUnpaid(ctx, repo, cardID)
	case "pay":
		if len(args) != 3 {
			return fmt.Errorf("pay needs <statementId> <accountId> <date>")
		}
		paidDate, err := core.ParseDate(args[2])
		if err != nil {
			return err
		}
		return payStatement(ctx, repo, args[0], args[1], paidDate)
	case "close-month":
		return monthCommand(ctx, repo, args, true)
	case "reopen-month":
		return monthCommand(ctx, repo, args, false)
	case "export":
		if len(args) != 1 {
			return fmt.Errorf("export needs <file>")
		}
		return exportBackup(ctx, repo, args[0])
	case "import":
		if len(args) != 1 {
			return fmt.Errorf("import needs <file>")
		}
		return importBackup(ctx, repo, args[0])
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func printBalances(ctx context.Context, repo *storage.SQLiteRepository) error {
	balances, err := services.NewAccountService(repo).AllBalances(ctx)
	if err != nil {
		return err
	}
	for _, b := range balances {
		fmt.Printf("%-24s %12.2f (opening %.2f, income %.2f, spent %.2f)\n",
			b.AccountName, b.CurrentBalance.Units(),
			b.OpeningBalance.Units(), b.TotalIncome.Units(), b.TotalExpense.Units())
	}
	return nil
}

func printUnpaid(ctx context.Context, repo *storage.SQLiteRepository, cardID string) error {
	statements, err := services.NewStatementService(repo).ListUnpaid(ctx, cardID)
	if err != nil {
		return err
	}
	for _, s := range statements {
		fmt.Printf("%s  %s → %s  %10.2f  (%d entries)\n",
			s.ID, s.PeriodStart, s.PeriodEnd, s.TotalAmount.Units(), len(s.Entries))
	}
	return nil
}

func payStatement(ctx context.Context, repo *storage.SQLiteRepository, statementID, accountID string, paidDate core.Date) error {
	paid, err := services.NewSettlementService(repo).PayStatement(ctx, statementID, accountID, paidDate)
	if err != nil {
		return err
	}
	fmt.Printf("paid %s: %.2f on %s\n", paid.ID, paid.TotalAmount.Units(), paidDate)
	return nil
}

func monthCommand(ctx context.Context, repo *storage.SQLiteRepository, args []string, close bool) error {
	if len(args) != 2 {
		return fmt.Errorf("need <year> <month>")
	}
	year, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("bad year %q", args[0])
	}
	month, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("bad month %q", args[1])
	}

	months := services.NewMonthCloseService(repo)
	if close {
		_, err = months.CloseMonth(ctx, year, month)
	} else {
		_, err = months.ReopenMonth(ctx, year, month)
	}
	return err
}

func exportBackup(ctx context.Context, repo *storage.SQLiteRepository, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return services.NewBackupService(repo).Export(ctx, f)
}

func importBackup(ctx context.Context, repo *storage.SQLiteRepository, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return services.NewBackupService(repo).Import(ctx, f)
}
