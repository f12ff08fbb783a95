package core

import "time"

// Settings is the singleton configuration row. The settlement mode and
// category name what the synthetic cash-out entry is posted with when a
// statement is paid; empty values fall back to the first active row.
type Settings struct {
	Currency             string
	SettlementModeID     string
	SettlementCategoryID string
	UpdatedAt            time.Time
}
