package storage

import (
	"context"
	"database/sql"
	"fmt"

	"badger/internal/core"
)

func (q *Queries) GetSettings(ctx context.Context) (core.Settings, error) {
	var (
		s              core.Settings
		settlementMode sql.NullString
		settlementCat  sql.NullString
		updatedAt      string
	)
	err := q.db.QueryRowContext(ctx,
		"SELECT currency, settlement_mode_id, settlement_category_id, updated_at FROM settings WHERE id = 'default'").
		Scan(&s.Currency, &settlementMode, &settlementCat, &updatedAt)
	if err != nil {
		return core.Settings{}, fmt.Errorf("get settings: %w", err)
	}
	s.SettlementModeID = settlementMode.String
	s.SettlementCategoryID = settlementCat.String
	s.UpdatedAt = parseTimestamp(updatedAt)
	return s, nil
}

func (q *Queries) UpdateSettings(ctx context.Context, s core.Settings) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE settings SET currency = ?, settlement_mode_id = ?, settlement_category_id = ?,
			updated_at = datetime('now')
		WHERE id = 'default'`,
		s.Currency, nullString(s.SettlementModeID), nullString(s.SettlementCategoryID))
	if err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	return nil
}
