package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"badger/internal/core"
)

// Categories

const categoryColumns = "id, name, is_active, sort_order, created_at"

func scanCategory(row interface{ Scan(...any) error }) (core.Category, error) {
	var (
		c         core.Category
		isActive  int64
		createdAt string
	)
	if err := row.Scan(&c.ID, &c.Name, &isActive, &c.SortOrder, &createdAt); err != nil {
		return core.Category{}, err
	}
	c.IsActive = isActive == 1
	c.CreatedAt = parseTimestamp(createdAt)
	return c, nil
}

func (q *Queries) CreateCategory(ctx context.Context, c core.Category) error {
	_, err := q.db.ExecContext(ctx,
		"INSERT INTO categories (id, name, is_active, sort_order) VALUES (?, ?, ?, ?)",
		c.ID, c.Name, boolToInt(c.IsActive), c.SortOrder)
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (q *Queries) GetCategory(ctx context.Context, id string) (core.Category, error) {
	row := q.db.QueryRowContext(ctx, "SELECT "+categoryColumns+" FROM categories WHERE id = ?", id)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, fmt.Errorf("category %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func (q *Queries) ListCategories(ctx context.Context, includeInactive bool) ([]core.Category, error) {
	query := "SELECT " + categoryColumns + " FROM categories WHERE is_active = 1 ORDER BY sort_order, name"
	if includeInactive {
		query = "SELECT " + categoryColumns + " FROM categories ORDER BY sort_order, name"
	}
	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []core.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (q *Queries) UpdateCategory(ctx context.Context, c core.Category) error {
	res, err := q.db.ExecContext(ctx,
		"UPDATE categories SET name = ?, is_active = ?, sort_order = ? WHERE id = ?",
		c.Name, boolToInt(c.IsActive), c.SortOrder, c.ID)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	return ensureRowFound(res, c.ID)
}

// FirstActiveCategory is the positional fallback for the settlement entry
// when no settlement category is configured.
func (q *Queries) FirstActiveCategory(ctx context.Context) (core.Category, error) {
	row := q.db.QueryRowContext(ctx,
		"SELECT "+categoryColumns+" FROM categories WHERE is_active = 1 ORDER BY sort_order LIMIT 1")
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, fmt.Errorf("no active category: %w", core.ErrNotFound)
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("first active category: %w", err)
	}
	return c, nil
}

// Modes

const modeColumns = "id, name, is_credit, credit_card_id, is_active, sort_order, created_at"

func scanMode(row interface{ Scan(...any) error }) (core.Mode, error) {
	var (
		m         core.Mode
		isCredit  int64
		cardID    sql.NullString
		isActive  int64
		createdAt string
	)
	if err := row.Scan(&m.ID, &m.Name, &isCredit, &cardID, &isActive, &m.SortOrder, &createdAt); err != nil {
		return core.Mode{}, err
	}
	m.IsCredit = isCredit == 1
	m.CreditCardID = cardID.String
	m.IsActive = isActive == 1
	m.CreatedAt = parseTimestamp(createdAt)
	return m, nil
}

func (q *Queries) CreateMode(ctx context.Context, m core.Mode) error {
	_, err := q.db.ExecContext(ctx,
		"INSERT INTO modes (id, name, is_credit, credit_card_id, is_active, sort_order) VALUES (?, ?, ?, ?, ?, ?)",
		m.ID, m.Name, boolToInt(m.IsCredit), nullString(m.CreditCardID), boolToInt(m.IsActive), m.SortOrder)
	if err != nil {
		return fmt.Errorf("insert mode: %w", err)
	}
	return nil
}

func (q *Queries) GetMode(ctx context.Context, id string) (core.Mode, error) {
	row := q.db.QueryRowContext(ctx, "SELECT "+modeColumns+" FROM modes WHERE id = ?", id)
	m, err := scanMode(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Mode{}, fmt.Errorf("mode %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Mode{}, fmt.Errorf("get mode: %w", err)
	}
	return m, nil
}

func (q *Queries) ListModes(ctx context.Context, includeInactive bool) ([]core.Mode, error) {
	query := "SELECT " + modeColumns + " FROM modes WHERE is_active = 1 ORDER BY sort_order, name"
	if includeInactive {
		query = "SELECT " + modeColumns + " FROM modes ORDER BY sort_order, name"
	}
	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list modes: %w", err)
	}
	defer rows.Close()

	var modes []core.Mode
	for rows.Next() {
		m, err := scanMode(rows)
		if err != nil {
			return nil, fmt.Errorf("scan mode: %w", err)
		}
		modes = append(modes, m)
	}
	return modes, rows.Err()
}

func (q *Queries) UpdateMode(ctx context.Context, m core.Mode) error {
	res, err := q.db.ExecContext(ctx,
		"UPDATE modes SET name = ?, is_credit = ?, credit_card_id = ?, is_active = ?, sort_order = ? WHERE id = ?",
		m.Name, boolToInt(m.IsCredit), nullString(m.CreditCardID), boolToInt(m.IsActive), m.SortOrder, m.ID)
	if err != nil {
		return fmt.Errorf("update mode: %w", err)
	}
	return ensureRowFound(res, m.ID)
}

// FirstActiveNonCreditMode is the positional fallback for the settlement
// entry's payment mode.
func (q *Queries) FirstActiveNonCreditMode(ctx context.Context) (core.Mode, error) {
	row := q.db.QueryRowContext(ctx,
		"SELECT "+modeColumns+" FROM modes WHERE is_credit = 0 AND is_active = 1 ORDER BY sort_order LIMIT 1")
	m, err := scanMode(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Mode{}, fmt.Errorf("no active non-credit mode: %w", core.ErrNotFound)
	}
	if err != nil {
		return core.Mode{}, fmt.Errorf("first active non-credit mode: %w", err)
	}
	return m, nil
}

// Tags

const tagColumns = "id, name, is_active, created_at"

func scanTag(row interface{ Scan(...any) error }) (core.Tag, error) {
	var (
		t         core.Tag
		isActive  int64
		createdAt string
	)
	if err := row.Scan(&t.ID, &t.Name, &isActive, &createdAt); err != nil {
		return core.Tag{}, err
	}
	t.IsActive = isActive == 1
	t.CreatedAt = parseTimestamp(createdAt)
	return t, nil
}

func (q *Queries) CreateTag(ctx context.Context, t core.Tag) error {
	_, err := q.db.ExecContext(ctx,
		"INSERT INTO tags (id, name, is_active) VALUES (?, ?, ?)",
		t.ID, t.Name, boolToInt(t.IsActive))
	if err != nil {
		return fmt.Errorf("insert tag: %w", err)
	}
	return nil
}

func (q *Queries) ListTags(ctx context.Context) ([]core.Tag, error) {
	rows, err := q.db.QueryContext(ctx, "SELECT "+tagColumns+" FROM tags ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var tags []core.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// CountTags reports how many of the given ids exist; used for referential
// validation of an entry's tag set before writing the join rows.
func (q *Queries) CountTags(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query := "SELECT COUNT(*) FROM tags WHERE id IN (?" // first placeholder
	args := []any{ids[0]}
	for _, id := range ids[1:] {
		query += ", ?"
		args = append(args, id)
	}
	query += ")"

	var n int
	if err := q.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count tags: %w", err)
	}
	return n, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
