package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// auditedTables lists every table carrying the shared audit columns, in
// dependency order so the retention purge deletes children first. Parent
// tables carry a guard that keeps rows in place while anything still
// references them (foreign keys are on); a blocked parent is picked up on a
// later sweep once its children age out.
var auditedTables = []struct {
	name  string
	guard string
}{
	{name: "transactions"},
	{name: "balances"},
	{name: "cards"},
	{name: "accounts", guard: `
		AND NOT EXISTS (SELECT 1 FROM transactions WHERE transactions.account_id = accounts.id)
		AND NOT EXISTS (SELECT 1 FROM balances WHERE balances.account_id = accounts.id)
		AND NOT EXISTS (SELECT 1 FROM cards WHERE cards.account_id = accounts.id)`},
	{name: "banks", guard: `
		AND NOT EXISTS (SELECT 1 FROM accounts WHERE accounts.bank_id = banks.id)`},
	{name: "service_users"},
	{name: "suppliers", guard: `
		AND NOT EXISTS (SELECT 1 FROM service_users WHERE service_users.supplier_id = suppliers.id)`},
	{name: "currency_conversion_rates"},
	{name: "currencies"},
	{name: "countries", guard: `
		AND NOT EXISTS (SELECT 1 FROM banks WHERE banks.country_id = countries.id)`},
	{name: "house_things"},
	{name: "rooms", guard: `
		AND NOT EXISTS (SELECT 1 FROM house_things WHERE house_things.room_id = rooms.id)`},
	{name: "salaries"},
}

// softDeleteRow marks a row inactive and refreshes its audit timestamp. It is
// idempotent: soft-deleting an already-inactive row succeeds and bumps
// last_updated_date again.
func (s *SQLiteStorage) softDeleteRow(ctx context.Context, table string, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(id, "id"); err != nil {
		return err
	}

	query := fmt.Sprintf("UPDATE %s SET is_active = 0, last_updated_date = ? WHERE id = ?", table)
	result, err := s.db.ExecContext(ctx, query, s.now(), id)
	if err != nil {
		return fmt.Errorf("failed to soft-delete from %s: %w", table, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check soft-delete result: %w", err)
	}
	if affected == 0 {
		return notFound(table, id)
	}

	slog.Debug("soft-deleted row", "table", table, "id", id)
	return nil
}

// hardDeleteRow permanently removes a row.
func (s *SQLiteStorage) hardDeleteRow(ctx context.Context, table string, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(id, "id"); err != nil {
		return err
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE id = ?", table)
	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to hard-delete from %s: %w", table, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check hard-delete result: %w", err)
	}
	if affected == 0 {
		return notFound(table, id)
	}

	slog.Info("hard-deleted row", "table", table, "id", id)
	return nil
}

// PurgeSoftDeleted permanently removes rows that were soft-deleted before the
// given cutoff, across every audited table. Active rows are never touched.
func (s *SQLiteStorage) PurgeSoftDeleted(ctx context.Context, olderThan time.Time) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var total int64
	for _, table := range auditedTables {
		query := fmt.Sprintf(
			"DELETE FROM %s WHERE is_active = 0 AND last_updated_date < ?%s",
			table.name, table.guard)
		result, err := s.db.ExecContext(ctx, query, olderThan)
		if err != nil {
			return total, fmt.Errorf("failed to purge %s: %w", table.name, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return total, fmt.Errorf("failed to check purge result for %s: %w", table.name, err)
		}
		total += affected
	}

	if total > 0 {
		slog.Info("purged soft-deleted rows", "count", total, "older_than", olderThan)
	}
	return total, nil
}
