package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mstannard/houseledger/internal/model"
)

// CreateAccount inserts a new account with audit fields stamped.
func (s *SQLiteStorage) CreateAccount(ctx context.Context, account *model.Account) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if account == nil {
		return fmt.Errorf("%w: account", ErrNilParameter)
	}
	if err := validateString(account.Name, "account.Name"); err != nil {
		return err
	}

	account.StampCreate(s.now())

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (name, number, bank_id, currency_code, description,
			created_date, last_updated_date, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, 1)`,
		account.Name, account.Number, nullableID(account.BankID),
		account.CurrencyCode, account.Description,
		account.CreatedDate, account.LastUpdatedDate,
	)
	if err != nil {
		return fmt.Errorf("failed to insert account: %w", err)
	}

	account.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get account ID: %w", err)
	}

	slog.Info("created account", "id", account.ID, "name", account.Name)
	return nil
}

// GetAccountByID returns an active account by its id.
func (s *SQLiteStorage) GetAccountByID(ctx context.Context, id int64) (*model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id, "id"); err != nil {
		return nil, err
	}

	var (
		account model.Account
		bankID  sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, number, bank_id, currency_code, description,
		       created_date, last_updated_date, is_active
		FROM accounts
		WHERE id = ? AND is_active = 1`, id).Scan(
		&account.ID, &account.Name, &account.Number, &bankID,
		&account.CurrencyCode, &account.Description,
		&account.CreatedDate, &account.LastUpdatedDate, &account.IsActive,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("accounts", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query account: %w", err)
	}
	account.BankID = bankID.Int64
	return &account, nil
}

// ListAccounts returns all active accounts ordered by name.
func (s *SQLiteStorage) ListAccounts(ctx context.Context) ([]model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, number, bank_id, currency_code, description,
		       created_date, last_updated_date, is_active
		FROM accounts
		WHERE is_active = 1
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var accounts []model.Account
	for rows.Next() {
		var (
			account model.Account
			bankID  sql.NullInt64
		)
		if err := rows.Scan(
			&account.ID, &account.Name, &account.Number, &bankID,
			&account.CurrencyCode, &account.Description,
			&account.CreatedDate, &account.LastUpdatedDate, &account.IsActive,
		); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		account.BankID = bankID.Int64
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}
	return accounts, nil
}

// UpdateAccount overwrites an existing account's fields and refreshes its
// audit timestamp.
func (s *SQLiteStorage) UpdateAccount(ctx context.Context, account *model.Account) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if account == nil {
		return fmt.Errorf("%w: account", ErrNilParameter)
	}
	if err := validateID(account.ID, "account.ID"); err != nil {
		return err
	}

	account.StampUpdate(s.now())

	result, err := s.db.ExecContext(ctx, `
		UPDATE accounts
		SET name = ?, number = ?, bank_id = ?, currency_code = ?,
		    description = ?, last_updated_date = ?
		WHERE id = ?`,
		account.Name, account.Number, nullableID(account.BankID),
		account.CurrencyCode, account.Description,
		account.LastUpdatedDate, account.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	return requireAffected(result, "accounts", account.ID)
}

// SoftDeleteAccount marks an account inactive.
func (s *SQLiteStorage) SoftDeleteAccount(ctx context.Context, id int64) error {
	return s.softDeleteRow(ctx, "accounts", id)
}

// HardDeleteAccount permanently removes an account row.
func (s *SQLiteStorage) HardDeleteAccount(ctx context.Context, id int64) error {
	return s.hardDeleteRow(ctx, "accounts", id)
}

// AccountExists reports whether an active account with the given id exists.
func (s *SQLiteStorage) AccountExists(ctx context.Context, id int64) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if id <= 0 {
		return false, nil
	}

	var exists int
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM accounts WHERE id = ? AND is_active = 1)`,
		id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check account existence: %w", err)
	}
	return exists == 1, nil
}

// GetAccountName returns the display name of an active account.
func (s *SQLiteStorage) GetAccountName(ctx context.Context, id int64) (string, error) {
	if err := validateContext(ctx); err != nil {
		return "", err
	}
	if err := validateID(id, "id"); err != nil {
		return "", err
	}

	var name string
	err := s.db.QueryRowContext(ctx,
		`SELECT name FROM accounts WHERE id = ? AND is_active = 1`, id).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", notFound("accounts", id)
	}
	if err != nil {
		return "", fmt.Errorf("failed to query account name: %w", err)
	}
	return name, nil
}

// CreateBalance inserts a new balance snapshot.
func (s *SQLiteStorage) CreateBalance(ctx context.Context, balance *model.Balance) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if balance == nil {
		return fmt.Errorf("%w: balance", ErrNilParameter)
	}
	if err := validateID(balance.AccountID, "balance.AccountID"); err != nil {
		return err
	}

	balance.StampCreate(s.now())

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO balances (account_id, amount, as_of_date,
			created_date, last_updated_date, is_active)
		VALUES (?, ?, ?, ?, ?, 1)`,
		balance.AccountID, balance.Amount.String(), balance.AsOfDate,
		balance.CreatedDate, balance.LastUpdatedDate,
	)
	if err != nil {
		return fmt.Errorf("failed to insert balance: %w", err)
	}

	balance.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get balance ID: %w", err)
	}
	return nil
}

// GetBalanceByID returns an active balance snapshot by its id.
func (s *SQLiteStorage) GetBalanceByID(ctx context.Context, id int64) (*model.Balance, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, account_id, amount, as_of_date,
		       created_date, last_updated_date, is_active
		FROM balances
		WHERE id = ? AND is_active = 1`, id)

	balance, err := scanBalance(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("balances", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query balance: %w", err)
	}
	return balance, nil
}

// ListBalances returns active balance snapshots, newest first. A positive
// accountID restricts results to that account.
func (s *SQLiteStorage) ListBalances(ctx context.Context, accountID int64) ([]model.Balance, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, account_id, amount, as_of_date,
		       created_date, last_updated_date, is_active
		FROM balances
		WHERE is_active = 1`
	args := []any{}
	if accountID > 0 {
		query += ` AND account_id = ?`
		args = append(args, accountID)
	}
	query += ` ORDER BY as_of_date DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query balances: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var balances []model.Balance
	for rows.Next() {
		balance, scanErr := scanBalance(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan balance: %w", scanErr)
		}
		balances = append(balances, *balance)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating balances: %w", err)
	}
	return balances, nil
}

// UpdateBalance overwrites a balance snapshot's fields.
func (s *SQLiteStorage) UpdateBalance(ctx context.Context, balance *model.Balance) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if balance == nil {
		return fmt.Errorf("%w: balance", ErrNilParameter)
	}
	if err := validateID(balance.ID, "balance.ID"); err != nil {
		return err
	}

	balance.StampUpdate(s.now())

	result, err := s.db.ExecContext(ctx, `
		UPDATE balances
		SET account_id = ?, amount = ?, as_of_date = ?, last_updated_date = ?
		WHERE id = ?`,
		balance.AccountID, balance.Amount.String(), balance.AsOfDate,
		balance.LastUpdatedDate, balance.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}
	return requireAffected(result, "balances", balance.ID)
}

// SoftDeleteBalance marks a balance snapshot inactive.
func (s *SQLiteStorage) SoftDeleteBalance(ctx context.Context, id int64) error {
	return s.softDeleteRow(ctx, "balances", id)
}

// HardDeleteBalance permanently removes a balance row.
func (s *SQLiteStorage) HardDeleteBalance(ctx context.Context, id int64) error {
	return s.hardDeleteRow(ctx, "balances", id)
}

// CreateCard inserts a new card.
func (s *SQLiteStorage) CreateCard(ctx context.Context, card *model.Card) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if card == nil {
		return fmt.Errorf("%w: card", ErrNilParameter)
	}
	if err := validateID(card.AccountID, "card.AccountID"); err != nil {
		return err
	}
	if err := validateString(card.Name, "card.Name"); err != nil {
		return err
	}

	card.StampCreate(s.now())

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO cards (account_id, name, expiry_date,
			created_date, last_updated_date, is_active)
		VALUES (?, ?, ?, ?, ?, 1)`,
		card.AccountID, card.Name, card.ExpiryDate,
		card.CreatedDate, card.LastUpdatedDate,
	)
	if err != nil {
		return fmt.Errorf("failed to insert card: %w", err)
	}

	card.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get card ID: %w", err)
	}
	return nil
}

// GetCardByID returns an active card by its id.
func (s *SQLiteStorage) GetCardByID(ctx context.Context, id int64) (*model.Card, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id, "id"); err != nil {
		return nil, err
	}

	var card model.Card
	err := s.db.QueryRowContext(ctx, `
		SELECT id, account_id, name, expiry_date,
		       created_date, last_updated_date, is_active
		FROM cards
		WHERE id = ? AND is_active = 1`, id).Scan(
		&card.ID, &card.AccountID, &card.Name, &card.ExpiryDate,
		&card.CreatedDate, &card.LastUpdatedDate, &card.IsActive,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("cards", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query card: %w", err)
	}
	return &card, nil
}

// ListCards returns all active cards ordered by name.
func (s *SQLiteStorage) ListCards(ctx context.Context) ([]model.Card, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, account_id, name, expiry_date,
		       created_date, last_updated_date, is_active
		FROM cards
		WHERE is_active = 1
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query cards: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var cards []model.Card
	for rows.Next() {
		var card model.Card
		if err := rows.Scan(
			&card.ID, &card.AccountID, &card.Name, &card.ExpiryDate,
			&card.CreatedDate, &card.LastUpdatedDate, &card.IsActive,
		); err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cards: %w", err)
	}
	return cards, nil
}

// UpdateCard overwrites a card's fields.
func (s *SQLiteStorage) UpdateCard(ctx context.Context, card *model.Card) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if card == nil {
		return fmt.Errorf("%w: card", ErrNilParameter)
	}
	if err := validateID(card.ID, "card.ID"); err != nil {
		return err
	}

	card.StampUpdate(s.now())

	result, err := s.db.ExecContext(ctx, `
		UPDATE cards
		SET account_id = ?, name = ?, expiry_date = ?, last_updated_date = ?
		WHERE id = ?`,
		card.AccountID, card.Name, card.ExpiryDate,
		card.LastUpdatedDate, card.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update card: %w", err)
	}
	return requireAffected(result, "cards", card.ID)
}

// SoftDeleteCard marks a card inactive.
func (s *SQLiteStorage) SoftDeleteCard(ctx context.Context, id int64) error {
	return s.softDeleteRow(ctx, "cards", id)
}

// HardDeleteCard permanently removes a card row.
func (s *SQLiteStorage) HardDeleteCard(ctx context.Context, id int64) error {
	return s.hardDeleteRow(ctx, "cards", id)
}

func scanBalance(row rowScanner) (*model.Balance, error) {
	var (
		balance  model.Balance
		amount   string
		asOfDate time.Time
	)
	err := row.Scan(
		&balance.ID, &balance.AccountID, &amount, &asOfDate,
		&balance.CreatedDate, &balance.LastUpdatedDate, &balance.IsActive,
	)
	if err != nil {
		return nil, err
	}

	balance.AsOfDate = asOfDate
	balance.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("failed to parse amount %q: %w", amount, err)
	}
	return &balance, nil
}

// nullableID maps a zero id to NULL for optional foreign keys.
func nullableID(id int64) any {
	if id <= 0 {
		return nil
	}
	return id
}

// requireAffected translates a zero-row update into common.ErrNotFound.
func requireAffected(result sql.Result, table string, id int64) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return notFound(table, id)
	}
	return nil
}
