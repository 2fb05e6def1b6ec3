package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mstannard/houseledger/internal/model"
)

// CreateSalary inserts a new salary record.
func (s *SQLiteStorage) CreateSalary(ctx context.Context, salary *model.Salary) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if salary == nil {
		return fmt.Errorf("%w: salary", ErrNilParameter)
	}
	if salary.Month.IsZero() {
		return fmt.Errorf("%w: salary.Month", ErrNilParameter)
	}

	salary.StampCreate(s.now())

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO salaries (month, employer, currency_code, gross_amount, net_amount,
			created_date, last_updated_date, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, 1)`,
		salary.Month, salary.Employer, salary.CurrencyCode,
		salary.GrossAmount.String(), salary.NetAmount.String(),
		salary.CreatedDate, salary.LastUpdatedDate,
	)
	if err != nil {
		return fmt.Errorf("failed to insert salary: %w", err)
	}
	salary.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get salary ID: %w", err)
	}
	return nil
}

// GetSalaryByID returns an active salary record by its id.
func (s *SQLiteStorage) GetSalaryByID(ctx context.Context, id int64) (*model.Salary, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, month, employer, currency_code, gross_amount, net_amount,
		       created_date, last_updated_date, is_active
		FROM salaries WHERE id = ? AND is_active = 1`, id)

	salary, err := scanSalary(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("salaries", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query salary: %w", err)
	}
	return salary, nil
}

// ListSalaries returns all active salary records, newest month first.
func (s *SQLiteStorage) ListSalaries(ctx context.Context) ([]model.Salary, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, month, employer, currency_code, gross_amount, net_amount,
		       created_date, last_updated_date, is_active
		FROM salaries WHERE is_active = 1
		ORDER BY month DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query salaries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var salaries []model.Salary
	for rows.Next() {
		salary, scanErr := scanSalary(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan salary: %w", scanErr)
		}
		salaries = append(salaries, *salary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating salaries: %w", err)
	}
	return salaries, nil
}

// UpdateSalary overwrites a salary record's fields.
func (s *SQLiteStorage) UpdateSalary(ctx context.Context, salary *model.Salary) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if salary == nil {
		return fmt.Errorf("%w: salary", ErrNilParameter)
	}
	if err := validateID(salary.ID, "salary.ID"); err != nil {
		return err
	}

	salary.StampUpdate(s.now())

	result, err := s.db.ExecContext(ctx, `
		UPDATE salaries
		SET month = ?, employer = ?, currency_code = ?, gross_amount = ?,
		    net_amount = ?, last_updated_date = ?
		WHERE id = ?`,
		salary.Month, salary.Employer, salary.CurrencyCode,
		salary.GrossAmount.String(), salary.NetAmount.String(),
		salary.LastUpdatedDate, salary.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update salary: %w", err)
	}
	return requireAffected(result, "salaries", salary.ID)
}

// SoftDeleteSalary marks a salary record inactive.
func (s *SQLiteStorage) SoftDeleteSalary(ctx context.Context, id int64) error {
	return s.softDeleteRow(ctx, "salaries", id)
}

// HardDeleteSalary permanently removes a salary row.
func (s *SQLiteStorage) HardDeleteSalary(ctx context.Context, id int64) error {
	return s.hardDeleteRow(ctx, "salaries", id)
}

func scanSalary(row rowScanner) (*model.Salary, error) {
	var (
		salary model.Salary
		month  time.Time
		gross  string
		net    string
	)
	err := row.Scan(
		&salary.ID, &month, &salary.Employer, &salary.CurrencyCode, &gross, &net,
		&salary.CreatedDate, &salary.LastUpdatedDate, &salary.IsActive,
	)
	if err != nil {
		return nil, err
	}

	salary.Month = month
	salary.GrossAmount, err = decimal.NewFromString(gross)
	if err != nil {
		return nil, fmt.Errorf("failed to parse gross amount %q: %w", gross, err)
	}
	salary.NetAmount, err = decimal.NewFromString(net)
	if err != nil {
		return nil, fmt.Errorf("failed to parse net amount %q: %w", net, err)
	}
	return &salary, nil
}
