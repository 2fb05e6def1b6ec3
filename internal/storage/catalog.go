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

// Reference-data ("ancillary") entities share one uniform CRUD shape:
// creates stamp audit fields, lookups see active rows only, updates refresh
// last_updated_date and report common.ErrNotFound for missing ids.

// CreateBank inserts a new bank.
func (s *SQLiteStorage) CreateBank(ctx context.Context, bank *model.Bank) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if bank == nil {
		return fmt.Errorf("%w: bank", ErrNilParameter)
	}
	if err := validateString(bank.Name, "bank.Name"); err != nil {
		return err
	}

	bank.StampCreate(s.now())

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO banks (name, country_id, created_date, last_updated_date, is_active)
		VALUES (?, ?, ?, ?, 1)`,
		bank.Name, nullableID(bank.CountryID), bank.CreatedDate, bank.LastUpdatedDate,
	)
	if err != nil {
		return fmt.Errorf("failed to insert bank: %w", err)
	}
	bank.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get bank ID: %w", err)
	}
	return nil
}

// GetBankByID returns an active bank by its id.
func (s *SQLiteStorage) GetBankByID(ctx context.Context, id int64) (*model.Bank, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id, "id"); err != nil {
		return nil, err
	}

	var (
		bank      model.Bank
		countryID sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, country_id, created_date, last_updated_date, is_active
		FROM banks WHERE id = ? AND is_active = 1`, id).Scan(
		&bank.ID, &bank.Name, &countryID,
		&bank.CreatedDate, &bank.LastUpdatedDate, &bank.IsActive,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("banks", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query bank: %w", err)
	}
	bank.CountryID = countryID.Int64
	return &bank, nil
}

// ListBanks returns all active banks ordered by name.
func (s *SQLiteStorage) ListBanks(ctx context.Context) ([]model.Bank, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, country_id, created_date, last_updated_date, is_active
		FROM banks WHERE is_active = 1 ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query banks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var banks []model.Bank
	for rows.Next() {
		var (
			bank      model.Bank
			countryID sql.NullInt64
		)
		if err := rows.Scan(
			&bank.ID, &bank.Name, &countryID,
			&bank.CreatedDate, &bank.LastUpdatedDate, &bank.IsActive,
		); err != nil {
			return nil, fmt.Errorf("failed to scan bank: %w", err)
		}
		bank.CountryID = countryID.Int64
		banks = append(banks, bank)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating banks: %w", err)
	}
	return banks, nil
}

// UpdateBank overwrites a bank's fields.
func (s *SQLiteStorage) UpdateBank(ctx context.Context, bank *model.Bank) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if bank == nil {
		return fmt.Errorf("%w: bank", ErrNilParameter)
	}
	if err := validateID(bank.ID, "bank.ID"); err != nil {
		return err
	}

	bank.StampUpdate(s.now())

	result, err := s.db.ExecContext(ctx, `
		UPDATE banks SET name = ?, country_id = ?, last_updated_date = ? WHERE id = ?`,
		bank.Name, nullableID(bank.CountryID), bank.LastUpdatedDate, bank.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update bank: %w", err)
	}
	return requireAffected(result, "banks", bank.ID)
}

// SoftDeleteBank marks a bank inactive.
func (s *SQLiteStorage) SoftDeleteBank(ctx context.Context, id int64) error {
	return s.softDeleteRow(ctx, "banks", id)
}

// HardDeleteBank permanently removes a bank row.
func (s *SQLiteStorage) HardDeleteBank(ctx context.Context, id int64) error {
	return s.hardDeleteRow(ctx, "banks", id)
}

// CreateCountry inserts a new country.
func (s *SQLiteStorage) CreateCountry(ctx context.Context, country *model.Country) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if country == nil {
		return fmt.Errorf("%w: country", ErrNilParameter)
	}
	if err := validateString(country.Name, "country.Name"); err != nil {
		return err
	}

	country.StampCreate(s.now())

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO countries (name, code, created_date, last_updated_date, is_active)
		VALUES (?, ?, ?, ?, 1)`,
		country.Name, country.Code, country.CreatedDate, country.LastUpdatedDate,
	)
	if err != nil {
		return fmt.Errorf("failed to insert country: %w", err)
	}
	country.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get country ID: %w", err)
	}
	return nil
}

// GetCountryByID returns an active country by its id.
func (s *SQLiteStorage) GetCountryByID(ctx context.Context, id int64) (*model.Country, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id, "id"); err != nil {
		return nil, err
	}

	var country model.Country
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, code, created_date, last_updated_date, is_active
		FROM countries WHERE id = ? AND is_active = 1`, id).Scan(
		&country.ID, &country.Name, &country.Code,
		&country.CreatedDate, &country.LastUpdatedDate, &country.IsActive,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("countries", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query country: %w", err)
	}
	return &country, nil
}

// ListCountries returns all active countries ordered by name.
func (s *SQLiteStorage) ListCountries(ctx context.Context) ([]model.Country, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, code, created_date, last_updated_date, is_active
		FROM countries WHERE is_active = 1 ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query countries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var countries []model.Country
	for rows.Next() {
		var country model.Country
		if err := rows.Scan(
			&country.ID, &country.Name, &country.Code,
			&country.CreatedDate, &country.LastUpdatedDate, &country.IsActive,
		); err != nil {
			return nil, fmt.Errorf("failed to scan country: %w", err)
		}
		countries = append(countries, country)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating countries: %w", err)
	}
	return countries, nil
}

// UpdateCountry overwrites a country's fields.
func (s *SQLiteStorage) UpdateCountry(ctx context.Context, country *model.Country) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if country == nil {
		return fmt.Errorf("%w: country", ErrNilParameter)
	}
	if err := validateID(country.ID, "country.ID"); err != nil {
		return err
	}

	country.StampUpdate(s.now())

	result, err := s.db.ExecContext(ctx, `
		UPDATE countries SET name = ?, code = ?, last_updated_date = ? WHERE id = ?`,
		country.Name, country.Code, country.LastUpdatedDate, country.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update country: %w", err)
	}
	return requireAffected(result, "countries", country.ID)
}

// SoftDeleteCountry marks a country inactive.
func (s *SQLiteStorage) SoftDeleteCountry(ctx context.Context, id int64) error {
	return s.softDeleteRow(ctx, "countries", id)
}

// HardDeleteCountry permanently removes a country row.
func (s *SQLiteStorage) HardDeleteCountry(ctx context.Context, id int64) error {
	return s.hardDeleteRow(ctx, "countries", id)
}

// CreateCurrency inserts a new currency.
func (s *SQLiteStorage) CreateCurrency(ctx context.Context, currency *model.Currency) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if currency == nil {
		return fmt.Errorf("%w: currency", ErrNilParameter)
	}
	if err := validateString(currency.Code, "currency.Code"); err != nil {
		return err
	}

	currency.StampCreate(s.now())

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO currencies (code, name, symbol, created_date, last_updated_date, is_active)
		VALUES (?, ?, ?, ?, ?, 1)`,
		currency.Code, currency.Name, currency.Symbol,
		currency.CreatedDate, currency.LastUpdatedDate,
	)
	if err != nil {
		return fmt.Errorf("failed to insert currency: %w", err)
	}
	currency.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get currency ID: %w", err)
	}
	return nil
}

// GetCurrencyByID returns an active currency by its id.
func (s *SQLiteStorage) GetCurrencyByID(ctx context.Context, id int64) (*model.Currency, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id, "id"); err != nil {
		return nil, err
	}

	var currency model.Currency
	err := s.db.QueryRowContext(ctx, `
		SELECT id, code, name, symbol, created_date, last_updated_date, is_active
		FROM currencies WHERE id = ? AND is_active = 1`, id).Scan(
		&currency.ID, &currency.Code, &currency.Name, &currency.Symbol,
		&currency.CreatedDate, &currency.LastUpdatedDate, &currency.IsActive,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("currencies", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query currency: %w", err)
	}
	return &currency, nil
}

// ListCurrencies returns all active currencies ordered by code.
func (s *SQLiteStorage) ListCurrencies(ctx context.Context) ([]model.Currency, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, code, name, symbol, created_date, last_updated_date, is_active
		FROM currencies WHERE is_active = 1 ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("failed to query currencies: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var currencies []model.Currency
	for rows.Next() {
		var currency model.Currency
		if err := rows.Scan(
			&currency.ID, &currency.Code, &currency.Name, &currency.Symbol,
			&currency.CreatedDate, &currency.LastUpdatedDate, &currency.IsActive,
		); err != nil {
			return nil, fmt.Errorf("failed to scan currency: %w", err)
		}
		currencies = append(currencies, currency)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating currencies: %w", err)
	}
	return currencies, nil
}

// UpdateCurrency overwrites a currency's fields.
func (s *SQLiteStorage) UpdateCurrency(ctx context.Context, currency *model.Currency) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if currency == nil {
		return fmt.Errorf("%w: currency", ErrNilParameter)
	}
	if err := validateID(currency.ID, "currency.ID"); err != nil {
		return err
	}

	currency.StampUpdate(s.now())

	result, err := s.db.ExecContext(ctx, `
		UPDATE currencies SET code = ?, name = ?, symbol = ?, last_updated_date = ?
		WHERE id = ?`,
		currency.Code, currency.Name, currency.Symbol,
		currency.LastUpdatedDate, currency.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update currency: %w", err)
	}
	return requireAffected(result, "currencies", currency.ID)
}

// SoftDeleteCurrency marks a currency inactive.
func (s *SQLiteStorage) SoftDeleteCurrency(ctx context.Context, id int64) error {
	return s.softDeleteRow(ctx, "currencies", id)
}

// HardDeleteCurrency permanently removes a currency row.
func (s *SQLiteStorage) HardDeleteCurrency(ctx context.Context, id int64) error {
	return s.hardDeleteRow(ctx, "currencies", id)
}

// CreateConversionRate inserts a new currency conversion rate.
func (s *SQLiteStorage) CreateConversionRate(ctx context.Context, rate *model.CurrencyConversionRate) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if rate == nil {
		return fmt.Errorf("%w: rate", ErrNilParameter)
	}
	if err := validateString(rate.FromCode, "rate.FromCode"); err != nil {
		return err
	}
	if err := validateString(rate.ToCode, "rate.ToCode"); err != nil {
		return err
	}

	rate.StampCreate(s.now())

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO currency_conversion_rates (from_code, to_code, rate, rate_date,
			created_date, last_updated_date, is_active)
		VALUES (?, ?, ?, ?, ?, ?, 1)`,
		rate.FromCode, rate.ToCode, rate.Rate.String(), rate.RateDate,
		rate.CreatedDate, rate.LastUpdatedDate,
	)
	if err != nil {
		return fmt.Errorf("failed to insert conversion rate: %w", err)
	}
	rate.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get conversion rate ID: %w", err)
	}
	return nil
}

// GetConversionRateByID returns an active conversion rate by its id.
func (s *SQLiteStorage) GetConversionRateByID(ctx context.Context, id int64) (*model.CurrencyConversionRate, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, from_code, to_code, rate, rate_date,
		       created_date, last_updated_date, is_active
		FROM currency_conversion_rates WHERE id = ? AND is_active = 1`, id)

	rate, err := scanConversionRate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("currency_conversion_rates", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query conversion rate: %w", err)
	}
	return rate, nil
}

// ListConversionRates returns active conversion rates, newest first.
func (s *SQLiteStorage) ListConversionRates(ctx context.Context) ([]model.CurrencyConversionRate, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, from_code, to_code, rate, rate_date,
		       created_date, last_updated_date, is_active
		FROM currency_conversion_rates WHERE is_active = 1
		ORDER BY rate_date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversion rates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var rates []model.CurrencyConversionRate
	for rows.Next() {
		rate, scanErr := scanConversionRate(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan conversion rate: %w", scanErr)
		}
		rates = append(rates, *rate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating conversion rates: %w", err)
	}
	return rates, nil
}

// UpdateConversionRate overwrites a conversion rate's fields.
func (s *SQLiteStorage) UpdateConversionRate(ctx context.Context, rate *model.CurrencyConversionRate) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if rate == nil {
		return fmt.Errorf("%w: rate", ErrNilParameter)
	}
	if err := validateID(rate.ID, "rate.ID"); err != nil {
		return err
	}

	rate.StampUpdate(s.now())

	result, err := s.db.ExecContext(ctx, `
		UPDATE currency_conversion_rates
		SET from_code = ?, to_code = ?, rate = ?, rate_date = ?, last_updated_date = ?
		WHERE id = ?`,
		rate.FromCode, rate.ToCode, rate.Rate.String(), rate.RateDate,
		rate.LastUpdatedDate, rate.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update conversion rate: %w", err)
	}
	return requireAffected(result, "currency_conversion_rates", rate.ID)
}

// SoftDeleteConversionRate marks a conversion rate inactive.
func (s *SQLiteStorage) SoftDeleteConversionRate(ctx context.Context, id int64) error {
	return s.softDeleteRow(ctx, "currency_conversion_rates", id)
}

// HardDeleteConversionRate permanently removes a conversion rate row.
func (s *SQLiteStorage) HardDeleteConversionRate(ctx context.Context, id int64) error {
	return s.hardDeleteRow(ctx, "currency_conversion_rates", id)
}

// CreateSupplier inserts a new supplier.
func (s *SQLiteStorage) CreateSupplier(ctx context.Context, supplier *model.Supplier) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if supplier == nil {
		return fmt.Errorf("%w: supplier", ErrNilParameter)
	}
	if err := validateString(supplier.Name, "supplier.Name"); err != nil {
		return err
	}

	supplier.StampCreate(s.now())

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO suppliers (name, website, created_date, last_updated_date, is_active)
		VALUES (?, ?, ?, ?, 1)`,
		supplier.Name, supplier.Website, supplier.CreatedDate, supplier.LastUpdatedDate,
	)
	if err != nil {
		return fmt.Errorf("failed to insert supplier: %w", err)
	}
	supplier.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get supplier ID: %w", err)
	}
	return nil
}

// GetSupplierByID returns an active supplier by its id.
func (s *SQLiteStorage) GetSupplierByID(ctx context.Context, id int64) (*model.Supplier, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id, "id"); err != nil {
		return nil, err
	}

	var supplier model.Supplier
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, website, created_date, last_updated_date, is_active
		FROM suppliers WHERE id = ? AND is_active = 1`, id).Scan(
		&supplier.ID, &supplier.Name, &supplier.Website,
		&supplier.CreatedDate, &supplier.LastUpdatedDate, &supplier.IsActive,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("suppliers", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query supplier: %w", err)
	}
	return &supplier, nil
}

// ListSuppliers returns all active suppliers ordered by name.
func (s *SQLiteStorage) ListSuppliers(ctx context.Context) ([]model.Supplier, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, website, created_date, last_updated_date, is_active
		FROM suppliers WHERE is_active = 1 ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query suppliers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var suppliers []model.Supplier
	for rows.Next() {
		var supplier model.Supplier
		if err := rows.Scan(
			&supplier.ID, &supplier.Name, &supplier.Website,
			&supplier.CreatedDate, &supplier.LastUpdatedDate, &supplier.IsActive,
		); err != nil {
			return nil, fmt.Errorf("failed to scan supplier: %w", err)
		}
		suppliers = append(suppliers, supplier)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating suppliers: %w", err)
	}
	return suppliers, nil
}

// UpdateSupplier overwrites a supplier's fields.
func (s *SQLiteStorage) UpdateSupplier(ctx context.Context, supplier *model.Supplier) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if supplier == nil {
		return fmt.Errorf("%w: supplier", ErrNilParameter)
	}
	if err := validateID(supplier.ID, "supplier.ID"); err != nil {
		return err
	}

	supplier.StampUpdate(s.now())

	result, err := s.db.ExecContext(ctx, `
		UPDATE suppliers SET name = ?, website = ?, last_updated_date = ? WHERE id = ?`,
		supplier.Name, supplier.Website, supplier.LastUpdatedDate, supplier.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update supplier: %w", err)
	}
	return requireAffected(result, "suppliers", supplier.ID)
}

// SoftDeleteSupplier marks a supplier inactive.
func (s *SQLiteStorage) SoftDeleteSupplier(ctx context.Context, id int64) error {
	return s.softDeleteRow(ctx, "suppliers", id)
}

// HardDeleteSupplier permanently removes a supplier row.
func (s *SQLiteStorage) HardDeleteSupplier(ctx context.Context, id int64) error {
	return s.hardDeleteRow(ctx, "suppliers", id)
}

// CreateServiceUser inserts a new service user.
func (s *SQLiteStorage) CreateServiceUser(ctx context.Context, user *model.ServiceUser) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("%w: user", ErrNilParameter)
	}
	if err := validateString(user.Name, "user.Name"); err != nil {
		return err
	}
	if err := validateID(user.SupplierID, "user.SupplierID"); err != nil {
		return err
	}

	user.StampCreate(s.now())

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO service_users (name, supplier_id, reference,
			created_date, last_updated_date, is_active)
		VALUES (?, ?, ?, ?, ?, 1)`,
		user.Name, user.SupplierID, user.Reference,
		user.CreatedDate, user.LastUpdatedDate,
	)
	if err != nil {
		return fmt.Errorf("failed to insert service user: %w", err)
	}
	user.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get service user ID: %w", err)
	}
	return nil
}

// GetServiceUserByID returns an active service user by its id.
func (s *SQLiteStorage) GetServiceUserByID(ctx context.Context, id int64) (*model.ServiceUser, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id, "id"); err != nil {
		return nil, err
	}

	var user model.ServiceUser
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, supplier_id, reference,
		       created_date, last_updated_date, is_active
		FROM service_users WHERE id = ? AND is_active = 1`, id).Scan(
		&user.ID, &user.Name, &user.SupplierID, &user.Reference,
		&user.CreatedDate, &user.LastUpdatedDate, &user.IsActive,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("service_users", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query service user: %w", err)
	}
	return &user, nil
}

// ListServiceUsers returns all active service users ordered by name.
func (s *SQLiteStorage) ListServiceUsers(ctx context.Context) ([]model.ServiceUser, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, supplier_id, reference,
		       created_date, last_updated_date, is_active
		FROM service_users WHERE is_active = 1 ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query service users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var users []model.ServiceUser
	for rows.Next() {
		var user model.ServiceUser
		if err := rows.Scan(
			&user.ID, &user.Name, &user.SupplierID, &user.Reference,
			&user.CreatedDate, &user.LastUpdatedDate, &user.IsActive,
		); err != nil {
			return nil, fmt.Errorf("failed to scan service user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating service users: %w", err)
	}
	return users, nil
}

// UpdateServiceUser overwrites a service user's fields.
func (s *SQLiteStorage) UpdateServiceUser(ctx context.Context, user *model.ServiceUser) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("%w: user", ErrNilParameter)
	}
	if err := validateID(user.ID, "user.ID"); err != nil {
		return err
	}

	user.StampUpdate(s.now())

	result, err := s.db.ExecContext(ctx, `
		UPDATE service_users
		SET name = ?, supplier_id = ?, reference = ?, last_updated_date = ?
		WHERE id = ?`,
		user.Name, user.SupplierID, user.Reference, user.LastUpdatedDate, user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update service user: %w", err)
	}
	return requireAffected(result, "service_users", user.ID)
}

// SoftDeleteServiceUser marks a service user inactive.
func (s *SQLiteStorage) SoftDeleteServiceUser(ctx context.Context, id int64) error {
	return s.softDeleteRow(ctx, "service_users", id)
}

// HardDeleteServiceUser permanently removes a service user row.
func (s *SQLiteStorage) HardDeleteServiceUser(ctx context.Context, id int64) error {
	return s.hardDeleteRow(ctx, "service_users", id)
}

func scanConversionRate(row rowScanner) (*model.CurrencyConversionRate, error) {
	var (
		rate     model.CurrencyConversionRate
		value    string
		rateDate time.Time
	)
	err := row.Scan(
		&rate.ID, &rate.FromCode, &rate.ToCode, &value, &rateDate,
		&rate.CreatedDate, &rate.LastUpdatedDate, &rate.IsActive,
	)
	if err != nil {
		return nil, err
	}

	rate.RateDate = rateDate
	rate.Rate, err = decimal.NewFromString(value)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rate %q: %w", value, err)
	}
	return &rate, nil
}
