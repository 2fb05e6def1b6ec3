package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mstannard/houseledger/internal/model"
)

// CreateRoom inserts a new room.
func (s *SQLiteStorage) CreateRoom(ctx context.Context, room *model.Room) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if room == nil {
		return fmt.Errorf("%w: room", ErrNilParameter)
	}
	if err := validateString(room.Name, "room.Name"); err != nil {
		return err
	}

	room.StampCreate(s.now())

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO rooms (name, floor, created_date, last_updated_date, is_active)
		VALUES (?, ?, ?, ?, 1)`,
		room.Name, room.Floor, room.CreatedDate, room.LastUpdatedDate,
	)
	if err != nil {
		return fmt.Errorf("failed to insert room: %w", err)
	}
	room.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get room ID: %w", err)
	}
	return nil
}

// GetRoomByID returns an active room by its id.
func (s *SQLiteStorage) GetRoomByID(ctx context.Context, id int64) (*model.Room, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id, "id"); err != nil {
		return nil, err
	}

	var room model.Room
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, floor, created_date, last_updated_date, is_active
		FROM rooms WHERE id = ? AND is_active = 1`, id).Scan(
		&room.ID, &room.Name, &room.Floor,
		&room.CreatedDate, &room.LastUpdatedDate, &room.IsActive,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("rooms", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query room: %w", err)
	}
	return &room, nil
}

// ListRooms returns all active rooms ordered by name.
func (s *SQLiteStorage) ListRooms(ctx context.Context) ([]model.Room, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, floor, created_date, last_updated_date, is_active
		FROM rooms WHERE is_active = 1 ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query rooms: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var rooms []model.Room
	for rows.Next() {
		var room model.Room
		if err := rows.Scan(
			&room.ID, &room.Name, &room.Floor,
			&room.CreatedDate, &room.LastUpdatedDate, &room.IsActive,
		); err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rooms: %w", err)
	}
	return rooms, nil
}

// UpdateRoom overwrites a room's fields.
func (s *SQLiteStorage) UpdateRoom(ctx context.Context, room *model.Room) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if room == nil {
		return fmt.Errorf("%w: room", ErrNilParameter)
	}
	if err := validateID(room.ID, "room.ID"); err != nil {
		return err
	}

	room.StampUpdate(s.now())

	result, err := s.db.ExecContext(ctx, `
		UPDATE rooms SET name = ?, floor = ?, last_updated_date = ? WHERE id = ?`,
		room.Name, room.Floor, room.LastUpdatedDate, room.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update room: %w", err)
	}
	return requireAffected(result, "rooms", room.ID)
}

// SoftDeleteRoom marks a room inactive.
func (s *SQLiteStorage) SoftDeleteRoom(ctx context.Context, id int64) error {
	return s.softDeleteRow(ctx, "rooms", id)
}

// HardDeleteRoom permanently removes a room row.
func (s *SQLiteStorage) HardDeleteRoom(ctx context.Context, id int64) error {
	return s.hardDeleteRow(ctx, "rooms", id)
}

// CreateHouseThing inserts a new house thing, starting a fresh history chain
// when the caller has not set a HistoryID.
func (s *SQLiteStorage) CreateHouseThing(ctx context.Context, thing *model.HouseThing) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if thing == nil {
		return fmt.Errorf("%w: thing", ErrNilParameter)
	}
	if err := validateString(thing.Name, "thing.Name"); err != nil {
		return err
	}
	if err := validateID(thing.RoomID, "thing.RoomID"); err != nil {
		return err
	}

	if thing.HistoryID == uuid.Nil {
		thing.HistoryID = uuid.New()
	}
	thing.StampCreate(s.now())

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO house_things (room_id, name, brand, purchase_date, history_id,
			created_date, last_updated_date, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, 1)`,
		thing.RoomID, thing.Name, thing.Brand, thing.PurchaseDate,
		thing.HistoryID.String(), thing.CreatedDate, thing.LastUpdatedDate,
	)
	if err != nil {
		return fmt.Errorf("failed to insert house thing: %w", err)
	}
	thing.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get house thing ID: %w", err)
	}

	slog.Info("created house thing",
		"id", thing.ID,
		"name", thing.Name,
		"history_id", thing.HistoryID)
	return nil
}

// GetHouseThingByID returns an active house thing by its id.
func (s *SQLiteStorage) GetHouseThingByID(ctx context.Context, id int64) (*model.HouseThing, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, room_id, name, brand, purchase_date, history_id,
		       created_date, last_updated_date, is_active
		FROM house_things WHERE id = ? AND is_active = 1`, id)

	thing, err := scanHouseThing(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("house_things", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query house thing: %w", err)
	}
	return thing, nil
}

// ListHouseThings returns all active house things ordered by name.
func (s *SQLiteStorage) ListHouseThings(ctx context.Context) ([]model.HouseThing, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.queryHouseThings(ctx, `
		SELECT id, room_id, name, brand, purchase_date, history_id,
		       created_date, last_updated_date, is_active
		FROM house_things WHERE is_active = 1 ORDER BY name`)
}

// ListHouseThingHistory returns every row in a replacement chain, oldest
// first, including soft-deleted predecessors.
func (s *SQLiteStorage) ListHouseThingHistory(ctx context.Context, historyID uuid.UUID) ([]model.HouseThing, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if historyID == uuid.Nil {
		return nil, fmt.Errorf("%w: historyID", ErrNilParameter)
	}
	return s.queryHouseThings(ctx, `
		SELECT id, room_id, name, brand, purchase_date, history_id,
		       created_date, last_updated_date, is_active
		FROM house_things WHERE history_id = ? ORDER BY created_date, id`,
		historyID.String())
}

// UpdateHouseThing overwrites a house thing's fields. HistoryID is never
// updated: replacement chains only grow through Renew.
func (s *SQLiteStorage) UpdateHouseThing(ctx context.Context, thing *model.HouseThing) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if thing == nil {
		return fmt.Errorf("%w: thing", ErrNilParameter)
	}
	if err := validateID(thing.ID, "thing.ID"); err != nil {
		return err
	}

	thing.StampUpdate(s.now())

	result, err := s.db.ExecContext(ctx, `
		UPDATE house_things
		SET room_id = ?, name = ?, brand = ?, purchase_date = ?, last_updated_date = ?
		WHERE id = ?`,
		thing.RoomID, thing.Name, thing.Brand, thing.PurchaseDate,
		thing.LastUpdatedDate, thing.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update house thing: %w", err)
	}
	return requireAffected(result, "house_things", thing.ID)
}

// RenewHouseThing replaces a house thing: the existing row is soft-deleted
// and the replacement is inserted carrying the same history id, so callers
// can track replacement chains. Returns common.ErrNotFound when the id does
// not resolve to an active row.
func (s *SQLiteStorage) RenewHouseThing(ctx context.Context, id int64, replacement *model.HouseThing) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(id, "id"); err != nil {
		return err
	}
	if replacement == nil {
		return fmt.Errorf("%w: replacement", ErrNilParameter)
	}
	if err := validateString(replacement.Name, "replacement.Name"); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx, `
		SELECT id, room_id, name, brand, purchase_date, history_id,
		       created_date, last_updated_date, is_active
		FROM house_things WHERE id = ? AND is_active = 1`, id)

	existing, err := scanHouseThing(row)
	if errors.Is(err, sql.ErrNoRows) {
		return notFound("house_things", id)
	}
	if err != nil {
		return fmt.Errorf("failed to query house thing: %w", err)
	}

	now := s.now()
	if _, err := tx.ExecContext(ctx, `
		UPDATE house_things SET is_active = 0, last_updated_date = ? WHERE id = ?`,
		now, id); err != nil {
		return fmt.Errorf("failed to retire house thing: %w", err)
	}

	// The replacement carries the chain forward
	replacement.HistoryID = existing.HistoryID
	if replacement.RoomID == 0 {
		replacement.RoomID = existing.RoomID
	}
	replacement.StampCreate(now)

	result, err := tx.ExecContext(ctx, `
		INSERT INTO house_things (room_id, name, brand, purchase_date, history_id,
			created_date, last_updated_date, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, 1)`,
		replacement.RoomID, replacement.Name, replacement.Brand,
		replacement.PurchaseDate, replacement.HistoryID.String(),
		replacement.CreatedDate, replacement.LastUpdatedDate,
	)
	if err != nil {
		return fmt.Errorf("failed to insert replacement: %w", err)
	}
	replacement.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get replacement ID: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit renew: %w", err)
	}

	slog.Info("renewed house thing",
		"old_id", id,
		"new_id", replacement.ID,
		"history_id", replacement.HistoryID)
	return nil
}

// SoftDeleteHouseThing marks a house thing inactive.
func (s *SQLiteStorage) SoftDeleteHouseThing(ctx context.Context, id int64) error {
	return s.softDeleteRow(ctx, "house_things", id)
}

// HardDeleteHouseThing permanently removes a house thing row.
func (s *SQLiteStorage) HardDeleteHouseThing(ctx context.Context, id int64) error {
	return s.hardDeleteRow(ctx, "house_things", id)
}

func (s *SQLiteStorage) queryHouseThings(ctx context.Context, query string, args ...any) ([]model.HouseThing, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query house things: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var things []model.HouseThing
	for rows.Next() {
		thing, scanErr := scanHouseThing(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan house thing: %w", scanErr)
		}
		things = append(things, *thing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating house things: %w", err)
	}
	return things, nil
}

func scanHouseThing(row rowScanner) (*model.HouseThing, error) {
	var (
		thing     model.HouseThing
		brand     sql.NullString
		historyID string
	)
	err := row.Scan(
		&thing.ID, &thing.RoomID, &thing.Name, &brand, &thing.PurchaseDate,
		&historyID, &thing.CreatedDate, &thing.LastUpdatedDate, &thing.IsActive,
	)
	if err != nil {
		return nil, err
	}

	thing.Brand = brand.String
	thing.HistoryID, err = uuid.Parse(historyID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse history id %q: %w", historyID, err)
	}
	return &thing, nil
}
