package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shareit/internal/domain"
	"shareit/internal/models"
)

const bookingColumns = `id, item_id, item_name, booker_id, start_time, end_time, status, created_at, updated_at`

func scanBooking(row interface{ Scan(...any) error }) (*models.Booking, error) {
	b := &models.Booking{}
	err := row.Scan(
		&b.ID, &b.ItemID, &b.ItemName, &b.BookerID,
		&b.Start, &b.End, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	query := `INSERT INTO bookings (item_id, item_name, booker_id, start_time, end_time, status, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now().UTC()
	result, err := db.ExecContext(ctx, query,
		booking.ItemID,
		booking.ItemName,
		booking.BookerID,
		booking.Start.UTC(),
		booking.End.UTC(),
		booking.Status,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	booking.ID = id
	booking.CreatedAt = now
	booking.UpdatedAt = now
	return nil
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	booking, err := scanBooking(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundf("booking %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

// DecideBooking flips a WAITING booking to the given terminal status inside a
// single transaction. Approval re-checks the interval against other APPROVED
// bookings of the item so two overlapping WAITING bookings can never both end
// up APPROVED. A lost race on the status guard reports ErrAlreadyDecided.
func (db *DB) DecideBooking(ctx context.Context, id int64, status models.BookingStatus) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var itemID int64
	var start, end time.Time
	var current models.BookingStatus
	row := tx.QueryRowContext(ctx,
		`SELECT item_id, start_time, end_time, status FROM bookings WHERE id = ?`, id)
	if err := row.Scan(&itemID, &start, &end, &current); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFoundf("booking %d", id)
		}
		return fmt.Errorf("failed to read booking in tx: %w", err)
	}

	if current != models.StatusWaiting {
		return domain.ErrAlreadyDecided
	}

	if status == models.StatusApproved {
		var overlapping int
		err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM bookings
             WHERE item_id = ? AND id != ? AND status = ? AND start_time < ? AND ? < end_time`,
			itemID, id, models.StatusApproved, end.UTC(), start.UTC(),
		).Scan(&overlapping)
		if err != nil {
			return fmt.Errorf("failed to check overlap in tx: %w", err)
		}
		if overlapping > 0 {
			return domain.ErrIntervalTaken
		}
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE bookings SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
		status, time.Now().UTC(), id, models.StatusWaiting,
	)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrAlreadyDecided
	}

	return tx.Commit()
}

func (db *DB) GetBookingsByItem(ctx context.Context, itemID int64) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE item_id = ? ORDER BY id ASC`
	return db.queryBookings(ctx, query, itemID)
}

func (db *DB) GetBookingsByItems(ctx context.Context, itemIDs []int64) ([]*models.Booking, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE item_id IN (` +
		placeholders(len(itemIDs)) + `) ORDER BY id ASC`
	args := make([]any, len(itemIDs))
	for i, id := range itemIDs {
		args[i] = id
	}
	return db.queryBookings(ctx, query, args...)
}

func (db *DB) ListBookingsByBooker(ctx context.Context, bookerID int64, filter models.StateFilter, now time.Time, page models.Page) ([]*models.Booking, error) {
	where, order, args := filterClause(filter, now)
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE booker_id = ?` + where + order +
		` LIMIT ? OFFSET ?`
	queryArgs := append([]any{bookerID}, args...)
	queryArgs = append(queryArgs, page.Limit, page.Offset)
	return db.queryBookings(ctx, query, queryArgs...)
}

func (db *DB) ListBookingsByItems(ctx context.Context, itemIDs []int64, filter models.StateFilter, now time.Time, page models.Page) ([]*models.Booking, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	where, order, args := filterClause(filter, now)
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE item_id IN (` +
		placeholders(len(itemIDs)) + `)` + where + order + ` LIMIT ? OFFSET ?`
	queryArgs := make([]any, 0, len(itemIDs)+len(args)+2)
	for _, id := range itemIDs {
		queryArgs = append(queryArgs, id)
	}
	queryArgs = append(queryArgs, args...)
	queryArgs = append(queryArgs, page.Limit, page.Offset)
	return db.queryBookings(ctx, query, queryArgs...)
}

// filterClause translates a state filter into SQL. CURRENT keeps ascending id
// order so in-progress rentals read in request order; everything else is
// newest first.
func filterClause(filter models.StateFilter, now time.Time) (where, order string, args []any) {
	nowUTC := now.UTC()
	order = ` ORDER BY id DESC`
	switch filter {
	case models.FilterCurrent:
		where = ` AND start_time <= ? AND end_time > ?`
		args = []any{nowUTC, nowUTC}
		order = ` ORDER BY id ASC`
	case models.FilterPast:
		where = ` AND end_time < ?`
		args = []any{nowUTC}
	case models.FilterFuture:
		where = ` AND start_time > ?`
		args = []any{nowUTC}
	case models.FilterWaiting:
		where = ` AND status = ?`
		args = []any{models.StatusWaiting}
	case models.FilterRejected:
		where = ` AND status = ?`
		args = []any{models.StatusRejected}
	}
	return where, order, args
}

func (db *DB) HasFinishedBooking(ctx context.Context, itemID, bookerID int64, now time.Time) (bool, error) {
	query := `SELECT COUNT(*) FROM bookings
              WHERE item_id = ? AND booker_id = ? AND end_time < ? AND status != ?`
	var count int
	err := db.QueryRowContext(ctx, query, itemID, bookerID, now.UTC(), models.StatusRejected).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check finished bookings: %w", err)
	}
	return count > 0, nil
}

func (db *DB) queryBookings(ctx context.Context, query string, args ...any) ([]*models.Booking, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}
