package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	intdb "github.com/Hakheem/sixpoint/internal/db"
	"github.com/Hakheem/sixpoint/internal/domain"
	"github.com/Hakheem/sixpoint/internal/domain/models"
	"github.com/Hakheem/sixpoint/internal/utils"

	"github.com/jmoiron/sqlx"
)

const bookingColumns = `b.id, b.user_id, b.status, b.check_in, b.check_out, b.subtotal_cents,
	b.tax_rate, b.tax_amount_cents, b.total_amount_cents, b.payment_method, b.payment_reference, b.created_at, b.updated_at`

type BookingRepository struct {
	DB *sqlx.DB
}

func statusStrings(statuses []models.BookingStatus) []string {
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, string(s))
	}
	return out
}

// FindOverlapping returns bookings on roomID whose [check_in, check_out) intersects
// [checkIn, checkOut) and whose status is one of statuses.
func (r BookingRepository) FindOverlapping(ctx context.Context, roomID string, checkIn, checkOut time.Time, statuses []models.BookingStatus) ([]models.Booking, error) {
	bookings := []models.Booking{}
	if len(statuses) == 0 {
		return bookings, nil
	}
	query, args, err := intdb.In(r.DB, `
		SELECT DISTINCT `+bookingColumns+`
		FROM bookings b
		JOIN booking_rooms br ON br.booking_id = b.id
		WHERE br.room_id = ?
		  AND b.status IN (?)
		  AND b.check_in < ?
		  AND b.check_out > ?`,
		roomID, statusStrings(statuses), checkOut, checkIn)
	if err != nil {
		return nil, fmt.Errorf("failed to build overlap query: %w", err)
	}
	if err := r.DB.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query overlapping bookings: %w", err)
	}
	return bookings, nil
}

func (r BookingRepository) GetByID(ctx context.Context, id string) (models.Booking, error) {
	var b models.Booking
	err := r.DB.GetContext(ctx, &b, `SELECT `+bookingColumns+` FROM bookings b WHERE b.id = ? LIMIT 1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Booking{}, ErrNotFound
	}
	if err != nil {
		return models.Booking{}, fmt.Errorf("failed to get booking %s: %w", id, err)
	}
	list := []models.Booking{b}
	if err := r.loadRelations(ctx, list); err != nil {
		return models.Booking{}, err
	}
	return list[0], nil
}

func (r BookingRepository) ListByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	bookings := []models.Booking{}
	err := r.DB.SelectContext(ctx, &bookings,
		`SELECT `+bookingColumns+` FROM bookings b WHERE b.user_id = ? ORDER BY b.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user bookings: %w", err)
	}
	return bookings, r.loadRelations(ctx, bookings)
}

// List is the admin view; an empty status means all.
func (r BookingRepository) List(ctx context.Context, status models.BookingStatus, p domain.Pagination) ([]models.Booking, int, error) {
	where := "1=1"
	args := []any{}
	if status != "" {
		where = "b.status = ?"
		args = append(args, string(status))
	}

	var total int
	if err := r.DB.GetContext(ctx, &total, `SELECT COUNT(*) FROM bookings b WHERE `+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	bookings := []models.Booking{}
	err := r.DB.SelectContext(ctx, &bookings,
		`SELECT `+bookingColumns+` FROM bookings b WHERE `+where+` ORDER BY b.created_at DESC LIMIT ? OFFSET ?`,
		append(args, p.Limit, p.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, total, r.loadRelations(ctx, bookings)
}

func (r BookingRepository) Recent(ctx context.Context, limit int) ([]models.Booking, error) {
	bookings := []models.Booking{}
	err := r.DB.SelectContext(ctx, &bookings,
		`SELECT `+bookingColumns+` FROM bookings b ORDER BY b.created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent bookings: %w", err)
	}
	return bookings, r.loadRelations(ctx, bookings)
}

func (r BookingRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.DB.GetContext(ctx, &n, `SELECT COUNT(*) FROM bookings`); err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return n, nil
}

// Revenue sums total_amount_cents over the given statuses.
func (r BookingRepository) Revenue(ctx context.Context, statuses []models.BookingStatus) (domain.Money, error) {
	query, args, err := intdb.In(r.DB,
		`SELECT COALESCE(SUM(total_amount_cents), 0) FROM bookings WHERE status IN (?)`, statusStrings(statuses))
	if err != nil {
		return 0, fmt.Errorf("failed to build revenue query: %w", err)
	}
	var sum int64
	if err := r.DB.GetContext(ctx, &sum, query, args...); err != nil {
		return 0, fmt.Errorf("failed to sum revenue: %w", err)
	}
	return domain.Money(sum), nil
}

// SnapshotLines returns the room and extra lines as priced when b was reserved.
// Room lines carry b's night count.
func (r BookingRepository) SnapshotLines(ctx context.Context, b models.Booking) (models.PriceLines, error) {
	lines := models.PriceLines{Rooms: []models.RoomPriceLine{}, ExtraServices: []models.ExtraServiceLine{}}

	type roomRow struct {
		ID            string `db:"room_id"`
		Title         string `db:"title"`
		PricePerNight int64  `db:"price_per_night_cents"`
	}
	var rooms []roomRow
	err := r.DB.SelectContext(ctx, &rooms, `
		SELECT room_id, title, price_per_night_cents
		FROM booking_rooms
		WHERE booking_id = ?
		ORDER BY created_at, room_id`, b.ID)
	if err != nil {
		return lines, fmt.Errorf("failed to query booking room lines: %w", err)
	}
	nights := utils.Nights(b.CheckIn, b.CheckOut)
	for _, row := range rooms {
		price := domain.Money(row.PricePerNight)
		lines.Rooms = append(lines.Rooms, models.RoomPriceLine{
			ID:            row.ID,
			Title:         row.Title,
			PricePerNight: price,
			Nights:        nights,
			Total:         price.Times(nights),
		})
	}

	type extraRow struct {
		ID    string `db:"extra_service_id"`
		Title string `db:"title"`
		Price int64  `db:"price_cents"`
	}
	var extras []extraRow
	err = r.DB.SelectContext(ctx, &extras, `
		SELECT extra_service_id, title, price_cents
		FROM booking_extra_services
		WHERE booking_id = ?
		ORDER BY extra_service_id`, b.ID)
	if err != nil {
		return lines, fmt.Errorf("failed to query booking extra lines: %w", err)
	}
	for _, row := range extras {
		lines.ExtraServices = append(lines.ExtraServices, models.ExtraServiceLine{ID: row.ID, Title: row.Title, Price: domain.Money(row.Price)})
	}
	return lines, nil
}

// CountActiveForRoom counts bookings on roomID that are not yet cancelled or checked out.
func (r BookingRepository) CountActiveForRoom(ctx context.Context, roomID string) (int, error) {
	query, args, err := intdb.In(r.DB, `
		SELECT COUNT(DISTINCT b.id)
		FROM bookings b
		JOIN booking_rooms br ON br.booking_id = b.id
		WHERE br.room_id = ?
		  AND b.status IN (?)`,
		roomID, statusStrings(models.ActiveStatuses))
	if err != nil {
		return 0, fmt.Errorf("failed to build active bookings query: %w", err)
	}
	var n int
	if err := r.DB.GetContext(ctx, &n, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count active bookings for room: %w", err)
	}
	return n, nil
}

// CountActiveForUser counts userID's bookings that are not yet cancelled or checked out.
func (r BookingRepository) CountActiveForUser(ctx context.Context, userID string) (int, error) {
	query, args, err := intdb.In(r.DB,
		`SELECT COUNT(*) FROM bookings WHERE user_id = ? AND status IN (?)`,
		userID, statusStrings(models.ActiveStatuses))
	if err != nil {
		return 0, fmt.Errorf("failed to build active bookings query: %w", err)
	}
	var n int
	if err := r.DB.GetContext(ctx, &n, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count active bookings for user: %w", err)
	}
	return n, nil
}

func (r BookingRepository) loadRelations(ctx context.Context, bookings []models.Booking) error {
	if len(bookings) == 0 {
		return nil
	}
	ids := make([]string, 0, len(bookings))
	idx := make(map[string]int, len(bookings))
	for i, b := range bookings {
		ids = append(ids, b.ID)
		idx[b.ID] = i
		bookings[i].RoomIDs = []string{}
		bookings[i].ExtraServiceIDs = []string{}
	}

	type link struct {
		BookingID string `db:"booking_id"`
		OtherID   string `db:"other_id"`
	}

	query, args, err := intdb.In(r.DB,
		`SELECT booking_id, room_id AS other_id FROM booking_rooms WHERE booking_id IN (?) ORDER BY created_at, room_id`, ids)
	if err != nil {
		return fmt.Errorf("failed to build booking rooms query: %w", err)
	}
	var rooms []link
	if err := r.DB.SelectContext(ctx, &rooms, query, args...); err != nil {
		return fmt.Errorf("failed to query booking rooms: %w", err)
	}
	for _, l := range rooms {
		i := idx[l.BookingID]
		bookings[i].RoomIDs = append(bookings[i].RoomIDs, l.OtherID)
	}

	query, args, err = intdb.In(r.DB,
		`SELECT booking_id, extra_service_id AS other_id FROM booking_extra_services WHERE booking_id IN (?) ORDER BY extra_service_id`, ids)
	if err != nil {
		return fmt.Errorf("failed to build booking extras query: %w", err)
	}
	var extras []link
	if err := r.DB.SelectContext(ctx, &extras, query, args...); err != nil {
		return fmt.Errorf("failed to query booking extras: %w", err)
	}
	for _, l := range extras {
		i := idx[l.BookingID]
		bookings[i].ExtraServiceIDs = append(bookings[i].ExtraServiceIDs, l.OtherID)
	}
	return nil
}

// lockAndCountConflicts locks the room rows for the rest of tx and counts blocking
// bookings (other than excludeID) overlapping [checkIn, checkOut) on any of them.
func lockAndCountConflicts(ctx context.Context, tx *sqlx.Tx, roomIDs []string, checkIn, checkOut time.Time, excludeID string) (int, error) {
	query, args, err := intdb.In(tx, `SELECT id FROM rooms WHERE id IN (?) ORDER BY id FOR UPDATE`, roomIDs)
	if err != nil {
		return 0, fmt.Errorf("failed to build room lock query: %w", err)
	}
	var locked []string
	if err := tx.SelectContext(ctx, &locked, query, args...); err != nil {
		return 0, fmt.Errorf("failed to lock rooms: %w", err)
	}
	if len(locked) != len(roomIDs) {
		return 0, ErrRoomMissing
	}

	query, args, err = intdb.In(tx, `
		SELECT COUNT(DISTINCT b.id)
		FROM bookings b
		JOIN booking_rooms br ON br.booking_id = b.id
		WHERE br.room_id IN (?)
		  AND b.status IN (?)
		  AND b.check_in < ?
		  AND b.check_out > ?
		  AND b.id <> ?`,
		roomIDs, statusStrings(models.BlockingStatuses), checkOut, checkIn, excludeID)
	if err != nil {
		return 0, fmt.Errorf("failed to build conflict query: %w", err)
	}
	var n int
	if err := tx.GetContext(ctx, &n, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count conflicts: %w", err)
	}
	return n, nil
}

func rollback(tx *sqlx.Tx, cause error) {
	if rbErr := tx.Rollback(); rbErr != nil {
		log.Printf("[BOOKING] rollback failed: %v, original error: %v", rbErr, cause)
	}
}

// Reserve inserts b with its priced rooms and extras after re-checking, under row
// locks, that no blocking booking overlaps. Titles and prices are stored with the
// booking so later catalogue edits do not change what was sold. b.RoomIDs must be
// distinct and match rooms.
func (r BookingRepository) Reserve(ctx context.Context, b models.Booking, rooms []models.RoomPriceLine, extras []models.ExtraServiceLine) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	n, err := lockAndCountConflicts(ctx, tx, b.RoomIDs, b.CheckIn, b.CheckOut, b.ID)
	if err != nil {
		rollback(tx, err)
		return err
	}
	if n > 0 {
		rollback(tx, ErrRoomUnavailable)
		return ErrRoomUnavailable
	}

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO bookings (id, user_id, status, check_in, check_out, subtotal_cents, tax_rate,
			tax_amount_cents, total_amount_cents, payment_method, payment_reference, created_at, updated_at)
		VALUES (:id, :user_id, :status, :check_in, :check_out, :subtotal_cents, :tax_rate,
			:tax_amount_cents, :total_amount_cents, :payment_method, :payment_reference, :created_at, :updated_at)`, b)
	if err != nil {
		rollback(tx, err)
		return fmt.Errorf("failed to insert booking: %w", err)
	}

	for _, line := range rooms {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO booking_rooms (booking_id, room_id, title, price_per_night_cents, created_at) VALUES (?, ?, ?, ?, ?)`,
			b.ID, line.ID, line.Title, int64(line.PricePerNight), b.CreatedAt); err != nil {
			rollback(tx, err)
			return fmt.Errorf("failed to insert booking room: %w", err)
		}
	}

	for _, e := range extras {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO booking_extra_services (booking_id, extra_service_id, title, price_cents) VALUES (?, ?, ?, ?)`,
			b.ID, e.ID, e.Title, int64(e.Price)); err != nil {
			rollback(tx, err)
			return fmt.Errorf("failed to insert booking extra service: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// UpdateStatus moves b to status. Moving into a blocking status re-checks overlaps
// under row locks so two confirmations cannot both win the same nights.
func (r BookingRepository) UpdateStatus(ctx context.Context, b models.Booking, status models.BookingStatus) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if status.Blocks() && !b.Status.Blocks() && len(b.RoomIDs) > 0 {
		n, err := lockAndCountConflicts(ctx, tx, b.RoomIDs, b.CheckIn, b.CheckOut, b.ID)
		if err != nil {
			rollback(tx, err)
			return err
		}
		if n > 0 {
			rollback(tx, ErrRoomUnavailable)
			return ErrRoomUnavailable
		}
	}

	// guard against a concurrent transition from the status we read
	res, err := tx.ExecContext(ctx,
		`UPDATE bookings SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
		string(status), utils.NowUTC(), b.ID, string(b.Status))
	if err != nil {
		rollback(tx, err)
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	if err := expectAffected(res); err != nil {
		rollback(tx, err)
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
