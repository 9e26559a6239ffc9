package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	intdb "github.com/Hakheem/sixpoint/internal/db"
	"github.com/Hakheem/sixpoint/internal/domain"
	"github.com/Hakheem/sixpoint/internal/domain/models"

	"github.com/jmoiron/sqlx"
)

const roomColumns = `r.id, r.title, r.description, r.room_number, r.capacity, r.price_per_night_cents,
	r.orientation, r.allow_prepaid, r.allow_pay_on_arrival, r.type_id, r.created_at, r.updated_at`

var roomSortColumns = map[string]string{
	"createdAt":     "r.created_at",
	"pricePerNight": "r.price_per_night_cents",
	"capacity":      "r.capacity",
	"title":         "r.title",
}

type RoomRepository struct {
	DB *sqlx.DB
}

func (r RoomRepository) FindByID(ctx context.Context, id string) (models.Room, error) {
	var room models.Room
	err := r.DB.GetContext(ctx, &room, `SELECT `+roomColumns+` FROM rooms r WHERE r.id = ? LIMIT 1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Room{}, ErrNotFound
	}
	if err != nil {
		return models.Room{}, fmt.Errorf("failed to get room %s: %w", id, err)
	}
	return room, nil
}

// FindMany returns each existing room once, in no particular order.
func (r RoomRepository) FindMany(ctx context.Context, ids []string) ([]models.Room, error) {
	rooms := []models.Room{}
	if len(ids) == 0 {
		return rooms, nil
	}
	query, args, err := intdb.In(r.DB, `SELECT `+roomColumns+` FROM rooms r WHERE r.id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build rooms query: %w", err)
	}
	if err := r.DB.SelectContext(ctx, &rooms, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query rooms: %w", err)
	}
	return rooms, nil
}

func roomFilterClause(f models.RoomFilter) (string, []any) {
	where := []string{"1=1"}
	args := []any{}
	if f.MinPrice != nil {
		where = append(where, "r.price_per_night_cents >= ?")
		args = append(args, int64(*f.MinPrice))
	}
	if f.MaxPrice != nil {
		where = append(where, "r.price_per_night_cents <= ?")
		args = append(args, int64(*f.MaxPrice))
	}
	if f.Capacity > 0 {
		where = append(where, "r.capacity >= ?")
		args = append(args, f.Capacity)
	}
	if f.TypeID != "" {
		where = append(where, "r.type_id = ?")
		args = append(args, f.TypeID)
	}
	return strings.Join(where, " AND "), args
}

// List applies the public filters; unknown sort keys fall back to newest first.
func (r RoomRepository) List(ctx context.Context, f models.RoomFilter, p domain.Pagination) ([]models.Room, int, error) {
	where, args := roomFilterClause(f)

	var total int
	if err := r.DB.GetContext(ctx, &total, `SELECT COUNT(*) FROM rooms r WHERE `+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count rooms: %w", err)
	}

	col, ok := roomSortColumns[f.SortBy]
	if !ok {
		col = "r.created_at"
	}
	dir := "DESC"
	if strings.EqualFold(f.SortOrder, "asc") {
		dir = "ASC"
	}

	rooms := []models.Room{}
	query := `SELECT ` + roomColumns + ` FROM rooms r WHERE ` + where +
		` ORDER BY ` + col + ` ` + dir + `, r.id LIMIT ? OFFSET ?`
	if err := r.DB.SelectContext(ctx, &rooms, query, append(args, p.Limit, p.Offset())...); err != nil {
		return nil, 0, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, total, nil
}

func (r RoomRepository) Featured(ctx context.Context, limit int) ([]models.Room, error) {
	rooms := []models.Room{}
	err := r.DB.SelectContext(ctx, &rooms,
		`SELECT `+roomColumns+` FROM rooms r ORDER BY r.price_per_night_cents DESC, r.id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list featured rooms: %w", err)
	}
	return rooms, nil
}

func (r RoomRepository) Similar(ctx context.Context, typeID, excludeID string, limit int) ([]models.Room, error) {
	rooms := []models.Room{}
	err := r.DB.SelectContext(ctx, &rooms,
		`SELECT `+roomColumns+` FROM rooms r WHERE r.type_id = ? AND r.id <> ? ORDER BY r.created_at DESC LIMIT ?`,
		typeID, excludeID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list similar rooms: %w", err)
	}
	return rooms, nil
}

// Images groups images by room id.
func (r RoomRepository) Images(ctx context.Context, roomIDs []string) (map[string][]models.RoomImage, error) {
	out := map[string][]models.RoomImage{}
	if len(roomIDs) == 0 {
		return out, nil
	}
	query, args, err := intdb.In(r.DB,
		`SELECT id, room_id, url, sort_order FROM room_images WHERE room_id IN (?) ORDER BY sort_order, id`, roomIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to build images query: %w", err)
	}
	var images []models.RoomImage
	if err := r.DB.SelectContext(ctx, &images, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query room images: %w", err)
	}
	for _, img := range images {
		out[img.RoomID] = append(out[img.RoomID], img)
	}
	return out, nil
}

func (r RoomRepository) Amenities(ctx context.Context, roomID string) ([]models.Amenity, error) {
	amenities := []models.Amenity{}
	err := r.DB.SelectContext(ctx, &amenities, `
		SELECT a.id, a.name, a.description, a.icon_name, a.created_at
		FROM amenities a
		JOIN room_amenities ra ON ra.amenity_id = a.id
		WHERE ra.room_id = ?
		ORDER BY a.name`, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to query room amenities: %w", err)
	}
	return amenities, nil
}

func (r RoomRepository) Create(ctx context.Context, room models.Room) error {
	_, err := r.DB.NamedExecContext(ctx, `
		INSERT INTO rooms (id, title, description, room_number, capacity, price_per_night_cents,
			orientation, allow_prepaid, allow_pay_on_arrival, type_id, created_at, updated_at)
		VALUES (:id, :title, :description, :room_number, :capacity, :price_per_night_cents,
			:orientation, :allow_prepaid, :allow_pay_on_arrival, :type_id, :created_at, :updated_at)`, room)
	if err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}
	return nil
}

func (r RoomRepository) Update(ctx context.Context, room models.Room) error {
	res, err := r.DB.NamedExecContext(ctx, `
		UPDATE rooms SET
			title = :title,
			description = :description,
			room_number = :room_number,
			capacity = :capacity,
			price_per_night_cents = :price_per_night_cents,
			orientation = :orientation,
			allow_prepaid = :allow_prepaid,
			allow_pay_on_arrival = :allow_pay_on_arrival,
			type_id = :type_id,
			updated_at = :updated_at
		WHERE id = :id`, room)
	if err != nil {
		return fmt.Errorf("failed to update room: %w", err)
	}
	return expectAffected(res)
}

// Delete returns ErrInUse while bookings still reference the room.
func (r RoomRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM rooms WHERE id = ?`, id)
	if isForeignKeyViolation(err) {
		return ErrInUse
	}
	if err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}
	return expectAffected(res)
}

func (r RoomRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.DB.GetContext(ctx, &n, `SELECT COUNT(*) FROM rooms`); err != nil {
		return 0, fmt.Errorf("failed to count rooms: %w", err)
	}
	return n, nil
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
