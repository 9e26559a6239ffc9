package db

import (
	"context"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
)

type tableDDL struct {
	name string
	ddl  string
}

// Order matters: referenced tables first.
var schema = []tableDDL{
	{"users", `
CREATE TABLE IF NOT EXISTS users (
	id CHAR(36) PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	email VARCHAR(255) NOT NULL,
	phone VARCHAR(50) NULL,
	password_hash VARCHAR(255) NOT NULL,
	role VARCHAR(20) NOT NULL DEFAULT 'GUEST',
	is_active TINYINT(1) NOT NULL DEFAULT 1,
	email_verified TINYINT(1) NOT NULL DEFAULT 0,
	created_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	updated_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3) ON UPDATE CURRENT_TIMESTAMP(3),
	UNIQUE KEY uniq_users_email (email)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},
	{"room_types", `
CREATE TABLE IF NOT EXISTS room_types (
	id CHAR(36) PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	description TEXT NULL,
	created_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},
	{"rooms", `
CREATE TABLE IF NOT EXISTS rooms (
	id CHAR(36) PRIMARY KEY,
	title VARCHAR(255) NOT NULL,
	description TEXT NULL,
	room_number VARCHAR(50) NULL,
	capacity INT NOT NULL,
	price_per_night_cents BIGINT NOT NULL,
	orientation VARCHAR(20) NOT NULL DEFAULT 'LANDSCAPE',
	allow_prepaid TINYINT(1) NOT NULL DEFAULT 1,
	allow_pay_on_arrival TINYINT(1) NOT NULL DEFAULT 1,
	type_id CHAR(36) NULL,
	created_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	updated_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3) ON UPDATE CURRENT_TIMESTAMP(3),
	KEY idx_rooms_type (type_id),
	KEY idx_rooms_price (price_per_night_cents),
	CONSTRAINT fk_rooms_type FOREIGN KEY (type_id) REFERENCES room_types (id) ON DELETE SET NULL
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},
	{"room_images", `
CREATE TABLE IF NOT EXISTS room_images (
	id CHAR(36) PRIMARY KEY,
	room_id CHAR(36) NOT NULL,
	url VARCHAR(1024) NOT NULL,
	sort_order INT NOT NULL DEFAULT 0,
	KEY idx_room_images_room (room_id),
	CONSTRAINT fk_room_images_room FOREIGN KEY (room_id) REFERENCES rooms (id) ON DELETE CASCADE
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},
	{"amenities", `
CREATE TABLE IF NOT EXISTS amenities (
	id CHAR(36) PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	description TEXT NULL,
	icon_name VARCHAR(100) NULL,
	created_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},
	{"room_amenities", `
CREATE TABLE IF NOT EXISTS room_amenities (
	room_id CHAR(36) NOT NULL,
	amenity_id CHAR(36) NOT NULL,
	PRIMARY KEY (room_id, amenity_id),
	CONSTRAINT fk_room_amenities_room FOREIGN KEY (room_id) REFERENCES rooms (id) ON DELETE CASCADE,
	CONSTRAINT fk_room_amenities_amenity FOREIGN KEY (amenity_id) REFERENCES amenities (id) ON DELETE CASCADE
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},
	{"extra_services", `
CREATE TABLE IF NOT EXISTS extra_services (
	id CHAR(36) PRIMARY KEY,
	title VARCHAR(255) NOT NULL,
	description TEXT NULL,
	image_url VARCHAR(1024) NULL,
	price_cents BIGINT NOT NULL DEFAULT 0,
	created_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	updated_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3) ON UPDATE CURRENT_TIMESTAMP(3)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},
	{"room_extra_services", `
CREATE TABLE IF NOT EXISTS room_extra_services (
	room_id CHAR(36) NOT NULL,
	extra_service_id CHAR(36) NOT NULL,
	PRIMARY KEY (room_id, extra_service_id),
	CONSTRAINT fk_room_extras_room FOREIGN KEY (room_id) REFERENCES rooms (id) ON DELETE CASCADE,
	CONSTRAINT fk_room_extras_extra FOREIGN KEY (extra_service_id) REFERENCES extra_services (id) ON DELETE CASCADE
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},
	{"bookings", `
CREATE TABLE IF NOT EXISTS bookings (
	id CHAR(36) PRIMARY KEY,
	user_id CHAR(36) NOT NULL,
	status VARCHAR(20) NOT NULL DEFAULT 'PENDING',
	check_in DATETIME(3) NOT NULL,
	check_out DATETIME(3) NOT NULL,
	subtotal_cents BIGINT NOT NULL DEFAULT 0,
	tax_rate VARCHAR(16) NOT NULL DEFAULT '',
	tax_amount_cents BIGINT NOT NULL DEFAULT 0,
	total_amount_cents BIGINT NOT NULL DEFAULT 0,
	payment_method VARCHAR(20) NOT NULL DEFAULT 'NONE',
	payment_reference VARCHAR(255) NULL,
	created_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	updated_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3) ON UPDATE CURRENT_TIMESTAMP(3),
	KEY idx_bookings_user (user_id),
	KEY idx_bookings_status_dates (status, check_in, check_out),
	CONSTRAINT fk_bookings_user FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE RESTRICT
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},
	{"booking_rooms", `
CREATE TABLE IF NOT EXISTS booking_rooms (
	booking_id CHAR(36) NOT NULL,
	room_id CHAR(36) NOT NULL,
	title VARCHAR(255) NOT NULL DEFAULT '',
	price_per_night_cents BIGINT NOT NULL DEFAULT 0,
	created_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	PRIMARY KEY (booking_id, room_id),
	KEY idx_booking_rooms_room (room_id),
	CONSTRAINT fk_booking_rooms_booking FOREIGN KEY (booking_id) REFERENCES bookings (id) ON DELETE CASCADE,
	CONSTRAINT fk_booking_rooms_room FOREIGN KEY (room_id) REFERENCES rooms (id) ON DELETE RESTRICT
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},
	{"booking_extra_services", `
CREATE TABLE IF NOT EXISTS booking_extra_services (
	booking_id CHAR(36) NOT NULL,
	extra_service_id CHAR(36) NOT NULL,
	title VARCHAR(255) NOT NULL DEFAULT '',
	price_cents BIGINT NOT NULL,
	PRIMARY KEY (booking_id, extra_service_id),
	CONSTRAINT fk_booking_extras_booking FOREIGN KEY (booking_id) REFERENCES bookings (id) ON DELETE CASCADE,
	CONSTRAINT fk_booking_extras_extra FOREIGN KEY (extra_service_id) REFERENCES extra_services (id) ON DELETE RESTRICT
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},
	{"reviews", `
CREATE TABLE IF NOT EXISTS reviews (
	id CHAR(36) PRIMARY KEY,
	rating TINYINT NOT NULL,
	comment TEXT NULL,
	hidden TINYINT(1) NOT NULL DEFAULT 0,
	user_id CHAR(36) NOT NULL,
	room_id CHAR(36) NOT NULL,
	booking_id CHAR(36) NOT NULL,
	created_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	UNIQUE KEY uniq_reviews_booking (booking_id),
	KEY idx_reviews_room (room_id, hidden),
	CONSTRAINT fk_reviews_user FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE,
	CONSTRAINT fk_reviews_room FOREIGN KEY (room_id) REFERENCES rooms (id) ON DELETE CASCADE,
	CONSTRAINT fk_reviews_booking FOREIGN KEY (booking_id) REFERENCES bookings (id) ON DELETE CASCADE
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},
	{"site_configs", `
CREATE TABLE IF NOT EXISTS site_configs (
	id CHAR(36) PRIMARY KEY,
	logo_url VARCHAR(1024) NULL,
	hero_image_url VARCHAR(1024) NULL,
	hero_main_heading VARCHAR(255) NULL,
	hero_highlighted_text VARCHAR(255) NULL,
	hero_description TEXT NULL,
	phone1 VARCHAR(50) NULL,
	phone2 VARCHAR(50) NULL,
	location VARCHAR(255) NULL,
	facebook VARCHAR(1024) NULL,
	instagram VARCHAR(1024) NULL,
	tiktok VARCHAR(1024) NULL,
	youtube VARCHAR(1024) NULL,
	twitter VARCHAR(1024) NULL,
	created_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},
	{"verifications", `
CREATE TABLE IF NOT EXISTS verifications (
	id CHAR(36) PRIMARY KEY,
	user_id CHAR(36) NOT NULL,
	purpose VARCHAR(20) NOT NULL,
	token_hash CHAR(64) NOT NULL,
	expires_at DATETIME(3) NOT NULL,
	created_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3),
	UNIQUE KEY uniq_verifications_token (token_hash),
	KEY idx_verifications_user (user_id, purpose),
	CONSTRAINT fk_verifications_user FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},
	{"visit_places", `
CREATE TABLE IF NOT EXISTS visit_places (
	id CHAR(36) PRIMARY KEY,
	title VARCHAR(255) NOT NULL,
	description TEXT NULL,
	image_url VARCHAR(1024) NOT NULL,
	created_at DATETIME(3) NOT NULL DEFAULT CURRENT_TIMESTAMP(3)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`},
}

type columnDDL struct {
	table  string
	column string
	ddl    string
}

// Columns added after the first release. Tables created from the DDL above already
// have them; older databases get them through ALTER TABLE.
var columns = []columnDDL{
	{"bookings", "subtotal_cents", `ALTER TABLE bookings ADD COLUMN subtotal_cents BIGINT NOT NULL DEFAULT 0`},
	{"bookings", "tax_rate", `ALTER TABLE bookings ADD COLUMN tax_rate VARCHAR(16) NOT NULL DEFAULT ''`},
	{"bookings", "tax_amount_cents", `ALTER TABLE bookings ADD COLUMN tax_amount_cents BIGINT NOT NULL DEFAULT 0`},
	{"booking_rooms", "title", `ALTER TABLE booking_rooms ADD COLUMN title VARCHAR(255) NOT NULL DEFAULT ''`},
	{"booking_rooms", "price_per_night_cents", `ALTER TABLE booking_rooms ADD COLUMN price_per_night_cents BIGINT NOT NULL DEFAULT 0`},
	{"booking_extra_services", "title", `ALTER TABLE booking_extra_services ADD COLUMN title VARCHAR(255) NOT NULL DEFAULT ''`},
}

// EnsureSchema creates any missing table, then adds missing columns to tables
// that predate them. Existing data is left untouched.
func EnsureSchema(ctx context.Context, conn *sqlx.DB) error {
	created := map[string]bool{}
	for _, t := range schema {
		if HasTable(ctx, conn, t.name) {
			continue
		}
		if _, err := conn.ExecContext(ctx, t.ddl); err != nil {
			return fmt.Errorf("create table %s: %w", t.name, err)
		}
		created[t.name] = true
		log.Printf("[DB] created table %s", t.name)
	}
	for _, c := range columns {
		if created[c.table] || HasColumn(ctx, conn, c.table, c.column) {
			continue
		}
		if _, err := conn.ExecContext(ctx, c.ddl); err != nil {
			return fmt.Errorf("add column %s.%s: %w", c.table, c.column, err)
		}
		log.Printf("[DB] added column %s.%s", c.table, c.column)
	}
	return nil
}
