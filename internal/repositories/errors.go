package repositories

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrDuplicate       = errors.New("duplicate record")
	ErrRoomUnavailable = errors.New("room unavailable for selected dates")
	ErrRoomMissing     = errors.New("one or more rooms no longer exist")
	ErrInUse           = errors.New("record still referenced")
)

// isDuplicateKey reports a MySQL unique-constraint violation (1062).
func isDuplicateKey(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == 1062
}

// isForeignKeyViolation reports a delete blocked by a referencing row (1451).
func isForeignKeyViolation(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == 1451
}
