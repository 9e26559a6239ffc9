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
	"github.com/Hakheem/sixpoint/internal/utils"

	"github.com/jmoiron/sqlx"
)

const userColumns = `id, name, email, phone, password_hash, role, is_active, email_verified, created_at, updated_at`

type UserRepository struct {
	DB *sqlx.DB
}

func (r UserRepository) get(ctx context.Context, where string, arg any) (models.User, error) {
	var u models.User
	err := r.DB.GetContext(ctx, &u, `SELECT `+userColumns+` FROM users WHERE `+where+` LIMIT 1`, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

func (r UserRepository) FindByID(ctx context.Context, id string) (models.User, error) {
	return r.get(ctx, "id = ?", id)
}

func (r UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	return r.get(ctx, "email = ?", strings.ToLower(strings.TrimSpace(email)))
}

// Create fails with ErrDuplicate when the email is taken.
func (r UserRepository) Create(ctx context.Context, u models.User) error {
	_, err := r.DB.NamedExecContext(ctx, `
		INSERT INTO users (id, name, email, phone, password_hash, role, is_active, email_verified, created_at, updated_at)
		VALUES (:id, :name, :email, :phone, :password_hash, :role, :is_active, :email_verified, :created_at, :updated_at)`, u)
	if isDuplicateKey(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// UpdateProfile only touches the fields that are non-nil. A blank phone clears it.
func (r UserRepository) UpdateProfile(ctx context.Context, id string, name, phone *string) error {
	sets := []string{"updated_at = ?"}
	args := []any{utils.NowUTC()}
	if name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *name)
	}
	if phone != nil {
		sets = append(sets, "phone = ?")
		args = append(args, intdb.NullIfEmpty(phone))
	}
	args = append(args, id)
	res, err := r.DB.ExecContext(ctx, `UPDATE users SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return expectAffected(res)
}

func (r UserRepository) List(ctx context.Context, f models.UserFilter, p domain.Pagination) ([]models.User, int, error) {
	where := []string{"1=1"}
	args := []any{}
	if f.Role != "" {
		where = append(where, "role = ?")
		args = append(args, string(f.Role))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + s + "%"
		where = append(where, "(email LIKE ? OR name LIKE ?)")
		args = append(args, like, like)
	}
	clause := strings.Join(where, " AND ")

	var total int
	if err := r.DB.GetContext(ctx, &total, `SELECT COUNT(*) FROM users WHERE `+clause, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	users := []models.User{}
	err := r.DB.SelectContext(ctx, &users,
		`SELECT `+userColumns+` FROM users WHERE `+clause+` ORDER BY created_at DESC LIMIT ? OFFSET ?`,
		append(args, p.Limit, p.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

func (r UserRepository) Recent(ctx context.Context, limit int) ([]models.User, error) {
	users := []models.User{}
	if err := r.DB.SelectContext(ctx, &users,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC LIMIT ?`, limit); err != nil {
		return nil, fmt.Errorf("failed to list recent users: %w", err)
	}
	return users, nil
}

func (r UserRepository) UpdateRole(ctx context.Context, id string, role domain.Role) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE users SET role = ?, updated_at = ? WHERE id = ?`, string(role), utils.NowUTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}
	return expectAffected(res)
}

func (r UserRepository) SetActive(ctx context.Context, id string, active bool) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE users SET is_active = ?, updated_at = ? WHERE id = ?`, active, utils.NowUTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update user status: %w", err)
	}
	return expectAffected(res)
}

func (r UserRepository) SetPassword(ctx context.Context, id, passwordHash string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`, passwordHash, utils.NowUTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return expectAffected(res)
}

func (r UserRepository) MarkEmailVerified(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE users SET email_verified = 1, updated_at = ? WHERE id = ?`, utils.NowUTC(), id)
	if err != nil {
		return fmt.Errorf("failed to mark email verified: %w", err)
	}
	return expectAffected(res)
}

// Delete returns ErrInUse while bookings still reference the user.
func (r UserRepository) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if isForeignKeyViolation(err) {
		return ErrInUse
	}
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return expectAffected(res)
}

func (r UserRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.DB.GetContext(ctx, &n, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}
