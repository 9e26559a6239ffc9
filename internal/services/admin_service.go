package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Hakheem/sixpoint/internal/domain"
	"github.com/Hakheem/sixpoint/internal/domain/models"
	"github.com/Hakheem/sixpoint/internal/repositories"
	"github.com/Hakheem/sixpoint/internal/utils"

	"github.com/google/uuid"
)

const dashboardRecentLimit = 5

// revenueStatuses are the bookings that count as earned or committed money.
var revenueStatuses = []models.BookingStatus{models.StatusConfirmed, models.StatusCheckedIn, models.StatusCheckedOut}

type AdminService struct {
	Users     UserAdminStore
	Rooms     RoomAdminStore
	Bookings  BookingStats
	Catalog   CatalogStore
	RequestID string
}

func (s AdminService) internal(action string, err error) error {
	utils.LogError(s.RequestID, "admin", action, err)
	return domain.Internal("failed to "+action, err)
}

func (s AdminService) DashboardStats(ctx context.Context) (models.DashboardStats, error) {
	var (
		out models.DashboardStats
		err error
	)
	if out.TotalUsers, err = s.Users.Count(ctx); err != nil {
		return out, s.internal("count users", err)
	}
	if out.TotalBookings, err = s.Bookings.Count(ctx); err != nil {
		return out, s.internal("count bookings", err)
	}
	if out.TotalRooms, err = s.Rooms.Count(ctx); err != nil {
		return out, s.internal("count rooms", err)
	}
	if out.TotalRevenue, err = s.Bookings.Revenue(ctx, revenueStatuses); err != nil {
		return out, s.internal("sum revenue", err)
	}
	if out.RecentBookings, err = s.Bookings.Recent(ctx, dashboardRecentLimit); err != nil {
		return out, s.internal("list recent bookings", err)
	}
	users, err := s.Users.Recent(ctx, dashboardRecentLimit)
	if err != nil {
		return out, s.internal("list recent users", err)
	}
	out.RecentUsers = make([]models.PublicUser, 0, len(users))
	for i := range users {
		out.RecentUsers = append(out.RecentUsers, users[i].ToPublic())
	}
	return out, nil
}

func applyRoomInput(room *models.Room, in models.RoomInput) error {
	title := utils.NormalizeSpace(in.Title)
	if title == "" {
		return domain.ValidationError{Field: "title", Msg: "is required"}
	}
	if in.Capacity < 1 {
		return domain.ValidationError{Field: "capacity", Msg: "must be at least 1"}
	}
	if in.PricePerNight < 0 {
		return domain.ValidationError{Field: "pricePerNight", Msg: "must not be negative"}
	}
	room.Title = title
	room.Description = in.Description
	room.RoomNumber = in.RoomNumber
	room.Capacity = in.Capacity
	room.PricePerNight = in.PricePerNight
	room.TypeID = in.TypeID
	if in.Orientation != "" {
		room.Orientation = in.Orientation
	}
	if room.Orientation == "" {
		room.Orientation = models.OrientationLandscape
	}
	if in.AllowPrepaid != nil {
		room.AllowPrepaid = *in.AllowPrepaid
	}
	if in.AllowPayOnArrival != nil {
		room.AllowPayOnArrival = *in.AllowPayOnArrival
	}
	return nil
}

func (s AdminService) CreateRoom(ctx context.Context, in models.RoomInput) (models.Room, error) {
	now := utils.NowUTC()
	room := models.Room{ID: uuid.NewString(), AllowPrepaid: true, AllowPayOnArrival: true, CreatedAt: now, UpdatedAt: now}
	if err := applyRoomInput(&room, in); err != nil {
		return models.Room{}, err
	}
	if err := s.Rooms.Create(ctx, room); err != nil {
		return models.Room{}, s.internal("create room", err)
	}
	utils.LogEvent(s.RequestID, "admin", "create_room", "room_id="+room.ID)
	return room, nil
}

func (s AdminService) UpdateRoom(ctx context.Context, id string, in models.RoomInput) (models.Room, error) {
	room, err := s.Rooms.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return models.Room{}, domain.NotFoundError{Resource: "Room", Err: err}
	}
	if err != nil {
		return models.Room{}, s.internal("load room", err)
	}
	if err := applyRoomInput(&room, in); err != nil {
		return models.Room{}, err
	}
	room.UpdatedAt = utils.NowUTC()
	if err := s.Rooms.Update(ctx, room); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.Room{}, domain.NotFoundError{Resource: "Room", Err: err}
		}
		return models.Room{}, s.internal("update room", err)
	}
	utils.LogEvent(s.RequestID, "admin", "update_room", "room_id="+room.ID)
	return room, nil
}

// DeleteRoom refuses while the room has bookings that are not cancelled or checked
// out. The database still rejects rooms that finished bookings point at.
func (s AdminService) DeleteRoom(ctx context.Context, id string) error {
	active, err := s.Bookings.CountActiveForRoom(ctx, id)
	if err != nil {
		return s.internal("count room bookings", err)
	}
	if active > 0 {
		return domain.ConflictError{Resource: "Room", Msg: fmt.Sprintf("has %d active booking(s)", active)}
	}
	err = s.Rooms.Delete(ctx, id)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return domain.NotFoundError{Resource: "Room", Err: err}
	case errors.Is(err, repositories.ErrInUse):
		return domain.ConflictError{Resource: "Room", Msg: "has booking history", Err: err}
	case err != nil:
		return s.internal("delete room", err)
	}
	utils.LogEvent(s.RequestID, "admin", "delete_room", "room_id="+id)
	return nil
}

// SaveSiteConfig appends a new row; readers always take the newest.
func (s AdminService) SaveSiteConfig(ctx context.Context, cfg models.SiteConfig) (models.SiteConfig, error) {
	now := utils.NowUTC()
	cfg.ID = uuid.NewString()
	cfg.CreatedAt = &now
	if err := s.Catalog.InsertSiteConfig(ctx, cfg); err != nil {
		return models.SiteConfig{}, s.internal("save site config", err)
	}
	utils.LogEvent(s.RequestID, "admin", "site_config", "config_id="+cfg.ID)
	return cfg, nil
}

func (s AdminService) ListUsers(ctx context.Context, f models.UserFilter, p domain.Pagination) ([]models.PublicUser, domain.Pagination, error) {
	if f.Role != "" && !f.Role.Valid() {
		return nil, p, domain.ValidationError{Field: "role", Msg: "unknown role"}
	}
	users, total, err := s.Users.List(ctx, f, p)
	if err != nil {
		return nil, p, s.internal("list users", err)
	}
	out := make([]models.PublicUser, 0, len(users))
	for i := range users {
		out = append(out, users[i].ToPublic())
	}
	return out, p.WithTotal(total), nil
}

func (s AdminService) loadOther(ctx context.Context, actorID, id string) (models.User, error) {
	if actorID == id {
		return models.User{}, domain.ValidationError{Msg: "You cannot change your own account here"}
	}
	u, err := s.Users.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return models.User{}, domain.NotFoundError{Resource: "User", Err: err}
	}
	if err != nil {
		return models.User{}, s.internal("load user", err)
	}
	return u, nil
}

func (s AdminService) UpdateUserRole(ctx context.Context, actorID, id string, role domain.Role) (models.PublicUser, error) {
	if !role.Valid() {
		return models.PublicUser{}, domain.ValidationError{Field: "role", Msg: "unknown role"}
	}
	u, err := s.loadOther(ctx, actorID, id)
	if err != nil {
		return models.PublicUser{}, err
	}
	if err := s.Users.UpdateRole(ctx, id, role); err != nil {
		return models.PublicUser{}, s.internal("update role", err)
	}
	utils.LogEvent(s.RequestID, "admin", "update_role", fmt.Sprintf("user_id=%s from=%s to=%s", id, u.Role, role))
	u.Role = role
	return u.ToPublic(), nil
}

// ToggleUserStatus flips is_active.
func (s AdminService) ToggleUserStatus(ctx context.Context, actorID, id string) (models.PublicUser, error) {
	u, err := s.loadOther(ctx, actorID, id)
	if err != nil {
		return models.PublicUser{}, err
	}
	if err := s.Users.SetActive(ctx, id, !u.IsActive); err != nil {
		return models.PublicUser{}, s.internal("update user status", err)
	}
	u.IsActive = !u.IsActive
	utils.LogEvent(s.RequestID, "admin", "toggle_user", fmt.Sprintf("user_id=%s active=%t", id, u.IsActive))
	return u.ToPublic(), nil
}

// DeleteUser refuses while the user has bookings that are not cancelled or
// checked out. Deactivate instead to keep their history.
func (s AdminService) DeleteUser(ctx context.Context, actorID, id string) error {
	if _, err := s.loadOther(ctx, actorID, id); err != nil {
		return err
	}
	active, err := s.Bookings.CountActiveForUser(ctx, id)
	if err != nil {
		return s.internal("count user bookings", err)
	}
	if active > 0 {
		return domain.ConflictError{Resource: "User", Msg: fmt.Sprintf("has %d active booking(s)", active)}
	}
	if err := s.Users.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return domain.NotFoundError{Resource: "User", Err: err}
		case errors.Is(err, repositories.ErrInUse):
			return domain.ConflictError{Resource: "User", Msg: "has booking history, deactivate instead", Err: err}
		}
		return s.internal("delete user", err)
	}
	utils.LogEvent(s.RequestID, "admin", "delete_user", "user_id="+id)
	return nil
}
