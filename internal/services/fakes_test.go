package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/Hakheem/sixpoint/internal/domain"
	"github.com/Hakheem/sixpoint/internal/domain/models"
	"github.com/Hakheem/sixpoint/internal/repositories"
)

func day(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

type fakeRooms struct {
	rooms  map[string]models.Room
	err    error
	delErr error
	calls  int
	asked  [][]string
}

func newFakeRooms(rooms ...models.Room) *fakeRooms {
	f := &fakeRooms{rooms: map[string]models.Room{}}
	for _, r := range rooms {
		f.rooms[r.ID] = r
	}
	return f
}

func (f *fakeRooms) FindByID(_ context.Context, id string) (models.Room, error) {
	if f.err != nil {
		return models.Room{}, f.err
	}
	r, ok := f.rooms[id]
	if !ok {
		return models.Room{}, repositories.ErrNotFound
	}
	return r, nil
}

func (f *fakeRooms) FindMany(_ context.Context, ids []string) ([]models.Room, error) {
	f.calls++
	f.asked = append(f.asked, ids)
	if f.err != nil {
		return nil, f.err
	}
	out := []models.Room{}
	for _, id := range ids {
		if r, ok := f.rooms[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRooms) List(_ context.Context, filter models.RoomFilter, p domain.Pagination) ([]models.Room, int, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	all := []models.Room{}
	for _, r := range f.rooms {
		if filter.Capacity > 0 && r.Capacity < filter.Capacity {
			continue
		}
		all = append(all, r)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	start := p.Offset()
	if start > len(all) {
		start = len(all)
	}
	end := start + p.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], len(all), nil
}

func (f *fakeRooms) Featured(ctx context.Context, limit int) ([]models.Room, error) {
	rooms, _, err := f.List(ctx, models.RoomFilter{}, domain.Pagination{Page: 1, Limit: limit})
	return rooms, err
}

func (f *fakeRooms) Similar(_ context.Context, typeID, excludeID string, limit int) ([]models.Room, error) {
	out := []models.Room{}
	for _, r := range f.rooms {
		if r.ID != excludeID && r.TypeID != nil && *r.TypeID == typeID && len(out) < limit {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRooms) Images(_ context.Context, ids []string) (map[string][]models.RoomImage, error) {
	out := map[string][]models.RoomImage{}
	for _, id := range ids {
		out[id] = []models.RoomImage{{ID: "img-" + id, RoomID: id, URL: "https://img/" + id}}
	}
	return out, nil
}

func (f *fakeRooms) Amenities(context.Context, string) ([]models.Amenity, error) {
	return []models.Amenity{{ID: "wifi", Name: "WiFi"}}, nil
}

func (f *fakeRooms) Create(_ context.Context, r models.Room) error {
	f.rooms[r.ID] = r
	return nil
}

func (f *fakeRooms) Update(_ context.Context, r models.Room) error {
	if _, ok := f.rooms[r.ID]; !ok {
		return repositories.ErrNotFound
	}
	f.rooms[r.ID] = r
	return nil
}

func (f *fakeRooms) Delete(_ context.Context, id string) error {
	if f.delErr != nil {
		return f.delErr
	}
	if _, ok := f.rooms[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.rooms, id)
	return nil
}

func (f *fakeRooms) Count(context.Context) (int, error) { return len(f.rooms), nil }

type fakeExtras struct {
	extras map[string]models.ExtraService
	err    error
}

func newFakeExtras(extras ...models.ExtraService) *fakeExtras {
	f := &fakeExtras{extras: map[string]models.ExtraService{}}
	for _, e := range extras {
		f.extras[e.ID] = e
	}
	return f
}

func (f *fakeExtras) FindMany(_ context.Context, ids []string) ([]models.ExtraService, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []models.ExtraService{}
	for _, id := range ids {
		if e, ok := f.extras[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeExtras) List(context.Context) ([]models.ExtraService, error) {
	out := []models.ExtraService{}
	for _, e := range f.extras {
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeExtras) ListByRoom(context.Context, string) ([]models.ExtraService, error) {
	return f.List(context.Background())
}

// fakeBookings returns every booking touching the room from FindOverlapping,
// regardless of status or dates, so callers must filter.
type fakeBookings struct {
	bookings  map[string]models.Booking
	err       error
	reserved  []models.Booking
	extras    [][]models.ExtraServiceLine
	lines     map[string]models.PriceLines
	reserveFn func(models.Booking) error
	updateErr error
}

func newFakeBookings(bookings ...models.Booking) *fakeBookings {
	f := &fakeBookings{bookings: map[string]models.Booking{}, lines: map[string]models.PriceLines{}}
	for _, b := range bookings {
		f.bookings[b.ID] = b
	}
	return f
}

func (f *fakeBookings) FindOverlapping(_ context.Context, roomID string, _, _ time.Time, _ []models.BookingStatus) ([]models.Booking, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []models.Booking{}
	for _, b := range f.bookings {
		for _, id := range b.RoomIDs {
			if id == roomID {
				out = append(out, b)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeBookings) GetByID(_ context.Context, id string) (models.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return models.Booking{}, repositories.ErrNotFound
	}
	return b, nil
}

func (f *fakeBookings) ListByUser(_ context.Context, userID string) ([]models.Booking, error) {
	out := []models.Booking{}
	for _, b := range f.bookings {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeBookings) List(_ context.Context, status models.BookingStatus, _ domain.Pagination) ([]models.Booking, int, error) {
	out := []models.Booking{}
	for _, b := range f.bookings {
		if status == "" || b.Status == status {
			out = append(out, b)
		}
	}
	return out, len(out), nil
}

func (f *fakeBookings) conflicts(b models.Booking) bool {
	for _, other := range f.bookings {
		if other.ID == b.ID || !other.Status.Blocks() || !other.Overlaps(b.CheckIn, b.CheckOut) {
			continue
		}
		for _, a := range other.RoomIDs {
			for _, r := range b.RoomIDs {
				if a == r {
					return true
				}
			}
		}
	}
	return false
}

func (f *fakeBookings) Reserve(_ context.Context, b models.Booking, rooms []models.RoomPriceLine, extras []models.ExtraServiceLine) error {
	if f.reserveFn != nil {
		if err := f.reserveFn(b); err != nil {
			return err
		}
	}
	if f.conflicts(b) {
		return repositories.ErrRoomUnavailable
	}
	f.bookings[b.ID] = b
	f.reserved = append(f.reserved, b)
	f.extras = append(f.extras, extras)
	f.lines[b.ID] = models.PriceLines{Rooms: rooms, ExtraServices: extras}
	return nil
}

func (f *fakeBookings) SnapshotLines(_ context.Context, b models.Booking) (models.PriceLines, error) {
	if f.err != nil {
		return models.PriceLines{}, f.err
	}
	return f.lines[b.ID], nil
}

func (f *fakeBookings) countActive(match func(models.Booking) bool) int {
	n := 0
	for _, b := range f.bookings {
		for _, s := range models.ActiveStatuses {
			if b.Status == s && match(b) {
				n++
			}
		}
	}
	return n
}

func (f *fakeBookings) CountActiveForRoom(_ context.Context, roomID string) (int, error) {
	return f.countActive(func(b models.Booking) bool {
		for _, id := range b.RoomIDs {
			if id == roomID {
				return true
			}
		}
		return false
	}), nil
}

func (f *fakeBookings) CountActiveForUser(_ context.Context, userID string) (int, error) {
	return f.countActive(func(b models.Booking) bool { return b.UserID == userID }), nil
}

func (f *fakeBookings) UpdateStatus(_ context.Context, b models.Booking, status models.BookingStatus) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	cur, ok := f.bookings[b.ID]
	if !ok || cur.Status != b.Status {
		return repositories.ErrNotFound
	}
	next := cur
	next.Status = status
	if status.Blocks() && !cur.Status.Blocks() && f.conflicts(next) {
		return repositories.ErrRoomUnavailable
	}
	f.bookings[b.ID] = next
	return nil
}

func (f *fakeBookings) Count(context.Context) (int, error) { return len(f.bookings), nil }

func (f *fakeBookings) Revenue(_ context.Context, statuses []models.BookingStatus) (domain.Money, error) {
	var sum domain.Money
	for _, b := range f.bookings {
		for _, s := range statuses {
			if b.Status == s {
				sum += b.TotalAmount
			}
		}
	}
	return sum, nil
}

func (f *fakeBookings) Recent(_ context.Context, limit int) ([]models.Booking, error) {
	out := []models.Booking{}
	for _, b := range f.bookings {
		if len(out) < limit {
			out = append(out, b)
		}
	}
	return out, nil
}

type fakeUsers struct {
	users map[string]models.User
}

func newFakeUsers(users ...models.User) *fakeUsers {
	f := &fakeUsers{users: map[string]models.User{}}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUsers) FindByID(_ context.Context, id string) (models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, repositories.ErrNotFound
}

func (f *fakeUsers) Create(_ context.Context, u models.User) error {
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return repositories.ErrDuplicate
		}
	}
	f.users[u.ID] = u
	return nil
}

func (f *fakeUsers) UpdateProfile(_ context.Context, id string, name, phone *string) error {
	u, ok := f.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	if name != nil {
		u.Name = *name
	}
	if phone != nil {
		u.Phone = phone
	}
	f.users[id] = u
	return nil
}

func (f *fakeUsers) SetPassword(_ context.Context, id, hash string) error {
	u, ok := f.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	u.PasswordHash = hash
	f.users[id] = u
	return nil
}

func (f *fakeUsers) MarkEmailVerified(_ context.Context, id string) error {
	u, ok := f.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	u.EmailVerified = true
	f.users[id] = u
	return nil
}

func (f *fakeUsers) List(_ context.Context, filter models.UserFilter, _ domain.Pagination) ([]models.User, int, error) {
	out := []models.User{}
	for _, u := range f.users {
		if filter.Role == "" || u.Role == filter.Role {
			out = append(out, u)
		}
	}
	return out, len(out), nil
}

func (f *fakeUsers) Recent(_ context.Context, limit int) ([]models.User, error) {
	out, _, _ := f.List(context.Background(), models.UserFilter{}, domain.Pagination{})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeUsers) UpdateRole(_ context.Context, id string, role domain.Role) error {
	u := f.users[id]
	u.Role = role
	f.users[id] = u
	return nil
}

func (f *fakeUsers) SetActive(_ context.Context, id string, active bool) error {
	u := f.users[id]
	u.IsActive = active
	f.users[id] = u
	return nil
}

func (f *fakeUsers) Delete(_ context.Context, id string) error {
	if _, ok := f.users[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUsers) Count(context.Context) (int, error) { return len(f.users), nil }

type fakeReviews struct {
	reviews   map[string]models.Review
	summaries map[string]models.RatingSummary
}

func newFakeReviews() *fakeReviews {
	return &fakeReviews{reviews: map[string]models.Review{}, summaries: map[string]models.RatingSummary{}}
}

func (f *fakeReviews) VisibleByRoom(_ context.Context, roomID string, limit int) ([]models.Review, error) {
	out := []models.Review{}
	for _, v := range f.reviews {
		if v.RoomID == roomID && !v.Hidden && len(out) < limit {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeReviews) ListByUser(_ context.Context, userID string) ([]models.Review, error) {
	out := []models.Review{}
	for _, v := range f.reviews {
		if v.UserID == userID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeReviews) Summaries(_ context.Context, ids []string) (map[string]models.RatingSummary, error) {
	out := map[string]models.RatingSummary{}
	for _, id := range ids {
		if s, ok := f.summaries[id]; ok {
			out[id] = s
		}
	}
	return out, nil
}

func (f *fakeReviews) Create(_ context.Context, v models.Review) error {
	for _, existing := range f.reviews {
		if existing.BookingID == v.BookingID {
			return repositories.ErrDuplicate
		}
	}
	f.reviews[v.ID] = v
	return nil
}

func (f *fakeReviews) SetHidden(_ context.Context, id string, hidden bool) error {
	v, ok := f.reviews[id]
	if !ok {
		return repositories.ErrNotFound
	}
	v.Hidden = hidden
	f.reviews[id] = v
	return nil
}

type fakeCatalog struct {
	types   map[string]models.RoomType
	configs []models.SiteConfig
}

func (f *fakeCatalog) RoomTypes(context.Context) ([]models.RoomType, error) {
	out := []models.RoomType{}
	for _, t := range f.types {
		out = append(out, t)
	}
	return out, nil
}

func (f *fakeCatalog) RoomTypesByID(_ context.Context, ids []string) (map[string]models.RoomType, error) {
	out := map[string]models.RoomType{}
	for _, id := range ids {
		if t, ok := f.types[id]; ok {
			out[id] = t
		}
	}
	return out, nil
}

func (f *fakeCatalog) Amenities(context.Context) ([]models.Amenity, error) {
	return []models.Amenity{}, nil
}

func (f *fakeCatalog) VisitPlaces(context.Context) ([]models.VisitPlace, error) {
	return []models.VisitPlace{}, nil
}

func (f *fakeCatalog) LatestSiteConfig(context.Context) (models.SiteConfig, error) {
	if len(f.configs) == 0 {
		return models.SiteConfig{}, repositories.ErrNotFound
	}
	return f.configs[len(f.configs)-1], nil
}

func (f *fakeCatalog) InsertSiteConfig(_ context.Context, cfg models.SiteConfig) error {
	f.configs = append(f.configs, cfg)
	return nil
}

type fakeVerifications struct {
	tokens map[string]models.Verification
}

func newFakeVerifications() *fakeVerifications {
	return &fakeVerifications{tokens: map[string]models.Verification{}}
}

func (f *fakeVerifications) Create(_ context.Context, v models.Verification) error {
	for hash, old := range f.tokens {
		if old.UserID == v.UserID && old.Purpose == v.Purpose {
			delete(f.tokens, hash)
		}
	}
	f.tokens[v.TokenHash] = v
	return nil
}

func (f *fakeVerifications) Consume(_ context.Context, hash string, purpose models.VerificationPurpose, now time.Time) (models.Verification, error) {
	v, ok := f.tokens[hash]
	if !ok || v.Purpose != purpose || v.ExpiresAt.Before(now) {
		return models.Verification{}, repositories.ErrNotFound
	}
	delete(f.tokens, hash)
	return v, nil
}
