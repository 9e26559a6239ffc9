package handlers

import (
	"context"
	"time"

	"github.com/Hakheem/sixpoint/internal/http/middleware"
	"github.com/Hakheem/sixpoint/internal/services"

	"github.com/gin-gonic/gin"
)

type RoomRepo interface {
	services.RoomStore
	services.RoomCatalogStore
	services.RoomAdminStore
}

type BookingRepo interface {
	services.BookingStore
	services.BookingLedger
	services.BookingStats
	services.BookingSnapshots
}

type ExtraServiceRepo interface {
	services.ExtraServiceStore
	services.ExtraCatalogStore
}

type UserRepo interface {
	services.UserStore
	services.UserAdminStore
}

type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handlers carries the stores every endpoint draws from. Services are built
// per request so they log with the caller's request id.
type Handlers struct {
	DB        Pinger
	Rooms     RoomRepo
	Bookings  BookingRepo
	Extras    ExtraServiceRepo
	Reviews   services.ReviewStore
	Users     UserRepo
	Catalog   services.CatalogStore
	Verify    services.VerificationStore
	TaxRate   float64
	JWTSecret []byte
	JWTTTL    time.Duration
}

func (h Handlers) pricing(c *gin.Context) services.PricingService {
	return services.PricingService{
		Rooms:     h.Rooms,
		Extras:    h.Extras,
		TaxRate:   h.TaxRate,
		RequestID: middleware.GetRequestID(c),
	}
}

func (h Handlers) availability(c *gin.Context) services.AvailabilityService {
	return services.AvailabilityService{Bookings: h.Bookings, RequestID: middleware.GetRequestID(c)}
}

func (h Handlers) bookings(c *gin.Context) services.BookingService {
	return services.BookingService{Pricing: h.pricing(c), Bookings: h.Bookings, RequestID: middleware.GetRequestID(c)}
}

func (h Handlers) docs(c *gin.Context) services.DocsService {
	return services.DocsService{Pricing: h.pricing(c), Snapshots: h.Bookings, RequestID: middleware.GetRequestID(c)}
}

func (h Handlers) catalog(c *gin.Context) services.CatalogService {
	return services.CatalogService{
		Rooms:     h.Rooms,
		Extras:    h.Extras,
		Reviews:   h.Reviews,
		Catalog:   h.Catalog,
		RequestID: middleware.GetRequestID(c),
	}
}

func (h Handlers) reviews(c *gin.Context) services.ReviewService {
	return services.ReviewService{Reviews: h.Reviews, Bookings: h.Bookings, RequestID: middleware.GetRequestID(c)}
}

func (h Handlers) admin(c *gin.Context) services.AdminService {
	return services.AdminService{
		Users:     h.Users,
		Rooms:     h.Rooms,
		Bookings:  h.Bookings,
		Catalog:   h.Catalog,
		RequestID: middleware.GetRequestID(c),
	}
}

// Auth is also handed to middleware.RequireAuth.
func (h Handlers) Auth() services.AuthService {
	return services.AuthService{Users: h.Users, Verify: h.Verify, Secret: h.JWTSecret, TTL: h.JWTTTL}
}

func (h Handlers) auth(c *gin.Context) services.AuthService {
	svc := h.Auth()
	svc.RequestID = middleware.GetRequestID(c)
	return svc
}
