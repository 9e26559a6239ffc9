package api

import (
	"log"
	stdhttp "net/http"

	intconfig "github.com/Hakheem/sixpoint/internal/config"
	"github.com/Hakheem/sixpoint/internal/domain"
	h "github.com/Hakheem/sixpoint/internal/http/handlers"
	"github.com/Hakheem/sixpoint/internal/http/middleware"
	"github.com/Hakheem/sixpoint/internal/repositories"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

// NewHandlers wires the MySQL repositories into the HTTP layer.
func NewHandlers(env intconfig.Env, db *sqlx.DB) h.Handlers {
	return h.Handlers{
		DB:        db,
		Rooms:     repositories.RoomRepository{DB: db},
		Bookings:  repositories.BookingRepository{DB: db},
		Extras:    repositories.ExtraServiceRepository{DB: db},
		Reviews:   repositories.ReviewRepository{DB: db},
		Users:     repositories.UserRepository{DB: db},
		Catalog:   repositories.CatalogRepository{DB: db},
		Verify:    repositories.VerificationRepository{DB: db},
		TaxRate:   env.TaxRate,
		JWTSecret: []byte(env.JWTSecret),
		JWTTTL:    env.JWTTTL,
	}
}

func NewRouter(env intconfig.Env, hs h.Handlers) *gin.Engine {
	h.UseJSONFieldNames()

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(env.CORSOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.OPTIONS("/*path", func(c *gin.Context) { c.AbortWithStatus(stdhttp.StatusNoContent) })

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"success": false,
			"error":   "Route not found",
			"path":    c.Request.URL.Path,
			"method":  c.Request.Method,
		})
	})

	requireAuth := middleware.RequireAuth(hs.Auth())

	api := r.Group("/api")
	{
		api.GET("/health", hs.Health)
		api.GET("/db-check", hs.DBCheck)
		api.GET("/routes", hs.Routes)

		public := api.Group("/public")
		public.GET("/rooms", hs.ListRooms)
		public.GET("/rooms/:id", hs.GetRoom)
		public.GET("/rooms/:id/availability", hs.CheckAvailability)
		public.GET("/featured-rooms", hs.FeaturedRooms)
		public.GET("/room-types", hs.RoomTypes)
		public.GET("/amenities", hs.Amenities)
		public.GET("/extra-services", hs.ExtraServices)
		public.GET("/visit-places", hs.VisitPlaces)
		public.GET("/site-config", hs.SiteConfig)
		public.POST("/contact", hs.Contact)
		public.POST("/calculate-price", hs.CalculatePrice)
		public.POST("/calculate-price/pdf", hs.QuotePDF)

		auth := api.Group("/auth")
		auth.POST("/register", hs.Register)
		auth.POST("/login", hs.Login)
		auth.POST("/logout", hs.Logout)
		auth.GET("/me", requireAuth, hs.Me)
		auth.POST("/request-reset", hs.RequestPasswordReset)
		auth.POST("/reset-password", hs.ResetPassword)
		auth.POST("/verify-email", hs.VerifyEmail)
		auth.POST("/request-verification", requireAuth, hs.RequestEmailVerification)

		user := api.Group("/user", requireAuth)
		user.GET("/profile", hs.GetProfile)
		user.PUT("/profile", hs.UpdateProfile)
		user.GET("/bookings", hs.ListMyBookings)
		user.POST("/bookings", hs.CreateBooking)
		user.GET("/bookings/:id", hs.GetMyBooking)
		user.PATCH("/bookings/:id/cancel", hs.CancelMyBooking)
		user.GET("/bookings/:id/invoice", hs.BookingInvoice)
		user.GET("/reviews", hs.ListMyReviews)
		user.POST("/reviews", hs.CreateReview)

		admin := api.Group("/admin", requireAuth, middleware.RequireRoles(domain.RoleAdmin, domain.RoleSuperAdmin))
		admin.GET("/dashboard/stats", hs.DashboardStats)
		admin.POST("/rooms", hs.CreateRoom)
		admin.PUT("/rooms/:id", hs.UpdateRoom)
		admin.DELETE("/rooms/:id", hs.DeleteRoom)
		admin.GET("/bookings", hs.ListBookings)
		admin.PATCH("/bookings/:id/status", hs.UpdateBookingStatus)
		admin.PATCH("/reviews/:id/visibility", hs.SetReviewVisibility)
		admin.PUT("/site-config", hs.SaveSiteConfig)

		users := admin.Group("/users", middleware.RequireRoles(domain.RoleSuperAdmin))
		users.GET("", hs.ListUsers)
		users.PUT("/:id/role", hs.UpdateUserRole)
		users.PATCH("/:id/toggle-status", hs.ToggleUserStatus)
		users.DELETE("/:id", hs.DeleteUser)
	}

	h.SetRouter(r)
	return r
}
