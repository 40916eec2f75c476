package router // package router defines how HTTP routes are registered for the API

import (
    "github.com/labstack/echo/v4" // import the Echo web framework to handle routing

    "github.com/iliyamo/sports-court-booking/internal/handler"    // handlers implementing the endpoints
    "github.com/iliyamo/sports-court-booking/internal/middleware" // JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
    // Load balancers and monitoring systems use this endpoint to verify
    // that the service is up and running.
    e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies
// the necessary middleware.  Unauthenticated operations live under
// /v1/auth, while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
    // Operations under /v1/auth do not require an existing session:
    // they create one (register, login) or exchange one (refresh).
    g := e.Group("/v1/auth")
    // Student self-registration.
    g.POST("/register", a.Register)
    // Student login issues a STUDENT token pair.
    g.POST("/login", a.Login)
    // Staff login issues an ADMIN token pair.  Staff accounts are
    // created by administrators, there is no staff self-registration.
    g.POST("/admin/login", a.AdminLogin)
    // Refresh rotates the refresh token and issues a new pair.
    g.POST("/refresh", a.Refresh)
    // RefreshAccess issues a new access token without rotating the
    // refresh token.
    g.POST("/refresh-access", a.RefreshAccess)
    // Logout invalidates the presented refresh token.  It does not
    // require a JWT; the refresh token in the body is the credential.
    g.POST("/logout", a.Logout)

    // Protected profile endpoint.  Both roles may call it; the handler
    // shapes the response by role.
    auth := e.Group("/v1")
    auth.Use(middleware.JWTAuth(jwtSecret))
    auth.Use(middleware.RequireRole(handler.RoleStudent, handler.RoleAdmin))
    auth.GET("/me", a.Me)
    // Revoke every refresh token the caller owns.  Unlike /auth/logout
    // this needs a valid access token, since no single refresh token
    // identifies the principal.
    auth.POST("/auth/logout-all", a.LogoutAll)
}

// RegisterStudent registers the booking lifecycle endpoints.  All of
// them require a STUDENT token; the authenticated student ID scopes
// every operation, so one student can never act on another's booking.
func RegisterStudent(e *echo.Echo, b *handler.BookingHandler, jwtSecret string) {
    g := e.Group("/v1/bookings")
    g.Use(middleware.JWTAuth(jwtSecret))
    g.Use(middleware.RequireRole(handler.RoleStudent))

    // Reserve a slot: creates a Pending, Unpaid booking.
    g.POST("", b.Reserve)
    // List the calling student's bookings, newest first.
    g.GET("", b.List)
    // Booking detail with joined court, sport and slot data.
    g.GET("/:id", b.Get)
    // Lifecycle transitions.
    g.POST("/:id/confirm", b.Confirm)
    g.POST("/:id/cancel", b.Cancel)
    g.POST("/:id/pay", b.Pay)
}

// RegisterAdmin registers the staff-facing surface under /v1/admin.
// Every route requires an ADMIN token.
func RegisterAdmin(e *echo.Echo, ad *handler.AdminHandler, cat *handler.CatalogHandler, jwtSecret string) {
    g := e.Group("/v1/admin")
    g.Use(middleware.JWTAuth(jwtSecret))
    g.Use(middleware.RequireRole(handler.RoleAdmin))

    // Dashboard counters.
    g.GET("/dashboard", ad.Stats)

    // Cross-student booking backlog and the Complete transition.
    g.GET("/bookings", ad.ListBookings)
    g.POST("/bookings/:id/complete", ad.CompleteBooking)

    // Sports catalog.
    g.POST("/sports", cat.CreateSport)
    g.GET("/sports", cat.ListSports)
    g.PUT("/sports/:id", cat.UpdateSport)
    g.DELETE("/sports/:id", cat.DeleteSport)

    // Courts catalog.
    g.POST("/courts", cat.CreateCourt)
    g.GET("/courts", cat.ListCourts)
    g.PUT("/courts/:id", cat.UpdateCourt)
    g.DELETE("/courts/:id", cat.DeleteCourt)

    // Slot schedule per court.
    g.GET("/courts/:court_id/slots", cat.ListSlots)
    g.POST("/slots", cat.CreateSlot)
    g.PUT("/slots/:id", cat.UpdateSlot)
    g.DELETE("/slots/:id", cat.DeleteSlot)

    // Staff administration.
    g.POST("/staff", cat.CreateStaff)
    g.GET("/staff", cat.ListStaff)
    g.GET("/staff/:id", cat.GetStaff)
    g.PUT("/staff/:id", cat.UpdateStaff)
    g.DELETE("/staff/:id", cat.DeleteStaff)
}

// RegisterPublic registers the unauthenticated browse endpoints.  The
// optional cache middleware (nil-safe) serves repeated catalog reads
// from Redis.
func RegisterPublic(e *echo.Echo, p *handler.BrowseHandler, cache echo.MiddlewareFunc) {
    g := e.Group("/v1")
    if cache != nil {
        g.Use(cache)
    }
    // Catalog of sports and courts.
    g.GET("/sports", p.ListSports)
    g.GET("/courts", p.ListCourts)
    // Slot availability for a court; students pick a slot here before
    // reserving it through /v1/bookings.
    g.GET("/courts/:court_id/slots", p.CourtSlots)
}
