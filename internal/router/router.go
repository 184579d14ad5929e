// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/adityarawat/newsroom/internal/config"
	"github.com/adityarawat/newsroom/internal/handler"
	"github.com/adityarawat/newsroom/internal/middleware"
	"github.com/adityarawat/newsroom/internal/model"
)

// Register sets up every route of the service.  Public endpoints carry no
// middleware; protected endpoints run the JWT access guard, and the
// administrative reads additionally require the admin role.
func Register(e *echo.Echo, cfg config.Config, a *handler.AuthHandler, n *handler.NewsHandler,
	users middleware.UserResolver, revoked middleware.TokenRevocations) {

	// Uploaded images are served statically under /uploads.
	e.Static("/uploads", cfg.UploadDir)
	e.GET("/healthz", handler.Health)

	guard := middleware.JWTAuth(cfg.JWTSecret, revoked, users)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	g := e.Group("/auth")

	// Session establishment and the OTP reset flow are public by nature.
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/send-otp", a.SendOTP)
	g.POST("/verify-otp", a.VerifyOTP)
	g.POST("/reset-password", a.ResetPassword)

	// Logout reads the bearer itself: an absent token is a 400 there, not
	// the guard's 401, so it stays outside the protected group.
	g.POST("/logout", a.Logout)

	g.GET("/profile/:id", a.Profile, guard)
	g.PUT("/update/:id", a.UpdateProfile, guard)
	g.GET("/userCount", a.UserCount, guard, adminOnly)
	g.GET("/userList", a.UserList, guard, adminOnly)
	g.PUT("/updateRole", a.UpdateRole, guard, adminOnly)

	news := e.Group("/news", guard)
	news.POST("/create", n.CreateNews)
	news.GET("", n.ListNews)

	e.POST("/send-notification", handler.SendNotification)
}
