package server

import (
	"github.com/gin-gonic/gin"
)

// AuthRoutes is implemented by the auth handler; the router stays free of
// handler construction so tests can mount their own.
type AuthRoutes interface {
	Register(c *gin.Context)
	Login(c *gin.Context)
	Refresh(c *gin.Context)
	Profile(c *gin.Context)
	Logout(c *gin.Context)
}

// HealthRoutes is implemented by the health handler.
type HealthRoutes interface {
	Health(c *gin.Context)
}

// MountAuth registers the /api/auth route group. The guard middleware is
// applied only to the bearer-authenticated endpoints.
func MountAuth(engine *gin.Engine, h AuthRoutes, requireAuth gin.HandlerFunc) {
	group := engine.Group("/api/auth")
	group.POST("/register", h.Register)
	group.POST("/login", h.Login)
	group.POST("/refresh", h.Refresh)
	group.GET("/profile", requireAuth, h.Profile)
	group.POST("/logout", requireAuth, h.Logout)
}

// MountHealth registers the health and welcome endpoints.
func MountHealth(engine *gin.Engine, h HealthRoutes, welcome gin.HandlerFunc) {
	engine.GET("/health", h.Health)
	engine.GET("/", welcome)
}
