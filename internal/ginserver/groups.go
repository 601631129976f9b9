package ginserver

import (
	"github.com/gin-gonic/gin"
	"github.com/unicornmarketers/pageforge/internal/jwt"
)

// PublicGroup creates a router group without authentication.
func PublicGroup(router *gin.Engine, path string) *gin.RouterGroup {
	return router.Group(path)
}

// ProtectedGroup creates a router group guarded by JWT middleware. An empty
// secret disables authentication, which is the local development mode.
func ProtectedGroup(router *gin.Engine, path, jwtSecret string) *gin.RouterGroup {
	group := router.Group(path)
	if jwtSecret != "" {
		group.Use(jwt.Middleware(jwtSecret))
	}
	return group
}

// SetupAPIRoutesWithPublic returns the public and protected /api/v1 groups.
// Write endpoints called by internal tooling go on the public group, read
// endpoints on the protected one.
func SetupAPIRoutesWithPublic(router *gin.Engine, jwtSecret string) (publicGroup, protectedGroup *gin.RouterGroup) {
	publicGroup = PublicGroup(router, "/api/v1")
	protectedGroup = ProtectedGroup(router, "/api/v1", jwtSecret)
	return publicGroup, protectedGroup
}
