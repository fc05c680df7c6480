// Package http defines how bounded contexts plug into the shared router.
package http

import "github.com/gin-gonic/gin"

// Module is a bounded context that owns a set of routes.
type Module interface {
	Name() string
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext is what a module receives when mounting its routes.
type RouterContext struct {
	// V1 is /api/v1 with no authentication.
	V1 *gin.RouterGroup
	// Protected is /api/v1 behind a valid access token. Modules add their
	// own role checks on top.
	Protected *gin.RouterGroup
}
