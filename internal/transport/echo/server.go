package echo

import (
	"context"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"object-gateway/internal/auth"
	"object-gateway/internal/authz"
	"object-gateway/internal/buckets"
	"object-gateway/internal/config"
	"object-gateway/internal/domain/permission"
	"object-gateway/internal/objects"
	"object-gateway/internal/perms"
	"object-gateway/internal/repository"
)

const requestBodyLimit = "512M"

type ServerDependencies struct {
	Config         *config.Config
	Mode           auth.Mode
	Resolver       *auth.Resolver
	AuthMiddleware *auth.Middleware
	Engine         *authz.Engine
	Buckets        *buckets.Service
	Objects        *objects.Service
	Perms          *perms.Service
	BucketRepo     repository.BucketRepository
	ObjectRepo     repository.ObjectRepository
	Log            *zap.Logger
}

type Server struct {
	echo *echo.Echo
	deps *ServerDependencies
}

func NewServer(deps *ServerDependencies) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Server.ReadTimeout = deps.Config.Server.ReadTimeout
	e.Server.WriteTimeout = deps.Config.Server.WriteTimeout

	// Request ID middleware first, so all logs have a request ID.
	e.Use(RequestID())
	e.Use(SecurityHeaders())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.BodyLimit(requestBodyLimit))
	e.Use(deps.AuthMiddleware.Authenticate())

	rateLimiter := NewRateLimiter(deps.Config.App.RateLimitRPS, deps.Config.App.RateLimitBurst, deps.Resolver)
	e.Use(rateLimiter.Middleware())

	e.GET("/health", healthCheck)

	bucketHandler := NewBucketHandler(deps.Buckets, deps.Resolver, deps.Log)
	objectHandler := NewObjectHandler(deps.Objects, deps.Resolver, deps.Log)
	permHandler := NewPermissionHandler(deps.Perms, deps.Resolver, deps.Log)

	api := e.Group("/api")
	api.Use(RequireMode(deps.Mode, deps.Log))

	resolveBucket := ResolveBucket(deps.BucketRepo, deps.Log)
	resolveObject := ResolveObject(deps.ObjectRepo, deps.Log)

	bucketPerm := func(perm permission.Code) echo.MiddlewareFunc {
		return RequireBucketPermission(deps.Engine, deps.Resolver, perm)
	}
	objectPerm := func(perm permission.Code) echo.MiddlewareFunc {
		return RequireObjectPermission(deps.Engine, deps.Resolver, perm)
	}

	api.PUT("/bucket", bucketHandler.Create, RequireAuthenticated(deps.Mode))
	api.GET("/bucket/:bucketId", bucketHandler.Read, resolveBucket, bucketPerm(permission.CodeRead))

	api.PUT("/object", objectHandler.Create, resolveBucket, bucketPerm(permission.CodeCreate))
	api.GET("/object/:objId", objectHandler.Read, resolveObject, objectPerm(permission.CodeRead))
	api.HEAD("/object/:objId", objectHandler.Head, resolveObject, objectPerm(permission.CodeRead))
	api.PUT("/object/:objId", objectHandler.Update, resolveObject, objectPerm(permission.CodeUpdate))
	api.DELETE("/object/:objId", objectHandler.Delete, resolveObject, objectPerm(permission.CodeDelete))
	api.GET("/object/:objId/version", objectHandler.Versions, resolveObject, objectPerm(permission.CodeRead))
	api.PATCH("/object/:objId/public", objectHandler.SetPublic, resolveObject, objectPerm(permission.CodeManage))

	// Searches expose the grant relation itself, so anonymous callers are
	// turned away outright.
	api.GET("/permission/bucket", permHandler.SearchBucket, RequireAuthenticated(deps.Mode))
	api.PUT("/permission/bucket/:bucketId", permHandler.GrantBucket, resolveBucket, bucketPerm(permission.CodeManage))
	api.DELETE("/permission/bucket/:bucketId", permHandler.RevokeBucket, resolveBucket, bucketPerm(permission.CodeManage))

	api.GET("/permission/object", permHandler.SearchObject, RequireAuthenticated(deps.Mode))
	api.PUT("/permission/object/:objId", permHandler.GrantObject, resolveObject, objectPerm(permission.CodeManage))
	api.DELETE("/permission/object/:objId", permHandler.RevokeObject, resolveObject, objectPerm(permission.CodeManage))

	return &Server{echo: e, deps: deps}
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func healthCheck(c echo.Context) error {
	return c.JSON(200, map[string]string{"status": "ok"})
}
