package echo

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"object-gateway/internal/auth"
	"object-gateway/internal/authz"
	"object-gateway/internal/domain/permission"
	"object-gateway/internal/repository"
	"object-gateway/pkg/logger"
)

// RequireMode rejects requests whose credential type the process-wide auth
// mode does not support. This is a configuration mismatch, not a denial, and
// surfaces as 501.
func RequireMode(mode auth.Mode, log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authType := auth.AuthType(auth.CurrentCredential(c))
			if err := auth.CheckCompatible(mode, authType); err != nil {
				log.Debug("incompatible credential type",
					zap.String("mode", string(mode)),
					zap.String("authType", string(authType)))
				return respondModeMismatch(c)
			}
			return next(c)
		}
	}
}

// RequireAuthenticated gates routes no single grant row can protect: resource
// creation, where no row exists yet, and grant-relation searches, which span
// many resources. Anonymous callers are denied unless the process runs with
// authentication disabled.
func RequireAuthenticated(mode auth.Mode) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if mode == auth.ModeNoAuth {
				return next(c)
			}
			if auth.CurrentCredential(c) == nil {
				return respondDenied(c)
			}
			return next(c)
		}
	}
}

// ResolveObject injects the current object record when the route carries an
// object id. Lookup failures are swallowed here; a protected route downstream
// denies on the missing record, indistinguishably from a missing grant.
func ResolveObject(objects repository.ObjectRepository, log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if raw := c.Param(paramObjectID); raw != "" {
				if id, err := uuid.Parse(raw); err == nil {
					o, err := objects.GetByID(c.Request().Context(), id)
					if err != nil {
						log.Warn("object lookup failed", zap.String("error", logger.Sanitize(err.Error())))
					} else {
						c.Set(contextKeyCurrentObject, o)
					}
				}
			}
			return next(c)
		}
	}
}

// ResolveBucket injects the current bucket record from the route or query.
func ResolveBucket(buckets repository.BucketRepository, log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := c.Param(paramBucketID)
			if raw == "" {
				raw = c.QueryParam(queryBucketID)
			}
			if raw != "" {
				if id, err := uuid.Parse(raw); err == nil {
					b, err := buckets.GetByID(c.Request().Context(), id)
					if err != nil {
						log.Warn("bucket lookup failed", zap.String("error", logger.Sanitize(err.Error())))
					} else {
						c.Set(contextKeyCurrentBucket, b)
					}
				}
			}
			return next(c)
		}
	}
}

// RequireObjectPermission gates a route on the decision engine, against the
// resolved current object.
func RequireObjectPermission(engine *authz.Engine, resolver *auth.Resolver, perm permission.Code) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var resource *authz.Resource
			if o := CurrentObject(c); o != nil {
				resource = &authz.Resource{ID: o.ID, Kind: permission.KindObject, Public: o.Public}
			}
			return decide(c, engine, resolver, resource, perm, next)
		}
	}
}

// RequireBucketPermission gates a route against the resolved current bucket.
func RequireBucketPermission(engine *authz.Engine, resolver *auth.Resolver, perm permission.Code) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var resource *authz.Resource
			if b := CurrentBucket(c); b != nil {
				resource = &authz.Resource{ID: b.ID, Kind: permission.KindBucket, Public: b.Public}
			}
			return decide(c, engine, resolver, resource, perm, next)
		}
	}
}

func decide(c echo.Context, engine *authz.Engine, resolver *auth.Resolver, resource *authz.Resource, perm permission.Code, next echo.HandlerFunc) error {
	cred := auth.CurrentCredential(c)
	subjectID, hasID := resolver.SubjectID(cred)

	subject := authz.Subject{
		ID:       subjectID,
		HasID:    hasID,
		AuthType: auth.AuthType(cred),
	}

	if err := engine.Decide(c.Request().Context(), subject, resource, perm); err != nil {
		return respondDenied(c)
	}
	return next(c)
}
