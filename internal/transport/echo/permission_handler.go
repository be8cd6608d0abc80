package echo

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"object-gateway/internal/auth"
	"object-gateway/internal/domain/permission"
	"object-gateway/internal/perms"
)

type PermissionHandler struct {
	perms    *perms.Service
	resolver *auth.Resolver
	log      *zap.Logger
}

func NewPermissionHandler(svc *perms.Service, resolver *auth.Resolver, log *zap.Logger) *PermissionHandler {
	return &PermissionHandler{perms: svc, resolver: resolver, log: log}
}

func (h *PermissionHandler) GrantBucket(c echo.Context) error {
	return h.grant(c, permission.KindBucket, CurrentBucket(c) != nil, currentBucketID(c))
}

func (h *PermissionHandler) GrantObject(c echo.Context) error {
	return h.grant(c, permission.KindObject, CurrentObject(c) != nil, currentObjectID(c))
}

func (h *PermissionHandler) RevokeBucket(c echo.Context) error {
	return h.revoke(c, permission.KindBucket, CurrentBucket(c) != nil, currentBucketID(c))
}

func (h *PermissionHandler) RevokeObject(c echo.Context) error {
	return h.revoke(c, permission.KindObject, CurrentObject(c) != nil, currentObjectID(c))
}

func (h *PermissionHandler) SearchBucket(c echo.Context) error {
	return h.search(c, permission.KindBucket, c.QueryParam(queryBucketID))
}

func (h *PermissionHandler) SearchObject(c echo.Context) error {
	return h.search(c, permission.KindObject, c.QueryParam(queryObjectID))
}

func (h *PermissionHandler) grant(c echo.Context, kind permission.ResourceKind, resolved bool, resourceID uuid.UUID) error {
	if !resolved {
		return respondDenied(c)
	}

	var entries []permission.Entry
	if err := c.Bind(&entries); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"detail": "invalid request body"})
	}

	granted, err := h.perms.Grant(c.Request().Context(), kind, resourceID, entries, currentActor(c, h.resolver))
	if err != nil {
		h.log.Warn("permission grant failed", zap.String("resource", resourceID.String()), zap.Error(err))
		return respondServiceError(c, err)
	}
	if granted == nil {
		granted = []*permission.Grant{}
	}

	return c.JSON(http.StatusCreated, granted)
}

func (h *PermissionHandler) revoke(c echo.Context, kind permission.ResourceKind, resolved bool, resourceID uuid.UUID) error {
	if !resolved {
		return respondDenied(c)
	}

	var entries []permission.Entry
	if err := c.Bind(&entries); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"detail": "invalid request body"})
	}

	revoked, err := h.perms.Revoke(c.Request().Context(), kind, resourceID, entries)
	if err != nil {
		h.log.Warn("permission revoke failed", zap.String("resource", resourceID.String()), zap.Error(err))
		return respondServiceError(c, err)
	}
	if revoked == nil {
		revoked = []*permission.Grant{}
	}

	return c.JSON(http.StatusOK, revoked)
}

func (h *PermissionHandler) search(c echo.Context, kind permission.ResourceKind, rawResourceID string) error {
	filter := permission.Filter{}

	if rawResourceID != "" {
		id, err := uuid.Parse(rawResourceID)
		if err != nil {
			return c.JSON(http.StatusUnprocessableEntity, map[string]string{"detail": "invalid resource id"})
		}
		filter.ResourceIDs = []uuid.UUID{id}
	}
	if raw := c.QueryParam("subjectId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return c.JSON(http.StatusUnprocessableEntity, map[string]string{"detail": "invalid subject id"})
		}
		filter.SubjectIDs = []uuid.UUID{id}
	}
	if raw := c.QueryParam("permCode"); raw != "" {
		code, ok := permission.Normalize(raw)
		if !ok {
			return c.JSON(http.StatusUnprocessableEntity, map[string]string{"detail": "invalid permission code"})
		}
		filter.PermCodes = []permission.Code{code}
	}

	grants, err := h.perms.Search(c.Request().Context(), kind, filter)
	if err != nil {
		h.log.Warn("permission search failed", zap.Error(err))
		return respondServiceError(c, err)
	}
	if grants == nil {
		grants = []*permission.Grant{}
	}

	return c.JSON(http.StatusOK, grants)
}

func currentBucketID(c echo.Context) uuid.UUID {
	if b := CurrentBucket(c); b != nil {
		return b.ID
	}
	return uuid.Nil
}

func currentObjectID(c echo.Context) uuid.UUID {
	if o := CurrentObject(c); o != nil {
		return o.ID
	}
	return uuid.Nil
}
