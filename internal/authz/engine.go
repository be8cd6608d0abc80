// Package authz implements the per-request authorization decision.
package authz

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"object-gateway/internal/auth"
	"object-gateway/internal/domain/permission"
	"object-gateway/internal/repository"
	apperrors "object-gateway/pkg/errors"
)

// Resource is the resolved record a decision is made against. A nil
// *Resource means the lookup failed or the id does not exist; the engine
// denies those identically to a missing grant so ids cannot be enumerated.
type Resource struct {
	ID     uuid.UUID
	Kind   permission.ResourceKind
	Public bool
}

// Subject is the caller identity as resolved by the identity resolver.
type Subject struct {
	ID       uuid.UUID
	HasID    bool
	AuthType auth.Type
}

// Engine evaluates one decision per protected operation. It is read-only:
// the single grant query is its only side effect.
type Engine struct {
	mode   auth.Mode
	grants repository.GrantRepository
	log    *zap.Logger
}

// NewEngine builds the decision engine. A nil grant repository means no
// persistent permission store is configured and every decision allows.
func NewEngine(mode auth.Mode, grants repository.GrantRepository, log *zap.Logger) *Engine {
	return &Engine{mode: mode, grants: grants, log: log}
}

// Decide returns nil to allow and apperrors.ErrDenied to deny. Every denial
// branch returns the same value; the reason is logged, never surfaced.
func (e *Engine) Decide(ctx context.Context, subject Subject, resource *Resource, perm permission.Code) error {
	if e.grants == nil || !e.mode.CanOIDC() {
		e.log.Debug("current application mode does not enforce permission checks",
			zap.String("mode", string(e.mode)))
		return nil
	}

	if resource == nil {
		// Same denial as unauthorized access; a distinguishable not-found
		// would allow id brute-force discovery.
		e.log.Debug("missing resource record")
		return apperrors.ErrDenied
	}

	if subject.AuthType == auth.TypeBasic && e.mode.CanBasic() {
		e.log.Debug("basic credentials are always permitted",
			zap.String("resource", resource.ID.String()))
		return nil
	}

	if resource.Public && perm == permission.CodeRead {
		e.log.Debug("read requests on public resources are always permitted",
			zap.String("resource", resource.ID.String()))
		return nil
	}

	if subject.AuthType != auth.TypeBearer || !subject.HasID {
		e.log.Debug("missing user identification")
		return apperrors.ErrDenied
	}

	grants, err := e.grants.Search(ctx, resource.Kind, permission.Filter{
		ResourceIDs: []uuid.UUID{resource.ID},
		SubjectIDs:  []uuid.UUID{subject.ID},
	})
	if err != nil {
		e.log.Warn("grant lookup failed", zap.Error(err))
		return apperrors.ErrDenied
	}

	for _, g := range grants {
		if g.PermCode == perm {
			return nil
		}
	}

	e.log.Debug("subject lacks permission",
		zap.String("resource", resource.ID.String()),
		zap.String("permission", string(perm)))
	return apperrors.ErrDenied
}
