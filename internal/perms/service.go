// Package perms implements the permission grant/revoke protocol over the two
// grant relations.
package perms

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"object-gateway/internal/domain/permission"
	"object-gateway/internal/repository"
	apperrors "object-gateway/pkg/errors"
	"object-gateway/pkg/validator"
)

const (
	msgInvalidResourceID = "invalid resource id supplied"
	msgInvalidEntries    = "invalid entries supplied"
	msgUnknownEmail      = "entry email does not resolve to a known subject"
)

type Service struct {
	grants repository.GrantRepository
	users  repository.UserRepository
	log    *zap.Logger
}

func NewService(grants repository.GrantRepository, users repository.UserRepository, log *zap.Logger) *Service {
	return &Service{grants: grants, users: users, log: log}
}

// Grant inserts the requested grants that do not already exist and returns
// exactly the inserted rows. The whole call is all-or-nothing: an entry email
// that fails to resolve aborts before any mutation, and the batched insert
// runs in one transaction.
func (s *Service) Grant(ctx context.Context, kind permission.ResourceKind, resourceID uuid.UUID, entries []permission.Entry, actingSubject uuid.UUID) ([]*permission.Grant, error) {
	if err := validateInput(resourceID, entries); err != nil {
		return nil, err
	}

	var toInsert []permission.Grant
	for _, entry := range entries {
		subjectID, err := s.resolveSubject(ctx, entry.Email)
		if err != nil {
			return nil, err
		}

		existing, err := s.grants.Search(ctx, kind, permission.Filter{
			ResourceIDs: []uuid.UUID{resourceID},
			SubjectIDs:  []uuid.UUID{subjectID},
		})
		if err != nil {
			return nil, err
		}

		for _, raw := range entry.Permissions {
			code, ok := permission.Normalize(raw)
			if !ok {
				continue // invalid codes are silently dropped
			}
			if hasTriple(existing, subjectID, code) {
				continue // already granted; idempotent no-op
			}
			if hasPending(toInsert, subjectID, code) {
				continue
			}
			toInsert = append(toInsert, permission.Grant{
				SubjectID:  subjectID,
				ResourceID: resourceID,
				PermCode:   code,
				CreatedBy:  actingSubject,
			})
		}
	}

	if len(toInsert) == 0 {
		return nil, nil
	}

	inserted, err := s.grants.InsertBatch(ctx, kind, toInsert)
	if err != nil {
		return nil, err
	}

	s.log.Info("permissions granted",
		zap.String("kind", string(kind)),
		zap.String("resource", resourceID.String()),
		zap.Int("count", len(inserted)))

	return inserted, nil
}

// GrantCreator gives a resource creator the full permission set. Used on
// bucket and object creation.
func (s *Service) GrantCreator(ctx context.Context, kind permission.ResourceKind, resourceID, subjectID uuid.UUID) ([]*permission.Grant, error) {
	if subjectID == uuid.Nil {
		// System-attributed writes have no subject to grant to.
		return nil, nil
	}

	codes := permission.Codes()
	toInsert := make([]permission.Grant, 0, len(codes))
	for _, code := range codes {
		toInsert = append(toInsert, permission.Grant{
			SubjectID:  subjectID,
			ResourceID: resourceID,
			PermCode:   code,
			CreatedBy:  subjectID,
		})
	}

	return s.grants.InsertBatch(ctx, kind, toInsert)
}

// Revoke deletes exactly the requested triples and returns the rows that
// were actually removed. Triples that match nothing are not an error.
func (s *Service) Revoke(ctx context.Context, kind permission.ResourceKind, resourceID uuid.UUID, entries []permission.Entry) ([]*permission.Grant, error) {
	if err := validateInput(resourceID, entries); err != nil {
		return nil, err
	}

	var triples []permission.Triple
	for _, entry := range entries {
		subjectID, err := s.resolveSubject(ctx, entry.Email)
		if err != nil {
			return nil, err
		}

		for _, raw := range entry.Permissions {
			code, ok := permission.Normalize(raw)
			if !ok {
				continue
			}
			triples = append(triples, permission.Triple{
				SubjectID:  subjectID,
				ResourceID: resourceID,
				PermCode:   code,
			})
		}
	}

	deleted, err := s.grants.DeleteTriples(ctx, kind, triples)
	if err != nil {
		return nil, err
	}

	s.log.Info("permissions revoked",
		zap.String("kind", string(kind)),
		zap.String("resource", resourceID.String()),
		zap.Int("count", len(deleted)))

	return deleted, nil
}

// Search filters grants by the given criteria; absent filter fields impose
// no restriction.
func (s *Service) Search(ctx context.Context, kind permission.ResourceKind, filter permission.Filter) ([]*permission.Grant, error) {
	return s.grants.Search(ctx, kind, filter)
}

func (s *Service) resolveSubject(ctx context.Context, email string) (uuid.UUID, error) {
	if err := validator.Email(email); err != nil {
		return uuid.Nil, apperrors.Validation(msgInvalidEntries)
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		// The message stays generic: it must not reveal whether the email
		// belongs to a known subject.
		return uuid.Nil, apperrors.Validation(msgUnknownEmail)
	}
	return u.SubjectID, nil
}

func validateInput(resourceID uuid.UUID, entries []permission.Entry) error {
	if resourceID == uuid.Nil {
		return apperrors.Validation(msgInvalidResourceID)
	}
	if len(entries) == 0 {
		return apperrors.Validation(msgInvalidEntries)
	}
	return nil
}

func hasTriple(grants []*permission.Grant, subjectID uuid.UUID, code permission.Code) bool {
	for _, g := range grants {
		if g.SubjectID == subjectID && g.PermCode == code {
			return true
		}
	}
	return false
}

func hasPending(pending []permission.Grant, subjectID uuid.UUID, code permission.Code) bool {
	for _, g := range pending {
		if g.SubjectID == subjectID && g.PermCode == code {
			return true
		}
	}
	return false
}
