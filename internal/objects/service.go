// Package objects orchestrates object lifecycle: metadata rows, provider
// content and the version ledger.
package objects

import (
	"context"
	"io"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"object-gateway/internal/domain/object"
	"object-gateway/internal/domain/permission"
	"object-gateway/internal/perms"
	"object-gateway/internal/repository"
	"object-gateway/internal/storage"
	"object-gateway/internal/version"
	apperrors "object-gateway/pkg/errors"
	"object-gateway/pkg/validator"
)

const pathDelimiter = "/"

type Service struct {
	provider   storage.Provider
	objects    repository.ObjectRepository
	reconciler *version.Reconciler
	perms      *perms.Service
	keyPrefix  string
	log        *zap.Logger
}

func NewService(provider storage.Provider, objects repository.ObjectRepository, reconciler *version.Reconciler, permSvc *perms.Service, keyPrefix string, log *zap.Logger) *Service {
	return &Service{
		provider:   provider,
		objects:    objects,
		reconciler: reconciler,
		perms:      permSvc,
		keyPrefix:  keyPrefix,
		log:        log,
	}
}

type CreateInput struct {
	BucketID     uuid.UUID
	Body         io.Reader
	MimeType     string
	OriginalName string
	Metadata     map[string]string
	Public       bool
	Actor        uuid.UUID
}

type UpdateInput struct {
	Body         io.Reader
	MimeType     string
	OriginalName string
	Metadata     map[string]string
	Actor        uuid.UUID
}

type WriteResult struct {
	Object  *object.Object  `json:"object"`
	Version *object.Version `json:"version,omitempty"`
}

// Create stores new content at the provider, records the metadata row, the
// version record and the creator's full permission set.
func (s *Service) Create(ctx context.Context, input CreateInput) (*WriteResult, error) {
	if err := validator.ContentType(input.MimeType); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	objID := uuid.New()
	path := s.objectPath(objID)

	o, err := s.objects.Create(ctx, object.CreateObjectInput{
		ID:        objID,
		BucketID:  input.BucketID,
		Path:      path,
		Public:    input.Public,
		CreatedBy: input.Actor,
	})
	if err != nil {
		return nil, err
	}

	putResult, err := s.provider.Put(ctx, storage.PutInput{
		Path:         path,
		Body:         input.Body,
		MimeType:     input.MimeType,
		OriginalName: input.OriginalName,
		Metadata:     input.Metadata,
	})
	if err != nil {
		// The metadata row must not survive a write that never landed.
		if delErr := s.objects.Delete(ctx, objID); delErr != nil {
			s.log.Warn("failed to remove metadata row after provider write failure",
				zap.String("object", objID.String()), zap.Error(delErr))
		}
		return nil, apperrors.Provider("put", err)
	}

	v := s.reconcileWrite(ctx, objID, putResult, input.OriginalName, input.MimeType, input.Actor)

	if _, err := s.perms.GrantCreator(ctx, permission.KindObject, objID, input.Actor); err != nil {
		s.log.Warn("creator auto-grant failed",
			zap.String("object", objID.String()), zap.Error(err))
	}

	return &WriteResult{Object: o, Version: v}, nil
}

// Update writes new content at the object's existing path. A versioned
// provider appends to the ledger; an unversioned one overwrites the single
// null-version record.
func (s *Service) Update(ctx context.Context, objectID uuid.UUID, input UpdateInput) (*WriteResult, error) {
	if err := validator.ContentType(input.MimeType); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	o, err := s.objects.GetByID(ctx, objectID)
	if err != nil {
		return nil, err
	}

	putResult, err := s.provider.Put(ctx, storage.PutInput{
		Path:         o.Path,
		Body:         input.Body,
		MimeType:     input.MimeType,
		OriginalName: input.OriginalName,
		Metadata:     input.Metadata,
	})
	if err != nil {
		return nil, apperrors.Provider("put", err)
	}

	v := s.reconcileWrite(ctx, objectID, putResult, input.OriginalName, input.MimeType, input.Actor)

	return &WriteResult{Object: o, Version: v}, nil
}

// Delete removes content at the provider, then converges the ledger: an
// explicit version deletes one record (and the object once none remain), a
// delete marker appends a tombstone, a hard delete removes the object row.
func (s *Service) Delete(ctx context.Context, objectID uuid.UUID, requestedVersion string, actor uuid.UUID) (*version.DeleteOutcome, error) {
	o, err := s.objects.GetByID(ctx, objectID)
	if err != nil {
		return nil, err
	}

	delResult, err := s.provider.Delete(ctx, o.Path, requestedVersion)
	if err != nil {
		return nil, apperrors.Provider("delete", err)
	}

	outcome, err := s.reconciler.ReconcileDelete(ctx, objectID, requestedVersion, delResult, actor)
	if err != nil {
		// The provider delete already happened; report success with the
		// drift logged rather than masking it as a failed delete.
		return &version.DeleteOutcome{}, nil
	}

	return outcome, nil
}

// SetPublic flips the object's visibility flag. Public objects are readable
// without a grant, so the transport gates this on MANAGE.
func (s *Service) SetPublic(ctx context.Context, objectID uuid.UUID, public bool, actor uuid.UUID) (*object.Object, error) {
	return s.objects.UpdatePublic(ctx, objectID, public, actor)
}

// Read streams object content, optionally at a specific version.
func (s *Service) Read(ctx context.Context, objectID uuid.UUID, requestedVersion string) (*storage.GetResult, error) {
	o, err := s.objects.GetByID(ctx, objectID)
	if err != nil {
		return nil, err
	}

	result, err := s.provider.Get(ctx, o.Path, requestedVersion)
	if err != nil {
		return nil, apperrors.Provider("get", err)
	}

	return result, nil
}

// Head returns provider-side metadata for the object.
func (s *Service) Head(ctx context.Context, objectID uuid.UUID) (*storage.HeadResult, error) {
	o, err := s.objects.GetByID(ctx, objectID)
	if err != nil {
		return nil, err
	}

	result, err := s.provider.Head(ctx, o.Path)
	if err != nil {
		return nil, apperrors.Provider("head", err)
	}

	return result, nil
}

// Versions lists the object's ledger, oldest first.
func (s *Service) Versions(ctx context.Context, objectID uuid.UUID) ([]*object.Version, error) {
	if _, err := s.objects.GetByID(ctx, objectID); err != nil {
		return nil, err
	}
	return s.reconciler.Versions(ctx, objectID)
}

func (s *Service) reconcileWrite(ctx context.Context, objectID uuid.UUID, putResult *storage.PutResult, originalName, mimeType string, actor uuid.UUID) *object.Version {
	v, err := s.reconciler.ReconcileWrite(ctx, objectID, putResult, version.WriteMeta{
		OriginalName: originalName,
		MimeType:     mimeType,
	}, actor)
	if err != nil {
		// Content landed at the provider; the user-facing write succeeded.
		// The reconciler has logged the drift.
		return nil
	}
	return v
}

func (s *Service) objectPath(objectID uuid.UUID) string {
	prefix := strings.Trim(s.keyPrefix, pathDelimiter)
	if prefix == "" {
		return objectID.String()
	}
	return prefix + pathDelimiter + objectID.String()
}
