// Package version keeps the local version ledger convergent with
// provider-side object state.
package version

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"object-gateway/internal/domain/object"
	"object-gateway/internal/repository"
	"object-gateway/internal/storage"
)

// WriteMeta is the request-side metadata recorded with a version.
type WriteMeta struct {
	OriginalName string
	MimeType     string
}

// DeleteOutcome reports what a delete transition did to local state.
type DeleteOutcome struct {
	// ObjectDeleted is true when the object metadata row was removed,
	// either by a hard provider delete or because zero versions remained.
	ObjectDeleted bool `json:"objectDeleted"`
	// Version is the tombstone record appended for a delete-marker result,
	// nil otherwise.
	Version *object.Version `json:"version,omitempty"`
}

// Reconciler applies provider write/delete results to the version ledger.
// Callers invoke it only after the provider call succeeded; a provider
// failure must abort before any ledger mutation.
type Reconciler struct {
	versions repository.VersionRepository
	objects  repository.ObjectRepository
	log      *zap.Logger
}

func NewReconciler(versions repository.VersionRepository, objects repository.ObjectRepository, log *zap.Logger) *Reconciler {
	return &Reconciler{versions: versions, objects: objects, log: log}
}

// ReconcileWrite records a successful provider write. A versioned provider
// reports a fresh version token and the ledger appends; an unversioned one
// reports none and the single null-version record is overwritten in place.
//
// A ledger failure here is a reportable inconsistency: the provider write
// already landed and is not compensated.
func (r *Reconciler) ReconcileWrite(ctx context.Context, objectID uuid.UUID, result *storage.PutResult, meta WriteMeta, actor uuid.UUID) (*object.Version, error) {
	record := object.Version{
		ObjectID:     objectID,
		OriginalName: meta.OriginalName,
		MimeType:     meta.MimeType,
		CreatedBy:    actor,
	}

	var (
		v   *object.Version
		err error
	)
	if result.Versioned() {
		versionID := result.VersionID
		record.ProviderVersionID = &versionID
		v, err = r.versions.Append(ctx, record)
	} else {
		v, err = r.versions.UpsertNull(ctx, record)
	}

	if err != nil {
		r.logInconsistency(objectID, "write landed at provider but ledger update failed", err)
		return nil, err
	}

	return v, nil
}

// ReconcileDelete records a successful provider delete.
//
// With an explicit requested version, exactly that ledger record is removed;
// the object row follows once zero records remain. Without one, a
// delete-marker result appends a tombstone record and keeps the object row,
// while a hard deletion removes the object row outright.
func (r *Reconciler) ReconcileDelete(ctx context.Context, objectID uuid.UUID, requestedVersion string, result *storage.DeleteResult, actor uuid.UUID) (*DeleteOutcome, error) {
	if requestedVersion != "" {
		return r.reconcileVersionDelete(ctx, objectID, result)
	}

	if result.DeleteMarker {
		versionID := result.VersionID
		v, err := r.versions.Append(ctx, object.Version{
			ObjectID:          objectID,
			ProviderVersionID: &versionID,
			DeleteMarker:      true,
			CreatedBy:         actor,
		})
		if err != nil {
			r.logInconsistency(objectID, "delete marker recorded at provider but ledger append failed", err)
			return nil, err
		}
		return &DeleteOutcome{Version: v}, nil
	}

	if err := r.objects.Delete(ctx, objectID); err != nil {
		r.logInconsistency(objectID, "object deleted at provider but metadata removal failed", err)
		return nil, err
	}
	return &DeleteOutcome{ObjectDeleted: true}, nil
}

func (r *Reconciler) reconcileVersionDelete(ctx context.Context, objectID uuid.UUID, result *storage.DeleteResult) (*DeleteOutcome, error) {
	if _, err := r.versions.DeleteByProviderVersion(ctx, objectID, result.VersionID); err != nil {
		r.logInconsistency(objectID, "version deleted at provider but ledger removal failed", err)
		return nil, err
	}

	remaining, err := r.versions.CountByObject(ctx, objectID)
	if err != nil {
		return nil, err
	}

	if remaining > 0 {
		return &DeleteOutcome{}, nil
	}

	// Convergence rule: the object row exists only while versions do.
	if err := r.objects.Delete(ctx, objectID); err != nil {
		r.logInconsistency(objectID, "last version removed but metadata removal failed", err)
		return nil, err
	}
	return &DeleteOutcome{ObjectDeleted: true}, nil
}

// Versions lists an object's ledger records ordered by creation.
func (r *Reconciler) Versions(ctx context.Context, objectID uuid.UUID) ([]*object.Version, error) {
	return r.versions.ListByObject(ctx, objectID)
}

func (r *Reconciler) logInconsistency(objectID uuid.UUID, msg string, err error) {
	// Ledger and provider may drift here; there is no compensating provider
	// call. Logged for operators, not retried.
	r.log.Warn("ledger inconsistency: "+msg,
		zap.String("object", objectID.String()),
		zap.Error(err))
}
