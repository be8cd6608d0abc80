package repository

import (
	"context"

	"github.com/google/uuid"

	"object-gateway/internal/domain/bucket"
	"object-gateway/internal/domain/object"
	"object-gateway/internal/domain/permission"
	"object-gateway/internal/domain/user"
)

// Consumer-side interfaces the services and the decision engine depend on.
// The postgres package provides the concrete implementations.

type UserRepository interface {
	// GetByEmail resolves a grant addressee. Unknown emails return
	// apperrors.ErrNotFound.
	GetByEmail(ctx context.Context, email string) (*user.User, error)
}

type BucketRepository interface {
	Create(ctx context.Context, input bucket.CreateBucketInput) (*bucket.Bucket, error)
	GetByID(ctx context.Context, id uuid.UUID) (*bucket.Bucket, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ObjectRepository interface {
	Create(ctx context.Context, input object.CreateObjectInput) (*object.Object, error)
	GetByID(ctx context.Context, id uuid.UUID) (*object.Object, error)
	// UpdatePublic flips the visibility flag and records who changed it.
	UpdatePublic(ctx context.Context, id uuid.UUID, public bool, updatedBy uuid.UUID) (*object.Object, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type VersionRepository interface {
	// Append adds a new version record; each write against a versioned
	// provider produces one.
	Append(ctx context.Context, v object.Version) (*object.Version, error)
	// UpsertNull overwrites the single null-version record an unversioned
	// provider maintains, creating it if absent.
	UpsertNull(ctx context.Context, v object.Version) (*object.Version, error)
	// DeleteByProviderVersion removes exactly the record carrying the given
	// provider version token. Returns the number of rows removed.
	DeleteByProviderVersion(ctx context.Context, objectID uuid.UUID, providerVersionID string) (int64, error)
	CountByObject(ctx context.Context, objectID uuid.UUID) (int64, error)
	ListByObject(ctx context.Context, objectID uuid.UUID) ([]*object.Version, error)
}

type GrantRepository interface {
	Search(ctx context.Context, kind permission.ResourceKind, filter permission.Filter) ([]*permission.Grant, error)
	// InsertBatch inserts all grants in one transaction. Duplicate triples
	// are ignored at the storage layer (unique index + conflict-ignore), so
	// concurrent identical grants converge to one row.
	InsertBatch(ctx context.Context, kind permission.ResourceKind, grants []permission.Grant) ([]*permission.Grant, error)
	// DeleteTriples removes exactly the given triples and returns the rows
	// actually deleted.
	DeleteTriples(ctx context.Context, kind permission.ResourceKind, triples []permission.Triple) ([]*permission.Grant, error)
}
