package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"object-gateway/internal/domain/object"
	apperrors "object-gateway/pkg/errors"
)

type ObjectRepository struct {
	db *DB
}

func NewObjectRepository(db *DB) *ObjectRepository {
	return &ObjectRepository{db: db}
}

func (r *ObjectRepository) Create(ctx context.Context, input object.CreateObjectInput) (*object.Object, error) {
	query := `
		INSERT INTO objects (id, bucket_id, path, public, active, created_by)
		VALUES ($1, $2, $3, $4, true, $5)
		RETURNING id, bucket_id, path, public, active, created_by, created_at, updated_by, updated_at
	`

	o := &object.Object{}
	err := r.db.Pool.QueryRow(ctx, query, input.ID, input.BucketID, input.Path, input.Public, input.CreatedBy).Scan(
		&o.ID, &o.BucketID, &o.Path, &o.Public, &o.Active, &o.CreatedBy, &o.CreatedAt, &o.UpdatedBy, &o.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict("object already exists at this path")
		}
		return nil, errFailedCreateObject(err)
	}

	return o, nil
}

func (r *ObjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*object.Object, error) {
	query := `
		SELECT id, bucket_id, path, public, active, created_by, created_at, updated_by, updated_at
		FROM objects
		WHERE id = $1 AND active = true
	`

	o := &object.Object{}
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&o.ID, &o.BucketID, &o.Path, &o.Public, &o.Active, &o.CreatedBy, &o.CreatedAt, &o.UpdatedBy, &o.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errObjectNotFound)
		}
		return nil, errFailedGetObject(err)
	}

	return o, nil
}

func (r *ObjectRepository) UpdatePublic(ctx context.Context, id uuid.UUID, public bool, updatedBy uuid.UUID) (*object.Object, error) {
	query := `
		UPDATE objects
		SET public = $2, updated_by = $3, updated_at = NOW()
		WHERE id = $1 AND active = true
		RETURNING id, bucket_id, path, public, active, created_by, created_at, updated_by, updated_at
	`

	o := &object.Object{}
	err := r.db.Pool.QueryRow(ctx, query, id, public, updatedBy).Scan(
		&o.ID, &o.BucketID, &o.Path, &o.Public, &o.Active, &o.CreatedBy, &o.CreatedAt, &o.UpdatedBy, &o.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errObjectNotFound)
		}
		return nil, errFailedUpdateObject(err)
	}

	return o, nil
}

func (r *ObjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	// Versions and grants cascade via FK.
	query := "DELETE FROM objects WHERE id = $1"
	result, err := r.db.Pool.Exec(ctx, query, id)
	if err != nil {
		return errFailedDeleteObject(err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NotFound(errObjectNotFound)
	}

	return nil
}
