package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"object-gateway/internal/domain/bucket"
	apperrors "object-gateway/pkg/errors"
)

type BucketRepository struct {
	db *DB
}

func NewBucketRepository(db *DB) *BucketRepository {
	return &BucketRepository{db: db}
}

func (r *BucketRepository) Create(ctx context.Context, input bucket.CreateBucketInput) (*bucket.Bucket, error) {
	query := `
		INSERT INTO buckets (id, bucket_name, endpoint, key_prefix, public, active, created_by)
		VALUES ($1, $2, $3, $4, $5, true, $6)
		RETURNING id, bucket_name, endpoint, key_prefix, public, active, created_by, created_at, updated_by, updated_at
	`

	b := &bucket.Bucket{}
	err := r.db.Pool.QueryRow(ctx, query, uuid.New(), input.BucketName, input.Endpoint, input.KeyPrefix, input.Public, input.CreatedBy).Scan(
		&b.ID, &b.BucketName, &b.Endpoint, &b.KeyPrefix, &b.Public, &b.Active, &b.CreatedBy, &b.CreatedAt, &b.UpdatedBy, &b.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict("bucket already exists for this endpoint and prefix")
		}
		return nil, errFailedCreateBucket(err)
	}

	return b, nil
}

func (r *BucketRepository) GetByID(ctx context.Context, id uuid.UUID) (*bucket.Bucket, error) {
	query := `
		SELECT id, bucket_name, endpoint, key_prefix, public, active, created_by, created_at, updated_by, updated_at
		FROM buckets
		WHERE id = $1 AND active = true
	`

	b := &bucket.Bucket{}
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&b.ID, &b.BucketName, &b.Endpoint, &b.KeyPrefix, &b.Public, &b.Active, &b.CreatedBy, &b.CreatedAt, &b.UpdatedBy, &b.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NotFound(errBucketNotFound)
		}
		return nil, errFailedGetBucket(err)
	}

	return b, nil
}

func (r *BucketRepository) Delete(ctx context.Context, id uuid.UUID) error {
	// Grants cascade via FK.
	query := "DELETE FROM buckets WHERE id = $1"
	result, err := r.db.Pool.Exec(ctx, query, id)
	if err != nil {
		return errFailedDeleteBucket(err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.NotFound(errBucketNotFound)
	}

	return nil
}
