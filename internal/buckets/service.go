// Package buckets manages bucket metadata and provider-side bucket creation.
package buckets

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"object-gateway/internal/domain/bucket"
	"object-gateway/internal/domain/permission"
	"object-gateway/internal/perms"
	"object-gateway/internal/repository"
	"object-gateway/internal/storage"
	apperrors "object-gateway/pkg/errors"
	"object-gateway/pkg/validator"
)

type Service struct {
	provider storage.Provider
	buckets  repository.BucketRepository
	perms    *perms.Service
	log      *zap.Logger
}

func NewService(provider storage.Provider, buckets repository.BucketRepository, permSvc *perms.Service, log *zap.Logger) *Service {
	return &Service{provider: provider, buckets: buckets, perms: permSvc, log: log}
}

// Create provisions the bucket at the provider, records the metadata row and
// grants the creator the full permission set.
func (s *Service) Create(ctx context.Context, input bucket.CreateBucketInput) (*bucket.Bucket, error) {
	if err := validator.BucketName(input.BucketName); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	if err := validator.KeyPrefix(input.KeyPrefix); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	if err := s.provider.CreateBucket(ctx, input.BucketName); err != nil {
		return nil, apperrors.Provider("createBucket", err)
	}

	b, err := s.buckets.Create(ctx, input)
	if err != nil {
		return nil, err
	}

	if _, err := s.perms.GrantCreator(ctx, permission.KindBucket, b.ID, input.CreatedBy); err != nil {
		s.log.Warn("creator auto-grant failed",
			zap.String("bucket", b.ID.String()), zap.Error(err))
	}

	return b, nil
}

func (s *Service) Read(ctx context.Context, id uuid.UUID) (*bucket.Bucket, error) {
	return s.buckets.GetByID(ctx, id)
}
