package buckets

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"object-gateway/internal/domain/bucket"
	"object-gateway/internal/domain/permission"
	"object-gateway/internal/domain/user"
	"object-gateway/internal/perms"
	"object-gateway/internal/storage"
	apperrors "object-gateway/pkg/errors"
	"object-gateway/pkg/logger"
)

type fakeProvider struct {
	storage.Provider
	created   []string
	createErr error
}

func (f *fakeProvider) CreateBucket(ctx context.Context, name string) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, name)
	return nil
}

type memBucketRepo struct {
	rows map[uuid.UUID]*bucket.Bucket
}

func newMemBucketRepo() *memBucketRepo {
	return &memBucketRepo{rows: map[uuid.UUID]*bucket.Bucket{}}
}

func (m *memBucketRepo) Create(ctx context.Context, input bucket.CreateBucketInput) (*bucket.Bucket, error) {
	b := &bucket.Bucket{
		ID:         uuid.New(),
		BucketName: input.BucketName,
		Endpoint:   input.Endpoint,
		KeyPrefix:  input.KeyPrefix,
		Public:     input.Public,
		Active:     true,
		CreatedBy:  input.CreatedBy,
	}
	m.rows[b.ID] = b
	return b, nil
}

func (m *memBucketRepo) GetByID(ctx context.Context, id uuid.UUID) (*bucket.Bucket, error) {
	b, ok := m.rows[id]
	if !ok {
		return nil, apperrors.NotFound("bucket not found")
	}
	return b, nil
}

func (m *memBucketRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(m.rows, id)
	return nil
}

type memGrantRepo struct {
	rows []*permission.Grant
}

func (m *memGrantRepo) Search(ctx context.Context, kind permission.ResourceKind, filter permission.Filter) ([]*permission.Grant, error) {
	return m.rows, nil
}

func (m *memGrantRepo) InsertBatch(ctx context.Context, kind permission.ResourceKind, grants []permission.Grant) ([]*permission.Grant, error) {
	var inserted []*permission.Grant
	for _, g := range grants {
		g := g
		g.ID = uuid.New()
		m.rows = append(m.rows, &g)
		inserted = append(inserted, &g)
	}
	return inserted, nil
}

func (m *memGrantRepo) DeleteTriples(ctx context.Context, kind permission.ResourceKind, triples []permission.Triple) ([]*permission.Grant, error) {
	return nil, nil
}

type noUserRepo struct{}

func (noUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return nil, apperrors.NotFound("user not found")
}

func newTestService(provider *fakeProvider) (*Service, *memBucketRepo, *memGrantRepo) {
	log := logger.NewNop()
	repo := newMemBucketRepo()
	grants := &memGrantRepo{}
	permSvc := perms.NewService(grants, noUserRepo{}, log)
	return NewService(provider, repo, permSvc, log), repo, grants
}

func TestCreateProvisionsAndGrants(t *testing.T) {
	provider := &fakeProvider{}
	svc, repo, grants := newTestService(provider)
	creator := uuid.New()

	b, err := svc.Create(context.Background(), bucket.CreateBucketInput{
		BucketName: "tenant-data",
		KeyPrefix:  "tenant-a",
		CreatedBy:  creator,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"tenant-data"}, provider.created)
	assert.Len(t, repo.rows, 1)
	assert.Len(t, grants.rows, len(permission.Codes()))
	assert.Equal(t, creator, b.CreatedBy)
}

func TestCreateRejectsInvalidName(t *testing.T) {
	provider := &fakeProvider{}
	svc, repo, _ := newTestService(provider)

	for _, name := range []string{"", "UPPER", "-leading"} {
		_, err := svc.Create(context.Background(), bucket.CreateBucketInput{
			BucketName: name,
			CreatedBy:  uuid.New(),
		})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	}

	assert.Empty(t, provider.created)
	assert.Empty(t, repo.rows)
}

func TestCreateProviderFailure(t *testing.T) {
	provider := &fakeProvider{createErr: errors.New("endpoint unreachable")}
	svc, repo, _ := newTestService(provider)

	_, err := svc.Create(context.Background(), bucket.CreateBucketInput{
		BucketName: "tenant-data",
		CreatedBy:  uuid.New(),
	})

	assert.ErrorIs(t, err, apperrors.ErrProvider)
	assert.Empty(t, repo.rows)
}

func TestRead(t *testing.T) {
	svc, _, _ := newTestService(&fakeProvider{})

	b, err := svc.Create(context.Background(), bucket.CreateBucketInput{
		BucketName: "tenant-data",
		CreatedBy:  uuid.New(),
	})
	require.NoError(t, err)

	got, err := svc.Read(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	_, err = svc.Read(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
