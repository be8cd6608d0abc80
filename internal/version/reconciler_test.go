package version

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"object-gateway/internal/domain/object"
	"object-gateway/internal/storage"
	"object-gateway/pkg/logger"
)

type memVersionRepo struct {
	rows []*object.Version
	err  error
}

func (m *memVersionRepo) Append(ctx context.Context, v object.Version) (*object.Version, error) {
	if m.err != nil {
		return nil, m.err
	}
	v.ID = uuid.New()
	m.rows = append(m.rows, &v)
	return &v, nil
}

func (m *memVersionRepo) UpsertNull(ctx context.Context, v object.Version) (*object.Version, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i, existing := range m.rows {
		if existing.ObjectID == v.ObjectID && existing.ProviderVersionID == nil {
			v.ID = existing.ID
			m.rows[i] = &v
			return &v, nil
		}
	}
	v.ID = uuid.New()
	m.rows = append(m.rows, &v)
	return &v, nil
}

func (m *memVersionRepo) DeleteByProviderVersion(ctx context.Context, objectID uuid.UUID, providerVersionID string) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	var kept []*object.Version
	var removed int64
	for _, v := range m.rows {
		if v.ObjectID == objectID && v.ProviderVersionID != nil && *v.ProviderVersionID == providerVersionID {
			removed++
			continue
		}
		kept = append(kept, v)
	}
	m.rows = kept
	return removed, nil
}

func (m *memVersionRepo) CountByObject(ctx context.Context, objectID uuid.UUID) (int64, error) {
	var n int64
	for _, v := range m.rows {
		if v.ObjectID == objectID {
			n++
		}
	}
	return n, nil
}

func (m *memVersionRepo) ListByObject(ctx context.Context, objectID uuid.UUID) ([]*object.Version, error) {
	var out []*object.Version
	for _, v := range m.rows {
		if v.ObjectID == objectID {
			out = append(out, v)
		}
	}
	return out, nil
}

type memObjectRepo struct {
	deleted []uuid.UUID
	err     error
}

func (m *memObjectRepo) Create(ctx context.Context, input object.CreateObjectInput) (*object.Object, error) {
	return &object.Object{ID: input.ID, BucketID: input.BucketID, Path: input.Path}, nil
}

func (m *memObjectRepo) GetByID(ctx context.Context, id uuid.UUID) (*object.Object, error) {
	return &object.Object{ID: id}, nil
}

func (m *memObjectRepo) UpdatePublic(ctx context.Context, id uuid.UUID, public bool, updatedBy uuid.UUID) (*object.Object, error) {
	return &object.Object{ID: id, Public: public, UpdatedBy: &updatedBy}, nil
}

func (m *memObjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.err != nil {
		return m.err
	}
	m.deleted = append(m.deleted, id)
	return nil
}

func newTestReconciler() (*Reconciler, *memVersionRepo, *memObjectRepo) {
	versions := &memVersionRepo{}
	objects := &memObjectRepo{}
	return NewReconciler(versions, objects, logger.NewNop()), versions, objects
}

func seedVersion(repo *memVersionRepo, objectID uuid.UUID, providerVersionID string) {
	v := &object.Version{ID: uuid.New(), ObjectID: objectID}
	if providerVersionID != "" {
		id := providerVersionID
		v.ProviderVersionID = &id
	}
	repo.rows = append(repo.rows, v)
}

func TestReconcileWriteVersionedAppends(t *testing.T) {
	r, versions, _ := newTestReconciler()
	objectID := uuid.New()

	for _, token := range []string{"v1", "v2"} {
		v, err := r.ReconcileWrite(context.Background(), objectID,
			&storage.PutResult{VersionID: token}, WriteMeta{OriginalName: "report.pdf"}, uuid.New())
		require.NoError(t, err)
		require.NotNil(t, v.ProviderVersionID)
		assert.Equal(t, token, *v.ProviderVersionID)
	}

	assert.Len(t, versions.rows, 2)
}

func TestReconcileWriteUnversionedConverges(t *testing.T) {
	r, versions, _ := newTestReconciler()
	objectID := uuid.New()

	_, err := r.ReconcileWrite(context.Background(), objectID,
		&storage.PutResult{}, WriteMeta{MimeType: "text/plain"}, uuid.New())
	require.NoError(t, err)

	// A second overwrite replaces the null-version record instead of
	// accumulating rows.
	_, err = r.ReconcileWrite(context.Background(), objectID,
		&storage.PutResult{}, WriteMeta{MimeType: "text/html"}, uuid.New())
	require.NoError(t, err)

	require.Len(t, versions.rows, 1)
	assert.Nil(t, versions.rows[0].ProviderVersionID)
	assert.Equal(t, "text/html", versions.rows[0].MimeType)
}

func TestReconcileWriteLedgerFailure(t *testing.T) {
	versions := &memVersionRepo{err: errors.New("connection refused")}
	r := NewReconciler(versions, &memObjectRepo{}, logger.NewNop())

	_, err := r.ReconcileWrite(context.Background(), uuid.New(),
		&storage.PutResult{VersionID: "v1"}, WriteMeta{}, uuid.New())
	assert.Error(t, err)
}

func TestReconcileDeleteMarkerAppendsTombstone(t *testing.T) {
	r, versions, objects := newTestReconciler()
	objectID := uuid.New()
	seedVersion(versions, objectID, "v1")

	outcome, err := r.ReconcileDelete(context.Background(), objectID, "",
		&storage.DeleteResult{DeleteMarker: true, VersionID: "v2"}, uuid.New())
	require.NoError(t, err)

	assert.False(t, outcome.ObjectDeleted)
	require.NotNil(t, outcome.Version)
	assert.True(t, outcome.Version.DeleteMarker)
	assert.Len(t, versions.rows, 2)
	assert.Empty(t, objects.deleted)
}

func TestReconcileHardDeleteRemovesObject(t *testing.T) {
	r, versions, objects := newTestReconciler()
	objectID := uuid.New()
	seedVersion(versions, objectID, "")

	outcome, err := r.ReconcileDelete(context.Background(), objectID, "",
		&storage.DeleteResult{Deleted: true}, uuid.New())
	require.NoError(t, err)

	assert.True(t, outcome.ObjectDeleted)
	assert.Nil(t, outcome.Version)
	assert.Equal(t, []uuid.UUID{objectID}, objects.deleted)
}

func TestReconcileVersionDeleteKeepsObjectWhileVersionsRemain(t *testing.T) {
	r, versions, objects := newTestReconciler()
	objectID := uuid.New()
	seedVersion(versions, objectID, "v1")
	seedVersion(versions, objectID, "v2")

	outcome, err := r.ReconcileDelete(context.Background(), objectID, "v1",
		&storage.DeleteResult{Deleted: true, VersionID: "v1"}, uuid.New())
	require.NoError(t, err)

	assert.False(t, outcome.ObjectDeleted)
	assert.Len(t, versions.rows, 1)
	assert.Empty(t, objects.deleted)
}

func TestReconcileVersionDeleteConvergesOnZeroVersions(t *testing.T) {
	r, versions, objects := newTestReconciler()
	objectID := uuid.New()
	seedVersion(versions, objectID, "v1")

	outcome, err := r.ReconcileDelete(context.Background(), objectID, "v1",
		&storage.DeleteResult{Deleted: true, VersionID: "v1"}, uuid.New())
	require.NoError(t, err)

	// The last version is gone, so the object row must go with it.
	assert.True(t, outcome.ObjectDeleted)
	assert.Empty(t, versions.rows)
	assert.Equal(t, []uuid.UUID{objectID}, objects.deleted)
}

func TestVersionsListsLedger(t *testing.T) {
	r, versions, _ := newTestReconciler()
	objectID := uuid.New()
	seedVersion(versions, objectID, "v1")
	seedVersion(versions, uuid.New(), "other")

	out, err := r.Versions(context.Background(), objectID)
	require.NoError(t, err)
	assert.Len(t, out, 1)
}
