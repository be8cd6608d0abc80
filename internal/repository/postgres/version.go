package postgres

import (
	"context"

	"github.com/google/uuid"

	"object-gateway/internal/domain/object"
)

type VersionRepository struct {
	db *DB
}

func NewVersionRepository(db *DB) *VersionRepository {
	return &VersionRepository{db: db}
}

const versionColumns = "id, object_id, provider_version_id, original_name, mime_type, delete_marker, created_by, created_at"

func (r *VersionRepository) Append(ctx context.Context, v object.Version) (*object.Version, error) {
	query := `
		INSERT INTO versions (id, object_id, provider_version_id, original_name, mime_type, delete_marker, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + versionColumns

	out := &object.Version{}
	err := r.db.Pool.QueryRow(ctx, query,
		uuid.New(), v.ObjectID, v.ProviderVersionID, v.OriginalName, v.MimeType, v.DeleteMarker, v.CreatedBy,
	).Scan(
		&out.ID, &out.ObjectID, &out.ProviderVersionID, &out.OriginalName, &out.MimeType, &out.DeleteMarker, &out.CreatedBy, &out.CreatedAt,
	)
	if err != nil {
		return nil, errFailedAppendVersion(err)
	}

	return out, nil
}

func (r *VersionRepository) UpsertNull(ctx context.Context, v object.Version) (*object.Version, error) {
	// An unversioned provider keeps exactly one record per object, with a
	// NULL provider version. Overwrite it in place; create it on first write.
	query := `
		INSERT INTO versions (id, object_id, provider_version_id, original_name, mime_type, delete_marker, created_by)
		VALUES ($1, $2, NULL, $3, $4, false, $5)
		ON CONFLICT (object_id) WHERE provider_version_id IS NULL
		DO UPDATE SET original_name = EXCLUDED.original_name,
		              mime_type = EXCLUDED.mime_type,
		              created_by = EXCLUDED.created_by
		RETURNING ` + versionColumns

	out := &object.Version{}
	err := r.db.Pool.QueryRow(ctx, query,
		uuid.New(), v.ObjectID, v.OriginalName, v.MimeType, v.CreatedBy,
	).Scan(
		&out.ID, &out.ObjectID, &out.ProviderVersionID, &out.OriginalName, &out.MimeType, &out.DeleteMarker, &out.CreatedBy, &out.CreatedAt,
	)
	if err != nil {
		return nil, errFailedUpsertVersion(err)
	}

	return out, nil
}

func (r *VersionRepository) DeleteByProviderVersion(ctx context.Context, objectID uuid.UUID, providerVersionID string) (int64, error) {
	query := "DELETE FROM versions WHERE object_id = $1 AND provider_version_id = $2"
	result, err := r.db.Pool.Exec(ctx, query, objectID, providerVersionID)
	if err != nil {
		return 0, errFailedDeleteVersion(err)
	}

	return result.RowsAffected(), nil
}

func (r *VersionRepository) CountByObject(ctx context.Context, objectID uuid.UUID) (int64, error) {
	var count int64
	query := "SELECT COUNT(*) FROM versions WHERE object_id = $1"
	if err := r.db.Pool.QueryRow(ctx, query, objectID).Scan(&count); err != nil {
		return 0, errFailedCountVersions(err)
	}

	return count, nil
}

func (r *VersionRepository) ListByObject(ctx context.Context, objectID uuid.UUID) ([]*object.Version, error) {
	query := `
		SELECT ` + versionColumns + `
		FROM versions
		WHERE object_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.Pool.Query(ctx, query, objectID)
	if err != nil {
		return nil, errFailedListVersions(err)
	}
	defer rows.Close()

	var versions []*object.Version
	for rows.Next() {
		v := &object.Version{}
		if err := rows.Scan(&v.ID, &v.ObjectID, &v.ProviderVersionID, &v.OriginalName, &v.MimeType, &v.DeleteMarker, &v.CreatedBy, &v.CreatedAt); err != nil {
			return nil, errFailedScanVersion(err)
		}
		versions = append(versions, v)
	}

	return versions, rows.Err()
}
