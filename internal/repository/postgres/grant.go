package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"object-gateway/internal/domain/permission"
)

// GrantRepository serves both grant relations; bucket and object permissions
// share identical semantics over separate tables.
type GrantRepository struct {
	db *DB
}

func NewGrantRepository(db *DB) *GrantRepository {
	return &GrantRepository{db: db}
}

func grantTable(kind permission.ResourceKind) (table, resourceCol string) {
	if kind == permission.KindBucket {
		return "bucket_permissions", "bucket_id"
	}
	return "object_permissions", "object_id"
}

func (r *GrantRepository) Search(ctx context.Context, kind permission.ResourceKind, filter permission.Filter) ([]*permission.Grant, error) {
	table, resourceCol := grantTable(kind)

	query := fmt.Sprintf(
		"SELECT id, subject_id, %s, perm_code, created_by, created_at FROM %s",
		resourceCol, table,
	)

	var conditions []string
	var args []interface{}

	if len(filter.ResourceIDs) > 0 {
		args = append(args, filter.ResourceIDs)
		conditions = append(conditions, fmt.Sprintf("%s = ANY($%d)", resourceCol, len(args)))
	}
	if len(filter.SubjectIDs) > 0 {
		args = append(args, filter.SubjectIDs)
		conditions = append(conditions, fmt.Sprintf("subject_id = ANY($%d)", len(args)))
	}
	if len(filter.PermCodes) > 0 {
		codes := make([]string, len(filter.PermCodes))
		for i, c := range filter.PermCodes {
			codes[i] = string(c)
		}
		args = append(args, codes)
		conditions = append(conditions, fmt.Sprintf("perm_code = ANY($%d)", len(args)))
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at ASC"

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errFailedSearchGrants(err)
	}
	defer rows.Close()

	var grants []*permission.Grant
	for rows.Next() {
		g := &permission.Grant{}
		if err := rows.Scan(&g.ID, &g.SubjectID, &g.ResourceID, &g.PermCode, &g.CreatedBy, &g.CreatedAt); err != nil {
			return nil, errFailedScanGrant(err)
		}
		grants = append(grants, g)
	}

	return grants, rows.Err()
}

func (r *GrantRepository) InsertBatch(ctx context.Context, kind permission.ResourceKind, grants []permission.Grant) ([]*permission.Grant, error) {
	if len(grants) == 0 {
		return nil, nil
	}

	table, resourceCol := grantTable(kind)

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return nil, errFailedStartTransaction(err)
	}
	defer tx.Rollback(ctx)

	// Duplicate triples are a no-op, not an error; the unique index on
	// (subject_id, resource, perm_code) is what makes concurrent identical
	// grants converge.
	query := fmt.Sprintf(`
		INSERT INTO %s (id, subject_id, %s, perm_code, created_by)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (subject_id, %s, perm_code) DO NOTHING
		RETURNING id, subject_id, %s, perm_code, created_by, created_at
	`, table, resourceCol, resourceCol, resourceCol)

	var inserted []*permission.Grant
	for _, g := range grants {
		row := tx.QueryRow(ctx, query, uuid.New(), g.SubjectID, g.ResourceID, g.PermCode, g.CreatedBy)

		out := &permission.Grant{}
		err := row.Scan(&out.ID, &out.SubjectID, &out.ResourceID, &out.PermCode, &out.CreatedBy, &out.CreatedAt)
		if err != nil {
			if isNoRows(err) {
				continue // conflict, nothing inserted
			}
			return nil, errFailedInsertGrants(err)
		}
		inserted = append(inserted, out)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, errFailedCommitTransaction(err)
	}

	return inserted, nil
}

func (r *GrantRepository) DeleteTriples(ctx context.Context, kind permission.ResourceKind, triples []permission.Triple) ([]*permission.Grant, error) {
	if len(triples) == 0 {
		return nil, nil
	}

	table, resourceCol := grantTable(kind)

	placeholders := make([]string, len(triples))
	args := make([]interface{}, 0, len(triples)*3)
	for i, t := range triples {
		base := i * 3
		placeholders[i] = fmt.Sprintf("($%d, $%d, $%d)", base+1, base+2, base+3)
		args = append(args, t.SubjectID, t.ResourceID, t.PermCode)
	}

	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE (subject_id, %s, perm_code) IN (%s)
		RETURNING id, subject_id, %s, perm_code, created_by, created_at
	`, table, resourceCol, strings.Join(placeholders, ", "), resourceCol)

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errFailedDeleteGrants(err)
	}
	defer rows.Close()

	var deleted []*permission.Grant
	for rows.Next() {
		g := &permission.Grant{}
		if err := rows.Scan(&g.ID, &g.SubjectID, &g.ResourceID, &g.PermCode, &g.CreatedBy, &g.CreatedAt); err != nil {
			return nil, errFailedScanGrant(err)
		}
		deleted = append(deleted, g)
	}

	return deleted, rows.Err()
}
