package authz

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"object-gateway/internal/auth"
	"object-gateway/internal/domain/permission"
	apperrors "object-gateway/pkg/errors"
	"object-gateway/pkg/logger"
)

type fakeGrantRepo struct {
	grants []*permission.Grant
	err    error
	calls  int
}

func (f *fakeGrantRepo) Search(ctx context.Context, kind permission.ResourceKind, filter permission.Filter) ([]*permission.Grant, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var out []*permission.Grant
	for _, g := range f.grants {
		if len(filter.ResourceIDs) > 0 && g.ResourceID != filter.ResourceIDs[0] {
			continue
		}
		if len(filter.SubjectIDs) > 0 && g.SubjectID != filter.SubjectIDs[0] {
			continue
		}
		out = append(out, g)
	}
	return out, nil
}

func (f *fakeGrantRepo) InsertBatch(ctx context.Context, kind permission.ResourceKind, grants []permission.Grant) ([]*permission.Grant, error) {
	return nil, nil
}

func (f *fakeGrantRepo) DeleteTriples(ctx context.Context, kind permission.ResourceKind, triples []permission.Triple) ([]*permission.Grant, error) {
	return nil, nil
}

func bearerSubject(id uuid.UUID) Subject {
	return Subject{ID: id, HasID: true, AuthType: auth.TypeBearer}
}

func TestDecideNoPermissionStore(t *testing.T) {
	e := NewEngine(auth.ModeFullAuth, nil, logger.NewNop())
	assert.NoError(t, e.Decide(context.Background(), Subject{}, nil, permission.CodeDelete))
}

func TestDecideModeWithoutOIDC(t *testing.T) {
	repo := &fakeGrantRepo{}
	for _, mode := range []auth.Mode{auth.ModeNoAuth, auth.ModeBasicAuth} {
		e := NewEngine(mode, repo, logger.NewNop())
		assert.NoError(t, e.Decide(context.Background(), Subject{}, nil, permission.CodeDelete))
	}
	assert.Zero(t, repo.calls)
}

func TestDecideMissingResource(t *testing.T) {
	e := NewEngine(auth.ModeFullAuth, &fakeGrantRepo{}, logger.NewNop())

	err := e.Decide(context.Background(), bearerSubject(uuid.New()), nil, permission.CodeRead)
	assert.ErrorIs(t, err, apperrors.ErrDenied)
}

// A missing resource and a missing grant must be indistinguishable to the
// caller, otherwise ids can be discovered by probing.
func TestDecideDenialsAreUniform(t *testing.T) {
	e := NewEngine(auth.ModeFullAuth, &fakeGrantRepo{}, logger.NewNop())
	subject := bearerSubject(uuid.New())

	missingResource := e.Decide(context.Background(), subject, nil, permission.CodeRead)
	missingGrant := e.Decide(context.Background(), subject, &Resource{ID: uuid.New(), Kind: permission.KindObject}, permission.CodeRead)

	assert.Equal(t, missingResource, missingGrant)
}

func TestDecideBasicAlwaysAllowed(t *testing.T) {
	e := NewEngine(auth.ModeFullAuth, &fakeGrantRepo{}, logger.NewNop())

	subject := Subject{AuthType: auth.TypeBasic}
	resource := &Resource{ID: uuid.New(), Kind: permission.KindObject}
	assert.NoError(t, e.Decide(context.Background(), subject, resource, permission.CodeDelete))
}

func TestDecidePublicRead(t *testing.T) {
	e := NewEngine(auth.ModeFullAuth, &fakeGrantRepo{}, logger.NewNop())
	resource := &Resource{ID: uuid.New(), Kind: permission.KindObject, Public: true}

	// Read on a public resource is open to anyone, even anonymous callers.
	assert.NoError(t, e.Decide(context.Background(), Subject{}, resource, permission.CodeRead))

	// Public never extends beyond read.
	err := e.Decide(context.Background(), Subject{}, resource, permission.CodeUpdate)
	assert.ErrorIs(t, err, apperrors.ErrDenied)
}

func TestDecideAnonymousDenied(t *testing.T) {
	e := NewEngine(auth.ModeFullAuth, &fakeGrantRepo{}, logger.NewNop())
	resource := &Resource{ID: uuid.New(), Kind: permission.KindObject}

	err := e.Decide(context.Background(), Subject{}, resource, permission.CodeRead)
	assert.ErrorIs(t, err, apperrors.ErrDenied)
}

func TestDecideGrantLookup(t *testing.T) {
	subjectID := uuid.New()
	resourceID := uuid.New()
	repo := &fakeGrantRepo{grants: []*permission.Grant{
		{SubjectID: subjectID, ResourceID: resourceID, PermCode: permission.CodeRead},
	}}
	e := NewEngine(auth.ModeFullAuth, repo, logger.NewNop())
	resource := &Resource{ID: resourceID, Kind: permission.KindObject}

	assert.NoError(t, e.Decide(context.Background(), bearerSubject(subjectID), resource, permission.CodeRead))

	err := e.Decide(context.Background(), bearerSubject(subjectID), resource, permission.CodeDelete)
	assert.ErrorIs(t, err, apperrors.ErrDenied)

	err = e.Decide(context.Background(), bearerSubject(uuid.New()), resource, permission.CodeRead)
	assert.ErrorIs(t, err, apperrors.ErrDenied)
}

func TestDecideLookupFailureDenies(t *testing.T) {
	repo := &fakeGrantRepo{err: errors.New("connection refused")}
	e := NewEngine(auth.ModeFullAuth, repo, logger.NewNop())
	resource := &Resource{ID: uuid.New(), Kind: permission.KindObject}

	err := e.Decide(context.Background(), bearerSubject(uuid.New()), resource, permission.CodeRead)
	assert.ErrorIs(t, err, apperrors.ErrDenied)
}
