package echo

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"object-gateway/internal/auth"
	"object-gateway/internal/authz"
	"object-gateway/internal/buckets"
	"object-gateway/internal/config"
	"object-gateway/internal/domain/object"
	"object-gateway/internal/domain/permission"
	"object-gateway/internal/domain/user"
	"object-gateway/internal/objects"
	"object-gateway/internal/perms"
	"object-gateway/internal/storage"
	"object-gateway/internal/version"
	apperrors "object-gateway/pkg/errors"
	"object-gateway/pkg/logger"
)

const serverTestSecret = "server-test-secret-32-characters!"

type stubProvider struct{}

func (stubProvider) Put(ctx context.Context, input storage.PutInput) (*storage.PutResult, error) {
	return &storage.PutResult{}, nil
}

func (stubProvider) Delete(ctx context.Context, path, versionID string) (*storage.DeleteResult, error) {
	return &storage.DeleteResult{Deleted: true}, nil
}

func (stubProvider) Get(ctx context.Context, path, versionID string) (*storage.GetResult, error) {
	return &storage.GetResult{Body: io.NopCloser(strings.NewReader(""))}, nil
}

func (stubProvider) Head(ctx context.Context, path string) (*storage.HeadResult, error) {
	return &storage.HeadResult{}, nil
}

func (stubProvider) CreateBucket(ctx context.Context, name string) error { return nil }

type fakeVersionRepo struct{}

func (fakeVersionRepo) Append(ctx context.Context, v object.Version) (*object.Version, error) {
	v.ID = uuid.New()
	return &v, nil
}

func (fakeVersionRepo) UpsertNull(ctx context.Context, v object.Version) (*object.Version, error) {
	v.ID = uuid.New()
	return &v, nil
}

func (fakeVersionRepo) DeleteByProviderVersion(ctx context.Context, objectID uuid.UUID, providerVersionID string) (int64, error) {
	return 0, nil
}

func (fakeVersionRepo) CountByObject(ctx context.Context, objectID uuid.UUID) (int64, error) {
	return 0, nil
}

func (fakeVersionRepo) ListByObject(ctx context.Context, objectID uuid.UUID) ([]*object.Version, error) {
	return nil, nil
}

type fakeUserRepo struct{}

func (fakeUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return nil, apperrors.NotFound("user not found")
}

func newTestServer(mode auth.Mode, grants *fakeGrantRepo, objectRepo *fakeObjectRepo, bucketRepo *fakeBucketRepo) *Server {
	log := logger.NewNop()
	resolver := auth.NewResolver(nil)
	verifier := auth.NewTokenVerifier(serverTestSecret)
	engine := authz.NewEngine(mode, grants, log)
	permSvc := perms.NewService(grants, fakeUserRepo{}, log)
	reconciler := version.NewReconciler(fakeVersionRepo{}, objectRepo, log)
	objSvc := objects.NewService(stubProvider{}, objectRepo, reconciler, permSvc, "tenant-a", log)
	bucketSvc := buckets.NewService(stubProvider{}, bucketRepo, permSvc, log)

	return NewServer(&ServerDependencies{
		Config: &config.Config{
			Server: config.ServerConfig{ReadTimeout: time.Second, WriteTimeout: time.Second},
			App:    config.AppConfig{RateLimitRPS: 1000, RateLimitBurst: 1000},
		},
		Mode:           mode,
		Resolver:       resolver,
		AuthMiddleware: auth.NewMiddleware(verifier, config.BasicAuthConfig{}),
		Engine:         engine,
		Buckets:        bucketSvc,
		Objects:        objSvc,
		Perms:          permSvc,
		BucketRepo:     bucketRepo,
		ObjectRepo:     objectRepo,
		Log:            log,
	})
}

func bearerFor(t *testing.T, subject uuid.UUID) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": subject.String(),
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(serverTestSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

func serve(srv *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)
	return rec
}

// The grant relation names subjects and resources, so searching it must not
// be open to anonymous callers in an enforcing mode.
func TestPermissionSearchRejectsAnonymous(t *testing.T) {
	grants := &fakeGrantRepo{rows: []*permission.Grant{
		{ID: uuid.New(), SubjectID: uuid.New(), ResourceID: uuid.New(), PermCode: permission.CodeManage},
	}}
	srv := newTestServer(auth.ModeOIDCAuth, grants, &fakeObjectRepo{}, &fakeBucketRepo{})

	for _, target := range []string{"/api/permission/bucket", "/api/permission/object"} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := serve(srv, req)

		assert.Equal(t, http.StatusForbidden, rec.Code, target)
		assert.Equal(t, msgDenied, denialBody(t, rec), target)
		assert.NotContains(t, rec.Body.String(), grants.rows[0].SubjectID.String(), target)
	}
}

func TestPermissionSearchAllowsAuthenticated(t *testing.T) {
	grants := &fakeGrantRepo{rows: []*permission.Grant{
		{ID: uuid.New(), SubjectID: uuid.New(), ResourceID: uuid.New(), PermCode: permission.CodeRead},
	}}
	srv := newTestServer(auth.ModeOIDCAuth, grants, &fakeObjectRepo{}, &fakeBucketRepo{})

	req := httptest.NewRequest(http.MethodGet, "/api/permission/bucket", nil)
	req.Header.Set("Authorization", bearerFor(t, uuid.New()))
	rec := serve(srv, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), grants.rows[0].SubjectID.String())
}

func TestSetPublicRouteRequiresManage(t *testing.T) {
	subject := uuid.New()
	objID := uuid.New()
	objectRepo := &fakeObjectRepo{rows: map[uuid.UUID]*object.Object{
		objID: {ID: objID},
	}}

	// No MANAGE grant: uniform denial, flag untouched.
	srv := newTestServer(auth.ModeOIDCAuth, &fakeGrantRepo{}, objectRepo, &fakeBucketRepo{})
	req := httptest.NewRequest(http.MethodPatch, "/api/object/"+objID.String()+"/public?public=true", nil)
	req.Header.Set("Authorization", bearerFor(t, subject))
	rec := serve(srv, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, objectRepo.rows[objID].Public)

	// MANAGE holder flips the flag.
	grants := &fakeGrantRepo{rows: []*permission.Grant{
		{SubjectID: subject, ResourceID: objID, PermCode: permission.CodeManage},
	}}
	srv = newTestServer(auth.ModeOIDCAuth, grants, objectRepo, &fakeBucketRepo{})
	req = httptest.NewRequest(http.MethodPatch, "/api/object/"+objID.String()+"/public?public=true", nil)
	req.Header.Set("Authorization", bearerFor(t, subject))
	rec = serve(srv, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, objectRepo.rows[objID].Public)
	require.NotNil(t, objectRepo.rows[objID].UpdatedBy)
	assert.Equal(t, subject, *objectRepo.rows[objID].UpdatedBy)
}
