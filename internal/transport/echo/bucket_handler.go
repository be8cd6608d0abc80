package echo

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"object-gateway/internal/auth"
	"object-gateway/internal/buckets"
	"object-gateway/internal/domain/bucket"
)

type BucketHandler struct {
	buckets  *buckets.Service
	resolver *auth.Resolver
	log      *zap.Logger
}

func NewBucketHandler(svc *buckets.Service, resolver *auth.Resolver, log *zap.Logger) *BucketHandler {
	return &BucketHandler{buckets: svc, resolver: resolver, log: log}
}

type createBucketRequest struct {
	BucketName string `json:"bucketName"`
	Endpoint   string `json:"endpoint"`
	KeyPrefix  string `json:"keyPrefix"`
	Public     bool   `json:"public"`
}

func (h *BucketHandler) Create(c echo.Context) error {
	var req createBucketRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{"detail": "invalid request body"})
	}

	actor := currentActor(c, h.resolver)

	b, err := h.buckets.Create(c.Request().Context(), bucket.CreateBucketInput{
		BucketName: req.BucketName,
		Endpoint:   req.Endpoint,
		KeyPrefix:  req.KeyPrefix,
		Public:     req.Public,
		CreatedBy:  actor,
	})
	if err != nil {
		h.log.Warn("bucket create failed", zap.Error(err))
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, b)
}

func (h *BucketHandler) Read(c echo.Context) error {
	b := CurrentBucket(c)
	if b == nil {
		return respondDenied(c)
	}
	return c.JSON(http.StatusOK, b)
}

// currentActor resolves the acting subject for audit columns. Basic and
// anonymous principals audit as the nil uuid.
func currentActor(c echo.Context, resolver *auth.Resolver) uuid.UUID {
	id, ok := resolver.SubjectID(auth.CurrentCredential(c))
	if !ok {
		return uuid.Nil
	}
	return id
}
