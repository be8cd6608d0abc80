package echo

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"object-gateway/internal/auth"
	"object-gateway/internal/objects"
	"object-gateway/internal/storage"
)

const (
	headerContentType        = "Content-Type"
	headerContentLength      = "Content-Length"
	headerContentDisposition = "Content-Disposition"
	headerETag               = "ETag"
	headerLastModified       = "Last-Modified"

	// Caller-supplied object metadata travels as x-amz-meta-* headers; the
	// reserved "name" key carries the original filename.
	metadataHeaderPrefix = "x-amz-meta-"
	metadataKeyName      = "name"
)

type ObjectHandler struct {
	objects  *objects.Service
	resolver *auth.Resolver
	log      *zap.Logger
}

func NewObjectHandler(svc *objects.Service, resolver *auth.Resolver, log *zap.Logger) *ObjectHandler {
	return &ObjectHandler{objects: svc, resolver: resolver, log: log}
}

func (h *ObjectHandler) Create(c echo.Context) error {
	b := CurrentBucket(c)
	if b == nil {
		return respondDenied(c)
	}

	metadata := extractMetadata(c)

	result, err := h.objects.Create(c.Request().Context(), objects.CreateInput{
		BucketID:     b.ID,
		Body:         c.Request().Body,
		MimeType:     requestMimeType(c),
		OriginalName: metadata[metadataKeyName],
		Metadata:     metadata,
		Public:       c.QueryParam(queryPublic) == "true",
		Actor:        currentActor(c, h.resolver),
	})
	if err != nil {
		h.log.Warn("object create failed", zap.Error(err))
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusCreated, result)
}

func (h *ObjectHandler) Read(c echo.Context) error {
	o := CurrentObject(c)
	if o == nil {
		return respondDenied(c)
	}

	result, err := h.objects.Read(c.Request().Context(), o.ID, c.QueryParam(queryVersionID))
	if err != nil {
		h.log.Warn("object read failed", zap.String("object", o.ID.String()), zap.Error(err))
		return respondServiceError(c, err)
	}
	defer result.Body.Close()

	writeHeadHeaders(c, &result.HeadResult)

	mimeType := result.MimeType
	if mimeType == "" {
		mimeType = echo.MIMEOctetStream
	}
	return c.Stream(http.StatusOK, mimeType, result.Body)
}

func (h *ObjectHandler) Head(c echo.Context) error {
	o := CurrentObject(c)
	if o == nil {
		return respondDenied(c)
	}

	result, err := h.objects.Head(c.Request().Context(), o.ID)
	if err != nil {
		h.log.Warn("object head failed", zap.String("object", o.ID.String()), zap.Error(err))
		return respondServiceError(c, err)
	}

	writeHeadHeaders(c, result)
	return c.NoContent(http.StatusNoContent)
}

func (h *ObjectHandler) Update(c echo.Context) error {
	o := CurrentObject(c)
	if o == nil {
		return respondDenied(c)
	}

	metadata := extractMetadata(c)

	result, err := h.objects.Update(c.Request().Context(), o.ID, objects.UpdateInput{
		Body:         c.Request().Body,
		MimeType:     requestMimeType(c),
		OriginalName: metadata[metadataKeyName],
		Metadata:     metadata,
		Actor:        currentActor(c, h.resolver),
	})
	if err != nil {
		h.log.Warn("object update failed", zap.String("object", o.ID.String()), zap.Error(err))
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusOK, result)
}

func (h *ObjectHandler) Delete(c echo.Context) error {
	o := CurrentObject(c)
	if o == nil {
		return respondDenied(c)
	}

	outcome, err := h.objects.Delete(c.Request().Context(), o.ID, c.QueryParam(queryVersionID), currentActor(c, h.resolver))
	if err != nil {
		h.log.Warn("object delete failed", zap.String("object", o.ID.String()), zap.Error(err))
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusOK, outcome)
}

func (h *ObjectHandler) SetPublic(c echo.Context) error {
	o := CurrentObject(c)
	if o == nil {
		return respondDenied(c)
	}

	updated, err := h.objects.SetPublic(c.Request().Context(), o.ID, c.QueryParam(queryPublic) == "true", currentActor(c, h.resolver))
	if err != nil {
		h.log.Warn("object visibility update failed", zap.String("object", o.ID.String()), zap.Error(err))
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusOK, updated)
}

func (h *ObjectHandler) Versions(c echo.Context) error {
	o := CurrentObject(c)
	if o == nil {
		return respondDenied(c)
	}

	versions, err := h.objects.Versions(c.Request().Context(), o.ID)
	if err != nil {
		h.log.Warn("version list failed", zap.String("object", o.ID.String()), zap.Error(err))
		return respondServiceError(c, err)
	}

	return c.JSON(http.StatusOK, versions)
}

func requestMimeType(c echo.Context) string {
	mimeType := c.Request().Header.Get(headerContentType)
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	return mimeType
}

func extractMetadata(c echo.Context) map[string]string {
	metadata := map[string]string{}
	for key, values := range c.Request().Header {
		lower := strings.ToLower(key)
		if !strings.HasPrefix(lower, metadataHeaderPrefix) || len(values) == 0 {
			continue
		}
		metadata[strings.TrimPrefix(lower, metadataHeaderPrefix)] = values[0]
	}
	return metadata
}

func writeHeadHeaders(c echo.Context, head *storage.HeadResult) {
	h := c.Response().Header()
	if head.MimeType != "" {
		h.Set(headerContentType, head.MimeType)
	}
	if head.ContentLength > 0 {
		h.Set(headerContentLength, strconv.FormatInt(head.ContentLength, 10))
	}
	if head.ETag != "" {
		h.Set(headerETag, head.ETag)
	}
	if !head.LastModified.IsZero() {
		h.Set(headerLastModified, head.LastModified.UTC().Format(http.TimeFormat))
	}
	if name := head.Metadata[metadataKeyName]; name != "" {
		h.Set(headerContentDisposition, `attachment; filename="`+name+`"`)
	}
	for key, value := range head.Metadata {
		h.Set(metadataHeaderPrefix+key, value)
	}
}
