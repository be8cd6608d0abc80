package echo

import (
	"github.com/labstack/echo/v4"

	"object-gateway/internal/domain/bucket"
	"object-gateway/internal/domain/object"
)

const (
	contextKeyCurrentObject = "current_object"
	contextKeyCurrentBucket = "current_bucket"

	paramObjectID = "objId"
	paramBucketID = "bucketId"

	queryVersionID = "versionId"
	queryBucketID  = "bucketId"
	queryObjectID  = "objId"
	queryPublic    = "public"
)

// CurrentObject returns the resolved object record, or nil when the lookup
// failed. The permission gate turns nil into the uniform denial.
func CurrentObject(c echo.Context) *object.Object {
	o, _ := c.Get(contextKeyCurrentObject).(*object.Object)
	return o
}

// CurrentBucket returns the resolved bucket record, or nil.
func CurrentBucket(c echo.Context) *bucket.Bucket {
	b, _ := c.Get(contextKeyCurrentBucket).(*bucket.Bucket)
	return b
}
