package object

import (
	"time"

	"github.com/google/uuid"
)

// Object is the metadata row for one stored object. Content lives at the
// provider; the local row exists only while at least one Version does.
type Object struct {
	ID        uuid.UUID  `json:"id"`
	BucketID  uuid.UUID  `json:"bucketId"`
	Path      string     `json:"path"`
	Public    bool       `json:"public"`
	Active    bool       `json:"active"`
	CreatedBy uuid.UUID  `json:"createdBy"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedBy *uuid.UUID `json:"updatedBy,omitempty"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Version mirrors one provider-side object version or delete marker.
// ProviderVersionID is nil for the single "null version" an unversioned
// provider maintains.
type Version struct {
	ID                uuid.UUID `json:"id"`
	ObjectID          uuid.UUID `json:"objectId"`
	ProviderVersionID *string   `json:"providerVersionId"`
	OriginalName      string    `json:"originalName"`
	MimeType          string    `json:"mimeType"`
	DeleteMarker      bool      `json:"deleteMarker"`
	CreatedBy         uuid.UUID `json:"createdBy"`
	CreatedAt         time.Time `json:"createdAt"`
}

type CreateObjectInput struct {
	ID        uuid.UUID
	BucketID  uuid.UUID
	Path      string
	Public    bool
	CreatedBy uuid.UUID
}
