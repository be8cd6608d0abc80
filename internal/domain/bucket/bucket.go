package bucket

import (
	"time"

	"github.com/google/uuid"
)

type Bucket struct {
	ID         uuid.UUID  `json:"id"`
	BucketName string     `json:"bucketName"`
	Endpoint   string     `json:"endpoint"`
	KeyPrefix  string     `json:"keyPrefix"`
	Public     bool       `json:"public"`
	Active     bool       `json:"active"`
	CreatedBy  uuid.UUID  `json:"createdBy"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedBy  *uuid.UUID `json:"updatedBy,omitempty"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

type CreateBucketInput struct {
	BucketName string
	Endpoint   string
	KeyPrefix  string
	Public     bool
	CreatedBy  uuid.UUID
}
