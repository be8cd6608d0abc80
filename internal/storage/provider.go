// Package storage defines the capability interface the gateway uses to talk
// to object-storage backends. One implementation is selected at startup from
// configuration and injected everywhere; business logic never branches on the
// provider name.
package storage

import (
	"context"
	"fmt"
	"io"
	"time"
)

const (
	ProviderS3    = "s3"
	ProviderAzure = "azure"
	ProviderGCS   = "gcs"
	ProviderIBM   = "ibm"
)

// PutInput describes one object write.
type PutInput struct {
	Path         string
	Body         io.Reader
	MimeType     string
	OriginalName string
	Metadata     map[string]string
}

// PutResult reports the provider's response to a write. VersionID is empty
// when the target bucket is not versioned.
type PutResult struct {
	VersionID string
	ETag      string
}

// Versioned reports whether the provider issued a version token for this
// write.
func (r *PutResult) Versioned() bool {
	return r != nil && r.VersionID != ""
}

// DeleteResult reports the provider's response to a delete. A versioned
// bucket answers a plain delete with a delete marker and a fresh version
// token; an unversioned bucket answers with a hard deletion.
type DeleteResult struct {
	Deleted      bool
	DeleteMarker bool
	VersionID    string
}

// HeadResult is the metadata subset the gateway surfaces.
type HeadResult struct {
	MimeType      string
	ContentLength int64
	ETag          string
	LastModified  time.Time
	Metadata      map[string]string
}

// GetResult carries object content plus its head metadata. The caller owns
// Body and must close it.
type GetResult struct {
	Body io.ReadCloser
	HeadResult
}

// Provider abstracts one object-storage backend.
//
// Implementations must be safe for concurrent use.
type Provider interface {
	Put(ctx context.Context, input PutInput) (*PutResult, error)

	// Delete removes the given version when versionID is non-empty,
	// otherwise the current content.
	Delete(ctx context.Context, path, versionID string) (*DeleteResult, error)

	Get(ctx context.Context, path, versionID string) (*GetResult, error)

	Head(ctx context.Context, path string) (*HeadResult, error)

	CreateBucket(ctx context.Context, name string) error
}

// Factory builds a Provider from configuration. Implementations register
// themselves at init time.
type Factory func(cfg Config) (Provider, error)

// Config is the provider-independent slice of storage configuration.
type Config struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	ForcePathStyle  bool
}

var factories = map[string]Factory{}

// Register installs a provider factory under a name. Called from provider
// package init functions.
func Register(name string, f Factory) {
	factories[name] = f
}

// New selects and constructs the configured provider. Unknown names fail at
// startup, not at request time.
func New(name string, cfg Config) (Provider, error) {
	f, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown storage provider %q", name)
	}
	return f(cfg)
}
