package s3

import (
	"context"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"

	"object-gateway/internal/storage"
)

const metaOriginalName = "name"

func (c *Client) Put(ctx context.Context, input storage.PutInput) (*storage.PutResult, error) {
	metadata := make(map[string]*string, len(input.Metadata)+1)
	for k, v := range input.Metadata {
		metadata[k] = aws.String(v)
	}
	if input.OriginalName != "" {
		metadata[metaOriginalName] = aws.String(input.OriginalName)
	}

	out, err := c.svc.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(input.Path),
		Body:        aws.ReadSeekCloser(input.Body),
		ContentType: aws.String(input.MimeType),
		Metadata:    metadata,
	})
	if err != nil {
		return nil, err
	}

	result := &storage.PutResult{}
	if out.VersionId != nil {
		result.VersionID = *out.VersionId
	}
	if out.ETag != nil {
		result.ETag = *out.ETag
	}

	return result, nil
}

func (c *Client) Delete(ctx context.Context, path, versionID string) (*storage.DeleteResult, error) {
	input := &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(path),
	}
	if versionID != "" {
		input.VersionId = aws.String(versionID)
	}

	out, err := c.svc.DeleteObjectWithContext(ctx, input)
	if err != nil {
		return nil, err
	}

	result := &storage.DeleteResult{Deleted: true}
	if out.DeleteMarker != nil {
		result.DeleteMarker = *out.DeleteMarker
	}
	if out.VersionId != nil {
		result.VersionID = *out.VersionId
	}

	return result, nil
}

func (c *Client) Get(ctx context.Context, path, versionID string) (*storage.GetResult, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(path),
	}
	if versionID != "" {
		input.VersionId = aws.String(versionID)
	}

	out, err := c.svc.GetObjectWithContext(ctx, input)
	if err != nil {
		return nil, err
	}

	result := &storage.GetResult{Body: out.Body}
	if out.ContentType != nil {
		result.MimeType = *out.ContentType
	}
	if out.ContentLength != nil {
		result.ContentLength = *out.ContentLength
	}
	if out.ETag != nil {
		result.ETag = *out.ETag
	}
	if out.LastModified != nil {
		result.LastModified = *out.LastModified
	}
	result.Metadata = flattenMetadata(out.Metadata)

	return result, nil
}

func (c *Client) Head(ctx context.Context, path string) (*storage.HeadResult, error) {
	out, err := c.svc.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		return nil, err
	}

	result := &storage.HeadResult{}
	if out.ContentType != nil {
		result.MimeType = *out.ContentType
	}
	if out.ContentLength != nil {
		result.ContentLength = *out.ContentLength
	}
	if out.ETag != nil {
		result.ETag = *out.ETag
	}
	if out.LastModified != nil {
		result.LastModified = *out.LastModified
	}
	result.Metadata = flattenMetadata(out.Metadata)

	return result, nil
}

func (c *Client) CreateBucket(ctx context.Context, name string) error {
	_, err := c.svc.CreateBucketWithContext(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(name),
	})
	if err != nil {
		// Re-creating an owned bucket is treated as success.
		if aerr, ok := err.(interface{ Code() string }); ok && aerr.Code() == s3.ErrCodeBucketAlreadyOwnedByYou {
			return nil
		}
		return err
	}

	return nil
}

func flattenMetadata(in map[string]*string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		if v != nil {
			out[k] = *v
		}
	}
	return out
}
