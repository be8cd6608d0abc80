package s3

import (
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"object-gateway/internal/storage"
)

func init() {
	storage.Register(storage.ProviderS3, New)
	// IBM COS speaks the S3 API; it differs only by endpoint.
	storage.Register(storage.ProviderIBM, New)
}

// Client implements storage.Provider against any S3-compatible endpoint.
type Client struct {
	svc    *s3.S3
	bucket string
}

func New(cfg storage.Config) (storage.Provider, error) {
	awsConfig := &aws.Config{
		Region:           aws.String(cfg.Region),
		Credentials:      credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		S3ForcePathStyle: aws.Bool(cfg.ForcePathStyle),
	}
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, err
	}

	return &Client{
		svc:    s3.New(sess),
		bucket: cfg.Bucket,
	}, nil
}
