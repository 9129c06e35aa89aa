// Package storage hands out presigned URLs for product images kept in an
// S3-compatible bucket (MinIO in development). Clients upload and download
// directly; the server only records the object key.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	sc "github.com/dmitrijs2005/shopkeeper/internal/server/config"
	"github.com/google/uuid"
)

// PresignExpiry is how long issued URLs stay valid.
const PresignExpiry = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}

	now = time.Now
)

// S3ImageStore presigns product image uploads and downloads.
type S3ImageStore struct {
	region   string
	user     string
	password string
	endpoint string
	bucket   string
}

func NewS3ImageStore(c *sc.Config) *S3ImageStore {
	return &S3ImageStore{
		region:   c.S3Region,
		user:     c.S3RootUser,
		password: c.S3RootPassword,
		endpoint: c.S3BaseEndpoint,
		bucket:   c.S3Bucket,
	}
}

// ImageKey builds a fresh object key for a product picture.
func ImageKey(productID int64) string {
	d := now()
	return fmt.Sprintf("products/%d/%d/%02d/%02d/%v", productID, d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *S3ImageStore) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(s.user, s.password, "")))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.endpoint)
		// MinIO serves buckets under the path, not as subdomains.
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

// PresignUpload allocates a new key for productID and returns it together
// with a presigned PUT URL.
func (s *S3ImageStore) PresignUpload(ctx context.Context, productID int64) (string, string, error) {
	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return "", "", err
	}

	key := ImageKey(productID)

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(PresignExpiry))
	if err != nil {
		return "", "", err
	}

	return key, req.URL, nil
}

// PresignDownload returns a presigned GET URL for key.
func (s *S3ImageStore) PresignDownload(ctx context.Context, key string) (string, error) {
	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return "", err
	}

	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(PresignExpiry))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}
