package storage

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/pkg/errors"
)

const (
	TestS3Bucket      = "craftvalley-dev-bucket"
	ProdS3MediaBucket = "craftvalley-media-output"
	CloudFrontPrefix  = "https://d20uffqoe1h0vv.cloudfront.net/"
	uploadedObjectACL = "public-read"
	defaultS3Region   = "us-west-1"
)

type S3ObjectStore struct {
	uploader *s3manager.Uploader
	svc      *s3.S3

	// urlPrefix maps an object key to its public URL. Objects are
	// served through CloudFront rather than raw bucket URLs.
	urlPrefix string
}

func NewS3ObjectStore() (*S3ObjectStore, error) {
	// AWS client session
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(defaultS3Region),
	})
	if err != nil {
		return nil, err
	}

	return &S3ObjectStore{
		uploader:  s3manager.NewUploader(sess),
		svc:       s3.New(sess),
		urlPrefix: CloudFrontPrefix,
	}, nil
}

func (s *S3ObjectStore) Upload(ctx context.Context, bucket, path string, body io.Reader) (string, error) {
	if path == "" {
		return "", errors.New("empty object path")
	}

	_, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		ACL:    aws.String(uploadedObjectACL),
		Bucket: aws.String(bucket),
		Key:    aws.String(path),
		Body:   body,
	})
	if err != nil {
		return "", errors.Wrapf(err, "upload object %s", path)
	}
	return s.urlPrefix + path, nil
}

func (s *S3ObjectStore) Delete(ctx context.Context, bucket, path string) error {
	_, err := s.svc.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(path),
	})
	return errors.Wrapf(err, "delete object %s", path)
}
