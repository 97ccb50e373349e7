package s3

import (
	"context"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/kirillkom/docinsight/internal/core/domain"
)

type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type Storage struct {
	client *minio.Client
	bucket string
}

func New(ctx context.Context, opts Options) (*Storage, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, domain.WrapError(domain.ErrStorage, "create s3 client", err)
	}

	exists, err := client.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return nil, domain.WrapError(domain.ErrStorage, "check bucket", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, opts.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, domain.WrapError(domain.ErrStorage, "create bucket", err)
		}
	}

	return &Storage{client: client, bucket: opts.Bucket}, nil
}

// Put streams the payload to object storage. When size is known (>0) and a
// progress callback is given, the callback receives monotonic percentages
// ending at 100.
func (s *Storage) Put(ctx context.Context, key, contentType string, size int64, data io.Reader, progress func(int)) error {
	reader := data
	if progress != nil && size > 0 {
		reader = newProgressReader(data, size, progress)
	}

	putSize := size
	if putSize <= 0 {
		putSize = -1
	}
	_, err := s.client.PutObject(ctx, s.bucket, key, reader, putSize, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return domain.WrapError(domain.ErrStorage, "put object", err)
	}
	if progress != nil && size > 0 {
		progress(100)
	}
	return nil
}

func (s *Storage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	object, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, domain.WrapError(domain.ErrStorage, "get object", err)
	}
	return object, nil
}

func (s *Storage) Remove(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return domain.WrapError(domain.ErrStorage, "remove object", err)
	}
	return nil
}
