package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// objectPutter is the part of *minio.Client the archive needs
type objectPutter interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader *bytes.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

type minioPutter struct{ *minio.Client }

func (m minioPutter) PutObject(ctx context.Context, bucket, key string, r *bytes.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	return m.Client.PutObject(ctx, bucket, key, r, size, opts)
}

// ImageArchive stores uploaded product images in a MinIO bucket
type ImageArchive struct {
	client     objectPutter
	bucketName string
	baseURL    string
	now        func() time.Time
	newID      func() string
}

// New buat koneksi MinIO dan pastikan bucket ada
func New(ctx context.Context, endpoint, region, bucket, accessKey, secretKey string, useSSL bool) (*ImageArchive, error) {
	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, err
	}

	exists, err := cli.BucketExists(ctx, bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := cli.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
			return nil, err
		}
	}

	base := fmt.Sprintf("%s://%s/%s", cli.EndpointURL().Scheme, cli.EndpointURL().Host, bucket)
	return newImageArchive(minioPutter{cli}, bucket, base), nil
}

func newImageArchive(client objectPutter, bucket, baseURL string) *ImageArchive {
	return &ImageArchive{
		client:     client,
		bucketName: bucket,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// Put uploads the image and returns its URL. The URL is public only when the bucket is.
func (s *ImageArchive) Put(ctx context.Context, data []byte, mimeType string) (string, error) {
	key := s.objectKey(mimeType)
	_, err := s.client.PutObject(ctx, s.bucketName, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: mimeType,
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return s.baseURL + "/" + key, nil
}

func (s *ImageArchive) objectKey(mimeType string) string {
	return fmt.Sprintf("products/%s/%s%s", s.now().UTC().Format("2006/01/02"), s.newID(), extension(mimeType))
}

func extension(mimeType string) string {
	switch mimeType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	}
	return ""
}
