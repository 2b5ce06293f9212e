package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Storage загружает файлы в S3-совместимый бакет через предподписанные
// PUT-URL. Подходит и для AWS, и для MinIO/Backblaze при заданном Endpoint.
type S3Storage struct {
	client    *s3.Client
	presigner *s3.PresignClient
	bucket    string
	baseURL   string
	uploadTTL time.Duration
}

// S3Options — параметры подключения к бакету.
type S3Options struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	// BaseURL — публичный адрес бакета (CDN или прямой endpoint).
	BaseURL   string
	UploadTTL time.Duration
}

// NewS3Storage собирает клиента по статическим ключам из конфигурации.
func NewS3Storage(ctx context.Context, opts S3Options) (*S3Storage, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(opts.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("storage: конфигурация S3: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Storage{
		client:    client,
		presigner: s3.NewPresignClient(client),
		bucket:    opts.Bucket,
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		uploadTTL: opts.UploadTTL,
	}, nil
}

func (s *S3Storage) PresignUpload(ctx context.Context, key, contentType string) (UploadTarget, error) {
	if err := validateKey(key); err != nil {
		return UploadTarget{}, err
	}

	req, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(s.uploadTTL))
	if err != nil {
		return UploadTarget{}, fmt.Errorf("storage: подпись PUT для %s: %w", key, err)
	}

	return UploadTarget{
		Key:       key,
		URL:       req.URL,
		PublicURL: s.PublicURL(key),
	}, nil
}

func (s *S3Storage) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("storage: удаление объекта %s: %w", key, err)
	}
	return nil
}

func (s *S3Storage) PublicURL(key string) string {
	return s.baseURL + "/" + key
}

func (s *S3Storage) KeyFromPublicURL(u string) (string, bool) {
	prefix := s.baseURL + "/"
	if !strings.HasPrefix(u, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(u, prefix)
	if validateKey(key) != nil {
		return "", false
	}
	return key, true
}
