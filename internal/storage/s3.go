package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/sirupsen/logrus"
)

// S3Config конфигурация S3 хранилища
type S3Config struct {
	Region         string `json:"region"`
	Bucket         string `json:"bucket"`
	Endpoint       string `json:"endpoint,omitempty"`
	AccessKey      string `json:"access_key"`
	SecretKey      string `json:"secret_key"`
	ForcePathStyle bool   `json:"force_path_style"`
}

// S3API методы клиента S3, которые использует хранилище
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3Storage реализация хранилища для AWS S3
type S3Storage struct {
	client S3API
	bucket string
	logger *logrus.Logger
}

// NewS3Storage создает новое S3 хранилище
func NewS3Storage(cfg S3Config, logger *logrus.Logger) (*S3Storage, error) {
	if err := validateS3Config(cfg); err != nil {
		return nil, fmt.Errorf("неверная конфигурация S3: %w", err)
	}

	opts := []func(*awsConfig.LoadOptions) error{
		awsConfig.WithRegion(cfg.Region),
	}
	// Без явных ключей используется стандартная цепочка (env, профиль, роль)
	if cfg.AccessKey != "" {
		opts = append(opts, awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsConfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки AWS конфигурации: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.ForcePathStyle
	})

	return NewS3StorageWithClient(client, cfg.Bucket, logger), nil
}

// NewS3StorageWithClient создает хранилище с готовым клиентом
func NewS3StorageWithClient(client S3API, bucket string, logger *logrus.Logger) *S3Storage {
	return &S3Storage{
		client: client,
		bucket: bucket,
		logger: logger,
	}
}

// Get получает файл из S3
func (s *S3Storage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultOperationTimeout)
	defer cancel()

	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return nil, fmt.Errorf("ошибка получения файла из S3: %w", err)
	}

	// Тело читается после отмены контекста, поэтому копируем его заранее
	defer result.Body.Close()
	body, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения файла из S3: %w", err)
	}
	return io.NopCloser(bytes.NewReader(body)), nil
}

// Exists проверяет существование файла
func (s *S3Storage) Exists(ctx context.Context, key string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultOperationTimeout)
	defer cancel()

	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("ошибка проверки существования файла: %w", err)
	}
	return true, nil
}

// List возвращает список файлов с префиксом
func (s *S3Storage) List(ctx context.Context, prefix string) ([]FileInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultOperationTimeout)
	defer cancel()

	var files []FileInfo
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("ошибка получения списка файлов: %w", err)
		}
		for _, obj := range page.Contents {
			files = append(files, FileInfo{
				Key:          aws.ToString(obj.Key),
				Size:         aws.ToInt64(obj.Size),
				LastModified: aws.ToTime(obj.LastModified),
			})
		}
	}
	return files, nil
}

// ValidateKey валидирует ключ файла
func (s *S3Storage) ValidateKey(key string) error {
	return validateKey(key)
}

// validateS3Config валидирует конфигурацию S3
func validateS3Config(cfg S3Config) error {
	if cfg.Region == "" {
		return fmt.Errorf("регион S3 не может быть пустым")
	}
	if cfg.Bucket == "" {
		return fmt.Errorf("bucket S3 не может быть пустым")
	}
	if (cfg.AccessKey == "") != (cfg.SecretKey == "") {
		return fmt.Errorf("access key и secret key задаются вместе")
	}
	return nil
}
