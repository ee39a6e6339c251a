package s3

//go:generate go run go.uber.org/mock/mockgen -source=./s3.go -destination=./mocks/s3_mock.go -package=mocks

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"strings"
	"time"

	"realty/config"
	"realty/infras/metrics"
	"realty/infras/otel"
	"realty/shared/constant"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

const (
	otelAttrObjectKey = "object_key"
	otelAttrBucket    = "bucket"
)

// Bucket stores the images referenced by blog posts, properties and hero slides.
type Bucket interface {
	UploadFile(ctx context.Context, directory string, file multipart.File, fileHeader *multipart.FileHeader, fileName string) (url string, err error)
	UploadBytes(ctx context.Context, directory, fileName, contentType string, data []byte) (url string, err error)
	DeleteObject(ctx context.Context, objectKey string) error
	DeleteByURL(ctx context.Context, url string) error
	ObjectKeyFromURL(url string) (objectKey string)
}

type bucketImpl struct {
	client *s3.Client
	config *config.Config
	otel   otel.Otel
}

func New(cfg *config.Config, otl otel.Otel) Bucket {
	staticProvider := credentials.NewStaticCredentialsProvider(
		cfg.External.S3.AccessKeyID,
		cfg.External.S3.SecretAccessKey,
		constant.Empty,
	)

	awsCfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithCredentialsProvider(staticProvider),
		awsConfig.WithRegion(cfg.External.S3.Region),
	)
	if err != nil {
		log.Err(err).Msg("Error loading AWS configuration")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.External.S3.APIEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.External.S3.APIEndpoint)
		}

		o.UsePathStyle = true
	})

	return &bucketImpl{
		client: client,
		config: cfg,
		otel:   otl,
	}
}

func (b *bucketImpl) UploadFile(ctx context.Context, directory string, file multipart.File, fileHeader *multipart.FileHeader, fileName string) (url string, err error) {
	ctx, scope := b.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+".UploadFile")
	defer scope.End()
	defer scope.TraceIfError(err)

	data, err := io.ReadAll(file)
	if err != nil {
		return constant.Empty, fmt.Errorf("failed to read file: %w", err)
	}

	return b.put(ctx, path.Join(directory, fileName), fileHeader.Header.Get(constant.RequestHeaderContentType), data)
}

func (b *bucketImpl) UploadBytes(ctx context.Context, directory, fileName, contentType string, data []byte) (url string, err error) {
	ctx, scope := b.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+".UploadBytes")
	defer scope.End()
	defer scope.TraceIfError(err)

	return b.put(ctx, path.Join(directory, fileName), contentType, data)
}

func (b *bucketImpl) DeleteObject(ctx context.Context, objectKey string) (err error) {
	ctx, scope := b.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+".DeleteObject")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttributes(map[string]any{
		otelAttrObjectKey: objectKey,
		otelAttrBucket:    b.config.External.S3.BucketName,
	})

	start := time.Now()
	_, err = b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.config.External.S3.BucketName),
		Key:    aws.String(objectKey),
	})
	metrics.ObserveExternal(metrics.ServiceS3, "delete", err, time.Since(start))

	if err != nil {
		log.Error().Err(err).Str("key", objectKey).Msg("failed to delete object from bucket")

		return fmt.Errorf("failed to delete object from bucket: %w", err)
	}

	return nil
}

// DeleteByURL ignores URLs that do not point into the bucket, e.g. external images.
func (b *bucketImpl) DeleteByURL(ctx context.Context, url string) error {
	key := b.ObjectKeyFromURL(url)
	if key == constant.Empty {
		log.Debug().Str("url", url).Msg("url is not served by the bucket, skip delete")

		return nil
	}

	return b.DeleteObject(ctx, key)
}

func (b *bucketImpl) ObjectKeyFromURL(url string) string {
	prefixes := []string{
		strings.TrimSuffix(b.config.External.S3.PublicDomain, "/") + "/",
		fmt.Sprintf("%s/%s/", strings.TrimSuffix(b.config.External.S3.APIEndpoint, "/"), b.config.External.S3.BucketName),
	}

	for _, prefix := range prefixes {
		if prefix == "/" {
			continue
		}

		if key, ok := strings.CutPrefix(url, prefix); ok && key != constant.Empty {
			return key
		}
	}

	return constant.Empty
}

func (b *bucketImpl) put(ctx context.Context, objectKey, contentType string, data []byte) (url string, err error) {
	ctx, scope := b.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+".put")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttributes(map[string]any{
		otelAttrObjectKey: objectKey,
		otelAttrBucket:    b.config.External.S3.BucketName,
	})

	reader := bytes.NewReader(data)

	start := time.Now()
	_, err = b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(b.config.External.S3.BucketName),
		Key:           aws.String(objectKey),
		Body:          reader,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(reader.Size()),
	})
	metrics.ObserveExternal(metrics.ServiceS3, "put", err, time.Since(start))

	if err != nil {
		return constant.Empty, fmt.Errorf("failed to upload object to bucket: %w", err)
	}

	return fmt.Sprintf("%s/%s", strings.TrimSuffix(b.config.External.S3.PublicDomain, "/"), objectKey), nil
}
