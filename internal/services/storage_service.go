// internal/services/storage_service.go
package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/shopfront/storefront-api/internal/config"
)

var ErrStorageNotConfigured = errors.New("image storage is not configured")

const productImageFolder = "products"

var allowedImageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

type StorageService struct {
	s3Client s3iface.S3API
	config   config.AWSConfig
	now      func() time.Time
}

type UploadResult struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType"`
}

func NewStorageService(cfg config.AWSConfig) (*StorageService, error) {
	if cfg.AccessKeyID == "" || cfg.S3Bucket == "" {
		// uploads are refused until credentials are configured
		return &StorageService{config: cfg, now: time.Now}, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return NewStorageServiceWithClient(s3.New(sess), cfg), nil
}

func NewStorageServiceWithClient(client s3iface.S3API, cfg config.AWSConfig) *StorageService {
	return &StorageService{
		s3Client: client,
		config:   cfg,
		now:      time.Now,
	}
}

func (s *StorageService) Configured() bool {
	return s.s3Client != nil
}

// UploadProductImage stores one product image and returns its public URL.
func (s *StorageService) UploadProductImage(ctx context.Context, file multipart.File, header *multipart.FileHeader) (*UploadResult, error) {
	if s.s3Client == nil {
		return nil, ErrStorageNotConfigured
	}

	if s.config.MaxUploadSize > 0 && header.Size > s.config.MaxUploadSize {
		return nil, NewValidationError("file", "max_size",
			fmt.Sprintf("file size %d bytes exceeds maximum allowed size %d bytes", header.Size, s.config.MaxUploadSize))
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if _, ok := allowedImageTypes[ext]; !ok {
		return nil, NewValidationError("file", "file_type", fmt.Sprintf("file type %s is not allowed", ext))
	}

	body, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	contentType := http.DetectContentType(body)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, NewValidationError("file", "image", "invalid image file")
	}

	key := s.generateKey(ext)
	_, err = s.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.config.S3Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
		ACL:           aws.String(s3.ObjectCannedACLPublicRead),
	})
	if err != nil {
		logrus.WithError(err).WithField("key", key).Error("Failed to upload image")
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	return &UploadResult{
		URL:         s.publicURL(key),
		Key:         key,
		Size:        int64(len(body)),
		ContentType: contentType,
	}, nil
}

func (s *StorageService) generateKey(ext string) string {
	id := uuid.New()
	return fmt.Sprintf("%s/%s_%s%s", productImageFolder, s.now().Format("20060102"), id.String()[:8], ext)
}

func (s *StorageService) publicURL(key string) string {
	if s.config.CloudFrontURL != "" {
		return fmt.Sprintf("%s/%s", strings.TrimRight(s.config.CloudFrontURL, "/"), key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.config.S3Bucket, s.config.Region, key)
}
