package services

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	appconfig "amora-backend/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// ErrUploadTooLarge rejects uploads over the configured limit
var ErrUploadTooLarge = errors.New("file exceeds the upload size limit")

const presignExpiry = 5 * time.Minute

// UploadRequest is a client request for a pre-signed upload URL
type UploadRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// UploadResponse carries the pre-signed URL and the public URL the
// object will be served from once uploaded.
type UploadResponse struct {
	UploadURL string `json:"upload_url"`
	PublicURL string `json:"public_url"`
	ExpiresIn int    `json:"expires_in"`
}

// StorageService issues pre-signed S3 upload URLs for memory, design
// and invitation images.
type StorageService struct {
	presigner  *s3.PresignClient
	bucket     string
	publicBase string
	maxBytes   int64
}

// NewStorageService creates a storage service against S3 or an
// S3-compatible endpoint.
func NewStorageService(cfg appconfig.AWSConfig, maxUploadBytes int) (*StorageService, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	publicBase := cfg.PublicBase
	if publicBase == "" {
		publicBase = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3Bucket, cfg.Region)
	}

	return &StorageService{
		presigner:  s3.NewPresignClient(client),
		bucket:     cfg.S3Bucket,
		publicBase: strings.TrimRight(publicBase, "/"),
		maxBytes:   int64(maxUploadBytes),
	}, nil
}

// PresignUpload returns a pre-signed PUT URL for one image. The object
// key is namespaced by user so uploads never collide.
func (s *StorageService) PresignUpload(ctx context.Context, userID string, req UploadRequest) (*UploadResponse, error) {
	if req.Size > s.maxBytes {
		return nil, ErrUploadTooLarge
	}

	contentType := req.ContentType
	if contentType == "" {
		contentType = "image/jpeg"
	}

	ext := path.Ext(req.Filename)
	if ext == "" {
		ext = ".jpg"
	}
	key := fmt.Sprintf("%s/%s%s", userID, uuid.New().String(), ext)

	request, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = presignExpiry
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate pre-signed URL: %w", err)
	}

	return &UploadResponse{
		UploadURL: request.URL,
		PublicURL: fmt.Sprintf("%s/%s", s.publicBase, key),
		ExpiresIn: int(presignExpiry.Seconds()),
	}, nil
}
