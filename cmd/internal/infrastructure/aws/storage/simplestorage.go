package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const LogoBasePath = "logos/"

type S3Client interface {
	UploadFile(ctx context.Context, data []byte, filename string) (string, error)
	DeleteFile(ctx context.Context, key string) error
	URL(key string) string
}

type storageClient struct {
	bucket  string
	baseURL string
	client  *s3.Client
}

// NewStorageClient stores objects under LogoBasePath of the bucket. Public
// URLs are built from publicURL, or from the regional S3 endpoint when empty.
func NewStorageClient(cfg aws.Config, bucket, publicURL string) (S3Client, error) {
	if bucket == "" {
		return nil, errors.New("bucket name is empty")
	}

	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, cfg.Region)
	}

	return &storageClient{
		bucket:  bucket,
		baseURL: strings.TrimSuffix(publicURL, "/"),
		client:  s3.NewFromConfig(cfg),
	}, nil
}

func (s *storageClient) UploadFile(ctx context.Context, data []byte, filename string) (string, error) {
	if filename == "" {
		return "", errors.New("filename is empty")
	}

	key := LogoBasePath + filename
	mimeType := mime.TypeByExtension(filepath.Ext(filename))
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: &mimeType,
	}

	_, err := s.client.PutObject(ctx, input)
	if err != nil {
		return "", err
	}
	return key, nil
}

// DeleteFile removes the object. S3 answers success for missing keys too.
func (s *storageClient) DeleteFile(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}

func (s *storageClient) URL(key string) string {
	if key == "" {
		return ""
	}
	return s.baseURL + "/" + key
}
