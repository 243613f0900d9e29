// Package storage archives generated logo assets in Cloudflare R2 through
// the S3 API. Entirely optional: with no R2 credentials configured the logo
// endpoint still returns the inline SVG, just without a hosted URL.
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
	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"clientmint_backend/pkg/config"
)

var cfg config.R2Config

func Init(c config.R2Config) {
	cfg = c
}

func Configured() bool {
	return cfg.AccountID != "" && cfg.AccessKey != "" && cfg.SecretKey != "" && cfg.BucketName != ""
}

func getS3Client(ctx context.Context) (*s3.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %v", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID))
		o.UsePathStyle = true
		o.Region = "auto"
	})

	return client, nil
}

// UploadLogo stores an SVG under a per-business path and returns its public URL.
func UploadLogo(ctx context.Context, businessName, svg string) (string, error) {
	if !Configured() {
		return "", fmt.Errorf("logo storage is not configured")
	}

	safeName := slug.Make(businessName)
	objectKey := fmt.Sprintf("logos/%s/%d-%s.svg", safeName, time.Now().UnixNano(), uuid.New().String())

	client, err := getS3Client(ctx)
	if err != nil {
		return "", err
	}

	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(cfg.BucketName),
		Key:         aws.String(objectKey),
		Body:        strings.NewReader(svg),
		ContentType: aws.String("image/svg+xml"),
	})
	if err != nil {
		return "", fmt.Errorf("could not upload logo to R2: %v", err)
	}

	base := cfg.CDNBase
	if base == "" {
		base = fmt.Sprintf("https://%s.r2.cloudflarestorage.com/%s", cfg.AccountID, cfg.BucketName)
	}
	return fmt.Sprintf("%s/%s", strings.TrimSuffix(base, "/"), objectKey), nil
}
