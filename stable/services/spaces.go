// services/spaces.go
package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type SpacesService struct {
	client     *s3.Client
	bucket     string
	region     string
	ExportRoot string
}

func NewSpacesService(spacesKey, spacesSecret, region, bucket, exportRoot string) *SpacesService {
	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: fmt.Sprintf("https://%s.digitaloceanspaces.com", region),
		}, nil
	})

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithEndpointResolverWithOptions(resolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(spacesKey, spacesSecret, "")),
		config.WithRegion(region),
	)
	if err != nil {
		panic(fmt.Sprintf("Unable to load Spaces config: %v", err))
	}

	client := s3.NewFromConfig(cfg)

	return &SpacesService{
		client:     client,
		bucket:     bucket,
		region:     region,
		ExportRoot: strings.TrimPrefix(exportRoot, "/"),
	}
}

// UploadCycleExport stores one cycle's CSV under
// <export_root>/cycles/cycle_<n>.csv and returns the object key.
func (s *SpacesService) UploadCycleExport(ctx context.Context, cycleNumber int, csv []byte) (string, error) {
	key := fmt.Sprintf("%s/cycles/cycle_%d.csv", s.ExportRoot, cycleNumber)
	contentType := "text/csv"

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &key,
		Body:        bytes.NewReader(csv),
		ContentType: &contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload cycle export %s: %w", key, err)
	}
	return key, nil
}

func (s *SpacesService) GetBucket() string {
	return s.bucket
}

func (s *SpacesService) GetRegion() string {
	return s.region
}
