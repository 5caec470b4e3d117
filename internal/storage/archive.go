package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"metarelay/api/internal/config"
)

// PayloadArchive keeps a copy of every admitted webhook payload in an
// S3-compatible bucket, keyed by platform and delivery id.
type PayloadArchive struct {
	client *minio.Client
	cfg    config.ArchiveConfig
}

func NewPayloadArchive(cfg config.ArchiveConfig) (*PayloadArchive, error) {
	endpoint := cfg.Endpoint
	useSSL := cfg.UseSSL

	if strings.HasPrefix(endpoint, "http") {
		u, err := url.Parse(endpoint)
		if err != nil {
			return nil, fmt.Errorf("parse endpoint: %w", err)
		}
		endpoint = u.Host
		useSSL = u.Scheme == "https"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: useSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}

	return &PayloadArchive{
		client: client,
		cfg:    cfg,
	}, nil
}

func (a *PayloadArchive) EnsureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.cfg.Bucket)
	if err != nil {
		return fmt.Errorf("bucket exists %s: %w", a.cfg.Bucket, err)
	}
	if !exists {
		if err := a.client.MakeBucket(ctx, a.cfg.Bucket, minio.MakeBucketOptions{Region: a.cfg.Region}); err != nil {
			return fmt.Errorf("create bucket %s: %w", a.cfg.Bucket, err)
		}
	}
	return nil
}

// PutPayload stores the raw delivery body under <platform>/<id>.json.
func (a *PayloadArchive) PutPayload(ctx context.Context, platform, id string, body []byte) error {
	key := fmt.Sprintf("%s/%s.json", platform, id)
	_, err := a.client.PutObject(ctx, a.cfg.Bucket, key, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("put payload %s: %w", key, err)
	}
	return nil
}
