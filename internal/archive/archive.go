// Package archive stores rendered briefings in S3-compatible object
// storage so the daily markdown survives database resets.
package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/AlfredSjoqvist/gideon/internal/config"
	"github.com/AlfredSjoqvist/gideon/internal/store"
)

// ErrNotFound signals a date with no archived briefing.
var ErrNotFound = errors.New("archive: briefing not found")

type Archive struct {
	client   *minio.Client
	bucket   string
	region   string
	initOnce sync.Once
	initErr  error
}

// New builds an archive from the config. Returns (nil, nil) when the
// archive is not configured; a nil *Archive is a safe no-op.
func New(cfg config.ArchiveConfig) (*Archive, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	if strings.TrimSpace(cfg.AccessKey) == "" || strings.TrimSpace(cfg.SecretKey) == "" {
		return nil, fmt.Errorf("archive: access key and secret key are required")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("archive: init client: %w", err)
	}
	return &Archive{client: client, bucket: cfg.Bucket, region: cfg.Region}, nil
}

func (a *Archive) ensureBucket(ctx context.Context) error {
	a.initOnce.Do(func() {
		exists, err := a.client.BucketExists(ctx, a.bucket)
		if err != nil {
			a.initErr = err
			return
		}
		if exists {
			return
		}
		a.initErr = a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{Region: a.region})
	})
	return a.initErr
}

// PutBriefing archives the briefing markdown keyed by its entry date.
func (a *Archive) PutBriefing(ctx context.Context, b store.Briefing) error {
	if a == nil {
		return nil
	}
	if err := a.ensureBucket(ctx); err != nil {
		return fmt.Errorf("archive: ensure bucket: %w", err)
	}

	content := []byte(b.Content)
	_, err := a.client.PutObject(ctx, a.bucket, briefingKey(b.EntryDate),
		bytes.NewReader(content), int64(len(content)), minio.PutObjectOptions{
			ContentType: "text/markdown",
		})
	return err
}

// Briefing fetches the archived markdown for a YYYY-MM-DD entry date.
func (a *Archive) Briefing(ctx context.Context, date string) (string, error) {
	if a == nil {
		return "", ErrNotFound
	}
	if err := a.ensureBucket(ctx); err != nil {
		return "", fmt.Errorf("archive: ensure bucket: %w", err)
	}

	obj, err := a.client.GetObject(ctx, a.bucket, briefingKey(date), minio.GetObjectOptions{})
	if err != nil {
		return "", err
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket" {
			return "", ErrNotFound
		}
		return "", err
	}
	return string(data), nil
}

// Dates lists the archived briefing dates, oldest first.
func (a *Archive) Dates(ctx context.Context) ([]string, error) {
	if a == nil {
		return nil, nil
	}
	if err := a.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("archive: ensure bucket: %w", err)
	}

	var dates []string
	for obj := range a.client.ListObjects(ctx, a.bucket, minio.ListObjectsOptions{
		Prefix:    "briefings/",
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		name := strings.TrimSuffix(strings.TrimPrefix(obj.Key, "briefings/"), ".md")
		if name != "" {
			dates = append(dates, name)
		}
	}
	sort.Strings(dates)
	return dates, nil
}

func briefingKey(date string) string {
	return "briefings/" + date + ".md"
}
