package report

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"procdiff/core/storage"

	"github.com/minio/minio-go/v7"
)

// DefaultPrefix is the file name prefix of generated reports.
const DefaultPrefix = "OutputReport"

// FileName returns prefix + yyyyMMdd_HHmmss + extension, e.g. OutputReport20240101_150405.xlsx.
func FileName(prefix string, t time.Time, format Format) string {
	return fmt.Sprintf("%s%s.%s", prefix, t.Format("20060102_150405"), format)
}

// Publisher stores encoded reports in a local directory or a storage bucket.
type Publisher struct {
	client storage.Client
}

// NewPublisher creates a new publisher. client may be nil when only local
// destinations are used.
func NewPublisher(client storage.Client) *Publisher {
	return &Publisher{client: client}
}

// Publish stores data under name at dest and returns the resulting location.
// dest is either a directory or s3://bucket[/prefix].
func (p *Publisher) Publish(ctx context.Context, dest, name string, format Format, data []byte) (string, error) {
	if strings.HasPrefix(dest, "s3://") {
		return p.putObject(ctx, strings.TrimPrefix(dest, "s3://"), name, format, data)
	}

	if dest == "" {
		dest = "."
	}
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	target := filepath.Join(dest, name)
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return target, nil
}

func (p *Publisher) putObject(ctx context.Context, rest, name string, format Format, data []byte) (string, error) {
	if p.client == nil {
		return "", fmt.Errorf("storage client not configured")
	}

	bucket, prefix, _ := strings.Cut(rest, "/")
	if bucket == "" {
		return "", fmt.Errorf("invalid report destination s3://%s", rest)
	}
	key := path.Join(prefix, name)

	_, err := p.client.PutObject(ctx, bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: format.ContentType(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return fmt.Sprintf("s3://%s/%s", bucket, key), nil
}
