// Package archive keeps a copy of every raw page fetched from YNAB in a GCS
// bucket so a run can be replayed without calling the API again.
package archive

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"cloud.google.com/go/storage"
	"github.com/gofrs/uuid/v5"
)

// objectStore is the part of a bucket the archiver writes through.
type objectStore interface {
	NewWriter(ctx context.Context, name string) io.WriteCloser
}

type gcsBucket struct {
	handle *storage.BucketHandle
}

func (b gcsBucket) NewWriter(ctx context.Context, name string) io.WriteCloser {
	w := b.handle.Object(name).NewWriter(ctx)
	w.ContentType = "application/json"
	return w
}

type Archiver struct {
	budgetID string
	bucket   objectStore
	closer   io.Closer
	timeout  time.Duration
}

// NewGCSArchiver uses Application Default Credentials.
func NewGCSArchiver(ctx context.Context, bucketName, budgetID string) (*Archiver, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &Archiver{
		budgetID: budgetID,
		bucket:   gcsBucket{handle: client.Bucket(bucketName)},
		closer:   client,
		timeout:  2 * time.Minute,
	}, nil
}

func newArchiver(bucket objectStore, budgetID string) *Archiver {
	return &Archiver{budgetID: budgetID, bucket: bucket, timeout: time.Minute}
}

// ObjectName is budgets/<budget>/runs/<run>/<kind>-<page>.json; page is
// zero-padded so a listing sorts in fetch order.
func (a *Archiver) ObjectName(runID uuid.UUID, kind string, page int) string {
	return path.Join("budgets", a.budgetID, "runs", runID.String(), fmt.Sprintf("%s-%05d.json", kind, page))
}

func (a *Archiver) ArchivePage(ctx context.Context, runID uuid.UUID, kind string, page int, raw []byte) error {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	name := a.ObjectName(runID, kind, page)
	w := a.bucket.NewWriter(ctx, name)
	if _, err := w.Write(raw); err != nil {
		_ = w.Close()
		return fmt.Errorf("archive %s: write: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("archive %s: finalize upload: %w", name, err)
	}
	return nil
}

func (a *Archiver) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}
