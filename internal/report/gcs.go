package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"cloud.google.com/go/storage"
)

// GCSSink uploads the finished report as a single JSON object, for runs
// large enough that keeping every report on the machine that ran them
// isn't practical.
type GCSSink struct {
	Client     *storage.Client
	BucketName string
	ObjectPath string
}

// NewGCSSink opens a storage client using ambient application-default
// credentials, the way the rest of the corpus's GCS-backed services do
// outside of the CLI's explicit service-account-key path.
func NewGCSSink(ctx context.Context, bucket, objectPath string) (*GCSSink, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("report: creating GCS client: %w", err)
	}
	return &GCSSink{Client: client, BucketName: bucket, ObjectPath: objectPath}, nil
}

func (s *GCSSink) Write(r *Report) error {
	ctx := context.Background()
	obj := s.Client.Bucket(s.BucketName).Object(s.ObjectPath)
	writer := obj.NewWriter(ctx)
	writer.ContentType = "application/json"

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("report: marshaling: %w", err)
	}
	if _, err := io.Copy(writer, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("report: uploading to gs://%s/%s: %w", s.BucketName, s.ObjectPath, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("report: closing GCS writer: %w", err)
	}
	return nil
}
