package publish

import (
	"context"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path"
	"path/filepath"
	"time"

	"panchangreel/internal/logging"
	"panchangreel/internal/services"
)

const stageName = "publish"

// Publisher uploads a finished reel and its panels under a dated prefix.
type Publisher struct {
	store  ObjectStore
	bucket string
	prefix string
	logger *slog.Logger
}

// Result lists what was uploaded.
type Result struct {
	Location string
	Keys     []string
	Replaced int
}

// NewPublisher returns a publisher writing into bucket under prefix.
func NewPublisher(store ObjectStore, bucket, prefix string, logger *slog.Logger) *Publisher {
	return &Publisher{
		store:  store,
		bucket: bucket,
		prefix: prefix,
		logger: logging.NewComponentLogger(logger, "publish"),
	}
}

// Key returns the object key for a file published for date.
func (p *Publisher) Key(date time.Time, name string) string {
	return path.Join(p.prefix, date.Format(time.DateOnly), name)
}

// Publish uploads every file in files, keyed by date and base name. The first
// file is treated as the primary artifact and its URI is returned as
// Location. Existing objects are overwritten.
func (p *Publisher) Publish(ctx context.Context, date time.Time, files ...string) (Result, error) {
	ctx = services.WithStage(ctx, stageName)
	logger := logging.WithContext(ctx, p.logger)
	if len(files) == 0 {
		return Result{}, services.Wrap(services.ErrValidation, stageName, "publish", "no files to upload", nil)
	}
	var result Result
	for i, file := range files {
		key := p.Key(date, filepath.Base(file))
		exists, err := p.store.Exists(ctx, p.bucket, key)
		if err != nil {
			return result, services.Wrap(services.ErrExternalTool, stageName, "head object", key, err)
		}
		if exists {
			result.Replaced++
		}
		if err := p.upload(ctx, file, key); err != nil {
			return result, err
		}
		result.Keys = append(result.Keys, key)
		if i == 0 {
			result.Location = fmt.Sprintf("s3://%s/%s", p.bucket, key)
		}
		logger.Debug("object uploaded",
			logging.String("key", key),
			logging.Bool("replaced", exists),
		)
	}
	logger.Info("reel published",
		logging.String("location", result.Location),
		logging.Int("objects", len(result.Keys)),
		logging.Event("reel_published"),
	)
	return result, nil
}

func (p *Publisher) upload(ctx context.Context, file, key string) error {
	f, err := os.Open(file)
	if err != nil {
		return services.Wrap(services.ErrNotFound, stageName, "open", file, err)
	}
	defer f.Close()
	if err := p.store.Put(ctx, p.bucket, key, f, contentType(file)); err != nil {
		return services.Wrap(services.ErrExternalTool, stageName, "put object", key, err)
	}
	return nil
}

func contentType(file string) string {
	switch filepath.Ext(file) {
	case ".mp4":
		return "video/mp4"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	}
	if t := mime.TypeByExtension(filepath.Ext(file)); t != "" {
		return t
	}
	return "application/octet-stream"
}
