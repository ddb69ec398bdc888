// Package source provides the listings a picker browses: the local file
// system, an S3 compatible bucket and a remote host over SFTP.
package source

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/HaiFongPan/fpick/internal/config"
	"github.com/HaiFongPan/fpick/internal/picker"
	"github.com/HaiFongPan/fpick/internal/r2"
)

// Source is a picker.Provider that can also stream file contents
type Source interface {
	picker.Provider
	Open(path string) (io.ReadCloser, error)
	Name() string
	Close() error
}

// New builds the source named by cfg.Picker.Source
func New(ctx context.Context, cfg *config.Config) (Source, error) {
	timeout := time.Duration(cfg.General.DefaultTimeout) * time.Second

	switch strings.ToLower(cfg.Picker.Source) {
	case config.SourceLocal, "":
		return NewLocal(), nil

	case config.SourceS3:
		client, err := r2.NewClient(ctx, &cfg.S3)
		if err != nil {
			return nil, fmt.Errorf("failed to create bucket client: %w", err)
		}
		logrus.Debugf("source: bucket %s at %s", cfg.S3.BucketName, r2.Endpoint(&cfg.S3))
		return NewBucket(client, timeout), nil

	case config.SourceSFTP:
		return DialSFTP(&cfg.SFTP, timeout)

	default:
		return nil, fmt.Errorf("unknown source: %s", cfg.Picker.Source)
	}
}
