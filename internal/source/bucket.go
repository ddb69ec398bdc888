package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/sirupsen/logrus"

	"github.com/HaiFongPan/fpick/internal/picker"
	"github.com/HaiFongPan/fpick/internal/r2"
)

const delimiter = "/"

// Bucket lists an S3 compatible bucket as a directory tree. Object keys are
// exposed as absolute slash paths, "a/b.txt" becomes "/a/b.txt", and every
// common prefix is a directory.
type Bucket struct {
	client  *r2.Client
	timeout time.Duration
}

// NewBucket returns a bucket source. A zero timeout means no deadline.
func NewBucket(client *r2.Client, timeout time.Duration) *Bucket {
	return &Bucket{client: client, timeout: timeout}
}

// Name implements Source
func (b *Bucket) Name() string {
	return "s3://" + b.client.GetBucketName()
}

func (b *Bucket) context() (context.Context, context.CancelFunc) {
	if b.timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), b.timeout)
}

// Abs roots relative paths at the bucket root
func (b *Bucket) Abs(p string) (string, error) {
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p), nil
}

func objectKey(p string) string {
	return strings.TrimPrefix(path.Clean(p), "/")
}

func dirPrefix(p string) string {
	key := objectKey(p)
	if key == "" {
		return ""
	}
	return key + delimiter
}

// Stat reports an existing object as a file and a non-empty prefix as a
// directory
func (b *Bucket) Stat(p string) (picker.Kind, error) {
	key := objectKey(p)
	if key == "" {
		return picker.KindDirectory, nil
	}

	ctx, cancel := b.context()
	defer cancel()

	api := b.client.GetS3Client()
	_, err := api.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(b.client.GetBucketName()),
		Key:    aws.String(key),
	})
	if err == nil {
		return picker.KindFile, nil
	}
	if !isNotFound(err) {
		return picker.KindFile, fmt.Errorf("failed to head %s: %w", key, err)
	}

	out, err := api.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(b.client.GetBucketName()),
		Prefix:  aws.String(key + delimiter),
		MaxKeys: aws.Int32(1),
	})
	if err != nil {
		return picker.KindFile, fmt.Errorf("failed to list %s: %w", key, err)
	}
	if len(out.Contents) > 0 || len(out.CommonPrefixes) > 0 {
		return picker.KindDirectory, nil
	}
	return picker.KindFile, fs.ErrNotExist
}

// ReadDir lists one level below p
func (b *Bucket) ReadDir(p string) ([]picker.RawEntry, error) {
	ctx, cancel := b.context()
	defer cancel()

	prefix := dirPrefix(p)
	paginator := s3.NewListObjectsV2Paginator(b.client.GetS3Client(), &s3.ListObjectsV2Input{
		Bucket:    aws.String(b.client.GetBucketName()),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String(delimiter),
	})

	var entries []picker.RawEntry
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}

		for _, cp := range page.CommonPrefixes {
			name := strings.TrimSuffix(strings.TrimPrefix(aws.ToString(cp.Prefix), prefix), delimiter)
			if name == "" {
				continue
			}
			entries = append(entries, picker.RawEntry{
				Name: name,
				Kind: picker.KindDirectory,
				Meta: &picker.Meta{},
			})
		}

		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), prefix)
			// folder placeholder objects
			if name == "" || strings.Contains(name, delimiter) {
				continue
			}
			entries = append(entries, picker.RawEntry{
				Name: name,
				Kind: picker.KindFile,
				Meta: &picker.Meta{
					Size:     aws.ToInt64(obj.Size),
					Modified: aws.ToTime(obj.LastModified),
				},
			})
		}
	}

	// an empty prefix that is not the root does not exist
	if len(entries) == 0 && prefix != "" {
		if kind, err := b.Stat(p); err != nil || kind != picker.KindDirectory {
			logrus.Debugf("source: %s is not a bucket directory", p)
			return nil, fs.ErrNotExist
		}
	}
	return entries, nil
}

// Open downloads the object at p
func (b *Bucket) Open(p string) (io.ReadCloser, error) {
	ctx, cancel := b.context()
	out, err := b.client.GetS3Client().GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.client.GetBucketName()),
		Key:    aws.String(objectKey(p)),
	})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to get %s: %w", p, err)
	}
	return &cancelReadCloser{ReadCloser: out.Body, cancel: cancel}, nil
}

// Close implements Source
func (b *Bucket) Close() error {
	return nil
}

type cancelReadCloser struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelReadCloser) Close() error {
	defer c.cancel()
	return c.ReadCloser.Close()
}

func isNotFound(err error) bool {
	var nf *types.NotFound
	var nsk *types.NoSuchKey
	return errors.As(err, &nf) || errors.As(err, &nsk)
}
