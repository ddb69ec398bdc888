package source

import (
	"context"
	"io"
	"io/fs"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/HaiFongPan/fpick/internal/picker"
	"github.com/HaiFongPan/fpick/internal/r2"
)

// MockS3Client mocks the bucket API
type MockS3Client struct {
	mock.Mock
}

func (m *MockS3Client) ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(*s3.ListObjectsV2Output), args.Error(1)
}

func (m *MockS3Client) HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(*s3.HeadObjectOutput), args.Error(1)
}

func (m *MockS3Client) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(*s3.GetObjectOutput), args.Error(1)
}

func withPrefix(prefix string) interface{} {
	return mock.MatchedBy(func(in *s3.ListObjectsV2Input) bool {
		return aws.ToString(in.Prefix) == prefix
	})
}

func withKey(key string) interface{} {
	return mock.MatchedBy(func(in *s3.HeadObjectInput) bool {
		return aws.ToString(in.Key) == key
	})
}

func newTestBucket(m *MockS3Client) *Bucket {
	return NewBucket(r2.NewClientWithAPI(m, "photos"), time.Second)
}

func TestBucketAbs(t *testing.T) {
	b := newTestBucket(&MockS3Client{})

	abs, err := b.Abs("a/b/../c")
	require.NoError(t, err)
	assert.Equal(t, "/a/c", abs)

	abs, err = b.Abs("/")
	require.NoError(t, err)
	assert.Equal(t, "/", abs)
	assert.Equal(t, "s3://photos", b.Name())
}

func TestBucketReadDir(t *testing.T) {
	m := &MockS3Client{}
	mod := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	m.On("ListObjectsV2", mock.Anything, withPrefix("2024/")).Return(&s3.ListObjectsV2Output{
		CommonPrefixes: []types.CommonPrefix{{Prefix: aws.String("2024/march/")}},
		Contents: []types.Object{
			{Key: aws.String("2024/"), Size: aws.Int64(0)},
			{Key: aws.String("2024/cover.jpg"), Size: aws.Int64(2048), LastModified: aws.Time(mod)},
		},
	}, nil).Once()

	entries, err := newTestBucket(m).ReadDir("/2024")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "march", entries[0].Name)
	assert.Equal(t, picker.KindDirectory, entries[0].Kind)
	assert.Equal(t, "cover.jpg", entries[1].Name)
	assert.Equal(t, picker.KindFile, entries[1].Kind)
	assert.Equal(t, int64(2048), entries[1].Meta.Size)
	assert.Equal(t, mod, entries[1].Meta.Modified)

	m.AssertExpectations(t)
}

func TestBucketReadDirPaginates(t *testing.T) {
	m := &MockS3Client{}
	m.On("ListObjectsV2", mock.Anything, mock.MatchedBy(func(in *s3.ListObjectsV2Input) bool {
		return in.ContinuationToken == nil
	})).Return(&s3.ListObjectsV2Output{
		Contents:              []types.Object{{Key: aws.String("a.txt"), Size: aws.Int64(1)}},
		IsTruncated:           aws.Bool(true),
		NextContinuationToken: aws.String("next"),
	}, nil).Once()
	m.On("ListObjectsV2", mock.Anything, mock.MatchedBy(func(in *s3.ListObjectsV2Input) bool {
		return aws.ToString(in.ContinuationToken) == "next"
	})).Return(&s3.ListObjectsV2Output{
		Contents: []types.Object{{Key: aws.String("b.txt"), Size: aws.Int64(2)}},
	}, nil).Once()

	entries, err := newTestBucket(m).ReadDir("/")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "a.txt", entries[0].Name)
	assert.Equal(t, "b.txt", entries[1].Name)
	m.AssertExpectations(t)
}

func TestBucketReadDirMissing(t *testing.T) {
	m := &MockS3Client{}
	m.On("ListObjectsV2", mock.Anything, withPrefix("ghost/")).Return(&s3.ListObjectsV2Output{}, nil)
	m.On("HeadObject", mock.Anything, withKey("ghost")).Return((*s3.HeadObjectOutput)(nil), &types.NotFound{})

	_, err := newTestBucket(m).ReadDir("/ghost")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestBucketStat(t *testing.T) {
	m := &MockS3Client{}
	m.On("HeadObject", mock.Anything, withKey("a.txt")).Return(&s3.HeadObjectOutput{}, nil)
	m.On("HeadObject", mock.Anything, withKey("dir")).Return((*s3.HeadObjectOutput)(nil), &types.NotFound{})
	m.On("ListObjectsV2", mock.Anything, withPrefix("dir/")).Return(&s3.ListObjectsV2Output{
		Contents: []types.Object{{Key: aws.String("dir/x")}},
	}, nil)
	m.On("HeadObject", mock.Anything, withKey("none")).Return((*s3.HeadObjectOutput)(nil), &types.NotFound{})
	m.On("ListObjectsV2", mock.Anything, withPrefix("none/")).Return(&s3.ListObjectsV2Output{}, nil)

	b := newTestBucket(m)

	kind, err := b.Stat("/")
	require.NoError(t, err)
	assert.Equal(t, picker.KindDirectory, kind)

	kind, err = b.Stat("/a.txt")
	require.NoError(t, err)
	assert.Equal(t, picker.KindFile, kind)

	kind, err = b.Stat("/dir")
	require.NoError(t, err)
	assert.Equal(t, picker.KindDirectory, kind)

	_, err = b.Stat("/none")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestBucketOpen(t *testing.T) {
	m := &MockS3Client{}
	m.On("GetObject", mock.Anything, mock.MatchedBy(func(in *s3.GetObjectInput) bool {
		return aws.ToString(in.Key) == "dir/a.txt" && aws.ToString(in.Bucket) == "photos"
	})).Return(&s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader("data"))}, nil)

	rc, err := newTestBucket(m).Open("/dir/a.txt")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "data", string(data))
}

func TestBucketPicker(t *testing.T) {
	m := &MockS3Client{}
	m.On("ListObjectsV2", mock.Anything, withPrefix("")).Return(&s3.ListObjectsV2Output{
		CommonPrefixes: []types.CommonPrefix{{Prefix: aws.String("docs/")}},
		Contents:       []types.Object{{Key: aws.String("z.pdf"), Size: aws.Int64(10)}},
	}, nil)
	m.On("HeadObject", mock.Anything, withKey("z.pdf")).Return(&s3.HeadObjectOutput{}, nil)

	p, err := picker.New("/", picker.Options{}, newTestBucket(m), nopSink{})
	require.NoError(t, err)

	entries, err := p.Entries("/")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "docs", entries[0].Name)

	require.NoError(t, p.NavigateOrSelect("/z.pdf"))
	assert.Equal(t, []string{"z.pdf"}, p.Selection())
}
