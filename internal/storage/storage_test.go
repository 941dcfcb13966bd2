package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"activity_srv/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.SetLevel(logrus.DebugLevel)
	return logger
}

func readAll(t *testing.T, rc io.ReadCloser) string {
	defer rc.Close()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(b)
}

func TestLocalStorage(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "postgres", "users"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "postgres", "users", "show.sql"), []byte("SELECT 1"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "postgres", "home.sql"), []byte("SELECT 2"), 0o644))

	st, err := NewLocalStorage(LocalConfig{BasePath: dir}, setupTestLogger())
	require.NoError(t, err)
	ctx := context.Background()

	rc, err := st.Get(ctx, "postgres/users/show.sql")
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1", readAll(t, rc))

	_, err = st.Get(ctx, "postgres/users/missing.sql")
	assert.ErrorIs(t, err, ErrNotFound)

	ok, err := st.Exists(ctx, "postgres/home.sql")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = st.Exists(ctx, "postgres/users")
	require.NoError(t, err)
	assert.False(t, ok, "directories are not files")

	files, err := st.List(ctx, "postgres/")
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "postgres/home.sql", files[0].Key)
	assert.Equal(t, "postgres/users/show.sql", files[1].Key)
	assert.Equal(t, int64(8), files[1].Size)
}

func TestLocalStorageRequiresExistingAbsoluteDir(t *testing.T) {
	_, err := NewLocalStorage(LocalConfig{BasePath: "relative/path"}, setupTestLogger())
	assert.Error(t, err)

	_, err = NewLocalStorage(LocalConfig{BasePath: filepath.Join(t.TempDir(), "nope")}, setupTestLogger())
	assert.Error(t, err)
}

func TestFSStorage(t *testing.T) {
	fsys := fstest.MapFS{
		"postgres/activities/home.sql": {Data: []byte("SELECT * FROM activities")},
		"sqlite/activities/home.sql":   {Data: []byte("SELECT json_object() AS obj")},
	}
	st := NewFSStorage(fsys)
	ctx := context.Background()

	rc, err := st.Get(ctx, "postgres/activities/home.sql")
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM activities", readAll(t, rc))

	_, err = st.Get(ctx, "postgres/activities/none.sql")
	assert.ErrorIs(t, err, ErrNotFound)

	files, err := st.List(ctx, "sqlite/")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "sqlite/activities/home.sql", files[0].Key)

	assert.Error(t, st.ValidateKey("./postgres/home.sql"))
}

func TestValidateKey(t *testing.T) {
	assert.NoError(t, validateKey("postgres/users/show.sql"))
	assert.Error(t, validateKey(""))
	assert.Error(t, validateKey("/etc/passwd"))
	assert.Error(t, validateKey("postgres/../../etc/passwd"))
	assert.Error(t, validateKey(`postgres\users\show.sql`))
}

func TestValidationMiddlewareBlocksTraversal(t *testing.T) {
	fsys := fstest.MapFS{"postgres/a.sql": {Data: []byte("SELECT 1")}}
	st := wrapWithMiddleware(NewFSStorage(fsys), setupTestLogger())

	_, err := st.Get(context.Background(), "../secrets.sql")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)

	rc, err := st.Get(context.Background(), "postgres/a.sql")
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1", readAll(t, rc))
}

func TestNewStorageFromConfig(t *testing.T) {
	fsys := fstest.MapFS{"postgres/a.sql": {Data: []byte("SELECT 1")}}

	cfg := config.Config{Templates: config.Templates{Type: config.TemplatesEmbed}}
	st, err := NewStorageFromConfig(cfg, fsys, setupTestLogger())
	require.NoError(t, err)
	ok, err := st.Exists(context.Background(), "postgres/a.sql")
	require.NoError(t, err)
	assert.True(t, ok)

	cfg.Templates = config.Templates{Type: config.TemplatesLocal, BasePath: t.TempDir()}
	_, err = NewStorageFromConfig(cfg, nil, setupTestLogger())
	assert.NoError(t, err)

	cfg.Templates = config.Templates{Type: "ftp"}
	_, err = NewStorageFromConfig(cfg, nil, setupTestLogger())
	assert.Error(t, err)
}

// MockS3 is a mock implementation of the S3API interface
type MockS3 struct {
	mock.Mock
}

func (m *MockS3) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(ctx, aws.ToString(params.Key))
	out, _ := args.Get(0).(*s3.GetObjectOutput)
	return out, args.Error(1)
}

func (m *MockS3) HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	args := m.Called(ctx, aws.ToString(params.Key))
	out, _ := args.Get(0).(*s3.HeadObjectOutput)
	return out, args.Error(1)
}

func (m *MockS3) ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	args := m.Called(ctx, aws.ToString(params.Prefix))
	out, _ := args.Get(0).(*s3.ListObjectsV2Output)
	return out, args.Error(1)
}

func TestS3Storage(t *testing.T) {
	client := new(MockS3)
	st := NewS3StorageWithClient(client, "templates", setupTestLogger())
	ctx := context.Background()
	modified := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	client.On("GetObject", mock.Anything, "postgres/users/show.sql").
		Return(&s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader("SELECT 1"))}, nil)
	client.On("GetObject", mock.Anything, "postgres/users/none.sql").
		Return(nil, &types.NoSuchKey{})
	client.On("HeadObject", mock.Anything, "postgres/users/none.sql").
		Return(nil, &types.NotFound{})
	client.On("ListObjectsV2", mock.Anything, "postgres/").
		Return(&s3.ListObjectsV2Output{
			Contents: []types.Object{
				{Key: aws.String("postgres/users/show.sql"), Size: aws.Int64(8), LastModified: &modified},
			},
		}, nil)

	rc, err := st.Get(ctx, "postgres/users/show.sql")
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1", readAll(t, rc))

	_, err = st.Get(ctx, "postgres/users/none.sql")
	assert.ErrorIs(t, err, ErrNotFound)

	ok, err := st.Exists(ctx, "postgres/users/none.sql")
	require.NoError(t, err)
	assert.False(t, ok)

	files, err := st.List(ctx, "postgres/")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, FileInfo{Key: "postgres/users/show.sql", Size: 8, LastModified: modified}, files[0])

	client.AssertExpectations(t)
}

func TestValidateS3Config(t *testing.T) {
	assert.Error(t, validateS3Config(S3Config{Bucket: "b"}))
	assert.Error(t, validateS3Config(S3Config{Region: "us-east-1"}))
	assert.Error(t, validateS3Config(S3Config{Region: "us-east-1", Bucket: "b", AccessKey: "only-key"}))
	assert.NoError(t, validateS3Config(S3Config{Region: "us-east-1", Bucket: "b"}))
}
