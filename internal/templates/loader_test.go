package templates

import (
	"context"
	"errors"
	"io"
	"testing"
	"testing/fstest"

	"activity_srv/db"
	"activity_srv/internal/storage"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testStore() storage.Storage {
	return storage.NewFSStorage(fstest.MapFS{
		"postgres/users/show.sql":       {Data: []byte("SELECT * FROM users WHERE handle = @handle\n")},
		"postgres/activities/home.sql":  {Data: []byte("SELECT * FROM activities")},
		"postgres/activities/blank.sql": {Data: []byte("  \n")},
		"postgres/activities/README.md": {Data: []byte("docs")},
		"sqlite/users/show.sql":         {Data: []byte("SELECT json_object() AS obj")},
	})
}

func TestTemplate(t *testing.T) {
	loader := NewLoader(testStore(), "postgres", setupTestLogger())

	sql, err := loader.Template(context.Background(), "users", "show")
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM users WHERE handle = @handle\n", sql)
}

func TestTemplateNotFound(t *testing.T) {
	loader := NewLoader(testStore(), "postgres", setupTestLogger())

	refs := [][2]string{
		{"users", "missing"},
		{"nomodule", "show"},
		{"", "show"},
		{"users", ""},
		{"..", "show"},
		{"users/../activities", "home"},
		{"users", "*"},
	}
	for _, ref := range refs {
		_, err := loader.Template(context.Background(), ref[0], ref[1])
		assert.ErrorIs(t, err, ErrTemplateNotFound, "%s/%s", ref[0], ref[1])
	}
}

func TestTemplateEmpty(t *testing.T) {
	loader := NewLoader(testStore(), "postgres", setupTestLogger())

	_, err := loader.Template(context.Background(), "activities", "blank")
	assert.ErrorIs(t, err, ErrEmptyTemplate)
}

func TestTemplateUsesDialectPrefix(t *testing.T) {
	loader := NewLoader(testStore(), "sqlite", setupTestLogger())

	sql, err := loader.Template(context.Background(), "users", "show")
	require.NoError(t, err)
	assert.Contains(t, sql, "json_object")

	_, err = loader.Template(context.Background(), "activities", "home")
	assert.ErrorIs(t, err, ErrTemplateNotFound)
}

type failingStore struct {
	storage.Storage
}

func (failingStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	return nil, errors.New("access denied")
}

func TestTemplateStoreFailure(t *testing.T) {
	loader := NewLoader(failingStore{testStore()}, "postgres", setupTestLogger())

	_, err := loader.Template(context.Background(), "users", "show")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrTemplateNotFound)
}

func TestAvailable(t *testing.T) {
	loader := NewLoader(testStore(), "postgres", setupTestLogger())

	refs, err := loader.Available(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []Ref{
		{Module: "activities", Name: "blank"},
		{Module: "activities", Name: "home"},
		{Module: "users", Name: "show"},
	}, refs)
	assert.Equal(t, "users/show", refs[2].String())
}

func TestEmbeddedTemplates(t *testing.T) {
	for _, dialect := range []string{"postgres", "sqlite"} {
		loader := NewLoader(storage.NewFSStorage(db.Templates()), dialect, setupTestLogger())

		for _, ref := range []Ref{
			{"activities", "home"},
			{"activities", "search"},
			{"users", "show"},
			{"users", "profile"},
		} {
			sql, err := loader.Template(context.Background(), ref.Module, ref.Name)
			require.NoError(t, err, "%s: %s", dialect, ref)
			assert.NotEmpty(t, sql)
		}
	}
}
