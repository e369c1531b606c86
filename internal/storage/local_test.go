package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageSaveAndRead(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(Config{BasePath: t.TempDir(), BaseURL: "/uploads/"})
	require.NoError(t, err)

	require.NoError(t, s.Save(ctx, "ScholarshipDocs/a.pdf", strings.NewReader("%PDF-1.4"), "application/pdf"))

	ok, err := s.Exists(ctx, "ScholarshipDocs/a.pdf")
	require.NoError(t, err)
	assert.True(t, ok)

	rc, err := s.Get(ctx, "ScholarshipDocs/a.pdf")
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(body))

	url, err := s.GetURL(ctx, "ScholarshipDocs/a.pdf")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/ScholarshipDocs/a.pdf", url)
}

func TestLocalStorageIsAppendOnly(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(Config{BasePath: t.TempDir()})
	require.NoError(t, err)

	require.NoError(t, s.Save(ctx, "x.png", strings.NewReader("one"), "image/png"))
	assert.Error(t, s.Save(ctx, "x.png", strings.NewReader("two"), "image/png"))
}

func TestLocalStorageStaysInsideBasePath(t *testing.T) {
	ctx := context.Background()
	base := t.TempDir()
	s, err := NewLocalStorage(Config{BasePath: base})
	require.NoError(t, err)

	require.NoError(t, s.Save(ctx, "../../escape.txt", strings.NewReader("x"), "text/plain"))
	ok, err := s.Exists(ctx, "escape.txt")
	require.NoError(t, err)
	assert.True(t, ok, "traversal is clamped to the base directory")
}

func TestNewStorageRejectsUnknownType(t *testing.T) {
	_, err := NewStorage(context.Background(), Config{Type: "ftp"})
	assert.ErrorContains(t, err, "unsupported storage type")
}
