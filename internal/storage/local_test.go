package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadFromBytes_RoundTrip(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	rel, err := store.UploadFromBytes([]byte("%PDF-1.4 contenido"), "contrato.pdf", "contracts")
	require.NoError(t, err)

	assert.True(t, store.Exists(rel))
	assert.True(t, strings.HasSuffix(rel, ".pdf"))

	// Bucketed by year/month under the requested subdirectory
	expectedPrefix := filepath.Join("contracts", time.Now().Format("2006/01"))
	assert.True(t, strings.HasPrefix(rel, expectedPrefix), rel)

	data, err := os.ReadFile(store.GetFullPath(rel))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 contenido", string(data))
}

func TestUploadFromBytes_UniqueNames(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	first, err := store.UploadFromBytes([]byte("uno"), "doc.pdf", "contracts")
	require.NoError(t, err)
	second, err := store.UploadFromBytes([]byte("dos"), "doc.pdf", "contracts")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestDelete_RemovesFile(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	rel, err := store.UploadFromBytes([]byte("temporal"), "borrar.pdf", "contracts")
	require.NoError(t, err)

	require.NoError(t, store.Delete(rel))
	assert.False(t, store.Exists(rel))
}
