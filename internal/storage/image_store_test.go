package storage

import (
	"bytes"
	"image"
	"image/png"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type memFile struct {
	*bytes.Reader
}

func (memFile) Close() error { return nil }

func newMemFile(data []byte) multipart.File {
	return memFile{bytes.NewReader(data)}
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestDiskImageStoreSaveAndRemove(t *testing.T) {
	store, err := NewDiskImageStore(t.TempDir(), "http://localhost:8080/uploads/")
	require.NoError(t, err)

	data := pngBytes(t)
	header := &multipart.FileHeader{Filename: "house.png", Size: int64(len(data))}

	stored, err := store.Save(newMemFile(data), header)
	require.NoError(t, err)
	require.Contains(t, stored.URL, "http://localhost:8080/uploads/")
	require.Equal(t, ".png", filepath.Ext(stored.PublicID))

	_, err = os.Stat(filepath.Join(store.Dir(), stored.PublicID))
	require.NoError(t, err)

	require.NoError(t, store.Remove(stored.PublicID))
	_, err = os.Stat(filepath.Join(store.Dir(), stored.PublicID))
	require.True(t, os.IsNotExist(err))

	// Removing twice is a no-op.
	require.NoError(t, store.Remove(stored.PublicID))
}

func TestDiskImageStoreRejectsUnsupportedType(t *testing.T) {
	store, err := NewDiskImageStore(t.TempDir(), "http://localhost:8080/uploads")
	require.NoError(t, err)

	data := []byte("GIF89a not really an allowed image")
	header := &multipart.FileHeader{Filename: "anim.gif", Size: int64(len(data))}

	_, err = store.Save(newMemFile(data), header)
	require.Error(t, err)
}

func TestDiskImageStoreRejectsPathTraversal(t *testing.T) {
	store, err := NewDiskImageStore(t.TempDir(), "http://localhost:8080/uploads")
	require.NoError(t, err)

	require.Error(t, store.Remove("../escape.png"))
	require.Error(t, store.Remove(""))
}
