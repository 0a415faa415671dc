package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoveUploadedImage(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	defer os.Chdir(wd)

	dir := filepath.Join("uploads", "payments")
	require.NoError(t, os.MkdirAll(dir, 0755))
	path := filepath.Join(dir, "receipt.jpg")
	require.NoError(t, os.WriteFile(path, []byte("img"), 0644))

	require.NoError(t, RemoveUploadedImage("/uploads/payments/receipt.jpg"))

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "file should be gone after removal")
}

func TestRemoveUploadedImageRejectsOutsideUploads(t *testing.T) {
	assert.Error(t, RemoveUploadedImage("/etc/passwd"))
	assert.Error(t, RemoveUploadedImage("/uploads/../secrets.txt"))
	assert.Error(t, RemoveUploadedImage("relative/path.jpg"))
}
