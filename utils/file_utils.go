package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

const (
	// Base directory for storing uploaded files
	uploadBaseDir = "uploads"
	// Base URL for serving files
	baseURL = "/uploads"
	// Maximum file size (10MB)
	maxFileSize = 10 * 1024 * 1024
	// Thumbnail width, height derived from aspect ratio
	thumbnailWidth = 320
)

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// ValidateImageFile checks size and extension of an uploaded image
func ValidateImageFile(file *multipart.FileHeader) error {
	if file.Size > maxFileSize {
		return fmt.Errorf("file too large. Maximum size is %d bytes", maxFileSize)
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExts[ext] {
		return fmt.Errorf("unsupported image format. Allowed formats: jpg, jpeg, png, gif, webp")
	}
	return nil
}

// SaveUploadedImage stores an uploaded image under uploads/<subDir> with
// a random filename and returns its serving URL
func SaveUploadedImage(file *multipart.FileHeader, subDir string) (string, error) {
	if err := ValidateImageFile(file); err != nil {
		return "", err
	}

	dir := filepath.Join(uploadBaseDir, subDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	filename := uuid.NewString() + ext
	fullPath := filepath.Join(dir, filename)

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to copy file contents: %w", err)
	}

	return fmt.Sprintf("%s/%s/%s", baseURL, subDir, filename), nil
}

// RemoveUploadedImage deletes a stored upload given its serving URL.
// Used to clean up files whose database write failed after the upload
// already landed on disk.
func RemoveUploadedImage(imageURL string) error {
	if !strings.HasPrefix(imageURL, baseURL+"/") {
		return fmt.Errorf("not an upload URL: %s", imageURL)
	}
	relPath := strings.TrimPrefix(imageURL, baseURL+"/")
	if strings.Contains(relPath, "..") {
		return fmt.Errorf("invalid upload path: %s", imageURL)
	}
	return os.Remove(filepath.Join(uploadBaseDir, relPath))
}

// GenerateImageThumbnail writes a downscaled copy of a stored image next
// to the thumbnails of its subdirectory and returns the thumbnail URL.
// GIFs are skipped (animated frames); the original URL is returned.
func GenerateImageThumbnail(imageURL string) (string, error) {
	if strings.HasSuffix(strings.ToLower(imageURL), ".gif") {
		return imageURL, nil
	}

	relPath := strings.TrimPrefix(imageURL, baseURL+"/")
	fullPath := filepath.Join(uploadBaseDir, relPath)

	img, err := imaging.Open(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to open image: %w", err)
	}

	resized := imaging.Resize(img, thumbnailWidth, 0, imaging.Lanczos)

	thumbRel := filepath.Join("thumbnails", strings.ReplaceAll(relPath, string(filepath.Separator), "_"))
	thumbPath := filepath.Join(uploadBaseDir, thumbRel)
	if err := os.MkdirAll(filepath.Dir(thumbPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create thumbnail directory: %w", err)
	}

	if err := imaging.Save(resized, thumbPath, imaging.JPEGQuality(85)); err != nil {
		return "", fmt.Errorf("failed to save thumbnail: %w", err)
	}

	return fmt.Sprintf("%s/%s", baseURL, filepath.ToSlash(thumbRel)), nil
}

// InitializeStorage creates the upload directories at boot
func InitializeStorage() error {
	dirs := []string{
		uploadBaseDir,
		filepath.Join(uploadBaseDir, "shops"),
		filepath.Join(uploadBaseDir, "institutes"),
		filepath.Join(uploadBaseDir, "hospitals"),
		filepath.Join(uploadBaseDir, "products"),
		filepath.Join(uploadBaseDir, "payments"),
		filepath.Join(uploadBaseDir, "thumbnails"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}
