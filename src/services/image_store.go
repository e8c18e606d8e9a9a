package services

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/sccbd/catalog-api/src/logging"
)

// AllowedImageTypes are the sniffed media types accepted for uploads
var AllowedImageTypes = []string{"image/png", "image/jpeg", "image/webp"}

var nonWord = regexp.MustCompile(`\W`)

// ImageStore keeps uploaded images on the local filesystem
type ImageStore struct {
	dir      string
	maxBytes int64
	now      func() time.Time
	logger   zerolog.Logger
}

// NewImageStore creates the upload directory if needed
func NewImageStore(dir string, maxBytes int64) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}
	return &ImageStore{
		dir:      dir,
		maxBytes: maxBytes,
		now:      time.Now,
		logger:   logging.NewLogger("image_store"),
	}, nil
}

// Dir returns the directory images are written to
func (s *ImageStore) Dir() string {
	return s.dir
}

// Save validates and writes one upload, returning the stored file name
func (s *ImageStore) Save(fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", fmt.Errorf("%w: no file", ErrUploadFailed)
	}
	if fh.Size > s.maxBytes {
		return "", fmt.Errorf("%w: %s is %d bytes, limit is %d", ErrFileTooLarge, fh.Filename, fh.Size, s.maxBytes)
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	defer src.Close()

	mtype, err := mimetype.DetectReader(src)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	if !mimetype.EqualsAny(mtype.String(), AllowedImageTypes...) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedMediaType, mtype.String())
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	dst, name, err := s.create(fh.Filename, mtype.Extension())
	if err != nil {
		return "", err
	}

	n, err := io.Copy(dst, io.LimitReader(src, s.maxBytes+1))
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil && n > s.maxBytes {
		err = fmt.Errorf("%w: %s exceeds %d bytes", ErrFileTooLarge, fh.Filename, s.maxBytes)
	}
	if err != nil {
		_ = os.Remove(filepath.Join(s.dir, name))
		if errors.Is(err, ErrFileTooLarge) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	s.logger.Debug().Str("file", name).Str("type", mtype.String()).Int64("bytes", n).Msg("image stored")
	return name, nil
}

// create opens a new file named <base><unix>.<ext>, adding a numeric suffix on collision
func (s *ImageStore) create(filename, ext string) (*os.File, string, error) {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	base = nonWord.ReplaceAllString(base, "_")
	if base == "" || base == "." {
		base = "image"
	}
	stem := fmt.Sprintf("%s%d", base, s.now().Unix())

	for i := 0; i < 100; i++ {
		name := stem + ext
		if i > 0 {
			name = fmt.Sprintf("%s_%d%s", stem, i, ext)
		}
		f, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, name, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
		}
	}
	return nil, "", fmt.Errorf("%w: too many files named %s", ErrUploadFailed, stem)
}

// SaveAll stores every file or none of them
func (s *ImageStore) SaveAll(files []*multipart.FileHeader) ([]string, error) {
	names := make([]string, 0, len(files))
	for _, fh := range files {
		name, err := s.Save(fh)
		if err != nil {
			var mErr *multierror.Error
			mErr = multierror.Append(mErr, err)
			if cleanupErr := s.RemoveAll(names); cleanupErr != nil {
				mErr = multierror.Append(mErr, cleanupErr)
			}
			return nil, mErr.ErrorOrNil()
		}
		names = append(names, name)
	}
	return names, nil
}

// Remove deletes a stored image. Missing files are not an error.
func (s *ImageStore) Remove(name string) error {
	if name == "" {
		return nil
	}
	if filepath.Base(name) != name {
		return fmt.Errorf("invalid image name %q", name)
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove image %s: %w", name, err)
	}
	return nil
}

// RemoveAll deletes every named image and aggregates failures
func (s *ImageStore) RemoveAll(names []string) error {
	var mErr *multierror.Error
	for _, name := range names {
		if err := s.Remove(name); err != nil {
			mErr = multierror.Append(mErr, err)
		}
	}
	return mErr.ErrorOrNil()
}

// discard removes files after a failed write and logs anything left behind
func (s *ImageStore) discard(names ...string) {
	if err := s.RemoveAll(names); err != nil {
		s.logger.Warn().Err(err).Strs("files", names).Msg("failed to remove orphaned images")
	}
}
