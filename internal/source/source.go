// Package source delivers images from files, the gallery dialog and the camera.
package source

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
)

var (
	// ErrCanceled is returned when the user dismisses a picker.
	ErrCanceled = errors.New("image selection canceled")
	// ErrUnavailable is returned when a device or dialog cannot be used.
	ErrUnavailable = errors.New("image source unavailable")
)

// Origin tells how an image was obtained. Camera images are center-cropped
// before scaling, gallery images are not.
type Origin string

const (
	OriginCamera  Origin = "camera"
	OriginGallery Origin = "gallery"
)

// ParseOrigin maps a request value to an Origin, defaulting to gallery.
func ParseOrigin(s string) (Origin, error) {
	switch Origin(s) {
	case "", OriginGallery:
		return OriginGallery, nil
	case OriginCamera:
		return OriginCamera, nil
	default:
		return "", fmt.Errorf("unknown image origin %q", s)
	}
}

// Source produces one image per call.
type Source interface {
	Acquire(ctx context.Context) (image.Image, error)
}

// Decode reads a JPEG/PNG/GIF/BMP/TIFF image and applies its EXIF orientation.
func Decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// Open reads an image file and applies its EXIF orientation.
func Open(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to open image %s: %w", path, err)
	}
	return img, nil
}

// File always returns the image stored at Path.
type File struct {
	Path string
}

func (f File) Acquire(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Open(f.Path)
}
