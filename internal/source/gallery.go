package source

import (
	"context"
	"errors"
	"fmt"
	"image"

	"github.com/ncruces/zenity"
)

// Gallery lets the user pick an image file through a native dialog.
type Gallery struct {
	Dir string
}

func (g Gallery) Acquire(ctx context.Context) (image.Image, error) {
	opts := []zenity.Option{
		zenity.Context(ctx),
		zenity.Title("Wybierz zdjęcie"),
		zenity.FileFilters{
			{Name: "Images", Patterns: []string{"*.png", "*.jpg", "*.jpeg", "*.gif", "*.bmp", "*.tif", "*.tiff"}},
		},
	}
	if g.Dir != "" {
		opts = append(opts, zenity.Filename(g.Dir))
	}

	path, err := zenity.SelectFile(opts...)
	if errors.Is(err, zenity.ErrCanceled) {
		return nil, ErrCanceled
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return Open(path)
}
