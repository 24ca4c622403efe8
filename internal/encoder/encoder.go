// Package encoder turns images into model input tensors.
package encoder

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/Brownie44l1/photovocalizer/internal/model"
	"github.com/disintegration/imaging"
)

// ErrDimensions is returned when an image is not ImageSize x ImageSize.
var ErrDimensions = errors.New("image dimensions do not match model input")

// Prepare scales img to the model resolution. When crop is set the largest
// centered square is cut out first, otherwise the aspect ratio is not kept.
// Scaling picks the nearest source pixel and never blends neighbours.
func Prepare(img image.Image, crop bool) image.Image {
	if crop {
		b := img.Bounds()
		side := min(b.Dx(), b.Dy())
		img = imaging.CropCenter(img, side, side)
	}
	return imaging.Resize(img, model.ImageSize, model.ImageSize, imaging.NearestNeighbor)
}

// Encoder converts prepared images to tensors.
type Encoder struct {
	scale float32
}

// New returns an Encoder. Without normalize the 0..255 components are passed
// through unchanged; with it they are scaled to 0..1.
func New(normalize bool) *Encoder {
	scale := float32(1)
	if normalize {
		scale = 1.0 / 255
	}
	return &Encoder{scale: scale}
}

// Encode emits R,G,B for every pixel in row-major order.
func (e *Encoder) Encode(img image.Image) (model.Tensor, error) {
	bounds := img.Bounds()
	if bounds.Dx() != model.ImageSize || bounds.Dy() != model.ImageSize {
		return nil, fmt.Errorf("%w: got %dx%d, expected %dx%d", ErrDimensions,
			bounds.Dx(), bounds.Dy(), model.ImageSize, model.ImageSize)
	}

	tensor := make(model.Tensor, 0, model.TensorSize)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			tensor = append(tensor,
				float32(c.R)*e.scale,
				float32(c.G)*e.scale,
				float32(c.B)*e.scale,
			)
		}
	}
	return tensor, nil
}
