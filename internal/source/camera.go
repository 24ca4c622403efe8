package source

import (
	"context"
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// warmupFrames are dropped after opening a device so auto exposure can settle.
const warmupFrames = 5

// Camera grabs a single frame from a video capture device.
type Camera struct {
	Device int
}

func (c Camera) Acquire(ctx context.Context) (image.Image, error) {
	webcam, err := gocv.OpenVideoCapture(c.Device)
	if err != nil {
		return nil, fmt.Errorf("%w: open camera %d: %v", ErrUnavailable, c.Device, err)
	}
	defer webcam.Close()

	frame := gocv.NewMat()
	defer frame.Close()

	for i := 0; i <= warmupFrames; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if ok := webcam.Read(&frame); !ok {
			return nil, fmt.Errorf("%w: camera %d returned no frame", ErrUnavailable, c.Device)
		}
	}
	if frame.Empty() {
		return nil, fmt.Errorf("%w: camera %d returned an empty frame", ErrUnavailable, c.Device)
	}

	img, err := frame.ToImage()
	if err != nil {
		return nil, fmt.Errorf("failed to convert frame: %w", err)
	}
	return img, nil
}
