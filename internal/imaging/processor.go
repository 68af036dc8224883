// Package imaging adapts the disintegration/imaging library to the
// ImageProcessor port.
package imaging

import (
	"bytes"
	"fmt"
	"image"

	img "github.com/disintegration/imaging"

	"vendora/internal/port"
)

type processor struct{}

// NewProcessor creates the default image processor.
func NewProcessor() port.ImageProcessor {
	return &processor{}
}

// Process decodes buf, resizes it per opts, and re-encodes it. A zero Width
// and Height skips resizing. Upscaling is never performed: images already
// inside the bounding box pass through at their original dimensions.
func (p *processor) Process(buf []byte, opts port.ImageProcessOptions) ([]byte, error) {
	src, err := img.Decode(bytes.NewReader(buf), img.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}

	dst := resize(src, opts)

	format, err := img.FormatFromExtension(normalizeFormat(opts.Format))
	if err != nil {
		format = img.JPEG
	}

	quality := opts.Quality
	if quality <= 0 || quality > 100 {
		quality = 82
	}

	var out bytes.Buffer
	if err := img.Encode(&out, dst, format, img.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("encoding image: %w", err)
	}
	return out.Bytes(), nil
}

func resize(src image.Image, opts port.ImageProcessOptions) image.Image {
	if opts.Width <= 0 && opts.Height <= 0 {
		return src
	}

	bounds := src.Bounds()
	if opts.Fit == "cover" && opts.Width > 0 && opts.Height > 0 {
		if bounds.Dx() <= opts.Width && bounds.Dy() <= opts.Height {
			return src
		}
		return img.Fill(src, opts.Width, opts.Height, img.Center, img.Lanczos)
	}

	if bounds.Dx() <= maxOr(opts.Width) && bounds.Dy() <= maxOr(opts.Height) {
		return src
	}
	return img.Fit(src, maxOr(opts.Width), maxOr(opts.Height), img.Lanczos)
}

// maxOr substitutes an effectively unbounded dimension for a zero one so Fit
// constrains only the axis the caller asked for.
func maxOr(v int) int {
	if v <= 0 {
		return 1 << 16
	}
	return v
}

func normalizeFormat(format string) string {
	switch format {
	case "jpg", "jpeg", "":
		return "jpg"
	default:
		return format
	}
}
