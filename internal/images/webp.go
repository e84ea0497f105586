package images

import (
	"bytes"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
)

const (
	// MaxWidth keeps uploaded photos at a size the dashboard cards can
	// serve without a resizing proxy.
	MaxWidth = 1600

	Quality = 80
)

// FitWidth returns the target dimensions for an image scaled down to
// maxWidth, preserving aspect ratio. Images already narrower are untouched.
func FitWidth(w, h, maxWidth int) (int, int) {
	if w <= maxWidth {
		return w, h
	}
	return maxWidth, h * maxWidth / w
}

// Process decodes an uploaded photo (jpeg, png or webp), downscales it to
// MaxWidth and re-encodes it as webp.
func Process(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		// Maybe it is already webp.
		img, err = webp.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
	}

	bounds := img.Bounds()
	w, h := FitWidth(bounds.Dx(), bounds.Dy(), MaxWidth)

	if w != bounds.Dx() {
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, xdraw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: Quality}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
