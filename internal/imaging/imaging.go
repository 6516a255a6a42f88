// Package imaging shrinks photo attachments before they are uploaded.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"net/http"
	"path/filepath"
	"strings"

	"sales-order-booking/internal/model"

	"golang.org/x/image/draw"
)

// MaxDimension is the largest width or height kept for photo attachments.
const MaxDimension = 1600

// JPEGQuality is the compression quality for re-encoded photos.
const JPEGQuality = 82

// MaxPixels caps the declared size of a photo that will be decoded. A small
// file can declare a huge image, and decoding allocates for every pixel.
const MaxPixels = 40_000_000

// ErrTooManyPixels is returned for photos whose declared size exceeds MaxPixels.
var ErrTooManyPixels = errors.New("image dimensions exceed limit")

var photoMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// IsPhoto reports whether data sniffs as a JPEG or PNG image.
func IsPhoto(data []byte) bool {
	return photoMIME[http.DetectContentType(data)]
}

// PrepareAttachment returns the attachment that should be uploaded. JPEG and
// PNG photos are downscaled and re-encoded as JPEG; anything else is returned
// unchanged. The input is never modified.
func PrepareAttachment(a *model.Attachment) (*model.Attachment, error) {
	if a == nil || !IsPhoto(a.Data) {
		return a, nil
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(a.Data))
	if err != nil {
		return nil, fmt.Errorf("reading header of attachment %q: %w", a.Filename, err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, fmt.Errorf("attachment %q is %dx%d: %w", a.Filename, cfg.Width, cfg.Height, ErrTooManyPixels)
	}

	img, _, err := image.Decode(bytes.NewReader(a.Data))
	if err != nil {
		return nil, fmt.Errorf("decoding attachment %q: %w", a.Filename, err)
	}

	img = downscale(img, MaxDimension)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encoding attachment %q: %w", a.Filename, err)
	}

	return &model.Attachment{
		Filename:    replaceExt(a.Filename, ".jpg"),
		ContentType: "image/jpeg",
		Data:        buf.Bytes(),
	}, nil
}

// Extension picks the file extension used in the storage key: the
// filename's own extension when it has one, otherwise one derived from the
// content type.
func Extension(a *model.Attachment) string {
	if a == nil {
		return ""
	}
	if ext := strings.ToLower(filepath.Ext(a.Filename)); ext != "" {
		return strings.TrimPrefix(ext, ".")
	}
	switch strings.ToLower(a.ContentType) {
	case "image/jpeg":
		return "jpg"
	case "image/png":
		return "png"
	case "application/pdf":
		return "pdf"
	}
	return "bin"
}

// downscale resizes img with Catmull-Rom so neither side exceeds maxDim.
// Images already within bounds are returned as-is.
func downscale(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if w <= maxDim && h <= maxDim {
		return img
	}

	newW, newH := w, h
	if w > h {
		newW = maxDim
		newH = int(float64(h) * float64(maxDim) / float64(w))
	} else {
		newH = maxDim
		newW = int(float64(w) * float64(maxDim) / float64(h))
	}
	newW = max(newW, 1)
	newH = max(newH, 1)

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

func replaceExt(name, ext string) string {
	if name == "" {
		return "attachment" + ext
	}
	return strings.TrimSuffix(name, filepath.Ext(name)) + ext
}
