// Package imaging normalizes images attached to entity payloads: captured
// pictures arrive as base64 blobs of arbitrary size and format and are
// stored as bounded, re-encoded JPEGs.
package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"net/http"
	"strings"

	"golang.org/x/image/draw"

	"github.com/erazemk/zaloga/internal/model"
)

// MaxDimension is the maximum width or height for stored images.
const MaxDimension = 1024

// JPEGQuality is the compression quality for JPEG output.
const JPEGQuality = 85

// AllowedMIME lists the accepted input MIME types.
var AllowedMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// Normalize validates and re-encodes an image payload. Images without
// inline data (a bare URI reference) pass through unchanged. The format is
// sniffed from the bytes, never trusted from the payload's MIME field.
func Normalize(img model.Image) (model.Image, error) {
	if img.Base64 == "" {
		return img, nil
	}

	data, err := decodePayload(img.Base64)
	if err != nil {
		return model.Image{}, fmt.Errorf("decoding image payload: %w", err)
	}

	detected := http.DetectContentType(data)
	if !AllowedMIME[detected] {
		return model.Image{}, fmt.Errorf("unsupported image format: %s (only JPEG and PNG accepted)", detected)
	}

	decoded, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return model.Image{}, fmt.Errorf("decoding image: %w", err)
	}

	decoded = downscale(decoded, MaxDimension)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, decoded, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return model.Image{}, fmt.Errorf("encoding JPEG: %w", err)
	}

	return model.Image{
		URI:    img.URI,
		Base64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MIME:   "image/jpeg",
	}, nil
}

// NormalizeAll normalizes a product's image sequence, capping it at the
// per-product limit.
func NormalizeAll(imgs []model.Image) ([]model.Image, error) {
	// A nil sequence means "leave images untouched" on update; keep it nil.
	if imgs == nil {
		return nil, nil
	}
	if len(imgs) > model.MaxProductImages {
		imgs = imgs[:model.MaxProductImages]
	}
	out := make([]model.Image, 0, len(imgs))
	for i, img := range imgs {
		n, err := Normalize(img)
		if err != nil {
			return nil, fmt.Errorf("image %d: %w", i, err)
		}
		out = append(out, n)
	}
	return out, nil
}

// decodePayload strips an optional data-URI prefix and base64-decodes.
func decodePayload(payload string) ([]byte, error) {
	if strings.HasPrefix(payload, "data:") {
		_, rest, ok := strings.Cut(payload, ",")
		if !ok {
			return nil, fmt.Errorf("malformed data URI")
		}
		payload = rest
	}
	return base64.StdEncoding.DecodeString(payload)
}

// downscale resizes the image so neither dimension exceeds maxDim.
// Uses high-quality Catmull-Rom interpolation.
// Returns the original image if already within bounds.
func downscale(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	if w <= maxDim && h <= maxDim {
		return img
	}

	// Calculate new dimensions preserving aspect ratio.
	newW, newH := w, h
	if w > h {
		newW = maxDim
		newH = int(float64(h) * float64(maxDim) / float64(w))
	} else {
		newH = maxDim
		newW = int(float64(w) * float64(maxDim) / float64(h))
	}

	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

func init() {
	// Register decoders (jpeg is registered by default, but be explicit).
	image.RegisterFormat("jpeg", "\xff\xd8", jpeg.Decode, jpeg.DecodeConfig)
	image.RegisterFormat("png", "\x89PNG", png.Decode, png.DecodeConfig)
}
