// Package imaging normalizes uploaded pictures before they are stored.
package imaging

import (
	"bytes"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	"image/png"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog/log"
	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"  // register decoder
	_ "golang.org/x/image/webp" // register decoder

	"github.com/biluochun/biluochun/internal/apperror"
)

const (
	// Field is the form field uploads are reported under.
	Field = "avatar"

	// MimeType of every sanitized image.
	MimeType = "image/png"

	// MaxSide is the largest width or height of a stored image.
	MaxSide = 512

	// maxSourcePixels guards the decoder against decompression bombs.
	maxSourcePixels = 40_000_000
)

var allowed = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/webp": true,
	"image/bmp":  true,
}

// Sanitize checks that raw is a supported picture, scales it down to MaxSide and re-encodes it as PNG.
// Metadata (EXIF, comments, extra chunks) does not survive the re-encoding.
// Every rejection is a Validation error on Field.
func Sanitize(raw []byte) ([]byte, error) {
	if len(raw) == 0 {
		return nil, apperror.FieldInvalid(Field, "No image uploaded.")
	}

	mtype := mimetype.Detect(raw)
	if !allowed[mtype.String()] {
		return nil, apperror.FieldInvalid(Field, "Unsupported image type "+mtype.String()+".")
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, apperror.FieldInvalid(Field, "Corrupted image.")
	}

	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width*cfg.Height > maxSourcePixels {
		return nil, apperror.FieldInvalid(Field, "Image dimensions are out of range.")
	}

	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		log.Debug().Err(err).Str("mimetype", mtype.String()).Msg("image decode failed")
		return nil, apperror.FieldInvalid(Field, "Corrupted image.")
	}

	var out bytes.Buffer
	if err = png.Encode(&out, fit(src)); err != nil {
		return nil, err //nolint:wrapcheck
	}

	return out.Bytes(), nil
}

// fit scales img down to MaxSide keeping the aspect ratio. The result is always a fresh RGBA.
func fit(img image.Image) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	if w > MaxSide || h > MaxSide {
		if w >= h {
			h = max(1, h*MaxSide/w)
			w = MaxSide
		} else {
			w = max(1, w*MaxSide/h)
			h = MaxSide
		}
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)

	return dst
}
