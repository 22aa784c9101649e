package converter

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"

	// Registered for validation decoding alongside JPEG.
	_ "image/png"

	"github.com/disintegration/imaging"
)

const (
	defaultMaxCoverInput  = 5 * 1024 * 1024
	defaultMaxCoverOutput = 2 * 1024 * 1024

	// Absolute validation bounds. Images outside these are rejected, not
	// repaired.
	absoluteMinWidth  = 300
	absoluteMinHeight = 400
	absoluteMaxWidth  = 4000
	absoluteMaxHeight = 6000

	// Device-recommended bounds. Images outside these are rescaled.
	deviceMinWidth  = 400
	deviceMinHeight = 600
	deviceMaxWidth  = 1600
	deviceMaxHeight = 2400

	defaultCoverQuality = 85
	reducedCoverQuality = 60
)

// allowedCoverFormats are the two baseline raster formats accepted as input.
var allowedCoverFormats = map[string]bool{
	"jpeg": true,
	"png":  true,
}

// CoverNormalizer validates raw cover bytes against hard limits and rescales
// and re-encodes them to the device recommendations.
type CoverNormalizer struct {
	MaxInputBytes  int
	MaxOutputBytes int
	Quality        int
	RetryQuality   int
}

// NormalizedCover is the fully compliant result of cover normalization:
// 3-channel JPEG within device bounds and under the byte cap wherever a
// single quality reduction can get it there.
type NormalizedCover struct {
	Data      []byte
	Width     int
	Height    int
	MediaType string
}

// NewCoverNormalizer creates a normalizer with device defaults.
func NewCoverNormalizer() *CoverNormalizer {
	return &CoverNormalizer{
		MaxInputBytes:  defaultMaxCoverInput,
		MaxOutputBytes: defaultMaxCoverOutput,
		Quality:        defaultCoverQuality,
		RetryQuality:   reducedCoverQuality,
	}
}

// Normalize validates and normalizes raw cover image bytes. It either
// returns a fully compliant cover or an error; no partial result escapes.
func (n *CoverNormalizer) Normalize(input []byte) (*NormalizedCover, error) {
	if len(input) > n.MaxInputBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d byte limit", ErrCoverTooLarge, len(input), n.MaxInputBytes)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(input))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCoverFormat, err)
	}
	if !allowedCoverFormats[format] {
		return nil, fmt.Errorf("%w: %s is not an allowed format (jpeg, png)", ErrCoverFormat, format)
	}
	if cfg.Width < absoluteMinWidth || cfg.Height < absoluteMinHeight {
		return nil, fmt.Errorf("%w: %dx%d is below the %dx%d minimum",
			ErrCoverDimensions, cfg.Width, cfg.Height, absoluteMinWidth, absoluteMinHeight)
	}
	if cfg.Width > absoluteMaxWidth || cfg.Height > absoluteMaxHeight {
		return nil, fmt.Errorf("%w: %dx%d is above the %dx%d maximum",
			ErrCoverDimensions, cfg.Width, cfg.Height, absoluteMaxWidth, absoluteMaxHeight)
	}
	// Both device bounds can only be met together when the aspect ratio fits
	// the device window; outside it, satisfying the minimum on one axis
	// overshoots the maximum on the other.
	aspect := float64(cfg.Width) / float64(cfg.Height)
	minAspect := float64(deviceMinWidth) / float64(deviceMaxHeight)
	maxAspect := float64(deviceMaxWidth) / float64(deviceMinHeight)
	if aspect < minAspect || aspect > maxAspect {
		return nil, fmt.Errorf("%w: aspect ratio %.2f is outside the %.2f-%.2f range",
			ErrCoverDimensions, aspect, minAspect, maxAspect)
	}

	src, _, err := image.Decode(bytes.NewReader(input))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCoverFormat, err)
	}

	img := flattenToOpaque(src)

	if w, h := img.Bounds().Dx(), img.Bounds().Dy(); w > deviceMaxWidth || h > deviceMaxHeight {
		img = imaging.Fit(img, deviceMaxWidth, deviceMaxHeight, imaging.Lanczos)
	}
	if w, h := img.Bounds().Dx(), img.Bounds().Dy(); w < deviceMinWidth || h < deviceMinHeight {
		img = upscaleToMinimum(img, w, h)
	}

	data, err := encodeCoverJPEG(img, n.Quality)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cover: %w", err)
	}
	if len(data) > n.MaxOutputBytes {
		// One re-encode at reduced quality; the result is accepted
		// regardless of further size.
		data, err = encodeCoverJPEG(img, n.RetryQuality)
		if err != nil {
			return nil, fmt.Errorf("failed to re-encode cover: %w", err)
		}
	}

	return &NormalizedCover{
		Data:      data,
		Width:     img.Bounds().Dx(),
		Height:    img.Bounds().Dy(),
		MediaType: "image/jpeg",
	}, nil
}

// flattenToOpaque composites the source over a white background, discarding
// alpha channels and indexed palettes so the JPEG encoder sees plain color.
func flattenToOpaque(src image.Image) image.Image {
	bounds := src.Bounds()
	flat := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(flat, flat.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(flat, flat.Bounds(), src, bounds.Min, draw.Over)
	return flat
}

// upscaleToMinimum scales the image up, preserving aspect ratio, until both
// dimensions meet the device minimum. The binding dimension is pinned
// exactly so rounding cannot leave it one pixel short.
func upscaleToMinimum(img image.Image, w, h int) image.Image {
	scaleW := float64(deviceMinWidth) / float64(w)
	scaleH := float64(deviceMinHeight) / float64(h)
	if scaleH >= scaleW {
		return imaging.Resize(img, 0, deviceMinHeight, imaging.Lanczos)
	}
	return imaging.Resize(img, deviceMinWidth, 0, imaging.Lanczos)
}

func encodeCoverJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
