// Copyright 2025 The Favicon Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

// ----------------

// Package raster turns an arbitrary decoded image into the square,
// non-premultiplied RGBA renditions that icon files are built from.
//
// A Source is the immutable, decoded input. Rasterize produces one
// independently allocated Rendition per requested size: the source is
// center-cropped to a square (so non-square inputs are never distorted) and
// then resampled with one of the golang.org/x/image/draw kernels. Nearest
// neighbor sampling is deliberately not offered, as it aliases badly at
// favicon sizes.
package raster

import (
	"errors"
	"fmt"
	"image"

	xdraw "golang.org/x/image/draw"
)

// MaxSize is the largest rendition edge length, in pixels, that Rasterize
// accepts. Icon containers are further limited to 256 (see package ico) but
// standalone PNG renditions, such as a 512×512 web app manifest icon, are not.
const MaxSize = 1024

var (
	ErrBadArgument     = errors.New("raster: bad argument")
	ErrSourceInvalid   = errors.New("raster: invalid source image")
	ErrRasterizeFailed = errors.New("raster: rasterize failed")
)

// SizeError records the rendition size that an operation failed for.
type SizeError struct {
	Size int
	Err  error
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("%v (size %d)", e.Err, e.Size)
}

func (e *SizeError) Unwrap() error { return e.Err }

// Source is a decoded source image. Its pixels are held in an *image.NRGBA
// whose bounds start at the origin.
//
// Construct a Source with FromImage or Decode. The zero value holds no image:
// its Width and Height are 0, its Image is nil and Rasterize rejects it with
// ErrSourceInvalid.
//
// A Source is never modified after construction, so it may be shared by
// concurrent calls to Rasterize.
type Source struct {
	m *image.NRGBA
}

// Width returns the source width in pixels.
func (s *Source) Width() int {
	if (s == nil) || (s.m == nil) {
		return 0
	}
	return s.m.Rect.Dx()
}

// Height returns the source height in pixels.
func (s *Source) Height() int {
	if (s == nil) || (s.m == nil) {
		return 0
	}
	return s.m.Rect.Dy()
}

// Image returns the source pixels. Callers must not modify them.
func (s *Source) Image() *image.NRGBA {
	if s == nil {
		return nil
	}
	return s.m
}

// FromImage copies m into a new Source.
//
// It returns ErrSourceInvalid if m is nil, has zero area or, for the image
// package's pixel buffer types, has a buffer that does not cover its bounds.
func FromImage(m image.Image) (*Source, error) {
	if m == nil {
		return nil, ErrSourceInvalid
	}
	b := m.Bounds()
	if b.Empty() || !hasPixels(m) {
		return nil, ErrSourceInvalid
	}
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))

	if src, ok := m.(*image.NRGBA); ok {
		rowLen := 4 * b.Dx()
		for y := b.Min.Y; y < b.Max.Y; y++ {
			i := src.PixOffset(b.Min.X, y)
			j := dst.PixOffset(0, y-b.Min.Y)
			copy(dst.Pix[j:j+rowLen], src.Pix[i:i+rowLen])
		}
	} else {
		// draw.Draw with the Src operator un-premultiplies RGBA, RGBA64,
		// Paletted and YCbCr sources as it converts them.
		xdraw.Draw(dst, dst.Rect, m, b.Min, xdraw.Src)
	}

	return &Source{m: dst}, nil
}

// hasPixels reports whether m's backing buffers hold every pixel within m's
// bounds, and whether every Paletted index is within the palette. Image types
// that the image package does not define are assumed to be well formed.
func hasPixels(m image.Image) bool {
	b := m.Bounds()
	x, y := b.Max.X-1, b.Max.Y-1
	switch m := m.(type) {
	case *image.NRGBA:
		return covers(len(m.Pix), m.Stride, m.PixOffset(x, y), 4)
	case *image.RGBA:
		return covers(len(m.Pix), m.Stride, m.PixOffset(x, y), 4)
	case *image.NRGBA64:
		return covers(len(m.Pix), m.Stride, m.PixOffset(x, y), 8)
	case *image.RGBA64:
		return covers(len(m.Pix), m.Stride, m.PixOffset(x, y), 8)
	case *image.Gray:
		return covers(len(m.Pix), m.Stride, m.PixOffset(x, y), 1)
	case *image.Gray16:
		return covers(len(m.Pix), m.Stride, m.PixOffset(x, y), 2)
	case *image.Alpha:
		return covers(len(m.Pix), m.Stride, m.PixOffset(x, y), 1)
	case *image.Alpha16:
		return covers(len(m.Pix), m.Stride, m.PixOffset(x, y), 2)
	case *image.CMYK:
		return covers(len(m.Pix), m.Stride, m.PixOffset(x, y), 4)
	case *image.Paletted:
		if !covers(len(m.Pix), m.Stride, m.PixOffset(x, y), 1) {
			return false
		}
		for py := b.Min.Y; py < b.Max.Y; py++ {
			i := m.PixOffset(b.Min.X, py)
			for _, p := range m.Pix[i : i+b.Dx()] {
				if int(p) >= len(m.Palette) {
					return false
				}
			}
		}
		return true
	case *image.YCbCr:
		return hasYCbCrPixels(m)
	case *image.NYCbCrA:
		return hasYCbCrPixels(&m.YCbCr) &&
			covers(len(m.A), m.AStride, m.AOffset(x, y), 1)
	}
	return true
}

func hasYCbCrPixels(m *image.YCbCr) bool {
	b := m.Rect
	x, y := b.Max.X-1, b.Max.Y-1
	c := m.COffset(x, y)
	return covers(len(m.Y), m.YStride, m.YOffset(x, y), 1) &&
		covers(len(m.Cb), m.CStride, c, 1) &&
		covers(len(m.Cr), m.CStride, c, 1)
}

// covers reports whether a buffer of length n, whose last pixel starts at
// offset last and is bpp bytes long, is large enough.
func covers(n int, stride int, last int, bpp int) bool {
	return (stride >= 0) && (last >= 0) && (n >= (last + bpp))
}

// Rendition is one square resampling of a Source.
type Rendition struct {
	// Size is both the width and the height, in pixels.
	Size int

	// Image has bounds image.Rect(0, 0, Size, Size). It is owned by the
	// Rendition; no two Renditions share pixel memory.
	Image *image.NRGBA
}

// RasterizeOptions are optional arguments to Rasterize. The zero value is
// valid and means to use the default configuration.
type RasterizeOptions struct {
	// If zero, the default is FilterBiLinear.
	Filter Filter
}

// Rasterize resamples the largest centered square of src to a size×size
// Rendition.
//
// options may be nil, which means to use the default configuration.
func Rasterize(src *Source, size int, options *RasterizeOptions) (*Rendition, error) {
	if (src == nil) || (src.m == nil) || src.m.Rect.Empty() {
		return nil, ErrSourceInvalid
	}
	if (size < 1) || (size > MaxSize) {
		return nil, &SizeError{Size: size, Err: ErrRasterizeFailed}
	}

	f := FilterBiLinear
	if options != nil {
		f = options.Filter
	}
	interp := f.interpolator()
	if interp == nil {
		return nil, &SizeError{Size: size, Err: ErrRasterizeFailed}
	}

	m, sr := image.Image(src.m), centerSquare(src.m.Rect)
	if f == FilterApproxBiLinear {
		m, sr = halve(m, sr, size)
	}
	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	if sr.Dx() == size {
		xdraw.Draw(dst, dst.Rect, m, sr.Min, xdraw.Src)
	} else {
		interp.Scale(dst, dst.Rect, m, sr, xdraw.Src, nil)
	}
	return &Rendition{Size: size, Image: dst}, nil
}

// halve repeatedly shrinks the square sr of m by a factor of two, while it is
// at least twice size. At exactly half scale, each ApproxBiLinear sample sits
// at the center of a 2×2 block, so each step is a box filter.
func halve(m image.Image, sr image.Rectangle, size int) (image.Image, image.Rectangle) {
	for sr.Dx() >= (2 * size) {
		half := image.NewNRGBA(image.Rect(0, 0, sr.Dx()/2, sr.Dy()/2))
		xdraw.ApproxBiLinear.Scale(half, half.Rect, m, sr, xdraw.Src, nil)
		m, sr = half, half.Rect
	}
	return m, sr
}

// centerSquare returns the largest square sub-rectangle of r that shares r's
// center. Odd leftovers are trimmed from the right and bottom edges.
func centerSquare(r image.Rectangle) image.Rectangle {
	w, h := r.Dx(), r.Dy()
	side := min(w, h)
	x0 := r.Min.X + ((w - side) / 2)
	y0 := r.Min.Y + ((h - side) / 2)
	return image.Rect(x0, y0, x0+side, y0+side)
}
