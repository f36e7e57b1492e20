// Copyright 2025 The Favicon Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package ico

import (
	"image"
)

// DIBHeaderSize is the length of a BITMAPINFOHEADER.
const DIBHeaderSize = 40

// DIBLength returns the length of EncodeDIB's output for a size×size image.
func DIBLength(size int) int {
	return DIBHeaderSize + (4 * size * size)
}

// EncodeDIB encodes the square image m as an ICO payload: a BITMAPINFOHEADER
// and then 32 bits per pixel, BGRA order, non-premultiplied alpha, bottom row
// first.
//
// The header declares twice m's height, following the icon convention that a
// DIB's rows are an XOR (color) mask followed by an AND (transparency) mask.
// No AND mask rows are written: the alpha channel carries the transparency.
// The header's planes field is left as zero, like every field after the bit
// count.
//
// The output length is always DIBLength(m.Bounds().Dx()).
//
// It returns ErrDIBEncodeFailed if m is nil, empty, not square or if m.Pix is
// too short for m's bounds and stride.
func EncodeDIB(m *image.NRGBA) ([]byte, error) {
	if m == nil {
		return nil, &SizeError{Err: ErrDIBEncodeFailed}
	}
	b := m.Rect
	size := b.Dx()
	if (size <= 0) || (size != b.Dy()) {
		return nil, &SizeError{Size: size, Err: ErrDIBEncodeFailed}
	}
	rowLen := 4 * size
	if (m.Stride < rowLen) || (len(m.Pix) < (m.PixOffset(b.Min.X, b.Max.Y-1) + rowLen)) {
		return nil, &SizeError{Size: size, Err: ErrDIBEncodeFailed}
	}

	dst := make([]byte, DIBLength(size))
	writeU32LE(dst[0x00:], DIBHeaderSize)
	writeU32LE(dst[0x04:], uint32(size))
	writeU32LE(dst[0x08:], uint32(2*size))
	dst[0x0E] = 0x20 // Bit count.

	for y := 0; y < size; y++ {
		src := m.Pix[m.PixOffset(b.Min.X, b.Min.Y+y):]
		row := dst[DIBHeaderSize+((size-1-y)*rowLen):]
		for i := 0; i < rowLen; i += 4 {
			row[i+0] = src[i+2]
			row[i+1] = src[i+1]
			row[i+2] = src[i+0]
			row[i+3] = src[i+3]
		}
	}
	return dst, nil
}

// decodeDIB is the inverse of EncodeDIB. It also accepts DIBs from other
// encoders, provided that they use 32 bits per pixel and no compression. Any
// AND mask after the color rows is ignored.
func decodeDIB(payload []byte) (*image.NRGBA, error) {
	if len(payload) < DIBHeaderSize {
		return nil, ErrUnsupportedPayload
	}
	headerLen := readU32LE(payload[0x00:])
	width := int32(readU32LE(payload[0x04:]))
	height := int32(readU32LE(payload[0x08:]))
	bitCount := readU16LE(payload[0x0E:])
	compression := readU32LE(payload[0x10:])

	if (headerLen < DIBHeaderSize) || (uint64(headerLen) > uint64(len(payload))) ||
		(width <= 0) || (width > MaxSize) ||
		(height <= 0) || (height > (2 * MaxSize)) ||
		(bitCount != 32) || (compression != 0) {
		return nil, ErrUnsupportedPayload
	}

	w := int(width)
	h := int(height)
	if h == (2 * w) {
		h = w
	}
	rowLen := 4 * w
	pix := payload[headerLen:]
	if len(pix) < (rowLen * h) {
		return nil, ErrUnsupportedPayload
	}

	m := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		src := pix[(h-1-y)*rowLen:]
		dst := m.Pix[m.PixOffset(0, y):]
		for i := 0; i < rowLen; i += 4 {
			dst[i+0] = src[i+2]
			dst[i+1] = src[i+1]
			dst[i+2] = src[i+0]
			dst[i+3] = src[i+3]
		}
	}
	return m, nil
}

func writeU32LE(b []byte, u uint32) {
	b = b[:4]
	b[0] = uint8(u >> 0)
	b[1] = uint8(u >> 8)
	b[2] = uint8(u >> 16)
	b[3] = uint8(u >> 24)
}
