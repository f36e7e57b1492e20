// Copyright 2025 The Favicon Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

// ----------------

// Package nie implements the NIE (Naive) image file format.
//
// It is an incomplete implementation (and hence an internal package), only
// providing the non-premultiplied BGRA variants needed to dump decoded icon
// images byte-for-byte.
//
// NIE is specified at
// https://github.com/google/wuffs/blob/main/doc/spec/nie-spec.md
package nie

import (
	"errors"
	"image"
	"image/color"
)

var (
	ErrBadArgument = errors.New("nie: bad argument")
)

// Depth is the number of bytes per pixel: 4 (8 bits per channel) or 8 (16
// bits per channel).
type Depth uint8

const (
	Depth4 = Depth(4)
	Depth8 = Depth(8)
)

// Encode encodes m as a NIE file in BGRA order, non-premultiplied alpha, with
// the given pixel depth.
func Encode(m image.Image, depth Depth) ([]byte, error) {
	if (m == nil) || ((depth != Depth4) && (depth != Depth8)) {
		return nil, ErrBadArgument
	}
	b := m.Bounds()
	ret := make([]byte, 0, 16+(int(depth)*b.Dx()*b.Dy()))
	ret = append(ret, 0x6E, 0xC3, 0xAF, 0x45, 0xFF, 'b', 'n', '0'+uint8(depth))
	ret = appendU32LE(ret, uint32(b.Dx()))
	ret = appendU32LE(ret, uint32(b.Dy()))

	if m, ok := m.(*image.NRGBA); ok {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				at := m.NRGBAAt(x, y)
				if depth == Depth4 {
					ret = append(ret, at.B, at.G, at.R, at.A)
				} else {
					ret = append(ret,
						at.B, at.B,
						at.G, at.G,
						at.R, at.R,
						at.A, at.A,
					)
				}
			}
		}
		return ret, nil
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			at := color.NRGBA64Model.Convert(m.At(x, y)).(color.NRGBA64)
			if depth == Depth4 {
				ret = append(ret,
					uint8(at.B>>8),
					uint8(at.G>>8),
					uint8(at.R>>8),
					uint8(at.A>>8),
				)
			} else {
				ret = append(ret,
					uint8(at.B>>0), uint8(at.B>>8),
					uint8(at.G>>0), uint8(at.G>>8),
					uint8(at.R>>0), uint8(at.R>>8),
					uint8(at.A>>0), uint8(at.A>>8),
				)
			}
		}
	}
	return ret, nil
}

func appendU32LE(b []byte, u uint32) []byte {
	return append(b,
		uint8(u>>0),
		uint8(u>>8),
		uint8(u>>16),
		uint8(u>>24),
	)
}
