// Copyright 2025 The Favicon Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package nie

import (
	"bytes"
	"image"
	"image/color"
	"testing"
)

func TestEncode(tt *testing.T) {
	nrgba := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	nrgba.SetNRGBA(0, 0, color.NRGBA{0x11, 0x22, 0x33, 0x44})
	nrgba.SetNRGBA(1, 0, color.NRGBA{0xAA, 0xBB, 0xCC, 0xFF})

	rgba := image.NewRGBA(image.Rect(0, 0, 2, 1))
	rgba.SetRGBA(0, 0, color.RGBA{0x00, 0x00, 0x00, 0x00})
	rgba.SetRGBA(1, 0, color.RGBA{0xAA, 0xBB, 0xCC, 0xFF})

	header4 := []byte{
		0x6E, 0xC3, 0xAF, 0x45, 0xFF, 'b', 'n', '4',
		0x02, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00,
	}
	header8 := bytes.Clone(header4)
	header8[7] = '8'

	testCases := []struct {
		name  string
		m     image.Image
		depth Depth
		want  []byte
	}{{
		name:  "nrgba bn4",
		m:     nrgba,
		depth: Depth4,
		want:  append(bytes.Clone(header4), 0x33, 0x22, 0x11, 0x44, 0xCC, 0xBB, 0xAA, 0xFF),
	}, {
		name:  "nrgba bn8",
		m:     nrgba,
		depth: Depth8,
		want: append(bytes.Clone(header8),
			0x33, 0x33, 0x22, 0x22, 0x11, 0x11, 0x44, 0x44,
			0xCC, 0xCC, 0xBB, 0xBB, 0xAA, 0xAA, 0xFF, 0xFF,
		),
	}, {
		name:  "rgba bn4",
		m:     rgba,
		depth: Depth4,
		want:  append(bytes.Clone(header4), 0x00, 0x00, 0x00, 0x00, 0xCC, 0xBB, 0xAA, 0xFF),
	}}

	for _, tc := range testCases {
		got, err := Encode(tc.m, tc.depth)
		if err != nil {
			tt.Errorf("tc=%q: Encode: %v", tc.name, err)
			continue
		}
		if !bytes.Equal(got, tc.want) {
			tt.Errorf("tc=%q: got vs want:\n% 02X\n% 02X", tc.name, got, tc.want)
		}
	}

	if _, err := Encode(nrgba, Depth(3)); err != ErrBadArgument {
		tt.Errorf("Depth(3): got %v, want ErrBadArgument", err)
	}
}
