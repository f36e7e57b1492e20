// Copyright 2025 The Favicon Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

//go:build ignore

// gen-logo writes logo.png, the source image for the golden tests.
//
// It is 640×512. The centered 512×512 square is one opaque color and the two
// 64 pixel margins are a vertical red to blue gradient. Center-cropping must
// remove every margin pixel, so any gradient color in the output means the
// crop is wrong. Resampling a constant opaque region gives back that same
// constant under every filter, so the expected outputs do not depend on
// floating point details.
package main

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
)

const (
	width  = 640
	height = 512
	margin = (width - height) / 2
)

var center = color.NRGBA{0x20, 0x80, 0xC0, 0xFF}

func main() {
	if err := main1(); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func main1() error {
	m := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		v := uint8((y * 0xFF) / (height - 1))
		for x := 0; x < width; x++ {
			if (margin <= x) && (x < (width - margin)) {
				m.SetNRGBA(x, y, center)
			} else {
				m.SetNRGBA(x, y, color.NRGBA{v, 0x00, 0xFF - v, 0xFF})
			}
		}
	}

	out, err := os.Create("logo.png")
	if err != nil {
		return fmt.Errorf("os.Create: %v", err)
	}
	defer out.Close()
	if err := png.Encode(out, m); err != nil {
		return fmt.Errorf("png.Encode: %v", err)
	}
	return nil
}
