// Copyright 2025 The Favicon Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package raster

import (
	"image"
	"io"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Decode reads an image from r and converts it to a Source. It also returns
// the format name, as reported by image.Decode.
//
// BMP, GIF, JPEG, PNG, TIFF and WEBP are always recognized. Other formats
// are recognized if their packages are linked in and registered with the
// image package.
func Decode(r io.Reader) (*Source, string, error) {
	m, format, err := image.Decode(r)
	if err != nil {
		return nil, "", err
	}
	s, err := FromImage(m)
	if err != nil {
		return nil, "", err
	}
	return s, format, nil
}
