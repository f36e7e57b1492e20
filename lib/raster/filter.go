// Copyright 2025 The Favicon Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package raster

import (
	"fmt"

	xdraw "golang.org/x/image/draw"
)

// Filter selects the resampling kernel used by Rasterize.
type Filter uint8

const (
	FilterBiLinear   = Filter(0)
	FilterCatmullRom = Filter(1)

	// FilterApproxBiLinear is faster than FilterBiLinear, but each of its
	// samples only reads the 2×2 nearest source pixels. Rasterize therefore
	// first halves the source, one 2×2 box average at a time, until it is
	// less than twice the target size, and only then applies the filter.
	FilterApproxBiLinear = Filter(2)
)

func (f Filter) String() string {
	switch f {
	case FilterBiLinear:
		return "bilinear"
	case FilterCatmullRom:
		return "catmullrom"
	case FilterApproxBiLinear:
		return "approxbilinear"
	}
	return fmt.Sprintf("filter(%d)", uint8(f))
}

// ParseFilter is the inverse of Filter.String. The empty string maps to the
// default, FilterBiLinear.
func ParseFilter(s string) (Filter, error) {
	switch s {
	case "", "bilinear":
		return FilterBiLinear, nil
	case "catmullrom":
		return FilterCatmullRom, nil
	case "approxbilinear":
		return FilterApproxBiLinear, nil
	}
	return 0, fmt.Errorf("%w: unknown filter %q", ErrBadArgument, s)
}

// interpolator returns nil for an unknown Filter.
//
// BiLinear and CatmullRom are xdraw.Kernel values, whose support widens when
// downscaling, so every source pixel contributes to the output. That is what
// keeps a 1024 pixel logo legible at 16×16. ApproxBiLinear does not widen,
// which is why Rasterize halves first (see halve).
func (f Filter) interpolator() xdraw.Interpolator {
	switch f {
	case FilterBiLinear:
		return xdraw.BiLinear
	case FilterCatmullRom:
		return xdraw.CatmullRom
	case FilterApproxBiLinear:
		return xdraw.ApproxBiLinear
	}
	return nil
}
