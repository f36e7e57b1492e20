// Copyright 2025 The Favicon Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package favicon

import (
	"fmt"
	"strings"

	"github.com/nigeltao/favicon/lib/ico"
	"github.com/nigeltao/favicon/lib/raster"
)

// Purpose is what a rendition is for. It determines the rendition's default
// file name and where it is referenced from in the HTML snippet and the web
// app manifest.
type Purpose uint8

const (
	PurposeStandaloneIcon = Purpose(0)
	PurposeAppleTouch     = Purpose(1)
	PurposeAndroidChrome  = Purpose(2)
	PurposeManifest       = Purpose(3)
)

func (p Purpose) String() string {
	switch p {
	case PurposeStandaloneIcon:
		return "icon"
	case PurposeAppleTouch:
		return "apple-touch-icon"
	case PurposeAndroidChrome:
		return "android-chrome"
	case PurposeManifest:
		return "manifest"
	}
	return fmt.Sprintf("purpose(%d)", uint8(p))
}

// ParsePurpose is the inverse of Purpose.String.
func ParsePurpose(s string) (Purpose, error) {
	switch s {
	case "icon":
		return PurposeStandaloneIcon, nil
	case "apple-touch-icon":
		return PurposeAppleTouch, nil
	case "android-chrome":
		return PurposeAndroidChrome, nil
	case "manifest":
		return PurposeManifest, nil
	}
	return 0, fmt.Errorf("%w: unknown purpose %q", ErrBadSpec, s)
}

func (p Purpose) valid() bool {
	return p <= PurposeManifest
}

// inManifest is whether a PNG of this purpose is listed in the web app
// manifest's icons.
func (p Purpose) inManifest() bool {
	return (p == PurposeAndroidChrome) || (p == PurposeManifest)
}

// RenditionSpec requests one square rendition of the source image.
//
// EmitPNG and InContainer are independent. A spec may produce a standalone
// PNG file, an image inside favicon.ico, or both, but not neither.
type RenditionSpec struct {
	// Size is the width and height, in pixels. It must be between 1 and
	// ico.MaxSize (256) inclusive if InContainer is set, since an ICO
	// directory entry cannot describe anything larger. A PNG-only spec may go
	// up to raster.MaxSize (1024), which leaves room for the 512 pixel web
	// app manifest icon. Out of range sizes fail Validate with
	// ico.ErrContainerBuildFailed or raster.ErrRasterizeFailed respectively.
	Size int

	Purpose Purpose

	// Name overrides the default PNG file name. It is ignored unless EmitPNG
	// is set.
	Name string

	EmitPNG     bool
	InContainer bool
}

// PNGName returns the file name of the spec's standalone PNG.
func (s RenditionSpec) PNGName() string {
	if s.Name != "" {
		return s.Name
	}
	switch s.Purpose {
	case PurposeAppleTouch:
		if s.Size == 180 {
			return "apple-touch-icon.png"
		}
		return fmt.Sprintf("apple-touch-icon-%dx%d.png", s.Size, s.Size)
	case PurposeAndroidChrome:
		return fmt.Sprintf("android-chrome-%dx%d.png", s.Size, s.Size)
	case PurposeManifest:
		return fmt.Sprintf("web-app-manifest-%dx%d.png", s.Size, s.Size)
	}
	return fmt.Sprintf("favicon-%dx%d.png", s.Size, s.Size)
}

// DefaultSpecs returns the rendition set used when the caller has no
// preference: 16, 32, 48 and 64 pixel images in favicon.ico, 16 and 32 pixel
// PNG favicons, a 180 pixel Apple touch icon and 192 and 512 pixel manifest
// icons.
func DefaultSpecs() []RenditionSpec {
	return []RenditionSpec{
		{Size: 16, Purpose: PurposeStandaloneIcon, EmitPNG: true, InContainer: true},
		{Size: 32, Purpose: PurposeStandaloneIcon, EmitPNG: true, InContainer: true},
		{Size: 48, Purpose: PurposeStandaloneIcon, InContainer: true},
		{Size: 64, Purpose: PurposeStandaloneIcon, InContainer: true},
		{Size: 180, Purpose: PurposeAppleTouch, EmitPNG: true},
		{Size: 192, Purpose: PurposeAndroidChrome, EmitPNG: true},
		{Size: 512, Purpose: PurposeManifest, EmitPNG: true},
	}
}

// Validate checks specs without rasterizing anything. Generate calls it
// first, so that a bad spec late in the list fails the run before any work is
// done.
//
// Size errors wrap raster.ErrRasterizeFailed or, for an InContainer spec
// larger than ico.MaxSize, ico.ErrContainerBuildFailed. Everything else wraps
// ErrBadSpec.
func Validate(specs []RenditionSpec) error {
	if len(specs) == 0 {
		return fmt.Errorf("%w: no renditions requested", ErrBadSpec)
	}

	names := map[string]int{
		ContainerName: -1,
		HTMLName:      -1,
		ManifestName:  -1,
	}
	for i, s := range specs {
		if (s.Size < 1) || (s.Size > raster.MaxSize) {
			return &StepError{Step: StepRasterize, Index: i, Size: s.Size,
				Err: &raster.SizeError{Size: s.Size, Err: raster.ErrRasterizeFailed}}
		}
		if s.InContainer && (s.Size > ico.MaxSize) {
			return &StepError{Step: StepContainer, Index: i, Size: s.Size,
				Err: &ico.SizeError{Size: s.Size, Err: ico.ErrContainerBuildFailed}}
		}
		if !s.Purpose.valid() {
			return fmt.Errorf("%w: spec #%d: %v", ErrBadSpec, i, s.Purpose)
		}
		if !s.EmitPNG && !s.InContainer {
			return fmt.Errorf("%w: spec #%d (%dpx) produces no output", ErrBadSpec, i, s.Size)
		}
		if s.EmitPNG {
			name := s.PNGName()
			if (name == "") || (name == ".") || (name == "..") || strings.ContainsAny(name, "/\\") {
				return fmt.Errorf("%w: spec #%d: bad file name %q", ErrBadSpec, i, name)
			}
			if j, ok := names[name]; ok {
				if j < 0 {
					return fmt.Errorf("%w: spec #%d: file name %q is reserved", ErrBadSpec, i, name)
				}
				return fmt.Errorf("%w: specs #%d and #%d: duplicate file name %q", ErrBadSpec, j, i, name)
			}
			names[name] = i
		}
	}
	return nil
}
