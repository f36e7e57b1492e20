// Copyright 2025 The Favicon Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

// ----------------

// Package favicon generates a website's icon set from one source image.
//
// Generate takes a list of RenditionSpec values and, for each one, resamples
// the source to a square of that size. Each rendition becomes a standalone PNG
// file, an image inside a single favicon.ico file, or both. Generate also
// writes an HTML snippet of <link> tags and a web app manifest that reference
// those files.
//
// The favicon.ico images are stored as 32 bits per pixel DIBs, not as
// embedded PNGs, so that every ICO reader (including older versions of
// Windows) can display them.
package favicon

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/zeebo/blake3"
	"golang.org/x/sync/errgroup"

	"github.com/nigeltao/favicon/lib/ico"
	"github.com/nigeltao/favicon/lib/raster"
)

// Artifact names that do not depend on the RenditionSpec list.
const (
	ContainerName = "favicon.ico"
	HTMLName      = "favicon.html"
	ManifestName  = "site.webmanifest"
)

var (
	ErrBadArgument = errors.New("favicon: bad argument")
	ErrBadSpec     = errors.New("favicon: bad rendition spec")
)

// Step names a stage of the per-rendition pipeline, for StepError.
type Step string

const (
	StepRasterize = Step("rasterize")
	StepPNG       = Step("png")
	StepDIB       = Step("dib")
	StepContainer = Step("container")
)

// StepError is a failure to produce the rendition for specs[Index].
type StepError struct {
	Step  Step
	Index int
	Size  int
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("favicon: spec #%d: %s %dpx: %v", e.Index, e.Step, e.Size, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// PNGEncoder encodes a rendition as a PNG file. *png.Encoder implements it.
type PNGEncoder interface {
	Encode(w io.Writer, m image.Image) error
}

// Site holds the values, other than the icons themselves, that are written to
// the HTML snippet and the web app manifest.
type Site struct {
	Name            string
	ShortName       string
	ThemeColor      string
	BackgroundColor string

	// Display is the manifest's display mode. If empty, the default is
	// "standalone".
	Display string

	// PathPrefix is prepended to every file name in the HTML snippet and the
	// manifest. If empty, the default is "/".
	PathPrefix string
}

// Options are optional arguments to Generate. The zero value is valid and
// means to use the default configuration.
type Options struct {
	// If zero, the default is raster.FilterBiLinear.
	Filter raster.Filter

	// Workers is the maximum number of renditions processed concurrently. If
	// less than 2, renditions are processed one at a time. The output is the
	// same either way.
	Workers int

	// If nil, the default is the standard library's PNG encoder at
	// png.BestCompression.
	PNGEncoder PNGEncoder

	Site Site
}

// Artifact is one generated file.
type Artifact struct {
	Name        string
	ContentType string
	Data        []byte
}

// Digest returns the BLAKE3-256 hash of a.Data.
func (a *Artifact) Digest() [32]byte {
	return blake3.Sum256(a.Data)
}

// Bundle is the output of Generate.
//
// Its Artifacts are, in order: the standalone PNG files in RenditionSpec
// order, then favicon.ico (if any RenditionSpec had InContainer set), then the
// HTML snippet and then the web app manifest.
type Bundle struct {
	Artifacts []Artifact
}

// Lookup returns the artifact with the given name.
func (b *Bundle) Lookup(name string) (*Artifact, bool) {
	for i := range b.Artifacts {
		if b.Artifacts[i].Name == name {
			return &b.Artifacts[i], true
		}
	}
	return nil, false
}

// rendition is the per-spec output. Either field may be nil, depending on the
// spec's flags.
type rendition struct {
	png []byte
	dib []byte
}

// Generate produces the Bundle for src and specs.
//
// It is all-or-nothing: if any step fails, it returns the error for the
// earliest failing spec (in specs order) and a nil Bundle. If ctx is
// cancelled before every spec is processed, it returns ctx.Err().
//
// options may be nil, which means to use the default configuration.
func Generate(ctx context.Context, src *raster.Source, specs []RenditionSpec, options *Options) (*Bundle, error) {
	if ctx == nil {
		return nil, ErrBadArgument
	}
	if src == nil {
		return nil, raster.ErrSourceInvalid
	}
	if err := Validate(specs); err != nil {
		return nil, err
	}

	o := Options{}
	if options != nil {
		o = *options
	}
	if o.PNGEncoder == nil {
		o.PNGEncoder = &png.Encoder{CompressionLevel: png.BestCompression}
	}

	renditions, err := renderAll(ctx, src, specs, &o)
	if err != nil {
		return nil, err
	}

	b := &Bundle{}
	entries := []ico.Entry(nil)
	for i, s := range specs {
		if s.EmitPNG {
			b.Artifacts = append(b.Artifacts, Artifact{
				Name:        s.PNGName(),
				ContentType: "image/png",
				Data:        renditions[i].png,
			})
		}
		if s.InContainer {
			entries = append(entries, ico.Entry{Size: s.Size, Payload: renditions[i].dib})
		}
	}

	if len(entries) > 0 {
		container, err := ico.Build(entries)
		if err != nil {
			return nil, fmt.Errorf("favicon: %s: %w", ContainerName, err)
		}
		b.Artifacts = append(b.Artifacts, Artifact{
			Name:        ContainerName,
			ContentType: "image/x-icon",
			Data:        container,
		})
	}

	html, err := renderHTML(specs, len(entries) > 0, &o.Site)
	if err != nil {
		return nil, fmt.Errorf("favicon: %s: %w", HTMLName, err)
	}
	manifest, err := renderManifest(specs, &o.Site)
	if err != nil {
		return nil, fmt.Errorf("favicon: %s: %w", ManifestName, err)
	}
	b.Artifacts = append(b.Artifacts,
		Artifact{Name: HTMLName, ContentType: "text/html; charset=utf-8", Data: html},
		Artifact{Name: ManifestName, ContentType: "application/manifest+json", Data: manifest},
	)
	return b, nil
}

// renderAll processes every spec. The i'th result always corresponds to
// specs[i], however many workers there are and whatever order they finish in.
func renderAll(ctx context.Context, src *raster.Source, specs []RenditionSpec, o *Options) ([]rendition, error) {
	ret := make([]rendition, len(specs))

	if o.Workers < 2 {
		for i, s := range specs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			r, err := render(src, i, s, o)
			if err != nil {
				return nil, err
			}
			ret[i] = r
		}
		return ret, nil
	}

	// Workers do not cancel each other on failure. Every spec runs, so that
	// the error reported is the earliest one in specs order, exactly as if
	// the specs were processed sequentially.
	errs := make([]error, len(specs))
	g := errgroup.Group{}
	g.SetLimit(o.Workers)
	for i, s := range specs {
		i, s := i, s
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			ret[i], errs[i] = render(src, i, s, o)
			return nil
		})
	}
	g.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return ret, nil
}

func render(src *raster.Source, index int, s RenditionSpec, o *Options) (ret rendition, retErr error) {
	r, err := raster.Rasterize(src, s.Size, &raster.RasterizeOptions{Filter: o.Filter})
	if err != nil {
		return rendition{}, &StepError{Step: StepRasterize, Index: index, Size: s.Size, Err: err}
	}

	if s.EmitPNG {
		buf := &bytes.Buffer{}
		if err := o.PNGEncoder.Encode(buf, r.Image); err != nil {
			return rendition{}, &StepError{Step: StepPNG, Index: index, Size: s.Size, Err: err}
		}
		ret.png = buf.Bytes()
	}

	if s.InContainer {
		dib, err := ico.EncodeDIB(r.Image)
		if err != nil {
			return rendition{}, &StepError{Step: StepDIB, Index: index, Size: s.Size, Err: err}
		}
		ret.dib = dib
	}
	return ret, nil
}
