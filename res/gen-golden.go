// Copyright 2025 The Favicon Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

//go:build ignore

// gen-golden runs the default favicon pipeline over logo.png (see gen-logo.go)
// and writes the expected outputs that lib/favicon's TestGolden checks
// against, to the golden directory:
//
//   - favicon.ico, favicon.html and site.webmanifest, byte for byte.
//   - foo.png.nie for each PNG artifact foo.png: its decoded pixels in NIE
//     bn4 format. The PNG bytes themselves depend on compress/flate, whose
//     output is not fixed across Go releases.
//   - favicon-ico-NxN.nie for each image in favicon.ico, decoded.
//
// The Site values must match those in TestGolden.
package main

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/nigeltao/favicon/internal/nie"
	"github.com/nigeltao/favicon/lib/favicon"
	"github.com/nigeltao/favicon/lib/ico"
	"github.com/nigeltao/favicon/lib/raster"
)

const (
	srcFileName = "logo.png"
	dstDirName  = "golden"
)

var site = favicon.Site{
	Name:       "Favicon",
	ShortName:  "Favicon",
	ThemeColor: "#2080c0",
}

func main() {
	if err := main1(); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func main1() error {
	f, err := os.Open(srcFileName)
	if err != nil {
		return fmt.Errorf("os.Open: %v", err)
	}
	defer f.Close()
	src, _, err := raster.Decode(f)
	if err != nil {
		return fmt.Errorf("raster.Decode: %v", err)
	}

	b, err := favicon.Generate(context.Background(), src, favicon.DefaultSpecs(), &favicon.Options{Site: site})
	if err != nil {
		return fmt.Errorf("favicon.Generate: %v", err)
	}
	if err := os.MkdirAll(dstDirName, 0755); err != nil {
		return fmt.Errorf("os.MkdirAll: %v", err)
	}

	for _, a := range b.Artifacts {
		name, data := a.Name, a.Data
		if a.ContentType == "image/png" {
			m, err := png.Decode(bytes.NewReader(a.Data))
			if err != nil {
				return fmt.Errorf("png.Decode: %v", err)
			}
			if data, err = nie.Encode(m, nie.Depth4); err != nil {
				return fmt.Errorf("nie.Encode: %v", err)
			}
			name += ".nie"
		}
		if err := os.WriteFile(filepath.Join(dstDirName, name), data, 0666); err != nil {
			return fmt.Errorf("os.WriteFile: %v", err)
		}
	}

	a, ok := b.Lookup(favicon.ContainerName)
	if !ok {
		return nil
	}
	images, err := ico.DecodeAll(a.Data)
	if err != nil {
		return fmt.Errorf("ico.DecodeAll: %v", err)
	}
	for _, m := range images {
		enc, err := nie.Encode(m.Image, nie.Depth4)
		if err != nil {
			return fmt.Errorf("nie.Encode: %v", err)
		}
		name := fmt.Sprintf("favicon-ico-%dx%d.nie", m.Size(), m.Size())
		if err := os.WriteFile(filepath.Join(dstDirName, name), enc, 0666); err != nil {
			return fmt.Errorf("os.WriteFile: %v", err)
		}
	}
	return nil
}
