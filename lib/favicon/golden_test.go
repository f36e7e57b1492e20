// Copyright 2025 The Favicon Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package favicon

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"os"
	"testing"

	"github.com/nigeltao/favicon/internal/nie"
	"github.com/nigeltao/favicon/lib/ico"
	"github.com/nigeltao/favicon/lib/raster"
)

const goldenDir = "../../res/golden/"

// goldenSite must match the site in res/gen-golden.go.
var goldenSite = Site{
	Name:       "Favicon",
	ShortName:  "Favicon",
	ThemeColor: "#2080c0",
}

func compareGolden(tt *testing.T, name string, got []byte) {
	tt.Helper()
	want, err := os.ReadFile(goldenDir + name)
	if err != nil {
		tt.Errorf("name=%q: os.ReadFile: %v", name, err)
		return
	}

	if bytes.Equal(got, want) {
		return
	} else if len(got) != len(want) {
		tt.Errorf("name=%q: lengths: got %d, want %d", name, len(got), len(want))
		return
	}

	byteOffset := 0
	for byteOffset = range got {
		if got[byteOffset] != want[byteOffset] {
			break
		}
	}

	n := byteOffset &^ 7
	m := min(n+8, len(got))
	tt.Errorf("name=%q: output differs at byte offset 0x%04X (%d), got vs want:\n% 02X\n% 02X",
		name, byteOffset, byteOffset, got[n:m], want[n:m])
}

func TestGolden(tt *testing.T) {
	f, err := os.Open("../../res/logo.png")
	if err != nil {
		tt.Fatalf("os.Open: %v", err)
	}
	defer f.Close()
	src, _, err := raster.Decode(f)
	if err != nil {
		tt.Fatalf("raster.Decode: %v", err)
	}

	for _, workers := range []int{0, 4} {
		b, err := Generate(context.Background(), src, DefaultSpecs(), &Options{
			Workers: workers,
			Site:    goldenSite,
		})
		if err != nil {
			tt.Fatalf("workers=%d: Generate: %v", workers, err)
		}

		wantNames := []string{
			"favicon-16x16.png",
			"favicon-32x32.png",
			"apple-touch-icon.png",
			"android-chrome-192x192.png",
			"web-app-manifest-512x512.png",
			ContainerName,
			HTMLName,
			ManifestName,
		}
		if len(b.Artifacts) != len(wantNames) {
			tt.Fatalf("workers=%d: got %d artifacts, want %d", workers, len(b.Artifacts), len(wantNames))
		}

		for i, a := range b.Artifacts {
			if a.Name != wantNames[i] {
				tt.Errorf("workers=%d: artifact #%d: got %q, want %q", workers, i, a.Name, wantNames[i])
				continue
			}
			if a.ContentType != "image/png" {
				compareGolden(tt, a.Name, a.Data)
				continue
			}

			// PNG files are compared by their pixels, as compress/flate's
			// output can change from one Go release to the next.
			m, err := png.Decode(bytes.NewReader(a.Data))
			if err != nil {
				tt.Errorf("workers=%d: %s: png.Decode: %v", workers, a.Name, err)
				continue
			}
			got, err := nie.Encode(m, nie.Depth4)
			if err != nil {
				tt.Errorf("workers=%d: %s: nie.Encode: %v", workers, a.Name, err)
				continue
			}
			compareGolden(tt, a.Name+".nie", got)
		}

		container, ok := b.Lookup(ContainerName)
		if !ok {
			tt.Fatalf("workers=%d: no %s", workers, ContainerName)
		}
		images, err := ico.DecodeAll(container.Data)
		if err != nil {
			tt.Fatalf("workers=%d: ico.DecodeAll: %v", workers, err)
		}
		for _, m := range images {
			got, err := nie.Encode(m.Image, nie.Depth4)
			if err != nil {
				tt.Errorf("workers=%d: nie.Encode: %v", workers, err)
				continue
			}
			compareGolden(tt, fmt.Sprintf("favicon-ico-%dx%d.nie", m.Size(), m.Size()), got)
		}
	}
}
