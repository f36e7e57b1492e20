// Copyright 2025 The Favicon Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nigeltao/favicon/internal/archive"
	"github.com/nigeltao/favicon/lib/favicon"
	"github.com/nigeltao/favicon/lib/ico"
	"github.com/nigeltao/favicon/lib/raster"
)

const yamlConfig = `
site:
  name: "Example Site"
  short_name: "Example"
  theme_color: "#336699"
  path_prefix: "/static/"

filter: catmullrom
workers: 4

archive:
  compression: zstd
  dir: icons
  checksums: true

renditions:
  - size: 16
    png: true
    container: true
  - size: 32
    container: true
  - size: 180
    purpose: apple-touch-icon
    png: true
`

const jsoncConfig = `{
  // Same as the YAML config, minus the site block.
  "filter": "catmullrom",
  "workers": 4,
  "archive": {"compression": "zstd", "dir": "icons", "checksums": true},
  "renditions": [
    {"size": 16, "png": true, "container": true},
    {"size": 32, "container": true},
    {"size": 180, "purpose": "apple-touch-icon", "png": true}, /* trailing comma */
  ],
}`

func writeFile(tt *testing.T, name string, contents string) string {
	tt.Helper()
	path := filepath.Join(tt.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		tt.Fatalf("WriteFile: %v", err)
	}
	return path
}

func checkCommon(tt *testing.T, cfg *Config) {
	tt.Helper()
	if cfg.Filter != "catmullrom" {
		tt.Errorf("Filter: got %q", cfg.Filter)
	}
	if cfg.Workers != 4 {
		tt.Errorf("Workers: got %d", cfg.Workers)
	}

	specs, err := cfg.Specs()
	if err != nil {
		tt.Fatalf("Specs: %v", err)
	}
	want := []favicon.RenditionSpec{
		{Size: 16, Purpose: favicon.PurposeStandaloneIcon, EmitPNG: true, InContainer: true},
		{Size: 32, Purpose: favicon.PurposeStandaloneIcon, InContainer: true},
		{Size: 180, Purpose: favicon.PurposeAppleTouch, EmitPNG: true},
	}
	if len(specs) != len(want) {
		tt.Fatalf("Specs: got %d, want %d", len(specs), len(want))
	}
	for i := range want {
		if specs[i] != want[i] {
			tt.Errorf("Specs[%d]: got %+v, want %+v", i, specs[i], want[i])
		}
	}

	o := cfg.Options()
	if o.Filter != raster.FilterCatmullRom {
		tt.Errorf("Options.Filter: got %v", o.Filter)
	}
	if o.Workers != 4 {
		tt.Errorf("Options.Workers: got %d", o.Workers)
	}

	a := cfg.ArchiveOptions()
	if (a.Compression != archive.CompressionZstd) || (a.Dir != "icons") || !a.Checksums {
		tt.Errorf("ArchiveOptions: got %+v", *a)
	}
}

func TestLoadYAML(tt *testing.T) {
	cfg, err := Load(writeFile(tt, "favicon.yaml", yamlConfig))
	if err != nil {
		tt.Fatalf("Load: %v", err)
	}
	checkCommon(tt, cfg)

	site := cfg.Options().Site
	if site.Name != "Example Site" {
		tt.Errorf("Site.Name: got %q", site.Name)
	}
	if site.ShortName != "Example" {
		tt.Errorf("Site.ShortName: got %q", site.ShortName)
	}
	if site.ThemeColor != "#336699" {
		tt.Errorf("Site.ThemeColor: got %q", site.ThemeColor)
	}
	if site.PathPrefix != "/static/" {
		tt.Errorf("Site.PathPrefix: got %q", site.PathPrefix)
	}
}

func TestLoadJSONC(tt *testing.T) {
	cfg, err := Load(writeFile(tt, "favicon.jsonc", jsoncConfig))
	if err != nil {
		tt.Fatalf("Load: %v", err)
	}
	checkCommon(tt, cfg)
}

func TestDefault(tt *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		tt.Fatalf("Validate: %v", err)
	}
	specs, err := cfg.Specs()
	if err != nil {
		tt.Fatalf("Specs: %v", err)
	}
	if got, want := len(specs), len(favicon.DefaultSpecs()); got != want {
		tt.Errorf("len(Specs): got %d, want %d", got, want)
	}
	if o := cfg.ArchiveOptions(); o.Compression != archive.CompressionDeflate {
		tt.Errorf("ArchiveOptions.Compression: got %v", o.Compression)
	}
}

func TestLoadErrors(tt *testing.T) {
	testCases := []struct {
		name     string
		file     string
		contents string
		wantErr  error
	}{{
		name:     "unknown extension",
		file:     "favicon.toml",
		contents: "filter = 'bilinear'",
		wantErr:  ErrUnknownExtension,
	}, {
		name:     "bad filter",
		file:     "favicon.yaml",
		contents: "filter: lanczos\n",
		wantErr:  raster.ErrBadArgument,
	}, {
		name:     "bad compression",
		file:     "favicon.yaml",
		contents: "archive:\n  compression: lz4\n",
		wantErr:  archive.ErrBadArgument,
	}, {
		name:     "bad purpose",
		file:     "favicon.json",
		contents: `{"renditions": [{"size": 16, "purpose": "tile", "png": true}]}`,
		wantErr:  favicon.ErrBadSpec,
	}, {
		name:     "container too large",
		file:     "favicon.yml",
		contents: "renditions:\n  - size: 512\n    container: true\n",
		wantErr:  ico.ErrContainerBuildFailed,
	}}

	for _, tc := range testCases {
		_, err := Load(writeFile(tt, tc.file, tc.contents))
		if err == nil {
			tt.Errorf("%s: got nil error", tc.name)
			continue
		}
		if !errors.Is(err, tc.wantErr) {
			tt.Errorf("%s: got %v, want %v", tc.name, err, tc.wantErr)
		}
	}

	if _, err := Load(filepath.Join(tt.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		tt.Errorf("missing file: got %v, want os.ErrNotExist", err)
	}
	if _, err := Load(writeFile(tt, "favicon.yaml", "workers: -1\n")); err == nil {
		tt.Errorf("negative workers: got nil error")
	}
}
