// Copyright 2025 The Favicon Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/nigeltao/favicon/internal/archive"
	"github.com/nigeltao/favicon/internal/config"
	"github.com/nigeltao/favicon/lib/favicon"
	"github.com/nigeltao/favicon/lib/raster"
)

// generateFlags are shared by the generate and watch commands. Flags that are
// set on the command line override the configuration file.
type generateFlags struct {
	input       string
	output      string
	config      string
	filter      string
	workers     int
	compression string
	checksums   bool
	pathPrefix  string
}

func (f *generateFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.input, "input", "i", "", "source image path (required)")
	fs.StringVarP(&f.output, "output", "o", "", "output directory, or a path ending in .zip (required)")
	fs.StringVarP(&f.config, "config", "c", "", "configuration file (.yaml, .yml, .json or .jsonc)")
	fs.StringVar(&f.filter, "filter", "", "resampling filter: bilinear, catmullrom or approxbilinear")
	fs.IntVar(&f.workers, "workers", 0, "number of renditions to render concurrently")
	fs.StringVar(&f.compression, "compression", "", "zip entry compression: deflate, store or zstd")
	fs.BoolVar(&f.checksums, "checksums", false, "add a "+archive.ChecksumsName+" file to the zip")
	fs.StringVar(&f.pathPrefix, "path-prefix", "", `URL path prefix in the HTML and manifest (default "/")`)
}

func (f *generateFlags) check() error {
	if f.input == "" {
		return errors.New("missing --input")
	}
	if f.output == "" {
		return errors.New("missing --output")
	}
	return nil
}

// loadConfig loads the configuration file, if any, and applies the flags that
// fs says were set.
func (f *generateFlags) loadConfig(fs *pflag.FlagSet) (*config.Config, error) {
	cfg := config.Default()
	if f.config != "" {
		c, err := config.Load(f.config)
		if err != nil {
			return nil, err
		}
		cfg = c
	}
	if fs.Changed("filter") {
		cfg.Filter = f.filter
	}
	if fs.Changed("workers") {
		cfg.Workers = f.workers
	}
	if fs.Changed("compression") {
		cfg.Archive.Compression = f.compression
	}
	if fs.Changed("checksums") {
		cfg.Archive.Checksums = f.checksums
	}
	if fs.Changed("path-prefix") {
		cfg.Site.PathPrefix = f.pathPrefix
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newGenerateCmd(a *app) *cobra.Command {
	f := &generateFlags{}
	cmd := &cobra.Command{
		Use:   "generate -i source -o output",
		Short: "Generate the favicon set once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := f.check(); err != nil {
				return err
			}
			cfg, err := f.loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			return a.generate(cmd.Context(), f.input, f.output, cfg)
		},
	}
	f.register(cmd.Flags())
	return cmd
}

func (a *app) generate(ctx context.Context, input string, output string, cfg *config.Config) error {
	src, err := decodeFile(input)
	if err != nil {
		return err
	}
	a.logger.Debug("decoded source", "path", input, "width", src.Width(), "height", src.Height())

	specs, err := cfg.Specs()
	if err != nil {
		return err
	}
	bundle, err := favicon.Generate(ctx, src, specs, cfg.Options())
	if err != nil {
		return err
	}

	if isZip(output) {
		err = writeZip(output, bundle, cfg.ArchiveOptions())
	} else {
		err = writeDir(output, bundle)
	}
	if err != nil {
		return err
	}

	for i := range bundle.Artifacts {
		art := &bundle.Artifacts[i]
		d := art.Digest()
		a.logger.Info("wrote artifact",
			"name", art.Name,
			"bytes", len(art.Data),
			"blake3", hex.EncodeToString(d[:]))
	}
	a.logger.Info("generated favicon set", "output", output, "artifacts", len(bundle.Artifacts))
	return nil
}

func decodeFile(path string) (*raster.Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	src, _, err := raster.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return src, nil
}

func isZip(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".zip")
}

func writeDir(dir string, b *favicon.Bundle) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	for _, art := range b.Artifacts {
		if err := os.WriteFile(filepath.Join(dir, art.Name), art.Data, 0644); err != nil {
			return err
		}
	}
	return nil
}

// writeZip writes to a temporary file and renames it, so that a watcher never
// sees a partial zip file.
func writeZip(path string, b *favicon.Bundle, options *archive.Options) (retErr error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".favicongen-*.zip")
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			os.Remove(f.Name())
		}
	}()

	if err := archive.Write(f, b, options); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.Chmod(f.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}
