// Copyright 2025 The Favicon Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"

	"github.com/nigeltao/favicon/lib/favicon"
	"github.com/nigeltao/favicon/lib/ico"
)

func writeSolid(tt *testing.T, path string, c color.NRGBA) {
	tt.Helper()
	m := image.NewNRGBA(image.Rect(0, 0, 32, 32))
	for i := 0; i < len(m.Pix); i += 4 {
		m.Pix[i+0], m.Pix[i+1], m.Pix[i+2], m.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, m); err != nil {
		tt.Fatalf("png.Encode: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		tt.Fatalf("WriteFile: %v", err)
	}
}

// containerColor returns the top left pixel of the first image in the ICO
// file at path, or false if that file is missing or not (yet) complete.
func containerColor(path string) (color.NRGBA, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return color.NRGBA{}, false
	}
	images, err := ico.DecodeAll(data)
	if (err != nil) || (len(images) == 0) {
		return color.NRGBA{}, false
	}
	return color.NRGBAModel.Convert(images[0].Image.At(0, 0)).(color.NRGBA), true
}

func waitForColor(tt *testing.T, path string, want color.NRGBA) {
	tt.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		if got, ok := containerColor(path); ok && (got == want) {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	got, _ := containerColor(path)
	tt.Fatalf("%s: timed out: got %v, want %v", path, got, want)
}

func TestWatchRegenerates(tt *testing.T) {
	red := color.NRGBA{0xFF, 0x00, 0x00, 0xFF}
	blue := color.NRGBA{0x00, 0x00, 0xFF, 0xFF}

	dir := tt.TempDir()
	src := filepath.Join(dir, "logo.png")
	out := filepath.Join(dir, "out")
	writeSolid(tt, src, red)

	a := &app{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	f := &generateFlags{}
	fs := pflag.NewFlagSet("watch", pflag.ContinueOnError)
	f.register(fs)
	if err := fs.Parse([]string{"-i", src, "-o", out}); err != nil {
		tt.Fatalf("Parse: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- a.watch(ctx, f, fs, 10*time.Millisecond)
	}()

	icoPath := filepath.Join(out, favicon.ContainerName)
	waitForColor(tt, icoPath, red)

	writeSolid(tt, src, blue)
	waitForColor(tt, icoPath, blue)

	cancel()
	select {
	case err := <-done:
		if err != nil {
			tt.Errorf("watch: %v", err)
		}
	case <-time.After(10 * time.Second):
		tt.Fatalf("watch did not return after cancel")
	}
}
