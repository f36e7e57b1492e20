// Copyright 2025 The Favicon Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

// ----------------

// Package archive packs a favicon.Bundle into a zip file.
//
// The output is reproducible: entries are written in bundle order with a
// fixed modification time, so the same Bundle always yields the same bytes.
package archive

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"

	"github.com/nigeltao/favicon/lib/favicon"
)

// ChecksumsName is the name of the optional checksum listing. Each line is a
// hex BLAKE3-256 digest, two spaces and a file name, as printed by b3sum.
const ChecksumsName = "BLAKE3SUMS"

var (
	ErrBadArgument = errors.New("archive: bad argument")
)

// modTime is the timestamp of every entry: the earliest that a zip file's MS-DOS
// date field can hold.
var modTime = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// Compression is how non-PNG entries are compressed. PNG entries are always
// stored as-is, since they are already compressed.
type Compression uint8

const (
	CompressionDeflate = Compression(0)
	CompressionStore   = Compression(1)
	CompressionZstd    = Compression(2)
)

func (c Compression) String() string {
	switch c {
	case CompressionDeflate:
		return "deflate"
	case CompressionStore:
		return "store"
	case CompressionZstd:
		return "zstd"
	}
	return fmt.Sprintf("compression(%d)", uint8(c))
}

// ParseCompression is the inverse of Compression.String. The empty string
// maps to the default, CompressionDeflate.
func ParseCompression(s string) (Compression, error) {
	switch s {
	case "", "deflate":
		return CompressionDeflate, nil
	case "store":
		return CompressionStore, nil
	case "zstd":
		return CompressionZstd, nil
	}
	return 0, fmt.Errorf("%w: unknown compression %q", ErrBadArgument, s)
}

func (c Compression) method() (uint16, bool) {
	switch c {
	case CompressionDeflate:
		return zip.Deflate, true
	case CompressionStore:
		return zip.Store, true
	case CompressionZstd:
		return zstd.ZipMethodWinZip, true
	}
	return 0, false
}

// Options are optional arguments to Write. The zero value is valid and means
// to use the default configuration.
type Options struct {
	// If zero, the default is CompressionDeflate.
	Compression Compression

	// Dir, if non-empty, is a directory inside the archive that holds every
	// entry.
	Dir string

	// Checksums is whether to append a ChecksumsName entry.
	Checksums bool
}

// Write writes b to w as a zip file.
//
// options may be nil, which means to use the default configuration.
func Write(w io.Writer, b *favicon.Bundle, options *Options) error {
	if (w == nil) || (b == nil) {
		return ErrBadArgument
	}
	o := Options{}
	if options != nil {
		o = *options
	}
	method, ok := o.Compression.method()
	if !ok {
		return ErrBadArgument
	}
	dir := strings.Trim(o.Dir, "/")
	if strings.Contains(dir, "..") {
		return ErrBadArgument
	}

	zw := zip.NewWriter(w)
	if o.Compression == CompressionZstd {
		zw.RegisterCompressor(zstd.ZipMethodWinZip, zstd.ZipCompressor(zstd.WithEncoderConcurrency(1)))
	}

	sums := &strings.Builder{}
	for i := range b.Artifacts {
		a := &b.Artifacts[i]
		m := method
		if a.ContentType == "image/png" {
			m = zip.Store
		}
		if err := writeEntry(zw, path.Join(dir, a.Name), m, a.Data); err != nil {
			return err
		}
		d := a.Digest()
		sums.WriteString(hex.EncodeToString(d[:]))
		sums.WriteString("  ")
		sums.WriteString(a.Name)
		sums.WriteString("\n")
	}

	if o.Checksums {
		if err := writeEntry(zw, path.Join(dir, ChecksumsName), method, []byte(sums.String())); err != nil {
			return err
		}
	}
	return zw.Close()
}

func writeEntry(zw *zip.Writer, name string, method uint16, data []byte) error {
	f, err := zw.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   method,
		Modified: modTime,
	})
	if err != nil {
		return fmt.Errorf("archive: %s: %w", name, err)
	}
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("archive: %s: %w", name, err)
	}
	return nil
}
