// Copyright 2025 The Favicon Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

// ----------------

// Package ico implements the ICO (Windows icon) container file format.
//
// An ICO file is a 6 byte header, a directory of 16 byte entries (one per
// embedded image) and then the embedded images' payloads. Each payload is
// either a PNG file or a headerless DIB (device independent bitmap): a 40
// byte BITMAPINFOHEADER followed by bottom-up pixel rows.
//
// All multi-byte fields are little-endian. The directory stores an image's
// width and height in a single byte each, so a 256 pixel edge is stored as 0.
//
// The format is described at
// https://learn.microsoft.com/en-us/previous-versions/ms997538(v=msdn.10)
package ico

import (
	"errors"
	"fmt"
	"io"
	"math"
)

const (
	// HeaderSize is the length of the ICONDIR header.
	HeaderSize = 6

	// DirEntrySize is the length of each ICONDIRENTRY.
	DirEntrySize = 16

	// MaxSize is the largest image edge length that a directory entry can
	// represent.
	MaxSize = 256

	// MaxEntries is the largest number of images in one file.
	MaxEntries = math.MaxUint16
)

var (
	ErrBadArgument          = errors.New("ico: bad argument")
	ErrContainerBuildFailed = errors.New("ico: container build failed")
	ErrDIBEncodeFailed      = errors.New("ico: DIB encode failed")
	ErrNotAnICOFile         = errors.New("ico: not an ICO file")
	ErrUnsupportedPayload   = errors.New("ico: unsupported payload")
)

// SizeError records the image size that an operation failed for.
type SizeError struct {
	Size int
	Err  error
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("%v (size %d)", e.Err, e.Size)
}

func (e *SizeError) Unwrap() error { return e.Err }

// Entry is one image to be placed in an ICO file.
type Entry struct {
	// Size is the image's width and height, in pixels, between 1 and 256
	// inclusive.
	Size int

	// Payload is the encoded image: typically the output of EncodeDIB, but
	// a complete PNG file is also valid.
	Payload []byte
}

// DirEntry is a decoded ICONDIRENTRY.
type DirEntry struct {
	Width      uint8
	Height     uint8
	ColorCount uint8
	Reserved   uint8
	Planes     uint16
	BitCount   uint16
	Length     uint32
	Offset     uint32
}

// Size returns the entry's width in pixels, mapping the stored 0 to 256.
func (d DirEntry) Size() int {
	if d.Width == 0 {
		return MaxSize
	}
	return int(d.Width)
}

// sizeByte encodes an edge length for a directory entry. 256 does not fit in
// a byte and is stored as 0.
func sizeByte(size int) uint8 {
	if size < MaxSize {
		return uint8(size)
	}
	return 0
}

// Build returns an ICO file holding entries.
//
// The directory lists the entries in the order given. Payload offsets are
// assigned in that same order, with no gaps: the first payload starts
// immediately after the directory and each subsequent payload starts where
// the previous one ends.
//
// It returns ErrContainerBuildFailed if entries is empty, has more than
// MaxEntries elements, or has an element with an empty Payload or with a Size
// outside of [1, 256].
func Build(entries []Entry) ([]byte, error) {
	n, err := containerLength(entries)
	if err != nil {
		return nil, err
	}

	dst := make([]byte, 0, n)
	dst = append(dst,
		0x00, 0x00, // Reserved.
		0x01, 0x00, // Type 1 means icon. Type 2 means cursor.
		uint8(len(entries)>>0),
		uint8(len(entries)>>8),
	)

	offset := HeaderSize + (DirEntrySize * len(entries))
	for _, e := range entries {
		b := sizeByte(e.Size)
		dst = append(dst,
			b,          // Width.
			b,          // Height.
			0x00,       // Color count. 0 means no palette.
			0x00,       // Reserved.
			0x01, 0x00, // Planes.
			0x20, 0x00, // Bit count.
		)
		dst = appendU32LE(dst, uint32(len(e.Payload)))
		dst = appendU32LE(dst, uint32(offset))
		offset += len(e.Payload)
	}

	for _, e := range entries {
		dst = append(dst, e.Payload...)
	}
	return dst, nil
}

// Encode writes the ICO file holding entries to w. The bytes written are the
// same as those returned by Build.
func Encode(w io.Writer, entries []Entry) error {
	if w == nil {
		return ErrBadArgument
	}
	b, err := Build(entries)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

func containerLength(entries []Entry) (int, error) {
	if (len(entries) == 0) || (len(entries) > MaxEntries) {
		return 0, ErrContainerBuildFailed
	}
	n := HeaderSize + (DirEntrySize * len(entries))
	for _, e := range entries {
		if (e.Size < 1) || (e.Size > MaxSize) || (len(e.Payload) == 0) {
			return 0, &SizeError{Size: e.Size, Err: ErrContainerBuildFailed}
		}
		n += len(e.Payload)
		if n > math.MaxUint32 {
			return 0, ErrContainerBuildFailed
		}
	}
	return n, nil
}

func appendU32LE(b []byte, u uint32) []byte {
	return append(b,
		uint8(u>>0),
		uint8(u>>8),
		uint8(u>>16),
		uint8(u>>24),
	)
}

func readU16LE(b []byte) uint16 {
	return (uint16(b[0]) << 0) |
		(uint16(b[1]) << 8)
}

func readU32LE(b []byte) uint32 {
	return (uint32(b[0]) << 0) |
		(uint32(b[1]) << 8) |
		(uint32(b[2]) << 16) |
		(uint32(b[3]) << 24)
}
