// Copyright 2025 The Favicon Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package ico

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
)

// Magic is the byte string prefix of every ICO image file: a zero reserved
// field and then a type field of 1.
const Magic = "\x00\x00\x01\x00"

const pngMagic = "\x89PNG\r\n\x1A\n"

func init() {
	image.RegisterFormat("ico", Magic, Decode, DecodeConfig)
}

// Image is one decoded image from an ICO file.
type Image struct {
	DirEntry

	// Format is "dib" or "png", depending on the payload's encoding.
	Format string

	Image image.Image
}

// parseDirectory parses the header and directory at the start of b. If
// checkPayloads is true then every entry's payload must lie within b.
func parseDirectory(b []byte, checkPayloads bool) ([]DirEntry, error) {
	if (len(b) < HeaderSize) || (string(b[:4]) != Magic) {
		return nil, ErrNotAnICOFile
	}
	count := int(readU16LE(b[4:]))
	dirEnd := HeaderSize + (DirEntrySize * count)
	if (count == 0) || (len(b) < dirEnd) {
		return nil, ErrNotAnICOFile
	}

	ret := make([]DirEntry, count)
	for i := range ret {
		p := b[HeaderSize+(DirEntrySize*i):]
		d := DirEntry{
			Width:      p[0x00],
			Height:     p[0x01],
			ColorCount: p[0x02],
			Reserved:   p[0x03],
			Planes:     readU16LE(p[0x04:]),
			BitCount:   readU16LE(p[0x06:]),
			Length:     readU32LE(p[0x08:]),
			Offset:     readU32LE(p[0x0C:]),
		}
		if checkPayloads {
			end := uint64(d.Offset) + uint64(d.Length)
			if (d.Length == 0) || (uint64(d.Offset) < uint64(dirEnd)) || (end > uint64(len(b))) {
				return nil, ErrNotAnICOFile
			}
		}
		ret[i] = d
	}
	return ret, nil
}

// ReadDirectory reads an ICO file's header and directory from r. It does not
// read or check the payloads.
func ReadDirectory(r io.Reader) ([]DirEntry, error) {
	buf := [HeaderSize]byte{}
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, err
	}
	count := int(readU16LE(buf[4:]))
	b := make([]byte, HeaderSize+(DirEntrySize*count))
	copy(b, buf[:])
	if (string(buf[:4]) == Magic) && (count > 0) {
		if _, err := io.ReadFull(r, b[HeaderSize:]); err != nil {
			return nil, err
		}
	}
	return parseDirectory(b, false)
}

// DecodeAll decodes every image in the ICO file b, in directory order.
func DecodeAll(b []byte) ([]Image, error) {
	dir, err := parseDirectory(b, true)
	if err != nil {
		return nil, err
	}
	ret := make([]Image, 0, len(dir))
	for _, d := range dir {
		m, format, err := decodePayload(b[d.Offset : d.Offset+d.Length])
		if err != nil {
			return nil, err
		}
		ret = append(ret, Image{DirEntry: d, Format: format, Image: m})
	}
	return ret, nil
}

func decodePayload(payload []byte) (image.Image, string, error) {
	if bytes.HasPrefix(payload, []byte(pngMagic)) {
		m, err := png.Decode(bytes.NewReader(payload))
		if err != nil {
			return nil, "", err
		}
		return m, "png", nil
	}
	m, err := decodeDIB(payload)
	if err != nil {
		return nil, "", err
	}
	return m, "dib", nil
}

// largest returns the index of the first of the largest entries.
func largest(dir []DirEntry) int {
	best := 0
	for i, d := range dir {
		if d.Size() > dir[best].Size() {
			best = i
		}
	}
	return best
}

// DecodeConfig reads an ICO image configuration from r. The dimensions are
// those of the largest image in the file.
func DecodeConfig(r io.Reader) (image.Config, error) {
	dir, err := ReadDirectory(r)
	if err != nil {
		return image.Config{}, err
	}
	d := dir[largest(dir)]
	h := int(d.Height)
	if h == 0 {
		h = MaxSize
	}
	return image.Config{
		ColorModel: color.NRGBAModel,
		Width:      d.Size(),
		Height:     h,
	}, nil
}

// Decode reads an ICO image from r. It returns the largest image in the file.
// If there is a tie, it returns the first one in directory order.
func Decode(r io.Reader) (image.Image, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	dir, err := parseDirectory(b, true)
	if err != nil {
		return nil, err
	}
	d := dir[largest(dir)]
	m, _, err := decodePayload(b[d.Offset : d.Offset+d.Length])
	return m, err
}
