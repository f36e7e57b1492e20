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
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/nigeltao/favicon/internal/nie"
	"github.com/nigeltao/favicon/lib/ico"
)

var ErrBadFormatFlag = errors.New("main: bad --format flag")

func newInspectCmd() *cobra.Command {
	dump := -1
	format := "png"
	output := ""
	cmd := &cobra.Command{
		Use:   "inspect file.ico",
		Short: "List the images in an ICO file, or dump one of them",
		Long: `inspect lists the directory of an ICO file.

With --dump=N, it instead writes the N'th image (counting from zero) in one of
these formats:

    --format=nie-bn4
    --format=nie-bn8
    --format=png (this is the default)

The image is written to stdout unless --output is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return inspect(cmd.OutOrStdout(), args[0], dump, format, output)
		},
	}
	cmd.Flags().IntVar(&dump, "dump", dump, "index of the image to dump; negative means to list the directory")
	cmd.Flags().StringVar(&format, "format", format, "dump format: png, nie-bn4 or nie-bn8")
	cmd.Flags().StringVarP(&output, "output", "o", output, "dump destination file")
	return cmd
}

func inspect(w io.Writer, path string, dump int, format string, output string) error {
	switch format {
	case "png", "nie-bn4", "nie-bn8":
		// No-op.
	default:
		return ErrBadFormatFlag
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	images, err := ico.DecodeAll(data)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}

	if dump < 0 {
		fmt.Fprintf(w, "File:   %s\n", path)
		fmt.Fprintf(w, "Size:   %d bytes\n", len(data))
		fmt.Fprintf(w, "Images: %d\n", len(images))
		for i, m := range images {
			fmt.Fprintf(w, "  #%d: %dx%d %s %dbpp, %d bytes at offset %d\n",
				i, m.Size(), m.Size(), m.Format, m.BitCount, m.Length, m.Offset)
		}
		return nil
	}

	if dump >= len(images) {
		return fmt.Errorf("--dump=%d is out of range: %s holds %d images", dump, path, len(images))
	}
	dst, err := encodeDump(images[dump].Image, format)
	if err != nil {
		return err
	}
	if output != "" {
		return os.WriteFile(output, dst, 0644)
	}
	_, err = w.Write(dst)
	return err
}

func encodeDump(m image.Image, format string) ([]byte, error) {
	switch format {
	case "nie-bn4":
		return nie.Encode(m, nie.Depth4)
	case "nie-bn8":
		return nie.Encode(m, nie.Depth8)
	}
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
