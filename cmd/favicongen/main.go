// Copyright 2025 The Favicon Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

// ----------------

// favicongen generates a website's favicon set (an ICO file, PNG icons, an
// HTML snippet and a web app manifest) from one source image.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	// Register the ICO decoder, so that an existing favicon.ico can be used
	// as a source image.
	_ "github.com/nigeltao/favicon/lib/ico"
)

func main() {
	if err := main1(); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func main1() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return newRootCmd().ExecuteContext(ctx)
}

type app struct {
	logger    *slog.Logger
	logLevel  string
	logFormat string
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "favicongen",
		Short: "Generate a website's favicon set from one source image",
		Long: `favicongen generates a website's favicon set from one source image.

The output is a multi-resolution favicon.ico, standalone PNG icons (including
the Apple touch icon and the web app manifest icons), an HTML snippet of
<link> elements and a site.webmanifest file. It is written to a directory or,
if the output path ends in ".zip", to a zip file.

Source images can be BMP, GIF, ICO, JPEG, PNG, TIFF or WEBP. Non-square
sources are center-cropped.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cmd.ErrOrStderr(), a.logLevel, a.logFormat)
			if err != nil {
				return err
			}
			a.logger = logger
			return nil
		},
	}
	flags := root.PersistentFlags()
	flags.StringVar(&a.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	flags.StringVar(&a.logFormat, "log-format", "text", "log format: text or json")

	root.AddCommand(
		newGenerateCmd(a),
		newInspectCmd(),
		newWatchCmd(a),
	)
	return root
}

func newLogger(w io.Writer, level string, format string) (*slog.Logger, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("bad --log-level %q", level)
	}
	options := &slog.HandlerOptions{Level: l}
	switch format {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, options)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, options)), nil
	}
	return nil, fmt.Errorf("bad --log-format %q", format)
}
