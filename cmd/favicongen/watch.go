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
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newWatchCmd(a *app) *cobra.Command {
	f := &generateFlags{}
	debounce := 250 * time.Millisecond
	cmd := &cobra.Command{
		Use:   "watch -i source -o output",
		Short: "Generate the favicon set, then regenerate it whenever the source or config changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := f.check(); err != nil {
				return err
			}
			return a.watch(cmd.Context(), f, cmd.Flags(), debounce)
		},
	}
	f.register(cmd.Flags())
	cmd.Flags().DurationVar(&debounce, "debounce", debounce, "quiet period after a change before regenerating")
	return cmd
}

// watch runs until ctx is done. Generation errors are logged, not returned,
// so that a half-saved source file does not end the session.
func (a *app) watch(ctx context.Context, f *generateFlags, fs *pflag.FlagSet, debounce time.Duration) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	defer w.Close()

	// Watch the parent directories, not the files, since many editors save by
	// writing a new file and renaming it over the old one.
	targets := map[string]bool{}
	dirs := map[string]bool{}
	for _, path := range []string{f.input, f.config} {
		if path == "" {
			continue
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		targets[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
		a.logger.Debug("watching directory", "dir", dir)
	}

	run := func() {
		cfg, err := f.loadConfig(fs)
		if err != nil {
			a.logger.Error("loading config", "err", err)
			return
		}
		if err := a.generate(ctx, f.input, f.output, cfg); err != nil {
			a.logger.Error("generating favicon set", "err", err)
		}
	}
	run()

	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op == fsnotify.Chmod {
				continue
			}
			if abs, err := filepath.Abs(ev.Name); (err != nil) || !targets[abs] {
				continue
			}
			a.logger.Debug("change", "path", ev.Name, "op", ev.Op.String())
			fire = time.After(debounce)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			a.logger.Warn("watcher error", "err", err)

		case <-fire:
			fire = nil
			run()
		}
	}
}
