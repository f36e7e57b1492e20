// Copyright 2025 The Favicon Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

// ----------------

// Package config loads favicongen's configuration file.
//
// A configuration file is either YAML (".yaml" or ".yml") or JSON with
// comments and trailing commas (".json" or ".jsonc"). The two forms use the
// same field names.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/nigeltao/favicon/internal/archive"
	"github.com/nigeltao/favicon/lib/favicon"
	"github.com/nigeltao/favicon/lib/raster"
)

var (
	ErrUnknownExtension = errors.New("config: unknown file extension")
)

// Config is favicongen's configuration.
type Config struct {
	Site    SiteConfig    `yaml:"site" json:"site"`
	Filter  string        `yaml:"filter" json:"filter"`
	Workers int           `yaml:"workers" json:"workers"`
	Archive ArchiveConfig `yaml:"archive" json:"archive"`

	// Renditions, if empty, means favicon.DefaultSpecs.
	Renditions []RenditionConfig `yaml:"renditions" json:"renditions"`
}

type SiteConfig struct {
	Name            string `yaml:"name" json:"name"`
	ShortName       string `yaml:"short_name" json:"short_name"`
	ThemeColor      string `yaml:"theme_color" json:"theme_color"`
	BackgroundColor string `yaml:"background_color" json:"background_color"`
	Display         string `yaml:"display" json:"display"`
	PathPrefix      string `yaml:"path_prefix" json:"path_prefix"`
}

type ArchiveConfig struct {
	Compression string `yaml:"compression" json:"compression"`
	Dir         string `yaml:"dir" json:"dir"`
	Checksums   bool   `yaml:"checksums" json:"checksums"`
}

type RenditionConfig struct {
	Size int `yaml:"size" json:"size"`

	// Purpose, if empty, means "icon".
	Purpose string `yaml:"purpose" json:"purpose"`

	Name      string `yaml:"name" json:"name"`
	PNG       bool   `yaml:"png" json:"png"`
	Container bool   `yaml:"container" json:"container"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{}
}

// Load reads and parses the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse parses data, in the format implied by the file extension ext, and
// validates the result.
func Parse(data []byte, ext string) (*Config, error) {
	cfg := Default()
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownExtension, ext)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks that every field holds a usable value.
func (c *Config) Validate() error {
	if _, err := raster.ParseFilter(c.Filter); err != nil {
		return fmt.Errorf("filter: %w", err)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers: must be non-negative, got %d", c.Workers)
	}
	if _, err := archive.ParseCompression(c.Archive.Compression); err != nil {
		return fmt.Errorf("archive.compression: %w", err)
	}
	if _, err := c.Specs(); err != nil {
		return fmt.Errorf("renditions: %w", err)
	}
	return nil
}

// Specs returns the rendition list as favicon.RenditionSpec values.
func (c *Config) Specs() ([]favicon.RenditionSpec, error) {
	if len(c.Renditions) == 0 {
		return favicon.DefaultSpecs(), nil
	}
	specs := make([]favicon.RenditionSpec, 0, len(c.Renditions))
	for i, r := range c.Renditions {
		p := favicon.PurposeStandaloneIcon
		if r.Purpose != "" {
			var err error
			if p, err = favicon.ParsePurpose(r.Purpose); err != nil {
				return nil, fmt.Errorf("#%d: %w", i, err)
			}
		}
		specs = append(specs, favicon.RenditionSpec{
			Size:        r.Size,
			Purpose:     p,
			Name:        r.Name,
			EmitPNG:     r.PNG,
			InContainer: r.Container,
		})
	}
	if err := favicon.Validate(specs); err != nil {
		return nil, err
	}
	return specs, nil
}

// Options returns the favicon.Generate options. It assumes that c is valid.
func (c *Config) Options() *favicon.Options {
	filter, _ := raster.ParseFilter(c.Filter)
	return &favicon.Options{
		Filter:  filter,
		Workers: c.Workers,
		Site: favicon.Site{
			Name:            c.Site.Name,
			ShortName:       c.Site.ShortName,
			ThemeColor:      c.Site.ThemeColor,
			BackgroundColor: c.Site.BackgroundColor,
			Display:         c.Site.Display,
			PathPrefix:      c.Site.PathPrefix,
		},
	}
}

// ArchiveOptions returns the archive.Write options. It assumes that c is
// valid.
func (c *Config) ArchiveOptions() *archive.Options {
	compression, _ := archive.ParseCompression(c.Archive.Compression)
	return &archive.Options{
		Compression: compression,
		Dir:         c.Archive.Dir,
		Checksums:   c.Archive.Checksums,
	}
}
