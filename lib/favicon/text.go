// Copyright 2025 The Favicon Authors.
//
// Licensed under the Apache License, Version 2.0 <LICENSE-APACHE or
// https://www.apache.org/licenses/LICENSE-2.0>. This file may not be copied,
// modified, or distributed except according to those terms.
//
// SPDX-License-Identifier: Apache-2.0

package favicon

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"strings"
)

var htmlTemplate = template.Must(template.New("html").Parse(
	`{{- if .Container}}<link rel="icon" type="image/x-icon" sizes="{{.Container}}" href="{{.Prefix}}favicon.ico">
{{end -}}
{{range .Icons}}<link rel="icon" type="image/png" sizes="{{.Sizes}}" href="{{.Href}}">
{{end -}}
{{range .AppleTouch}}<link rel="apple-touch-icon" sizes="{{.Sizes}}" href="{{.Href}}">
{{end -}}
{{if .Manifest}}<link rel="manifest" href="{{.Prefix}}site.webmanifest">
{{end -}}
{{if .ThemeColor}}<meta name="theme-color" content="{{.ThemeColor}}">
{{end -}}
`))

type htmlLink struct {
	Sizes string
	Href  string
}

func sizesAttr(size int) string {
	return fmt.Sprintf("%dx%d", size, size)
}

func pathPrefix(site *Site) string {
	if site.PathPrefix == "" {
		return "/"
	}
	if !strings.HasSuffix(site.PathPrefix, "/") {
		return site.PathPrefix + "/"
	}
	return site.PathPrefix
}

// renderHTML returns the <link> tags for the generated files, in specs order
// within each kind of tag.
func renderHTML(specs []RenditionSpec, hasContainer bool, site *Site) ([]byte, error) {
	prefix := pathPrefix(site)
	data := struct {
		Prefix     string
		Container  string
		Icons      []htmlLink
		AppleTouch []htmlLink
		Manifest   bool
		ThemeColor string
	}{
		Prefix:     prefix,
		ThemeColor: site.ThemeColor,
	}

	containerSizes := []string(nil)
	for _, s := range specs {
		if s.InContainer {
			containerSizes = append(containerSizes, sizesAttr(s.Size))
		}
		if !s.EmitPNG {
			continue
		}
		link := htmlLink{Sizes: sizesAttr(s.Size), Href: prefix + s.PNGName()}
		switch s.Purpose {
		case PurposeStandaloneIcon:
			data.Icons = append(data.Icons, link)
		case PurposeAppleTouch:
			data.AppleTouch = append(data.AppleTouch, link)
		default:
			data.Manifest = true
		}
	}
	if hasContainer {
		data.Container = strings.Join(containerSizes, " ")
	}

	buf := &bytes.Buffer{}
	if err := htmlTemplate.Execute(buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type manifestIcon struct {
	Src   string `json:"src"`
	Sizes string `json:"sizes"`
	Type  string `json:"type"`
}

type manifest struct {
	Name            string         `json:"name"`
	ShortName       string         `json:"short_name"`
	Icons           []manifestIcon `json:"icons"`
	ThemeColor      string         `json:"theme_color,omitempty"`
	BackgroundColor string         `json:"background_color,omitempty"`
	Display         string         `json:"display"`
}

// renderManifest returns a web app manifest listing the Android Chrome and
// manifest purpose PNGs. The icons list is empty, not absent, if there are
// none.
func renderManifest(specs []RenditionSpec, site *Site) ([]byte, error) {
	prefix := pathPrefix(site)
	m := manifest{
		Name:            site.Name,
		ShortName:       site.ShortName,
		Icons:           []manifestIcon{},
		ThemeColor:      site.ThemeColor,
		BackgroundColor: site.BackgroundColor,
		Display:         site.Display,
	}
	if m.Display == "" {
		m.Display = "standalone"
	}
	for _, s := range specs {
		if s.EmitPNG && s.Purpose.inManifest() {
			m.Icons = append(m.Icons, manifestIcon{
				Src:   prefix + s.PNGName(),
				Sizes: sizesAttr(s.Size),
				Type:  "image/png",
			})
		}
	}
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}
