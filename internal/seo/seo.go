// Package seo builds per-page meta tags and schema.org JSON-LD payloads.
package seo

import (
	"strings"
)

type OpenGraph struct {
	Title       string
	Description string
	Image       string
	Type        string
	URL         string
}

type Meta struct {
	Title       string
	Description string
	Canonical   string
	OG          OpenGraph
}

// NewMeta fills the Open Graph block from the page title and description.
// baseURL may be empty, in which case Canonical stays relative.
func NewMeta(siteName, title, description, baseURL, path, image string) Meta {
	full := title
	if siteName != "" && title != siteName {
		full = title + " | " + siteName
	}
	canonical := Absolute(baseURL, path)
	return Meta{
		Title:       full,
		Description: description,
		Canonical:   canonical,
		OG: OpenGraph{
			Title:       full,
			Description: description,
			Image:       Absolute(baseURL, image),
			Type:        "website",
			URL:         canonical,
		},
	}
}

// Absolute joins a site-relative path onto baseURL.
func Absolute(baseURL, path string) string {
	if path == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if baseURL == "" {
		return path
	}
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(path, "/")
}
