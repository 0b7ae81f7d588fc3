// Package extractor pulls playable stream URLs out of third-party player
// embed pages. The embeds carry their configuration as loosely formatted
// JavaScript object literals, so everything here is scoped regex work over
// raw markup, never a full script parse.
package extractor

import (
	"strings"

	"github.com/alvarorichard/goanitube/internal/util"
)

// Extractor recognizes and handles one player vendor's embed markup.
type Extractor interface {
	// Recognizes reports whether this extractor can handle the markup.
	Recognizes(html string) bool
	// Extract returns the stream URL, or "" when the config cannot be
	// read. Malformed payloads are not errors; they yield "".
	Extract(html string) string
}

// Chain tries extractors in a fixed priority order and returns the first
// non-empty result. All-miss is a valid "no URL" outcome, not an error.
type Chain struct {
	extractors []Extractor
}

// NewChain builds the default chain: Tortuga first (the newer player),
// PlayerJS as fallback.
func NewChain() *Chain {
	return &Chain{extractors: []Extractor{
		&TortugaExtractor{},
		&PlayerJSExtractor{},
	}}
}

// Extract runs the chain over one embed page's markup.
func (c *Chain) Extract(html string) string {
	for _, ex := range c.extractors {
		if !ex.Recognizes(html) {
			continue
		}
		if url := ex.Extract(html); url != "" {
			return url
		}
	}
	util.Debug("no extractor in chain produced a URL")
	return ""
}

// normalizeURL promotes protocol-relative URLs to https and strips any
// trailing slash.
func normalizeURL(url string) string {
	if url == "" {
		return url
	}
	if strings.HasPrefix(url, "//") {
		url = "https:" + url
	}
	return strings.TrimRight(url, "/")
}
