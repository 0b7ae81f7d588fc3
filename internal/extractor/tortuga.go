package extractor

import (
	"encoding/base64"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/alvarorichard/goanitube/internal/util"
)

// tortugaFilePattern captures the file property inside the constructor
// call. The markup is not valid JavaScript often enough to parse properly,
// so the match is scoped to the constructor instead.
var tortugaFilePattern = regexp.MustCompile(
	`new\s+TortugaCore\s*\(\s*\{[^}]*file\s*:\s*["']([^"']+)["']`)

// TortugaExtractor handles the Tortuga player embed, which obfuscates its
// stream URL as base64 of the reversed string.
type TortugaExtractor struct{}

func (e *TortugaExtractor) Recognizes(html string) bool {
	return strings.Contains(html, "TortugaCore")
}

func (e *TortugaExtractor) Extract(html string) string {
	match := tortugaFilePattern.FindStringSubmatch(html)
	if match == nil {
		util.Debug("no TortugaCore file pattern found")
		return ""
	}

	decoded, err := base64.StdEncoding.DecodeString(match[1])
	if err != nil {
		util.Warnf("failed to decode Tortuga file payload: %v", err)
		return ""
	}
	if !utf8.Valid(decoded) {
		util.Warn("Tortuga file payload is not valid UTF-8")
		return ""
	}

	return normalizeURL(reverseString(string(decoded)))
}

func reverseString(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}
