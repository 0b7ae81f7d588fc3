package extractor

import (
	"encoding/json"
	"regexp"

	"strings"

	"github.com/alvarorichard/goanitube/internal/util"
)

var (
	// Single-object pattern first: most configs have no nested braces.
	playerjsConfigPattern = regexp.MustCompile(`Playerjs\s*\(\s*(\{[^}]+\})\s*\)`)
	// Greedy fallback for configs that legitimately contain nested braces.
	playerjsConfigGreedy = regexp.MustCompile(`(?s)Playerjs\s*\(\s*(\{.*\})\s*\)`)

	// Direct capture of the file field, tolerant of either quote kind.
	playerjsFilePattern = regexp.MustCompile(`file["']?\s*:\s*["']([^"']+)["']`)

	// Quote normalization for the structured fallback: keys and simple
	// scalar values only, so apostrophes inside strings survive.
	singleQuotedKey   = regexp.MustCompile(`'(\w+)'(\s*:)`)
	singleQuotedValue = regexp.MustCompile(`:\s*'([^']*)'`)
	trailingComma     = regexp.MustCompile(`,(\s*[}\]])`)
)

// PlayerJSExtractor handles the PlayerJS embed. Its config object is
// almost-JSON: single quotes, trailing commas, apostrophes inside values.
type PlayerJSExtractor struct{}

func (e *PlayerJSExtractor) Recognizes(html string) bool {
	return strings.Contains(html, "Playerjs")
}

func (e *PlayerJSExtractor) Extract(html string) string {
	configs := e.locateConfigs(html)
	if len(configs) == 0 {
		util.Debug("no Playerjs configuration found")
		return ""
	}

	for _, config := range configs {
		// Regex first: configs routinely carry apostrophes inside string
		// values ("it's"), which break any quote-normalization pass.
		if match := playerjsFilePattern.FindStringSubmatch(config); match != nil {
			return normalizeURL(match[1])
		}
		if file := e.parseConfig(config); file != "" {
			return normalizeURL(file)
		}
	}

	util.Warn("failed to extract file from Playerjs config")
	return ""
}

// locateConfigs returns both capture candidates. The non-greedy match is
// cheap and usually right, but a config with nested braces truncates it,
// so the greedy capture stays as a second candidate.
func (e *PlayerJSExtractor) locateConfigs(html string) []string {
	var configs []string
	if match := playerjsConfigPattern.FindStringSubmatch(html); match != nil {
		configs = append(configs, match[1])
	}
	if match := playerjsConfigGreedy.FindStringSubmatch(html); match != nil && (len(configs) == 0 || match[1] != configs[0]) {
		configs = append(configs, match[1])
	}
	return configs
}

// parseConfig is the structured fallback: cautiously rewrite only the
// quotes wrapping keys and simple scalar values, then read the file field.
func (e *PlayerJSExtractor) parseConfig(config string) string {
	cleaned := singleQuotedKey.ReplaceAllString(config, `"${1}"${2}`)
	cleaned = singleQuotedValue.ReplaceAllString(cleaned, `: "${1}"`)
	cleaned = trailingComma.ReplaceAllString(cleaned, `${1}`)

	var parsed struct {
		File string `json:"file"`
	}
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		util.Debugf("Playerjs config JSON parse failed: %v", err)
		return ""
	}
	return parsed.File
}
