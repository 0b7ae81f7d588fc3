package extractor

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/alvarorichard/goanitube/internal/util"
)

// qualityPattern parses one "[720p]url" segment; the URL runs until the
// next comma or bracket.
var qualityPattern = regexp.MustCompile(`\[(\d+)p?\]([^,\[\]]+)`)

// BestQuality picks the highest-resolution variant out of a multi-quality
// encoded file value ("[360p]a,[720p]b,[1080p]c"). A bare URL passes
// through unchanged, as does anything with brackets the pattern cannot
// read (unsupported format, not a failure).
func BestQuality(fileValue string) string {
	if fileValue == "" {
		return fileValue
	}
	if !strings.Contains(fileValue, "[") || !strings.Contains(fileValue, "]") {
		return fileValue
	}

	matches := qualityPattern.FindAllStringSubmatch(fileValue, -1)
	if len(matches) == 0 {
		return fileValue
	}

	sort.SliceStable(matches, func(i, j int) bool {
		qi, _ := strconv.Atoi(matches[i][1])
		qj, _ := strconv.Atoi(matches[j][1])
		return qi > qj
	})

	best := matches[0]
	util.Debugf("selected %sp quality from %d options", best[1], len(matches))
	return strings.TrimRight(best[2], "/")
}
