// Package playlist reconstructs the voice/player/episode hierarchy from the
// flat item list of an anitube playlist fragment. The only structural signal
// in the markup is the underscore-delimited data-id path of each item, so
// everything here works off segment depth and segment-aware prefixes.
package playlist

import (
	"strings"

	"github.com/alvarorichard/goanitube/internal/models"
)

// Depth returns the number of path segments of a data-id ("0_0_1" -> 3).
func Depth(id string) int {
	return len(strings.Split(id, models.PathSeparator))
}

// Under reports whether id equals parent or sits below it in the tree.
// Matching is segment-aware: "0_1" is not an ancestor of "0_10".
func Under(id, parent string) bool {
	return id == parent || strings.HasPrefix(id, parent+models.PathSeparator)
}

// IsDirectChild reports whether child is exactly one level below parent.
func IsDirectChild(parent, child string) bool {
	return strings.HasPrefix(child, parent+models.PathSeparator) &&
		Depth(child) == Depth(parent)+1
}

// ChildrenOf returns the direct children of parent, in input order.
func ChildrenOf(items []models.PlaylistItem, parent string) []models.PlaylistItem {
	var children []models.PlaylistItem
	for _, item := range items {
		if IsDirectChild(parent, item.ID) {
			children = append(children, item)
		}
	}
	return children
}

// Truncate cuts an id down to its first depth segments. Ids shorter than
// depth are returned unchanged.
func Truncate(id string, depth int) string {
	parts := strings.Split(id, models.PathSeparator)
	if len(parts) <= depth {
		return id
	}
	return strings.Join(parts[:depth], models.PathSeparator)
}

// MaxDepth returns the greatest depth present in the item set.
func MaxDepth(items []models.PlaylistItem) int {
	maxDepth := 0
	for _, item := range items {
		if item.Depth > maxDepth {
			maxDepth = item.Depth
		}
	}
	return maxDepth
}
