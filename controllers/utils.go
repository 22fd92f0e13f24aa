package controllers

import (
	"strings"

	"outfitapi/models"
)

// cleanList lowercases and trims free-text tags, dropping blanks.
func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(strings.ToLower(v)); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// lockMap turns validated lock requests into engine locks. A later lock on the
// same kind wins.
func lockMap(locks []LockIn) map[models.LayerKind]uint {
	if len(locks) == 0 {
		return nil
	}
	out := make(map[models.LayerKind]uint, len(locks))
	for _, l := range locks {
		kind, _ := models.ParseLayerKind(l.Kind)
		out[kind] = l.ItemID
	}
	return out
}
