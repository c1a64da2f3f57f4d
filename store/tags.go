// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import "strings"

// ParseTagNames splits a comma-separated tag list. Names are trimmed, empty
// names are dropped and repeats collapse onto the first occurrence.
func ParseTagNames(raw string) []string {
	seen := make(map[string]bool)
	names := []string{}
	for _, part := range strings.Split(raw, ",") {
		name := strings.TrimSpace(part)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}
