package models

import "strings"

// Country is a tournament entrant loaded from the catalog. It is immutable once loaded.
type Country struct {
	Name   string `json:"name"`
	Emblem string `json:"emoji"`
	Flag   string `json:"flag"`
}

// NormalizeFlagPath rewrites Windows path separators in a flag reference.
func NormalizeFlagPath(ref string) string {
	return strings.ReplaceAll(ref, "\\", "/")
}

// Catalog is the on-disk roster format.
type Catalog struct {
	Countries []Country `json:"countries"`
}
