package core

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var nonSlugRegex = regexp.MustCompile(`[^a-z0-9]+`)

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// Slugify lowers `s` and replaces every run of non-alphanumeric characters with a dash.
func Slugify(s string) string {
	s = nonSlugRegex.ReplaceAllString(CleanString(s, true /* lower */), "-")
	return strings.Trim(s, "-")
}

// getwd returns the project root: the closest parent directory holding a go.mod.
// go test runs from the package directory, so os.Getwd alone is not enough.
// Falls back to the current working directory.
func getwd() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	currDir := wd
	for {
		if _, err := os.Stat(filepath.Join(currDir, "go.mod")); err == nil {
			return currDir
		}
		newDir := filepath.Dir(currDir)
		if newDir == currDir {
			return wd
		}
		currDir = newDir
	}
}
