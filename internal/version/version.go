// Package version resolves the release version for a packaging run.
// The version lives in a single file (one line, no validation of shape);
// every downstream path name derives from it, so a missing or empty file
// fails immediately rather than producing a malformed release path.
package version

import (
	"fmt"
	"os"
	"strings"
)

// Version is the release version string for one pipeline run.
// Any non-empty string read from the version file is accepted verbatim.
type Version string

// Tag returns the canonical release tag ("v" + version) that keys the
// release directory and the git tag printed by the publisher.
func (v Version) Tag() string {
	return "v" + string(v)
}

// String returns the bare version string.
func (v Version) String() string {
	return string(v)
}

// Resolve reads the version from the file at path. The first line is
// trimmed of surrounding whitespace; an unreadable file or an empty
// result is an error.
func Resolve(path string) (Version, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading version file %s: %w", path, err)
	}
	s := strings.TrimSpace(string(data))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	if s == "" {
		return "", fmt.Errorf("version file %s is empty", path)
	}
	return Version(s), nil
}
