// Package version parses, orders and resolves Terraform release versions.
//
// Versions are always three numeric components and are ordered component by
// component as integers, so 1.10.0 sorts above 1.9.0.
package version

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/Mullenmaster/terraform-version-manager/internal/core"
)

var versionPattern = regexp.MustCompile(`^([0-9]+)\.([0-9]+)\.([0-9]+)$`)

// Version is a major.minor.patch release identifier.
type Version struct {
	Major int
	Minor int
	Patch int
}

// Parse parses "X.Y.Z" (an optional leading "v" is accepted).
func Parse(s string) (Version, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(s), "v")
	m := versionPattern.FindStringSubmatch(trimmed)
	if m == nil {
		return Version{}, fmt.Errorf("%w: %q (expected X.Y.Z)", core.ErrInvalidVersion, s)
	}

	var parts [3]int
	for i := range parts {
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return Version{}, fmt.Errorf("%w: %q: %v", core.ErrInvalidVersion, s, err)
		}
		parts[i] = n
	}

	return Version{Major: parts[0], Minor: parts[1], Patch: parts[2]}, nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// String returns the X.Y.Z form.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Compare returns -1, 0 or 1.
func (v Version) Compare(o Version) int {
	switch {
	case v.Major != o.Major:
		return cmpInt(v.Major, o.Major)
	case v.Minor != o.Minor:
		return cmpInt(v.Minor, o.Minor)
	default:
		return cmpInt(v.Patch, o.Patch)
	}
}

// Less reports whether v sorts before o.
func (v Version) Less(o Version) bool {
	return v.Compare(o) < 0
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Max returns the greatest parseable version in the list. Entries that do not
// parse are skipped. ok is false when nothing parsed.
func Max(versions []string) (string, bool) {
	var ok bool
	var best Version
	for _, s := range versions {
		v, err := Parse(s)
		if err != nil {
			continue
		}
		if !ok || best.Less(v) {
			best = v
			ok = true
		}
	}
	if !ok {
		return "", false
	}
	return best.String(), true
}

// SortDescending sorts version strings newest first. Unparseable entries go last
// in their original relative order.
func SortDescending(versions []string) {
	sort.SliceStable(versions, func(i, j int) bool {
		a, errA := Parse(versions[i])
		b, errB := Parse(versions[j])
		switch {
		case errA != nil:
			return false
		case errB != nil:
			return true
		default:
			return b.Less(a)
		}
	})
}

// IsLatest reports whether s is the "latest" sentinel.
func IsLatest(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), core.LatestVersion)
}
