package identity

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var versionRe = regexp.MustCompile(`^(0|[1-9][0-9]*)\.(0|[1-9][0-9]*)\.(0|[1-9][0-9]*)(?:-([0-9A-Za-z]+(?:\.[0-9A-Za-z]+)*))?$`)

// Version is a parsed major.minor.patch version with an optional
// prerelease tag.
type Version struct {
	Major      int
	Minor      int
	Patch      int
	Prerelease string
}

// VersionError reports a version string outside the major.minor.patch
// grammar.
type VersionError struct {
	Value string
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("invalid version %q: expected major.minor.patch", e.Value)
}

// ParseVersion parses s. Leading zeros in numeric parts are rejected.
func ParseVersion(s string) (Version, error) {
	m := versionRe.FindStringSubmatch(s)
	if m == nil {
		return Version{}, &VersionError{Value: s}
	}
	var v Version
	var err error
	if v.Major, err = strconv.Atoi(m[1]); err != nil {
		return Version{}, &VersionError{Value: s}
	}
	if v.Minor, err = strconv.Atoi(m[2]); err != nil {
		return Version{}, &VersionError{Value: s}
	}
	if v.Patch, err = strconv.Atoi(m[3]); err != nil {
		return Version{}, &VersionError{Value: s}
	}
	v.Prerelease = m[4]
	return v, nil
}

// IsValidVersion reports whether s follows the version grammar.
func IsValidVersion(s string) bool {
	_, err := ParseVersion(s)
	return err == nil
}

// String formats v back to its canonical form.
func (v Version) String() string {
	s := fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	if v.Prerelease != "" {
		s += "-" + v.Prerelease
	}
	return s
}

// Compare returns -1, 0 or 1. A release sorts after any of its prereleases;
// prerelease tags compare field by field, numerically where both are numbers.
func (v Version) Compare(o Version) int {
	if c := cmpInt(v.Major, o.Major); c != 0 {
		return c
	}
	if c := cmpInt(v.Minor, o.Minor); c != 0 {
		return c
	}
	if c := cmpInt(v.Patch, o.Patch); c != 0 {
		return c
	}
	switch {
	case v.Prerelease == o.Prerelease:
		return 0
	case v.Prerelease == "":
		return 1
	case o.Prerelease == "":
		return -1
	}
	a := strings.Split(v.Prerelease, ".")
	b := strings.Split(o.Prerelease, ".")
	for i := 0; i < len(a) && i < len(b); i++ {
		ai, aErr := strconv.Atoi(a[i])
		bi, bErr := strconv.Atoi(b[i])
		if aErr == nil && bErr == nil {
			if c := cmpInt(ai, bi); c != 0 {
				return c
			}
			continue
		}
		if c := strings.Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return cmpInt(len(a), len(b))
}

// IsNewer reports whether version a is strictly newer than b. Unparseable
// versions are never newer.
func IsNewer(a, b string) bool {
	va, err := ParseVersion(a)
	if err != nil {
		return false
	}
	vb, err := ParseVersion(b)
	if err != nil {
		return false
	}
	return va.Compare(vb) > 0
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
