// Package identity provides SBOL identifiers: typed URIs with compact and
// persistent identity and optional versions.
//
// A compliant identifier has the form
//
//	prefix + seg1/seg2/.../segN [+ "/" + version]
//
// where the persistent identity is the URI without its version and the
// display ID is the last segment. Identifiers compare equal iff their
// normalized URI strings are equal.
package identity

import (
	"fmt"
	"strings"
)

// Identifier is an immutable SBOL identity. The zero value is the empty
// identifier and is not a valid graph key.
type Identifier struct {
	prefix   string
	segments []string
	version  string
}

// New builds a compliant identifier under namespace. The namespace should
// end in "/" or "#"; a "/" is appended otherwise.
func New(namespace, version string, segments ...string) (Identifier, error) {
	namespace = strings.TrimSpace(namespace)
	if namespace == "" {
		return Identifier{}, fmt.Errorf("identifier namespace is required")
	}
	if len(segments) == 0 {
		return Identifier{}, fmt.Errorf("identifier needs at least one display ID")
	}
	for _, s := range segments {
		if !IsDisplayID(s) {
			return Identifier{}, fmt.Errorf("invalid display ID %q", s)
		}
	}
	if version != "" {
		if _, err := ParseVersion(version); err != nil {
			return Identifier{}, err
		}
	}
	namespace = lowerAuthority(namespace)
	if !strings.HasSuffix(namespace, "/") && !strings.HasSuffix(namespace, "#") {
		namespace += "/"
	}
	return Identifier{
		prefix:   namespace,
		segments: append([]string(nil), segments...),
		version:  version,
	}, nil
}

// MustNew is like New but panics on error. Intended for fixtures.
func MustNew(namespace, version string, segments ...string) Identifier {
	id, err := New(namespace, version, segments...)
	if err != nil {
		panic(err)
	}
	return id
}

// Parse returns an opaque identifier for uri. Opaque identifiers have no
// display ID or version; their persistent identity is the URI itself.
func Parse(uri string) Identifier {
	return Identifier{prefix: Normalize(uri)}
}

// FromParts reconstructs a structured identifier from a URI and the SBOL
// identity properties stored alongside it. When the parts do not agree with
// uri the result is opaque.
func FromParts(uri, persistentID, displayID, version string) Identifier {
	uri = Normalize(uri)
	persistentID = Normalize(persistentID)
	if persistentID == "" || displayID == "" {
		return Identifier{prefix: uri}
	}
	expected := persistentID
	if version != "" {
		expected += "/" + version
	}
	if expected != uri || !IsDisplayID(displayID) || !strings.HasSuffix(persistentID, displayID) {
		return Identifier{prefix: uri}
	}
	if version != "" && !IsValidVersion(version) {
		return Identifier{prefix: uri}
	}
	prefix := persistentID[:len(persistentID)-len(displayID)]
	if !strings.HasSuffix(prefix, "/") && !strings.HasSuffix(prefix, "#") {
		return Identifier{prefix: uri}
	}
	return Identifier{
		prefix:   prefix,
		segments: []string{displayID},
		version:  version,
	}
}

// Normalize trims uri, lowercases its scheme and host and drops a trailing
// slash.
func Normalize(uri string) string {
	uri = strings.TrimSpace(uri)
	if uri == "" {
		return ""
	}
	uri = lowerAuthority(uri)
	if len(uri) > 1 {
		uri = strings.TrimSuffix(uri, "/")
	}
	return uri
}

// lowerAuthority lowercases the scheme and host of an absolute URI, leaving
// path, query and fragment untouched.
func lowerAuthority(uri string) string {
	i := strings.Index(uri, "://")
	if i <= 0 {
		return uri
	}
	rest := uri[i+3:]
	end := strings.IndexAny(rest, "/?#")
	if end < 0 {
		end = len(rest)
	}
	return strings.ToLower(uri[:i+3]) + strings.ToLower(rest[:end]) + rest[end:]
}

// String returns the normalized URI.
func (id Identifier) String() string {
	if len(id.segments) == 0 {
		return id.prefix
	}
	s := id.PersistentIdentity()
	if id.version != "" {
		s += "/" + id.version
	}
	return s
}

// Key returns the map key for id.
func (id Identifier) Key() string { return id.String() }

// Equal reports whether id and other name the same entity.
func (id Identifier) Equal(other Identifier) bool {
	return id.String() == other.String()
}

// IsZero reports whether id is the empty identifier.
func (id Identifier) IsZero() bool { return id.String() == "" }

// IsCompliant reports whether id was built from display IDs rather than
// parsed from an opaque URI.
func (id Identifier) IsCompliant() bool { return len(id.segments) > 0 }

// Namespace returns the prefix the segments hang off.
func (id Identifier) Namespace() string {
	if !id.IsCompliant() {
		return ""
	}
	return id.prefix
}

// Segments returns a copy of the local path segments.
func (id Identifier) Segments() []string {
	return append([]string(nil), id.segments...)
}

// DisplayID returns the last segment, or "" for opaque identifiers.
func (id Identifier) DisplayID() string {
	if len(id.segments) == 0 {
		return ""
	}
	return id.segments[len(id.segments)-1]
}

// Version returns the version, or "".
func (id Identifier) Version() string { return id.version }

// PersistentIdentity returns the URI without its version.
func (id Identifier) PersistentIdentity() string {
	if len(id.segments) == 0 {
		return id.prefix
	}
	return id.prefix + strings.Join(id.segments, "/")
}

// Child derives the compliant identifier of a child entity.
func (id Identifier) Child(displayID string) (Identifier, error) {
	if !id.IsCompliant() {
		return Identifier{}, fmt.Errorf("cannot derive child of non-compliant identifier %s", id)
	}
	if !IsDisplayID(displayID) {
		return Identifier{}, fmt.Errorf("invalid display ID %q", displayID)
	}
	segs := make([]string, 0, len(id.segments)+1)
	segs = append(segs, id.segments...)
	segs = append(segs, displayID)
	return Identifier{prefix: id.prefix, segments: segs, version: id.version}, nil
}

// WithVersion returns a copy of id carrying version.
func (id Identifier) WithVersion(version string) (Identifier, error) {
	if !id.IsCompliant() {
		return Identifier{}, fmt.Errorf("cannot version non-compliant identifier %s", id)
	}
	if version != "" {
		if _, err := ParseVersion(version); err != nil {
			return Identifier{}, err
		}
	}
	return Identifier{prefix: id.prefix, segments: id.Segments(), version: version}, nil
}

// IsChildOf reports whether id is a compliant child URI of parent: the
// parent's persistent identity plus one segment, sharing the version.
func (id Identifier) IsChildOf(parent Identifier) bool {
	if !id.IsCompliant() || !parent.IsCompliant() {
		return false
	}
	if id.version != parent.version {
		return false
	}
	return id.PersistentIdentity() == parent.PersistentIdentity()+"/"+id.DisplayID()
}

// IsDisplayID reports whether s is a valid SBOL display ID: an alphanumeric
// or underscore string not starting with a digit.
func IsDisplayID(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
