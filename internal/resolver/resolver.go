// Package resolver derives every path form used by the store from a logical
// identifier. Resolution is pure: no I/O, no state, and it cannot fail for a
// non-empty identifier.
package resolver

import (
	"crypto/sha1"
	"encoding/hex"
	"path/filepath"
	"regexp"
	"strings"
)

// Kind classifies an identifier before resolution.
type Kind int

const (
	// KindRaw is an arbitrary caller-supplied identifier. Its digest is
	// computed by hashing the identifier string.
	KindRaw Kind = iota

	// KindCanonical is an identifier that already has the shape this package
	// produces: a 40-character hex digest with an optional extension. It is
	// trusted and reused verbatim, never re-hashed or verified against
	// stored content.
	KindCanonical
)

// canonicalPattern matches a digest-with-optional-extension tail. Anchored
// at the end only: an identifier whose tail is canonical resolves to that
// tail.
var canonicalPattern = regexp.MustCompile(`[0-9a-f]{40}(?:\.\w{1,20})?$`)

// Sharding layout: the leading 12 digest characters become six two-character
// directory segments. A SHA-1 digest is 40 characters, so the segments
// always exist.
const (
	shardLevels = 6
	shardWidth  = 2
)

// PathSet is the full set of derived paths for one identifier. It is
// computed fresh on every call; nothing is cached between calls.
//
// Example for identifier "someIdTest.txt" with root "/data" and prefix
// "http://host.com/uploads/":
//
//	ContentDigest:       "5c2293360e41ffc8d1b33b442f75dc0b328f4146.txt"
//	ShardSegments:       "5c/22/93/36/0e/41"
//	AbsoluteStoragePath: "/data/5c/22/93/36/0e/41/5c2293360e41...4146.txt"
//	PublicShortPath:     "http://host.com/uploads/5c2293360e41...4146.txt"
type PathSet struct {
	// ContentDigest is the sharding key: the SHA-1 hex digest of a raw
	// identifier plus the identifier's original extension, or a canonical
	// identifier verbatim.
	ContentDigest string

	// ShardSegments is the leading digest characters as slash-joined
	// two-character directory segments, e.g. "5c/22/93/36/0e/41".
	ShardSegments string

	// ShardRelativePath locates the file relative to the storage root.
	ShardRelativePath string

	// AbsoluteStoragePath is the real on-disk location.
	AbsoluteStoragePath string

	// ShardRootPath is the directory chain that must exist before a write.
	ShardRootPath string

	// PublicLongPath is the public prefix plus ShardRelativePath.
	PublicLongPath string

	// PublicShortPath is the public prefix plus ContentDigest. Feeding it
	// back in (stripped of the prefix) resolves to the same
	// AbsoluteStoragePath as the original identifier.
	PublicShortPath string
}

// Classify reports whether an identifier is already canonical.
func Classify(identifier string) Kind {
	if canonicalPattern.MatchString(identifier) {
		return KindCanonical
	}
	return KindRaw
}

// Ext returns the identifier's extension: the substring from the last dot
// to the end, or empty when there is no dot. Unlike filepath.Ext it ignores
// path separators, so "some:uniq/id.txt" and "id.txt" agree.
func Ext(identifier string) string {
	if i := strings.LastIndex(identifier, "."); i >= 0 {
		return identifier[i:]
	}
	return ""
}

// Resolve maps an identifier to its PathSet. storageRoot anchors the
// on-disk paths; publicPrefix is prepended verbatim (no separator inserted)
// to the public forms. Equal inputs always yield an identical PathSet.
func Resolve(identifier, storageRoot, publicPrefix string) PathSet {
	digest := contentDigest(identifier)

	segments := make([]string, shardLevels)
	for i := range segments {
		segments[i] = digest[i*shardWidth : (i+1)*shardWidth]
	}
	shard := strings.Join(segments, "/")
	relative := shard + "/" + digest

	return PathSet{
		ContentDigest:       digest,
		ShardSegments:       shard,
		ShardRelativePath:   relative,
		AbsoluteStoragePath: filepath.Join(storageRoot, filepath.FromSlash(relative)),
		ShardRootPath:       filepath.Join(storageRoot, filepath.FromSlash(shard)),
		PublicLongPath:      publicPrefix + relative,
		PublicShortPath:     publicPrefix + digest,
	}
}

// contentDigest returns a canonical tail verbatim, or hashes the full raw
// identifier string and appends the identifier's extension.
func contentDigest(identifier string) string {
	if m := canonicalPattern.FindString(identifier); m != "" {
		return m
	}
	sum := sha1.Sum([]byte(identifier))
	return hex.EncodeToString(sum[:]) + Ext(identifier)
}
