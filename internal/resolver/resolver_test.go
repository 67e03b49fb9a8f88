package resolver

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	testDigest = "5c2293360e41ffc8d1b33b442f75dc0b328f4146" // sha1("someIdTest.txt")
	testPrefix = "http://host.com/uploads/"
)

func TestResolveKnownVector(t *testing.T) {
	ps := Resolve("someIdTest.txt", "/data", testPrefix)

	require.Equal(t, testDigest+".txt", ps.ContentDigest)
	require.Equal(t, "5c/22/93/36/0e/41", ps.ShardSegments)
	require.Equal(t, "5c/22/93/36/0e/41/"+testDigest+".txt", ps.ShardRelativePath)
	require.Equal(t, "/data/5c/22/93/36/0e/41/"+testDigest+".txt", ps.AbsoluteStoragePath)
	require.Equal(t, "/data/5c/22/93/36/0e/41", ps.ShardRootPath)
	require.Equal(t, testPrefix+"5c/22/93/36/0e/41/"+testDigest+".txt", ps.PublicLongPath)
	require.Equal(t, testPrefix+testDigest+".txt", ps.PublicShortPath)
}

func TestResolveDeterministic(t *testing.T) {
	for _, id := range []string{
		"someIdTest.txt",
		"some:uniq:id:to-this-file.txt",
		"no-extension",
		"weird/../id with spaces.tar.gz",
	} {
		first := Resolve(id, "data", testPrefix)
		second := Resolve(id, "data", testPrefix)
		require.Equal(t, first, second, "identifier %q", id)
	}
}

func TestResolveShardWidth(t *testing.T) {
	ids := []string{
		"a",
		"someIdTest.txt",
		"ünïcode-ident.png",
		strings.Repeat("x", 4096),
		testDigest,
		testDigest + ".jpeg",
	}
	for _, id := range ids {
		ps := Resolve(id, "data", "")
		segments := strings.Split(ps.ShardSegments, "/")
		require.Len(t, segments, 6, "identifier %q", id)
		for _, seg := range segments {
			require.Len(t, seg, 2, "identifier %q", id)
		}
		require.Equal(t, ps.ShardSegments, strings.Join(segments, "/"))
	}
}

func TestResolveCanonicalPassThrough(t *testing.T) {
	for _, id := range []string{
		testDigest,
		testDigest + ".txt",
		testDigest + ".a",
		testDigest + ".with_20_characters_",
	} {
		ps := Resolve(id, "data", "")
		require.Equal(t, id, ps.ContentDigest, "canonical identifier must not be re-hashed")
	}
}

func TestResolveCanonicalTail(t *testing.T) {
	// Only the canonical tail is kept; everything before it is discarded.
	ps := Resolve("assets/"+testDigest+".txt", "data", "")
	require.Equal(t, testDigest+".txt", ps.ContentDigest)
}

func TestResolveShortPathRoundTrip(t *testing.T) {
	for _, id := range []string{
		"someIdTest.txt",
		"some:uniq:id:to-this-file.txt",
		"no-extension",
	} {
		original := Resolve(id, "data", testPrefix)
		short := strings.TrimPrefix(original.PublicShortPath, testPrefix)
		reresolved := Resolve(short, "data", testPrefix)
		require.Equal(t, original.AbsoluteStoragePath, reresolved.AbsoluteStoragePath, "identifier %q", id)
	}
}

func TestResolveRawWithoutExtension(t *testing.T) {
	ps := Resolve("no-extension", "data", "")
	require.Equal(t, "05eccda928be5919873f4f15c38040488518f3ea", ps.ContentDigest)
	require.NotContains(t, ps.ContentDigest, ".")
}

func TestClassify(t *testing.T) {
	tests := []struct {
		identifier string
		want       Kind
	}{
		{"someIdTest.txt", KindRaw},
		{"some:uniq:id:to-this-file.txt", KindRaw},
		{testDigest, KindCanonical},
		{testDigest + ".txt", KindCanonical},
		{"prefix-" + testDigest, KindCanonical}, // suffix-anchored match
		{strings.ToUpper(testDigest), KindRaw},  // uppercase hex is not canonical
		{testDigest + ".extension-with-dash", KindRaw},
		{testDigest[:39], KindRaw},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, Classify(tt.identifier), "identifier %q", tt.identifier)
	}
}

func TestExt(t *testing.T) {
	require.Equal(t, ".txt", Ext("someIdTest.txt"))
	require.Equal(t, ".gz", Ext("archive.tar.gz"))
	require.Equal(t, ".txt", Ext("some:uniq/id.txt"))
	require.Equal(t, "", Ext("no-extension"))
	require.Equal(t, ".", Ext("trailing-dot."))
}
