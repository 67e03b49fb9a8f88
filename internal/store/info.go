package store

import (
	"context"
	"mime"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/prn-tf/shardstore/internal/resolver"
)

// FileInfo is on-demand metadata for a stored file. Nothing here is
// persisted; every field is recomputed per call. Size, HumanSize and Mime
// stay unset when no file exists at the resolved path — absence is not an
// error for inspection.
type FileInfo struct {
	ID              string `json:"id"`
	Mime            string `json:"mime,omitempty"`
	Size            *int64 `json:"size,omitempty"`
	HumanSize       string `json:"humanSize,omitempty"`
	LocalPath       string `json:"localPath"`
	ClientPath      string `json:"clientPath"`
	ShortClientPath string `json:"shortClientPath"`
}

// Info reports metadata for the identifier's stored file. Inspection is
// best-effort: any stat failure leaves the size and MIME fields unset
// instead of surfacing an error. That makes permission failures look like
// absence in the result; the underlying cause is logged at debug level.
// Internal storage paths are never exposed here, only the shard-relative
// and public forms.
func (s *Store) Info(ctx context.Context, identifier string) *FileInfo {
	paths := s.resolve(identifier)
	info := &FileInfo{
		ID:              identifier,
		LocalPath:       paths.ShardRelativePath,
		ClientPath:      paths.PublicLongPath,
		ShortClientPath: paths.PublicShortPath,
	}
	if ctx.Err() != nil {
		return info
	}

	st, err := s.fs.Stat(paths.AbsoluteStoragePath)
	if err != nil {
		s.logger.Debug().Err(err).Str("id", identifier).Msg("stat failed during inspection")
		return info
	}

	size := st.Size()
	info.Size = &size
	info.HumanSize = humanize.Bytes(uint64(size))
	info.Mime = MimeType(identifier)
	return info
}

// MimeType returns the media type implied by the identifier's extension,
// or empty when the extension is unknown. Any parameters the platform
// table attaches (charset and friends) are dropped.
func MimeType(identifier string) string {
	mt := mime.TypeByExtension(resolver.Ext(identifier))
	if i := strings.Index(mt, ";"); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	return mt
}
