package engine

import (
	"strings"

	"moodmixserver.com/m/v2/internal/catalog"
)

// Pool is the request-scoped working set for one aggregation call:
// insertion-ordered, size-bounded, deduplicated by normalized track
// name plus lead artist. First writer for a key wins.
type Pool struct {
	limit  int
	seen   map[string]struct{}
	tracks []*catalog.Track
}

func NewPool(limit int) *Pool {
	return &Pool{
		limit: limit,
		seen:  make(map[string]struct{}),
	}
}

// poolKey identifies a track by what a listener would consider the
// same song: normalized title plus lead artist. This also folds
// together re-releases that carry different catalog IDs.
func poolKey(track *catalog.Track) string {
	return normalizeName(track.Name) + "|" + normalizeName(track.FirstArtistName())
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Add inserts the track unless the pool is full or already holds its
// key. Reports whether the track was inserted.
func (p *Pool) Add(track *catalog.Track) bool {
	if track == nil || track.Name == "" || p.Full() {
		return false
	}
	key := poolKey(track)
	if _, dup := p.seen[key]; dup {
		return false
	}
	p.seen[key] = struct{}{}
	p.tracks = append(p.tracks, track)
	return true
}

// Full reports whether the pool cannot take more tracks. A
// non-positive limit means the pool holds nothing at all.
func (p *Pool) Full() bool {
	return len(p.tracks) >= p.limit
}

func (p *Pool) Len() int {
	return len(p.tracks)
}

// Tracks returns the pooled tracks in insertion order.
func (p *Pool) Tracks() []*catalog.Track {
	return p.tracks
}
