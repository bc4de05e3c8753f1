package engine

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"moodmixserver.com/m/v2/internal/catalog"
)

var (
	shuffleMu   sync.Mutex
	shuffleRand = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// mergeKey prefers the stable identifier; tracks that never resolved
// one fall back to lowercased name plus the joined artist list.
func mergeKey(track *catalog.Track) string {
	if track.Id != "" {
		return "id:" + track.Id
	}
	names := make([]string, 0, len(track.Artists))
	for _, artist := range track.Artists {
		if artist != nil {
			names = append(names, artist.Name)
		}
	}
	return "name:" + strings.ToLower(track.Name+"|"+strings.Join(names, "|"))
}

// MergeShuffle concatenates the lists in call order, drops duplicates
// (first occurrence wins, fields never overwritten), applies a uniform
// random permutation, and truncates to limit. A non-positive limit
// yields nothing.
func MergeShuffle(lists [][]*catalog.Track, limit int) []*catalog.Track {
	if limit <= 0 {
		return nil
	}
	seen := make(map[string]struct{})
	var merged []*catalog.Track
	for _, list := range lists {
		for _, track := range list {
			if track == nil {
				continue
			}
			key := mergeKey(track)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, track)
		}
	}

	shuffleMu.Lock()
	shuffleRand.Shuffle(len(merged), func(i, j int) {
		merged[i], merged[j] = merged[j], merged[i]
	})
	shuffleMu.Unlock()

	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}
