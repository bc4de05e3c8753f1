package engine

import (
	"go.uber.org/zap"

	"moodmixserver.com/m/v2/internal/catalog"
)

// LabeledTrack is a pooled track together with its mood labels.
type LabeledTrack struct {
	Track *catalog.Track
	Moods []Mood
}

// EnforceBalance guarantees every mood in moodList appears on at least
// minPer entries of the batch (or as many as the batch can hold).
// Deterministic: moods are visited in their given stable order, the
// batch in its original order, and labels are only ever added: an
// entry may be augmented by more than one pass, and no label is ever
// removed.
func EnforceBalance(batch []*LabeledTrack, moodList []Mood, minPer int) []*LabeledTrack {
	counts := make(map[Mood]int, len(moodList))
	for _, entry := range batch {
		for _, mood := range entry.Moods {
			counts[mood]++
		}
	}

	for _, mood := range moodList {
		if counts[mood] >= minPer {
			continue
		}
		for _, entry := range batch {
			if counts[mood] >= minPer {
				break
			}
			if ContainsMood(entry.Moods, mood) {
				continue
			}
			entry.Moods = append(entry.Moods, mood)
			counts[mood]++
		}
		if counts[mood] < minPer {
			logger.Debug("Batch too small to balance mood",
				zap.String("mood", string(mood)),
				zap.Int("count", counts[mood]),
				zap.Int("minPer", minPer))
		}
	}

	return batch
}
