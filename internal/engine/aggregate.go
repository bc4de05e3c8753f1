package engine

import (
	"go.uber.org/zap"

	"moodmixserver.com/m/v2/internal/catalog"
)

const (
	similarPerSeed  = 10
	tracksPerArtist = 5
)

// Aggregator assembles a bounded, deduplicated set of candidate tracks
// for one mood through three progressively broader phases. Later
// phases only run when earlier ones under-deliver.
type Aggregator struct {
	catalog    Catalog
	classifier *Classifier
	metrics    *Metrics
}

func NewAggregator(cat Catalog, classifier *Classifier) *Aggregator {
	return &Aggregator{catalog: cat, classifier: classifier}
}

// WithMetrics attaches prometheus counters. Safe to skip in tests.
func (a *Aggregator) WithMetrics(m *Metrics) *Aggregator {
	a.metrics = m
	return a
}

// Aggregate returns up to limit unique tracks for the mood, in
// insertion order. Upstream failures inside a phase contribute zero
// results and never abort the call.
func (a *Aggregator) Aggregate(seeds []*catalog.Artist, mood Mood, limit int) []*catalog.Track {
	pool := NewPool(limit)

	a.phaseSimilar(pool, seeds, mood)
	if !pool.Full() {
		a.phaseSeedDirect(pool, seeds)
	}
	if !pool.Full() {
		a.phaseTagBroadened(pool, mood)
	}

	logger.Debug("Aggregation complete",
		zap.String("mood", string(mood)),
		zap.Int("seeds", len(seeds)),
		zap.Int("limit", limit),
		zap.Int("pooled", pool.Len()))
	return pool.Tracks()
}

// phaseSimilar expands each seed into its similar artists, keeps the
// ones classified under the requested mood, and pools their top
// tracks. Stops the moment the pool fills.
func (a *Aggregator) phaseSimilar(pool *Pool, seeds []*catalog.Artist, mood Mood) {
	for _, seed := range seeds {
		if pool.Full() {
			return
		}
		name, ok := seedName(seed)
		if !ok {
			continue
		}

		similar, err := a.catalog.SimilarArtists(name, similarPerSeed)
		if err != nil {
			logger.Warn("Similar-artist lookup failed, skipping seed",
				zap.String("seed", name), zap.Error(err))
			continue
		}

		for _, similarName := range similar {
			if pool.Full() {
				return
			}
			moods := a.classifier.Classify(&catalog.Artist{Name: similarName})
			if !ContainsMood(moods, mood) {
				continue
			}
			a.poolArtistTracks(pool, similarName)
		}
	}
	if a.metrics != nil {
		a.metrics.PhaseFills.WithLabelValues("similar").Add(float64(pool.Len()))
	}
}

// phaseSeedDirect pools the seeds' own top tracks, with no mood
// filter.
func (a *Aggregator) phaseSeedDirect(pool *Pool, seeds []*catalog.Artist) {
	before := pool.Len()
	for _, seed := range seeds {
		if pool.Full() {
			break
		}
		name, ok := seedName(seed)
		if !ok {
			continue
		}
		a.poolArtistTracks(pool, name)
	}
	if a.metrics != nil {
		a.metrics.PhaseFills.WithLabelValues("seed-direct").Add(float64(pool.Len() - before))
	}
}

// phaseTagBroadened maps the mood to broader tags and pools top tracks
// from each tag's top artists.
func (a *Aggregator) phaseTagBroadened(pool *Pool, mood Mood) {
	before := pool.Len()
	tags, ok := broaderTags[mood]
	if !ok {
		// Unrecognized moods still yield candidates.
		tags = defaultBroaderTags
	}

	for _, tag := range tags {
		if pool.Full() {
			break
		}
		names, err := a.catalog.TopArtistsByTag(tag, similarPerSeed)
		if err != nil {
			logger.Warn("Tag top-artist lookup failed, skipping tag",
				zap.String("tag", tag), zap.Error(err))
			continue
		}
		for _, name := range names {
			if pool.Full() {
				break
			}
			a.poolArtistTracks(pool, name)
		}
	}
	if a.metrics != nil {
		a.metrics.PhaseFills.WithLabelValues("tag-broadened").Add(float64(pool.Len() - before))
	}
}

func (a *Aggregator) poolArtistTracks(pool *Pool, artistName string) {
	tracks, err := a.catalog.ArtistTopTracks(artistName, tracksPerArtist)
	if err != nil {
		logger.Warn("Top-track lookup failed, skipping artist",
			zap.String("artist", artistName), zap.Error(err))
		return
	}
	for _, track := range tracks {
		if pool.Full() {
			return
		}
		pool.Add(track)
	}
}

// seedName resolves a seed to a usable non-empty name, synthesizing a
// placeholder from the identifier when the name never resolved. A seed
// with neither is unusable and skipped.
func seedName(seed *catalog.Artist) (string, bool) {
	if seed == nil {
		return "", false
	}
	if seed.Name != "" {
		return seed.Name, true
	}
	if seed.Id != "" {
		return "artist:" + seed.Id, true
	}
	return "", false
}
