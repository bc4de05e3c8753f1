package engine

import (
	"strings"

	"go.uber.org/zap"

	"moodmixserver.com/m/v2/internal/catalog"
)

// Catalog is the upstream surface the engine consumes. The catalog
// package's Client implements it; tests substitute fakes.
type Catalog interface {
	SimilarArtists(name string, limit int) ([]string, error)
	ArtistTopTracks(nameOrID string, limit int) ([]*catalog.Track, error)
	TopArtistsByTag(tag string, limit int) ([]string, error)
	AudioFeatures(ids []string) (map[string]*catalog.AudioFeatures, error)
}

// TagSource is one independent provider of descriptive tags, tried in
// priority order by the tag tier.
type TagSource interface {
	Name() string
	ArtistTags(name string) ([]string, error)
}

// featureSampleSize is how many representative tracks the feature tier
// averages over.
const featureSampleSize = 3

// Classifier assigns moods to an artist through a degrading chain of
// signal providers: audio features, then tags, then the artist's own
// name, then a deterministic hash. Classify never returns an empty
// set and never fails; a tier that errors or comes back empty simply
// falls through to the next.
type Classifier struct {
	providers []signalProvider
	cache     *MoodCache
	metrics   *Metrics
}

func NewClassifier(cat Catalog, tags []TagSource, cache *MoodCache) *Classifier {
	c := &Classifier{cache: cache}
	c.providers = []signalProvider{
		&featureSignal{catalog: cat},
		&tagSignal{sources: tags},
		&lexicalSignal{},
		&hashSignal{},
	}
	return c
}

// WithMetrics attaches prometheus counters. Safe to skip in tests.
func (c *Classifier) WithMetrics(m *Metrics) *Classifier {
	c.metrics = m
	return c
}

// Classify returns the artist's moods, consulting the cache first.
func (c *Classifier) Classify(artist *catalog.Artist) []Mood {
	name := displayName(artist)

	if c.cache != nil {
		if moods, ok := c.cache.Get(name); ok {
			if c.metrics != nil {
				c.metrics.CacheHits.Inc()
			}
			return moods
		}
	}

	var moods []Mood
	for _, provider := range c.providers {
		resolved, ok := provider.resolve(artist, name)
		if !ok {
			continue
		}
		moods = resolved
		logger.Debug("Classified artist",
			zap.String("artist", name),
			zap.String("tier", provider.name()),
			zap.Any("moods", moods))
		if c.metrics != nil {
			c.metrics.ClassificationsByTier.WithLabelValues(provider.name()).Inc()
		}
		break
	}

	if c.cache != nil {
		c.cache.Put(name, moods)
	}
	return moods
}

// displayName never returns an empty string: an unresolved artist gets
// a placeholder synthesized from its identifier.
func displayName(artist *catalog.Artist) string {
	if artist == nil {
		return "unknown artist"
	}
	if artist.Name != "" {
		return artist.Name
	}
	if artist.Id != "" {
		return "artist:" + artist.Id
	}
	return "unknown artist"
}

// signalProvider is one tier of the classification chain.
type signalProvider interface {
	name() string
	resolve(artist *catalog.Artist, displayName string) ([]Mood, bool)
}

// featureSignal averages audio features over a small sample of the
// artist's top tracks and applies the threshold rules.
type featureSignal struct {
	catalog Catalog
}

func (s *featureSignal) name() string { return "features" }

func (s *featureSignal) resolve(artist *catalog.Artist, name string) ([]Mood, bool) {
	tracks, err := s.catalog.ArtistTopTracks(name, featureSampleSize)
	if err != nil || len(tracks) == 0 {
		return nil, false
	}

	var ids []string
	for _, track := range tracks {
		if track.Id != "" {
			ids = append(ids, track.Id)
		}
	}
	if len(ids) == 0 {
		return nil, false
	}

	features, err := s.catalog.AudioFeatures(ids)
	if err != nil || len(features) == 0 {
		return nil, false
	}

	var sum featureVector
	count := 0
	for _, id := range ids {
		af, ok := features[id]
		if !ok || af == nil {
			continue
		}
		sum.Tempo += af.Tempo
		sum.Energy += af.Energy
		sum.Danceability += af.Danceability
		sum.Valence += af.Valence
		sum.Acousticness += af.Acousticness
		count++
	}
	if count == 0 {
		return nil, false
	}

	avg := featureVector{
		Tempo:        sum.Tempo / float64(count),
		Energy:       sum.Energy / float64(count),
		Danceability: sum.Danceability / float64(count),
		Valence:      sum.Valence / float64(count),
		Acousticness: sum.Acousticness / float64(count),
	}

	if moods := moodRules(avg); len(moods) > 0 {
		return moods, true
	}
	return []Mood{bestScoringMood(avg)}, true
}

// tagSignal scores moods by keyword matches over the first tag set
// that turns up non-empty: the artist's own genres, then each source
// in priority order. Sources are not merged once one yields.
type tagSignal struct {
	sources []TagSource
}

func (s *tagSignal) name() string { return "tags" }

func (s *tagSignal) resolve(artist *catalog.Artist, name string) ([]Mood, bool) {
	tags := s.gatherTags(artist, name)
	if len(tags) == 0 {
		return nil, false
	}

	scores := tagScores(tags)

	var moods []Mood
	for _, mood := range AllMoods {
		if scores[mood] >= tagMatchThreshold {
			moods = append(moods, mood)
		}
	}
	if len(moods) > 0 {
		return moods, true
	}

	var best Mood
	bestScore := 0
	for _, mood := range AllMoods {
		if scores[mood] > bestScore {
			best = mood
			bestScore = scores[mood]
		}
	}
	if bestScore == 0 {
		return nil, false
	}
	return []Mood{best}, true
}

func (s *tagSignal) gatherTags(artist *catalog.Artist, name string) []string {
	if artist != nil && len(artist.Genres) > 0 {
		return artist.Genres
	}
	for _, source := range s.sources {
		tags, err := source.ArtistTags(name)
		if err != nil {
			logger.Debug("Tag source failed, trying next",
				zap.String("source", source.Name()),
				zap.String("artist", name),
				zap.Error(err))
			continue
		}
		if len(tags) > 0 {
			return tags
		}
	}
	return nil
}

// lexicalSignal matches fixed substrings of the display name itself.
type lexicalSignal struct{}

func (s *lexicalSignal) name() string { return "lexical" }

func (s *lexicalSignal) resolve(artist *catalog.Artist, name string) ([]Mood, bool) {
	lowered := normalizeName(name)
	for _, rule := range lexicalRules {
		if strings.Contains(lowered, rule.substring) {
			return []Mood{rule.mood}, true
		}
	}
	return nil, false
}

// hashSignal is the terminal tier; it always yields a mood.
type hashSignal struct{}

func (s *hashSignal) name() string { return "hash" }

func (s *hashSignal) resolve(artist *catalog.Artist, name string) ([]Mood, bool) {
	return []Mood{fallbackMood(name)}, true
}
