package engine

import (
	"fmt"
	"testing"

	"moodmixserver.com/m/v2/internal/catalog"
)

// highEnergyClassifier builds a classifier whose own upstreams always
// fail except a tag source labeling every artist high-energy. Keeps
// classification traffic off the aggregator's fake so phase call
// counts stay clean.
func highEnergyClassifier() *Classifier {
	source := &fakeTagSource{label: "scrobble", tags: []string{"metal", "hardcore"}}
	return NewClassifier(&fakeCatalog{}, []TagSource{source}, nil)
}

func TestAggregatePhaseOneShortCircuits(t *testing.T) {
	// Five seeds: the first two resolve no similar artists, the last
	// three resolve ten each. With limit 10, phase 1 fills the pool
	// from the first resolvable seed's similar artists and phases 2
	// and 3 never execute.
	cat := &fakeCatalog{
		similar:   map[string][]string{},
		topTracks: map[string][]*catalog.Track{},
		tagTop:    map[string][]string{"rock": {"someone"}},
	}
	var seeds []*catalog.Artist
	for i := 1; i <= 5; i++ {
		name := fmt.Sprintf("seed%d", i)
		seeds = append(seeds, &catalog.Artist{Name: name})
		if i >= 3 {
			var similar []string
			for j := 1; j <= 10; j++ {
				similarName := fmt.Sprintf("%s-sim%d", name, j)
				similar = append(similar, similarName)
				cat.topTracks[similarName] = makeTracks(similarName, 5)
			}
			cat.similar[name] = similar
		}
	}

	a := NewAggregator(cat, highEnergyClassifier())
	tracks := a.Aggregate(seeds, MoodHighEnergy, 10)

	if len(tracks) != 10 {
		t.Fatalf("len: got %d, want 10", len(tracks))
	}
	// seed1 and seed2 fail, seed3 fills the pool from two similar
	// artists; seed4 and seed5 are never consulted.
	if cat.similarCalls != 3 {
		t.Fatalf("similar calls: got %d, want 3", cat.similarCalls)
	}
	if cat.trackCalls != 2 {
		t.Fatalf("top-track calls: got %d, want 2", cat.trackCalls)
	}
	if cat.tagTopCalls != 0 {
		t.Fatalf("tag calls: got %d, want 0 (phase 3 must not run)", cat.tagTopCalls)
	}

	// Phase 1 inserts precede in insertion order.
	for i, track := range tracks {
		wantArtist := "seed3-sim1"
		if i >= 5 {
			wantArtist = "seed3-sim2"
		}
		if track.FirstArtistName() != wantArtist {
			t.Fatalf("track %d from %s, want %s", i, track.FirstArtistName(), wantArtist)
		}
	}
}

func TestAggregateFallsThroughPhases(t *testing.T) {
	// No similar artists anywhere: phase 1 contributes nothing, phase
	// 2 pulls the seeds' own tracks, phase 3 broadens by tag.
	cat := &fakeCatalog{
		topTracks: map[string][]*catalog.Track{
			"seed1":      makeTracks("seed1", 2),
			"tagartist1": makeTracks("tagartist1", 2),
			"tagartist2": makeTracks("tagartist2", 2),
		},
		tagTop: map[string][]string{
			"rock":  {"tagartist1"},
			"metal": {"tagartist2"},
		},
	}

	a := NewAggregator(cat, highEnergyClassifier())
	tracks := a.Aggregate([]*catalog.Artist{{Name: "seed1"}}, MoodHighEnergy, 5)

	if len(tracks) != 5 {
		t.Fatalf("len: got %d, want 5", len(tracks))
	}
	// Phase ordering: seed tracks first, then tag-broadened ones.
	if tracks[0].FirstArtistName() != "seed1" || tracks[1].FirstArtistName() != "seed1" {
		t.Fatalf("phase 2 tracks must precede phase 3, got %s,%s",
			tracks[0].FirstArtistName(), tracks[1].FirstArtistName())
	}
	if tracks[2].FirstArtistName() != "tagartist1" {
		t.Fatalf("track 2 from %s, want tagartist1", tracks[2].FirstArtistName())
	}
	if tracks[4].FirstArtistName() != "tagartist2" {
		t.Fatalf("track 4 from %s, want tagartist2", tracks[4].FirstArtistName())
	}
}

func TestAggregateUnknownMoodUsesDefaultTags(t *testing.T) {
	cat := &fakeCatalog{
		topTracks: map[string][]*catalog.Track{"someone": makeTracks("someone", 3)},
		tagTop: map[string][]string{
			"pop":   {"someone"},
			"rock":  {},
			"indie": {},
		},
	}

	a := NewAggregator(cat, highEnergyClassifier())
	tracks := a.Aggregate(nil, Mood("liminal"), 3)
	if len(tracks) != 3 {
		t.Fatalf("len: got %d, want 3 (default tag list must back unknown moods)", len(tracks))
	}
}

func TestAggregateSeedPlaceholderNames(t *testing.T) {
	cat := &fakeCatalog{
		similar:   map[string][]string{"artist:4iV5W9uYEdYUVa79Axb7Rh": {"friend"}},
		topTracks: map[string][]*catalog.Track{"friend": makeTracks("friend", 2)},
	}

	a := NewAggregator(cat, highEnergyClassifier())
	seeds := []*catalog.Artist{
		{Id: "4iV5W9uYEdYUVa79Axb7Rh"}, // unresolved name, usable ID
		{},                             // unusable, skipped entirely
	}
	tracks := a.Aggregate(seeds, MoodHighEnergy, 2)
	if len(tracks) != 2 {
		t.Fatalf("len: got %d, want 2", len(tracks))
	}
	// Only the placeholder-named seed reached the similarity lookup.
	if cat.similarCalls != 1 {
		t.Fatalf("similar calls: got %d, want 1", cat.similarCalls)
	}
}

func TestAggregateZeroLimitYieldsNothing(t *testing.T) {
	cat := &fakeCatalog{
		similar:   map[string][]string{"seed1": {"band"}},
		topTracks: map[string][]*catalog.Track{"band": makeTracks("band", 5)},
	}
	a := NewAggregator(cat, highEnergyClassifier())

	tracks := a.Aggregate([]*catalog.Artist{{Name: "seed1"}}, MoodHighEnergy, 0)
	if len(tracks) != 0 {
		t.Fatalf("len: got %d, want 0 for a zero limit", len(tracks))
	}
	// A full-from-the-start pool short-circuits every phase.
	if cat.similarCalls != 0 || cat.trackCalls != 0 || cat.tagTopCalls != 0 {
		t.Fatalf("upstream calls made for a zero limit: similar=%d tracks=%d tags=%d",
			cat.similarCalls, cat.trackCalls, cat.tagTopCalls)
	}
}

func TestAggregateRespectsLimitZeroSeeds(t *testing.T) {
	cat := &fakeCatalog{}
	a := NewAggregator(cat, highEnergyClassifier())
	if tracks := a.Aggregate(nil, MoodChill, 10); len(tracks) != 0 {
		t.Fatalf("len: got %d, want 0 when every phase is empty", len(tracks))
	}
}
