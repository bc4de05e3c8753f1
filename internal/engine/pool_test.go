package engine

import (
	"testing"

	"moodmixserver.com/m/v2/internal/catalog"
)

func TestPoolDedupAndBound(t *testing.T) {
	pool := NewPool(3)

	a := &catalog.Track{Id: "1", Name: "Creep", Artists: []*catalog.Artist{{Name: "Radiohead"}}}
	duplicate := &catalog.Track{Id: "2", Name: "  CREEP ", Artists: []*catalog.Artist{{Name: "radiohead"}}}
	b := &catalog.Track{Id: "3", Name: "Creep", Artists: []*catalog.Artist{{Name: "TLC"}}}
	c := &catalog.Track{Id: "4", Name: "Karma Police", Artists: []*catalog.Artist{{Name: "Radiohead"}}}
	overflow := &catalog.Track{Id: "5", Name: "No Surprises", Artists: []*catalog.Artist{{Name: "Radiohead"}}}

	if !pool.Add(a) {
		t.Fatal("first insert rejected")
	}
	// Same song under normalization, different catalog ID: first
	// writer wins.
	if pool.Add(duplicate) {
		t.Fatal("duplicate key accepted")
	}
	// Same title by a different artist is a different song.
	if !pool.Add(b) {
		t.Fatal("same-title different-artist insert rejected")
	}
	if !pool.Add(c) {
		t.Fatal("third insert rejected")
	}
	if !pool.Full() {
		t.Fatal("pool should be full at its limit")
	}
	if pool.Add(overflow) {
		t.Fatal("insert past the limit accepted")
	}

	tracks := pool.Tracks()
	if len(tracks) != 3 {
		t.Fatalf("len: got %d, want 3", len(tracks))
	}
	// Insertion order is preserved and the first writer's fields are
	// untouched.
	if tracks[0].Id != "1" || tracks[1].Id != "3" || tracks[2].Id != "4" {
		t.Fatalf("order: got %s,%s,%s", tracks[0].Id, tracks[1].Id, tracks[2].Id)
	}
}

func TestPoolNonPositiveLimitHoldsNothing(t *testing.T) {
	for _, limit := range []int{0, -1} {
		pool := NewPool(limit)
		if !pool.Full() {
			t.Errorf("limit %d: pool should start full", limit)
		}
		if pool.Add(&catalog.Track{Name: "Anything", Artists: []*catalog.Artist{{Name: "Anyone"}}}) {
			t.Errorf("limit %d: insert accepted", limit)
		}
		if pool.Len() != 0 {
			t.Errorf("limit %d: len: got %d, want 0", limit, pool.Len())
		}
	}
}

func TestPoolRejectsUnusableTracks(t *testing.T) {
	pool := NewPool(5)
	if pool.Add(nil) {
		t.Fatal("nil track accepted")
	}
	if pool.Add(&catalog.Track{Id: "1"}) {
		t.Fatal("nameless track accepted")
	}
	// A track with a name but no artists is still addressable.
	if !pool.Add(&catalog.Track{Name: "Untitled"}) {
		t.Fatal("artistless track rejected")
	}
}
