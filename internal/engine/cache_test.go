package engine

import (
	"fmt"
	"testing"
	"time"
)

func TestMoodCacheExpiry(t *testing.T) {
	cache := NewMoodCache()
	current := time.Now()
	cache.now = func() time.Time { return current }

	cache.Put("Radiohead", []Mood{MoodMelancholy})

	if moods, ok := cache.Get("radiohead"); !ok || moods[0] != MoodMelancholy {
		t.Fatalf("fresh entry: got %v/%v", moods, ok)
	}

	current = current.Add(defaultCacheTTL + time.Minute)
	if _, ok := cache.Get("Radiohead"); ok {
		t.Fatal("expired entry served")
	}
	if cache.Len() != 0 {
		t.Fatalf("expired entry not dropped, len=%d", cache.Len())
	}
}

func TestMoodCacheBounded(t *testing.T) {
	cache := NewMoodCache()
	cache.maxEntries = 5

	for i := 0; i < 10; i++ {
		cache.Put(fmt.Sprintf("artist-%d", i), []Mood{MoodChill})
	}
	if cache.Len() > 5 {
		t.Fatalf("cache grew past its bound: %d", cache.Len())
	}
	// The most recent entry always survives eviction.
	if _, ok := cache.Get("artist-9"); !ok {
		t.Fatal("latest entry evicted")
	}
}
