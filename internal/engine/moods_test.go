package engine

import "testing"

func TestMoodRules(t *testing.T) {
	tests := []struct {
		name   string
		vector featureVector
		want   []Mood
	}{
		{
			name:   "energetic dance track is high-energy only",
			vector: featureVector{Energy: 0.9, Danceability: 0.8, Tempo: 150, Acousticness: 0.1, Valence: 0.6},
			want:   []Mood{MoodHighEnergy},
		},
		{
			name:   "quiet acoustic low-valence track is chill and melancholy",
			vector: featureVector{Energy: 0.2, Danceability: 0.3, Tempo: 80, Acousticness: 0.8, Valence: 0.2},
			want:   []Mood{MoodChill, MoodMelancholy},
		},
		{
			name:   "middling vector passes nothing",
			vector: featureVector{Energy: 0.5, Danceability: 0.5, Tempo: 100, Acousticness: 0.3, Valence: 0.5},
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := moodRules(tt.vector)
			if len(got) != len(tt.want) {
				t.Fatalf("moods: got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("moods: got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestBestScoringMood(t *testing.T) {
	// High valence with low danceability passes no rule but should
	// score happy above the rest.
	v := featureVector{Energy: 0.5, Danceability: 0.5, Tempo: 100, Acousticness: 0.3, Valence: 0.9}
	if got := bestScoringMood(v); got != MoodHappy {
		t.Fatalf("best mood: got %v, want %v", got, MoodHappy)
	}
}

func TestTagScores(t *testing.T) {
	scores := tagScores([]string{"Dance Pop", "disco", "synthpop", "norwegian jazz"})
	if scores[MoodHappy] != 3 {
		t.Fatalf("happy score: got %d, want 3", scores[MoodHappy])
	}
	if scores[MoodChill] != 1 {
		t.Fatalf("chill score: got %d, want 1", scores[MoodChill])
	}
	if scores[MoodHighEnergy] != 0 {
		t.Fatalf("high-energy score: got %d, want 0", scores[MoodHighEnergy])
	}
}

func TestFallbackMoodDeterministic(t *testing.T) {
	first := fallbackMood("Radiohead")
	if !ContainsMood(AllMoods, first) {
		t.Fatalf("fallback mood %v not in the fixed set", first)
	}
	for i := 0; i < 10; i++ {
		if fallbackMood("Radiohead") != first {
			t.Fatal("fallback mood is not stable across calls")
		}
	}
	// Hashing is case-insensitive.
	if fallbackMood("RADIOHEAD") != first {
		t.Fatal("fallback mood must be case-insensitive")
	}
}
