package engine

import (
	"hash/fnv"
	"strings"
)

// Mood is one of the fixed intent buckets a track or artist can be
// filed under.
type Mood string

const (
	MoodHighEnergy Mood = "high-energy"
	MoodHappy      Mood = "happy"
	MoodChill      Mood = "chill"
	MoodMelancholy Mood = "melancholy"
)

// AllMoods is the closed mood set in its stable order. Balance
// enforcement and the hash fallback both depend on this order.
var AllMoods = []Mood{MoodHighEnergy, MoodHappy, MoodChill, MoodMelancholy}

// featureVector is the averaged numeric descriptor sample used by the
// audio-feature tier.
type featureVector struct {
	Tempo        float64
	Energy       float64
	Danceability float64
	Valence      float64
	Acousticness float64
}

// tempoDivisor normalizes tempo into roughly [0,1] for weighted scoring.
const tempoDivisor = 200.0

// moodRules returns every mood whose hand-tuned threshold rule the
// vector satisfies.
func moodRules(f featureVector) []Mood {
	var moods []Mood
	if f.Energy >= 0.7 && f.Tempo >= 120 {
		moods = append(moods, MoodHighEnergy)
	}
	if f.Valence >= 0.65 && f.Danceability >= 0.55 {
		moods = append(moods, MoodHappy)
	}
	if f.Energy <= 0.4 && f.Acousticness >= 0.4 {
		moods = append(moods, MoodChill)
	}
	if f.Valence <= 0.35 && f.Energy <= 0.6 {
		moods = append(moods, MoodMelancholy)
	}
	return moods
}

// moodScore is the weighted linear fallback used when no threshold
// rule passes. Ties break toward the earlier mood in AllMoods.
func moodScore(mood Mood, f featureVector) float64 {
	switch mood {
	case MoodHighEnergy:
		return 0.5*f.Energy + 0.3*(f.Tempo/tempoDivisor) + 0.2*f.Danceability
	case MoodHappy:
		return 0.6*f.Valence + 0.4*f.Danceability
	case MoodChill:
		return 0.6*f.Acousticness + 0.4*(1-f.Energy)
	case MoodMelancholy:
		return 0.6*(1-f.Valence) + 0.4*(1-f.Energy)
	default:
		return 0
	}
}

func bestScoringMood(f featureVector) Mood {
	best := AllMoods[0]
	bestScore := moodScore(best, f)
	for _, mood := range AllMoods[1:] {
		if score := moodScore(mood, f); score > bestScore {
			best = mood
			bestScore = score
		}
	}
	return best
}

// moodKeywords drive the tag tier: each keyword is matched as a
// case-insensitive substring of a tag, and a mood needs
// tagMatchThreshold hits to qualify outright.
var moodKeywords = map[Mood][]string{
	MoodHighEnergy: {"metal", "punk", "hardcore", "rock", "edm", "drum and bass", "dubstep", "trap"},
	MoodHappy:      {"pop", "dance", "disco", "funk", "party", "tropical", "feel good"},
	MoodChill:      {"ambient", "acoustic", "lo-fi", "chillout", "chill", "jazz", "folk", "downtempo"},
	MoodMelancholy: {"sad", "blues", "emo", "slowcore", "melancholy", "soul", "singer-songwriter"},
}

const tagMatchThreshold = 2

// tagScores counts keyword matches per mood across the tag set.
func tagScores(tags []string) map[Mood]int {
	scores := make(map[Mood]int, len(AllMoods))
	for _, tag := range tags {
		lowered := strings.ToLower(tag)
		for mood, keywords := range moodKeywords {
			for _, keyword := range keywords {
				if strings.Contains(lowered, keyword) {
					scores[mood]++
					break
				}
			}
		}
	}
	return scores
}

// lexicalRules map substrings of an artist's own display name to a
// mood. First match wins.
var lexicalRules = []struct {
	substring string
	mood      Mood
}{
	{"metal", MoodHighEnergy},
	{"punk", MoodHighEnergy},
	{"disco", MoodHappy},
	{"dance", MoodHappy},
	{"acoustic", MoodChill},
	{"ambient", MoodChill},
	{"blues", MoodMelancholy},
	{"sad", MoodMelancholy},
}

// fallbackMood buckets a display name deterministically: FNV-1a 32-bit
// of the lowercased name, modulo the mood-set size. Stable across
// platforms and restarts.
func fallbackMood(name string) Mood {
	h := fnv.New32a()
	h.Write([]byte(strings.ToLower(name)))
	return AllMoods[int(h.Sum32())%len(AllMoods)]
}

// broaderTags widen a mood into search tags for phase 3 of
// aggregation.
var broaderTags = map[Mood][]string{
	MoodHighEnergy: {"rock", "metal", "electronic"},
	MoodHappy:      {"pop", "dance", "funk"},
	MoodChill:      {"chill", "acoustic", "jazz"},
	MoodMelancholy: {"indie", "blues", "soul"},
}

// defaultBroaderTags backs an unrecognized mood so phase 3 always has
// something to search.
var defaultBroaderTags = []string{"pop", "rock", "indie"}

// ContainsMood reports whether moods carries the given label.
func ContainsMood(moods []Mood, mood Mood) bool {
	for _, m := range moods {
		if m == mood {
			return true
		}
	}
	return false
}
