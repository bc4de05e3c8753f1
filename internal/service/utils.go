package service

import (
	"strings"

	"moodmixserver.com/m/v2/internal/catalog"
	"moodmixserver.com/m/v2/internal/db"
	"moodmixserver.com/m/v2/internal/engine"
)

func parseSeeds(param string) []*catalog.Artist {
	var seeds []*catalog.Artist
	for _, raw := range strings.Split(param, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if catalog.IsCatalogID(raw) {
			seeds = append(seeds, &catalog.Artist{Id: raw})
		} else {
			seeds = append(seeds, &catalog.Artist{Name: raw})
		}
	}
	return seeds
}

// trackKey matches the merge identity: catalog id when present, name
// plus artists otherwise.
func trackKey(track *catalog.Track) string {
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

func moodStrings(moods []engine.Mood) []string {
	out := make([]string, len(moods))
	for i, mood := range moods {
		out[i] = string(mood)
	}
	return out
}

func trackResponse(track *catalog.Track, moods []engine.Mood) TrackResponse {
	artists := make([]string, 0, len(track.Artists))
	for _, artist := range track.Artists {
		if artist != nil && artist.Name != "" {
			artists = append(artists, artist.Name)
		}
	}
	return TrackResponse{
		Id:         track.Id,
		Name:       track.Name,
		Artists:    artists,
		Moods:      moodStrings(moods),
		DurationMS: track.DurationMS,
		PreviewURL: track.PreviewURL,
	}
}

func convertCatalogTrackToDBTrack(track *catalog.Track, moods []engine.Mood) *db.Track {
	artistNames := make([]string, 0, len(track.Artists))
	for _, artist := range track.Artists {
		if artist != nil && artist.Name != "" {
			artistNames = append(artistNames, artist.Name)
		}
	}

	var features *db.AudioFeatures
	if track.AudioFeatures != nil {
		features = &db.AudioFeatures{
			Danceability: track.AudioFeatures.Danceability,
			Energy:       track.AudioFeatures.Energy,
			Loudness:     track.AudioFeatures.Loudness,
			Speechiness:  track.AudioFeatures.Speechiness,
			Acousticness: track.AudioFeatures.Acousticness,
			Liveness:     track.AudioFeatures.Liveness,
			Valence:      track.AudioFeatures.Valence,
			Tempo:        track.AudioFeatures.Tempo,
		}
	}

	return &db.Track{
		TrackId:       track.Id,
		Name:          track.Name,
		ArtistNames:   artistNames,
		Popularity:    track.Popularity,
		DurationMS:    track.DurationMS,
		Explicit:      track.Explicit,
		PreviewURL:    track.PreviewURL,
		Moods:         moodStrings(moods),
		AudioFeatures: features,
	}
}

// convertBatchToDBTracks keeps only entries with a catalog id, since
// the track table is keyed on it.
func convertBatchToDBTracks(batch []*engine.LabeledTrack) []*db.Track {
	var dbTracks []*db.Track
	for _, entry := range batch {
		if entry.Track == nil || entry.Track.Id == "" {
			continue
		}
		dbTracks = append(dbTracks, convertCatalogTrackToDBTrack(entry.Track, entry.Moods))
	}
	return dbTracks
}
