package db

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// SaveTracks bulk-upserts discovered tracks with their feature
// vectors.
func SaveTracks(tracks []*Track) error {
	if len(tracks) == 0 {
		return nil
	}

	err := batchAndSave(tracks, insertTrackQuery, func(item any) []any {
		return trackInsertParams(item.(*Track))
	})
	if err != nil {
		return fmt.Errorf("error saving tracks: %w", err)
	}
	logger.Debug("Saved tracks", zap.Int("count", len(tracks)))

	return nil
}

// trackInsertParams orders one track's column values for the insert
// query. Missing audio features become a SQL NULL; an empty string is
// not valid JSON for the column.
func trackInsertParams(track *Track) []any {
	var audioFeaturesJSON any
	if track.AudioFeatures != nil {
		audioFeaturesBytes, err := json.Marshal(track.AudioFeatures)
		if err != nil {
			logger.Warn("Error marshaling audio features for track",
				zap.String("trackId", track.TrackId), zap.Error(err))
		} else {
			audioFeaturesJSON = string(audioFeaturesBytes)
		}
	}

	return []any{
		track.TrackId,
		track.Name,
		track.ArtistNames,
		track.Popularity,
		track.DurationMS,
		track.Explicit,
		track.PreviewURL,
		track.Moods,
		audioFeaturesJSON,
	}
}

// GetTracksByIds returns the stored rows for the given track IDs.
// Unknown IDs are simply absent from the result.
func GetTracksByIds(ids []string) ([]*Track, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	db, err := getDB()
	if err != nil {
		return nil, fmt.Errorf("database connection error: %w", err)
	}

	rows, err := db.Query(context.Background(), selectTracksByIdsQuery, ids)
	if err != nil {
		return nil, fmt.Errorf("error querying tracks: %w", err)
	}
	defer rows.Close()

	var tracks []*Track
	for rows.Next() {
		var track Track
		var audioFeaturesJSON []byte
		err := rows.Scan(
			&track.TrackId,
			&track.Name,
			&track.ArtistNames,
			&track.Popularity,
			&track.DurationMS,
			&track.Explicit,
			&track.PreviewURL,
			&track.Moods,
			&audioFeaturesJSON,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning track row: %w", err)
		}
		if len(audioFeaturesJSON) > 0 {
			var features AudioFeatures
			if err := json.Unmarshal(audioFeaturesJSON, &features); err == nil {
				track.AudioFeatures = &features
			}
		}
		tracks = append(tracks, &track)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating track rows: %w", err)
	}

	return tracks, nil
}
