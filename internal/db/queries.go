package db

// SQL queries for database operations
const (
	// Artist mood cache
	insertArtistMoodsQuery = `
		INSERT INTO "artist_moods" (
			name,
			moods,
			classified_at
		)
		VALUES ($1, $2, NOW())
		ON CONFLICT (name) DO UPDATE
		SET
			moods = $2,
			classified_at = NOW()
	`
	selectArtistMoodsQuery = `
		SELECT name, moods
		FROM "artist_moods"
		WHERE name = $1
		AND classified_at > NOW() - INTERVAL '30 days'
	`

	// Discovered tracks
	insertTrackQuery = `
		INSERT INTO "track" (
			track_id,
			name,
			artist_names,
			popularity,
			duration_ms,
			explicit,
			preview_url,
			moods,
			audio_features
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (track_id) DO UPDATE
		SET
			popularity = $4,
			moods = $8,
			audio_features = $9
	`
	selectTracksByIdsQuery = `
		SELECT track_id, name, artist_names, popularity, duration_ms, explicit, preview_url, moods, audio_features
		FROM "track"
		WHERE track_id = ANY($1)
	`
)
