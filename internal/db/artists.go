package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// SaveArtistMoods upserts one artist's classification into the durable
// mood cache.
func SaveArtistMoods(artist *ArtistMoods) error {
	if artist == nil || artist.Name == "" {
		return nil
	}

	db, err := getDB()
	if err != nil {
		return fmt.Errorf("database connection error: %w", err)
	}

	_, err = db.Exec(context.Background(), insertArtistMoodsQuery, artist.Name, artist.Moods)
	if err != nil {
		return fmt.Errorf("error saving artist moods: %w", err)
	}

	logger.Debug("Saved artist moods",
		zap.String("artist", artist.Name),
		zap.Strings("moods", artist.Moods))
	return nil
}

// GetArtistMoods returns a previously stored classification that is
// still fresh, or nil when the artist needs reclassifying.
func GetArtistMoods(name string) (*ArtistMoods, error) {
	db, err := getDB()
	if err != nil {
		return nil, fmt.Errorf("database connection error: %w", err)
	}

	var artist ArtistMoods
	err = db.QueryRow(context.Background(), selectArtistMoodsQuery, name).
		Scan(&artist.Name, &artist.Moods)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error querying artist moods: %w", err)
	}

	return &artist, nil
}
