package catalog

import (
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// ScrobbleTags serves descriptive tags from the scrobble service's
// crowd-sourced tag index. Primary tag source for classification.
type ScrobbleTags struct {
	client *Client
}

func NewScrobbleTags(c *Client) *ScrobbleTags {
	return &ScrobbleTags{client: c}
}

func (s *ScrobbleTags) Name() string { return "scrobble" }

func (s *ScrobbleTags) ArtistTags(artist string) ([]string, error) {
	logger.Debug("Attempting to get tags for artist", zap.String("artist", artist))

	reqURL := fmt.Sprintf("%s/?method=artist.gettoptags&artist=%s&api_key=%s&format=json",
		s.client.scrobbleAPIURL, url.QueryEscape(artist), s.client.scrobbleAPIKey)

	response, err := fetchJSON[artistTopTagsResponse](s.client, keyArtistTags, reqURL, "")
	if err != nil {
		logger.Error("Error fetching artist tags", zap.String("artist", artist), zap.Error(err))
		return nil, err
	}

	var tags []string
	for _, tag := range response.TopTags.Tags {
		if tag.Name != "" {
			tags = append(tags, strings.ToLower(tag.Name))
		}
	}

	logger.Debug("Successfully retrieved artist tags",
		zap.String("artist", artist),
		zap.Int("count", len(tags)))
	return tags, nil
}

// CatalogGenres serves an artist's genre list from catalog search.
// Secondary tag source, consulted only when the scrobble index comes
// back empty.
type CatalogGenres struct {
	client *Client
}

func NewCatalogGenres(c *Client) *CatalogGenres {
	return &CatalogGenres{client: c}
}

func (g *CatalogGenres) Name() string { return "catalog-genres" }

func (g *CatalogGenres) ArtistTags(artist string) ([]string, error) {
	logger.Debug("Attempting to get catalog genres for artist", zap.String("artist", artist))

	resolved, err := g.client.searchArtist(artist)
	if err != nil {
		logger.Error("Error resolving artist for genres", zap.String("artist", artist), zap.Error(err))
		return nil, err
	}
	if resolved == nil {
		return nil, nil
	}

	var genres []string
	for _, genre := range resolved.Genres {
		if genre != "" {
			genres = append(genres, strings.ToLower(genre))
		}
	}

	logger.Debug("Successfully retrieved catalog genres",
		zap.String("artist", artist),
		zap.Int("count", len(genres)))
	return genres, nil
}
