package catalog

import (
	"fmt"
	"net/url"

	"go.uber.org/zap"
)

// SimilarArtists returns the names of up to limit artists similar to
// the named one, per the scrobble service's similarity index.
func (c *Client) SimilarArtists(name string, limit int) ([]string, error) {
	logger.Debug("Attempting to get similar artists", zap.String("artist", name))
	if limit <= 0 || limit > limitMax {
		limit = limitMax
	}

	reqURL := fmt.Sprintf("%s/?method=artist.getsimilar&artist=%s&limit=%d&api_key=%s&format=json",
		c.scrobbleAPIURL, url.QueryEscape(name), limit, c.scrobbleAPIKey)

	response, err := fetchJSON[similarArtistsResponse](c, keySimilarArtists, reqURL, "")
	if err != nil {
		logger.Error("Error fetching similar artists", zap.String("artist", name), zap.Error(err))
		return nil, err
	}

	var names []string
	for _, artist := range response.SimilarArtists.Artists {
		if artist.Name != "" {
			names = append(names, artist.Name)
		}
	}

	logger.Debug("Successfully retrieved similar artists",
		zap.String("artist", name),
		zap.Int("count", len(names)))
	return names, nil
}

// ArtistTopTracks returns up to limit of an artist's most popular
// tracks. Accepts either a catalog ID or a display name; names are
// resolved through artist search first.
func (c *Client) ArtistTopTracks(nameOrID string, limit int) ([]*Track, error) {
	logger.Debug("Attempting to get top tracks for artist", zap.String("artist", nameOrID))

	artistId := nameOrID
	if !IsCatalogID(nameOrID) {
		resolved, err := c.searchArtist(nameOrID)
		if err != nil {
			return nil, err
		}
		if resolved == nil || resolved.Id == "" {
			return nil, fmt.Errorf("artist %q not found in catalog", nameOrID)
		}
		artistId = resolved.Id
	}

	token, err := getSecretToken()
	if err != nil {
		logger.Error("Error getting secret token for ArtistTopTracks",
			zap.String("artistId", artistId), zap.Error(err))
		return nil, err
	}

	reqURL := fmt.Sprintf("%s/artists/%s/top-tracks", c.catalogAPIURL, artistId)
	response, err := fetchJSON[artistsTopTracksResponse](c, keyTopTracks, reqURL, token)
	if err != nil {
		logger.Error("Error fetching artist top tracks",
			zap.String("artistId", artistId), zap.Error(err))
		return nil, err
	}

	var tracks []*Track
	for i := range response.Tracks {
		track := &response.Tracks[i]
		// Nameless entries cannot be deduplicated downstream; drop
		// them instead of passing on a partially populated track.
		if track.Name == "" {
			continue
		}
		tracks = append(tracks, track)
		if len(tracks) >= limit && limit > 0 {
			break
		}
	}

	logger.Debug("Successfully retrieved artist top tracks",
		zap.String("artistId", artistId),
		zap.Int("count", len(tracks)))
	return tracks, nil
}

// TopArtistsByTag returns the names of up to limit of the most popular
// artists under a descriptive tag.
func (c *Client) TopArtistsByTag(tag string, limit int) ([]string, error) {
	logger.Debug("Attempting to get top artists for tag", zap.String("tag", tag))
	if limit <= 0 || limit > limitMax {
		limit = limitMax
	}

	reqURL := fmt.Sprintf("%s/?method=tag.gettopartists&tag=%s&limit=%d&api_key=%s&format=json",
		c.scrobbleAPIURL, url.QueryEscape(tag), limit, c.scrobbleAPIKey)

	response, err := fetchJSON[tagTopArtistsResponse](c, keyTagTopArtists, reqURL, "")
	if err != nil {
		logger.Error("Error fetching top artists for tag", zap.String("tag", tag), zap.Error(err))
		return nil, err
	}

	var names []string
	for _, artist := range response.TopArtists.Artists {
		if artist.Name != "" {
			names = append(names, artist.Name)
		}
	}

	logger.Debug("Successfully retrieved top artists for tag",
		zap.String("tag", tag),
		zap.Int("count", len(names)))
	return names, nil
}

// searchArtist resolves a display name to its best catalog match.
func (c *Client) searchArtist(name string) (*Artist, error) {
	token, err := getSecretToken()
	if err != nil {
		return nil, err
	}

	reqURL := fmt.Sprintf("%s/search?type=artist&limit=1&q=%s", c.catalogAPIURL, url.QueryEscape(name))
	response, err := fetchJSON[artistSearchResponse](c, keySearch, reqURL, token)
	if err != nil {
		logger.Error("Error searching for artist", zap.String("artist", name), zap.Error(err))
		return nil, err
	}

	if len(response.Artists.Items) == 0 {
		return nil, nil
	}
	return &response.Artists.Items[0], nil
}
