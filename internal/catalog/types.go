package catalog

type Image struct {
	URL string `json:"url"`
}

type Artist struct {
	Id         string   `json:"id"`
	Name       string   `json:"name"`
	Genres     []string `json:"genres"`
	Popularity int      `json:"popularity"`
	Images     []Image  `json:"images"`
}

type Track struct {
	Id            string         `json:"id"`
	Name          string         `json:"name"`
	Artists       []*Artist      `json:"artists"`
	Popularity    int            `json:"popularity"`
	DurationMS    int            `json:"duration_ms"`
	Explicit      bool           `json:"explicit"`
	PreviewURL    string         `json:"preview_url"`
	Images        []Image        `json:"images"`
	AudioFeatures *AudioFeatures `json:"audio_features"`
}

type AudioFeatures struct {
	Id           string  `json:"id"`
	Danceability float64 `json:"danceability"`
	Energy       float64 `json:"energy"`
	Loudness     float64 `json:"loudness"`
	Speechiness  float64 `json:"speechiness"`
	Acousticness float64 `json:"acousticness"`
	Liveness     float64 `json:"liveness"`
	Valence      float64 `json:"valence"`
	Tempo        float64 `json:"tempo"`
}

// FirstArtistName returns the track's lead artist, or "" when the
// artist list is empty.
func (t *Track) FirstArtistName() string {
	if len(t.Artists) == 0 || t.Artists[0] == nil {
		return ""
	}
	return t.Artists[0].Name
}

type artistsTopTracksResponse struct {
	Tracks []Track `json:"tracks"`
}

type artistSearchResponse struct {
	Artists struct {
		Items []Artist `json:"items"`
	} `json:"artists"`
}

type audioFeaturesResponse struct {
	AudioFeatures []AudioFeatures `json:"audio_features"`
}

type similarArtistsResponse struct {
	SimilarArtists struct {
		Artists []struct {
			Name string `json:"name"`
		} `json:"artist"`
	} `json:"similarartists"`
}

type artistTopTagsResponse struct {
	TopTags struct {
		Tags []struct {
			Name  string `json:"name"`
			Count int    `json:"count"`
		} `json:"tag"`
	} `json:"toptags"`
}

type tagTopArtistsResponse struct {
	TopArtists struct {
		Artists []struct {
			Name string `json:"name"`
		} `json:"artist"`
	} `json:"topartists"`
}
