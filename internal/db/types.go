package db

type AudioFeatures struct {
	Danceability float64 `json:"danceability"`
	Energy       float64 `json:"energy"`
	Loudness     float64 `json:"loudness"`
	Speechiness  float64 `json:"speechiness"`
	Acousticness float64 `json:"acousticness"`
	Liveness     float64 `json:"liveness"`
	Valence      float64 `json:"valence"`
	Tempo        float64 `json:"tempo"`
}

type Track struct {
	TrackId       string         `json:"track_id"`
	Name          string         `json:"name"`
	ArtistNames   []string       `json:"artist_names"`
	Popularity    int            `json:"popularity"`
	DurationMS    int            `json:"duration_ms"`
	Explicit      bool           `json:"explicit"`
	PreviewURL    string         `json:"preview_url"`
	Moods         []string       `json:"moods"`
	AudioFeatures *AudioFeatures `json:"audio_features"`
}

type ArtistMoods struct {
	Name  string   `json:"name"`
	Moods []string `json:"moods"`
}
