package service

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"moodmixserver.com/m/v2/internal/catalog"
	"moodmixserver.com/m/v2/internal/db"
	"moodmixserver.com/m/v2/internal/engine"
)

const (
	defaultMixSize = 50
	maxMixSize     = 200
	maxSeeds       = 10
)

type Message struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Mixer aggregates mood-filtered candidate tracks for a set of seed
// artists.
type Mixer interface {
	Aggregate(seeds []*catalog.Artist, mood engine.Mood, limit int) []*catalog.Track
}

// ArtistClassifier resolves an artist to its mood labels.
type ArtistClassifier interface {
	Classify(artist *catalog.Artist) []engine.Mood
}

// Service wires the engine to HTTP handlers. Persistence calls are
// held as fields so tests can swap them out.
type Service struct {
	mixer      Mixer
	classifier ArtistClassifier

	saveTracks      func([]*db.Track) error
	saveArtistMoods func(*db.ArtistMoods) error
	getArtistMoods  func(string) (*db.ArtistMoods, error)
	getTracksByIds  func([]string) ([]*db.Track, error)
}

func New(mixer Mixer, classifier ArtistClassifier) *Service {
	return &Service{
		mixer:           mixer,
		classifier:      classifier,
		saveTracks:      db.SaveTracks,
		saveArtistMoods: db.SaveArtistMoods,
		getArtistMoods:  db.GetArtistMoods,
		getTracksByIds:  db.GetTracksByIds,
	}
}

func HomeHandler(c *gin.Context) {
	c.String(http.StatusOK, "MoodMix Backend")
}

func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// TrackResponse is the wire shape of one recommended track.
type TrackResponse struct {
	Id         string   `json:"id,omitempty"`
	Name       string   `json:"name"`
	Artists    []string `json:"artists"`
	Moods      []string `json:"moods"`
	DurationMS int      `json:"duration_ms,omitempty"`
	PreviewURL string   `json:"preview_url,omitempty"`
}

// MixHandler builds a mood-balanced playlist from comma-separated seed
// artists. Seeds may be artist names or 22-character catalog ids.
func (s *Service) MixHandler(c *gin.Context) {
	logger.Debug("MixHandler called")

	seedsParam := c.Query("seeds")
	if seedsParam == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing seeds"})
		return
	}

	seeds := parseSeeds(seedsParam)
	if len(seeds) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No usable seeds"})
		return
	}
	if len(seeds) > maxSeeds {
		seeds = seeds[:maxSeeds]
	}

	size := defaultMixSize
	if sizeStr := c.Query("size"); sizeStr != "" {
		parsed, err := strconv.Atoi(sizeStr)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid size"})
			return
		}
		size = parsed
	}
	if size > maxMixSize {
		size = maxMixSize
	}

	// One aggregation pass per mood. The same underlying track may be
	// pooled for several moods, so labels accumulate on one batch
	// entry per merge key.
	perMood := make([][]*catalog.Track, 0, len(engine.AllMoods))
	var batch []*engine.LabeledTrack
	labels := make(map[string]*engine.LabeledTrack)
	for _, mood := range engine.AllMoods {
		tracks := s.mixer.Aggregate(seeds, mood, size)
		perMood = append(perMood, tracks)
		for _, track := range tracks {
			key := trackKey(track)
			if entry, ok := labels[key]; ok {
				if !engine.ContainsMood(entry.Moods, mood) {
					entry.Moods = append(entry.Moods, mood)
				}
				continue
			}
			entry := &engine.LabeledTrack{Track: track, Moods: []engine.Mood{mood}}
			labels[key] = entry
			batch = append(batch, entry)
		}
	}

	minPer := size / 10
	if minPer < 1 {
		minPer = 1
	}
	batch = engine.EnforceBalance(batch, engine.AllMoods, minPer)

	final := engine.MergeShuffle(perMood, size)

	response := make([]TrackResponse, 0, len(final))
	for _, track := range final {
		var moods []engine.Mood
		if entry, ok := labels[trackKey(track)]; ok {
			moods = entry.Moods
		}
		response = append(response, trackResponse(track, moods))
	}

	if dbTracks := convertBatchToDBTracks(batch); len(dbTracks) > 0 {
		go func() {
			if err := s.saveTracks(dbTracks); err != nil {
				logger.Warn("Failed to save mixed tracks", zap.Error(err))
			}
		}()
	}

	logger.Info("Mix built",
		zap.Int("seeds", len(seeds)),
		zap.Int("size", size),
		zap.Int("tracks", len(response)))

	c.JSON(http.StatusOK, gin.H{
		"count":  len(response),
		"seeds":  len(seeds),
		"tracks": response,
	})
}

const maxTrackIds = 50

// TracksHandler returns previously discovered tracks by id, with
// stored moods and feature vectors.
func (s *Service) TracksHandler(c *gin.Context) {
	logger.Debug("TracksHandler called")

	idsParam := c.Query("ids")
	if idsParam == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing ids"})
		return
	}

	var ids []string
	for _, id := range strings.Split(idsParam, ",") {
		id = strings.TrimSpace(id)
		if id != "" && catalog.IsCatalogID(id) {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "No valid track ids provided. Track ids must be 22-character alphanumeric strings.",
		})
		return
	}
	if len(ids) > maxTrackIds {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Too many track ids"})
		return
	}

	tracks, err := s.getTracksByIds(ids)
	if err != nil {
		logger.Error("Track lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":  len(tracks),
		"tracks": tracks,
	})
}

// ArtistMoodsHandler classifies one artist by name, read-through
// against the durable mood store.
func (s *Service) ArtistMoodsHandler(c *gin.Context) {
	logger.Debug("ArtistMoodsHandler called")

	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing name"})
		return
	}

	stored, err := s.getArtistMoods(name)
	if err != nil {
		logger.Warn("Artist mood lookup failed, classifying live",
			zap.String("artist", name), zap.Error(err))
	}
	if stored != nil {
		c.JSON(http.StatusOK, gin.H{
			"artist": stored.Name,
			"moods":  stored.Moods,
			"source": "store",
		})
		return
	}

	moods := s.classifier.Classify(&catalog.Artist{Name: name})

	record := &db.ArtistMoods{Name: name, Moods: moodStrings(moods)}
	go func() {
		if err := s.saveArtistMoods(record); err != nil {
			logger.Warn("Failed to save artist moods",
				zap.String("artist", name), zap.Error(err))
		}
	}()

	c.JSON(http.StatusOK, gin.H{
		"artist": name,
		"moods":  moodStrings(moods),
		"source": "live",
	})
}
