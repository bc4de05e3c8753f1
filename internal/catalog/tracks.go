package catalog

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const audioFeaturesBatch = 100

// AudioFeatures batch-fetches the numeric feature vectors for the
// given track IDs, in batches of 100. IDs the upstream does not know
// are simply absent from the result map.
func (c *Client) AudioFeatures(ids []string) (map[string]*AudioFeatures, error) {
	if len(ids) == 0 {
		return map[string]*AudioFeatures{}, nil
	}

	token, err := getSecretToken()
	if err != nil {
		return nil, err
	}

	features := make(map[string]*AudioFeatures, len(ids))
	for i := 0; i < len(ids); i += audioFeaturesBatch {
		end := i + audioFeaturesBatch
		if end > len(ids) {
			end = len(ids)
		}

		reqURL := fmt.Sprintf("%s/audio-features?ids=%s", c.catalogAPIURL, strings.Join(ids[i:end], ","))
		response, err := fetchJSON[audioFeaturesResponse](c, keyAudioFeatures, reqURL, token)
		if err != nil {
			logger.Error("Error fetching audio features batch",
				zap.Int("batchStart", i), zap.Error(err))
			return nil, err
		}

		for j := range response.AudioFeatures {
			af := &response.AudioFeatures[j]
			if af.Id != "" {
				features[af.Id] = af
			}
		}
	}

	logger.Debug("Successfully retrieved audio features",
		zap.Int("requested", len(ids)),
		zap.Int("resolved", len(features)))
	return features, nil
}
