package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		value, ok := env[key]
		return value, ok
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(lookupFrom(map[string]string{
		"UNIVERSITY_DOMAIN": "duet.ac.bd",
	}))
	require.NoError(t, err)

	assert.Equal(t, "duet.ac.bd", cfg.UniversityDomain)
	assert.Equal(t, "DUET", cfg.UniversityName)
	assert.Equal(t, "http://localhost:11434", cfg.AIHost)
	assert.Equal(t, "embeddinggemma", cfg.EmbeddingModel)
	assert.Equal(t, "qwen2.5:3b", cfg.GeneratorModel)
	assert.Equal(t, "./data/unibot", cfg.StorePath)
	assert.Equal(t, 10, cfg.MaxSearchResults)
	assert.Equal(t, 3, cfg.TopKResults)
	assert.InDelta(t, 0.5, cfg.SimilarityThreshold, 1e-6)
	assert.Equal(t, 24*time.Hour, cfg.CacheExpiry)
	assert.Equal(t, 10*time.Second, cfg.ScrapeTimeout)
	assert.Equal(t, 5000, cfg.MaxContentLength)
	assert.Equal(t, 5, cfg.MaxScrapeURLs)
	assert.Equal(t, 180*time.Second, cfg.QueryTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.SerperAPIKey)
}

func TestFromEnv_DomainRequired(t *testing.T) {
	_, err := FromEnv(lookupFrom(map[string]string{}))
	assert.ErrorIs(t, err, ErrDomainRequired)

	_, err = FromEnv(lookupFrom(map[string]string{"UNIVERSITY_DOMAIN": "   "}))
	assert.ErrorIs(t, err, ErrDomainRequired)

	// A domain that is nothing but decoration cleans down to empty.
	_, err = FromEnv(lookupFrom(map[string]string{"UNIVERSITY_DOMAIN": "https://www./"}))
	assert.ErrorIs(t, err, ErrDomainRequired)
}

func TestFromEnv_DomainNormalization(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"duet.ac.bd", "duet.ac.bd"},
		{"https://duet.ac.bd", "duet.ac.bd"},
		{"http://www.duet.ac.bd/", "duet.ac.bd"},
		{"  https://duet.ac.bd/  ", "duet.ac.bd"},
	}
	for _, tt := range tests {
		cfg, err := FromEnv(lookupFrom(map[string]string{"UNIVERSITY_DOMAIN": tt.raw}))
		require.NoError(t, err, tt.raw)
		assert.Equal(t, tt.want, cfg.UniversityDomain, tt.raw)
	}
}

func TestFromEnv_ExplicitNameWins(t *testing.T) {
	cfg, err := FromEnv(lookupFrom(map[string]string{
		"UNIVERSITY_DOMAIN": "duet.ac.bd",
		"UNIVERSITY_NAME":   "Dhaka University of Engineering & Technology",
	}))
	require.NoError(t, err)
	assert.Equal(t, "Dhaka University of Engineering & Technology", cfg.UniversityName)
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(lookupFrom(map[string]string{
		"UNIVERSITY_DOMAIN":       "duet.ac.bd",
		"SERPER_API_KEY":          "serper-key",
		"GOOGLE_SEARCH_API_KEY":   "google-key",
		"GOOGLE_SEARCH_ENGINE_ID": "cse-id",
		"MAX_SEARCH_RESULTS":      "7",
		"CACHE_EXPIRY_HOURS":      "48",
		"SIMILARITY_THRESHOLD":    "0.65",
		"QUERY_TIMEOUT":           "60",
		"LOG_LEVEL":               "DEBUG",
	}))
	require.NoError(t, err)

	assert.Equal(t, "serper-key", cfg.SerperAPIKey)
	assert.Equal(t, "google-key", cfg.GoogleSearchAPIKey)
	assert.Equal(t, "cse-id", cfg.GoogleSearchEngineID)
	assert.Equal(t, 7, cfg.MaxSearchResults)
	assert.Equal(t, 48*time.Hour, cfg.CacheExpiry)
	assert.InDelta(t, 0.65, cfg.SimilarityThreshold, 1e-6)
	assert.Equal(t, 60*time.Second, cfg.QueryTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestFromEnv_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"non-numeric results", map[string]string{"MAX_SEARCH_RESULTS": "many"}},
		{"zero top k", map[string]string{"TOP_K_RESULTS": "0"}},
		{"threshold above one", map[string]string{"SIMILARITY_THRESHOLD": "1.5"}},
		{"negative threshold", map[string]string{"SIMILARITY_THRESHOLD": "-0.1"}},
		{"zero cache expiry", map[string]string{"CACHE_EXPIRY_HOURS": "0"}},
		{"non-numeric timeout", map[string]string{"QUERY_TIMEOUT": "soon"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := map[string]string{"UNIVERSITY_DOMAIN": "duet.ac.bd"}
			for k, v := range tt.env {
				env[k] = v
			}
			_, err := FromEnv(lookupFrom(env))
			assert.ErrorIs(t, err, ErrInvalidValue)
		})
	}
}

func TestOfficialDomains(t *testing.T) {
	cfg, err := FromEnv(lookupFrom(map[string]string{"UNIVERSITY_DOMAIN": "duet.ac.bd"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"duet.ac.bd"}, cfg.OfficialDomains())
}
